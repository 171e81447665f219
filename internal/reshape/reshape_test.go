package reshape

import (
	"fmt"
	"testing"

	"raincloud/domain/table"
)

func twoGroupTable() table.RawTable {
	return table.RawTable{Columns: []table.Column{
		{Name: "A", Cells: []table.Cell{table.Num(1), table.Num(2), table.Num(3), table.Num(4), table.Num(5)}},
		{Name: "B", Cells: []table.Cell{table.Num(2), table.Num(3), table.Num(4), table.Num(5), table.Num(6)}},
	}}
}

func TestReshape_TwoGroups(t *testing.T) {
	records := Reshape(twoGroupTable(), table.MaxColumns)
	if len(records) != 10 {
		t.Fatalf("expected 10 records, got %d", len(records))
	}
	if records[0].Group != "A" || records[0].Value != 1 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[9].Group != "B" || records[9].Value != 6 {
		t.Fatalf("unexpected last record: %+v", records[9])
	}
}

func TestReshape_DropsMissingCells(t *testing.T) {
	tbl := table.RawTable{Columns: []table.Column{
		{Name: "X", Cells: []table.Cell{table.Num(1), table.Missing, table.Num(3)}},
	}}
	records := Reshape(tbl, table.MaxColumns)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Value != 1 || records[1].Value != 3 {
		t.Fatalf("unexpected values: %+v", records)
	}
}

func TestReshape_EmptyTable(t *testing.T) {
	if got := Reshape(table.RawTable{}, table.MaxColumns); len(got) != 0 {
		t.Fatalf("expected no records from empty table, got %d", len(got))
	}
	if got := Groups(table.RawTable{}, table.MaxColumns); len(got) != 0 {
		t.Fatalf("expected no groups from empty table, got %d", len(got))
	}
}

func TestReshape_TruncatesToColumnCap(t *testing.T) {
	var cols []table.Column
	for i := 0; i < table.MaxColumns+5; i++ {
		cols = append(cols, table.Column{
			Name:  fmt.Sprintf("C%02d", i),
			Cells: []table.Cell{table.Num(float64(i))},
		})
	}
	tbl := table.RawTable{Columns: cols}

	groups := Groups(tbl, table.MaxColumns)
	if len(groups) != table.MaxColumns {
		t.Fatalf("expected %d groups, got %d", table.MaxColumns, len(groups))
	}
	if groups[0] != "C00" || groups[len(groups)-1] != fmt.Sprintf("C%02d", table.MaxColumns-1) {
		t.Fatalf("truncation must keep the first columns in order, got %v", groups)
	}

	records := Reshape(tbl, table.MaxColumns)
	if len(records) != table.MaxColumns {
		t.Fatalf("expected %d records, got %d", table.MaxColumns, len(records))
	}
}

func TestSeries_AllMissingColumnKeepsEmptyGroup(t *testing.T) {
	tbl := table.RawTable{Columns: []table.Column{
		{Name: "Full", Cells: []table.Cell{table.Num(1), table.Num(2)}},
		{Name: "Empty", Cells: []table.Cell{table.Missing, table.Missing}},
	}}

	groups := Groups(tbl, table.MaxColumns)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", groups)
	}

	series := Series(groups, Reshape(tbl, table.MaxColumns))
	if series["Full"].Len() != 2 {
		t.Fatalf("expected 2 values in Full, got %d", series["Full"].Len())
	}
	empty, ok := series["Empty"]
	if !ok {
		t.Fatalf("all-missing column must still appear as a group")
	}
	if empty.Len() != 0 {
		t.Fatalf("expected empty series, got %d values", empty.Len())
	}
}

func TestSeries_OrderIrrelevantWithinGroup(t *testing.T) {
	records := []table.GroupRecord{
		{Group: "G", Value: 3},
		{Group: "G", Value: 1},
		{Group: "G", Value: 2},
	}
	series := Series([]string{"G"}, records)
	if series["G"].Len() != 3 {
		t.Fatalf("expected 3 values, got %d", series["G"].Len())
	}
	sum := 0.0
	for _, v := range series["G"] {
		sum += v
	}
	if sum != 6 {
		t.Fatalf("expected values 1+2+3, got sum %g", sum)
	}
}
