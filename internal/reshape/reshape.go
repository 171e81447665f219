package reshape

import (
	"raincloud/domain/table"
)

// Reshape converts a wide table into long-form (group, value) records.
// Only the first maxColumns columns are used; missing cells emit nothing.
// An empty table is a normal input and yields an empty record set.
func Reshape(t table.RawTable, maxColumns int) []table.GroupRecord {
	kept := keptColumns(t, maxColumns)

	var records []table.GroupRecord
	for _, col := range kept {
		for _, cell := range col.Cells {
			if !cell.Present {
				continue
			}
			records = append(records, table.GroupRecord{Group: col.Name, Value: cell.Value})
		}
	}
	return records
}

// Groups returns the kept column names in source order. A column whose cells
// are all missing is still a group; it just has an empty series.
func Groups(t table.RawTable, maxColumns int) []string {
	kept := keptColumns(t, maxColumns)
	names := make([]string, len(kept))
	for i, col := range kept {
		names[i] = col.Name
	}
	return names
}

// Series splits records into per-group value series. Every named group gets
// an entry, even when no record mentions it.
func Series(groups []string, records []table.GroupRecord) map[string]table.GroupSeries {
	byGroup := make(map[string]table.GroupSeries, len(groups))
	for _, g := range groups {
		byGroup[g] = table.GroupSeries{}
	}
	for _, rec := range records {
		if _, ok := byGroup[rec.Group]; !ok {
			continue
		}
		byGroup[rec.Group] = append(byGroup[rec.Group], rec.Value)
	}
	return byGroup
}

func keptColumns(t table.RawTable, maxColumns int) []table.Column {
	if maxColumns <= 0 {
		maxColumns = table.MaxColumns
	}
	if len(t.Columns) <= maxColumns {
		return t.Columns
	}
	return t.Columns[:maxColumns]
}
