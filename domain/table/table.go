package table

import (
	"time"

	"raincloud/domain/core"
)

// MaxColumns caps how many leading columns of an upload are used.
// Columns beyond the cap are silently ignored.
const MaxColumns = 20

// Cell is one optionally-missing numeric value.
type Cell struct {
	Value   float64
	Present bool
}

// Missing is the canonical absent cell.
var Missing = Cell{}

// Num builds a present cell.
func Num(v float64) Cell {
	return Cell{Value: v, Present: true}
}

// Column is one named, ordered sequence of cells. A column is one group.
type Column struct {
	Name  string
	Cells []Cell
}

// RawTable is the typed boundary form of an uploaded dataset: ordered named
// columns of optionally-missing numeric cells. Parsing happens at the upload
// boundary; nothing downstream sees raw strings.
type RawTable struct {
	Columns []Column
}

// ColumnCount returns the number of columns.
func (t RawTable) ColumnCount() int {
	return len(t.Columns)
}

// RowCount returns the longest column length. Readers produce rectangular
// tables, but ragged input is tolerated.
func (t RawTable) RowCount() int {
	rows := 0
	for _, col := range t.Columns {
		if len(col.Cells) > rows {
			rows = len(col.Cells)
		}
	}
	return rows
}

// ColumnNames returns column names in source order.
func (t RawTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// GroupRecord is one (group, value) observation in long form, produced from
// one present cell. Group order follows source column order.
type GroupRecord struct {
	Group string
	Value float64
}

// GroupSeries holds all observed values for one group. Order within a series
// carries no meaning downstream; consumers aggregate or compare.
type GroupSeries []float64

// Len returns the observation count.
func (s GroupSeries) Len() int { return len(s) }

// Dataset is one uploaded table held by the session store for the duration of
// the session. Nothing is persisted across process restarts.
type Dataset struct {
	ID         core.DatasetID
	Name       string
	Table      RawTable
	UploadedAt time.Time
	SizeBytes  int64
}
