package ports

import (
	"io"

	"raincloud/domain/table"
)

// TableReaderPort parses one uploaded file into a typed RawTable.
// Implementations sniff the format from the filename extension; content that
// cannot be parsed as tabular data is rejected with an unsupported-format
// error and nothing downstream runs.
type TableReaderPort interface {
	Read(r io.Reader, filename string) (table.RawTable, error)

	// Supports reports whether the filename's extension is recognized.
	Supports(filename string) bool
}
