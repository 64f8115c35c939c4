package sheet

import (
	"context"
	"errors"
)

var (
	// ErrStaleRow is returned by UpdateRow when the ID cell at the target
	// row no longer matches the caller's expectation. The row position was
	// looked up from a snapshot that a concurrent write has invalidated.
	ErrStaleRow = errors.New("row position is stale")

	// ErrUnknownSheet is returned for a range that names a sheet the store
	// was not initialized with.
	ErrUnknownSheet = errors.New("unknown sheet")
)

// Client performs range reads and row writes against the backing tabular
// store. Writes are full-row overwrites; there is no partial-column
// update. Derived (formula) columns are owned by the store: whatever the
// caller passes at those offsets is ignored and the formula is rewritten.
type Client interface {
	// ReadRange returns the cell values of the requested block, one slice
	// per row. Rows may be shorter than the column span when trailing
	// cells are blank; rows past the used range are omitted.
	ReadRange(ctx context.Context, spec RangeSpec) ([][]string, error)

	// AppendRow adds a row after the last used row of the schema's sheet.
	AppendRow(ctx context.Context, schema Schema, row []string) error

	// UpdateRow overwrites the row at the absolute index. expectID guards
	// against the read-modify-write race: the write is refused with
	// ErrStaleRow when the ID cell at rowIndex differs.
	UpdateRow(ctx context.Context, schema Schema, rowIndex int, expectID string, row []string) error
}
