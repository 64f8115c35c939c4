// Package sheet mediates typed records to and from a spreadsheet-style
// tabular store: range reads, append-only writes, positional updates and
// formula-derived columns the caller must never set directly.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column describes one fixed-position column of an entity sheet.
// A non-empty Formula marks the column as derived: the store owns its
// value and rewrites the formula on every write, whatever the caller
// passed for that offset.
type Column struct {
	Name    string
	Numeric bool
	// Formula template for derived columns. "{row}" is replaced with the
	// absolute row number at write time.
	Formula string
}

// Schema is the explicit column-index table of one entity sheet. Encode
// and decode sides share it, so a column-order change is a one-line edit.
type Schema struct {
	Sheet        string
	Columns      []Column
	FirstDataRow int
}

func (s Schema) NumCols() int {
	return len(s.Columns)
}

func (s Schema) IsDerived(offset int) bool {
	return offset >= 0 && offset < len(s.Columns) && s.Columns[offset].Formula != ""
}

// FormulaFor expands the derived-column formula template for an absolute
// sheet row. Empty string for non-derived offsets.
func (s Schema) FormulaFor(offset, row int) string {
	if !s.IsDerived(offset) {
		return ""
	}
	return strings.ReplaceAll(s.Columns[offset].Formula, "{row}", fmt.Sprint(row))
}

// HeaderRow returns the column names for row 1 of a fresh sheet.
func (s Schema) HeaderRow() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// DataRange addresses the rows [startRow, endRow] across the full column
// span. endRow == 0 leaves the range open ended (read to the last used row).
func (s Schema) DataRange(startRow, endRow int) RangeSpec {
	return RangeSpec{
		Sheet:    s.Sheet,
		StartRow: startRow,
		EndRow:   endRow,
		StartCol: 1,
		EndCol:   s.NumCols(),
	}
}

// AllRows addresses every data row of the sheet.
func (s Schema) AllRows() RangeSpec {
	return s.DataRange(s.FirstDataRow, 0)
}

// IDColumn addresses the full first column, used only to learn the total
// row count and to look up row positions by record ID.
func (s Schema) IDColumn() RangeSpec {
	return RangeSpec{
		Sheet:    s.Sheet,
		StartRow: s.FirstDataRow,
		EndRow:   0,
		StartCol: 1,
		EndCol:   1,
	}
}

// RangeSpec identifies a contiguous block of cells on one sheet.
// Rows are absolute (header is row 1), columns are 1-based.
type RangeSpec struct {
	Sheet    string
	StartRow int
	EndRow   int // inclusive; 0 means open ended
	StartCol int
	EndCol   int
}

// A1 renders the range in A1 notation, e.g. "Cars!A2:V11".
func (r RangeSpec) A1() string {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if r.EndRow == 0 {
		endCol, _ := excelize.ColumnNumberToName(r.EndCol)
		return fmt.Sprintf("%s!%s:%s", r.Sheet, start, endCol)
	}
	end, _ := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	return fmt.Sprintf("%s!%s:%s", r.Sheet, start, end)
}
