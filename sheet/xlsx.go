package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore keeps the records in an xlsx workbook through excelize, one
// sheet per entity. Derived columns hold real spreadsheet formulas; reads
// evaluate them with CalcCellValue so the workbook stays the single
// source of truth for computed values.
//
// The store serializes all access with a mutex and persists the workbook
// after every write. The backing store offers no locking primitive, so
// multi-call sequences still have no atomicity across requests.
type XLSXStore struct {
	mu      sync.Mutex
	path    string
	file    *excelize.File
	schemas map[string]Schema
}

// OpenXLSX opens the workbook at path, creating it with one header row
// per schema when it does not exist yet. Missing sheets are added to an
// existing workbook as well. Only a genuinely absent file is created
// fresh: an existing workbook that fails to open is reported, never
// overwritten, since it may still be recoverable by hand.
func OpenXLSX(path string, schemas []Schema) (*XLSXStore, error) {
	byName := make(map[string]Schema, len(schemas))
	for _, s := range schemas {
		byName[s.Sheet] = s
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat workbook %s: %w", path, err)
		}
		file := excelize.NewFile()
		for _, s := range schemas {
			if err := initSheet(file, s); err != nil {
				return nil, err
			}
		}
		// Drop the default sheet the fresh workbook starts with.
		if _, ok := byName["Sheet1"]; !ok {
			_ = file.DeleteSheet("Sheet1")
		}
		if err := file.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %s: %w", path, err)
		}
		return &XLSXStore{path: path, file: file, schemas: byName}, nil
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	changed := false
	for _, s := range schemas {
		idx, err := file.GetSheetIndex(s.Sheet)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			if err := initSheet(file, s); err != nil {
				return nil, err
			}
			changed = true
		}
	}
	if changed {
		if err := file.Save(); err != nil {
			return nil, fmt.Errorf("save workbook %s: %w", path, err)
		}
	}
	return &XLSXStore{path: path, file: file, schemas: byName}, nil
}

func initSheet(file *excelize.File, s Schema) error {
	if _, err := file.NewSheet(s.Sheet); err != nil {
		return err
	}
	for i, name := range s.HeaderRow() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(s.Sheet, cell, name); err != nil {
			return err
		}
	}
	return nil
}

// Close persists any pending state and releases the workbook.
func (x *XLSXStore) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.file.Close()
}

func (x *XLSXStore) ReadRange(ctx context.Context, spec RangeSpec) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	schema, ok := x.schemas[spec.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSheet, spec.Sheet)
	}

	used, err := x.usedRows(spec.Sheet)
	if err != nil {
		return nil, err
	}
	endRow := spec.EndRow
	if endRow == 0 || endRow > used {
		endRow = used
	}
	if spec.StartRow > endRow {
		return nil, nil
	}

	rows := make([][]string, 0, endRow-spec.StartRow+1)
	for r := spec.StartRow; r <= endRow; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make([]string, 0, spec.EndCol-spec.StartCol+1)
		for c := spec.StartCol; c <= spec.EndCol; c++ {
			cell, _ := excelize.CoordinatesToCellName(c, r)
			row = append(row, x.cellValue(spec.Sheet, schema, c-1, cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cellValue evaluates derived cells and reads the rest verbatim. When
// evaluation fails the cached raw value is returned instead of an error:
// a stale derived value is the documented behavior of the backing store,
// a failed read is not.
func (x *XLSXStore) cellValue(sheetName string, schema Schema, offset int, cell string) string {
	if schema.IsDerived(offset) {
		if v, err := x.file.CalcCellValue(sheetName, cell); err == nil {
			return v
		}
	}
	v, _ := x.file.GetCellValue(sheetName, cell)
	return v
}

func (x *XLSXStore) AppendRow(ctx context.Context, schema Schema, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.schemas[schema.Sheet]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSheet, schema.Sheet)
	}
	used, err := x.usedRows(schema.Sheet)
	if err != nil {
		return err
	}
	target := used + 1
	if target < schema.FirstDataRow {
		target = schema.FirstDataRow
	}
	if err := x.writeRow(schema, target, row); err != nil {
		return err
	}
	return x.file.Save()
}

func (x *XLSXStore) UpdateRow(ctx context.Context, schema Schema, rowIndex int, expectID string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.schemas[schema.Sheet]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSheet, schema.Sheet)
	}
	if rowIndex < schema.FirstDataRow {
		return fmt.Errorf("row %d is before the first data row", rowIndex)
	}

	// Re-validate the target right before overwriting. The row index came
	// from an earlier ID-column scan and a concurrent append/update may
	// have shifted it.
	idCell, _ := excelize.CoordinatesToCellName(1, rowIndex)
	current, err := x.file.GetCellValue(schema.Sheet, idCell)
	if err != nil {
		return err
	}
	if current != expectID {
		return fmt.Errorf("%w: found %q at row %d, expected %q", ErrStaleRow, current, rowIndex, expectID)
	}

	if err := x.writeRow(schema, rowIndex, row); err != nil {
		return err
	}
	return x.file.Save()
}

// writeRow overwrites one full row. Derived offsets always get their
// formula back regardless of the caller's cell value.
func (x *XLSXStore) writeRow(schema Schema, rowIndex int, row []string) error {
	for i := 0; i < schema.NumCols(); i++ {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowIndex)
		if schema.IsDerived(i) {
			if err := x.file.SetCellFormula(schema.Sheet, cell, schema.FormulaFor(i, rowIndex)); err != nil {
				return err
			}
			continue
		}
		value := ""
		if i < len(row) {
			value = row[i]
		}
		if schema.Columns[i].Numeric && value != "" {
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				if err := x.file.SetCellValue(schema.Sheet, cell, f); err != nil {
					return err
				}
				continue
			}
		}
		if err := x.file.SetCellValue(schema.Sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// usedRows returns the last row index holding any value, header included.
func (x *XLSXStore) usedRows(sheetName string) (int, error) {
	rows, err := x.file.GetRows(sheetName)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
