package sheet

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Client used by unit tests and the
// STORE_BACKEND=memory development mode. It keeps whatever was last
// written in every cell, derived offsets included, which deliberately
// models the stale-derived-read behavior of the real store: a derived
// cell only changes when something rewrites it.
type MemoryStore struct {
	mu      sync.Mutex
	rows    map[string][][]string
	schemas map[string]Schema
}

func NewMemoryStore(schemas ...Schema) *MemoryStore {
	m := &MemoryStore{
		rows:    make(map[string][][]string),
		schemas: make(map[string]Schema),
	}
	for _, s := range schemas {
		m.schemas[s.Sheet] = s
		m.rows[s.Sheet] = nil
	}
	return m
}

// Seed replaces the sheet's data rows. Cells are stored as given, so
// tests can place literal values into derived offsets.
func (m *MemoryStore) Seed(sheetName string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, row := range rows {
		cp[i] = append([]string(nil), row...)
	}
	m.rows[sheetName] = cp
}

// Rows returns a copy of the sheet's data rows, for assertions.
func (m *MemoryStore) Rows(sheetName string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]string, len(m.rows[sheetName]))
	for i, row := range m.rows[sheetName] {
		cp[i] = append([]string(nil), row...)
	}
	return cp
}

func (m *MemoryStore) ReadRange(ctx context.Context, spec RangeSpec) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	schema, ok := m.schemas[spec.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSheet, spec.Sheet)
	}
	data := m.rows[spec.Sheet]

	// Translate absolute sheet rows to slice offsets.
	first := spec.StartRow - schema.FirstDataRow
	last := len(data) - 1
	if spec.EndRow != 0 {
		last = spec.EndRow - schema.FirstDataRow
	}
	if last > len(data)-1 {
		last = len(data) - 1
	}
	if first < 0 {
		first = 0
	}
	if first > last {
		return nil, nil
	}

	out := make([][]string, 0, last-first+1)
	for _, row := range data[first : last+1] {
		cells := make([]string, 0, spec.EndCol-spec.StartCol+1)
		for c := spec.StartCol - 1; c <= spec.EndCol-1; c++ {
			if c < len(row) {
				cells = append(cells, row[c])
			} else {
				cells = append(cells, "")
			}
		}
		out = append(out, cells)
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, schema Schema, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schemas[schema.Sheet]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSheet, schema.Sheet)
	}
	m.rows[schema.Sheet] = append(m.rows[schema.Sheet], append([]string(nil), row...))
	return nil
}

func (m *MemoryStore) UpdateRow(ctx context.Context, schema Schema, rowIndex int, expectID string, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schemas[schema.Sheet]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSheet, schema.Sheet)
	}
	i := rowIndex - schema.FirstDataRow
	data := m.rows[schema.Sheet]
	if i < 0 || i >= len(data) {
		return fmt.Errorf("%w: row %d is outside the data range", ErrStaleRow, rowIndex)
	}
	currentID := ""
	if len(data[i]) > 0 {
		currentID = data[i][0]
	}
	if currentID != expectID {
		return fmt.Errorf("%w: found %q at row %d, expected %q", ErrStaleRow, currentID, rowIndex, expectID)
	}
	data[i] = append([]string(nil), row...)
	return nil
}
