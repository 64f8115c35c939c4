package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmautosoft/dealership_backend/sheet"
	"github.com/mmautosoft/dealership_backend/utils"
)

// AllSchemas lists every entity sheet the store must carry.
func AllSchemas() []sheet.Schema {
	return []sheet.Schema{CarsSheet, RepairsSheet, SalesSheet, RentalsSheet, PartnersSheet}
}

// Every store call is bounded; the backing store offers no cancellation
// of its own.
const storeCallTimeout = 10 * time.Second

func storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storeCallTimeout)
}

func readIDColumn(ctx context.Context, store sheet.Client, schema sheet.Schema) ([]string, error) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, err := store.ReadRange(cctx, schema.IDColumn())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && row[0] != "" {
			ids = append(ids, row[0])
		}
	}
	return ids, nil
}

// findRow scans the ID column for the record's current position and
// reads back its full row. The returned row index is positional: it is
// only safe to use together with the ID re-check in UpdateRow.
func findRow(ctx context.Context, store sheet.Client, schema sheet.Schema, id string) (int, []string, error) {
	ids, err := readIDColumn(ctx, store, schema)
	if err != nil {
		return 0, nil, err
	}
	rowIndex := 0
	for i, existing := range ids {
		if existing == id {
			rowIndex = schema.FirstDataRow + i
			break
		}
	}
	if rowIndex == 0 {
		return 0, nil, utils.NotFoundErrorf("%s %s", schema.Sheet, id)
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, err := store.ReadRange(cctx, schema.DataRange(rowIndex, rowIndex))
	if err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return 0, nil, utils.NotFoundErrorf("%s %s", schema.Sheet, id)
	}
	return rowIndex, rows[0], nil
}

// nextFreshID computes the next record ID and re-checks it against a
// fresh snapshot right before use. Two creates racing from the same
// snapshot is a real duplicate-ID hazard; the re-check plus one
// recompute narrows the window, it cannot close it (the store has no
// compare-and-swap).
func nextFreshID(ctx context.Context, store sheet.Client, schema sheet.Schema, prefix string) (string, error) {
	ids, err := readIDColumn(ctx, store, schema)
	if err != nil {
		return "", err
	}
	candidate := NextID(prefix, ids)

	ids, err = readIDColumn(ctx, store, schema)
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		if id == candidate {
			candidate = NextID(prefix, ids)
			break
		}
	}
	return candidate, nil
}

func readAllRows(ctx context.Context, store sheet.Client, schema sheet.Schema) ([][]string, error) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	rows, err := store.ReadRange(cctx, schema.AllRows())
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && row[0] != "" {
			out = append(out, row)
		}
	}
	return out, nil
}

func appendRow(ctx context.Context, store sheet.Client, schema sheet.Schema, row []string) error {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	return store.AppendRow(cctx, schema, row)
}

func updateRow(ctx context.Context, store sheet.Client, schema sheet.Schema, rowIndex int, id string, row []string) error {
	cctx, cancel := storeCtx(ctx)
	defer cancel()
	err := store.UpdateRow(cctx, schema, rowIndex, id, row)
	if err == nil {
		return nil
	}
	if isStale(err) {
		return utils.ConflictErrorf("%s %s moved during update, retry", schema.Sheet, id)
	}
	return err
}

func isStale(err error) bool {
	return errors.Is(err, sheet.ErrStaleRow)
}
