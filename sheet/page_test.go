package sheet

import (
	"context"
	"fmt"
	"testing"
)

func seedRecords(t *testing.T, n int) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(planSchema)
	rows := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{fmt.Sprintf("C%d", i), "Toyota", "100"})
	}
	store.Seed(planSchema.Sheet, rows)
	return store
}

// Pages must partition the sheet: every record appears on exactly one
// page, in order, and the metadata is the same on every page.
func TestGetPage_PartitionsAllRows(t *testing.T) {
	const total = 23
	const size = 10
	store := seedRecords(t, total)
	ctx := context.Background()

	seen := make(map[string]int)
	var order []string
	for page := 1; page <= 3; page++ {
		rows, pg, err := GetPage(ctx, store, planSchema, page, size)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if pg.TotalItems != total || pg.TotalPages != 3 || pg.Limit != size || pg.CurrentPage != page {
			t.Fatalf("page %d: bad pagination %+v", page, pg)
		}
		wantLen := size
		if page == 3 {
			wantLen = total - 2*size
		}
		if len(rows) != wantLen {
			t.Fatalf("page %d: got %d rows, want %d", page, len(rows), wantLen)
		}
		for _, row := range rows {
			seen[row[0]]++
			order = append(order, row[0])
		}
	}

	if len(seen) != total {
		t.Fatalf("pages cover %d distinct records, want %d", len(seen), total)
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("record %s appeared %d times", id, count)
		}
	}
	for i, id := range order {
		if want := fmt.Sprintf("C%d", i+1); id != want {
			t.Fatalf("position %d: got %s, want %s", i, id, want)
		}
	}
}

func TestGetPage_PastTheEnd(t *testing.T) {
	store := seedRecords(t, 5)
	rows, pg, err := GetPage(context.Background(), store, planSchema, 4, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("page past the end must be empty, got %d rows", len(rows))
	}
	if pg.TotalItems != 5 || pg.TotalPages != 1 || pg.CurrentPage != 4 {
		t.Fatalf("bad pagination %+v", pg)
	}
}

func TestGetPage_EmptySheet(t *testing.T) {
	store := NewMemoryStore(planSchema)
	rows, pg, err := GetPage(context.Background(), store, planSchema, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 || pg.TotalItems != 0 || pg.TotalPages != 0 {
		t.Fatalf("empty sheet: rows=%d pagination=%+v", len(rows), pg)
	}
}

func TestMemoryStore_UpdateRowStaleID(t *testing.T) {
	store := seedRecords(t, 3)
	ctx := context.Background()

	err := store.UpdateRow(ctx, planSchema, 3, "C9", []string{"C9", "Honda", "50"})
	if err == nil {
		t.Fatal("expected stale-row error")
	}

	// The guard must also reject rows outside the data range.
	err = store.UpdateRow(ctx, planSchema, 99, "C1", []string{"C1", "Honda", "50"})
	if err == nil {
		t.Fatal("expected stale-row error for out-of-range row")
	}

	if err := store.UpdateRow(ctx, planSchema, 3, "C2", []string{"C2", "Honda", "50"}); err != nil {
		t.Fatalf("matching ID must be accepted: %v", err)
	}
	rows := store.Rows(planSchema.Sheet)
	if rows[1][1] != "Honda" {
		t.Fatalf("update did not land: %v", rows[1])
	}
}

func TestMemoryStore_ReadRangePadsShortRows(t *testing.T) {
	store := NewMemoryStore(planSchema)
	store.Seed(planSchema.Sheet, [][]string{{"C1"}})

	rows, err := store.ReadRange(context.Background(), planSchema.AllRows())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || len(rows[0]) != planSchema.NumCols() {
		t.Fatalf("short row must be padded to the column span, got %v", rows)
	}
}
