package sheet

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pagination is the metadata block returned next to every page of data.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	Limit       int `json:"limit"`
}

// GetPage fetches one page of raw rows plus pagination metadata. The
// data-range and count-range reads are issued concurrently. The last
// page may be short, and a page past the end yields no rows but still
// correct totals.
func GetPage(ctx context.Context, client Client, schema Schema, pageNumber, pageSize int) ([][]string, Pagination, error) {
	plan := PlanPage(schema, pageNumber, pageSize)
	if pageNumber < 1 {
		pageNumber = 1
	}
	// Recover the effective page size from the planned range so the
	// clamping rule lives in one place.
	limit := plan.Read.EndRow - plan.Read.StartRow + 1

	var rows, idCol [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = client.ReadRange(gctx, plan.Read)
		return err
	})
	g.Go(func() error {
		var err error
		idCol, err = client.ReadRange(gctx, plan.Count)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, Pagination{}, err
	}

	totalItems := 0
	for _, row := range idCol {
		if len(row) > 0 && row[0] != "" {
			totalItems++
		}
	}
	totalPages := (totalItems + limit - 1) / limit

	// Drop blank trailing rows some backends return for a partially
	// covered range.
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 && row[0] != "" {
			out = append(out, row)
		}
	}

	return out, Pagination{
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		Limit:       limit,
	}, nil
}
