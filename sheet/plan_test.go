package sheet

import "testing"

var planSchema = Schema{
	Sheet:        "Cars",
	FirstDataRow: 2,
	Columns: []Column{
		{Name: "ID"},
		{Name: "Make"},
		{Name: "Price", Numeric: true},
	},
}

func TestPlanPage_RowMath(t *testing.T) {
	cases := []struct {
		page, size         int
		wantStart, wantEnd int
	}{
		{1, 10, 2, 11},
		{2, 10, 12, 21},
		{3, 10, 22, 31},
		{1, 1, 2, 2},
		{5, 3, 14, 16},
	}
	for _, tc := range cases {
		plan := PlanPage(planSchema, tc.page, tc.size)
		if plan.Read.StartRow != tc.wantStart || plan.Read.EndRow != tc.wantEnd {
			t.Fatalf("page=%d size=%d: got rows %d..%d, want %d..%d",
				tc.page, tc.size, plan.Read.StartRow, plan.Read.EndRow, tc.wantStart, tc.wantEnd)
		}
		if plan.Read.StartCol != 1 || plan.Read.EndCol != planSchema.NumCols() {
			t.Fatalf("page=%d size=%d: got cols %d..%d, want full span",
				tc.page, tc.size, plan.Read.StartCol, plan.Read.EndCol)
		}
	}
}

func TestPlanPage_NormalizesInputs(t *testing.T) {
	plan := PlanPage(planSchema, 0, 10)
	if plan.Read.StartRow != 2 {
		t.Fatalf("page 0 should normalize to page 1, got start row %d", plan.Read.StartRow)
	}
	plan = PlanPage(planSchema, -3, 0)
	if plan.Read.StartRow != 2 || plan.Read.EndRow != 2+DefaultPageSize-1 {
		t.Fatalf("negative inputs: got rows %d..%d", plan.Read.StartRow, plan.Read.EndRow)
	}

	plan = PlanPage(planSchema, 1, 5000)
	if got := plan.Read.EndRow - plan.Read.StartRow + 1; got != MaxPageSize {
		t.Fatalf("oversized page size should clamp to %d, got %d", MaxPageSize, got)
	}
}

func TestPlanPage_CountRangeIsIDColumn(t *testing.T) {
	plan := PlanPage(planSchema, 7, 25)
	if plan.Count.StartCol != 1 || plan.Count.EndCol != 1 {
		t.Fatalf("count range must cover only the ID column, got cols %d..%d",
			plan.Count.StartCol, plan.Count.EndCol)
	}
	if plan.Count.StartRow != planSchema.FirstDataRow || plan.Count.EndRow != 0 {
		t.Fatalf("count range must scan all data rows, got rows %d..%d",
			plan.Count.StartRow, plan.Count.EndRow)
	}
}

func TestRangeSpecA1(t *testing.T) {
	got := planSchema.DataRange(2, 11).A1()
	if got != "Cars!A2:C11" {
		t.Fatalf("got %q, want Cars!A2:C11", got)
	}
	got = planSchema.IDColumn().A1()
	if got != "Cars!A2:A" {
		t.Fatalf("got %q, want Cars!A2:A", got)
	}
}

func TestFormulaFor(t *testing.T) {
	s := Schema{
		Sheet:        "X",
		FirstDataRow: 2,
		Columns: []Column{
			{Name: "ID"},
			{Name: "Total", Formula: "B{row}+C{row}"},
		},
	}
	if got := s.FormulaFor(1, 7); got != "B7+C7" {
		t.Fatalf("got %q", got)
	}
	if got := s.FormulaFor(0, 7); got != "" {
		t.Fatalf("non-derived offset must yield no formula, got %q", got)
	}
	if !s.IsDerived(1) || s.IsDerived(0) {
		t.Fatal("IsDerived disagrees with Formula presence")
	}
}
