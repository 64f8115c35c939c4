package sheet

// MaxPageSize bounds the size of a single range read.
const MaxPageSize = 1000

const DefaultPageSize = 10

// PagePlan holds the two ranges a page fetch needs: the data block and
// the ID-column scan used only to learn the total row count.
type PagePlan struct {
	Read  RangeSpec
	Count RangeSpec
}

// PlanPage computes the contiguous row range backing page pageNumber with
// pageSize rows per page. Page numbers start at 1; out-of-range inputs
// are normalized rather than rejected, and pageSize is clamped to
// MaxPageSize to bound the read.
func PlanPage(s Schema, pageNumber, pageSize int) PagePlan {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	start := (pageNumber-1)*pageSize + s.FirstDataRow
	end := start + pageSize - 1

	return PagePlan{
		Read:  s.DataRange(start, end),
		Count: s.IDColumn(),
	}
}
