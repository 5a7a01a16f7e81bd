package models

// Range is an inclusive numeric interval. Min == Max is a valid degenerate
// range matching exactly one value.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the range, both ends inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterSpec is the declarative set of active criteria for one query. Every
// nil/empty field means "not filtering on this dimension".
//
// PropertyTypes and Cities deliberately treat an empty selection as
// all-selected: deselecting every checkbox in a multiselect must show the
// full dataset, not an empty page. This mirrors the behavior users expect
// from the filter sidebar and is policy, not an accident of a falsy check.
type FilterSpec struct {
	PriceRange    *Range
	SqFtRange     *Range
	DOMRange      *Range
	PropertyTypes []string
	Cities        []string
	MinBeds       *float64
	MinBaths      *float64

	// SearchTerm is matched case-insensitively as a substring of the
	// address or the MLS listing ID. Empty means no search filter.
	SearchTerm string
}

// SortKey selects the ordering of a query result.
type SortKey string

const (
	// SortNone preserves source-file order.
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	// SortDOMAsc puts the freshest listings first.
	SortDOMAsc   SortKey = "dom_asc"
	SortSqFtDesc SortKey = "sqft_desc"
)

// ParseSortKey maps a raw string onto a known SortKey. Unknown values fall
// back to SortNone rather than erroring.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortPriceAsc, SortPriceDesc, SortDOMAsc, SortSqFtDesc:
		return SortKey(raw)
	}
	return SortNone
}
