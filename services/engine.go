package services

import (
	"sort"
	"strings"

	"property-finder/models"
	"property-finder/utils"
)

// Engine answers filter/sort queries over a normalized dataset. It is a
// pure transformation: the dataset is never mutated, and re-running the
// same query yields the same result, so the presentation layer can invoke
// it on every filter change.
type Engine struct {
	logger *utils.Logger
}

// NewEngine creates an Engine with the given logger.
func NewEngine(logger *utils.Logger) *Engine {
	return &Engine{logger: logger}
}

// Query applies the filter spec as a conjunction of predicates, then orders
// the survivors by the sort key. Filter dimensions the dataset does not
// carry (no DOM column, no bedrooms column) are skipped entirely rather
// than evaluated as always-false, so they can never zero out the result.
func (e *Engine) Query(ds *models.Dataset, spec models.FilterSpec, key models.SortKey) models.Result {
	matched := make([]models.Listing, 0, len(ds.Listings))
	for _, l := range ds.Listings {
		if e.matches(&l, spec, ds.Stats) {
			matched = append(matched, l)
		}
	}

	sortListings(matched, key, ds.Stats)

	e.logger.Debug("[engine] Query matched %d of %d listings (sort=%q)",
		len(matched), len(ds.Listings), string(key))

	return models.Result{Listings: matched, Count: len(matched)}
}

func (e *Engine) matches(l *models.Listing, spec models.FilterSpec, stats models.DatasetStats) bool {
	if spec.PriceRange != nil && !spec.PriceRange.Contains(l.Price) {
		return false
	}
	if spec.SqFtRange != nil && stats.HasSqFt && !spec.SqFtRange.Contains(l.SqFt) {
		return false
	}
	if spec.DOMRange != nil && stats.HasDOM && !spec.DOMRange.Contains(l.DaysOnMarket.Value) {
		return false
	}

	// Empty multiselects mean all-selected; see FilterSpec.
	if len(spec.PropertyTypes) > 0 && stats.HasPropertyType {
		if !containsFold(spec.PropertyTypes, l.PropertyType.Value) {
			return false
		}
	}
	if len(spec.Cities) > 0 {
		if !containsFold(spec.Cities, l.City) {
			return false
		}
	}

	if spec.MinBeds != nil && stats.HasBedrooms && l.Bedrooms.Value < *spec.MinBeds {
		return false
	}
	if spec.MinBaths != nil && stats.HasBathrooms && l.Bathrooms.Value < *spec.MinBaths {
		return false
	}

	if term := strings.TrimSpace(spec.SearchTerm); term != "" {
		if !matchesSearch(l, term) {
			return false
		}
	}

	return true
}

// matchesSearch does a case-insensitive substring match against the address
// or the MLS listing ID.
func matchesSearch(l *models.Listing, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(l.Address), term) {
		return true
	}
	return l.ListingID.Present &&
		strings.Contains(strings.ToLower(l.ListingID.Value), term)
}

func containsFold(set []string, value string) bool {
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

// sortListings orders listings in place. Sorting is stable: ties keep their
// source-file order. A DOM sort over a dataset without a DOM column is a
// no-op rather than an error.
func sortListings(listings []models.Listing, key models.SortKey, stats models.DatasetStats) {
	var less func(a, b *models.Listing) bool

	switch key {
	case models.SortPriceAsc:
		less = func(a, b *models.Listing) bool { return a.Price < b.Price }
	case models.SortPriceDesc:
		less = func(a, b *models.Listing) bool { return a.Price > b.Price }
	case models.SortDOMAsc:
		if !stats.HasDOM {
			return
		}
		less = func(a, b *models.Listing) bool {
			return a.DaysOnMarket.Value < b.DaysOnMarket.Value
		}
	case models.SortSqFtDesc:
		less = func(a, b *models.Listing) bool { return a.SqFt > b.SqFt }
	default:
		return
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return less(&listings[i], &listings[j])
	})
}
