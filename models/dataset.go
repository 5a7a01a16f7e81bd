package models

// DatasetStats summarizes one normalized dataset. The ranges and distinct
// value lists parameterize the filter controls (slider bounds, dropdown
// options); the Has* flags tell the engine which filter dimensions exist in
// this particular export at all.
type DatasetStats struct {
	MinPrice float64
	MaxPrice float64
	MinSqFt  float64
	MaxSqFt  float64
	MinDOM   float64
	MaxDOM   float64

	// Sorted distinct values.
	Cities        []string
	PropertyTypes []string

	HasSqFt         bool
	HasDOM          bool
	HasBedrooms     bool
	HasBathrooms    bool
	HasPropertyType bool
	HasGeo          bool
}

// Dataset is one fully normalized export: the canonical listings in source
// order plus their stats. A dataset is immutable once built — a new upload
// replaces it wholesale rather than mutating it.
type Dataset struct {
	Listings []Listing
	Stats    DatasetStats

	// FieldDefaults counts cells that failed coercion and fell back to a
	// default. Diagnostic only; a bad cell never drops its row.
	FieldDefaults int
}

// Result is one query's output: the matching listings in sorted order.
// Zero matches is a normal outcome, not an error.
type Result struct {
	Listings []Listing
	Count    int
}
