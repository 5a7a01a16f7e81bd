package models

// Field is a canonical column name after alias resolution. MLS exports use
// several naming conventions for the same column; the ingest layer maps all
// of them onto these keys before normalization.
type Field string

const (
	FieldPrice        Field = "price"
	FieldAddress      Field = "address"
	FieldCity         Field = "city"
	FieldSqFt         Field = "sqft"
	FieldBedrooms     Field = "bedrooms"
	FieldBathrooms    Field = "bathrooms"
	FieldPropertyType Field = "property_type"
	FieldImageURL     Field = "image_url"
	FieldListingID    Field = "listing_id"
	FieldDescription  Field = "description"
	FieldDOM          Field = "dom"
	FieldLatitude     Field = "latitude"
	FieldLongitude    Field = "longitude"
)

// Defaults applied when a core column is missing from the export.
const (
	DefaultAddress = "Unknown Address"
	DefaultCity    = "NH"
)

// PlaceholderImageURL is shown for listings whose export has no photo.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1568605114967-8130f3a36994?w=400"

// RawRecord holds one unprocessed source row keyed by canonical column.
// A key is present iff the source file had the corresponding column; the
// value is the raw cell text, possibly empty or malformed.
type RawRecord map[Field]string

// Has reports whether the source row carried the given column.
func (r RawRecord) Has(f Field) bool {
	_, ok := r[f]
	return ok
}

// OptionalFloat is a numeric field that may be absent from the source export.
// Absent is distinct from zero: a listing with no DOM column is not "0 days
// on market", it has no DOM at all.
type OptionalFloat struct {
	Value   float64
	Present bool
}

// SomeFloat wraps a value as a present OptionalFloat.
func SomeFloat(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Present: true}
}

// OptionalString is a text field that may be absent from the source export.
type OptionalString struct {
	Value   string
	Present bool
}

// SomeString wraps a value as a present OptionalString.
func SomeString(v string) OptionalString {
	return OptionalString{Value: v, Present: true}
}

// Listing is the canonical, normalized record the query engine operates on.
// Core fields are always populated (with defaults if the export lacked
// them); everything else is an explicit tagged optional.
type Listing struct {
	Address string
	City    string
	Price   float64
	SqFt    float64

	DaysOnMarket OptionalFloat
	Bedrooms     OptionalFloat
	Bathrooms    OptionalFloat
	PropertyType OptionalString
	ListingID    OptionalString
	ImageURL     OptionalString
	Description  OptionalString
	Latitude     OptionalFloat
	Longitude    OptionalFloat
}

// HasGeo reports whether the listing can be placed on a map. Both
// coordinates must be present; a lone latitude is useless.
func (l *Listing) HasGeo() bool {
	return l.Latitude.Present && l.Longitude.Present
}

// Image returns the listing photo URL, falling back to the placeholder when
// the export had no image column or an empty cell.
func (l *Listing) Image() string {
	if l.ImageURL.Present && l.ImageURL.Value != "" {
		return l.ImageURL.Value
	}
	return PlaceholderImageURL
}
