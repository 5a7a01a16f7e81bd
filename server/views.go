package server

import (
	"net/url"
	"strconv"
	"strings"

	"property-finder/models"
)

type uploadResponse struct {
	SessionID string    `json:"session_id"`
	Count     int       `json:"count"`
	Stats     statsJSON `json:"stats"`
}

type contactResponse struct {
	Mailto  string `json:"mailto"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type rangeJSON struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// statsJSON carries the filter-control bounds. Ranges for dimensions the
// export does not have are omitted entirely so the UI knows to hide the
// corresponding control instead of rendering a [0,0] slider.
type statsJSON struct {
	Price         rangeJSON  `json:"price"`
	SqFt          *rangeJSON `json:"sqft,omitempty"`
	DaysOnMarket  *rangeJSON `json:"days_on_market,omitempty"`
	Cities        []string   `json:"cities"`
	PropertyTypes []string   `json:"property_types,omitempty"`
	HasBedrooms   bool       `json:"has_bedrooms"`
	HasBathrooms  bool       `json:"has_bathrooms"`
	HasGeo        bool       `json:"has_geo"`
}

func statsView(stats models.DatasetStats) statsJSON {
	view := statsJSON{
		Price:         rangeJSON{Min: stats.MinPrice, Max: stats.MaxPrice},
		Cities:        stats.Cities,
		PropertyTypes: stats.PropertyTypes,
		HasBedrooms:   stats.HasBedrooms,
		HasBathrooms:  stats.HasBathrooms,
		HasGeo:        stats.HasGeo,
	}
	if stats.HasSqFt {
		view.SqFt = &rangeJSON{Min: stats.MinSqFt, Max: stats.MaxSqFt}
	}
	if stats.HasDOM {
		view.DaysOnMarket = &rangeJSON{Min: stats.MinDOM, Max: stats.MaxDOM}
	}
	return view
}

type listingJSON struct {
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Price        float64  `json:"price"`
	SqFt         float64  `json:"sqft"`
	DaysOnMarket *float64 `json:"days_on_market,omitempty"`
	Bedrooms     *float64 `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	ListingID    string   `json:"listing_id,omitempty"`
	ImageURL     string   `json:"image_url"`
	Description  string   `json:"description,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Mappable     bool     `json:"mappable"`
}

type resultJSON struct {
	Count    int           `json:"count"`
	Listings []listingJSON `json:"listings"`
}

func resultView(result models.Result) resultJSON {
	listings := make([]listingJSON, 0, len(result.Listings))
	for i := range result.Listings {
		listings = append(listings, listingView(&result.Listings[i]))
	}
	return resultJSON{Count: result.Count, Listings: listings}
}

func listingView(l *models.Listing) listingJSON {
	return listingJSON{
		Address:      l.Address,
		City:         l.City,
		Price:        l.Price,
		SqFt:         l.SqFt,
		DaysOnMarket: optFloat(l.DaysOnMarket),
		Bedrooms:     optFloat(l.Bedrooms),
		Bathrooms:    optFloat(l.Bathrooms),
		PropertyType: l.PropertyType.Value,
		ListingID:    l.ListingID.Value,
		ImageURL:     l.Image(),
		Description:  l.Description.Value,
		Latitude:     optFloat(l.Latitude),
		Longitude:    optFloat(l.Longitude),
		Mappable:     l.HasGeo(),
	}
}

func optFloat(f models.OptionalFloat) *float64 {
	if !f.Present {
		return nil
	}
	v := f.Value
	return &v
}

// parseQuery translates URL query parameters into a filter spec and sort
// key. Absent parameters leave their dimension unfiltered.
func parseQuery(q url.Values) (models.FilterSpec, models.SortKey) {
	spec := models.FilterSpec{
		PriceRange:    parseRange(q, "min_price", "max_price"),
		SqFtRange:     parseRange(q, "min_sqft", "max_sqft"),
		DOMRange:      parseRange(q, "min_dom", "max_dom"),
		PropertyTypes: parseList(q.Get("types")),
		Cities:        parseList(q.Get("cities")),
		MinBeds:       parseFloatParam(q.Get("min_beds")),
		MinBaths:      parseFloatParam(q.Get("min_baths")),
		SearchTerm:    strings.TrimSpace(q.Get("q")),
	}
	return spec, models.ParseSortKey(q.Get("sort"))
}

// parseRange builds an inclusive range when at least one bound is given.
// A lone lower bound leaves the top open; a lone upper bound starts at 0.
func parseRange(q url.Values, minKey, maxKey string) *models.Range {
	minVal := parseFloatParam(q.Get(minKey))
	maxVal := parseFloatParam(q.Get(maxKey))
	if minVal == nil && maxVal == nil {
		return nil
	}

	r := &models.Range{Min: 0, Max: maxOpenBound}
	if minVal != nil {
		r.Min = *minVal
	}
	if maxVal != nil {
		r.Max = *maxVal
	}
	return r
}

// maxOpenBound stands in for "no upper limit".
const maxOpenBound = 1e18

func parseFloatParam(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
