package services

import (
	"strconv"
	"strings"
	"unicode"

	"property-finder/models"
	"property-finder/utils"
)

// Normalizer transforms raw export rows into canonical Listings plus
// dataset stats. It is deterministic and per-row independent: the same raw
// input always yields the same dataset, and no row's outcome depends on
// another row (stats aside).
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts raw rows into a Dataset. It never fails: a cell that
// cannot be coerced falls back to its documented default (0 for numerics,
// the fixed address/city strings otherwise) and the row is kept. Only the
// ingest layer can reject a file outright.
func (n *Normalizer) Normalize(raw []models.RawRecord) *models.Dataset {
	caps := detectCapabilities(raw)

	listings := make([]models.Listing, 0, len(raw))
	defaults := 0

	for _, rec := range raw {
		l := models.Listing{
			Address: models.DefaultAddress,
			City:    models.DefaultCity,
		}

		if v, ok := rec[models.FieldAddress]; ok && strings.TrimSpace(v) != "" {
			l.Address = normalizeText(v)
		}
		if v, ok := rec[models.FieldCity]; ok && strings.TrimSpace(v) != "" {
			l.City = normalizeText(v)
		}

		if v, ok := rec[models.FieldPrice]; ok {
			price, clean := parseAmount(v)
			if !clean {
				defaults++
			}
			l.Price = price
		}
		if caps.sqft {
			sqft, clean := parseAmount(rec[models.FieldSqFt])
			if !clean {
				defaults++
			}
			l.SqFt = sqft
		}
		if caps.dom {
			dom, clean := parseAmount(rec[models.FieldDOM])
			if !clean {
				defaults++
			}
			l.DaysOnMarket = models.SomeFloat(dom)
		}
		if caps.bedrooms {
			beds, clean := parseAmount(rec[models.FieldBedrooms])
			if !clean {
				defaults++
			}
			l.Bedrooms = models.SomeFloat(beds)
		}
		if caps.bathrooms {
			baths, clean := parseAmount(rec[models.FieldBathrooms])
			if !clean {
				defaults++
			}
			l.Bathrooms = models.SomeFloat(baths)
		}

		if v, ok := rec[models.FieldPropertyType]; ok {
			l.PropertyType = models.SomeString(normalizeText(v))
		}
		if v, ok := rec[models.FieldListingID]; ok {
			l.ListingID = models.SomeString(strings.TrimSpace(v))
		}
		if v, ok := rec[models.FieldImageURL]; ok {
			l.ImageURL = models.SomeString(strings.TrimSpace(v))
		}
		if v, ok := rec[models.FieldDescription]; ok {
			l.Description = models.SomeString(normalizeText(v))
		}

		// Geo is all-or-nothing: a row with only one coordinate cannot be
		// mapped, so neither is kept.
		if caps.geo {
			lat, latOK := parseCoordinate(rec[models.FieldLatitude])
			lon, lonOK := parseCoordinate(rec[models.FieldLongitude])
			if latOK && lonOK {
				l.Latitude = models.SomeFloat(lat)
				l.Longitude = models.SomeFloat(lon)
			}
		}

		listings = append(listings, l)
	}

	ds := &models.Dataset{
		Listings:      listings,
		Stats:         computeStats(listings, caps),
		FieldDefaults: defaults,
	}

	n.logger.Info("[normalizer] Normalized %d rows (%d field defaults applied)",
		len(listings), defaults)
	return ds
}

// capabilities records which optional columns exist in this export.
type capabilities struct {
	sqft      bool
	dom       bool
	bedrooms  bool
	bathrooms bool
	propType  bool
	geo       bool
}

// detectCapabilities scans every record's keys. CSV-ingested records all
// share the file's header, but hand-built records may be heterogeneous; a
// column counts as present if any row carries it.
func detectCapabilities(raw []models.RawRecord) capabilities {
	var caps capabilities
	var lat, lon bool

	for _, rec := range raw {
		caps.sqft = caps.sqft || rec.Has(models.FieldSqFt)
		caps.dom = caps.dom || rec.Has(models.FieldDOM)
		caps.bedrooms = caps.bedrooms || rec.Has(models.FieldBedrooms)
		caps.bathrooms = caps.bathrooms || rec.Has(models.FieldBathrooms)
		caps.propType = caps.propType || rec.Has(models.FieldPropertyType)
		lat = lat || rec.Has(models.FieldLatitude)
		lon = lon || rec.Has(models.FieldLongitude)
	}

	caps.geo = lat && lon
	return caps
}

// parseAmount coerces a formatted amount like "$1,250,000" or "1,824" into
// a non-negative float. The boolean reports whether the cell parsed cleanly;
// blank and malformed cells both yield 0, but only malformed ones count as
// a coercion default.
func parseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func parseCoordinate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeText strips leading/trailing whitespace and collapses internal
// whitespace runs to single spaces.
func normalizeText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
