package services

import (
	"sort"

	"property-finder/models"
)

// computeStats derives the dataset-wide ranges and distinct value lists
// that parameterize the filter controls. Ranges over a disabled dimension
// stay [0,0]; a uniform column yields min == max, which is a valid
// degenerate range.
func computeStats(listings []models.Listing, caps capabilities) models.DatasetStats {
	stats := models.DatasetStats{
		HasSqFt:         caps.sqft,
		HasDOM:          caps.dom,
		HasBedrooms:     caps.bedrooms,
		HasBathrooms:    caps.bathrooms,
		HasPropertyType: caps.propType,
		HasGeo:          caps.geo,
	}

	if len(listings) == 0 {
		return stats
	}

	cities := make(map[string]struct{})
	types := make(map[string]struct{})

	stats.MinPrice = listings[0].Price
	stats.MaxPrice = listings[0].Price
	if caps.sqft {
		stats.MinSqFt = listings[0].SqFt
		stats.MaxSqFt = listings[0].SqFt
	}
	if caps.dom {
		stats.MinDOM = listings[0].DaysOnMarket.Value
		stats.MaxDOM = listings[0].DaysOnMarket.Value
	}

	for _, l := range listings {
		if l.Price < stats.MinPrice {
			stats.MinPrice = l.Price
		}
		if l.Price > stats.MaxPrice {
			stats.MaxPrice = l.Price
		}
		if caps.sqft {
			if l.SqFt < stats.MinSqFt {
				stats.MinSqFt = l.SqFt
			}
			if l.SqFt > stats.MaxSqFt {
				stats.MaxSqFt = l.SqFt
			}
		}
		if caps.dom {
			if l.DaysOnMarket.Value < stats.MinDOM {
				stats.MinDOM = l.DaysOnMarket.Value
			}
			if l.DaysOnMarket.Value > stats.MaxDOM {
				stats.MaxDOM = l.DaysOnMarket.Value
			}
		}

		cities[l.City] = struct{}{}
		if l.PropertyType.Present && l.PropertyType.Value != "" {
			types[l.PropertyType.Value] = struct{}{}
		}
	}

	stats.Cities = sortedKeys(cities)
	stats.PropertyTypes = sortedKeys(types)
	return stats
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
