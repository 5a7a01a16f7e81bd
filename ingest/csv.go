package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"property-finder/models"
)

// LoadError is the single fatal failure mode of ingestion: the file itself
// is unreadable or does not look like a listings export. Individual bad
// cells never produce a LoadError — they are absorbed downstream by
// normalization defaults.
type LoadError struct {
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error at %s stage: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NewLoadError creates a LoadError for the given ingestion stage.
func NewLoadError(stage string, err error) *LoadError {
	return &LoadError{Stage: stage, Err: err}
}

// columnAliases maps each canonical field to the header spellings observed
// across real MLS exports. Matching is case-insensitive.
var columnAliases = map[models.Field][]string{
	models.FieldPrice:        {"Price"},
	models.FieldAddress:      {"Address"},
	models.FieldCity:         {"City"},
	models.FieldSqFt:         {"SqFt", "SqFtTotFn"},
	models.FieldBedrooms:     {"Bedrooms", "Bedrooms Total"},
	models.FieldBathrooms:    {"Bathrooms", "Bathrooms Total"},
	models.FieldPropertyType: {"Type", "Property Type"},
	models.FieldImageURL:     {"Image_URL", "Pics"},
	models.FieldListingID:    {"MLS #"},
	models.FieldDescription:  {"Description", "Remarks"},
	models.FieldDOM:          {"DOM"},
	models.FieldLatitude:     {"latitude"},
	models.FieldLongitude:    {"longitude"},
}

// ReadCSV parses a listings export into raw records, resolving header
// aliases to canonical fields. The returned records carry a key for every
// recognized column in the file, even when a particular cell is empty, so
// downstream code can tell "column absent from export" apart from "cell
// blank in this row".
//
// It fails only on whole-file problems: unreadable input, malformed CSV, or
// a header without a Price column (at that point the file is not a listings
// export at all).
func ReadCSV(r io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(r)
	// MLS exports occasionally have ragged rows; a short row just means
	// its trailing cells are missing.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewLoadError("header", errors.New("file is empty"))
		}
		return nil, NewLoadError("header", err)
	}

	// Price is the one mandatory column: a file without it is not a
	// listings export. Address is optional and defaults downstream.
	columns := resolveHeader(header)
	if _, hasPrice := findIndex(columns, models.FieldPrice); !hasPrice {
		return nil, NewLoadError("header",
			errors.New("no Price column found; not a listings export"))
	}

	var records []models.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, NewLoadError("read", err)
		}

		rec := make(models.RawRecord, len(columns))
		for _, col := range columns {
			if col.index < len(row) {
				rec[col.field] = row[col.index]
			} else {
				rec[col.field] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

type column struct {
	field models.Field
	index int
}

// resolveHeader maps the file's header cells onto canonical fields. The
// first matching alias wins; unrecognized columns are ignored.
func resolveHeader(header []string) []column {
	claimed := make(map[models.Field]bool, len(columnAliases))
	var columns []column

	for i, cell := range header {
		name := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		field, ok := lookupAlias(name)
		if !ok || claimed[field] {
			continue
		}
		claimed[field] = true
		columns = append(columns, column{field: field, index: i})
	}

	return columns
}

func lookupAlias(name string) (models.Field, bool) {
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if strings.EqualFold(name, alias) {
				return field, true
			}
		}
	}
	return "", false
}

func findIndex(columns []column, f models.Field) (int, bool) {
	for _, col := range columns {
		if col.field == f {
			return col.index, true
		}
	}
	return 0, false
}
