package tourism

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
)

// DefaultCategory is used when no tag column names a category.
const DefaultCategory = "ponto de interesse"

// categoryColumns are checked in order; the first non-empty one wins.
var categoryColumns = []string{"tourism", "historic", "amenity", "natural", "leisure"}

// ParseOverpass reads a tab-separated Overpass export with a header row containing at least
// name, @lat and @lon. Rows without a name or with bad coordinates are skipped.
func ParseOverpass(r io.Reader) ([]t.TouristSpot, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading overpass header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}
	for _, required := range []string{"name", "@lat", "@lon"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("overpass export is missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var spots []t.TouristSpot
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("reading overpass export: %w", err)
		}

		name := field(row, "name")
		if name == "" {
			continue
		}
		lat, errLat := strconv.ParseFloat(field(row, "@lat"), 64)
		lon, errLon := strconv.ParseFloat(field(row, "@lon"), 64)
		if errLat != nil || errLon != nil {
			continue
		}

		category := DefaultCategory
		for _, col := range categoryColumns {
			if v := field(row, col); v != "" {
				category = v
				break
			}
		}
		spots = append(spots, t.TouristSpot{Lat: lat, Lon: lon, Name: name, Category: category})
	}
	return spots, nil
}
