package planner

import (
	"strings"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
)

// UncategorizedGroup collects points whose category is empty.
const UncategorizedGroup = "Outros"

type CategoryGroup struct {
	Category string              `json:"category"`
	Points   []t.PointOfInterest `json:"points"`
}

// GroupPointsOfInterest partitions points by exact category, keeping arrival order inside each
// group and ordering groups by first occurrence.
func GroupPointsOfInterest(points []t.PointOfInterest) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, p := range points {
		category := p.Category
		if category == "" {
			category = UncategorizedGroup
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, CategoryGroup{Category: category})
		}
		groups[i].Points = append(groups[i].Points, p)
	}
	return groups
}

type PointClass int

const (
	ClassTourist PointClass = iota
	ClassSun
	ClassRain
)

func (c PointClass) String() string {
	switch c {
	case ClassSun:
		return "sun"
	case ClassRain:
		return "rain"
	default:
		return "tourist"
	}
}

// Categories come from an uncontrolled vocabulary, so classification is by substring. The table
// is checked in order: "Sem Chuva" would otherwise match the rain marker "Chuva", and rain-like
// markers win over sun-like ones ("Alerta Sol" is rain).
var classMarkers = []struct {
	marker string
	class  PointClass
}{
	{"Sem Chuva", ClassSun},
	{"Chuva", ClassRain},
	{"Alerta", ClassRain},
	{"Trovoada", ClassRain},
	{"Sol", ClassSun},
	{"Limpo", ClassSun},
}

// Classify tells weather points (sun or rain) from tourist points by their category.
func Classify(category string) PointClass {
	for _, m := range classMarkers {
		if strings.Contains(category, m.marker) {
			return m.class
		}
	}
	return ClassTourist
}

// IsWeather reports whether category names a weather point rather than a tourist one.
func IsWeather(category string) bool {
	return Classify(category) != ClassTourist
}
