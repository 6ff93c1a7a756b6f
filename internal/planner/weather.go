package planner

import t "github.com/evanhutnik/bettermaps-service/internal/types"

// MergeWeatherSegments collapses consecutive segments with the same description into ranges.
// Indexes are 1-based and inclusive; each range keeps the color of its first segment.
func MergeWeatherSegments(segments []t.WeatherSegment) []t.MergedWeatherRange {
	if len(segments) == 0 {
		return nil
	}

	merged := make([]t.MergedWeatherRange, 0, len(segments))
	current := t.MergedWeatherRange{
		Description: segments[0].Description,
		Color:       segments[0].Color,
		StartIndex:  1,
		EndIndex:    1,
	}
	for i := 1; i < len(segments); i++ {
		segment := segments[i]
		if segment.Description == current.Description {
			current.EndIndex = i + 1
			continue
		}
		merged = append(merged, current)
		current = t.MergedWeatherRange{
			Description: segment.Description,
			Color:       segment.Color,
			StartIndex:  i + 1,
			EndIndex:    i + 1,
		}
	}
	return append(merged, current)
}

// RangeLabel is the list label of a merged range, "Troço 3" or "Troços 1-2".
func RangeLabel(r t.MergedWeatherRange) string {
	if r.StartIndex == r.EndIndex {
		return "Troço " + itoa(r.StartIndex)
	}
	return "Troços " + itoa(r.StartIndex) + "-" + itoa(r.EndIndex)
}
