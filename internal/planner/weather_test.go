package planner

import (
	"testing"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/stretchr/testify/assert"
)

func segments(descs ...string) []t.WeatherSegment {
	out := make([]t.WeatherSegment, len(descs))
	for i, d := range descs {
		out[i] = t.WeatherSegment{Description: d, Color: d + "-color"}
	}
	return out
}

func TestMergeWeatherSegments(tt *testing.T) {
	merged := MergeWeatherSegments(segments("Chuva", "Chuva", "Sol", "Sol", "Sol", "Chuva"))
	assert.Equal(tt, []t.MergedWeatherRange{
		{Description: "Chuva", Color: "Chuva-color", StartIndex: 1, EndIndex: 2},
		{Description: "Sol", Color: "Sol-color", StartIndex: 3, EndIndex: 5},
		{Description: "Chuva", Color: "Chuva-color", StartIndex: 6, EndIndex: 6},
	}, merged)
}

func TestMergeWeatherSegments_KeepsFirstColor(tt *testing.T) {
	segs := []t.WeatherSegment{
		{Description: "Sol", Color: "#ffd700"},
		{Description: "Sol", Color: "#000000"},
	}
	merged := MergeWeatherSegments(segs)
	assert.Equal(tt, []t.MergedWeatherRange{{Description: "Sol", Color: "#ffd700", StartIndex: 1, EndIndex: 2}}, merged)
}

func TestMergeWeatherSegments_Edges(tt *testing.T) {
	assert.Empty(tt, MergeWeatherSegments(nil))
	assert.Equal(tt, []t.MergedWeatherRange{{Description: "Rota Normal", Color: "Rota Normal-color", StartIndex: 1, EndIndex: 1}},
		MergeWeatherSegments(segments("Rota Normal")))
	assert.Len(tt, MergeWeatherSegments(segments("a", "b", "a", "b")), 4)
}

func TestRangeLabel(tt *testing.T) {
	assert.Equal(tt, "Troço 6", RangeLabel(t.MergedWeatherRange{StartIndex: 6, EndIndex: 6}))
	assert.Equal(tt, "Troços 3-5", RangeLabel(t.MergedWeatherRange{StartIndex: 3, EndIndex: 5}))
}

func TestMergeWeatherSegments_ReexpandingIsStable(tt *testing.T) {
	inputs := [][]string{
		{"Chuva", "Chuva", "Sol", "Sol", "Sol", "Chuva"},
		{"Sol", "Sol", "Sol", "Sol"},
		{"Nublado", "Chuva", "Nublado"},
	}
	for _, descs := range inputs {
		merged := MergeWeatherSegments(segments(descs...))

		var expanded []string
		for _, r := range merged {
			for i := r.StartIndex; i <= r.EndIndex; i++ {
				expanded = append(expanded, r.Description)
			}
		}
		assert.Equal(tt, descs, expanded)
		assert.Equal(tt, merged, MergeWeatherSegments(segments(expanded...)))
	}

	single := MergeWeatherSegments(segments("Sol", "Sol", "Sol", "Sol"))
	assert.Equal(tt, []t.MergedWeatherRange{{Description: "Sol", Color: "Sol-color", StartIndex: 1, EndIndex: 4}}, single)
}
