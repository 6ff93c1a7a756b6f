package enrich

import (
	"math"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

func lineString(coords [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		ls = append(ls, orb.Point{c[0], c[1]})
	}
	return ls
}

func coordinates(ls orb.LineString) [][]float64 {
	coords := make([][]float64, len(ls))
	for i, p := range ls {
		coords[i] = []float64{p.Lon(), p.Lat()}
	}
	return coords
}

func geoPoint(p orb.Point) t.GeoPoint {
	return t.GeoPoint{Latitude: p.Lat(), Longitude: p.Lon()}
}

// splitLine cuts ls at vertices into contiguous pieces of roughly segmentLength meters, at most
// maxSegments of them. Consecutive pieces share their boundary vertex.
func splitLine(ls orb.LineString, segmentLength float64, maxSegments int) []orb.LineString {
	if len(ls) < 2 {
		return []orb.LineString{ls}
	}
	total := geo.Length(ls)
	n := int(math.Ceil(total / segmentLength))
	if n > maxSegments {
		n = maxSegments
	}
	if n <= 1 || total == 0 {
		return []orb.LineString{ls}
	}
	target := total / float64(n)

	var pieces []orb.LineString
	start := 0
	acc := 0.0
	for i := 1; i < len(ls)-1; i++ {
		acc += geo.Distance(ls[i-1], ls[i])
		if acc >= target*float64(len(pieces)+1) {
			pieces = append(pieces, ls[start:i+1])
			start = i
		}
	}
	return append(pieces, ls[start:])
}

// samplePoints returns points every step meters along ls, including both ends, capped at
// maxSamples by widening the step.
func samplePoints(ls orb.LineString, step float64, maxSamples int) []t.GeoPoint {
	if len(ls) == 0 {
		return nil
	}
	if total := geo.Length(ls); maxSamples > 0 && total/step > float64(maxSamples) {
		step = total / float64(maxSamples)
	}

	samples := []t.GeoPoint{geoPoint(ls[0])}
	carried := 0.0
	for i := 1; i < len(ls); i++ {
		from, to := ls[i-1], ls[i]
		edge := geo.Distance(from, to)
		bearing := geo.Bearing(from, to)
		last := -1.0
		for d := step - carried; d <= edge; d += step {
			samples = append(samples, geoPoint(geo.PointAtBearingAndDistance(from, bearing, d)))
			last = d
		}
		if last < 0 {
			carried += edge
		} else {
			carried = edge - last
		}
	}
	if last := geoPoint(ls[len(ls)-1]); samples[len(samples)-1] != last {
		samples = append(samples, last)
	}
	return samples
}
