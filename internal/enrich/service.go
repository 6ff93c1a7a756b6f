package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanhutnik/bettermaps-service/internal/openmeteo"
	"github.com/evanhutnik/bettermaps-service/internal/osrm"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

const (
	NormalDescription = "Rota Normal"
	NormalColor       = openmeteo.UnknownColor
)

type Router interface {
	Route(ctx context.Context, profile t.TransportMode, from, to t.GeoPoint) (*osrm.Response, error)
}

type WeatherProvider interface {
	CurrentBatch(ctx context.Context, points []t.GeoPoint) []*openmeteo.Current
}

type SpotFinder interface {
	Near(ctx context.Context, around []t.GeoPoint, radiusMeters float64, exclude ...string) ([]t.TouristSpot, error)
}

type Options struct {
	// SegmentLength is the target length in meters of a weather segment.
	SegmentLength float64
	MaxSegments   int
	// DetourRadius is how far in meters from the route a tourist point may be.
	DetourRadius float64
	MaxSamples   int
}

func (o Options) withDefaults() Options {
	if o.SegmentLength <= 0 {
		o.SegmentLength = 2000
	}
	if o.MaxSegments <= 0 {
		o.MaxSegments = 50
	}
	if o.DetourRadius <= 0 {
		o.DetourRadius = 50
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = 2000
	}
	return o
}

// Service answers enriched route queries: the routing response plus weather segments along the
// first route and tourist points near it.
type Service struct {
	router  Router
	weather WeatherProvider
	spots   SpotFinder
	opts    Options
	logger  *zap.SugaredLogger
}

// New builds a Service. spots may be nil, in which case tourist routes carry no points.
func New(router Router, weather WeatherProvider, spots SpotFinder, opts Options, logger *zap.SugaredLogger) *Service {
	return &Service{
		router:  router,
		weather: weather,
		spots:   spots,
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

func (s *Service) Route(ctx context.Context, q t.RouteQuery) (*t.RouteResponse, error) {
	osrmResp, err := s.router.Route(ctx, q.Profile, q.Origin, q.Destination)
	if err != nil {
		return nil, fmt.Errorf("routing %s from (%v,%v) to (%v,%v): %w", q.Profile,
			q.Origin.Latitude, q.Origin.Longitude, q.Destination.Latitude, q.Destination.Longitude, err)
	}

	resp := &t.RouteResponse{
		Code:            osrmResp.Code,
		Routes:          make([]t.RouteCandidate, 0, len(osrmResp.Routes)),
		WeatherSegments: []t.WireWeatherSegment{},
		TouristSpots:    []t.TouristSpot{},
	}
	for _, r := range osrmResp.Routes {
		resp.Routes = append(resp.Routes, t.RouteCandidate{
			Distance: r.Distance,
			Duration: r.Duration,
			Geometry: r.Geometry,
		})
	}
	if len(resp.Routes) == 0 {
		return resp, nil
	}

	line := lineString(resp.Routes[0].Geometry.Coordinates)

	if q.Preferences.Tourist {
		resp.TouristSpots = append(resp.TouristSpots, s.touristSpots(ctx, line)...)
	}

	if q.Preferences.Climatic {
		segments, alerts := s.weatherSegments(ctx, line)
		resp.WeatherSegments = segments
		resp.TouristSpots = append(resp.TouristSpots, alerts...)
	} else {
		resp.WeatherSegments = append(resp.WeatherSegments, t.WireWeatherSegment{
			Coordinates: resp.Routes[0].Geometry.Coordinates,
			Color:       NormalColor,
			Description: NormalDescription,
		})
	}
	return resp, nil
}

// weatherSegments samples current weather at the middle of each segment and emits one weather
// point at the start of every run of notable weather.
func (s *Service) weatherSegments(ctx context.Context, line orb.LineString) ([]t.WireWeatherSegment, []t.TouristSpot) {
	pieces := splitLine(line, s.opts.SegmentLength, s.opts.MaxSegments)
	midpoints := make([]t.GeoPoint, len(pieces))
	for i, piece := range pieces {
		if len(piece) > 0 {
			midpoints[i] = geoPoint(piece[len(piece)/2])
		}
	}

	current := s.weather.CurrentBatch(ctx, midpoints)

	segments := make([]t.WireWeatherSegment, len(pieces))
	var points []t.TouristSpot
	for i, piece := range pieces {
		var code *int
		var temp float64
		if i < len(current) && current[i] != nil {
			code = current[i].WeatherCode
			temp = current[i].Temperature2m
		}
		color, desc := openmeteo.Describe(code)
		segments[i] = t.WireWeatherSegment{
			Coordinates: coordinates(piece),
			Color:       color,
			Description: desc,
		}

		if i > 0 && segments[i-1].Description == desc {
			continue
		}
		if category := weatherCategory(desc); category != "" {
			points = append(points, t.TouristSpot{
				Lat:      midpoints[i].Latitude,
				Lon:      midpoints[i].Longitude,
				Name:     fmt.Sprintf("%s (%.0f°C)", desc, temp),
				Category: category,
			})
		}
	}
	return segments, points
}

// weatherCategory is the point category announcing a run of the given weather, empty if the
// weather is not worth a point.
func weatherCategory(desc string) string {
	switch desc {
	case "Chuva", "Aguaceiros", "Trovoada", "Neve":
		return "Alerta " + desc
	case "Sol":
		return "Céu Limpo"
	case "Nublado", "Nevoeiro":
		return "Sem Chuva"
	}
	return ""
}

func (s *Service) touristSpots(ctx context.Context, line orb.LineString) []t.TouristSpot {
	if s.spots == nil || len(line) == 0 {
		return nil
	}
	samples := samplePoints(line, s.opts.DetourRadius, s.opts.MaxSamples)
	spots, err := s.spots.Near(ctx, samples, s.opts.DetourRadius)
	if err != nil {
		s.logger.Warnw("tourist point lookup failed", "samples", len(samples), "error", err)
		return nil
	}
	for i := range spots {
		spots[i].Category = strings.TrimSpace(spots[i].Category)
	}
	return spots
}
