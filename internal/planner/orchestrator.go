package planner

import (
	"context"
	"errors"
	"fmt"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"go.uber.org/zap"
)

var (
	ErrNoRouteFound       = errors.New("no route found")
	ErrRouteRequestFailed = errors.New("route request failed")
)

type Router interface {
	Route(ctx context.Context, q t.RouteQuery) (*t.RouteResponse, error)
}

// RouteResult is one route computation demultiplexed for display.
type RouteResult struct {
	Route            t.Route
	WeatherSegments  []t.WeatherSegment
	PointsOfInterest []t.PointOfInterest
}

type RouteOrchestrator struct {
	router Router
	logger *zap.SugaredLogger
}

func NewRouteOrchestrator(router Router, logger *zap.SugaredLogger) *RouteOrchestrator {
	return &RouteOrchestrator{router: router, logger: logger}
}

// ComputeRoute requests a route between origin and destination. With either endpoint missing it
// does nothing and returns (nil, nil).
func (o *RouteOrchestrator) ComputeRoute(ctx context.Context, origin, destination *t.GeoPoint,
	mode t.TransportMode, prefs t.RoutePreferences) (*RouteResult, error) {
	if origin == nil || destination == nil {
		return nil, nil
	}

	resp, err := o.router.Route(ctx, t.RouteQuery{
		Origin:      *origin,
		Destination: *destination,
		Profile:     mode,
		Preferences: prefs,
	})
	if err != nil {
		o.logger.Errorf("Error routing trip (%v,%v) to (%v,%v): %v",
			origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrRouteRequestFailed, err)
	}
	if resp == nil || len(resp.Routes) == 0 {
		return nil, ErrNoRouteFound
	}

	first := resp.Routes[0]
	result := &RouteResult{
		Route: t.Route{
			DistanceMeters:  first.Distance,
			DurationSeconds: first.Duration,
			Polyline:        transpose(first.Geometry.Coordinates),
		},
	}
	for _, ws := range resp.WeatherSegments {
		result.WeatherSegments = append(result.WeatherSegments, t.WeatherSegment{
			Polyline:    transpose(ws.Coordinates),
			Color:       ws.Color,
			Description: ws.Description,
		})
	}
	for _, spot := range resp.TouristSpots {
		result.PointsOfInterest = append(result.PointsOfInterest, t.PointOfInterest{
			Location: t.GeoPoint{Latitude: spot.Lat, Longitude: spot.Lon},
			Name:     spot.Name,
			Category: spot.Category,
		})
	}
	return result, nil
}

// transpose turns routing-service [lon, lat] pairs into points. Malformed pairs are dropped.
func transpose(coords [][]float64) []t.GeoPoint {
	points := make([]t.GeoPoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		points = append(points, t.GeoPoint{Latitude: c[1], Longitude: c[0]})
	}
	return points
}
