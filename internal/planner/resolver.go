package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an address cannot be turned into coordinates.
var ErrNotFound = errors.New("address not found")

type Geocoder interface {
	Search(ctx context.Context, address string) ([]t.Place, error)
	Reverse(ctx context.Context, p t.GeoPoint) (*t.Place, error)
}

// LocationResolver wraps forward and reverse geocoding with the planner's fallback rules.
type LocationResolver struct {
	geocoder Geocoder
	logger   *zap.SugaredLogger
}

func NewLocationResolver(geocoder Geocoder, logger *zap.SugaredLogger) *LocationResolver {
	return &LocationResolver{geocoder: geocoder, logger: logger}
}

// ResolveAddress names p. It never fails: any lookup problem yields the coordinate string.
func (r *LocationResolver) ResolveAddress(ctx context.Context, p t.GeoPoint) t.Address {
	place, err := r.geocoder.Reverse(ctx, p)
	if err != nil {
		r.logger.Warnw("reverse geocode failed, using coordinates",
			"lat", p.Latitude, "lng", p.Longitude, "error", err)
		return t.CoordinateAddress(p)
	}
	if place == nil || strings.TrimSpace(place.DisplayName) == "" {
		return t.CoordinateAddress(p)
	}
	return t.Address(place.DisplayName)
}

// ResolveCoordinates geocodes text and takes the first result. Empty results, lookup failures
// and unparseable coordinates all wrap ErrNotFound.
func (r *LocationResolver) ResolveCoordinates(ctx context.Context, text string) (t.GeoPoint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return t.GeoPoint{}, fmt.Errorf("%w: empty address", ErrNotFound)
	}

	places, err := r.geocoder.Search(ctx, text)
	if err != nil {
		r.logger.Errorw(err.Error(), "address", text, "action", "GeoCode")
		return t.GeoPoint{}, fmt.Errorf("%w: %q: %v", ErrNotFound, text, err)
	}
	if len(places) == 0 {
		return t.GeoPoint{}, fmt.Errorf("%w: %q", ErrNotFound, text)
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return t.GeoPoint{}, fmt.Errorf("%w: %q: bad coordinates (%s, %s)", ErrNotFound, text, places[0].Lat, places[0].Lon)
	}
	return t.GeoPoint{Latitude: lat, Longitude: lng}, nil
}
