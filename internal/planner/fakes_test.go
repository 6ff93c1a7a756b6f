package planner

import (
	"context"
	"errors"
	"sync"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
)

type fakeGeocoder struct {
	mu         sync.Mutex
	places     map[string][]t.Place
	searchErr  error
	name       string
	reverseErr error
	searched   []string
}

func (f *fakeGeocoder) Search(ctx context.Context, address string) ([]t.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searched = append(f.searched, address)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.places[address], nil
}

func (f *fakeGeocoder) Reverse(ctx context.Context, p t.GeoPoint) (*t.Place, error) {
	if f.reverseErr != nil {
		return nil, f.reverseErr
	}
	return &t.Place{DisplayName: f.name}, nil
}

type fakeRouter struct {
	mu      sync.Mutex
	resp    *t.RouteResponse
	err     error
	queries []t.RouteQuery
}

func (f *fakeRouter) Route(ctx context.Context, q t.RouteQuery) (*t.RouteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.resp, f.err
}

type pendingRoute struct {
	query t.RouteQuery
	reply chan *t.RouteResponse
}

// blockingRouter holds every request until the test answers it.
type blockingRouter struct {
	calls chan pendingRoute
}

func newBlockingRouter() *blockingRouter {
	return &blockingRouter{calls: make(chan pendingRoute, 8)}
}

func (b *blockingRouter) Route(ctx context.Context, q t.RouteQuery) (*t.RouteResponse, error) {
	p := pendingRoute{query: q, reply: make(chan *t.RouteResponse, 1)}
	b.calls <- p
	select {
	case resp := <-p.reply:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type pendingReverse struct {
	point t.GeoPoint
	reply chan string
}

type pendingSearch struct {
	address string
	reply   chan []t.Place
}

// blockingGeocoder holds every lookup until the test answers it.
type blockingGeocoder struct {
	reverses chan pendingReverse
	searches chan pendingSearch
}

func newBlockingGeocoder() *blockingGeocoder {
	return &blockingGeocoder{
		reverses: make(chan pendingReverse, 8),
		searches: make(chan pendingSearch, 8),
	}
}

func (b *blockingGeocoder) Reverse(ctx context.Context, p t.GeoPoint) (*t.Place, error) {
	call := pendingReverse{point: p, reply: make(chan string, 1)}
	b.reverses <- call
	select {
	case name := <-call.reply:
		return &t.Place{DisplayName: name}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingGeocoder) Search(ctx context.Context, address string) ([]t.Place, error) {
	call := pendingSearch{address: address, reply: make(chan []t.Place, 1)}
	b.searches <- call
	select {
	case places := <-call.reply:
		return places, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeLocator struct {
	p   t.GeoPoint
	err error
}

func (f fakeLocator) CurrentPosition(ctx context.Context) (t.GeoPoint, error) {
	return f.p, f.err
}

var errBoom = errors.New("boom")

var (
	lisbon = t.GeoPoint{Latitude: 38.7223, Longitude: -9.1393}
	sintra = t.GeoPoint{Latitude: 38.8029, Longitude: -9.3817}
)

// normalRoute is a 5 km, 10 minute route with the single non-climatic segment.
func normalRoute(distance float64) *t.RouteResponse {
	coords := [][]float64{{lisbon.Longitude, lisbon.Latitude}, {sintra.Longitude, sintra.Latitude}}
	return &t.RouteResponse{
		Code: "Ok",
		Routes: []t.RouteCandidate{{
			Distance: distance,
			Duration: 600,
			Geometry: t.Geometry{Type: "LineString", Coordinates: coords},
		}},
		WeatherSegments: []t.WireWeatherSegment{{Coordinates: coords, Color: "#8c03fc", Description: "Rota Normal"}},
		TouristSpots:    []t.TouristSpot{},
	}
}
