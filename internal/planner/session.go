package planner

import (
	"context"
	"errors"
	"sync"

	"github.com/evanhutnik/bettermaps-service/internal/metrics"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"go.uber.org/zap"
)

// Locator is the device's single-shot position query.
type Locator interface {
	CurrentPosition(ctx context.Context) (t.GeoPoint, error)
}

// operation names an independent stream of asynchronous requests. Only the latest request of
// each operation may update the state.
type operation string

const (
	opOrigin      operation = "origin-resolution"
	opDestination operation = "destination-resolution"
	opRoute       operation = "route-computation"
	opDevice      operation = "device-location"
)

func slotOperation(slot t.Slot) operation {
	if slot == t.SlotOrigin {
		return opOrigin
	}
	return opDestination
}

type SessionOption func(*Session)

func WithLocator(locator Locator) SessionOption {
	return func(s *Session) {
		s.locator = locator
	}
}

// WithObserver registers fn to receive the state after every handled event. fn runs on the
// session loop and must not call back into the Session.
func WithObserver(fn func(TripState)) SessionOption {
	return func(s *Session) {
		s.observer = fn
	}
}

func WithInitialView(center t.GeoPoint, zoom float64) SessionOption {
	return func(s *Session) {
		s.state.MapCenter = center
		s.state.Zoom = zoom
	}
}

// Session owns one TripState. Every mutation runs on the goroutine executing Run; lookups run
// concurrently and post their results back tagged with a request token.
type Session struct {
	resolver     *LocationResolver
	orchestrator *RouteOrchestrator
	locator      Locator
	observer     func(TripState)
	logger       *zap.SugaredLogger

	events  chan func()
	done    chan struct{}
	startMu sync.Mutex
	started bool

	// Owned by the loop.
	ctx      context.Context
	state    TripState
	tokens   map[operation]uint64
	mapMoved bool
}

func NewSession(geocoder Geocoder, router Router, logger *zap.SugaredLogger, opts ...SessionOption) *Session {
	s := &Session{
		resolver:     NewLocationResolver(geocoder, logger),
		orchestrator: NewRouteOrchestrator(router, logger),
		logger:       logger,
		events:       make(chan func(), 64),
		done:         make(chan struct{}),
		state:        NewTripState(t.GeoPoint{Latitude: 38.7119, Longitude: -9.2066}, 13),
		tokens:       make(map[operation]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes events until ctx is done. Handlers called before Run starts are queued.
func (s *Session) Run(ctx context.Context) error {
	s.startMu.Lock()
	s.started = true
	s.ctx = ctx
	s.startMu.Unlock()
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.events:
			fn()
			if s.observer != nil {
				s.observer(s.state)
			}
		}
	}
}

func (s *Session) post(fn func()) bool {
	select {
	case s.events <- fn:
		return true
	case <-s.done:
		return false
	}
}

// State returns a snapshot of the trip once every handler queued before it has run. Before
// Run starts with nothing queued it returns the initial state; with handlers queued it waits
// for Run.
func (s *Session) State() TripState {
	s.startMu.Lock()
	if !s.started && len(s.events) == 0 {
		defer s.startMu.Unlock()
		return s.state
	}
	s.startMu.Unlock()
	reply := make(chan TripState, 1)
	if !s.post(func() { reply <- s.state }) {
		return s.state
	}
	select {
	case st := <-reply:
		return st
	case <-s.done:
		return s.state
	}
}

func (s *Session) next(op operation) uint64 {
	s.tokens[op]++
	return s.tokens[op]
}

func (s *Session) current(op operation, token uint64) bool {
	if s.tokens[op] == token {
		return true
	}
	metrics.StaleResponses.WithLabelValues(string(op)).Inc()
	s.logger.Debugw("discarding superseded response", "operation", op, "token", token, "latest", s.tokens[op])
	return false
}

// invalidate drops displayed results and any route still in flight.
func (s *Session) invalidate() {
	s.state.clearResults()
	s.next(opRoute)
}

func (s *Session) ArmSlot(slot t.Slot) {
	s.post(func() {
		s.state.Arm(slot)
	})
}

// MapClick fills the armed slot with p; without an armed slot the click is ignored.
func (s *Session) MapClick(p t.GeoPoint) {
	s.post(func() {
		slot, ok := s.state.ConsumeSpatialInput()
		if !ok {
			return
		}
		s.assignPoint(slot, p)
	})
}

// UseCurrentLocation makes the known device location the origin.
func (s *Session) UseCurrentLocation() {
	s.post(func() {
		p, ok := s.state.TakeCurrentLocation()
		if !ok {
			s.logger.Debugw("current location requested but device location is unknown")
			return
		}
		s.assignPoint(t.SlotOrigin, p)
	})
}

// assignPoint sets a slot's point directly and names it in the background.
func (s *Session) assignPoint(slot t.Slot, p t.GeoPoint) {
	s.invalidate()
	s.state.Notice = nil
	s.state.setPoint(slot, p)
	s.state.setAddress(slot, t.CoordinateAddress(p))

	op := slotOperation(slot)
	token := s.next(op)
	ctx := s.ctx
	go func() {
		addr := s.resolver.ResolveAddress(ctx, p)
		s.post(func() {
			if !s.current(op, token) {
				return
			}
			s.state.setAddress(slot, addr)
		})
	}()
}

// SubmitAddress geocodes text into slot. The slot keeps its point and address until the
// text resolves; a failed lookup only raises a notice.
func (s *Session) SubmitAddress(slot t.Slot, text string) {
	s.post(func() {
		if slot == t.SlotNone {
			return
		}
		s.state.Notice = nil

		op := slotOperation(slot)
		token := s.next(op)
		ctx := s.ctx
		go func() {
			p, err := s.resolver.ResolveCoordinates(ctx, text)
			s.post(func() {
				if !s.current(op, token) {
					return
				}
				if err != nil {
					s.state.Notice = &Notice{Kind: NoticeNotFound, Message: "Endereço não encontrado: " + text}
					return
				}
				s.invalidate()
				s.state.setPoint(slot, p)
				s.state.setAddress(slot, t.Address(text))
				s.state.MapCenter = p
				s.mapMoved = true
			})
		}()
	})
}

// SetDeviceLocation records a position reported by the device.
func (s *Session) SetDeviceLocation(p t.GeoPoint) {
	s.post(func() {
		s.next(opDevice)
		s.applyDeviceLocation(p)
	})
}

func (s *Session) applyDeviceLocation(p t.GeoPoint) {
	s.state.DeviceLocation = &p
	if !s.mapMoved {
		s.state.MapCenter = p
	}
}

// LocateDevice asks the Locator for the device position. Failures are logged and otherwise
// ignored.
func (s *Session) LocateDevice() {
	s.post(func() {
		if s.locator == nil {
			return
		}
		token := s.next(opDevice)
		ctx := s.ctx
		go func() {
			p, err := s.locator.CurrentPosition(ctx)
			s.post(func() {
				if !s.current(opDevice, token) {
					return
				}
				if err != nil {
					s.logger.Warnw("device location unavailable", "error", err)
					return
				}
				s.applyDeviceLocation(p)
			})
		}()
	})
}

func (s *Session) SetTransportMode(mode t.TransportMode) {
	s.post(func() {
		s.state.Transport = mode
	})
}

func (s *Session) TogglePreference(pref Preference) {
	s.post(func() {
		switch pref {
		case PreferenceTourist:
			s.state.Preferences.Tourist = !s.state.Preferences.Tourist
		case PreferenceClimatic:
			s.state.Preferences.Climatic = !s.state.Preferences.Climatic
		}
	})
}

func (s *Session) SetZoom(zoom float64) {
	s.post(func() {
		s.state.Zoom = zoom
	})
}

// ComputeRoute requests a route for the current endpoints, superseding any earlier request.
// Without both endpoints it does nothing.
func (s *Session) ComputeRoute() {
	s.post(func() {
		if !s.state.HasEndpoints() {
			return
		}
		s.state.clearResults()
		s.state.Notice = nil
		s.state.Loading = true

		token := s.next(opRoute)
		origin, destination := *s.state.Origin, *s.state.Destination
		mode, prefs := s.state.Transport, s.state.Preferences
		ctx := s.ctx
		go func() {
			result, err := s.orchestrator.ComputeRoute(ctx, &origin, &destination, mode, prefs)
			s.post(func() {
				if !s.current(opRoute, token) {
					return
				}
				s.finishRoute(result, err)
			})
		}()
	})
}

func (s *Session) finishRoute(result *RouteResult, err error) {
	s.state.Loading = false
	switch {
	case errors.Is(err, ErrNoRouteFound):
		metrics.RouteComputations.WithLabelValues("no_route").Inc()
		s.state.Notice = &Notice{Kind: NoticeNoRoute, Message: "Nenhuma rota disponível entre estes pontos."}
	case err != nil:
		metrics.RouteComputations.WithLabelValues("failed").Inc()
		s.state.Notice = &Notice{Kind: NoticeRouteFailed, Message: "Erro ao calcular rota."}
	case result == nil:
		metrics.RouteComputations.WithLabelValues("skipped").Inc()
	default:
		metrics.RouteComputations.WithLabelValues("ok").Inc()
		s.state.applyRoute(result)
	}
}

// Clear forgets both endpoints and any results, superseding every pending lookup.
func (s *Session) Clear() {
	s.post(func() {
		s.state.reset()
		s.next(opOrigin)
		s.next(opDestination)
		s.next(opRoute)
	})
}

type Preference string

const (
	PreferenceTourist  Preference = "tourist"
	PreferenceClimatic Preference = "climatic"
)
