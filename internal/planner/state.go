package planner

import t "github.com/evanhutnik/bettermaps-service/internal/types"

type NoticeKind string

const (
	NoticeNotFound     NoticeKind = "not_found"
	NoticeNoRoute      NoticeKind = "no_route"
	NoticeRouteFailed  NoticeKind = "route_failed"
	NoticeInvalidInput NoticeKind = "invalid_input"
)

// Notice is a user-visible, non-fatal message.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// TripState is everything the planner shows. Copies handed out by Session share slices and
// pointers with the live state and must be treated as read-only.
type TripState struct {
	Origin             *t.GeoPoint            `json:"origin,omitempty"`
	OriginAddress      t.Address              `json:"originAddress"`
	Destination        *t.GeoPoint            `json:"destination,omitempty"`
	DestinationAddress t.Address              `json:"destinationAddress"`
	Selection          t.Slot                 `json:"selection"`
	Transport          t.TransportMode        `json:"transport"`
	Preferences        t.RoutePreferences     `json:"preferences"`
	Route              *t.Route               `json:"route,omitempty"`
	WeatherSegments    []t.WeatherSegment     `json:"weatherSegments"`
	PointsOfInterest   []t.PointOfInterest    `json:"pointsOfInterest"`
	MergedWeather      []t.MergedWeatherRange `json:"mergedWeather"`
	Groups             []CategoryGroup        `json:"groups"`
	Loading            bool                   `json:"loading"`
	Notice             *Notice                `json:"notice,omitempty"`
	DeviceLocation     *t.GeoPoint            `json:"deviceLocation,omitempty"`
	MapCenter          t.GeoPoint             `json:"mapCenter"`
	Zoom               float64                `json:"zoom"`
}

func NewTripState(center t.GeoPoint, zoom float64) TripState {
	return TripState{
		Transport: t.Driving,
		MapCenter: center,
		Zoom:      zoom,
	}
}

// HasEndpoints reports whether a route can be computed.
func (s *TripState) HasEndpoints() bool {
	return s.Origin != nil && s.Destination != nil
}

// clearResults drops the route and everything derived from it.
func (s *TripState) clearResults() {
	s.Route = nil
	s.WeatherSegments = nil
	s.PointsOfInterest = nil
	s.MergedWeather = nil
	s.Groups = nil
	s.Loading = false
}

// applyRoute replaces all route results at once.
func (s *TripState) applyRoute(r *RouteResult) {
	route := r.Route
	s.Route = &route
	s.WeatherSegments = r.WeatherSegments
	s.PointsOfInterest = r.PointsOfInterest
	s.MergedWeather = MergeWeatherSegments(r.WeatherSegments)
	s.Groups = GroupPointsOfInterest(r.PointsOfInterest)
	s.Loading = false
}

func (s *TripState) setPoint(slot t.Slot, p t.GeoPoint) {
	switch slot {
	case t.SlotOrigin:
		s.Origin = &p
	case t.SlotDestination:
		s.Destination = &p
	}
}

func (s *TripState) setAddress(slot t.Slot, addr t.Address) {
	switch slot {
	case t.SlotOrigin:
		s.OriginAddress = addr
	case t.SlotDestination:
		s.DestinationAddress = addr
	}
}

// reset forgets the trip but keeps device location, transport mode, preferences and the view.
func (s *TripState) reset() {
	s.clearResults()
	s.Origin = nil
	s.Destination = nil
	s.OriginAddress = ""
	s.DestinationAddress = ""
	s.Selection = t.SlotNone
	s.Notice = nil
}
