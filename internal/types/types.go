package types

import "fmt"

type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Address is the display string for a GeoPoint: a geocoder name or a coordinate fallback.
type Address string

// CoordinateAddress formats p with 5 decimals, used when no name can be resolved.
func CoordinateAddress(p GeoPoint) Address {
	return Address(fmt.Sprintf("%.5f, %.5f", p.Latitude, p.Longitude))
}

type Slot int

const (
	SlotNone Slot = iota
	SlotOrigin
	SlotDestination
)

func (s Slot) String() string {
	switch s {
	case SlotOrigin:
		return "origin"
	case SlotDestination:
		return "destination"
	default:
		return "none"
	}
}

func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Slot) UnmarshalText(b []byte) error {
	slot, err := ParseSlot(string(b))
	if err != nil {
		return err
	}
	*s = slot
	return nil
}

func ParseSlot(s string) (Slot, error) {
	switch s {
	case "origin":
		return SlotOrigin, nil
	case "destination":
		return SlotDestination, nil
	case "none", "":
		return SlotNone, nil
	}
	return SlotNone, fmt.Errorf("unknown slot %q", s)
}

type TransportMode string

const (
	Driving TransportMode = "driving"
	Cycling TransportMode = "cycling"
	Walking TransportMode = "walking"
)

// ParseTransportMode accepts the routing profile names; empty means Driving.
func ParseTransportMode(s string) (TransportMode, error) {
	switch TransportMode(s) {
	case "", Driving:
		return Driving, nil
	case Cycling:
		return Cycling, nil
	case Walking:
		return Walking, nil
	}
	return Driving, fmt.Errorf("unknown transport mode %q", s)
}

type RoutePreferences struct {
	Tourist  bool `json:"tourist"`
	Climatic bool `json:"climatic"`
}

type Route struct {
	DistanceMeters  float64    `json:"distance"`
	DurationSeconds float64    `json:"duration"`
	Polyline        []GeoPoint `json:"polyline"`
}

type WeatherSegment struct {
	Polyline    []GeoPoint `json:"polyline"`
	Color       string     `json:"color"`
	Description string     `json:"description"`
}

// MergedWeatherRange is a run of segments sharing a description, 1-indexed and inclusive.
type MergedWeatherRange struct {
	Description string `json:"description"`
	Color       string `json:"color"`
	StartIndex  int    `json:"startIndex"`
	EndIndex    int    `json:"endIndex"`
}

type PointOfInterest struct {
	Location GeoPoint `json:"location"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
}

// External Objects

// RouteQuery is the enriched route request sent to the routing service.
type RouteQuery struct {
	Origin      GeoPoint
	Destination GeoPoint
	Profile     TransportMode
	Preferences RoutePreferences
}

type RouteResponse struct {
	Code            string               `json:"code,omitempty"`
	Routes          []RouteCandidate     `json:"routes"`
	WeatherSegments []WireWeatherSegment `json:"weather_segments"`
	TouristSpots    []TouristSpot        `json:"tourist_spots"`
}

type RouteCandidate struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Geometry Geometry `json:"geometry"`
}

// Geometry is a GeoJSON LineString; coordinates are [lon, lat] pairs.
type Geometry struct {
	Type        string      `json:"type,omitempty"`
	Coordinates [][]float64 `json:"coordinates"`
}

type WireWeatherSegment struct {
	Coordinates [][]float64 `json:"coordinates"`
	Color       string      `json:"color"`
	Description string      `json:"description"`
}

type TouristSpot struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
}

// Place is a geocoder result. Coordinates arrive string-encoded.
type Place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name,omitempty"`
}
