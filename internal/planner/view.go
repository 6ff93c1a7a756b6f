package planner

import t "github.com/evanhutnik/bettermaps-service/internal/types"

// RouteColor draws a route that carries no weather segments.
const RouteColor = "blue"

type MarkerKind string

const (
	MarkerHome        MarkerKind = "home"
	MarkerOrigin      MarkerKind = "origin"
	MarkerDestination MarkerKind = "destination"
	MarkerPoint       MarkerKind = "poi"
)

type Marker struct {
	Kind     MarkerKind `json:"kind"`
	Position t.GeoPoint `json:"position"`
	Icon     Icon       `json:"icon"`
	Popup    string     `json:"popup,omitempty"`
	Tag      string     `json:"tag,omitempty"`
	TagClass string     `json:"tagClass,omitempty"`
}

type Polyline struct {
	Points []t.GeoPoint `json:"points"`
	Color  string       `json:"color"`
	Label  string       `json:"label,omitempty"`
}

type Stats struct {
	Duration string `json:"duration"`
	Distance string `json:"distance"`
}

type WeatherRow struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// View is what a map front end draws for a TripState.
type View struct {
	Markers         []Marker        `json:"markers"`
	Polylines       []Polyline      `json:"polylines"`
	Stats           *Stats          `json:"stats,omitempty"`
	Weather         []WeatherRow    `json:"weather"`
	Groups          []CategoryGroup `json:"groups"`
	ShowWeatherList bool            `json:"showWeatherList"`
	ShowTouristList bool            `json:"showTouristList"`
	Selecting       t.Slot          `json:"selecting"`
	Loading         bool            `json:"loading"`
	Notice          *Notice         `json:"notice,omitempty"`
	Center          t.GeoPoint      `json:"center"`
	Zoom            float64         `json:"zoom"`
}

func BuildView(s TripState) View {
	v := View{
		Markers:   []Marker{},
		Polylines: []Polyline{},
		Weather:   []WeatherRow{},
		Groups:    s.Groups,
		Selecting: s.Selection,
		Loading:   s.Loading,
		Notice:    s.Notice,
		Center:    s.MapCenter,
		Zoom:      s.Zoom,
	}
	if v.Groups == nil {
		v.Groups = []CategoryGroup{}
	}

	if s.DeviceLocation != nil {
		v.Markers = append(v.Markers, Marker{Kind: MarkerHome, Position: *s.DeviceLocation, Icon: HomeIcon})
	}
	if s.Origin != nil {
		v.Markers = append(v.Markers, Marker{
			Kind:     MarkerOrigin,
			Position: *s.Origin,
			Icon:     OriginIcon(s.Transport),
			Popup:    string(s.OriginAddress),
		})
	}
	if s.Destination != nil {
		v.Markers = append(v.Markers, Marker{
			Kind:     MarkerDestination,
			Position: *s.Destination,
			Icon:     DestinationIcon,
			Popup:    string(s.DestinationAddress),
		})
	}
	for _, p := range s.PointsOfInterest {
		v.Markers = append(v.Markers, pointMarker(p, s.Zoom))
	}

	switch {
	case len(s.WeatherSegments) > 0:
		for _, seg := range s.WeatherSegments {
			v.Polylines = append(v.Polylines, Polyline{Points: seg.Polyline, Color: seg.Color, Label: seg.Description})
		}
	case s.Route != nil:
		v.Polylines = append(v.Polylines, Polyline{Points: s.Route.Polyline, Color: RouteColor})
	}

	if s.Route != nil {
		v.Stats = &Stats{
			Duration: FormatDuration(s.Route.DurationSeconds),
			Distance: FormatDistance(s.Route.DistanceMeters),
		}
	}
	for _, r := range s.MergedWeather {
		v.Weather = append(v.Weather, WeatherRow{Label: RangeLabel(r), Description: r.Description, Color: r.Color})
	}
	v.ShowWeatherList = len(s.WeatherSegments) > 1
	v.ShowTouristList = len(s.PointsOfInterest) > 0
	return v
}

func pointMarker(p t.PointOfInterest, zoom float64) Marker {
	m := Marker{
		Kind:     MarkerPoint,
		Position: p.Location,
		Icon:     PointIcon(p.Category, zoom),
		Popup:    p.Name,
	}
	switch Classify(p.Category) {
	case ClassSun:
		m.Tag, m.TagClass = "Meteo", "tag-sun"
	case ClassRain:
		m.Tag, m.TagClass = "Meteo", "tag-rain"
	default:
		m.Tag, m.TagClass = "Turismo", "tag-tourist"
	}
	return m
}
