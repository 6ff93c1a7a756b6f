package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/evanhutnik/bettermaps-service/internal/common"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
)

type Response struct {
	Code    string  `json:"code"`
	Message string  `json:"message,omitempty"`
	Routes  []Route `json:"routes"`
}

type Route struct {
	WeightName string     `json:"weight_name"`
	Weight     float64    `json:"weight"`
	Duration   float64    `json:"duration"`
	Distance   float64    `json:"distance"`
	Geometry   t.Geometry `json:"geometry"`
	Legs       []Leg      `json:"legs"`
}

type Leg struct {
	Summary  string  `json:"summary"`
	Weight   float64 `json:"weight"`
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
	Steps    []Step  `json:"steps"`
}

type Step struct {
	Geometry    t.Geometry `json:"geometry"`
	Mode        string     `json:"mode"`
	DrivingSide string     `json:"driving_side"`
	Name        string     `json:"name"`
	Weight      float64    `json:"weight"`
	Duration    float64    `json:"duration"`
	Distance    float64    `json:"distance"`
	Ref         string     `json:"ref,omitempty"`
	Maneuver    Maneuver   `json:"maneuver"`
}

type Maneuver struct {
	BearingAfter  int       `json:"bearing_after"`
	BearingBefore int       `json:"bearing_before"`
	Location      []float64 `json:"location"`
	Type          string    `json:"type"`
	Modifier      string    `json:"modifier,omitempty"`
}

type NearestResponse struct {
	Code      string     `json:"code"`
	Waypoints []Waypoint `json:"waypoints"`
}

type Waypoint struct {
	Hint     string    `json:"hint,omitempty"`
	Distance float64   `json:"distance"`
	Name     string    `json:"name"`
	Location []float64 `json:"location"`
}

// ErrUnknownProfile is returned when no server is configured for a transport mode.
var ErrUnknownProfile = errors.New("no osrm server configured for profile")

// The community bike and foot servers only expose the "driving" profile path.
const internalProfile = "driving"

type ClientOption func(*Client)

type Client struct {
	servers    map[t.TransportMode]string
	httpClient *http.Client
}

// ServerOption sets the base url serving profile, e.g. https://routing.openstreetmap.de/routed-bike.
func ServerOption(profile t.TransportMode, baseUrl string) ClientOption {
	return func(c *Client) {
		if baseUrl != "" {
			c.servers[profile] = baseUrl
		}
	}
}

func HttpClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(opts ...ClientOption) *Client {
	c := &Client{servers: map[t.TransportMode]string{}}
	for _, opt := range opts {
		opt(c)
	}

	if c.servers[t.Driving] == "" {
		panic("Missing driving server url in osrm client")
	}
	return c
}

// Route asks the profile's server for a route with full GeoJSON geometry. A NoRoute answer is
// returned as a Response without routes rather than as an error.
func (c *Client) Route(ctx context.Context, profile t.TransportMode, from, to t.GeoPoint) (*Response, error) {
	req, err := c.serviceUrl("route", profile, fmt.Sprintf("%f,%f;%f,%f",
		from.Longitude, from.Latitude, to.Longitude, to.Latitude))
	if err != nil {
		return nil, err
	}

	q := req.Query()
	q.Add("steps", "true")
	q.Add("geometries", "geojson")
	q.Add("overview", "full")
	req.RawQuery = q.Encode()

	var respObj Response
	err = common.GetJSON(ctx, c.httpClient, req.String(), nil, "osrm", &respObj)
	if err != nil {
		var statusErr *common.StatusError
		if errors.As(err, &statusErr) && json.Unmarshal(statusErr.Body, &respObj) == nil && isNoRoute(respObj.Code) {
			return &Response{Code: respObj.Code, Message: respObj.Message}, nil
		}
		return nil, err
	}
	return &respObj, nil
}

// Nearest snaps a point to the closest number of road segments.
func (c *Client) Nearest(ctx context.Context, profile t.TransportMode, p t.GeoPoint, number int) (*NearestResponse, error) {
	req, err := c.serviceUrl("nearest", profile, fmt.Sprintf("%f,%f", p.Longitude, p.Latitude))
	if err != nil {
		return nil, err
	}

	q := req.Query()
	q.Add("number", strconv.Itoa(number))
	req.RawQuery = q.Encode()

	var respObj NearestResponse
	if err := common.GetJSON(ctx, c.httpClient, req.String(), nil, "osrm", &respObj); err != nil {
		return nil, err
	}
	return &respObj, nil
}

func (c *Client) serviceUrl(service string, profile t.TransportMode, coordinates string) (*url.URL, error) {
	if profile == "" {
		profile = t.Driving
	}
	baseUrl, ok := c.servers[profile]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, profile)
	}

	reqUrl := fmt.Sprintf("%v/%v/v1/%v/%v.json", baseUrl, service, internalProfile, coordinates)
	req, err := url.Parse(reqUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse osrm url %s: %w", reqUrl, err)
	}
	return req, nil
}

func isNoRoute(code string) bool {
	return code == "NoRoute" || code == "NoSegment"
}
