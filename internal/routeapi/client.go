// Package routeapi talks to the bettermaps HTTP API. Client satisfies the planner's Router and
// Geocoder so a planner Session can run against a remote server.
package routeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/evanhutnik/bettermaps-service/internal/common"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
)

type ClientOption func(*Client)

// BaseUrlOption points the client at the API root, e.g. http://localhost:8000/api.
func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

func HttpClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func New(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in routeapi client")
	}
	return c
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (c *Client) Route(ctx context.Context, q t.RouteQuery) (*t.RouteResponse, error) {
	v := url.Values{}
	v.Add("origin_lng", formatFloat(q.Origin.Longitude))
	v.Add("origin_lat", formatFloat(q.Origin.Latitude))
	v.Add("dest_lng", formatFloat(q.Destination.Longitude))
	v.Add("dest_lat", formatFloat(q.Destination.Latitude))
	v.Add("profile", string(q.Profile))
	v.Add("tourist", strconv.FormatBool(q.Preferences.Tourist))
	v.Add("climatic", strconv.FormatBool(q.Preferences.Climatic))

	var resp t.RouteResponse
	if err := c.get(ctx, "osrm/route/", v, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(ctx context.Context, address string) ([]t.Place, error) {
	v := url.Values{}
	v.Add("address", address)

	var places []t.Place
	if err := c.get(ctx, "geocode/", v, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (c *Client) Reverse(ctx context.Context, p t.GeoPoint) (*t.Place, error) {
	v := url.Values{}
	v.Add("lat", formatFloat(p.Latitude))
	v.Add("lng", formatFloat(p.Longitude))

	var place t.Place
	if err := c.get(ctx, "reverse-geocode/", v, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func (c *Client) get(ctx context.Context, endpoint string, v url.Values, out any) error {
	req, err := url.Parse(fmt.Sprintf("%v/%v", c.baseUrl, endpoint))
	if err != nil {
		return fmt.Errorf("failed to parse routeapi baseUrl %s: %w", c.baseUrl, err)
	}
	req.RawQuery = v.Encode()
	return common.GetJSON(ctx, c.httpClient, req.String(), nil, "bettermaps-api", out)
}
