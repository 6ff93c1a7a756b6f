package nominatim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/evanhutnik/bettermaps-service/internal/common"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"golang.org/x/time/rate"
)

type reverseResponse struct {
	t.Place
	Error string `json:"error,omitempty"`
}

type ClientOption func(*Client)

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

// UserAgentOption sets the identifying User-Agent the public Nominatim instance requires.
func UserAgentOption(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// RateLimitOption caps outgoing requests per second. Zero or less disables the limit.
func RateLimitOption(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func HttpClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type Client struct {
	baseUrl    string
	userAgent  string
	limiter    *rate.Limiter
	httpClient *http.Client
}

func New(opts ...ClientOption) *Client {
	c := &Client{limiter: rate.NewLimiter(1, 1)}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in nominatim client")
	}
	if c.userAgent == "" {
		panic("Missing userAgent in nominatim client")
	}
	return c
}

// Search forward-geocodes address. An unknown address yields an empty slice, not an error.
func (c *Client) Search(ctx context.Context, address string) ([]t.Place, error) {
	q := url.Values{}
	q.Add("q", address)
	q.Add("limit", "1")

	var places []t.Place
	if err := c.get(ctx, "search", q, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// Reverse looks up the display name of a point. DisplayName is empty when nothing matched.
func (c *Client) Reverse(ctx context.Context, p t.GeoPoint) (*t.Place, error) {
	q := url.Values{}
	q.Add("lat", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	q.Add("lon", strconv.FormatFloat(p.Longitude, 'f', -1, 64))

	var respObj reverseResponse
	if err := c.get(ctx, "reverse", q, &respObj); err != nil {
		return nil, err
	}
	return &respObj.Place, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := url.Parse(fmt.Sprintf("%v/%v", c.baseUrl, endpoint))
	if err != nil {
		return fmt.Errorf("failed to parse nominatim baseUrl %s: %w", c.baseUrl, err)
	}
	q.Set("format", "json")
	req.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("nominatim rate limiter: %w", err)
	}

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	return common.GetJSON(ctx, c.httpClient, req.String(), header, "nominatim", out)
}
