package openmeteo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evanhutnik/bettermaps-service/internal/common"
	"github.com/evanhutnik/bettermaps-service/internal/metrics"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Current is the "current" block of a forecast response.
type Current struct {
	WeatherCode   *int    `json:"weather_code"`
	Temperature2m float64 `json:"temperature_2m"`
}

type forecast struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Current   *Current `json:"current"`
}

// Cache is the subset of *redis.Client used to cache current conditions per coordinate.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type ClientOption func(*Client)

func BaseUrlOption(baseUrl string) ClientOption {
	return func(c *Client) {
		c.baseUrl = baseUrl
	}
}

// BatchSizeOption sets how many coordinates go into one request.
func BatchSizeOption(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

func CacheOption(cache Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func HttpClientOption(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func LoggerOption(logger *zap.SugaredLogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

type Client struct {
	baseUrl    string
	batchSize  int
	cache      Cache
	cacheTTL   time.Duration
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

func New(opts ...ClientOption) *Client {
	c := &Client{batchSize: 50, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseUrl == "" {
		panic("Missing baseUrl in openmeteo client")
	}
	return c
}

// CurrentBatch returns current conditions for every point, in order. Entries are nil where the
// upstream failed; a failed batch never fails the whole call.
func (c *Client) CurrentBatch(ctx context.Context, points []t.GeoPoint) []*Current {
	results := make([]*Current, len(points))
	if len(points) == 0 {
		return results
	}

	var missing []int
	for i, p := range points {
		if cur := c.cached(ctx, p); cur != nil {
			results[i] = cur
			continue
		}
		missing = append(missing, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(missing); start += c.batchSize {
		end := start + c.batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]
		g.Go(func() error {
			batchPoints := make([]t.GeoPoint, len(batch))
			for j, idx := range batch {
				batchPoints[j] = points[idx]
			}
			current, err := c.fetch(gctx, batchPoints)
			if err != nil {
				c.logger.Warnw("weather batch failed", "points", len(batch), "error", err)
				return nil
			}
			for j, idx := range batch {
				results[idx] = current[j]
				c.store(gctx, points[idx], current[j])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *Client) fetch(ctx context.Context, points []t.GeoPoint) ([]*Current, error) {
	lats := make([]string, len(points))
	lons := make([]string, len(points))
	for i, p := range points {
		lats[i] = fmt.Sprintf("%.4f", p.Latitude)
		lons[i] = fmt.Sprintf("%.4f", p.Longitude)
	}

	endpoint, err := url.JoinPath(c.baseUrl, "forecast")
	if err != nil {
		return nil, fmt.Errorf("failed to parse openmeteo baseUrl %s: %w", c.baseUrl, err)
	}
	req, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openmeteo baseUrl %s: %w", c.baseUrl, err)
	}
	q := req.Query()
	q.Add("latitude", strings.Join(lats, ","))
	q.Add("longitude", strings.Join(lons, ","))
	q.Add("current", "weather_code,temperature_2m")
	q.Add("timezone", "auto")
	req.RawQuery = q.Encode()

	var raw json.RawMessage
	if err := common.GetJSON(ctx, c.httpClient, req.String(), nil, "openmeteo", &raw); err != nil {
		return nil, err
	}

	// A single location comes back as an object, several as an array.
	var forecasts []forecast
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(raw, &forecasts)
	} else {
		var single forecast
		err = json.Unmarshal(raw, &single)
		forecasts = []forecast{single}
	}
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling response from openmeteo: %w", err)
	}
	if len(forecasts) != len(points) {
		return nil, fmt.Errorf("openmeteo returned %d forecasts for %d points", len(forecasts), len(points))
	}

	current := make([]*Current, len(points))
	for i := range forecasts {
		current[i] = forecasts[i].Current
	}
	return current, nil
}

func cacheKey(p t.GeoPoint) string {
	return fmt.Sprintf("weather:%.4f,%.4f", p.Latitude, p.Longitude)
}

func (c *Client) cached(ctx context.Context, p t.GeoPoint) *Current {
	if c.cache == nil {
		return nil
	}
	val, err := c.cache.Get(ctx, cacheKey(p)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Errorf("Redis error fetching weather for (%v, %v): %v", p.Latitude, p.Longitude, err.Error())
		}
		metrics.CacheMisses.WithLabelValues("weather").Inc()
		return nil
	}
	var cur Current
	if err := json.Unmarshal(val, &cur); err != nil {
		c.logger.Errorf("Error unmarshalling redis weather for (%v, %v): %v", p.Latitude, p.Longitude, err.Error())
		return nil
	}
	metrics.CacheHits.WithLabelValues("weather").Inc()
	return &cur
}

func (c *Client) store(ctx context.Context, p t.GeoPoint, cur *Current) {
	if c.cache == nil || cur == nil {
		return
	}
	val, _ := json.Marshal(cur)
	if err := c.cache.Set(ctx, cacheKey(p), val, c.cacheTTL).Err(); err != nil {
		c.logger.Warnw("failed to cache weather", "key", cacheKey(p), "error", err)
	}
}
