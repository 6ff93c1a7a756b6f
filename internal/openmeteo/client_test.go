package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forecastServer(tt *testing.T, code int, calls *int32) *httptest.Server {
	return forecastServerAt(tt, "/forecast", code, calls)
}

func forecastServerAt(tt *testing.T, path string, code int, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		assert.Equal(tt, "weather_code,temperature_2m", r.URL.Query().Get("current"))
		lats := strings.Split(r.URL.Query().Get("latitude"), ",")
		if len(lats) == 1 {
			fmt.Fprintf(w, `{"latitude":%s,"current":{"weather_code":%d,"temperature_2m":20.5}}`, lats[0], code)
			return
		}
		items := make([]string, len(lats))
		for i, lat := range lats {
			items[i] = fmt.Sprintf(`{"latitude":%s,"current":{"weather_code":%d,"temperature_2m":18}}`, lat, code)
		}
		fmt.Fprintf(w, "[%s]", strings.Join(items, ","))
	}))
}

func points(n int) []t.GeoPoint {
	ps := make([]t.GeoPoint, n)
	for i := range ps {
		ps[i] = t.GeoPoint{Latitude: 38.7 + float64(i)*0.01, Longitude: -9.2}
	}
	return ps
}

func TestCurrentBatch_SplitsIntoBatches(tt *testing.T) {
	var calls int32
	srv := forecastServer(tt, 61, &calls)
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL), BatchSizeOption(2), HttpClientOption(srv.Client()))
	results := c.CurrentBatch(context.Background(), points(5))

	require.Len(tt, results, 5)
	for _, r := range results {
		require.NotNil(tt, r)
		assert.Equal(tt, 61, *r.WeatherCode)
	}
	assert.EqualValues(tt, 3, atomic.LoadInt32(&calls))
}

func TestCurrentBatch_SingleObjectResponse(tt *testing.T) {
	var calls int32
	srv := forecastServer(tt, 0, &calls)
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL), HttpClientOption(srv.Client()))
	results := c.CurrentBatch(context.Background(), points(1))
	require.NotNil(tt, results[0])
	assert.Equal(tt, 20.5, results[0].Temperature2m)
}

func TestCurrentBatch_VersionedBaseUrl(tt *testing.T) {
	var calls int32
	srv := forecastServerAt(tt, "/v1/forecast", 2, &calls)
	defer srv.Close()

	for _, base := range []string{srv.URL + "/v1", srv.URL + "/v1/"} {
		c := New(BaseUrlOption(base), HttpClientOption(srv.Client()))
		results := c.CurrentBatch(context.Background(), points(1))
		require.NotNil(tt, results[0], base)
		assert.Equal(tt, 2, *results[0].WeatherCode)
	}
}

func TestCurrentBatch_FailedBatchYieldsNil(tt *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestURITooLong)
	}))
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL), HttpClientOption(srv.Client()))
	results := c.CurrentBatch(context.Background(), points(3))
	assert.Equal(tt, []*Current{nil, nil, nil}, results)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (f *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func TestCurrentBatch_UsesCache(tt *testing.T) {
	var calls int32
	srv := forecastServer(tt, 3, &calls)
	defer srv.Close()

	code := 95
	cached, _ := json.Marshal(Current{WeatherCode: &code})
	cache := &fakeCache{data: map[string]string{"weather:38.7000,-9.2000": string(cached)}}

	c := New(BaseUrlOption(srv.URL), CacheOption(cache, time.Minute), HttpClientOption(srv.Client()))
	results := c.CurrentBatch(context.Background(), points(2))

	assert.Equal(tt, 95, *results[0].WeatherCode)
	assert.Equal(tt, 3, *results[1].WeatherCode)
	assert.EqualValues(tt, 1, atomic.LoadInt32(&calls))
	assert.Contains(tt, cache.data, "weather:38.7100,-9.2000")
}

func TestDescribe(tt *testing.T) {
	code := func(c int) *int { return &c }
	cases := []struct {
		code *int
		want string
	}{
		{nil, "Desconhecido"},
		{code(0), "Sol"},
		{code(1), "Sol"},
		{code(3), "Nublado"},
		{code(45), "Nevoeiro"},
		{code(61), "Chuva"},
		{code(71), "Neve"},
		{code(80), "Aguaceiros"},
		{code(90), "Normal"},
		{code(95), "Trovoada"},
	}
	for _, c := range cases {
		_, desc := Describe(c.code)
		assert.Equal(tt, c.want, desc)
	}
}
