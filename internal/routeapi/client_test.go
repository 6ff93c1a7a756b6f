package routeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(tt *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(tt, "/api/osrm/route/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(tt, "-9.1393", q.Get("origin_lng"))
		assert.Equal(tt, "38.7223", q.Get("origin_lat"))
		assert.Equal(tt, "-9.3817", q.Get("dest_lng"))
		assert.Equal(tt, "38.8029", q.Get("dest_lat"))
		assert.Equal(tt, "cycling", q.Get("profile"))
		assert.Equal(tt, "false", q.Get("tourist"))
		assert.Equal(tt, "true", q.Get("climatic"))
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":5000,"duration":600,
			"geometry":{"type":"LineString","coordinates":[[-9.1393,38.7223],[-9.3817,38.8029]]}}],
			"weather_segments":[{"coordinates":[[-9.1393,38.7223],[-9.3817,38.8029]],"color":"#ffd700","description":"Sol"}],
			"tourist_spots":[]}`))
	}))
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL+"/api"), HttpClientOption(srv.Client()))
	resp, err := c.Route(context.Background(), t.RouteQuery{
		Origin:      t.GeoPoint{Latitude: 38.7223, Longitude: -9.1393},
		Destination: t.GeoPoint{Latitude: 38.8029, Longitude: -9.3817},
		Profile:     t.Cycling,
		Preferences: t.RoutePreferences{Climatic: true},
	})
	require.NoError(tt, err)
	require.Len(tt, resp.Routes, 1)
	assert.Equal(tt, 5000.0, resp.Routes[0].Distance)
	require.Len(tt, resp.WeatherSegments, 1)
	assert.Equal(tt, "Sol", resp.WeatherSegments[0].Description)
	assert.Empty(tt, resp.TouristSpots)
}

func TestRoute_ServerError(tt *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"All coordinates required"}`))
	}))
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL), HttpClientOption(srv.Client()))
	_, err := c.Route(context.Background(), t.RouteQuery{})
	assert.Error(tt, err)
}

func TestGeocoding(tt *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/":
			assert.Equal(tt, "Sintra, Portugal", r.URL.Query().Get("address"))
			w.Write([]byte(`[{"lat":"38.8029","lon":"-9.3817","display_name":"Sintra"}]`))
		case "/reverse-geocode/":
			assert.Equal(tt, "38.8029", r.URL.Query().Get("lat"))
			assert.Equal(tt, "-9.3817", r.URL.Query().Get("lng"))
			w.Write([]byte(`{"lat":"38.8029","lon":"-9.3817","display_name":"Sintra, Lisboa"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(BaseUrlOption(srv.URL), HttpClientOption(srv.Client()))
	places, err := c.Search(context.Background(), "Sintra, Portugal")
	require.NoError(tt, err)
	assert.Equal(tt, []t.Place{{Lat: "38.8029", Lon: "-9.3817", DisplayName: "Sintra"}}, places)

	place, err := c.Reverse(context.Background(), t.GeoPoint{Latitude: 38.8029, Longitude: -9.3817})
	require.NoError(tt, err)
	assert.Equal(tt, "Sintra, Lisboa", place.DisplayName)
}

func TestNew_PanicsWithoutBaseUrl(tt *testing.T) {
	assert.Panics(tt, func() { New() })
}
