package tourism

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedis(tt *testing.T) *redis.Client {
	mr := miniredis.RunT(tt)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tt.Cleanup(func() { rc.Close() })
	return rc
}

func TestStore_ReplaceAndNear(tt *testing.T) {
	ctx := context.Background()
	rc := newRedis(tt)

	store := NewStore(rc, "tourism:test", zap.NewNop().Sugar())

	err := store.Replace(ctx, []t.TouristSpot{
		{Lat: 38.6916, Lon: -9.2160, Name: "Torre de Belém", Category: "attraction"},
		{Lat: 38.6979, Lon: -9.2063, Name: "Mosteiro dos Jerónimos", Category: "monastery"},
	}, 1)
	require.NoError(tt, err)

	spots, err := store.Near(ctx, []t.GeoPoint{
		{Latitude: 38.6917, Longitude: -9.2161},
		{Latitude: 38.6916, Longitude: -9.2160},
	}, 50)
	require.NoError(tt, err)
	require.Len(tt, spots, 1)
	assert.Equal(tt, "Torre de Belém", spots[0].Name)

	spots, err = store.Near(ctx, []t.GeoPoint{{Latitude: 38.6916, Longitude: -9.2160}}, 50, "Torre de Belém")
	require.NoError(tt, err)
	assert.Empty(tt, spots)

	exists, err := rc.Exists(ctx, "tourism:test:staging").Result()
	require.NoError(tt, err)
	assert.Zero(tt, exists)
}

func TestStore_ReplaceSwapsSet(tt *testing.T) {
	ctx := context.Background()
	rc := newRedis(tt)
	store := NewStore(rc, "tourism:test", zap.NewNop().Sugar())

	require.NoError(tt, store.Replace(ctx, []t.TouristSpot{
		{Lat: 38.6916, Lon: -9.2160, Name: "Torre de Belém", Category: "attraction"},
	}, 10))
	require.NoError(tt, store.Replace(ctx, []t.TouristSpot{
		{Lat: 38.7139, Lon: -9.1334, Name: "Castelo de São Jorge", Category: "castle"},
	}, 10))

	spots, err := store.Near(ctx, []t.GeoPoint{{Latitude: 38.6916, Longitude: -9.2160}}, 500)
	require.NoError(tt, err)
	assert.Empty(tt, spots)

	spots, err = store.Near(ctx, []t.GeoPoint{{Latitude: 38.7139, Longitude: -9.1334}}, 500)
	require.NoError(tt, err)
	require.Len(tt, spots, 1)
	assert.Equal(tt, "Castelo de São Jorge", spots[0].Name)

	require.NoError(tt, store.Replace(ctx, nil, 10))
	exists, err := rc.Exists(ctx, "tourism:test").Result()
	require.NoError(tt, err)
	assert.Zero(tt, exists)
}

func TestStore_Load(tt *testing.T) {
	ctx := context.Background()
	rc := newRedis(tt)

	store := NewStore(rc, "tourism:test-load", zap.NewNop().Sugar())

	tsv := "@lat\t@lon\tname\ttourism\n" +
		"38.6916\t-9.2160\tTorre de Belém\tattraction\n" +
		"38.7\t-9.2\t\tmuseum\n"
	n, err := store.Load(ctx, strings.NewReader(tsv), 0)
	require.NoError(tt, err)
	assert.Equal(tt, 1, n)

	spots, err := store.Near(ctx, []t.GeoPoint{{Latitude: 38.6916, Longitude: -9.2160}}, 50)
	require.NoError(tt, err)
	require.Len(tt, spots, 1)
	assert.Equal(tt, "attraction", spots[0].Category)
}
