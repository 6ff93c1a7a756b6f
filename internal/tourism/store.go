package tourism

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const DefaultKey = "tourism:points"

// Members of the GEO set are the JSON encoding of a member; coordinates live in the set itself.
type member struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Store keeps tourist points in a redis GEO set.
type Store struct {
	rc     *redis.Client
	key    string
	logger *zap.SugaredLogger
}

func NewStore(rc *redis.Client, key string, logger *zap.SugaredLogger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{rc: rc, key: key, logger: logger}
}

// Near returns distinct points within radiusMeters of any of the given points, nearest first
// per query point. Names listed in exclude are skipped.
func (s *Store) Near(ctx context.Context, around []t.GeoPoint, radiusMeters float64, exclude ...string) ([]t.TouristSpot, error) {
	if len(around) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.GeoLocationCmd, len(around))
	_, err := s.rc.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, p := range around {
			cmds[i] = pipe.GeoRadius(ctx, s.key, p.Longitude, p.Latitude, &redis.GeoRadiusQuery{
				Radius:    radiusMeters,
				Unit:      "m",
				WithCoord: true,
				Sort:      "ASC",
			})
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis georadius on %s: %w", s.key, err)
	}

	seen := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		seen[name] = true
	}

	var spots []t.TouristSpot
	for _, cmd := range cmds {
		locations, err := cmd.Result()
		if err != nil {
			continue
		}
		for _, loc := range locations {
			var m member
			if err := json.Unmarshal([]byte(loc.Name), &m); err != nil {
				s.logger.Errorf("Error unmarshalling tourist point %q: %v", loc.Name, err.Error())
				continue
			}
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			spots = append(spots, t.TouristSpot{
				Lat:      loc.Latitude,
				Lon:      loc.Longitude,
				Name:     m.Name,
				Category: m.Category,
			})
		}
	}
	return spots, nil
}

// Replace swaps the whole set for spots, written in batches into a staging key first.
func (s *Store) Replace(ctx context.Context, spots []t.TouristSpot, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 10000
	}
	staging := s.key + ":staging"
	if err := s.rc.Del(ctx, staging).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", staging, err)
	}

	for start := 0; start < len(spots); start += batchSize {
		end := start + batchSize
		if end > len(spots) {
			end = len(spots)
		}
		locations := make([]*redis.GeoLocation, 0, end-start)
		for _, spot := range spots[start:end] {
			name, _ := json.Marshal(member{Name: spot.Name, Category: spot.Category})
			locations = append(locations, &redis.GeoLocation{
				Name:      string(name),
				Longitude: spot.Lon,
				Latitude:  spot.Lat,
			})
		}
		if err := s.rc.GeoAdd(ctx, staging, locations...).Err(); err != nil {
			return fmt.Errorf("redis geoadd %s: %w", staging, err)
		}
		s.logger.Infow("stored tourist points", "processed", end)
	}

	if len(spots) == 0 {
		return s.rc.Del(ctx, s.key).Err()
	}
	if err := s.rc.Rename(ctx, staging, s.key).Err(); err != nil {
		return fmt.Errorf("redis rename %s: %w", staging, err)
	}
	return nil
}

// Load replaces the set with the points of an Overpass TSV export and reports how many were
// stored.
func (s *Store) Load(ctx context.Context, r io.Reader, batchSize int) (int, error) {
	spots, err := ParseOverpass(r)
	if err != nil {
		return 0, err
	}
	if err := s.Replace(ctx, spots, batchSize); err != nil {
		return 0, err
	}
	return len(spots), nil
}
