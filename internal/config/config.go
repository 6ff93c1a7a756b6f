package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	OSRM      OSRMConfig      `mapstructure:"osrm"`
	Nominatim NominatimConfig `mapstructure:"nominatim"`
	OpenMeteo OpenMeteoConfig `mapstructure:"openmeteo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Tourism   TourismConfig   `mapstructure:"tourism"`
	Route     RouteConfig     `mapstructure:"route"`
	Session   SessionConfig   `mapstructure:"session"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type OSRMConfig struct {
	DrivingURL string `mapstructure:"driving_url"`
	CyclingURL string `mapstructure:"cycling_url"`
	WalkingURL string `mapstructure:"walking_url"`
}

type NominatimConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	UserAgent string  `mapstructure:"user_agent"`
	RateLimit float64 `mapstructure:"rate_limit"`
}

type OpenMeteoConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	BatchSize int           `mapstructure:"batch_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TourismConfig struct {
	Key          string  `mapstructure:"key"`
	DetourRadius float64 `mapstructure:"detour_radius_m"`
}

type RouteConfig struct {
	SegmentLength float64 `mapstructure:"segment_length_m"`
	MaxSegments   int     `mapstructure:"max_segments"`
}

type SessionConfig struct {
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
	Zoom      float64 `mapstructure:"zoom"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("osrm.driving_url", "https://router.project-osrm.org")
	v.SetDefault("osrm.cycling_url", "https://routing.openstreetmap.de/routed-bike")
	v.SetDefault("osrm.walking_url", "https://routing.openstreetmap.de/routed-foot")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "bettermaps/1.0")
	v.SetDefault("nominatim.rate_limit", 1.0)
	v.SetDefault("openmeteo.base_url", "https://api.open-meteo.com/v1")
	v.SetDefault("openmeteo.batch_size", 50)
	v.SetDefault("openmeteo.cache_ttl", "10m")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("tourism.key", "tourism:points")
	v.SetDefault("tourism.detour_radius_m", 50.0)
	v.SetDefault("route.segment_length_m", 2000.0)
	v.SetDefault("route.max_segments", 50)
	v.SetDefault("session.center_lat", 38.7119)
	v.SetDefault("session.center_lng", -9.2066)
	v.SetDefault("session.zoom", 13.0)
}

// Load reads .env (if present), config.yaml (if present), BETTERMAPS_* environment variables
// and flags, later sources overriding earlier ones. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// BETTERMAPS_NOMINATIM_USER_AGENT → nominatim.user_agent
	v.SetEnvPrefix("BETTERMAPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server.addr is required"))
	}
	if c.OSRM.DrivingURL == "" {
		err = multierr.Append(err, errors.New("osrm.driving_url is required"))
	}
	if c.Nominatim.BaseURL == "" {
		err = multierr.Append(err, errors.New("nominatim.base_url is required"))
	}
	if c.Nominatim.UserAgent == "" {
		err = multierr.Append(err, errors.New("nominatim.user_agent is required"))
	}
	if c.OpenMeteo.BaseURL == "" {
		err = multierr.Append(err, errors.New("openmeteo.base_url is required"))
	}
	if c.OpenMeteo.BatchSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("openmeteo.batch_size must be positive, got %d", c.OpenMeteo.BatchSize))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		err = multierr.Append(err, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Route.SegmentLength <= 0 {
		err = multierr.Append(err, fmt.Errorf("route.segment_length_m must be positive, got %v", c.Route.SegmentLength))
	}
	if c.Tourism.DetourRadius <= 0 {
		err = multierr.Append(err, fmt.Errorf("tourism.detour_radius_m must be positive, got %v", c.Tourism.DetourRadius))
	}
	if err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
