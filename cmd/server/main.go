package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/evanhutnik/bettermaps-service/internal/api"
	"github.com/evanhutnik/bettermaps-service/internal/config"
	"github.com/evanhutnik/bettermaps-service/internal/enrich"
	"github.com/evanhutnik/bettermaps-service/internal/logging"
	"github.com/evanhutnik/bettermaps-service/internal/nominatim"
	"github.com/evanhutnik/bettermaps-service/internal/openmeteo"
	"github.com/evanhutnik/bettermaps-service/internal/osrm"
	"github.com/evanhutnik/bettermaps-service/internal/planner"
	"github.com/evanhutnik/bettermaps-service/internal/tourism"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

func main() {
	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	flags.String("server.addr", ":8000", "listen address")
	flags.String("log.level", "info", "log level")
	flags.Bool("log.development", false, "human-readable development logging")
	flags.Bool("redis.enabled", true, "use redis for tourist points and the weather cache")
	_ = flags.Parse(os.Args[1:])

	if err := run(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := osrm.New(
		osrm.ServerOption(t.Driving, cfg.OSRM.DrivingURL),
		osrm.ServerOption(t.Cycling, cfg.OSRM.CyclingURL),
		osrm.ServerOption(t.Walking, cfg.OSRM.WalkingURL),
	)

	geocoder := nominatim.New(
		nominatim.BaseUrlOption(cfg.Nominatim.BaseURL),
		nominatim.UserAgentOption(cfg.Nominatim.UserAgent),
		nominatim.RateLimitOption(cfg.Nominatim.RateLimit),
	)

	weatherOpts := []openmeteo.ClientOption{
		openmeteo.BaseUrlOption(cfg.OpenMeteo.BaseURL),
		openmeteo.BatchSizeOption(cfg.OpenMeteo.BatchSize),
		openmeteo.LoggerOption(logger),
	}

	var spots enrich.SpotFinder
	if cfg.Redis.Enabled {
		rc := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
		})
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.Warnw("redis unreachable, tourist points and weather cache will fail soft",
				"addr", cfg.Redis.Addr, "error", err)
		}
		spots = tourism.NewStore(rc, cfg.Tourism.Key, logger)
		weatherOpts = append(weatherOpts, openmeteo.CacheOption(rc, cfg.OpenMeteo.CacheTTL))
	}
	weather := openmeteo.New(weatherOpts...)

	routes := enrich.New(router, weather, spots, enrich.Options{
		SegmentLength: cfg.Route.SegmentLength,
		MaxSegments:   cfg.Route.MaxSegments,
		DetourRadius:  cfg.Tourism.DetourRadius,
	}, logger)

	session := planner.NewSession(geocoder, routes, logger,
		planner.WithInitialView(t.GeoPoint{Latitude: cfg.Session.CenterLat, Longitude: cfg.Session.CenterLng}, cfg.Session.Zoom))

	svc := api.New(
		api.RoutesOption(routes),
		api.NearestOption(router),
		api.GeocoderOption(geocoder),
		api.SessionOption(session),
		api.LoggerOption(logger),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := session.Run(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return svc.Start(gctx, cfg.Server.Addr)
	})
	return g.Wait()
}
