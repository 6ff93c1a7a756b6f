package main

import (
	"context"
	"fmt"
	"os"

	"github.com/evanhutnik/bettermaps-service/internal/config"
	"github.com/evanhutnik/bettermaps-service/internal/logging"
	"github.com/evanhutnik/bettermaps-service/internal/tourism"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("loadpoints", pflag.ExitOnError)
	file := flags.StringP("file", "f", "data/pontos_turisticos.tsv", "Overpass TSV export to load")
	batch := flags.Int("batch", 10000, "points written per GEOADD")
	flags.String("redis.addr", "localhost:6379", "redis address")
	_ = flags.Parse(os.Args[1:])

	if err := run(flags, *file, *batch); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(flags *pflag.FlagSet, file string, batch int) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	ctx := context.Background()
	rc := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	defer rc.Close()

	store := tourism.NewStore(rc, cfg.Tourism.Key, logger)
	n, err := store.Load(ctx, f, batch)
	if err != nil {
		return fmt.Errorf("loading %s: %w", file, err)
	}
	logger.Infow("tourist points loaded", "file", file, "points", n, "key", cfg.Tourism.Key)
	return nil
}
