package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/evanhutnik/bettermaps-service/internal/planner"
	"github.com/evanhutnik/bettermaps-service/internal/routeapi"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type options struct {
	api      string
	from     string
	to       string
	mode     string
	tourist  bool
	climatic bool
	timeout  time.Duration
	verbose  bool
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("planner", pflag.ExitOnError)
	flags.StringVar(&opts.api, "api", "http://localhost:8000/api", "bettermaps API root")
	flags.StringVar(&opts.from, "from", "", "origin address")
	flags.StringVar(&opts.to, "to", "", "destination address")
	flags.StringVarP(&opts.mode, "mode", "m", "driving", "driving, cycling or walking")
	flags.BoolVar(&opts.tourist, "tourist", false, "include tourist points near the route")
	flags.BoolVar(&opts.climatic, "climatic", false, "include weather along the route")
	flags.DurationVar(&opts.timeout, "timeout", time.Minute, "give up after this long")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	_ = flags.Parse(os.Args[1:])

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options, out io.Writer) error {
	if opts.from == "" || opts.to == "" {
		return errors.New("both --from and --to are required")
	}
	mode, err := t.ParseTransportMode(opts.mode)
	if err != nil {
		return err
	}

	logger := zap.NewNop().Sugar()
	if opts.verbose {
		baseLogger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer baseLogger.Sync()
		logger = baseLogger.Sugar()
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	client := routeapi.New(routeapi.BaseUrlOption(opts.api))
	resolver := planner.NewLocationResolver(client, logger)

	var origin, destination t.GeoPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		origin, err = resolver.ResolveCoordinates(gctx, opts.from)
		return err
	})
	g.Go(func() error {
		var err error
		destination, err = resolver.ResolveCoordinates(gctx, opts.to)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	states := make(chan planner.TripState, 16)
	session := planner.NewSession(client, client, logger,
		planner.WithObserver(func(st planner.TripState) {
			select {
			case states <- st:
			case <-ctx.Done():
			}
		}))
	go session.Run(ctx)

	session.SetTransportMode(mode)
	if opts.tourist {
		session.TogglePreference(planner.PreferenceTourist)
	}
	if opts.climatic {
		session.TogglePreference(planner.PreferenceClimatic)
	}
	session.ArmSlot(t.SlotOrigin)
	session.MapClick(origin)
	session.ArmSlot(t.SlotDestination)
	session.MapClick(destination)
	session.ComputeRoute()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("planning trip: %w", ctx.Err())
		case st := <-states:
			if st.Notice != nil {
				return errors.New(st.Notice.Message)
			}
			if st.Route != nil {
				printTrip(out, opts, planner.BuildView(st))
				return nil
			}
		}
	}
}

func printTrip(w io.Writer, opts options, v planner.View) {
	fmt.Fprintf(w, "%s → %s\n", opts.from, opts.to)
	if v.Stats != nil {
		fmt.Fprintf(w, "Tempo: %s  Distância: %s\n", v.Stats.Duration, v.Stats.Distance)
	}
	if len(v.Weather) > 0 {
		fmt.Fprintln(w, "\nMeteorologia:")
		for _, row := range v.Weather {
			fmt.Fprintf(w, "  %-12s %s\n", row.Label, row.Description)
		}
	}
	for _, group := range v.Groups {
		fmt.Fprintf(w, "\n%s:\n", group.Category)
		for _, p := range group.Points {
			fmt.Fprintf(w, "  %s (%.5f, %.5f)\n", p.Name, p.Location.Latitude, p.Location.Longitude)
		}
	}
}
