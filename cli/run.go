package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/hatstand/weather/weather"
	"go.uber.org/zap"
)

// NotFoundMessage is printed for every failed lookup, whatever the cause.
const NotFoundMessage = "City name not found..."

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Run executes one lookup and returns the process exit status. Lookup
// failures exit 0 unless -strict is set.
func Run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer, newFetcher FetcherFactory) int {
	cfg, err := ParseArgs(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	logger := NewLogger(stderr, cfg.Verbose)
	defer logger.Sync()

	fail := func(msg string, err error) int {
		logger.Error(msg, zap.String("city", cfg.City), zap.Error(err))
		fmt.Fprintln(stdout, NotFoundMessage)
		if cfg.Strict {
			return exitFailure
		}
		return exitOK
	}

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return fail("Failed to create weather client", err)
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("Failed to close weather client", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	data, err := fetcher.Current(ctx, cfg.City)
	if err != nil {
		return fail("Failed to fetch weather", err)
	}

	if cfg.Format {
		obs, err := weather.ParseObservation(data, fetcher.Units())
		if err != nil {
			return fail("Failed to decode weather", err)
		}
		logger.Debug("Decoded observation",
			zap.String("resolved", obs.City),
			zap.Float64("celsius", obs.Celsius()),
			zap.Float64("feels_like", obs.FeelsLike),
			zap.Int32("humidity", obs.Humidity),
			zap.String("icon", obs.IconURL()))
		if err := obs.WriteSummary(stdout, cfg.City); err != nil {
			return fail("Failed to write summary", err)
		}
		return exitOK
	}

	if _, err := fmt.Fprintf(stdout, "%s\n", data); err != nil {
		return fail("Failed to write response", err)
	}
	return exitOK
}
