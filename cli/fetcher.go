package cli

//go:generate mockgen -destination=../mocks/mock_fetcher.go -package=mocks github.com/hatstand/weather/cli Fetcher

import (
	"context"
	"fmt"

	"github.com/hatstand/weather/weather"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Fetcher interface {
	Current(ctx context.Context, city string) ([]byte, error)
	Units() weather.Units
	Close() error
}

type FetcherFactory func(cfg *Config, logger *zap.Logger) (Fetcher, error)

type clientFetcher struct {
	*weather.Client
	cache       *weather.Cache
	cacheFile   string
	registry    *prometheus.Registry
	metricsFile string
	logger      *zap.Logger
}

// NewFetcher is the FetcherFactory used by the weather binary.
func NewFetcher(cfg *Config, logger *zap.Logger) (Fetcher, error) {
	opts := []weather.Option{
		weather.WithBaseURL(cfg.Endpoint),
		weather.WithUnits(cfg.Units),
		weather.WithTimeout(cfg.Timeout),
		weather.WithLogger(logger),
	}
	f := &clientFetcher{
		cacheFile:   cfg.CacheFile,
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if f.metricsFile != "" {
		f.registry = prometheus.NewRegistry()
		m, err := weather.NewMetrics(f.registry)
		if err != nil {
			return nil, fmt.Errorf("Failed to register metrics: %w", err)
		}
		opts = append(opts, weather.WithMetrics(m))
	}

	if f.cacheFile != "" {
		cache, err := weather.LoadCache(f.cacheFile)
		if err != nil {
			logger.Warn("Starting with an empty cache", zap.Error(err))
		}
		f.cache = cache
		opts = append(opts, weather.WithCache(cache))
	}

	client, err := weather.NewClient(cfg.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	f.Client = client
	logger.Debug("Created weather client", zap.String("endpoint", cfg.Endpoint), zap.Duration("timeout", client.Timeout()))
	return f, nil
}

func (f *clientFetcher) Close() error {
	if f.cacheFile != "" {
		f.logger.Debug("Saving cache", zap.String("path", f.cacheFile), zap.Int("entries", f.cache.Len()))
		if err := f.cache.Save(f.cacheFile); err != nil {
			return err
		}
	}
	if f.metricsFile != "" {
		if err := prometheus.WriteToTextfile(f.metricsFile, f.registry); err != nil {
			return fmt.Errorf("Failed to write metrics: %w", err)
		}
	}
	return nil
}
