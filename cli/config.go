package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hatstand/weather/weather"
	"github.com/joho/godotenv"
)

const (
	EnvAPIKey   = "WEATHER_APP_API_KEY"
	EnvEndpoint = "WEATHER_APP_ENDPOINT"
	EnvUnits    = "WEATHER_APP_UNITS"
)

var ErrUsage = errors.New("usage: weather [flags] <city>")

type Config struct {
	City        string
	APIKey      string
	Endpoint    string
	Units       weather.Units
	Format      bool
	Strict      bool
	Verbose     bool
	Timeout     time.Duration
	CacheFile   string
	MetricsFile string
}

// ParseArgs reads flags from args and secrets from getenv. Flag values win
// over the environment. Remaining arguments are joined into the city name.
func ParseArgs(args []string, getenv func(string) string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("weather", flag.ContinueOnError)
	fs.SetOutput(output)

	endpoint := getenv(EnvEndpoint)
	if endpoint == "" {
		endpoint = weather.DefaultBaseURL
	}
	units := getenv(EnvUnits)
	if units == "" {
		units = string(weather.Imperial)
	}

	cfg := &Config{APIKey: getenv(EnvAPIKey)}
	fs.StringVar(&cfg.Endpoint, "endpoint", endpoint, "Current weather endpoint")
	fs.StringVar(&units, "units", units, "Unit system: standard, metric or imperial")
	fs.BoolVar(&cfg.Format, "format", false, "Print a short summary instead of the raw JSON")
	fs.BoolVar(&cfg.Strict, "strict", false, "Exit non-zero when the lookup fails")
	fs.BoolVar(&cfg.Verbose, "v", false, "Debug logging to stderr")
	fs.DurationVar(&cfg.Timeout, "timeout", weather.DefaultTimeout, "Request timeout")
	fs.StringVar(&cfg.CacheFile, "cache", "", "Response cache file; empty disables caching")
	fs.StringVar(&cfg.MetricsFile, "metrics_file", "", "Write Prometheus metrics in textfile format here")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%v\n\nEnvironment:\n  %s (required), %s, %s\n\nFlags:\n",
			ErrUsage, EnvAPIKey, EnvEndpoint, EnvUnits)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	u, err := weather.ParseUnits(units)
	if err != nil {
		fmt.Fprintf(fs.Output(), "invalid units %q\n", units)
		fs.Usage()
		return nil, err
	}
	cfg.Units = u

	cfg.City = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if cfg.City == "" {
		fs.Usage()
		return nil, ErrUsage
	}
	return cfg, nil
}

// LoadDotEnv fills the process environment from path. Variables that are
// already set are left alone, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("Failed to load %s: %w", path, err)
	}
	return nil
}
