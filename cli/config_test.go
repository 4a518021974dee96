package cli

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hatstand/weather/weather"
	. "github.com/smartystreets/goconvey/convey"
)

func env(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestParseArgs(t *testing.T) {
	Convey("Defaults", t, func() {
		var out bytes.Buffer
		cfg, err := ParseArgs([]string{"London"}, env(map[string]string{EnvAPIKey: "k"}), &out)
		So(err, ShouldBeNil)
		So(cfg.City, ShouldEqual, "London")
		So(cfg.APIKey, ShouldEqual, "k")
		So(cfg.Endpoint, ShouldEqual, weather.DefaultBaseURL)
		So(cfg.Units, ShouldEqual, weather.Imperial)
		So(cfg.Timeout, ShouldEqual, weather.DefaultTimeout)
		So(cfg.Format, ShouldBeFalse)
		So(cfg.Strict, ShouldBeFalse)
		So(cfg.CacheFile, ShouldBeEmpty)
		So(out.Len(), ShouldEqual, 0)
	})

	Convey("Multi-word cities", t, func() {
		cfg, err := ParseArgs([]string{"-format", "New", "York"}, env(nil), &bytes.Buffer{})
		So(err, ShouldBeNil)
		So(cfg.City, ShouldEqual, "New York")
		So(cfg.Format, ShouldBeTrue)
	})

	Convey("Environment then flags", t, func() {
		e := env(map[string]string{
			EnvEndpoint: "http://localhost:9999/weather",
			EnvUnits:    "metric",
		})
		cfg, err := ParseArgs([]string{"Paris"}, e, &bytes.Buffer{})
		So(err, ShouldBeNil)
		So(cfg.Endpoint, ShouldEqual, "http://localhost:9999/weather")
		So(cfg.Units, ShouldEqual, weather.Metric)

		cfg, err = ParseArgs([]string{"-units", "standard", "-timeout", "3s", "-strict", "Paris"}, e, &bytes.Buffer{})
		So(err, ShouldBeNil)
		So(cfg.Units, ShouldEqual, weather.Standard)
		So(cfg.Timeout, ShouldEqual, 3*time.Second)
		So(cfg.Strict, ShouldBeTrue)
	})

	Convey("No city", t, func() {
		var out bytes.Buffer
		_, err := ParseArgs([]string{"-v"}, env(nil), &out)
		So(err, ShouldEqual, ErrUsage)
		So(out.String(), ShouldContainSubstring, "usage: weather")
		So(out.String(), ShouldContainSubstring, EnvAPIKey)

		_, err = ParseArgs([]string{"   "}, env(nil), &out)
		So(err, ShouldEqual, ErrUsage)
	})

	Convey("Bad units", t, func() {
		var out bytes.Buffer
		_, err := ParseArgs([]string{"-units", "furlongs", "Paris"}, env(nil), &out)
		So(errors.Is(err, weather.ErrUnknownUnits), ShouldBeTrue)
		So(out.String(), ShouldContainSubstring, `invalid units "furlongs"`)
	})

	Convey("Help", t, func() {
		_, err := ParseArgs([]string{"-h"}, env(nil), &bytes.Buffer{})
		So(err, ShouldEqual, flag.ErrHelp)
	})
}

func TestLoadDotEnv(t *testing.T) {
	Convey("Missing file", t, func() {
		So(LoadDotEnv(filepath.Join(t.TempDir(), ".env")), ShouldBeNil)
	})

	Convey("Existing variables win", t, func() {
		path := filepath.Join(t.TempDir(), ".env")
		So(os.WriteFile(path, []byte("WEATHER_DOTENV_TEST_A=fromfile\nWEATHER_DOTENV_TEST_B=fromfile\n"), 0600), ShouldBeNil)
		t.Setenv("WEATHER_DOTENV_TEST_A", "fromenv")

		So(LoadDotEnv(path), ShouldBeNil)
		So(os.Getenv("WEATHER_DOTENV_TEST_A"), ShouldEqual, "fromenv")
		So(os.Getenv("WEATHER_DOTENV_TEST_B"), ShouldEqual, "fromfile")
		os.Unsetenv("WEATHER_DOTENV_TEST_B")
	})
}
