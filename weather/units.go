package weather

import (
	"errors"
	"strings"
)

var ErrUnknownUnits = errors.New("weather: unknown units")

// Units selects the measurement system OpenWeatherMap reports in.
type Units string

const (
	Standard Units = "standard"
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

func ParseUnits(s string) (Units, error) {
	u := Units(strings.ToLower(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", ErrUnknownUnits
	}
	return u, nil
}

func (u Units) Valid() bool {
	switch u {
	case Standard, Metric, Imperial:
		return true
	}
	return false
}

func (u Units) TemperatureSymbol() string {
	switch u {
	case Metric:
		return "°C"
	case Imperial:
		return "°F"
	}
	return "K"
}

func (u Units) SpeedSymbol() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

func (u Units) String() string {
	return string(u)
}
