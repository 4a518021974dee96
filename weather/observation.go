package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Observation is the subset of a current-weather reply used for the
// human-readable summary. Values are in Units.
type Observation struct {
	City        string
	Units       Units
	CurrentTemp float64
	FeelsLike   float64
	MinTemp     float64
	MaxTemp     float64
	Humidity    int32
	Pressure    int32
	WindSpeed   float64
	Main        string
	Description string
	Icon        string
}

func ParseObservation(data []byte, units Units) (*Observation, error) {
	type Condition struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	type Weather struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int32   `json:"pressure"`
		Humidity  int32   `json:"humidity"`
		Min       float64 `json:"temp_min"`
		Max       float64 `json:"temp_max"`
	}

	type Wind struct {
		Speed float64 `json:"speed"`
	}

	type Message struct {
		Name string      `json:"name"`
		C    []Condition `json:"weather"`
		W    *Weather    `json:"main"`
		Wind Wind        `json:"wind"`
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("Failed to parse json: %w", ErrMalformedResponse)
	}
	if m.W == nil {
		return nil, fmt.Errorf("Missing main block: %w", ErrMalformedResponse)
	}
	if len(m.C) == 0 {
		return nil, fmt.Errorf("Missing weather conditions: %w", ErrMalformedResponse)
	}

	return &Observation{
		City:        m.Name,
		Units:       units,
		CurrentTemp: m.W.Temp,
		FeelsLike:   m.W.FeelsLike,
		MinTemp:     m.W.Min,
		MaxTemp:     m.W.Max,
		Humidity:    m.W.Humidity,
		Pressure:    m.W.Pressure,
		WindSpeed:   m.Wind.Speed,
		Main:        m.C[0].Main,
		Description: m.C[0].Description,
		Icon:        m.C[0].Icon,
	}, nil
}

func kelvinToCelsius(k float64) float64 {
	return k - 273.15
}

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Celsius converts the current temperature regardless of the units it was
// requested in.
func (o *Observation) Celsius() float64 {
	switch o.Units {
	case Standard:
		return kelvinToCelsius(o.CurrentTemp)
	case Imperial:
		return fahrenheitToCelsius(o.CurrentTemp)
	}
	return o.CurrentTemp
}

func (o *Observation) IconURL() string {
	if o.Icon == "" {
		return ""
	}
	return fmt.Sprintf("https://openweathermap.org/img/w/%s.png", o.Icon)
}

// WriteSummary uses city as typed by the user when given, falling back to
// the name the provider resolved.
func (o *Observation) WriteSummary(w io.Writer, city string) error {
	if strings.TrimSpace(city) == "" {
		city = o.City
	}
	_, err := fmt.Fprintf(w,
		"%s's temperature: %.1f%s\nWind speed: %.1f %s\nDescription: %s\nWeather: %s\n",
		city, o.CurrentTemp, o.Units.TemperatureSymbol(),
		o.WindSpeed, o.Units.SpeedSymbol(),
		o.Description,
		o.Main)
	return err
}
