package weather

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Units selects the unit system of every temperature in a Response.
type Units string

const (
	Imperial Units = "imperial"
	Metric   Units = "metric"
)

// Source names an upstream weather provider.
type Source string

const (
	SourceWeatherGov  Source = "weathergov"
	SourceAccuWeather Source = "accuweather"
)

// ParseSource matches s case-insensitively against the known sources.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceWeatherGov, SourceAccuWeather:
		return src, nil
	default:
		return "", fmt.Errorf("invalid weather source: %s", s)
	}
}

const (
	// MaxForecastHours caps the length of Response.HourlyForecast.
	MaxForecastHours = 12

	NoCurrentConditions = "No current conditions available"
	NoForecastData      = "No hourly forecast data available."
)

// Temperature is a rounded reading in the requested unit system.
// Value is nil only when the upstream omitted the reading.
type Temperature struct {
	Value *int   `json:"value"`
	Unit  string `json:"unit"`
}

// Conditions is the structured form of the current conditions.
type Conditions struct {
	Temperature      Temperature `json:"temperature"`
	WeatherText      string      `json:"weather_text"`
	RelativeHumidity *float64    `json:"relative_humidity,omitempty"`
	Precipitation    *bool       `json:"precipitation,omitempty"`
	ObservationTime  string      `json:"observation_time,omitempty"`
	WindSpeed        string      `json:"wind_speed,omitempty"`
	WindDirection    string      `json:"wind_direction,omitempty"`
}

// CurrentConditions holds either a structured record or, when Conditions is
// nil, the NoCurrentConditions sentinel. It marshals to one or the other.
type CurrentConditions struct {
	Conditions *Conditions
}

// Available reports whether structured conditions are present.
func (c CurrentConditions) Available() bool {
	return c.Conditions != nil
}

func (c CurrentConditions) MarshalJSON() ([]byte, error) {
	if c.Conditions == nil {
		return json.Marshal(NoCurrentConditions)
	}
	return json.Marshal(c.Conditions)
}

func (c *CurrentConditions) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Conditions = nil
		return nil
	}
	var cond Conditions
	if err := json.Unmarshal(data, &cond); err != nil {
		return err
	}
	c.Conditions = &cond
	return nil
}

// HourlyEntry is one hour of the normalized forecast.
type HourlyEntry struct {
	RelativeTime             string      `json:"relative_time"`
	Temperature              Temperature `json:"temperature"`
	WeatherText              string      `json:"weather_text"`
	PrecipitationProbability int         `json:"precipitation_probability"`
	PrecipitationType        *string     `json:"precipitation_type,omitempty"`
	PrecipitationIntensity   *string     `json:"precipitation_intensity,omitempty"`
	WindSpeed                string      `json:"wind_speed,omitempty"`
	WindDirection            string      `json:"wind_direction,omitempty"`
}

// Response is the provider-independent result of GetHourlyWeather.
//
// A Response with a non-empty Message is degenerate: the upstream had no
// forecast series and only the message is meaningful. It marshals to
// {"message": ...} alone.
type Response struct {
	Location          string
	Source            string
	Country           string
	LocationKey       string
	CurrentConditions CurrentConditions
	HourlyForecast    []HourlyEntry
	Message           string
}

// Degraded reports whether r carries only an informational message.
func (r *Response) Degraded() bool {
	return r.Message != ""
}

type responseJSON struct {
	Location          string            `json:"location"`
	Source            string            `json:"source,omitempty"`
	Country           string            `json:"country,omitempty"`
	LocationKey       string            `json:"location_key,omitempty"`
	CurrentConditions CurrentConditions `json:"current_conditions"`
	HourlyForecast    []HourlyEntry     `json:"hourly_forecast"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Message != "" {
		return json.Marshal(struct {
			Message string `json:"message"`
		}{r.Message})
	}
	hourly := r.HourlyForecast
	if hourly == nil {
		hourly = []HourlyEntry{}
	}
	return json.Marshal(responseJSON{
		Location:          r.Location,
		Source:            r.Source,
		Country:           r.Country,
		LocationKey:       r.LocationKey,
		CurrentConditions: r.CurrentConditions,
		HourlyForecast:    hourly,
	})
}

// ClearResult is the outcome of clearing a location cache.
type ClearResult string

const (
	Cleared      ClearResult = "cleared"
	AlreadyEmpty ClearResult = "already_empty"
)
