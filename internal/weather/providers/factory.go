package providers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/weather-mcp/internal/store"
	"github.com/i474232898/weather-mcp/internal/weather"
)

// Settings selects and configures the weather client.
type Settings struct {
	Source                weather.Source
	AccuWeatherAPIKey     string
	GoogleGeocodingAPIKey string
	CacheDir              string
	HTTPClient            *http.Client
	Logger                *zap.Logger
}

// NewClient builds the client for s.Source. Selecting AccuWeather without an
// API key is a configuration error.
func NewClient(s Settings) (weather.WeatherClient, error) {
	switch s.Source {
	case weather.SourceAccuWeather:
		c, err := NewAccuWeather(s)
		if err != nil {
			return nil, err
		}
		return c, nil
	case weather.SourceWeatherGov:
		opts := []Option{WithHTTPClient(s.HTTPClient), WithLogger(s.Logger)}
		if s.GoogleGeocodingAPIKey != "" {
			opts = append(opts, WithGeocoder(NewGoogleGeocoder(s.GoogleGeocodingAPIKey)))
		}
		return NewWeatherGovClient(opts...), nil
	default:
		return nil, fmt.Errorf("invalid weather source: %s", s.Source)
	}
}

// NewAccuWeather builds an AccuWeather client from s regardless of s.Source.
// The server uses it to clear the location cache while another source is
// selected.
func NewAccuWeather(s Settings) (*AccuWeatherClient, error) {
	opts := []Option{WithHTTPClient(s.HTTPClient), WithLogger(s.Logger)}
	if s.CacheDir != "" {
		opts = append(opts, WithLocationCache(store.NewLocationCache(s.CacheDir)))
	}
	return NewAccuWeatherClient(s.AccuWeatherAPIKey, opts...)
}
