package weather

import (
	"context"
)

// WeatherClient abstracts an upstream weather provider (e.g. weather.gov, AccuWeather).
//
// GetHourlyWeather returns current conditions and at most MaxForecastHours of
// hourly forecast. Implementations reject invalid arguments with an
// InvalidArgument error before doing any network access.
type WeatherClient interface {
	GetHourlyWeather(ctx context.Context, location string, units Units) (*Response, error)
}

// CacheClearer is implemented by clients that keep a persistent location cache.
type CacheClearer interface {
	ClearCache() (ClearResult, error)
}
