package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/weather-mcp/internal/store"
	"github.com/i474232898/weather-mcp/internal/weather"
)

// ErrMissingAPIKey is returned when an AccuWeather client is built without a key.
var ErrMissingAPIKey = errors.New("ACCUWEATHER_API_KEY is required")

// AccuWeatherClient implements weather.WeatherClient for the AccuWeather API.
// Location keys returned by the search endpoint are cached on disk so repeat
// lookups skip the search.
type AccuWeatherClient struct {
	name     string
	apiKey   string
	baseURL  string
	cache    *store.LocationCache
	upstream *upstream
	logger   *zap.Logger
}

// NewAccuWeatherClient fails with ErrMissingAPIKey when apiKey is empty. When
// no cache is given the default ~/.cache/weather store is used.
func NewAccuWeatherClient(apiKey string, opts ...Option) (*AccuWeatherClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := defaultOptions("http://dataservice.accuweather.com")
	for _, opt := range opts {
		opt(o)
	}

	cache := o.cache
	if cache == nil {
		dir, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		cache = store.NewLocationCache(dir)
	}

	return &AccuWeatherClient{
		name:     "AccuWeather",
		apiKey:   apiKey,
		baseURL:  o.baseURL,
		cache:    cache,
		upstream: newUpstream("accuweather", o.httpClient),
		logger:   o.logger,
	}, nil
}

func (c *AccuWeatherClient) Name() string {
	return c.name
}

type accuLocation struct {
	Key           string `json:"Key"`
	LocalizedName string `json:"LocalizedName"`
	Country       struct {
		LocalizedName string `json:"LocalizedName"`
	} `json:"Country"`
}

type accuValue struct {
	Value *float64 `json:"Value"`
	Unit  string   `json:"Unit"`
}

// in converts v to units when the upstream labelled it with the other unit
// system, then formats it.
func (v accuValue) in(units weather.Units) weather.Temperature {
	val := v.Value
	if val != nil {
		switch {
		case units == weather.Metric && strings.EqualFold(v.Unit, "F"):
			val = floatPtr(weather.FahrenheitToCelsius(*val))
		case units == weather.Imperial && strings.EqualFold(v.Unit, "C"):
			val = floatPtr(weather.CelsiusToFahrenheit(*val))
		}
	}
	return weather.FormatTemperature(val, units)
}

type accuCurrent struct {
	Temperature struct {
		Metric   accuValue `json:"Metric"`
		Imperial accuValue `json:"Imperial"`
	} `json:"Temperature"`
	WeatherText              string   `json:"WeatherText"`
	RelativeHumidity         *float64 `json:"RelativeHumidity"`
	HasPrecipitation         bool     `json:"HasPrecipitation"`
	LocalObservationDateTime string   `json:"LocalObservationDateTime"`
}

type accuHour struct {
	Temperature              accuValue `json:"Temperature"`
	IconPhrase               string    `json:"IconPhrase"`
	PrecipitationProbability int       `json:"PrecipitationProbability"`
	PrecipitationType        *string   `json:"PrecipitationType"`
	PrecipitationIntensity   *string   `json:"PrecipitationIntensity"`
}

func (c *AccuWeatherClient) GetHourlyWeather(ctx context.Context, location string, units weather.Units) (*weather.Response, error) {
	if err := weather.ValidateParams(location, units); err != nil {
		return nil, err
	}
	useMetric := units == weather.Metric

	var info accuLocation
	locationKey, cached := c.cache.Get(location)
	if !cached {
		found, err := c.searchLocation(ctx, location)
		if err != nil {
			return nil, err
		}
		info = found
		locationKey = found.Key
		c.storeLocationKey(location, locationKey)
	} else {
		c.logger.Debug("location key cache hit",
			zap.String("location", location),
			zap.String("location_key", locationKey))
		info = c.displayInfo(ctx, location)
	}

	current, err := c.currentConditions(ctx, locationKey)
	if err != nil {
		return nil, err
	}
	forecast, err := c.hourlyForecast(ctx, locationKey, useMetric)
	if err != nil {
		return nil, err
	}

	country := info.Country.LocalizedName
	if country == "" {
		country = "Unknown"
	}
	return &weather.Response{
		Location:          info.LocalizedName,
		LocationKey:       locationKey,
		Country:           country,
		CurrentConditions: formatCurrentConditions(current, units),
		HourlyForecast:    formatHourlyForecast(forecast, units),
	}, nil
}

// ClearCache deletes the persisted location key cache.
func (c *AccuWeatherClient) ClearCache() (weather.ClearResult, error) {
	return c.cache.Clear()
}

func (c *AccuWeatherClient) searchLocation(ctx context.Context, location string) (accuLocation, error) {
	var locations []accuLocation
	err := c.upstream.getJSON(ctx, c.baseURL+"/locations/v1/cities/search", map[string]string{
		"apikey": c.apiKey,
		"q":      location,
	}, &locations)
	if err != nil {
		return accuLocation{}, c.mapError(err)
	}
	if len(locations) == 0 {
		return accuLocation{}, weather.NotFound(fmt.Sprintf("Location '%s' not found. Please check the spelling and try again.", location))
	}
	return locations[0], nil
}

// displayInfo re-resolves the display name for a cached location. It never
// fails: any error degrades to the caller's string and an unknown country.
func (c *AccuWeatherClient) displayInfo(ctx context.Context, location string) accuLocation {
	info, err := c.searchLocation(ctx, location)
	if err != nil {
		c.logger.Debug("display name lookup failed; using input", zap.String("location", location), zap.Error(err))
		info = accuLocation{LocalizedName: location}
		info.Country.LocalizedName = "Unknown"
	}
	return info
}

// storeLocationKey persists the key. A failure is logged as a warning and
// otherwise ignored.
func (c *AccuWeatherClient) storeLocationKey(location, key string) {
	if err := c.cache.Put(location, key); err != nil {
		c.logger.Warn("Failed to cache location key",
			zap.String("kind", string(weather.KindCacheWrite)),
			zap.String("location", location),
			zap.String("path", c.cache.Path()),
			zap.Error(err))
	}
}

func (c *AccuWeatherClient) currentConditions(ctx context.Context, locationKey string) ([]accuCurrent, error) {
	var current []accuCurrent
	u := fmt.Sprintf("%s/currentconditions/v1/%s", c.baseURL, url.PathEscape(locationKey))
	if err := c.upstream.getJSON(ctx, u, map[string]string{"apikey": c.apiKey}, &current); err != nil {
		return nil, c.mapError(err)
	}
	return current, nil
}

func (c *AccuWeatherClient) hourlyForecast(ctx context.Context, locationKey string, useMetric bool) ([]accuHour, error) {
	query := map[string]string{"apikey": c.apiKey}
	if useMetric {
		query["metric"] = "true"
	}

	var forecast []accuHour
	u := fmt.Sprintf("%s/forecasts/v1/hourly/12hour/%s", c.baseURL, url.PathEscape(locationKey))
	if err := c.upstream.getJSON(ctx, u, query, &forecast); err != nil {
		return nil, c.mapError(err)
	}
	return forecast, nil
}

// mapError translates upstream failures: 401 is a credential problem, 503 a
// transient outage, anything else a generic upstream error.
func (c *AccuWeatherClient) mapError(err error) error {
	var se *statusError
	switch {
	case errors.As(err, &se):
		switch se.Status {
		case http.StatusUnauthorized:
			return &weather.Error{
				Kind:    weather.KindAuth,
				Message: "Invalid API key. Please check your ACCUWEATHER_API_KEY",
				Status:  se.Status,
				Body:    se.Body,
			}
		case http.StatusServiceUnavailable:
			return &weather.Error{
				Kind:    weather.KindTransientUnavailable,
				Message: fmt.Sprintf("%s API is temporarily unavailable. Please try again later.", c.name),
				Status:  se.Status,
				Body:    se.Body,
			}
		default:
			return upstreamError(fmt.Sprintf("Error from %s: %d, %s", c.name, se.Status, se.Body), se.Status, se.Body, nil)
		}
	case errors.Is(err, errCircuitOpen):
		return circuitOpenError(c.name, err)
	default:
		return upstreamError(fmt.Sprintf("Error from %s", c.name), 0, "", err)
	}
}

func formatCurrentConditions(current []accuCurrent, units weather.Units) weather.CurrentConditions {
	if len(current) == 0 {
		return weather.CurrentConditions{}
	}
	cur := current[0]

	branch := cur.Temperature.Imperial
	if units == weather.Metric {
		branch = cur.Temperature.Metric
	}
	precip := cur.HasPrecipitation

	return weather.CurrentConditions{
		Conditions: &weather.Conditions{
			Temperature:      branch.in(units),
			WeatherText:      cur.WeatherText,
			RelativeHumidity: cur.RelativeHumidity,
			Precipitation:    &precip,
			ObservationTime:  cur.LocalObservationDateTime,
		},
	}
}

// formatHourlyForecast labels entries from "+1 hour"; the upstream series
// already excludes the current hour.
func formatHourlyForecast(forecast []accuHour, units weather.Units) []weather.HourlyEntry {
	if len(forecast) > weather.MaxForecastHours {
		forecast = forecast[:weather.MaxForecastHours]
	}

	hourly := make([]weather.HourlyEntry, 0, len(forecast))
	for i, hour := range forecast {
		hourly = append(hourly, weather.HourlyEntry{
			RelativeTime:             weather.FormatRelativeTime(i + 1),
			Temperature:              hour.Temperature.in(units),
			WeatherText:              hour.IconPhrase,
			PrecipitationProbability: hour.PrecipitationProbability,
			PrecipitationType:        hour.PrecipitationType,
			PrecipitationIntensity:   hour.PrecipitationIntensity,
		})
	}
	return hourly
}
