package providers

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/i474232898/weather-mcp/internal/weather"
)

// WeatherGovClient implements weather.WeatherClient for the National Weather
// Service API. Locations are geocoded, mapped to a gridpoint forecast URL and
// the hourly series is fetched; nothing is cached.
type WeatherGovClient struct {
	name     string
	baseURL  string
	geocoder Geocoder
	upstream *upstream
	logger   *zap.Logger
}

func NewWeatherGovClient(opts ...Option) *WeatherGovClient {
	o := defaultOptions("https://api.weather.gov")
	for _, opt := range opts {
		opt(o)
	}

	geo := o.geocoder
	if geo == nil {
		geo = NewNominatimGeocoder(o.httpClient)
	}

	return &WeatherGovClient{
		name:     "Weather.gov",
		baseURL:  o.baseURL,
		geocoder: geo,
		upstream: newUpstream("weathergov", o.httpClient),
		logger:   o.logger,
	}
}

func (c *WeatherGovClient) Name() string {
	return c.name
}

type pointsResponse struct {
	Properties struct {
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type quantity struct {
	Value *float64 `json:"value"`
}

type hourlyPeriod struct {
	Temperature                *float64 `json:"temperature"`
	ShortForecast              string   `json:"shortForecast"`
	ProbabilityOfPrecipitation quantity `json:"probabilityOfPrecipitation"`
	RelativeHumidity           quantity `json:"relativeHumidity"`
	WindSpeed                  string   `json:"windSpeed"`
	WindDirection              string   `json:"windDirection"`
}

type hourlyForecastResponse struct {
	Properties struct {
		Periods []hourlyPeriod `json:"periods"`
	} `json:"properties"`
}

// GetHourlyWeather returns period 0 as the current conditions and periods
// 1..12 as the hourly forecast. When the upstream series is empty the
// returned Response is degenerate and only carries a Message.
func (c *WeatherGovClient) GetHourlyWeather(ctx context.Context, location string, units weather.Units) (*weather.Response, error) {
	if err := weather.ValidateParams(location, units); err != nil {
		return nil, err
	}

	coords, err := c.geocoder.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	forecastURL, err := c.forecastURL(ctx, coords)
	if err != nil {
		return nil, err
	}

	var forecast hourlyForecastResponse
	if err := c.upstream.getJSON(ctx, forecastURL, nil, &forecast); err != nil {
		return nil, c.mapError("Error getting hourly forecast", err)
	}

	periods := forecast.Properties.Periods
	if len(periods) == 0 {
		c.logger.Info("weather.gov returned no hourly periods", zap.String("location", location))
		return &weather.Response{Message: weather.NoForecastData}, nil
	}

	return c.normalize(location, units, periods), nil
}

func (c *WeatherGovClient) forecastURL(ctx context.Context, coords Coordinates) (string, error) {
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, coords.Lat, coords.Lon)

	var points pointsResponse
	if err := c.upstream.getJSON(ctx, pointsURL, nil, &points); err != nil {
		return "", c.mapError("Error getting gridpoint data", err)
	}
	if points.Properties.ForecastHourly == "" {
		return "", upstreamError("Could not retrieve hourly forecast URL.", 0, "", nil)
	}
	return points.Properties.ForecastHourly, nil
}

func (c *WeatherGovClient) normalize(location string, units weather.Units, periods []hourlyPeriod) *weather.Response {
	current := periods[0]
	resp := &weather.Response{
		Location: location,
		Source:   c.name,
		CurrentConditions: weather.CurrentConditions{
			Conditions: &weather.Conditions{
				Temperature:      c.temperature(current.Temperature, units),
				WeatherText:      current.ShortForecast,
				RelativeHumidity: current.RelativeHumidity.Value,
				WindSpeed:        current.WindSpeed,
				WindDirection:    current.WindDirection,
			},
		},
	}

	rest := periods[1:]
	if len(rest) > weather.MaxForecastHours {
		rest = rest[:weather.MaxForecastHours]
	}

	resp.HourlyForecast = make([]weather.HourlyEntry, 0, len(rest))
	for i, p := range rest {
		precip := 0
		if p.ProbabilityOfPrecipitation.Value != nil {
			precip = int(math.Round(*p.ProbabilityOfPrecipitation.Value))
		}
		resp.HourlyForecast = append(resp.HourlyForecast, weather.HourlyEntry{
			RelativeTime:             weather.FormatRelativeTime(i + 1),
			Temperature:              c.temperature(p.Temperature, units),
			WeatherText:              p.ShortForecast,
			PrecipitationProbability: precip,
			WindSpeed:                p.WindSpeed,
			WindDirection:            p.WindDirection,
		})
	}
	return resp
}

// temperature converts an upstream Fahrenheit reading to the requested units.
func (c *WeatherGovClient) temperature(f *float64, units weather.Units) weather.Temperature {
	if f != nil && units == weather.Metric {
		f = floatPtr(weather.FahrenheitToCelsius(*f))
	}
	return weather.FormatTemperature(f, units)
}

func (c *WeatherGovClient) mapError(msg string, err error) error {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return upstreamError(fmt.Sprintf("%s: %d", msg, se.Status), se.Status, se.Body, nil)
	case errors.Is(err, errCircuitOpen):
		return circuitOpenError(c.name, err)
	default:
		return upstreamError(msg, 0, "", err)
	}
}
