package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/i474232898/weather-mcp/internal/mcp"
	"github.com/i474232898/weather-mcp/internal/weather"
)

const (
	HourlyWeatherTool = "get_hourly_weather"
	ClearCacheTool    = "clear_weather_cache"
)

var hourlyWeatherSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "location": {
      "type": "string",
      "description": "City and region or country, e.g. \"Huntsville, AL\" or \"London, UK\""
    },
    "units": {
      "type": "string",
      "enum": ["imperial", "metric"],
      "default": "imperial",
      "description": "imperial (Fahrenheit) or metric (Celsius)"
    }
  },
  "required": ["location"]
}`)

var clearCacheSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "source": {
      "type": "string",
      "default": "accuweather",
      "description": "Weather source whose location cache is cleared"
    }
  }
}`)

// RegisterTools adds the weather tools backed by service to s.
func RegisterTools(s *mcp.Server, service *weather.Service) {
	s.AddTool(mcp.Tool{
		Name:        HourlyWeatherTool,
		Description: "Get current weather conditions and 12-hour forecast for a location.",
		InputSchema: hourlyWeatherSchema,
		Handler:     hourlyWeatherHandler(service),
	})
	s.AddTool(mcp.Tool{
		Name:        ClearCacheTool,
		Description: "Clear the location cache to force fresh API lookups.",
		InputSchema: clearCacheSchema,
		Handler:     clearCacheHandler(service),
	})
}

func hourlyWeatherHandler(service *weather.Service) mcp.ToolHandler {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var in struct {
			Location string `json:"location"`
			Units    string `json:"units"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return "", weather.InvalidArgument(fmt.Sprintf("invalid arguments: %v", err))
		}
		if in.Units == "" {
			in.Units = string(weather.Imperial)
		}

		resp, err := service.GetHourlyWeather(ctx, in.Location, weather.Units(in.Units))
		if err != nil {
			return "", err
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode weather response: %w", err)
		}
		return string(out), nil
	}
}

func clearCacheHandler(service *weather.Service) mcp.ToolHandler {
	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var in struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return "", weather.InvalidArgument(fmt.Sprintf("invalid arguments: %v", err))
		}
		if in.Source == "" {
			in.Source = string(weather.SourceAccuWeather)
		}
		return service.ClearCache(in.Source), nil
	}
}
