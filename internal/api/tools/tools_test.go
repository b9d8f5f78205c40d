package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/i474232898/weather-mcp/internal/mcp"
	"github.com/i474232898/weather-mcp/internal/weather"
)

type recordingClient struct {
	location string
	units    weather.Units
	resp     *weather.Response
	err      error
}

func (c *recordingClient) GetHourlyWeather(ctx context.Context, location string, units weather.Units) (*weather.Response, error) {
	c.location = location
	c.units = units
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

type emptyClearer struct{}

func (emptyClearer) ClearCache() (weather.ClearResult, error) {
	return weather.AlreadyEmpty, nil
}

func callTool(t *testing.T, s *mcp.Server, name, args string) mcp.CallToolResult {
	t.Helper()
	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"` + name + `","arguments":` + args + `}}`
	out := s.HandleMessage(context.Background(), []byte(msg))

	var resp struct {
		Result mcp.CallToolResult `json:"result"`
		Error  *mcp.RPCError      `json:"error"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected protocol error: %v", resp.Error)
	}
	return resp.Result
}

func TestHourlyWeatherTool(t *testing.T) {
	v := 75
	client := &recordingClient{resp: &weather.Response{
		Location: "Huntsville",
		Source:   "Weather.gov",
		CurrentConditions: weather.CurrentConditions{Conditions: &weather.Conditions{
			Temperature: weather.Temperature{Value: &v, Unit: "F"},
			WeatherText: "Sunny",
		}},
	}}
	s := mcp.NewServer("mcp-weather", "test", nil)
	RegisterTools(s, weather.NewService(client, weather.SourceWeatherGov))

	res := callTool(t, s, HourlyWeatherTool, `{"location":"Huntsville, AL"}`)
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", res.Content[0].Text)
	}
	if client.location != "Huntsville, AL" || client.units != weather.Imperial {
		t.Errorf("expected imperial default, got %q %q", client.location, client.units)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(res.Content[0].Text), &body); err != nil {
		t.Fatalf("tool text is not JSON: %v", err)
	}
	if body["location"] != "Huntsville" || body["source"] != "Weather.gov" {
		t.Errorf("unexpected body %v", body)
	}
	if hourly, ok := body["hourly_forecast"].([]any); !ok || len(hourly) != 0 {
		t.Errorf("expected empty hourly_forecast array, got %v", body["hourly_forecast"])
	}

	callTool(t, s, HourlyWeatherTool, `{"location":"London","units":"metric"}`)
	if client.units != weather.Metric {
		t.Errorf("expected metric, got %q", client.units)
	}
}

func TestHourlyWeatherToolErrors(t *testing.T) {
	client := &recordingClient{err: weather.InvalidArgument("Location parameter is required and cannot be empty")}
	s := mcp.NewServer("mcp-weather", "test", nil)
	RegisterTools(s, weather.NewService(client, weather.SourceWeatherGov))

	res := callTool(t, s, HourlyWeatherTool, `{"location":""}`)
	if !res.IsError || res.Content[0].Text != "Location parameter is required and cannot be empty" {
		t.Fatalf("unexpected result %+v", res)
	}

	res = callTool(t, s, HourlyWeatherTool, `{"location":5}`)
	if !res.IsError || !strings.Contains(res.Content[0].Text, "invalid arguments") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClearCacheTool(t *testing.T) {
	s := mcp.NewServer("mcp-weather", "test", nil)
	RegisterTools(s, weather.NewService(&recordingClient{}, weather.SourceAccuWeather,
		weather.WithCacheClearer(weather.SourceAccuWeather, emptyClearer{})))

	res := callTool(t, s, ClearCacheTool, `{}`)
	if res.IsError || res.Content[0].Text != "No cache file found - cache is already empty" {
		t.Fatalf("unexpected result %+v", res)
	}

	res = callTool(t, s, ClearCacheTool, `{"source":"WeatherGov"}`)
	if res.Content[0].Text != "Cache clearing not supported for source: weathergov" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestToolsAreListed(t *testing.T) {
	s := mcp.NewServer("mcp-weather", "test", nil)
	RegisterTools(s, weather.NewService(&recordingClient{}, weather.SourceWeatherGov))

	tools := s.Tools()
	if len(tools) != 2 || tools[0].Name != HourlyWeatherTool || tools[1].Name != ClearCacheTool {
		t.Fatalf("unexpected tools %+v", tools)
	}
	for _, tool := range tools {
		if !json.Valid(tool.InputSchema) {
			t.Errorf("%s: invalid input schema", tool.Name)
		}
	}
}
