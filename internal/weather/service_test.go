package weather

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type stubClient struct {
	resp  *Response
	err   error
	calls int
}

func (s *stubClient) GetHourlyWeather(ctx context.Context, location string, units Units) (*Response, error) {
	s.calls++
	return s.resp, s.err
}

type stubClearer struct {
	res ClearResult
	err error
}

func (s stubClearer) ClearCache() (ClearResult, error) {
	return s.res, s.err
}

func TestServiceForwardsErrorsUnmodified(t *testing.T) {
	upstream := &Error{Kind: KindUpstream, Message: "Error from AccuWeather: 500", Status: 500, Body: "boom"}
	client := &stubClient{err: upstream}
	svc := NewService(client, SourceAccuWeather)

	_, err := svc.GetHourlyWeather(context.Background(), "Huntsville, AL", Imperial)
	if err != upstream {
		t.Fatalf("expected the client error unmodified, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 call, got %d", client.calls)
	}
}

func TestServiceClearCache(t *testing.T) {
	svc := NewService(&stubClient{}, SourceWeatherGov)
	if got := svc.ClearCache("weathergov"); got != "Cache clearing not supported for source: weathergov" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := svc.ClearCache("AccuWeather"); !strings.Contains(got, "ACCUWEATHER_API_KEY is not set") {
		t.Fatalf("unexpected message %q", got)
	}

	svc = NewService(&stubClient{}, SourceAccuWeather, WithCacheClearer(SourceAccuWeather, stubClearer{res: Cleared}))
	if got := svc.ClearCache("accuweather"); !strings.Contains(got, "cleared successfully") {
		t.Fatalf("unexpected message %q", got)
	}

	svc = NewService(&stubClient{}, SourceAccuWeather, WithCacheClearer(SourceAccuWeather, stubClearer{res: AlreadyEmpty}))
	if got := svc.ClearCache("accuweather"); !strings.Contains(got, "already empty") {
		t.Fatalf("unexpected message %q", got)
	}

	svc = NewService(&stubClient{}, SourceAccuWeather, WithCacheClearer(SourceAccuWeather, stubClearer{err: errors.New("permission denied")}))
	if got := svc.ClearCache("accuweather"); got != "Error clearing cache: permission denied" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource(" AccuWeather ")
	if err != nil || src != SourceAccuWeather {
		t.Fatalf("expected accuweather, got %q (%v)", src, err)
	}
	if _, err := ParseSource("invalid_source"); err == nil || !strings.Contains(err.Error(), "invalid weather source") {
		t.Fatalf("expected invalid source error, got %v", err)
	}
}

func TestResponseJSONShapes(t *testing.T) {
	degenerate := Response{Message: NoForecastData}
	data, err := json.Marshal(degenerate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"message":"No hourly forecast data available."}` {
		t.Fatalf("unexpected degenerate JSON: %s", data)
	}

	resp := &Response{Location: "Huntsville", LocationKey: "331435"}
	data, err = json.Marshal(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded["current_conditions"] != NoCurrentConditions {
		t.Fatalf("expected sentinel current conditions, got %v", decoded["current_conditions"])
	}
	if hourly, ok := decoded["hourly_forecast"].([]any); !ok || len(hourly) != 0 {
		t.Fatalf("expected empty hourly_forecast list, got %v", decoded["hourly_forecast"])
	}
	if _, ok := decoded["source"]; ok {
		t.Fatal("source must be omitted when empty")
	}

	var cc CurrentConditions
	if err := json.Unmarshal([]byte(`"No current conditions available"`), &cc); err != nil || cc.Available() {
		t.Fatalf("expected sentinel to decode as unavailable, got %+v (%v)", cc, err)
	}
	if err := json.Unmarshal([]byte(`{"temperature":{"value":75,"unit":"F"},"weather_text":"Sunny"}`), &cc); err != nil || !cc.Available() {
		t.Fatalf("expected structured conditions, got %+v (%v)", cc, err)
	}
	if cc.Conditions.WeatherText != "Sunny" || *cc.Conditions.Temperature.Value != 75 {
		t.Fatalf("unexpected conditions %+v", cc.Conditions)
	}
}
