package weather

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFahrenheitToCelsius(t *testing.T) {
	if got := FahrenheitToCelsius(32); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := FahrenheitToCelsius(212); math.Abs(got-100) > 1e-9 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := FahrenheitToCelsius(75); math.Abs(got-23.888) > 0.001 {
		t.Fatalf("expected ~23.89, got %v", got)
	}
}

func TestFormatTemperature(t *testing.T) {
	c := FahrenheitToCelsius(75)
	temp := FormatTemperature(&c, Metric)
	if temp.Value == nil || *temp.Value != 24 {
		t.Fatalf("expected 24, got %v", temp.Value)
	}
	if temp.Unit != "C" {
		t.Fatalf("expected unit C, got %s", temp.Unit)
	}

	f := 75.0
	temp = FormatTemperature(&f, Imperial)
	if temp.Value == nil || *temp.Value != 75 || temp.Unit != "F" {
		t.Fatalf("expected 75 F, got %+v", temp)
	}

	temp = FormatTemperature(nil, Imperial)
	if temp.Value != nil {
		t.Fatalf("expected nil value, got %d", *temp.Value)
	}
	data, err := json.Marshal(temp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"value":null,"unit":"F"}` {
		t.Fatalf("unexpected JSON: %s", data)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	cases := map[int]string{
		1:  "+1 hour",
		2:  "+2 hours",
		12: "+12 hours",
	}
	for offset, want := range cases {
		if got := FormatRelativeTime(offset); got != want {
			t.Errorf("offset %d: expected %q, got %q", offset, want, got)
		}
	}
}
