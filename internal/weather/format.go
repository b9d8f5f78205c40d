package weather

import (
	"fmt"
	"math"
)

// FahrenheitToCelsius converts a Fahrenheit reading to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// CelsiusToFahrenheit converts a Celsius reading to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// TemperatureUnit returns the unit symbol for units.
func TemperatureUnit(units Units) string {
	if units == Metric {
		return "C"
	}
	return "F"
}

// FormatTemperature rounds value half-to-even and labels it with the unit of
// units. A nil value stays nil.
func FormatTemperature(value *float64, units Units) Temperature {
	t := Temperature{Unit: TemperatureUnit(units)}
	if value != nil {
		v := int(math.RoundToEven(*value))
		t.Value = &v
	}
	return t
}

// FormatRelativeTime labels the forecast hour at the given 1-based offset.
func FormatRelativeTime(hourOffset int) string {
	if hourOffset > 1 {
		return fmt.Sprintf("+%d hours", hourOffset)
	}
	return fmt.Sprintf("+%d hour", hourOffset)
}
