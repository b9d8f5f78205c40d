package common

import (
	"fmt"
	"io"

	"github.com/i474232898/weather-mcp/internal/weather"
)

// WriteReport renders resp as a plain-text summary followed by the hourly
// forecast.
func WriteReport(w io.Writer, resp *weather.Response) error {
	if resp.Degraded() {
		_, err := fmt.Fprintln(w, resp.Message)
		return err
	}

	place := resp.Location
	if resp.Country != "" {
		place = fmt.Sprintf("%s, %s", resp.Location, resp.Country)
	}
	header := fmt.Sprintf("Weather Summary for %s:", place)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, Underline(header))
	if resp.Source != "" {
		fmt.Fprintf(w, "Source:      %s\n", resp.Source)
	}

	if cur := resp.CurrentConditions.Conditions; cur != nil {
		fmt.Fprintf(w, "Conditions:  %s\n", TitleCase(cur.WeatherText))
		fmt.Fprintf(w, "Temperature: %s\n", formatTemperature(cur.Temperature))
		if cur.RelativeHumidity != nil {
			fmt.Fprintf(w, "Humidity:    %.0f%%\n", *cur.RelativeHumidity)
		}
		if cur.WindSpeed != "" {
			fmt.Fprintf(w, "Wind:        %s %s\n", cur.WindSpeed, cur.WindDirection)
		}
	} else {
		fmt.Fprintln(w, weather.NoCurrentConditions)
	}

	if len(resp.HourlyForecast) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}

	fmt.Fprintln(w)
	header = "Hourly Forecast:"
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, Underline(header))
	for _, h := range resp.HourlyForecast {
		fmt.Fprintf(w, "%-10s %-25s %6s  Precip: %3d%%",
			h.RelativeTime,
			TitleCase(h.WeatherText),
			formatTemperature(h.Temperature),
			h.PrecipitationProbability)
		if h.PrecipitationType != nil {
			fmt.Fprintf(w, " (%s)", *h.PrecipitationType)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func formatTemperature(t weather.Temperature) string {
	if t.Value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d°%s", *t.Value, t.Unit)
}
