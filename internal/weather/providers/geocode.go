package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-mcp/internal/weather"
)

// Coordinates is a geocoded point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a free-text location to coordinates. Implementations
// return the highest-ranked match and fail with a NotFound error when there is
// none.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Coordinates, error)
}

// NominatimGeocoder queries the OpenStreetMap Nominatim search API.
type NominatimGeocoder struct {
	baseURL  string
	upstream *upstream
}

func NewNominatimGeocoder(client *http.Client) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL:  "https://nominatim.openstreetmap.org",
		upstream: newUpstream("nominatim", client),
	}
}

// WithBaseURL overrides the Nominatim host.
func (g *NominatimGeocoder) WithBaseURL(u string) *NominatimGeocoder {
	g.baseURL = u
	return g
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (Coordinates, error) {
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}

	err := g.upstream.getJSON(ctx, g.baseURL+"/search", map[string]string{
		"q":      query,
		"format": "json",
		"limit":  "1",
	}, &results)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return Coordinates{}, &weather.Error{
				Kind:    weather.KindNotFound,
				Message: fmt.Sprintf("Error geocoding location '%s': %d", query, se.Status),
				Status:  se.Status,
				Body:    se.Body,
			}
		}
		if errors.Is(err, errCircuitOpen) {
			return Coordinates{}, circuitOpenError("Nominatim", err)
		}
		return Coordinates{}, err
	}

	if len(results) == 0 {
		return Coordinates{}, weather.NotFound(fmt.Sprintf("Location '%s' not found.", query))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, upstreamError("invalid latitude from geocoder", 0, results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, upstreamError("invalid longitude from geocoder", 0, results[0].Lon, err)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

// googleMu guards the package-level settings of the geocoder library.
var googleMu sync.Mutex

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json?"

// GoogleGeocoder resolves locations with the Google Geocoding API.
//
// The underlying library issues requests with its own http.Client, so
// HTTP_TIMEOUT does not apply. Geocode stops waiting when ctx is done, but the
// request itself runs to completion in the background.
type GoogleGeocoder struct {
	apiKey string
	apiURL string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{apiKey: apiKey, apiURL: googleGeocodeURL}
}

// WithBaseURL overrides the geocode endpoint. u must end where the query
// string starts (".../geocode/json?").
func (g *GoogleGeocoder) WithBaseURL(u string) *GoogleGeocoder {
	g.apiURL = u
	return g
}

type googleResult struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}

	done := make(chan googleResult, 1)
	go func() {
		done <- g.lookup(query)
	}()

	var res googleResult
	select {
	case <-ctx.Done():
		return Coordinates{}, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		return Coordinates{}, &weather.Error{
			Kind:    weather.KindNotFound,
			Message: fmt.Sprintf("Location '%s' not found.", query),
			Err:     res.err,
		}
	}
	return Coordinates{Lat: res.loc.Latitude, Lon: res.loc.Longitude}, nil
}

// lookup calls the library with this geocoder's key and endpoint. The library
// indexes the first result without checking for one, so a panic is reported
// as an empty result.
func (g *GoogleGeocoder) lookup(query string) (res googleResult) {
	googleMu.Lock()
	defer googleMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			res = googleResult{err: errors.New("no results found")}
		}
	}()

	geocoder.ApiKey = g.apiKey
	geocoder.ApiUrl = g.apiURL
	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	return googleResult{loc: loc, err: err}
}
