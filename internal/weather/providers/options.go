package providers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/weather-mcp/internal/store"
)

// Option configures a provider client.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      *store.LocationCache
	geocoder   Geocoder
}

func defaultOptions(baseURL string) *options {
	return &options{
		baseURL: baseURL,
		logger:  zap.NewNop(),
	}
}

// WithBaseURL overrides the provider API host.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger receiving warnings such as cache write failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLocationCache sets the location key cache (AccuWeather only).
func WithLocationCache(c *store.LocationCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithGeocoder sets the geocoder (weather.gov only). The default is Nominatim.
func WithGeocoder(g Geocoder) Option {
	return func(o *options) {
		o.geocoder = g
	}
}
