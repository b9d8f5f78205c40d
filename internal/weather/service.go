package weather

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Service is the single entry point for weather lookups. It forwards to the
// WeatherClient selected at construction and clears provider caches by name.
type Service struct {
	client   WeatherClient
	source   Source
	clearers map[Source]CacheClearer
	logger   *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCacheClearer registers the cache owned by the given source.
func WithCacheClearer(source Source, c CacheClearer) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.clearers[source] = c
		}
	}
}

// WithLogger sets the service logger. The default discards output.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a new Service around client.
func NewService(client WeatherClient, source Source, opts ...ServiceOption) *Service {
	s := &Service{
		client:   client,
		source:   source,
		clearers: make(map[Source]CacheClearer),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the configured provider.
func (s *Service) Source() Source {
	return s.source
}

// GetHourlyWeather delegates to the configured client. Errors are returned
// unmodified.
func (s *Service) GetHourlyWeather(ctx context.Context, location string, units Units) (*Response, error) {
	s.logger.Debug("get hourly weather",
		zap.String("source", string(s.source)),
		zap.String("location", location),
		zap.String("units", string(units)))

	if s.client == nil {
		return nil, fmt.Errorf("no weather client configured")
	}
	return s.client.GetHourlyWeather(ctx, location, units)
}

// ClearCache clears the location cache of the named source and returns a
// human-readable outcome. It never fails; unsupported sources and missing
// caches are reported in the message.
func (s *Service) ClearCache(source string) string {
	name := strings.ToLower(source)
	if Source(name) != SourceAccuWeather {
		return fmt.Sprintf("Cache clearing not supported for source: %s", name)
	}

	c, ok := s.clearers[SourceAccuWeather]
	if !ok {
		return "Cannot clear cache: ACCUWEATHER_API_KEY is not set."
	}

	res, err := c.ClearCache()
	if err != nil {
		s.logger.Error("clear location cache failed", zap.Error(err))
		return fmt.Sprintf("Error clearing cache: %v", err)
	}
	if res == AlreadyEmpty {
		return "No cache file found - cache is already empty"
	}
	s.logger.Info("location cache cleared", zap.String("source", name))
	return "Weather location cache cleared successfully"
}
