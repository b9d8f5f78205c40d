package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-mcp/internal/weather"
)

const (
	defaultInterval = 6 * time.Hour
	lookupTimeout   = 30 * time.Second
)

// Scheduler periodically looks up the configured locations so the provider
// resolves and caches their location keys ahead of callers.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	locations []string
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler. A non-positive interval means six hours.
func New(locations []string, interval time.Duration, service *weather.Service, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the warm job and starts the underlying scheduler. The
// first run happens immediately. Only AccuWeather keeps a location cache, so
// nothing is scheduled for other sources.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Debug("scheduler: no warm locations configured; nothing to schedule")
		return nil
	}
	if source := s.service.Source(); source != weather.SourceAccuWeather {
		s.logger.Info("scheduler: cache warmer has no effect for this source; not started",
			zap.String("source", string(source)))
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.Warm(context.Background())
	})
	if err != nil {
		return err
	}

	s.logger.Info("scheduler: cache warmer started",
		zap.Strings("locations", s.locations),
		zap.Duration("interval", s.interval))
	s.scheduler.StartAsync()
	return nil
}

// Warm looks up every location concurrently. Failures are logged only.
func (s *Scheduler) Warm(ctx context.Context) {
	s.logger.Debug("scheduler: running cache warm job")

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
			defer cancel()

			if _, err := s.service.GetHourlyWeather(ctx, loc, weather.Imperial); err != nil {
				s.logger.Warn("scheduler: warm lookup failed",
					zap.String("location", loc),
					zap.String("kind", string(weather.KindOf(err))),
					zap.Error(err))
			}
		}(loc)
	}
	wg.Wait()
	s.logger.Debug("scheduler: completed cache warm job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
