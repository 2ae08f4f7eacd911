package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/i474232898/whether/internal/observability"
)

const probeTimeout = 30 * time.Second

// Prober checks that the upstream provider answers for a location.
type Prober interface {
	Probe(ctx context.Context, query string) error
}

// Status is the result of the most recent probe.
type Status struct {
	Location    string    `json:"location,omitempty"`
	Checked     bool      `json:"checked"`
	OK          bool      `json:"ok"`
	LastChecked time.Time `json:"lastChecked"`
	Error       string    `json:"error,omitempty"`
}

// Scheduler periodically probes the upstream provider. It fetches no
// forecasts and stores nothing besides the last Status.
type Scheduler struct {
	scheduler *gocron.Scheduler
	prober    Prober
	location  string
	interval  time.Duration
	clock     clockwork.Clock
	metrics   *observability.Metrics
	logger    *zap.Logger

	mu     sync.RWMutex
	status Status
}

// New creates a new Scheduler. An empty location disables probing.
func New(prober Prober, location string, interval time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		prober:    prober,
		location:  location,
		interval:  interval,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
		status:    Status{Location: location},
	}
}

// Start schedules the probe job and starts the underlying scheduler. The
// first probe runs immediately.
func (s *Scheduler) Start() error {
	if s.location == "" || s.prober == nil {
		s.logger.Info("scheduler: no probe location configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: upstream probe started",
		zap.String("location", s.location),
		zap.Duration("interval", interval))
	return nil
}

// RunOnce probes the upstream provider and records the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) Status {
	err := s.prober.Probe(ctx, s.location)

	st := Status{
		Location:    s.location,
		Checked:     true,
		OK:          err == nil,
		LastChecked: s.clock.Now().UTC(),
	}
	if err != nil {
		st.Error = err.Error()
		s.logger.Warn("scheduler: upstream probe failed",
			zap.String("location", s.location),
			zap.Error(err))
	} else {
		s.logger.Debug("scheduler: upstream probe ok", zap.String("location", s.location))
	}
	s.metrics.SetUpstreamUp(st.OK)

	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	return st
}

// Status returns the most recent probe result.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
