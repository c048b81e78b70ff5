package cron

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"

	"github.com/sahilchouksey/course-hub/model"
)

// Prober checks the backend. *coursehub.Client satisfies it.
type Prober interface {
	Health(ctx context.Context) (*model.HealthStatus, error)
}

// ProbeResult is the outcome of the most recent backend probe
type ProbeResult struct {
	Healthy   bool      `json:"healthy"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// CronManager schedules the backend health probe and remembers its result
type CronManager struct {
	cron     *cron.Cron
	prober   Prober
	schedule string
	timeout  time.Duration

	mu   sync.RWMutex
	last ProbeResult
}

// NewCronManager creates a new cron manager. schedule accepts the standard
// five field syntax and descriptors such as "@every 30s".
func NewCronManager(prober Prober, schedule string, timeout time.Duration) *CronManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CronManager{
		cron:     cron.New(),
		prober:   prober,
		schedule: schedule,
		timeout:  timeout,
		last:     ProbeResult{Status: "unknown"},
	}
}

// Start probes once and then on the schedule
func (m *CronManager) Start() error {
	log.Infow("starting backend health monitor", "schedule", m.schedule)

	if _, err := m.cron.AddFunc(m.schedule, m.Probe); err != nil {
		return err
	}

	go m.Probe()
	m.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running probe
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Infow("backend health monitor stopped")
}

// Probe checks the backend now and records the result. Changes between
// healthy and unhealthy are logged.
func (m *CronManager) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	result := ProbeResult{CheckedAt: time.Now()}
	status, err := m.prober.Health(ctx)
	switch {
	case err != nil:
		result.Status = "unreachable"
		result.Error = err.Error()
	case status.Status != "healthy":
		result.Status = status.Status
	default:
		result.Healthy = true
		result.Status = status.Status
	}

	m.mu.Lock()
	previous := m.last
	m.last = result
	m.mu.Unlock()

	if previous.CheckedAt.IsZero() || previous.Healthy != result.Healthy {
		if result.Healthy {
			log.Infow("backend is healthy", "status", result.Status)
		} else {
			log.Warnw("backend is unhealthy", "status", result.Status, "error", result.Error)
		}
	}
}

// Status returns the last probe result
func (m *CronManager) Status() ProbeResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}
