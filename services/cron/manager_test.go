package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/course-hub/model"
)

type fakeProber struct {
	status string
	err    error
}

func (p *fakeProber) Health(context.Context) (*model.HealthStatus, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &model.HealthStatus{Status: p.status}, nil
}

func TestProbeRecordsStatus(t *testing.T) {
	prober := &fakeProber{status: "healthy"}
	m := NewCronManager(prober, "@every 1h", 0)

	assert.Equal(t, "unknown", m.Status().Status)
	assert.True(t, m.Status().CheckedAt.IsZero())

	m.Probe()
	got := m.Status()
	assert.True(t, got.Healthy)
	assert.Equal(t, "healthy", got.Status)
	assert.False(t, got.CheckedAt.IsZero())

	prober.err = errors.New("connection refused")
	m.Probe()
	got = m.Status()
	assert.False(t, got.Healthy)
	assert.Equal(t, "unreachable", got.Status)
	assert.Contains(t, got.Error, "connection refused")

	prober.err = nil
	prober.status = "degraded"
	m.Probe()
	assert.False(t, m.Status().Healthy)
	assert.Equal(t, "degraded", m.Status().Status)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	m := NewCronManager(&fakeProber{status: "healthy"}, "not a schedule", 0)
	assert.Error(t, m.Start())
}

func TestStartAndStop(t *testing.T) {
	m := NewCronManager(&fakeProber{status: "healthy"}, "@every 1h", 0)
	require.NoError(t, m.Start())
	m.Stop()
}
