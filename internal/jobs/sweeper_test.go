package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int32
	n     int
	err   error
}

func (s *countingSweeper) SweepExpired(context.Context) (int, error) {
	s.calls.Add(1)
	return s.n, s.err
}

func TestSweepJob_RunOnce(t *testing.T) {
	sw := &countingSweeper{n: 2}
	job := NewSweepJob(sw, "@every 1h", zap.NewNop())

	n, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.EqualValues(t, 1, sw.calls.Load())
}

func TestSweepJob_RunOnceWrapsError(t *testing.T) {
	boom := errors.New("boom")
	job := NewSweepJob(&countingSweeper{err: boom}, "@every 1h", nil)

	_, err := job.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSweepJob_InvalidSchedule(t *testing.T) {
	job := NewSweepJob(&countingSweeper{}, "not a schedule", zap.NewNop())
	assert.Error(t, job.Start())
}

func TestSweepJob_EmptyScheduleDisables(t *testing.T) {
	sw := &countingSweeper{}
	job := NewSweepJob(sw, "", zap.NewNop())
	require.NoError(t, job.Start())
	job.Stop()
	assert.Zero(t, sw.calls.Load())
}

func TestSweepJob_RunsOnSchedule(t *testing.T) {
	sw := &countingSweeper{}
	job := NewSweepJob(sw, "@every 1s", zap.NewNop())
	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return sw.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
