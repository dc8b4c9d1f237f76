package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/config"
)

type countingRunner struct {
	runs atomic.Int32
}

func (r *countingRunner) Run(context.Context) error {
	r.runs.Add(1)
	return nil
}

func TestStartRunsImmediatelyThenOnTick(t *testing.T) {
	runner := &countingRunner{}
	s := New(config.SchedulerConfig{Enabled: true, Tick: "20ms"}, runner, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()
	err := s.Start(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// one immediate run plus at least two ticks inside the window
	assert.GreaterOrEqual(t, runner.runs.Load(), int32(3))
}

func TestStartRejectsBadTick(t *testing.T) {
	s := New(config.SchedulerConfig{Enabled: true, Tick: "often"}, &countingRunner{}, nil)
	err := s.Start(context.Background())
	require.Error(t, err)
}
