package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	mu     sync.Mutex
	calls  int
	maxAge time.Duration
	err    error
}

func (p *countingPruner) Prune(maxAge time.Duration) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.maxAge = maxAge
	return 2, p.err
}

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"0 3 * * *", false},
		{"*/15 * * * *", false},
		{"0 0 * * 0", false},
		{"every day", true},
		{"0 3 * *", true},
		{"* * * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCachePruneScheduler_StartStop(t *testing.T) {
	s := NewCachePruneScheduler(&countingPruner{}, "0 3 * * *", 24*time.Hour)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	next := s.NextRunTime()
	require.NotNil(t, next)
	assert.Equal(t, 3, next.Hour())
	assert.True(t, next.After(time.Now()))

	// Starting twice is a no-op.
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
	s.Stop()
}

func TestCachePruneScheduler_StopsWithContext(t *testing.T) {
	s := NewCachePruneScheduler(&countingPruner{}, "0 3 * * *", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 5*time.Millisecond)
}

func TestCachePruneScheduler_Disabled(t *testing.T) {
	for name, s := range map[string]*CachePruneScheduler{
		"no schedule": NewCachePruneScheduler(&countingPruner{}, "", time.Hour),
		"no max age":  NewCachePruneScheduler(&countingPruner{}, "0 3 * * *", 0),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Start(context.Background()))
			assert.False(t, s.IsRunning())
		})
	}
}

func TestCachePruneScheduler_InvalidSchedule(t *testing.T) {
	s := NewCachePruneScheduler(&countingPruner{}, "whenever", time.Hour)

	err := s.Start(context.Background())

	assert.ErrorContains(t, err, "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestCachePruneScheduler_RunNow(t *testing.T) {
	pruner := &countingPruner{}
	s := NewCachePruneScheduler(pruner, "0 3 * * *", 48*time.Hour)

	removed, err := s.RunNow()

	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, pruner.calls)
	assert.Equal(t, 48*time.Hour, pruner.maxAge)

	pruner.err = errors.New("disk gone")
	s.runPrune()
	assert.Equal(t, 2, pruner.calls)
}
