package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner removes stale entries from a cache.
type Pruner interface {
	Prune(maxAge time.Duration) (int, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// CachePruneScheduler periodically drops downloaded pronunciation clips that
// have not been fetched for a while.
type CachePruneScheduler struct {
	pruner   Pruner
	schedule string
	maxAge   time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCachePruneScheduler creates a scheduler that prunes clips older than
// maxAge on the given cron schedule.
func NewCachePruneScheduler(pruner Pruner, schedule string, maxAge time.Duration) *CachePruneScheduler {
	return &CachePruneScheduler{
		pruner:   pruner,
		schedule: schedule,
		maxAge:   maxAge,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. An empty schedule or a non-positive max age
// leaves it disabled.
func (s *CachePruneScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" || s.maxAge <= 0 {
		log.Printf("Audio cache pruning: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runPrune()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audio cache pruning: started with schedule '%s', max age %v. Next run: %v",
		s.schedule, s.maxAge, s.nextRunLocked())

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running prune to finish and stops the scheduler.
func (s *CachePruneScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	log.Printf("Audio cache pruning: stopped")
}

// RunNow prunes immediately and returns the number of removed clips.
func (s *CachePruneScheduler) RunNow() (int, error) {
	return s.pruner.Prune(s.maxAge)
}

func (s *CachePruneScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next prune will occur, or nil when stopped.
func (s *CachePruneScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRunLocked()
}

func (s *CachePruneScheduler) nextRunLocked() *time.Time {
	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CachePruneScheduler) runPrune() {
	start := time.Now()
	removed, err := s.pruner.Prune(s.maxAge)
	if err != nil {
		log.Printf("Audio cache pruning: failed after removing %d clips: %v", removed, err)
		return
	}
	log.Printf("Audio cache pruning: removed %d clips in %v", removed, time.Since(start).Round(time.Millisecond))
}
