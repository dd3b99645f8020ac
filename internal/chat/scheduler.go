// Package chat keeps stylist chat sessions and delivers assistant replies
// after a simulated typing delay.
package chat

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/stylist-storefront/internal/obs"
)

// DelayFunc returns how long to wait before delivering a reply.
type DelayFunc func() time.Duration

// RandomDelay returns delays uniformly distributed in [base, base+jitter).
func RandomDelay(base, jitter time.Duration) DelayFunc {
	return func() time.Duration {
		if jitter <= 0 {
			return base
		}
		return base + time.Duration(rand.Int63n(int64(jitter)))
	}
}

// FixedDelay always returns d.
func FixedDelay(d time.Duration) DelayFunc {
	return func() time.Duration { return d }
}

// Scheduler runs delayed tasks on background goroutines. A task is
// discarded if either the scheduler or the task's own context is cancelled
// before its delay elapses.
type Scheduler struct {
	delay  DelayFunc
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup

	pending   atomic.Int64
	scheduled atomic.Uint64
	delivered atomic.Uint64
	discarded atomic.Uint64
}

// NewScheduler constructs a Scheduler using delay for every task.
func NewScheduler(delay DelayFunc) *Scheduler {
	if delay == nil {
		delay = FixedDelay(0)
	}
	return &Scheduler{delay: delay}
}

// Start binds the scheduler to parent. Tasks scheduled before Start are
// rejected.
func (s *Scheduler) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx, s.cancel = context.WithCancel(parent)
}

// Stop cancels every pending task and waits for their goroutines to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Schedule runs fn after the configured delay unless ctx or the scheduler
// is cancelled first. It reports false if the scheduler is not running.
func (s *Scheduler) Schedule(ctx context.Context, fn func()) bool {
	s.mu.Lock()
	if s.ctx == nil || s.stopped || s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	root := s.ctx
	s.wg.Add(1)
	s.pending.Add(1)
	s.mu.Unlock()

	s.scheduled.Add(1)
	d := s.delay()
	go func() {
		defer s.wg.Done()
		defer s.pending.Add(-1)
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-root.Done():
			s.discarded.Add(1)
			return
		case <-ctx.Done():
			s.discarded.Add(1)
			obs.Logger.Info("chat_reply_discarded", "delay_ms", d.Milliseconds())
			return
		case <-t.C:
		}
		fn()
		s.delivered.Add(1)
	}()
	return true
}

// Pending returns the number of tasks waiting for their delay.
func (s *Scheduler) Pending() int { return int(s.pending.Load()) }

// Metrics returns counters for observability.
func (s *Scheduler) Metrics() (scheduled, delivered, discarded uint64, pending int) {
	return s.scheduled.Load(), s.delivered.Load(), s.discarded.Load(), s.Pending()
}

// DrainUntil blocks until no task is pending or ctx is done.
func (s *Scheduler) DrainUntil(ctx context.Context) bool {
	for {
		if s.Pending() == 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(20 * time.Millisecond):
		}
	}
}
