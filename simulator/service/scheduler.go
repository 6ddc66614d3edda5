package service

import (
	"sync"
	"time"

	"github.com/rs/xid"
	"k8s.io/utils/clock"
)

// Scheduler runs one-shot delayed tasks on a clock. Every task fires at most once,
// in its own goroutine, after its delay unless it is cancelled first.
type Scheduler struct {
	clock   clock.WithDelayedExecution
	mu      sync.Mutex
	pending map[string]clock.Timer
	wg      sync.WaitGroup
}

func NewScheduler(clk clock.WithDelayedExecution) *Scheduler {
	return &Scheduler{
		clock:   clk,
		pending: make(map[string]clock.Timer),
	}
}

// Schedule registers fn to run after delay and returns the task id.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) string {
	taskID := xid.New().String()
	var once sync.Once

	s.mu.Lock()
	defer s.mu.Unlock()
	s.wg.Add(1)
	s.pending[taskID] = s.clock.AfterFunc(delay, func() {
		// the fake clock invokes this while holding its own lock
		go once.Do(func() {
			defer s.wg.Done()
			s.mu.Lock()
			delete(s.pending, taskID)
			s.mu.Unlock()
			fn()
		})
	})
	return taskID
}

// Cancel stops a task that has not fired yet.
func (s *Scheduler) Cancel(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer, ok := s.pending[taskID]
	if !ok {
		return false
	}
	delete(s.pending, taskID)
	if timer.Stop() {
		s.wg.Done()
		return true
	}
	return false
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels every pending task and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for taskID, timer := range s.pending {
		delete(s.pending, taskID)
		if timer.Stop() {
			s.wg.Done()
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// wait blocks until every scheduled task has fired or been cancelled.
// It must not run concurrently with Schedule.
func (s *Scheduler) wait() {
	s.wg.Wait()
}
