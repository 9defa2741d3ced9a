package utils

import (
	"context"
	"sync"
	"time"
)

// WorkerPool fans gateway calls out over a bounded number of goroutines.
// Job starts are spaced at least interval apart, so one estimate never
// bursts more than maxWorkers requests at the prediction service.
type WorkerPool struct {
	slots    chan struct{}
	interval time.Duration
	wg       sync.WaitGroup

	mu        sync.Mutex
	nextStart time.Time
}

// NewWorkerPool creates a WorkerPool. A non-positive maxWorkers is treated
// as 1 and a non-positive rateLimitMs disables spacing.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		slots:    make(chan struct{}, maxWorkers),
		interval: time.Duration(rateLimitMs) * time.Millisecond,
	}
}

// Submit schedules job, blocking while every slot is busy. The job always
// runs exactly once; a cancelled ctx only cuts its start delay short, and
// the job is expected to observe ctx itself.
func (wp *WorkerPool) Submit(ctx context.Context, job func()) {
	wp.wg.Add(1)
	wp.slots <- struct{}{}
	start := wp.reserveStart()

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.slots }()

		waitUntil(ctx, start)
		wp.markStarted()
		job()
	}()
}

// Wait blocks until every submitted job has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// reserveStart hands out start times interval apart without holding the
// lock while waiting.
func (wp *WorkerPool) reserveStart() time.Time {
	now := time.Now()
	if wp.interval <= 0 {
		return now
	}
	wp.mu.Lock()
	defer wp.mu.Unlock()

	start := wp.nextStart
	if start.Before(now) {
		start = now
	}
	wp.nextStart = start.Add(wp.interval)
	return start
}

// markStarted pushes the next slot out when a job started later than its
// reservation.
func (wp *WorkerPool) markStarted() {
	if wp.interval <= 0 {
		return
	}
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if next := time.Now().Add(wp.interval); next.After(wp.nextStart) {
		wp.nextStart = next
	}
}

func waitUntil(ctx context.Context, t time.Time) {
	d := time.Until(t)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// KeySet tracks catalog dedupe keys (product ids, or brand|name pairs).
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add reports whether key was new.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
