// Package dispatch runs best-effort background tasks detached from the request
// that spawned them.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ReawEiEi/hotel-booking-server/pkg/logger"

	"golang.org/x/sync/semaphore"
)

type Task func(ctx context.Context) error

// Observer is told about tasks that failed or were never started.
type Observer interface {
	NotificationFailed()
	NotificationDropped()
}

type Dispatcher struct {
	sem      *semaphore.Weighted
	timeout  time.Duration
	log      *logger.Logger
	observer Observer

	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

func New(log *logger.Logger, maxInFlight int, timeout time.Duration, observer Observer) *Dispatcher {
	return &Dispatcher{
		sem:      semaphore.NewWeighted(int64(max(1, maxInFlight))),
		timeout:  timeout,
		log:      log,
		observer: observer,
	}
}

// Submit starts task in the background and returns immediately. The task keeps
// the values of parent but not its cancellation. When the dispatcher is full or
// stopped the task is dropped and Submit reports false.
func (d *Dispatcher) Submit(parent context.Context, name string, task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped || !d.sem.TryAcquire(1) {
		d.log.Warn("Background task dropped", "task", name, "stopped", d.stopped)
		if d.observer != nil {
			d.observer.NotificationDropped()
		}
		return false
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)
		d.run(parent, name, task)
	}()
	return true
}

func (d *Dispatcher) run(parent context.Context, name string, task Task) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			d.log.Error("Background task panicked", "task", name, "panic", p)
			if d.observer != nil {
				d.observer.NotificationFailed()
			}
		}
	}()

	start := time.Now()
	if err := task(ctx); err != nil {
		d.log.Error("Background task failed",
			"task", name,
			"timed_out", errors.Is(err, context.DeadlineExceeded),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		if d.observer != nil {
			d.observer.NotificationFailed()
		}
		return
	}
	d.log.Debug("Background task completed", "task", name, "duration_ms", time.Since(start).Milliseconds())
}

// Stop refuses new tasks and waits for in-flight ones until ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
