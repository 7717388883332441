// Package jobs provides the in-process work queue: named units of work
// are enqueued fire-and-forget and executed by a background worker.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Job names
const (
	JobContentPull     = "content.pull"
	JobGenerateComment = "comment.generate"
)

var (
	// ErrUnknownJob is returned when no handler is registered for a name
	ErrUnknownJob = errors.New("unknown job")

	// ErrQueueFull is returned when the queue cannot accept more work
	ErrQueueFull = errors.New("job queue full")
)

// Handler executes one unit of work.
type Handler func(ctx context.Context) error

// Queue accepts named units of work without awaiting a result.
type Queue interface {
	Enqueue(name string) error
}

// Dispatcher is a single-worker in-memory queue. Enqueue never blocks:
// when the buffer is full the caller gets ErrQueueFull instead of
// stalling a request.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	queue    chan string
}

// NewDispatcher creates a dispatcher with the given queue buffer size.
func NewDispatcher(buffer int) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		queue:    make(chan string, buffer),
	}
}

// Register binds a handler to a job name. Must be called before Start.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = handler
}

// Enqueue submits a named unit of work.
func (d *Dispatcher) Enqueue(name string) error {
	d.mu.RLock()
	_, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	select {
	case d.queue <- name:
		return nil
	default:
		return fmt.Errorf("%w: dropping %s", ErrQueueFull, name)
	}
}

// Start runs the worker loop until ctx is done. Job failures are logged
// and never stop the worker.
func (d *Dispatcher) Start(ctx context.Context) {
	log.Println("[JOBS] Dispatcher started")
	for {
		select {
		case <-ctx.Done():
			log.Println("[JOBS] Dispatcher shutting down")
			return
		case name := <-d.queue:
			d.mu.RLock()
			handler := d.handlers[name]
			d.mu.RUnlock()

			start := time.Now()
			if err := handler(ctx); err != nil {
				log.Printf("[JOBS] %s failed after %s: %v", name, time.Since(start).Round(time.Millisecond), err)
				continue
			}
			log.Printf("[JOBS] %s completed in %s", name, time.Since(start).Round(time.Millisecond))
		}
	}
}

// RunEvery enqueues the named job at a fixed interval until ctx is
// done. A full queue is logged and skipped; the next tick tries again.
func RunEvery(ctx context.Context, q Queue, name string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[JOBS] Scheduling %s every %s", name, interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := q.Enqueue(name); err != nil {
				log.Printf("[JOBS] Failed to enqueue %s: %v", name, err)
			}
		}
	}
}
