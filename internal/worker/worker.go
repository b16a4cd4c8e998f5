// Package worker runs fire-and-forget background tasks on a bounded queue.
// Task failures are logged and dropped; there is no retry and no delivery
// guarantee beyond best effort.
package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Task is a unit of deferred work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool executes tasks on a fixed number of workers. Submissions never block:
// when the queue is full the task is dropped and logged.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool starts a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{tasks: make(chan Task, queueSize)}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		if err := task.Run(context.Background()); err != nil {
			slog.Error("background task failed", "task", task.Name, "error", err)
		}
	}
}

// Submit enqueues a task. It reports false when the pool is shut down or the
// queue is full; the task is then dropped and logged.
func (p *Pool) Submit(task Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		slog.Warn("background task dropped, pool shut down", "task", task.Name)
		return false
	}

	select {
	case p.tasks <- task:
		return true
	default:
		slog.Warn("background task dropped, queue full", "task", task.Name)
		return false
	}
}

// Shutdown stops intake and waits for queued tasks to finish, or for ctx to
// expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
