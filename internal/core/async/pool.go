package async

import (
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"
)

// Runner runs tasks in the background.
type Runner interface {
	Submit(task func()) error
}

// Pool is a bounded goroutine pool backed by ants. A nil *Pool runs every
// task on a fresh goroutine.
type Pool struct {
	pool *ants.Pool
}

// NewPool creates a pool with size workers. A size of zero or less returns
// a nil pool.
func NewPool(size int, logger *slog.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	p, err := ants.NewPool(size, ants.WithPanicHandler(func(v interface{}) {
		logger.Error("task panicked", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &Pool{pool: p}, nil
}

// Submit schedules task. It blocks while every worker is busy.
func (p *Pool) Submit(task func()) error {
	if p == nil || p.pool == nil {
		go task()
		return nil
	}
	if err := p.pool.Submit(task); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}
	return nil
}

// Running returns the number of busy workers.
func (p *Pool) Running() int {
	if p == nil || p.pool == nil {
		return 0
	}
	return p.pool.Running()
}

// Cap returns the pool size, or 0 for an unbounded pool.
func (p *Pool) Cap() int {
	if p == nil || p.pool == nil {
		return 0
	}
	return p.pool.Cap()
}

// Release stops the workers. Submit fails afterwards.
func (p *Pool) Release() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Release()
}

// Ensure Pool implements Runner interface.
var _ Runner = (*Pool)(nil)
