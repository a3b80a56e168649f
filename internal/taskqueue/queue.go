package taskqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// Serializer runs submitted tasks one at a time in FIFO order.
// All methods are safe for concurrent use. The zero value is not usable;
// construct with New.
type Serializer struct {
	mu             sync.Mutex
	pending        []*job
	draining       bool
	seq            uint64
	defaultTimeout time.Duration
	logger         *logging.Logger
}

// New creates an idle Serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{defaultTimeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit enqueues task and blocks until it completes, fails, times out, or
// ctx is done. A timeout of zero or less selects the default timeout.
//
// If ctx ends while the task is still queued, Submit returns ctx.Err() and
// the task is skipped when it reaches the head of the queue.
func (s *Serializer) Submit(ctx context.Context, task Task, timeout time.Duration) (any, error) {
	if task == nil {
		return nil, ErrNilTask
	}
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	j := &job{
		ctx:     ctx,
		task:    task,
		timeout: timeout,
		done:    make(chan result, 1),
	}

	s.mu.Lock()
	s.seq++
	j.id = s.seq
	s.pending = append(s.pending, j)
	start := !s.draining
	s.draining = true
	depth := len(s.pending)
	s.mu.Unlock()

	s.logger.Debug("task queued", "task", j.id, "depth", depth)
	if start {
		go s.drain()
	}

	select {
	case r := <-j.done:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of tasks waiting to start.
func (s *Serializer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// drain runs queued tasks until the queue is empty. Only one drain
// goroutine exists at a time.
func (s *Serializer) drain() {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		j := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.run(j)
	}
}

func (s *Serializer) run(j *job) {
	if err := j.ctx.Err(); err != nil {
		s.logger.Debug("task skipped", "task", j.id, "reason", err.Error())
		j.done <- result{err: err}
		return
	}

	taskCtx, cancel := context.WithCancel(j.ctx)
	defer cancel()

	out := make(chan result, 1)
	started := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				out <- result{err: fmt.Errorf("%w: %v", errors.ErrTaskPanicked, r)}
			}
		}()
		v, err := j.task(taskCtx)
		out <- result{value: v, err: err}
	}()

	timer := time.NewTimer(j.timeout)
	defer timer.Stop()

	select {
	case r := <-out:
		if r.err != nil {
			s.logger.Warn("task failed", "task", j.id, "error", r.err.Error())
		} else {
			s.logger.Debug("task completed", "task", j.id, "duration_ms", time.Since(started).Milliseconds())
		}
		j.done <- r
	case <-timer.C:
		s.logger.Warn("task timed out", "task", j.id, "timeout", j.timeout.String())
		j.done <- result{err: errors.NewTimeoutError(fmt.Sprintf("task %d", j.id), j.timeout)}
	case <-j.ctx.Done():
		// The caller has gone away. Hint the body to stop, but keep the
		// queue until it returns or its timeout fires.
		j.done <- result{err: j.ctx.Err()}
		cancel()
		select {
		case <-out:
			s.logger.Debug("cancelled task finished", "task", j.id, "duration_ms", time.Since(started).Milliseconds())
		case <-timer.C:
			s.logger.Warn("cancelled task timed out", "task", j.id, "timeout", j.timeout.String())
		}
	}
}

// Do is a typed wrapper around Submit.
func Do[T any](ctx context.Context, s *Serializer, fn func(context.Context) (T, error), timeout time.Duration) (T, error) {
	var zero T
	if fn == nil {
		return zero, ErrNilTask
	}
	v, err := s.Submit(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, timeout)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}
