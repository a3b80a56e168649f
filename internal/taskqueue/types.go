package taskqueue

import (
	"context"
	"time"

	"github.com/Iron-Ham/lanes/internal/errors"
	"github.com/Iron-Ham/lanes/internal/logging"
)

// DefaultTimeout is applied to tasks submitted with a zero or negative timeout.
const DefaultTimeout = 30 * time.Second

// ErrNilTask is returned by Submit when the task is nil.
var ErrNilTask = errors.New("taskqueue: nil task")

// Task is a unit of work run by a Serializer. The context is cancelled when
// the task's timeout fires or the submitting caller gives up.
type Task func(ctx context.Context) (any, error)

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger sets the logger used for task lifecycle events.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Serializer) {
		s.logger = logger.WithComponent("taskqueue")
	}
}

// WithDefaultTimeout overrides DefaultTimeout for this Serializer.
func WithDefaultTimeout(d time.Duration) Option {
	return func(s *Serializer) {
		if d > 0 {
			s.defaultTimeout = d
		}
	}
}

type result struct {
	value any
	err   error
}

type job struct {
	id      uint64
	ctx     context.Context
	task    Task
	timeout time.Duration
	done    chan result // buffered(1); the drain loop never blocks on a gone caller
}
