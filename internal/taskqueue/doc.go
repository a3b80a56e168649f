// Package taskqueue provides a FIFO serializer for asynchronous operations
// that must never overlap, such as rapid back-to-back session creation.
//
// The core type is [Serializer]. Tasks submitted to it run strictly one at a
// time in submission order on a single drain goroutine that is started on
// demand and exits when the queue is empty. Each task races an independent
// timer: when the timer wins, the caller receives a [errors.TimeoutError]
// and the drain loop moves on to the next task. The timed-out task is not
// stopped. Its context is cancelled so cooperative tasks can bail out early,
// but any side effects it has already started may still land after the
// timeout was reported.
//
// A caller whose context ends gets ctx.Err() at once. A queued task is then
// skipped; a running one has its context cancelled, and the next task waits
// until it returns or its timeout fires.
//
// A task's error, panic, or timeout is delivered only to its own caller and
// never prevents later tasks from running.
//
// Usage:
//
//	s := taskqueue.New(taskqueue.WithLogger(logger))
//
//	path, err := taskqueue.Do(ctx, s, func(ctx context.Context) (string, error) {
//	    return createSession(ctx, name)
//	}, 0) // 0 selects the default timeout
package taskqueue
