// Package logging provides structured logging for lanes.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// context propagation. State persistence in lanes is best-effort: reads that
// find nothing and writes that fail are reported here as warnings rather than
// surfaced to callers, so the log is the primary place to look when a session
// is missing its workflow, chime, or status details.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/path/to/log/dir", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Warn("rejected prompts folder", "folder", folder, "reason", err.Error())
//
// # Context Propagation
//
//	sessionLogger := logger.WithSession("feature-x").WithComponent("session")
//	sessionLogger.Info("task list created", "task_list_id", id)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task list created","session":"feature-x","component":"session","task_list_id":"feature-x-a1B2c3"}
//
// # Nil Loggers
//
// Every method is safe to call on a nil *Logger and does nothing. Components
// accept an optional logger and do not need to guard each call.
//
// # Testing
//
// Use [NopLogger] to discard all output, or [NewWithWriter] to capture it.
package logging
