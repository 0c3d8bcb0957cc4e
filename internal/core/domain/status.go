package domain

import "strings"

// JobStatus represents the lifecycle state of a job or matrix instance.
type JobStatus string

const (
	// StatusPending indicates the job is waiting for dependencies or a
	// worker slot.
	StatusPending JobStatus = "pending"
	// StatusRunning indicates the job is currently executing.
	StatusRunning JobStatus = "running"
	// StatusSucceeded indicates the job finished successfully.
	StatusSucceeded JobStatus = "succeeded"
	// StatusFailed indicates the job execution failed.
	StatusFailed JobStatus = "failed"
	// StatusSkipped indicates an upstream dependency failed and the job
	// never became eligible.
	StatusSkipped JobStatus = "skipped"
	// StatusCancelled indicates the run was cancelled before the job (or a
	// sibling instance under fail-fast) could start.
	StatusCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether the status is a terminal state.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped, StatusCancelled:
		return true
	default:
		return false
	}
}

// NormalizeJobStatus converts a string to a JobStatus, defaulting to
// pending if unknown. Useful at serialization boundaries.
func NormalizeJobStatus(s string) JobStatus {
	switch strings.ToLower(s) {
	case string(StatusRunning):
		return StatusRunning
	case string(StatusSucceeded):
		return StatusSucceeded
	case string(StatusFailed):
		return StatusFailed
	case string(StatusSkipped):
		return StatusSkipped
	case string(StatusCancelled):
		return StatusCancelled
	default:
		return StatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
