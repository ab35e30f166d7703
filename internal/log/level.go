package log

import "log/slog"

// Level is a diagnostic severity. Supervision diagnostics go to stderr
// at these levels so the child's forwarded output on stdout stays clean.
type Level int

const (
	// LevelDebug traces individual checkpoints and memory samples.
	LevelDebug Level = iota
	// LevelInfo reports run progress.
	LevelInfo
	// LevelWarn flags recoverable oddities: non-executable targets,
	// dropped checkpoints, forced dry runs.
	LevelWarn
	// LevelError reports failures of the tool itself.
	LevelError
)

// String returns the level's display name
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ToSlogLevel maps a Level onto the slog backend's scale
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel reads a level name from config text; unknown names fall
// back to info rather than failing the run
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// FromVerbosity maps the CLI verbosity counter (-q=0, default=1, -v=2,
// -vv=3) onto a log level.
func FromVerbosity(v int) Level {
	switch {
	case v <= 0:
		return LevelError
	case v == 1:
		return LevelWarn
	case v == 2:
		return LevelInfo
	default:
		return LevelDebug
	}
}
