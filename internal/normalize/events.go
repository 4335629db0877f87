package normalize

import (
	"context"
	"log/slog"
)

// EventLevel indicates the severity/type of a session message.
type EventLevel int

const (
	LevelInfo EventLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the level name.
func (l EventLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// Event is a session progress or diagnostic message.
type Event struct {
	Message string
	Level   EventLevel
}

// LogEvents returns an event handler that writes events to l.
//
// Verbose events are logged at debug level and successes at info level.
func LogEvents(l *slog.Logger) func(Event) {
	return func(e Event) {
		level := slog.LevelInfo
		switch e.Level {
		case LevelVerbose:
			level = slog.LevelDebug
		case LevelWarning:
			level = slog.LevelWarn
		case LevelError:
			level = slog.LevelError
		}
		l.Log(context.Background(), level, e.Message, "level", e.Level.String())
	}
}
