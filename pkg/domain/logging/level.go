// pkg/domain/logging/level.go

package logging

import (
	"fmt"
	"strings"
)

// Level represents logging severity levels.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

func (l Level) severity() int {
	switch l {
	case DebugLevel:
		return 0
	case WarnLevel:
		return 2
	case ErrorLevel:
		return 3
	default:
		return 1
	}
}

// Enables reports whether a logger at l writes entries at other.
func (l Level) Enables(other Level) bool {
	return other.severity() >= l.severity()
}

// ParseLevel converts a configuration string into a Level. "warning" is
// accepted for WarnLevel.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel, nil
	case InfoLevel:
		return InfoLevel, nil
	case WarnLevel, "warning":
		return WarnLevel, nil
	case ErrorLevel:
		return ErrorLevel, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// Fields are structured key-value pairs attached to an entry.
type Fields map[string]interface{}

// Merge returns a new Fields holding f overlaid with other.
func (f Fields) Merge(other Fields) Fields {
	out := make(Fields, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
