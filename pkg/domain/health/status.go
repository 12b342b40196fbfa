// pkg/domain/health/status.go
package health

import (
	"fmt"
	"strings"
)

// Status is the tri-state outcome of a probe. The zero value is unset and is
// never a valid probe outcome.
type Status int

const (
	// Healthy indicates the component is functioning normally.
	Healthy Status = iota + 1

	// Degraded indicates the component works but is under pressure.
	Degraded

	// Unhealthy indicates the component is not functioning.
	Unhealthy
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case Healthy:
		return "Healthy"
	case Degraded:
		return "Degraded"
	case Unhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is one of Healthy, Degraded or Unhealthy.
func (s Status) IsValid() bool {
	return s >= Healthy && s <= Unhealthy
}

// Worse reports whether s is more severe than other.
// Severity order is Healthy < Degraded < Unhealthy.
func (s Status) Worse(other Status) bool {
	return s > other
}

// Worst returns the most severe status in statuses, or Healthy when there
// are none.
func Worst(statuses ...Status) Status {
	worst := Healthy
	for _, s := range statuses {
		if s.Worse(worst) {
			worst = s
		}
	}
	return worst
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "healthy":
		return Healthy, nil
	case "degraded":
		return Degraded, nil
	case "unhealthy":
		return Unhealthy, nil
	default:
		return 0, fmt.Errorf("unknown health status %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
