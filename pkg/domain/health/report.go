// pkg/domain/health/report.go
package health

import (
	"sort"
	"time"
)

// Report aggregates the results of one evaluation pass.
type Report struct {
	// Status is the worst status among Entries, Healthy when empty.
	Status Status `json:"status"`

	// Entries maps probe name to its result.
	Entries map[string]Result `json:"results"`

	// Duration is the wall time of the whole pass.
	Duration time.Duration `json:"-"`
}

// NewReport builds a report from entries, computing the overall status.
func NewReport(entries map[string]Result, duration time.Duration) Report {
	if entries == nil {
		entries = make(map[string]Result)
	}
	statuses := make([]Status, 0, len(entries))
	for _, e := range entries {
		statuses = append(statuses, e.Status)
	}
	return Report{
		Status:   Worst(statuses...),
		Entries:  entries,
		Duration: duration,
	}
}

// Names returns the entry names in sorted order.
func (r Report) Names() []string {
	names := make([]string, 0, len(r.Entries))
	for name := range r.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
