// pkg/adapter/health/sampler.go
package health

import (
	"context"
	"fmt"
	"runtime/metrics"
)

// MemorySample is a point-in-time reading of the process memory counters.
type MemorySample struct {
	// Allocated is the number of bytes occupied by heap objects.
	Allocated uint64

	// Gen0Collections counts collections triggered by the runtime's pacer.
	Gen0Collections uint64

	// Gen1Collections counts collections forced by the application.
	Gen1Collections uint64

	// Gen2Collections counts all completed collections.
	Gen2Collections uint64
}

// MemorySampler reads memory counters without forcing a collection.
type MemorySampler interface {
	Sample(ctx context.Context) (MemorySample, error)
}

// MemorySamplerFunc adapts a function to the MemorySampler interface.
type MemorySamplerFunc func(ctx context.Context) (MemorySample, error)

// Sample calls f(ctx).
func (f MemorySamplerFunc) Sample(ctx context.Context) (MemorySample, error) {
	return f(ctx)
}

const (
	metricHeapObjects     = "/memory/classes/heap/objects:bytes"
	metricAutomaticCycles = "/gc/cycles/automatic:gc-cycles"
	metricForcedCycles    = "/gc/cycles/forced:gc-cycles"
	metricTotalCycles     = "/gc/cycles/total:gc-cycles"
)

// RuntimeSampler reads counters from runtime/metrics, which does not stop
// the world.
type RuntimeSampler struct{}

// NewRuntimeSampler creates a sampler backed by runtime/metrics.
func NewRuntimeSampler() *RuntimeSampler {
	return &RuntimeSampler{}
}

// Sample implements MemorySampler.
func (s *RuntimeSampler) Sample(_ context.Context) (MemorySample, error) {
	samples := []metrics.Sample{
		{Name: metricHeapObjects},
		{Name: metricAutomaticCycles},
		{Name: metricForcedCycles},
		{Name: metricTotalCycles},
	}
	metrics.Read(samples)

	values := make([]uint64, len(samples))
	for i, sample := range samples {
		if sample.Value.Kind() != metrics.KindUint64 {
			return MemorySample{}, fmt.Errorf("runtime metric %s unavailable", sample.Name)
		}
		values[i] = sample.Value.Uint64()
	}

	return MemorySample{
		Allocated:       values[0],
		Gen0Collections: values[1],
		Gen1Collections: values[2],
		Gen2Collections: values[3],
	}, nil
}
