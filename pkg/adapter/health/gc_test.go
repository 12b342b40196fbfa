// pkg/adapter/health/gc_test.go
package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainhealth "github.com/njweb/webapi/pkg/domain/health"
)

func fixedSampler(sample MemorySample) MemorySampler {
	return MemorySamplerFunc(func(context.Context) (MemorySample, error) {
		return sample, nil
	})
}

func newGCProbe(t *testing.T, sample MemorySample, opts ...GCOption) *GCProbe {
	t.Helper()
	probe, err := NewGCProbe(fixedSampler(sample), opts...)
	require.NoError(t, err)
	return probe
}

func gcRegistration(name string, status domainhealth.Status) domainhealth.Registration {
	return domainhealth.Registration{Name: name, Kind: GCKind, FailureStatus: status}
}

func TestGCProbe_ThresholdBoundary(t *testing.T) {
	tests := []struct {
		name      string
		allocated uint64
		threshold int64
		want      domainhealth.Status
	}{
		{name: "below threshold", allocated: 1023, threshold: 1024, want: domainhealth.Healthy},
		{name: "equal to threshold", allocated: 1024, threshold: 1024, want: domainhealth.Degraded},
		{name: "above threshold", allocated: 4096, threshold: 1024, want: domainhealth.Degraded},
		{name: "zero threshold always fails", allocated: 0, threshold: 0, want: domainhealth.Degraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o domainhealth.CheckerOptions
			sampler := fixedSampler(MemorySample{Allocated: tt.allocated})
			require.NoError(t, RegisterGC(sampler, "gc", domainhealth.Degraded, nil, WithThresholdInBytes(tt.threshold)).ApplyOption(&o))

			reg := o.Registrations[0]
			result, err := reg.Probe.Check(context.Background(), reg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, GCDescription(tt.threshold), result.Description)
		})
	}
}

func TestGCProbe_DefaultThreshold(t *testing.T) {
	probe := newGCProbe(t, MemorySample{Allocated: uint64(OneGibibyte) - 1})

	assert.Equal(t, int64(1073741824), probe.Options().ThresholdInBytes)

	result, err := probe.Check(context.Background(), gcRegistration("unconfigured", domainhealth.Unhealthy))
	require.NoError(t, err)
	assert.Equal(t, domainhealth.Healthy, result.Status)
	assert.Equal(t, "reports degraded status if allocated bytes >= 1073741824 bytes", result.Description)
}

func TestGCProbe_DataOrder(t *testing.T) {
	probe := newGCProbe(t, MemorySample{
		Allocated:       2048,
		Gen0Collections: 3,
		Gen1Collections: 1,
		Gen2Collections: 4,
	})

	result, err := probe.Check(context.Background(), gcRegistration("gc", domainhealth.Degraded))
	require.NoError(t, err)

	assert.Equal(t, []string{"Allocated", "Gen0Collections", "Gen1Collections", "Gen2Collections"}, result.Data.Keys())
	allocated, ok := result.Data.Get("Allocated")
	require.True(t, ok)
	assert.Equal(t, int64(2048), allocated)
	gen2, _ := result.Data.Get("Gen2Collections")
	assert.Equal(t, int64(4), gen2)
}

func TestGCProbe_PerNameThresholds(t *testing.T) {
	sampler := fixedSampler(MemorySample{Allocated: 5000})

	var o domainhealth.CheckerOptions
	require.NoError(t, applyAll(t, &o,
		RegisterGC(sampler, "small", domainhealth.Degraded, nil, WithThresholdInBytes(1024)),
		RegisterGC(sampler, "large", domainhealth.Unhealthy, nil, WithThresholdInBytes(1<<20)),
	))

	small, err := o.Registrations[0].Probe.Check(context.Background(), o.Registrations[0])
	require.NoError(t, err)
	large, err := o.Registrations[1].Probe.Check(context.Background(), o.Registrations[1])
	require.NoError(t, err)

	assert.Equal(t, domainhealth.Degraded, small.Status)
	assert.Equal(t, domainhealth.Healthy, large.Status)
}

func TestGCProbe_ReRegistrationReplacesOptions(t *testing.T) {
	sampler := fixedSampler(MemorySample{Allocated: 2048})

	var o domainhealth.CheckerOptions
	require.NoError(t, applyAll(t, &o,
		RegisterGC(sampler, "gc", domainhealth.Degraded, []string{"live"}, WithThresholdInBytes(1024)),
		RegisterGC(sampler, "gc", domainhealth.Unhealthy, []string{"ready"}),
	))

	require.Len(t, o.Registrations, 1)
	assert.Equal(t, domainhealth.Unhealthy, o.Registrations[0].FailureStatus)
	assert.Equal(t, []string{"ready"}, o.Registrations[0].Tags)
	assert.Equal(t, OneGibibyte, o.Registrations[0].Probe.(*GCProbe).Options().ThresholdInBytes)
}

func TestGCProbe_RegisterDefaultsAndErrors(t *testing.T) {
	sampler := fixedSampler(MemorySample{})

	t.Run("unset failure status defaults to degraded", func(t *testing.T) {
		var o domainhealth.CheckerOptions
		require.NoError(t, RegisterGC(sampler, "gc", 0, nil).ApplyOption(&o))
		assert.Equal(t, domainhealth.Degraded, o.Registrations[0].FailureStatus)
		assert.Equal(t, GCKind, o.Registrations[0].Kind)
	})

	t.Run("negative threshold", func(t *testing.T) {
		var o domainhealth.CheckerOptions
		err := RegisterGC(sampler, "gc", domainhealth.Degraded, nil, WithThresholdInBytes(-1)).ApplyOption(&o)
		assert.ErrorIs(t, err, domainhealth.ErrInvalidRegistration)
		assert.Empty(t, o.Registrations)

		_, err = NewGCProbe(sampler, WithThresholdInBytes(-1))
		assert.ErrorContains(t, err, "threshold must not be negative")
	})

	t.Run("name taken by another kind", func(t *testing.T) {
		var o domainhealth.CheckerOptions
		other := domainhealth.ProbeFunc(func(context.Context, domainhealth.Registration) (domainhealth.Result, error) {
			return domainhealth.NewResult(domainhealth.Healthy, "", nil), nil
		})
		err := applyAll(t, &o,
			domainhealth.WithProbe("shared", other, domainhealth.Unhealthy),
			RegisterGC(sampler, "shared", domainhealth.Degraded, nil, WithThresholdInBytes(1)),
		)
		assert.ErrorIs(t, err, domainhealth.ErrDuplicateRegistration)
		require.Len(t, o.Registrations, 1)
		assert.Equal(t, "shared", o.Registrations[0].Name)
	})
}

func TestGCProbe_SamplerError(t *testing.T) {
	probe, err := NewGCProbe(MemorySamplerFunc(func(context.Context) (MemorySample, error) {
		return MemorySample{}, errors.New("counters unavailable")
	}))
	require.NoError(t, err)

	_, err = probe.Check(context.Background(), gcRegistration("gc", domainhealth.Degraded))
	assert.ErrorContains(t, err, "counters unavailable")
}

func TestGCProbe_Configure(t *testing.T) {
	probe := newGCProbe(t, MemorySample{Allocated: 1500}, WithThresholdInBytes(2000))
	source := mapSource{
		domainhealth.CheckKey("gc", ThresholdSetting):  "1000",
		domainhealth.CheckKey("bad", ThresholdSetting): "lots",
		domainhealth.CheckKey("neg", ThresholdSetting): "-5",
	}

	configured, err := probe.Configure("gc", source)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), configured.(*GCProbe).Options().ThresholdInBytes)
	assert.Equal(t, int64(2000), probe.Options().ThresholdInBytes)

	result, err := configured.Check(context.Background(), gcRegistration("gc", domainhealth.Degraded))
	require.NoError(t, err)
	assert.Equal(t, domainhealth.Degraded, result.Status)

	unchanged, err := probe.Configure("absent", source)
	require.NoError(t, err)
	assert.Same(t, probe, unchanged)

	_, err = probe.Configure("bad", source)
	assert.Error(t, err)
	_, err = probe.Configure("neg", source)
	assert.Error(t, err)
}

func TestRuntimeSampler(t *testing.T) {
	sample, err := NewRuntimeSampler().Sample(context.Background())
	require.NoError(t, err)

	assert.Greater(t, sample.Allocated, uint64(0))
	assert.GreaterOrEqual(t, sample.Gen2Collections, sample.Gen0Collections)
	assert.GreaterOrEqual(t, sample.Gen2Collections, sample.Gen1Collections)
}

// applyAll applies opts in order, stopping at the first error.
func applyAll(t *testing.T, o *domainhealth.CheckerOptions, opts ...domainhealth.Option) error {
	t.Helper()
	for _, opt := range opts {
		if err := opt.ApplyOption(o); err != nil {
			return err
		}
	}
	return nil
}

// mapSource is a ConfigSource backed by string values.
type mapSource map[string]string

func (m mapSource) GetString(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapSource) GetInt(key string) (int, bool) {
	return 0, false
}

func (m mapSource) IsSet(key string) bool {
	_, ok := m[key]
	return ok
}
