// pkg/adapter/health/factory_test.go
package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	configmocks "github.com/njweb/webapi/pkg/domain/config/mocks"
	domainhealth "github.com/njweb/webapi/pkg/domain/health"
)

func TestFactory_ConfigOverrides(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := configmocks.NewMockStore(ctrl)

	values := map[string]string{
		domainhealth.CheckKey("garbage_collector_check", ThresholdSetting):     "4096",
		domainhealth.CheckKey("garbage_collector_check", FailureStatusSetting): "unhealthy",
		domainhealth.CheckKey("garbage_collector_check", TimeoutSetting):       "2s",
	}
	store.EXPECT().GetString(gomock.Any()).DoAndReturn(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}).AnyTimes()

	factory := newTestFactory(5000)
	checker, err := factory.NewChecker(
		factory.AddGCCheck("garbage_collector_check", domainhealth.Degraded, nil, WithThresholdInBytes(1<<30)),
		domainhealth.WithConfig(store),
	)
	require.NoError(t, err)

	c := checker.(*Checker)
	require.Len(t, c.registrations, 1)
	assert.Equal(t, int64(4096), c.registrations[0].Probe.(*GCProbe).Options().ThresholdInBytes)
	assert.Equal(t, domainhealth.Unhealthy, c.registrations[0].FailureStatus)
	assert.Equal(t, 2*time.Second, c.registrations[0].Timeout)

	report := checker.Check(context.Background())
	assert.Equal(t, domainhealth.Unhealthy, report.Status)
	assert.Equal(t, GCDescription(4096), report.Entries["garbage_collector_check"].Description)
}

func TestFactory_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		source mapSource
	}{
		{
			name:   "unknown failure status",
			source: mapSource{domainhealth.CheckKey("gc", FailureStatusSetting): "sideways"},
		},
		{
			name:   "bad timeout",
			source: mapSource{domainhealth.CheckKey("gc", TimeoutSetting): "soon"},
		},
		{
			name:   "negative timeout",
			source: mapSource{domainhealth.CheckKey("gc", TimeoutSetting): "-1s"},
		},
		{
			name:   "bad threshold",
			source: mapSource{domainhealth.CheckKey("gc", ThresholdSetting): "1KiB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := newTestFactory(0)
			_, err := factory.NewChecker(
				factory.AddGCCheck("gc", domainhealth.Degraded, nil),
				domainhealth.WithConfig(tt.source),
			)
			assert.ErrorContains(t, err, "configuring health check gc")
		})
	}
}

func TestFactory_CheckersDoNotShareGCOptions(t *testing.T) {
	factory := newTestFactory(4096)

	first, err := factory.NewChecker(
		factory.AddGCCheck("gc", domainhealth.Degraded, nil, WithThresholdInBytes(1<<40)),
	)
	require.NoError(t, err)
	require.Equal(t, domainhealth.Healthy, first.Check(context.Background()).Status)

	// a build that fails after registering the same name
	failed, err := factory.NewChecker(
		factory.AddGCCheck("gc", domainhealth.Degraded, nil, WithThresholdInBytes(1)),
		factory.AddCheck("", nil, 0),
	)
	require.ErrorIs(t, err, domainhealth.ErrInvalidRegistration)
	require.Nil(t, failed)

	report := first.Check(context.Background())
	assert.Equal(t, domainhealth.Healthy, report.Status)
	assert.Equal(t, GCDescription(1<<40), report.Entries["gc"].Description)

	// a successful build with a config override
	second, err := factory.NewChecker(
		factory.AddGCCheck("gc", domainhealth.Degraded, nil, WithThresholdInBytes(1<<40)),
		domainhealth.WithConfig(mapSource{domainhealth.CheckKey("gc", ThresholdSetting): "1"}),
	)
	require.NoError(t, err)
	assert.Equal(t, domainhealth.Degraded, second.Check(context.Background()).Status)
	assert.Equal(t, domainhealth.Healthy, first.Check(context.Background()).Status)
}

func TestFactory_ConfigErrorLeavesOptionUnchanged(t *testing.T) {
	factory := newTestFactory(4096)
	gc := factory.AddGCCheck("gc", domainhealth.Degraded, nil, WithThresholdInBytes(1<<40))

	_, err := factory.NewChecker(gc,
		domainhealth.WithConfig(mapSource{domainhealth.CheckKey("gc", ThresholdSetting): "-1"}))
	require.Error(t, err)

	checker, err := factory.NewChecker(gc)
	require.NoError(t, err)
	assert.Equal(t, domainhealth.Healthy, checker.Check(context.Background()).Status)
}

func TestFactory_RegistrationErrors(t *testing.T) {
	factory := newTestFactory(0)
	probe := staticProbe(domainhealth.Healthy, "")

	tests := []struct {
		name    string
		opts    []domainhealth.Option
		wantErr error
	}{
		{
			name:    "empty name",
			opts:    []domainhealth.Option{factory.AddCheck("", probe, domainhealth.Unhealthy)},
			wantErr: domainhealth.ErrInvalidRegistration,
		},
		{
			name:    "nil probe",
			opts:    []domainhealth.Option{factory.AddCheck("nil", nil, domainhealth.Unhealthy)},
			wantErr: domainhealth.ErrInvalidRegistration,
		},
		{
			name: "gc name reused by another probe type",
			opts: []domainhealth.Option{
				factory.AddGCCheck("memory", domainhealth.Degraded, nil),
				factory.AddCheck("memory", probe, domainhealth.Degraded),
			},
			wantErr: domainhealth.ErrDuplicateRegistration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, err := factory.NewChecker(tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, checker)
		})
	}
}

func TestFactory_AddCheckDefaultsToUnhealthy(t *testing.T) {
	factory := newTestFactory(0)
	checker, err := factory.NewChecker(factory.AddCheck("plain", staticProbe(domainhealth.Healthy, ""), 0))
	require.NoError(t, err)

	c := checker.(*Checker)
	assert.Equal(t, domainhealth.Unhealthy, c.registrations[0].FailureStatus)
	assert.Equal(t, domainhealth.DefaultTimeout, c.timeout)
	assert.True(t, c.parallel)
}

func TestBuilder(t *testing.T) {
	factory := newTestFactory(2048)

	checker, err := NewBuilder(factory).
		AddGCCheck("garbage_collector_check", domainhealth.Degraded, []string{"live"}, WithThresholdInBytes(1024)).
		AddCheck("always_ok", staticProbe(domainhealth.Healthy, "ok"), domainhealth.Unhealthy, "ready").
		Build(domainhealth.WithTimeout(time.Second))
	require.NoError(t, err)

	assert.Equal(t, []string{"always_ok", "garbage_collector_check"}, checker.Names())
	assert.Equal(t, domainhealth.Degraded, checker.Check(context.Background()).Status)
	assert.Equal(t, domainhealth.Healthy, checker.CheckTagged(context.Background(), "ready").Status)

	_, err = NewBuilder(nil).AddCheck("", nil, domainhealth.Healthy).Build()
	assert.ErrorIs(t, err, domainhealth.ErrInvalidRegistration)
}
