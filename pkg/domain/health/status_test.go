// pkg/domain/health/status_test.go
package health

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorst(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{name: "no statuses is healthy", statuses: nil, want: Healthy},
		{name: "all healthy", statuses: []Status{Healthy, Healthy}, want: Healthy},
		{name: "degraded beats healthy", statuses: []Status{Healthy, Degraded, Healthy}, want: Degraded},
		{name: "unhealthy beats degraded", statuses: []Status{Degraded, Unhealthy, Healthy}, want: Unhealthy},
		{name: "order does not matter", statuses: []Status{Unhealthy, Degraded}, want: Unhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Worst(tt.statuses...))
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Healthy", Healthy.String())
	assert.Equal(t, "Degraded", Degraded.String())
	assert.Equal(t, "Unhealthy", Unhealthy.String())
	assert.Equal(t, "Unknown", Status(0).String())
	assert.False(t, Status(0).IsValid())
	assert.False(t, Status(4).IsValid())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "Healthy", want: Healthy},
		{in: "degraded", want: Degraded},
		{in: " UNHEALTHY ", want: Unhealthy},
		{in: "ok", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		S Status `json:"s"`
	}{S: Degraded})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"Degraded"}`, string(b))

	var got struct {
		S Status `json:"s"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"s":"Unhealthy"}`), &got))
	assert.Equal(t, Unhealthy, got.S)

	assert.Error(t, json.Unmarshal([]byte(`{"s":"broken"}`), &got))
}
