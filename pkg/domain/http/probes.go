// Package http provides domain interfaces for HTTP routing and service health probes.
package http

import (
	"net/http"

	"github.com/njweb/webapi/pkg/domain/health"
)

// Tags used to select probes for the Kubernetes probe endpoints.
const (
	// LiveTag marks probes that decide whether the process should be restarted.
	LiveTag = "live"

	// ReadyTag marks probes that decide whether the process can take traffic.
	ReadyTag = "ready"

	// StartupTag marks probes that decide whether startup has completed.
	// Liveness and readiness are not probed until they pass.
	StartupTag = "startup"
)

// DefaultHealthPath is the path serving the full health report.
const DefaultHealthPath = "/health"

// ProbeEndpoint binds a path to a selection of registered probes.
type ProbeEndpoint struct {
	// Path is the route, e.g. "/health".
	Path string

	// Tags selects the probes to run. Empty runs every probe.
	Tags []string
}

// DefaultProbeEndpoints returns the full report on /health plus tag-filtered
// liveness, readiness and startup endpoints under /internal.
func DefaultProbeEndpoints() []ProbeEndpoint {
	return []ProbeEndpoint{
		{Path: DefaultHealthPath},
		{Path: "/internal/live", Tags: []string{LiveTag}},
		{Path: "/internal/ready", Tags: []string{ReadyTag}},
		{Path: "/internal/startup", Tags: []string{StartupTag}},
	}
}

// StatusCode maps a report status to the HTTP status code of the response.
// Degraded still serves traffic and so maps to 200.
func StatusCode(status health.Status) int {
	switch status {
	case health.Healthy, health.Degraded:
		return http.StatusOK
	default:
		return http.StatusServiceUnavailable
	}
}
