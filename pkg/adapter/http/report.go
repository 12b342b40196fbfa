package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/njweb/webapi/pkg/domain/health"
	domainhttp "github.com/njweb/webapi/pkg/domain/http"
)

// fallbackBody is written when a report cannot be encoded.
const fallbackBody = "{\n  \"status\": \"Unhealthy\",\n  \"results\": {}\n}\n"

// WriteReport writes report as two-space indented JSON with the status
// code mapped from the overall status. The body is always well-formed.
func WriteReport(w http.ResponseWriter, report health.Report) error {
	body, err := EncodeReport(report)

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(fallbackBody))
		return err
	}

	w.WriteHeader(domainhttp.StatusCode(report.Status))
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// EncodeReport renders report as two-space indented JSON. Result names are
// sorted and data keys keep their insertion order.
func EncodeReport(report health.Report) ([]byte, error) {
	if report.Entries == nil {
		report.Entries = map[string]health.Result{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	return buf.Bytes(), nil
}
