// pkg/adapter/health/checker.go
package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	domainhealth "github.com/njweb/webapi/pkg/domain/health"
	"github.com/njweb/webapi/pkg/domain/logging"
	"github.com/njweb/webapi/pkg/domain/metrics"
)

// Verify interface implementation
var _ domainhealth.Checker = (*Checker)(nil)

// Checker runs registered probes and aggregates their results. It is safe
// for concurrent use; registrations are fixed at construction.
type Checker struct {
	registrations []domainhealth.Registration
	timeout       time.Duration
	parallel      bool
	limit         int
	logger        logging.Logger
	metrics       metrics.Collector
	tracer        trace.Tracer
}

// Check implements domainhealth.Checker.
func (c *Checker) Check(ctx context.Context) domainhealth.Report {
	return c.run(ctx, c.registrations)
}

// CheckTagged implements domainhealth.Checker.
func (c *Checker) CheckTagged(ctx context.Context, tags ...string) domainhealth.Report {
	if len(tags) == 0 {
		return c.run(ctx, c.registrations)
	}
	selected := make([]domainhealth.Registration, 0, len(c.registrations))
	for _, reg := range c.registrations {
		if reg.HasAnyTag(tags...) {
			selected = append(selected, reg)
		}
	}
	return c.run(ctx, selected)
}

// Names implements domainhealth.Checker.
func (c *Checker) Names() []string {
	names := make([]string, len(c.registrations))
	for i, reg := range c.registrations {
		names[i] = reg.Name
	}
	sort.Strings(names)
	return names
}

func (c *Checker) run(ctx context.Context, regs []domainhealth.Registration) domainhealth.Report {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make([]domainhealth.Result, len(regs))
	if c.parallel {
		var g errgroup.Group
		if c.limit > 0 {
			g.SetLimit(c.limit)
		}
		for i, reg := range regs {
			g.Go(func() error {
				results[i] = c.evaluate(ctx, reg)
				return nil
			})
		}
		// evaluate never fails; errors surface as Unhealthy results
		_ = g.Wait()
	} else {
		for i, reg := range regs {
			results[i] = c.evaluate(ctx, reg)
		}
	}

	entries := make(map[string]domainhealth.Result, len(regs))
	for i, reg := range regs {
		entries[reg.Name] = results[i]
	}
	return domainhealth.NewReport(entries, time.Since(start))
}

// evaluate runs one probe with its span, timing, logging and metrics.
func (c *Checker) evaluate(ctx context.Context, reg domainhealth.Registration) domainhealth.Result {
	if reg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, reg.Timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, "health.check "+reg.Name,
		trace.WithAttributes(
			attribute.String("health.check.name", reg.Name),
			attribute.String("health.check.kind", reg.Kind),
		),
	)
	defer span.End()

	start := time.Now()
	result := c.invoke(ctx, reg)
	result.Duration = time.Since(start)

	span.SetAttributes(attribute.String("health.check.status", result.Status.String()))
	if result.Err != nil {
		span.RecordError(result.Err)
	}
	if result.Status != domainhealth.Healthy {
		span.SetStatus(codes.Error, result.Description)
	}

	c.record(ctx, reg, result)
	return result
}

// invoke calls the probe, discarding its result if ctx expires first.
func (c *Checker) invoke(ctx context.Context, reg domainhealth.Registration) domainhealth.Result {
	done := make(chan domainhealth.Result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- domainhealth.FailedResult(fmt.Errorf("%w: %v", domainhealth.ErrProbePanic, r))
			}
		}()

		result, err := reg.Probe.Check(ctx, reg)
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			done <- domainhealth.FailedResult(fmt.Errorf("%w: %s", domainhealth.ErrProbeTimeout, err))
		case err != nil:
			done <- domainhealth.FailedResult(err)
		case !result.Status.IsValid():
			done <- domainhealth.Result{
				Status:      domainhealth.Unhealthy,
				Description: fmt.Sprintf("health check returned invalid status %d", int(result.Status)),
				Data:        result.Data,
			}
		default:
			done <- result
		}
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = domainhealth.ErrProbeTimeout
		}
		return domainhealth.FailedResult(err)
	}
}

func (c *Checker) record(ctx context.Context, reg domainhealth.Registration, result domainhealth.Result) {
	if c.metrics != nil {
		c.metrics.CollectCheckMetrics(reg.Name, result.Status.String(), result.Duration.Seconds())
	}

	if c.logger == nil {
		return
	}
	fields := logging.Fields{
		"check":    reg.Name,
		"status":   result.Status.String(),
		"duration": result.Duration.String(),
	}
	logger := c.logger.WithContext(ctx)
	if result.Status == domainhealth.Healthy {
		logger.DebugWith("Health check completed", fields)
		return
	}
	fields["description"] = result.Description
	logger.WarnWith("Health check not healthy", fields)
}
