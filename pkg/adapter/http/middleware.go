package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/njweb/webapi/pkg/domain/logging"
)

// middlewares returns the chain in application order. The HTTPS redirect
// runs before any instrumentation, and tracing wraps request logging so
// log entries carry the server span.
func (r *Router) middlewares() []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(r.opts.RequestTimeout),
	}
	if r.opts.HTTPSRedirect {
		chain = append(chain, httpsRedirect(r.opts.HTTPSPort))
	}
	if r.opts.TracingProvider != nil {
		chain = append(chain, r.tracing)
	}
	if r.opts.Logger != nil || r.metrics != nil {
		chain = append(chain, r.observe)
	}
	return chain
}

// tracing starts a server span named "<service>.http <METHOD> <path>".
func (r *Router) tracing(next http.Handler) http.Handler {
	prefix := r.opts.ServiceName + ".http "
	return otelhttp.NewHandler(next, r.opts.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return prefix + req.Method + " " + req.URL.Path
		}),
		otelhttp.WithFilter(func(req *http.Request) bool {
			return !r.noTracing.Contains(req.URL.Path)
		}),
	)
}

// observe logs each request and records its metrics under the matched
// route pattern.
func (r *Router) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.noLogging.Contains(req.URL.Path) {
			next.ServeHTTP(w, req)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		if r.metrics != nil {
			r.metrics.CollectRequestMetrics(req.Method, routePattern(req), status, elapsed.Seconds())
		}
		if r.opts.Logger != nil {
			r.opts.Logger.WithContext(req.Context()).InfoWith("HTTP Request", logging.Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     status,
				"duration":   elapsed.String(),
				"size":       ww.BytesWritten(),
				"request_id": middleware.GetReqID(req.Context()),
			})
		}
	})
}

// routePattern keeps metric label cardinality bounded; unmatched requests
// fall back to the raw path.
func routePattern(req *http.Request) string {
	if rctx := chi.RouteContext(req.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return req.URL.Path
}
