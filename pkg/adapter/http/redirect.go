package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// httpsRedirect redirects plain-HTTP requests to https with 308 so the
// method and body are preserved. Requests that arrived over TLS, or that a
// proxy marks with X-Forwarded-Proto: https, pass through. port 0 or 443
// yields a URL without an explicit port.
func httpsRedirect(port int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if isSecure(req) {
				next.ServeHTTP(w, req)
				return
			}

			target := *req.URL
			target.Scheme = "https"
			target.Host = redirectHost(req.Host, port)
			http.Redirect(w, req, target.String(), http.StatusPermanentRedirect)
		})
	}
}

func isSecure(req *http.Request) bool {
	if req.TLS != nil {
		return true
	}
	proto := req.Header.Get("X-Forwarded-Proto")
	return strings.EqualFold(strings.TrimSpace(strings.Split(proto, ",")[0]), "https")
}

func redirectHost(host string, port int) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if port == 0 || port == 443 {
		if strings.Contains(host, ":") {
			return "[" + host + "]"
		}
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
