package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/regexprobe/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code, response size, and duration. Health-check paths are silently skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				"status":             sw.status,
				"bytes":              sw.written,
				logger.FieldDuration: duration.Milliseconds(),
			}
			if e := r.URL.Query().Get("engine"); e != "" {
				fields[logger.FieldEngine] = e
			}
			logByStatus(log.WithContext(r.Context()), fields, sw.status)
		})
	}
}

func isHealthEndpoint(path string) bool {
	switch path {
	case "/health", "/info":
		return true
	}
	return false
}

// logByStatus logs request fields at the level matching the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
