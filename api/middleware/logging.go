package middleware

import (
	"net/http"
	"time"

	"github.com/angelmondragon/restaurant-backend/pkg/logger"
)

// slowRequest is the latency above which a completed request is logged at warn.
const slowRequest = 2 * time.Second

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Logging emits one line per request once it completes. Server failures and
// slow requests are logged at warn; everything else at debug for probes and
// info otherwise.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logg == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			fields := map[string]any{
				"method":      r.Method,
				"route":       routePattern(r),
				"status":      defaultStatus(rec.status),
				"bytes":       rec.bytes,
				"duration_ms": elapsed.Milliseconds(),
			}
			// session middleware runs deeper in the chain; the header is all we see here
			if session := w.Header().Get(SessionHeader); session != "" {
				fields["session_id"] = session
			}
			ctx := logg.WithFields(r.Context(), fields)

			switch status := defaultStatus(rec.status); {
			case status >= http.StatusInternalServerError:
				logg.Warn(ctx, "request.failed")
			case elapsed > slowRequest:
				logg.Warn(ctx, "request.slow")
			case isProbe(r.URL.Path):
				logg.Debug(ctx, "request.complete")
			default:
				logg.Info(ctx, "request.complete")
			}
		})
	}
}

func isProbe(path string) bool {
	return path == "/health/live" || path == "/health/ready" || path == "/metrics"
}
