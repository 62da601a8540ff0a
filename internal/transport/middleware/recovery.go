package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/nexus/internal/transport"
)

// RecoveryMiddleware answers a panicking handler with the generic 500
// envelope. http.ErrAbortHandler is re-raised so net/http can drop the connection.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "Recovery: handler panicked",
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"trace_id", w.Header().Get(TraceHeader),
					"stack", string(debug.Stack()))
				base.WriteJSON(w, http.StatusInternalServerError, transport.Envelope{Message: "Internal server error."})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
