package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/frahmantamala/nexus/internal/aiengine"
)

// SecurityValidator is the AI engine call the sentinel depends on.
type SecurityValidator interface {
	ValidateRequest(ctx context.Context, check aiengine.SecurityCheck) (*aiengine.Verdict, error)
}

const blockedMessage = "Access Denied by AI Security Shield"

// Sentinel screens every request through the AI security check, except the
// paths in skip. policy decides what happens when the check itself fails.
func Sentinel(validator SecurityValidator, policy aiengine.Policy, logger *slog.Logger, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			// latency and is_error are fixed placeholders.
			check := aiengine.SecurityCheck{IP: ClientIP(r), Latency: 0, IsError: false}

			verdict, err := validator.ValidateRequest(r.Context(), check)
			if err != nil {
				if policy.Allows() {
					logger.Warn("Sentinel: security check unavailable, allowing request", "ip", check.IP, "path", r.URL.Path, "error", err)
					next.ServeHTTP(w, r)
					return
				}
				logger.Warn("Sentinel: security check unavailable, denying request", "ip", check.IP, "path", r.URL.Path, "error", err)
				writeSentinelJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
					"success": false,
					"message": "Security check unavailable.",
				})
				return
			}

			if verdict.Blocked {
				logger.Warn("Sentinel: request blocked", "ip", check.IP, "path", r.URL.Path, "reason", verdict.Reason, "confidence", verdict.Confidence)
				writeSentinelJSON(w, http.StatusForbidden, map[string]interface{}{
					"success": false,
					"message": blockedMessage,
					"reason":  verdict.Reason,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the host part of RemoteAddr, or 127.0.0.1 when it is empty.
func ClientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return "127.0.0.1"
	}
	return addr
}

func writeSentinelJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
