package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a request or response body reaches the log.
const maxLoggedBody = 4 << 10

const redacted = "[FILTERED]"

// Fragments matched against lower-cased keys with '_' and '-' removed.
var sensitiveFragments = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"cookie",
	"apikey",
	"credential",
	"mobile",
}

func isSensitive(key string) bool {
	k := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
	for _, f := range sensitiveFragments {
		if strings.Contains(k, f) {
			return true
		}
	}
	return false
}

// LoggingMiddleware logs each request at debug and each response at a level
// following its status, with credentials and phone numbers masked.
// Paths listed in quiet are served without logging.
func LoggingMiddleware(logger *slog.Logger, quiet ...string) func(next http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			lg := logger.With(
				"request_id", middleware.GetReqID(r.Context()),
				"trace_id", w.Header().Get(TraceHeader),
				"method", r.Method,
				"path", r.URL.Path,
			)

			logRequest(lg, r)

			rec := &recordingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			logResponse(lg, r, rec, time.Since(start))
		})
	}
}

// recordingWriter keeps the status and the first maxLoggedBody bytes written.
type recordingWriter struct {
	http.ResponseWriter
	status int
	size   int
	head   bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	if room := maxLoggedBody - rw.head.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.head.Write(b[:room])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func logRequest(lg *slog.Logger, r *http.Request) {
	if !lg.Enabled(r.Context(), slog.LevelDebug) {
		return
	}

	var body []byte
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		body = raw
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}
	}

	lg.DebugContext(r.Context(), "incoming request",
		"query", r.URL.RawQuery,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
		"headers", filterSensitiveHeaders(r.Header),
		"body", filterSensitiveBody(body),
	)
}

func logResponse(lg *slog.Logger, r *http.Request, rw *recordingWriter, elapsed time.Duration) {
	status := rw.status
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	switch {
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case status >= http.StatusBadRequest:
		level = slog.LevelWarn
	}

	attrs := []any{
		"status_code", status,
		"duration_ms", elapsed.Milliseconds(),
		"response_size", rw.size,
	}
	// Bodies only for failures, which is where the envelope message matters.
	if status >= http.StatusBadRequest {
		attrs = append(attrs, "body", filterSensitiveBody(rw.head.Bytes()))
	}
	lg.Log(r.Context(), level, "response", attrs...)
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// filterSensitiveBody masks sensitive keys at any depth of a JSON body.
// Bodies that are not JSON are dropped when they mention a sensitive key.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED - non-JSON body with sensitive data]"
		}
		return string(body)
	}

	masked, err := json.Marshal(maskJSON(doc))
	if err != nil {
		return "[unloggable body]"
	}
	return string(masked)
}

func maskJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for key, val := range t {
			if isSensitive(key) {
				t[key] = redacted
				continue
			}
			t[key] = maskJSON(val)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = maskJSON(t[i])
		}
		return t
	default:
		return v
	}
}
