package servicejwt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/nexus/internal/transport"
)

const (
	HeaderCitizenID = "x-citizen-id"
	HeaderRequestID = "x-request-id"
)

type ctxKey struct{}

// Caller is what the department learns about a verified gateway call.
type Caller struct {
	Claims    *Claims
	CitizenID string
	RequestID string
}

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Caller)
	return c, ok
}

func ContextWithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// Middleware rejects requests without a valid service token for this department.
func Middleware(v *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Verify(base.ExtractTokenFromHeader(r))
			if err != nil {
				status, message := StatusFor(err)
				logger.Warn("ServiceAuth: rejected internal call", "path", r.URL.Path, "error", err)
				base.WriteError(w, status, message)
				return
			}

			caller := &Caller{
				Claims:    claims,
				CitizenID: r.Header.Get(HeaderCitizenID),
				RequestID: r.Header.Get(HeaderRequestID),
			}
			next.ServeHTTP(w, r.WithContext(ContextWithCaller(r.Context(), caller)))
		})
	}
}

// StatusFor maps a verification error to the response status and message.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrServiceTokenMissing):
		return http.StatusUnauthorized, "Unauthorized: No service token provided."
	case errors.Is(err, ErrServiceTokenExpired):
		return http.StatusUnauthorized, "Unauthorized: Service token expired."
	case errors.Is(err, ErrWrongCaller):
		return http.StatusForbidden, "Forbidden: Invalid service token."
	case errors.Is(err, ErrWrongDepartment):
		return http.StatusForbidden, "Forbidden: Token not authorized for this department."
	default:
		return http.StatusUnauthorized, "Unauthorized: Invalid service token."
	}
}
