package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/access"
	"github.com/frahmantamala/nexus/internal/transport"
)

// RBACAuthorization gates API areas by the principal's role using the
// same table that drives the frontend capabilities.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) RequireArea(area string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: principal not found in context")
				ra.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !access.CanUseArea(p.Role, area) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", p.ID,
					"role", p.Role,
					"area", area)
				ra.WriteError(w, http.StatusForbidden, internal.ErrInsufficientRole.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
