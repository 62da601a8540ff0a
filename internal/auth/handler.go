package auth

import (
	"net/http"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/access"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/frahmantamala/nexus/internal/user"
	"github.com/frahmantamala/nexus/pkg/logger"
)

type ServiceAPI interface {
	Register(dto RegisterDTO) (*Result, error)
	Login(dto LoginDTO) (*Result, error)
	Authenticate(tokenString string) (*internal.Principal, error)
	Me(id int64) (*user.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}

	result, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Warn("Register: failed", "error", err)
		h.HandleServiceError(w, err, "Registration failed.")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("Login: authentication failed", "error", err)
		h.HandleServiceError(w, err, "Login failed.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, result)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := h.Service.Me(p.ID)
	if err != nil {
		h.Logger.Error("Me: failed to load user", "user_id", p.ID, "error", err)
		h.HandleServiceError(w, err, "Failed to load user.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"user": u})
}

type CapabilitiesResponse struct {
	access.Capabilities
	Decision *access.Decision `json:"decision,omitempty"`
}

// Capabilities handles GET /auth/capabilities. With ?path= it also returns
// the navigation decision for that route.
func (h *Handler) Capabilities(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp := CapabilitiesResponse{Capabilities: access.CapabilitiesFor(p.Role)}
	if path := r.URL.Query().Get("path"); path != "" {
		session := &access.Session{
			Token: h.ExtractTokenFromHeader(r),
			User:  &access.SessionUser{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role},
		}
		d := access.Guard(session, path)
		resp.Decision = &d
	}
	h.WriteSuccess(w, http.StatusOK, resp)
}

// AuthMiddleware requires a valid bearer token and stores the principal in context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := h.Service.Authenticate(h.ExtractTokenFromHeader(r))
		if err != nil {
			h.Logger.Debug("auth middleware: rejected", "path", r.URL.Path, "error", err)
			h.HandleServiceError(w, err, "Authentication failed.")
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.ID, "role", principal.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
