package user

import (
	"net/http"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(role string) ([]*User, error)
	Create(dto CreateUserDTO) (*User, error)
	Toggle(actorID, id int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.URL.Query().Get("role"))
	if err != nil {
		h.Logger.Error("ListUsers: failed to list users", "error", err)
		h.HandleServiceError(w, err, "Failed to fetch users.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, users)
}

// CreateUser handles POST /admin/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err, "")
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Warn("CreateUser: failed", "email", dto.Email, "error", err)
		h.HandleServiceError(w, err, "Failed to create user.")
		return
	}
	h.WriteMessage(w, http.StatusCreated, "User created successfully.", u)
}

// ToggleUser handles PATCH /admin/users/{id}/toggle
func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := h.ParseID(chi.URLParam(r, "id"), "id")
	if err != nil {
		h.HandleServiceError(w, err, "")
		return
	}

	u, err := h.Service.Toggle(actor.ID, id)
	if err != nil {
		h.Logger.Warn("ToggleUser: failed", "user_id", id, "error", err)
		h.HandleServiceError(w, err, "Failed to update user.")
		return
	}
	h.WriteSuccess(w, http.StatusOK, u)
}
