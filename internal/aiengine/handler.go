package aiengine

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/frahmantamala/nexus/internal/transport"
)

type QueryRouter interface {
	RouteQuery(ctx context.Context, query string) (json.RawMessage, error)
}

type Handler struct {
	*transport.BaseHandler
	Router        QueryRouter
	OnUnavailable Policy
}

func NewHandler(router QueryRouter, onUnavailable Policy, base *transport.BaseHandler) *Handler {
	return &Handler{BaseHandler: base, Router: router, OnUnavailable: onUnavailable}
}

type RouteQueryRequest struct {
	Query string `json:"query"`
}

func (h *Handler) RouteQuery(w http.ResponseWriter, r *http.Request) {
	var req RouteQueryRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	analysis, err := h.Router.RouteQuery(r.Context(), req.Query)
	if err != nil {
		h.Logger.Error("AIHandler: route query failed", "error", err)
		if h.OnUnavailable.Allows() {
			h.WriteMessage(w, http.StatusOK, "AI routing is currently unavailable.", nil)
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "AI Engine is offline or busy.")
		return
	}

	h.WriteSuccess(w, http.StatusOK, analysis)
}
