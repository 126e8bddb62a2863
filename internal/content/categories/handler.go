package categories

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/readgate/readgate/internal/platform/httpx"
	"github.com/readgate/readgate/internal/shared"
)

// Handler exposes the category endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers category routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/categories", h.list)
	r.Get("/categories/{slug}", h.show)
}

type listResponse struct {
	Items      []CategoryWithCount `json:"items"`
	Pagination shared.Pagination   `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", shared.DefaultPerPage)

	items, pagination, err := h.service.List(r.Context(), principal, page, perPage)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.Success(w, "Categories retrieved successfully", listResponse{
		Items:      items,
		Pagination: pagination,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	slug := chi.URLParam(r, "slug")
	category, err := h.service.Get(r.Context(), principal, slug)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("get category", slog.Any("error", err), slog.String("slug", slug))
		}
		httpx.RespondError(w, err)
		return
	}

	httpx.Success(w, "Category retrieved successfully", category)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
