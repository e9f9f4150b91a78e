package category

import (
	"context"
	"io"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/csvimport"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateType(ctx context.Context, userID string, dto NameDTO) (*CategoryType, error)
	ListTypes(ctx context.Context, userID string) ([]*CategoryType, error)
	DeleteType(ctx context.Context, userID, id string) error

	CreateGroup(ctx context.Context, userID string, dto NameDTO) (*CategoryGroup, error)
	ListGroups(ctx context.Context, userID string) ([]*CategoryGroup, error)
	DeleteGroup(ctx context.Context, userID, id string) error

	Create(ctx context.Context, userID string, dto CreateCategoryDTO) (*Category, error)
	List(ctx context.Context, userID string) ([]*Category, error)
	Get(ctx context.Context, userID, id string) (*Category, error)
	Delete(ctx context.Context, userID, id string) error

	ImportCSV(ctx context.Context, userID string, r io.Reader, maxErrorDetails int) (*ImportResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Import  internal.ImportConfig
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, importCfg internal.ImportConfig) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Import:      importCfg.WithDefaults(),
	}
}

// CreateType handles POST /categories_type
func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var dto NameDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	t, err := h.Service.CreateType(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "Categories type created successfully", map[string]interface{}{
		"categories_type": t,
	})
}

// ListTypes handles GET /categories_type
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListTypes(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, TypesResponse{CategoriesType: items})
}

// DeleteType handles DELETE /categories_type/{id}
func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteType(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Categories type deleted successfully", nil)
}

// CreateGroup handles POST /categories_group
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var dto NameDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	g, err := h.Service.CreateGroup(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "Categories group created successfully", map[string]interface{}{
		"categories_group": g,
	})
}

// ListGroups handles GET /categories_group
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListGroups(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, GroupsResponse{CategoriesGroup: items})
}

// DeleteGroup handles DELETE /categories_group/{id}
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteGroup(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Categories group deleted successfully", nil)
}

// CreateCategory handles POST /categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CreateCategoryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	c, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusCreated, "Categories created successfully", map[string]interface{}{
		"category": c,
	})
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Categories: items})
}

// DeleteCategory handles DELETE /categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Categories deleted successfully", nil)
}

// ImportCSV handles POST /categories/csv_import
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	file, filename, appErr := csvimport.OpenUpload(r, h.Import.AllowedExtensions)
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}
	defer file.Close()

	userID := internal.UserIDFromContext(r.Context())
	result, err := h.Service.ImportCSV(r.Context(), userID, file, h.Import.MaxErrorDetails)
	if err != nil {
		h.Logger.Warn("ImportCSV: import failed", "user_id", userID, "filename", filename, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if result.Failed() {
		h.WriteJSON(w, http.StatusBadRequest, result)
		return
	}
	h.WriteJSON(w, http.StatusCreated, result)
}
