package institution

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID string, dto CreateInstitutionDTO) (*Institution, error)
	List(ctx context.Context, userID string) ([]*Institution, error)
	Get(ctx context.Context, userID, id string) (*Institution, error)
	Update(ctx context.Context, userID, id string, dto UpdateInstitutionDTO) (*Institution, error)
	Delete(ctx context.Context, userID, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: svc}
}

// CreateInstitution handles POST /institution
func (h *Handler) CreateInstitution(w http.ResponseWriter, r *http.Request) {
	var dto CreateInstitutionDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	inst, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Institution created successfully", map[string]interface{}{
		"institution": inst,
	})
}

// ListInstitutions handles GET /institution
func (h *Handler) ListInstitutions(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, InstitutionsResponse{Institutions: items})
}

// GetInstitution handles GET /institution/{id}
func (h *Handler) GetInstitution(w http.ResponseWriter, r *http.Request) {
	inst, err := h.Service.Get(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inst)
}

// UpdateInstitution handles PUT /institution/{id}
func (h *Handler) UpdateInstitution(w http.ResponseWriter, r *http.Request) {
	var dto UpdateInstitutionDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	inst, err := h.Service.Update(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inst)
}

// DeleteInstitution handles DELETE /institution/{id}
func (h *Handler) DeleteInstitution(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Institution deleted successfully", nil)
}
