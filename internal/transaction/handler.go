package transaction

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
	Create(ctx context.Context, userID string, dto CreateTransactionDTO) (*Transaction, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]*Transaction, int64, error)
	Get(ctx context.Context, userID, id string) (*Transaction, error)
	Update(ctx context.Context, userID, id string, dto UpdateTransactionDTO) (*Transaction, error)
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

// CreateTransaction handles POST /transaction
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto CreateTransactionDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	t, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Transaction created successfully", map[string]interface{}{
		"transaction": t,
	})
}

// ListTransactions handles GET /transaction?page=&per_page=&account_id=&categories_id=
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page := transport.ParsePage(r)
	filter := ListFilter{
		AccountID:    r.URL.Query().Get("account_id"),
		CategoriesID: r.URL.Query().Get("categories_id"),
		Page:         page,
	}

	items, total, err := h.Service.List(r.Context(), internal.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Transactions: items,
		Pagination:   transport.NewPagination(page, total),
	})
}

// GetTransaction handles GET /transaction/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.Get(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// UpdateTransaction handles PUT /transaction/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto UpdateTransactionDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	t, err := h.Service.Update(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

// DeleteTransaction handles DELETE /transaction/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Transaction deleted successfully", nil)
}

// ImportCSV handles POST /transaction/csv_import
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
