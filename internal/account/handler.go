package account

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID string, dto CreateAccountDTO) (*Account, error)
	List(ctx context.Context, userID string) ([]*Account, error)
	Get(ctx context.Context, userID, id string) (*Account, error)
	Update(ctx context.Context, userID, id string, dto UpdateAccountDTO) (*Account, error)
	Delete(ctx context.Context, userID, id string) error
	RecomputeBalances(ctx context.Context, userID string) ([]BalanceUpdate, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: svc}
}

// CreateAccount handles POST /institution/account
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var dto CreateAccountDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	acc, err := h.Service.Create(r.Context(), internal.UserIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Account created successfully", map[string]interface{}{
		"account": acc,
	})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context(), internal.UserIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, AccountsResponse{Accounts: items})
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.Service.Get(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, acc)
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var dto UpdateAccountDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	acc, err := h.Service.Update(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, acc)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), internal.UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Account deleted successfully", nil)
}

// RecomputeBalances handles GET /institution/account/update_balance and POST /accounts/recompute.
// It runs inline so the caller sees the new balances.
func (h *Handler) RecomputeBalances(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())

	updates, err := h.Service.RecomputeBalances(r.Context(), userID)
	if err != nil {
		h.Logger.Error("RecomputeBalances: service error", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	changed := 0
	for _, u := range updates {
		if u.Changed() {
			changed++
		}
	}

	h.WriteJSON(w, http.StatusOK, RecomputeResponse{
		Message:         "Account balances updated successfully",
		AccountsUpdated: changed,
		Accounts:        updates,
	})
}
