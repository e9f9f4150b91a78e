package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	RegenerateAPIKey(ctx context.Context, userID string) (string, error)
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

// Signup handles POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var dto SignupDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	u, err := h.Service.Signup(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Signup: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, SignupResponse{
		Message:  "User created successfully",
		Redirect: "/account/login",
		User:     u,
	})
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(r.Context(), userID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetByID failed", "user_id", userID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// RegenerateAPIKey handles POST /users/me/api-key
func (h *Handler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	key, err := h.Service.RegenerateAPIKey(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, APIKeyResponse{APIKey: key})
}
