package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	PrincipalFromToken(ctx context.Context, tokenString string) (*internal.Principal, error)
	PrincipalFromAPIKey(ctx context.Context, apiKey string) (*internal.Principal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service      ServiceAPI
	APIKeyHeader string
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, apiKeyHeader string) *Handler {
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &Handler{
		BaseHandler:  baseHandler,
		Service:      svc,
		APIKeyHeader: apiKeyHeader,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: the token is checked and the client drops it.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleError(w, ErrMissingCredentials)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware accepts a bearer JWT or an api key header and stores the caller as a Principal.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			principal *internal.Principal
			err       error
		)

		if key := r.Header.Get(h.APIKeyHeader); key != "" {
			principal, err = h.Service.PrincipalFromAPIKey(r.Context(), key)
		} else if token := h.ExtractTokenFromHeader(r); token != "" {
			principal, err = h.Service.PrincipalFromToken(r.Context(), token)
		} else {
			err = ErrMissingCredentials
		}

		if err != nil {
			h.Logger.Warn("auth middleware: rejected request", "path", r.URL.Path, "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
