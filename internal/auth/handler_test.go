package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var (
		handler  *Handler
		tokenGen *JWTTokenGenerator
		next     http.Handler
		seen     *internal.Principal
	)

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("handler-access-secret-0123456789abc", "handler-refresh-secret-0123456789ab", time.Minute, time.Hour)
		svc := NewService(newMockUserRepository(), tokenGen, logger.Discard())
		handler = NewHandler(transport.NewBaseHandler(logger.Discard()), svc, "")
		seen = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = internal.PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should return tokens", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"user@example.com","password":"correct_password"}`))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var tokens AuthTokens
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &tokens)).To(gomega.Succeed())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should answer 400 Invalid Credentials", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"user@example.com","password":"nope"}`))
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("Invalid Credentials"))
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		ginkgo.It("should reject requests without credentials", func() {
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(seen).To(gomega.BeNil())
		})

		ginkgo.It("should accept a bearer token", func() {
			token, err := tokenGen.GenerateAccessToken("1", "user@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(seen.UserID).To(gomega.Equal("1"))
		})

		ginkgo.It("should accept an api key", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("X-API-Key", "api-key-of-user-1")
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(seen.Method).To(gomega.Equal(MethodAPIKey))
		})

		ginkgo.It("should reject a refresh token used as an access token", func() {
			token, err := tokenGen.GenerateRefreshToken("1", "user@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})

	ginkgo.It("should answer 204 on logout with a valid token", func() {
		token, err := tokenGen.GenerateAccessToken("1", "user@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.Logout(rec, req)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
	})
})
