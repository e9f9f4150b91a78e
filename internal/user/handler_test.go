package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User Handler Integration", func() {
	var (
		handler *user.Handler
		service *user.Service
	)

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		service = user.NewService(userPostgres.NewUserRepository(db), nil, bcrypt.MinCost, logger.Discard())
		handler = user.NewHandler(transport.NewBaseHandler(logger.Discard()), service)
	})

	signup := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.Signup(rec, req)
		return rec
	}

	It("should create a user and return the login redirect", func() {
		rec := signup(`{"email":"jane@example.com","username":"jane","password":"password123"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var resp map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["message"]).To(Equal("User created successfully"))
		Expect(resp["redirect"]).To(Equal("/account/login"))
		Expect(resp["user"]).To(HaveKeyWithValue("username", "jane"))
		Expect(resp["user"]).NotTo(HaveKey("PasswordHash"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("should answer 400 when the email is taken", func() {
		Expect(signup(`{"email":"jane@example.com","username":"jane","password":"password123"}`).Code).To(Equal(http.StatusCreated))

		rec := signup(`{"email":"jane@example.com","username":"jane2","password":"password123"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("User email already exists"))
	})

	It("should answer 400 when the username is shorter than 3 characters", func() {
		rec := signup(`{"email":"me@example.com","username":"me","password":"password123"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("username"))
	})

	It("should answer 400 on malformed json", func() {
		rec := signup(`{"email":`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return the current user", func() {
		u, err := service.Signup(context.Background(), user.SignupDTO{Email: "me@example.com", Username: "meee", Password: "password123"})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req = req.WithContext(internal.ContextWithUserID(req.Context(), u.ID))
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var got user.User
		Expect(json.Unmarshal(rec.Body.Bytes(), &got)).To(Succeed())
		Expect(got.ID).To(Equal(u.ID))
		Expect(got.Email).To(Equal("me@example.com"))
	})

	It("should reject anonymous requests to /users/me", func() {
		rec := httptest.NewRecorder()
		handler.GetCurrentUser(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})
})
