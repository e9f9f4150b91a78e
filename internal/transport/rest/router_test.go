package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/account"
	accountPostgres "github.com/frahmantamala/finance-tracker/internal/account/postgres"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/core/database"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	institutionPostgres "github.com/frahmantamala/finance-tracker/internal/institution/postgres"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	paycheckPostgres "github.com/frahmantamala/finance-tracker/internal/paycheck/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/transport/rest"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("Router", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		sx, err := database.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		log := logger.Discard()
		base := transport.NewBaseHandler(log)
		bus := events.NewEventBus(log)

		userRepo := userPostgres.NewUserRepository(db)
		tokens := auth.NewJWTTokenGenerator("router-access-secret-0123456789abcd", "router-refresh-secret-0123456789abc", time.Minute, time.Hour)

		h := rest.Handlers{
			Auth:        auth.NewHandler(base, auth.NewService(userRepo, tokens, log), "X-API-Key"),
			User:        user.NewHandler(base, user.NewService(userRepo, bus, bcrypt.MinCost, log)),
			Institution: institution.NewHandler(base, institution.NewService(institutionPostgres.NewInstitutionRepository(db), log)),
			Account:     account.NewHandler(base, account.NewService(accountPostgres.NewAccountRepository(db, sx), log)),
			Paycheck:    paycheck.NewHandler(base, paycheck.NewService(paycheckPostgres.NewPaycheckRepository(db), log)),
		}

		router = chi.NewRouter()
		Expect(rest.RegisterAllRoutes(router, sx, h, rest.RouterOptions{
			Server: internal.ServerConfig{AllowedOrigins: "*"},
		}, log)).To(Succeed())
	})

	do := func(method, path, body string, header http.Header) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range header {
			req.Header[k] = v
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	signup := func() (string, string) {
		rec := do(http.MethodPost, "/api/v1/auth/signup", `{"email":"Jane@Example.com","username":"jane","password":"correct horse"}`, nil)
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		u := decode(rec)["user"].(map[string]interface{})
		return u["id"].(string), u["api_key"].(string)
	}

	It("should answer the probes without credentials", func() {
		rec := do(http.MethodGet, "/api/v1/ping", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["status"]).To(Equal("OK"))

		rec = do(http.MethodGet, "/api/v1/health", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["status"]).To(Equal("healthy"))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should require credentials on protected routes", func() {
		rec := do(http.MethodGet, "/api/v1/institution", "", nil)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should log in and reach protected routes with a bearer token", func() {
		id, _ := signup()

		rec := do(http.MethodPost, "/api/v1/auth/login", `{"email":"jane@example.com","password":"correct horse"}`, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		token := decode(rec)["access_token"].(string)
		bearer := http.Header{"Authorization": {"Bearer " + token}}

		rec = do(http.MethodGet, "/api/v1/users/me", "", bearer)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["id"]).To(Equal(id))

		rec = do(http.MethodPost, "/api/v1/institution", `{"name":"First Bank"}`, bearer)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodGet, "/api/v1/institution/account", "", bearer)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/api/v1/institution/account/update_balance", "", bearer)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("should accept the API key and keep paycheck reports to their owner", func() {
		id, key := signup()
		apiKey := http.Header{"X-Api-Key": {key}}

		rec := do(http.MethodGet, "/api/v1/paycheck/trends/"+id, "", apiKey)
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		rec = do(http.MethodGet, "/api/v1/paycheck/trends/someone-else", "", apiKey)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec = do(http.MethodGet, "/api/v1/paycheck", "", apiKey)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
