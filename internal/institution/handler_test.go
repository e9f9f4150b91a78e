package institution_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	institutionPostgres "github.com/frahmantamala/finance-tracker/internal/institution/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Institution Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := institution.NewService(institutionPostgres.NewInstitutionRepository(db), logger.Discard())
		handler := institution.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUserID(r.Context(), r.Header.Get("X-Test-User"))))
			})
		})
		router.Get("/institution", handler.ListInstitutions)
		router.Post("/institution", handler.CreateInstitution)
		router.Get("/institution/{id}", handler.GetInstitution)
		router.Put("/institution/{id}", handler.UpdateInstitution)
		router.Delete("/institution/{id}", handler.DeleteInstitution)
	})

	do := func(method, path, user, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", user)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should create and list institutions", func() {
		rec := do(http.MethodPost, "/institution", "u1", `{"name":"Chase","location":"NYC"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Body.String()).To(ContainSubstring("Institution created successfully"))

		rec = do(http.MethodGet, "/institution", "u1", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp institution.InstitutionsResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Institutions).To(HaveLen(1))
		Expect(resp.Institutions[0].Name).To(Equal("Chase"))

		rec = do(http.MethodGet, "/institution", "u2", "")
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Institutions).To(BeEmpty())
	})

	It("should answer 400 without a name", func() {
		rec := do(http.MethodPost, "/institution", "u1", `{"location":"NYC"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("name is required"))
	})

	It("should answer 404 for another user's institution", func() {
		rec := do(http.MethodPost, "/institution", "u1", `{"name":"Chase"}`)
		var created struct {
			Institution institution.Institution `json:"institution"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())

		Expect(do(http.MethodGet, "/institution/"+created.Institution.ID, "u2", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, "/institution/"+created.Institution.ID, "u1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPut, "/institution/"+created.Institution.ID, "u1", `{"location":"LA"}`).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, "/institution/"+created.Institution.ID, "u1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/institution/"+created.Institution.ID, "u1", "").Code).To(Equal(http.StatusNotFound))
	})
})
