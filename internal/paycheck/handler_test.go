package paycheck_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	paycheckPostgres "github.com/frahmantamala/finance-tracker/internal/paycheck/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Paycheck Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := paycheck.NewService(paycheckPostgres.NewPaycheckRepository(db), logger.Discard())
		handler := paycheck.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUserID(r.Context(), "u1")))
			})
		})
		router.Get("/paycheck", handler.ListPaychecks)
		router.Post("/paycheck", handler.CreatePaycheck)
		router.Get("/paycheck/{id}", handler.GetPaycheck)
		router.Put("/paycheck/{id}", handler.UpdatePaycheck)
		router.Delete("/paycheck/{id}", handler.DeletePaycheck)
		router.Get("/paycheck/analytics/{user_id}", handler.Analytics)
		router.Get("/paycheck/trends/{user_id}", handler.Trends)
		router.Get("/paycheck/trends/{user_id}/chart", handler.TrendsChart)
		router.Get("/paycheck/compare/{user_id}", handler.Compare)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
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

	create := func(employer, payDate, gross, net string) string {
		rec := do(http.MethodPost, "/paycheck", `{
			"employer": "`+employer+`",
			"pay_period_start": "`+payDate+`",
			"pay_period_end": "`+payDate+`",
			"pay_date": "`+payDate+`",
			"gross_income": `+gross+`,
			"net_pay": `+net+`,
			"federal_tax": 100,
			"retirement_401k": 50
		}`)
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		body := decode(rec)
		Expect(body["message"]).To(Equal("Paycheck created successfully"))
		return body["paycheck"].(map[string]interface{})["id"].(string)
	}

	It("should create a paycheck and expose metrics as numbers", func() {
		id := create("Acme", "2024-01-20", "1000", "900")

		rec := do(http.MethodGet, "/paycheck/"+id, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		p := decode(rec)["paycheck"].(map[string]interface{})
		Expect(p["pay_date"]).To(Equal("2024-01-20"))
		Expect(p["employee_name"]).To(Equal("Self"))
		Expect(p["gross_income"]).To(BeNumerically("==", 1000))
		Expect(p["total_taxes"]).To(BeNumerically("==", 100))
		Expect(p["taxable_income"]).To(BeNumerically("==", 950))
		Expect(p["calculated_net_pay"]).To(BeNumerically("==", 900))
		Expect(p["net_pay_matches"]).To(BeTrue())
		Expect(p["hourly_rate"]).To(BeNil())
		Expect(p).To(HaveKeyWithValue("hours_worked", BeNil()))
	})

	It("should reject invalid payloads with the field message", func() {
		rec := do(http.MethodPost, "/paycheck", `{"employer": "Acme", "pay_period_start": "2024-01-01"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec)["message"]).To(ContainSubstring("is required"))

		rec = do(http.MethodPost, "/paycheck", `{
			"employer": "Acme", "pay_period_start": "2024-02-01", "pay_period_end": "2024-01-01",
			"pay_date": "2024-02-05", "gross_income": 10, "net_pay": 10
		}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec)["message"]).To(Equal("Pay period start date must be before end date"))
	})

	It("should filter and paginate the list newest first", func() {
		create("Acme", "2024-01-20", "1000", "850")
		create("Acme", "2024-02-20", "1000", "850")
		create("Beta", "2024-03-20", "2000", "1850")

		rec := do(http.MethodGet, "/paycheck?employer=Acme", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		body := decode(rec)
		items := body["paychecks"].([]interface{})
		Expect(items).To(HaveLen(2))
		Expect(items[0].(map[string]interface{})["pay_date"]).To(Equal("2024-02-20"))

		rec = do(http.MethodGet, "/paycheck?start_date=2024-02-01&per_page=1&page=2", "")
		body = decode(rec)
		Expect(body["pagination"].(map[string]interface{})["total"]).To(BeNumerically("==", 2))
		items = body["paychecks"].([]interface{})
		Expect(items).To(HaveLen(1))
		Expect(items[0].(map[string]interface{})["pay_date"]).To(Equal("2024-02-20"))

		rec = do(http.MethodGet, "/paycheck?start_date=02/01/2024", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec)["message"]).To(Equal("start_date must be in YYYY-MM-DD format"))
	})

	It("should keep nullable fields that are absent and clear the ones sent as null", func() {
		id := create("Acme", "2024-01-20", "1000", "900")

		rec := do(http.MethodPut, "/paycheck/"+id, `{"hours_worked": 80, "hourly_rate": 12.5}`)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())

		rec = do(http.MethodPut, "/paycheck/"+id, `{"notes": "bonus month"}`)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		p := decode(do(http.MethodGet, "/paycheck/"+id, ""))["paycheck"].(map[string]interface{})
		Expect(p["hours_worked"]).To(BeNumerically("==", 80))
		Expect(p["hourly_rate"]).To(BeNumerically("==", 12.5))

		rec = do(http.MethodPut, "/paycheck/"+id, `{"hourly_rate": null, "hours_worked": null}`)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		p = decode(do(http.MethodGet, "/paycheck/"+id, ""))["paycheck"].(map[string]interface{})
		Expect(p).To(HaveKeyWithValue("hourly_rate", BeNil()))
		Expect(p).To(HaveKeyWithValue("hours_worked", BeNil()))
		Expect(p["notes"]).To(Equal("bonus month"))
	})

	It("should reject a negative hourly rate on update", func() {
		id := create("Acme", "2024-01-20", "1000", "900")
		rec := do(http.MethodPut, "/paycheck/"+id, `{"hourly_rate": -1}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should update and delete", func() {
		id := create("Acme", "2024-01-20", "1000", "850")

		rec := do(http.MethodPut, "/paycheck/"+id, `{"net_pay": 850.004, "notes": "fixed"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		body := decode(rec)
		Expect(body["message"]).To(Equal("Paycheck updated successfully"))
		Expect(body["paycheck"].(map[string]interface{})["notes"]).To(Equal("fixed"))

		rec = do(http.MethodDelete, "/paycheck/"+id, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["message"]).To(Equal("Paycheck deleted successfully"))

		rec = do(http.MethodGet, "/paycheck/"+id, "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(decode(rec)["message"]).To(Equal("Paycheck not found"))
	})

	It("should serve analytics, trends, compare and the chart", func() {
		create("Acme", "2024-01-20", "1000", "850")
		create("Acme", "2024-02-20", "1200", "1050")

		rec := do(http.MethodGet, "/paycheck/analytics/u1?start_date=2024-02-01", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		summary := decode(rec)["summary"].(map[string]interface{})
		Expect(summary["total_paychecks"]).To(BeNumerically("==", 1))
		Expect(summary["total_gross_income"]).To(BeNumerically("==", 1200))

		rec = do(http.MethodGet, "/paycheck/analytics/u1?start_date=2030-01-01", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))

		rec = do(http.MethodGet, "/paycheck/trends/u1", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		months := decode(rec)["monthly_trends"].([]interface{})
		Expect(months).To(HaveLen(2))
		Expect(months[1].(map[string]interface{})["mom_gross_change"]).To(BeNumerically("==", 20))

		rec = do(http.MethodGet, "/paycheck/compare/u1?period1_start=2024-01-01&period1_end=2024-01-31&period2_start=2024-02-01&period2_end=2024-02-29", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		changes := decode(rec)["changes"].(map[string]interface{})
		Expect(changes["gross_change"]).To(BeNumerically("==", 20))

		rec = do(http.MethodGet, "/paycheck/compare/u1?period1_start=2024-01-01", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec = do(http.MethodGet, "/paycheck/trends/u1/chart", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("image/png"))
		Expect(rec.Body.Bytes()).To(HavePrefix("\x89PNG"))
	})
})
