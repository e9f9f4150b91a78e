package category_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-tracker/internal/category/postgres"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := category.NewService(categoryPostgres.NewCategoryRepository(db), nil, logger.Discard())
		handler := category.NewHandler(transport.NewBaseHandler(logger.Discard()), service, internal.ImportConfig{})

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUserID(r.Context(), "u1")))
			})
		})
		router.Get("/categories_type", handler.ListTypes)
		router.Post("/categories_type", handler.CreateType)
		router.Delete("/categories_type/{id}", handler.DeleteType)
		router.Get("/categories_group", handler.ListGroups)
		router.Post("/categories_group", handler.CreateGroup)
		router.Get("/categories", handler.ListCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
		router.Post("/categories/csv_import", handler.ImportCSV)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	upload := func(filename, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = fw.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/categories/csv_import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	idOf := func(rec *httptest.ResponseRecorder, key string) string {
		var body map[string]json.RawMessage
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		var item struct {
			ID string `json:"id"`
		}
		Expect(json.Unmarshal(body[key], &item)).To(Succeed())
		return item.ID
	}

	It("should build a category from its group and type", func() {
		rec := do(http.MethodPost, "/categories_type", `{"name":"Expense"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		typeID := idOf(rec, "categories_type")

		rec = do(http.MethodPost, "/categories_group", `{"name":"Food"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		groupID := idOf(rec, "categories_group")

		rec = do(http.MethodPost, "/categories", `{"name":"Groceries","categories_group_id":"`+groupID+`","categories_type_id":"`+typeID+`"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Body.String()).To(ContainSubstring("Categories created successfully"))

		rec = do(http.MethodGet, "/categories", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp category.CategoriesResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Categories).To(HaveLen(1))
		Expect(resp.Categories[0].CategoriesGroup.Name).To(Equal("Food"))
		Expect(resp.Categories[0].CategoriesType.Name).To(Equal("Expense"))

		rec = do(http.MethodDelete, "/categories_type/"+typeID, "")
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})

	It("should answer 404 for an unknown group", func() {
		rec := do(http.MethodPost, "/categories", `{"name":"Groceries","categories_group_id":"nope","categories_type_id":"nope"}`)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should import a categories file", func() {
		rec := upload("categories.csv", "categories,categories_group,categories_type\nGroceries,Food,Expense\nRestaurants,Food,Expense\n")
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var result category.ImportResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.Message).To(Equal("Categories imported successfully"))
		Expect(result.CategoriesCreated).To(Equal(2))
		Expect(result.GroupsProcessed).To(Equal(1))
		Expect(result.TypesProcessed).To(Equal(1))

		rec = do(http.MethodGet, "/categories_group", "")
		Expect(rec.Body.String()).To(ContainSubstring(`"Food"`))
	})

	It("should accept a re-import whose only new row is invalid", func() {
		data := "categories,categories_group,categories_type\nGroceries,Food,Expense\n,Food,Expense\n"
		Expect(upload("categories.csv", data).Code).To(Equal(http.StatusCreated))

		rec := upload("categories.csv", data)
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())

		var result category.ImportResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.CategoriesCreated).To(Equal(0))
		Expect(result.CategoriesSkipped).To(Equal(1))
		Expect(result.Errors).To(Equal(1))
	})

	It("should answer 400 when every row is invalid", func() {
		rec := upload("categories.csv", "categories,categories_group,categories_type\n,,Expense\n")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("No categories were imported"))
	})

	It("should reject uploads that are not csv", func() {
		rec := upload("categories.txt", "categories,categories_group,categories_type\n")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("Invalid file type"))
	})

	It("should reject a file without the required columns", func() {
		rec := upload("categories.csv", "name,group\nGroceries,Food\n")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("Invalid CSV header"))
	})
})
