package transaction_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-tracker/internal/transaction/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Transaction Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	const header = "Transaction ID,Category,Institution,Account,Date,Amount,Description\n"

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		service := transaction.NewService(transactionPostgres.NewTransactionRepository(db), nil, logger.Discard())
		handler := transaction.NewHandler(transport.NewBaseHandler(logger.Discard()), service, internal.ImportConfig{})

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithUserID(r.Context(), "u1")))
			})
		})
		router.Get("/transaction", handler.ListTransactions)
		router.Post("/transaction", handler.CreateTransaction)
		router.Get("/transaction/{id}", handler.GetTransaction)
		router.Put("/transaction/{id}", handler.UpdateTransaction)
		router.Delete("/transaction/{id}", handler.DeleteTransaction)
		router.Post("/transaction/csv_import", handler.ImportCSV)

		typ := &categoryDatamodel.CategoryType{UserID: "u1", Name: "Expense"}
		Expect(db.Create(typ).Error).To(Succeed())
		group := &categoryDatamodel.CategoryGroup{UserID: "u1", Name: "Food"}
		Expect(db.Create(group).Error).To(Succeed())
		cat := &categoryDatamodel.Category{UserID: "u1", Name: "Groceries", CategoriesGroupID: group.ID, CategoriesTypeID: typ.ID}
		Expect(db.Omit("CategoriesGroup", "CategoriesType").Create(cat).Error).To(Succeed())
	})

	upload := func(filename, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = fw.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
		Expect(mw.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/transaction/csv_import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	It("should import rows and create the institution and account", func() {
		rec := upload("export.csv", header+
			"CSV-001,Groceries,New Bank,Checking,01/15/2024,$50.00,Walmart\n"+
			"NEG-001,Groceries,New Bank,Checking,01/16/2024,$-50.00,Return\n")
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var result transaction.ImportResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.Message).To(Equal("Transactions imported successfully"))
		Expect(result.TransactionsCreated).To(Equal(2))

		var inst institutionDatamodel.Institution
		Expect(db.Where("name = ?", "New Bank").First(&inst).Error).To(Succeed())
		Expect(inst.UserID).To(Equal("u1"))

		rec = get("/transaction")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list transaction.ListResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Pagination.Total).To(Equal(int64(2)))
		Expect(list.Transactions).To(HaveLen(2))

		newest := list.Transactions[0]
		Expect(*newest.ExternalID).To(Equal("NEG-001"))
		Expect(newest.TransactionType).To(Equal(transaction.TypeWithdrawal))
		Expect(newest.Account).NotTo(BeNil())
		Expect(newest.Account.Name).To(Equal("Checking"))
		Expect(newest.Account.AccountType).To(Equal("checking"))
		Expect(newest.Categories.Name).To(Equal("Groceries"))
	})

	It("should skip duplicates on a second import", func() {
		data := header + "CSV-001,Groceries,Test Bank,Checking,01/15/2024,$50.00,Walmart\n"
		Expect(upload("export.csv", data).Code).To(Equal(http.StatusCreated))

		rec := upload("export.csv", data)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var result transaction.ImportResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.TransactionsCreated).To(Equal(0))
		Expect(result.TransactionsSkipped).To(Equal(1))
	})

	It("should answer 400 when every row fails", func() {
		rec := upload("export.csv", header+"CSV-001,Nope,Test Bank,Checking,01/15/2024,$50.00,Walmart\n")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring(`"missing_category":1`))

		var n int64
		Expect(db.Model(&institutionDatamodel.Institution{}).Count(&n).Error).To(Succeed())
		Expect(n).To(BeZero())
	})

	It("should reject bad uploads", func() {
		rec := upload("export.xls", header)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("Invalid file type"))

		req := httptest.NewRequest(http.MethodPost, "/transaction/csv_import", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("No file"))
	})

	It("should paginate the list", func() {
		data := header +
			"A,Groceries,Test Bank,Checking,01/01/2024,1,x\n" +
			"B,Groceries,Test Bank,Checking,01/02/2024,1,x\n" +
			"C,Groceries,Test Bank,Checking,01/03/2024,1,x\n"
		Expect(upload("export.csv", data).Code).To(Equal(http.StatusCreated))

		rec := get("/transaction?page=2&per_page=2")
		var list transaction.ListResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Pagination.Pages).To(Equal(2))
		Expect(list.Pagination.CurrentPage).To(Equal(2))
		Expect(list.Transactions).To(HaveLen(1))
		Expect(*list.Transactions[0].ExternalID).To(Equal("A"))
	})
})
