package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/finance-tracker/internal/account"
	accountPostgres "github.com/frahmantamala/finance-tracker/internal/account/postgres"
	"github.com/frahmantamala/finance-tracker/internal/core/database"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestAccountPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Account Postgres Suite")
}

var _ = Describe("Account Repository", func() {
	var (
		db   *gorm.DB
		repo account.RepositoryAPI
		ctx  context.Context
		inst *institutionDatamodel.Institution
	)

	newAccount := func(userID, name, starting string) *accountDatamodel.Account {
		a := &accountDatamodel.Account{
			InstitutionID:   inst.ID,
			UserID:          userID,
			Name:            name,
			Status:          "active",
			StartingBalance: decimal.RequireFromString(starting),
			Balance:         decimal.RequireFromString(starting),
			AccountType:     "checking",
			AccountClass:    "asset",
		}
		Expect(repo.Create(ctx, a)).To(Succeed())
		return a
	}

	addTx := func(userID, accountID, amount string) {
		tx := &transactionDatamodel.Transaction{
			UserID:          userID,
			AccountID:       accountID,
			CategoriesID:    "cat",
			Amount:          decimal.RequireFromString(amount),
			TransactionType: "Deposit",
		}
		Expect(db.Omit("Account", "Categories").Create(tx).Error).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		sx, err := database.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		repo = accountPostgres.NewAccountRepository(db, sx)
		ctx = context.Background()

		inst = &institutionDatamodel.Institution{UserID: "u1", Name: "Chase"}
		Expect(db.Create(inst).Error).To(Succeed())
	})

	It("should preload the institution", func() {
		a := newAccount("u1", "Checking", "0")

		got, err := repo.GetByID(ctx, "u1", a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Institution).NotTo(BeNil())
		Expect(got.Institution.Name).To(Equal("Chase"))

		got, err = repo.GetByID(ctx, "u2", a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNil())
	})

	It("should sum amounts per account for one user", func() {
		a := newAccount("u1", "Checking", "100")
		b := newAccount("u1", "Savings", "0")
		other := newAccount("u2", "Other", "0")

		addTx("u1", a.ID, "25.10")
		addTx("u1", a.ID, "-5.05")
		addTx("u1", b.ID, "7")
		addTx("u2", other.ID, "1000")

		sums, err := repo.SumAmountsByAccount(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(sums).To(HaveLen(2))
		Expect(sums[a.ID].Round(2).String()).To(Equal("20.05"))
		Expect(sums[b.ID].Round(2).String()).To(Equal("7"))
	})

	It("should recompute balances end to end", func() {
		a := newAccount("u1", "Checking", "100")
		empty := newAccount("u1", "Empty", "12.34")
		addTx("u1", a.ID, "-40.5")
		addTx("u1", a.ID, "10")

		svc := account.NewService(repo, logger.Discard())
		_, err := svc.RecomputeBalances(ctx, "u1")
		Expect(err).NotTo(HaveOccurred())

		got, err := repo.GetByID(ctx, "u1", a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Balance.String()).To(Equal("69.5"))

		got, err = repo.GetByID(ctx, "u1", empty.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Balance.String()).To(Equal("12.34"))
	})

	It("should count transactions and list owners", func() {
		a := newAccount("u1", "Checking", "0")
		newAccount("u2", "Other", "0")
		addTx("u1", a.ID, "1")

		n, err := repo.CountTransactions(ctx, "u1", a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))

		ids, err := repo.UserIDsWithAccounts(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]string{"u1", "u2"}))
	})
})
