package cmd

import (
	"context"
	"testing"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/database"
	"github.com/frahmantamala/finance-tracker/internal/core/database/dbtest"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("seed", func() {
	var (
		a   *app
		svc *services
		ctx context.Context
	)

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		sx, err := database.SQLX(db)
		Expect(err).NotTo(HaveOccurred())

		log := logger.Discard()
		a = &app{
			cfg: &internal.Config{
				Security: internal.SecurityConfig{
					AccessTokenSecret:  "seed-access-secret-0123456789abcdef",
					RefreshTokenSecret: "seed-refresh-secret-0123456789abcde",
					BCryptCost:         10,
				},
			},
			db:     &database.Handles{Gorm: db, SQLX: sx},
			logger: log,
			bus:    events.NewEventBus(log),
		}
		svc = a.services()
		ctx = context.Background()
		clearData = false
	})

	It("should be safe to run twice", func() {
		Expect(runSeed(ctx, a, svc)).To(Succeed())
		Expect(runSeed(ctx, a, svc)).To(Succeed())

		u, err := svc.user.GetByEmail(ctx, seedEmail)
		Expect(err).NotTo(HaveOccurred())

		_, txTotal, err := svc.transaction.List(ctx, u.ID, transaction.ListFilter{Page: transport.Page{Page: 1, PerPage: 100}})
		Expect(err).NotTo(HaveOccurred())
		Expect(txTotal).To(BeNumerically("==", 8))

		checks, pcTotal, err := svc.paycheck.List(ctx, u.ID, paycheck.ListFilter{Page: transport.Page{Page: 1, PerPage: 100}})
		Expect(err).NotTo(HaveOccurred())
		Expect(pcTotal).To(BeNumerically("==", 3))
		for _, p := range checks {
			Expect(p.NetPayMatches).To(BeTrue(), p.PayDate)
		}

		accounts, err := svc.account.List(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(accounts).To(HaveLen(2))
		for _, acc := range accounts {
			switch acc.Name {
			case "Checking":
				Expect(acc.Balance.StringFixed(2)).To(Equal("536.98"))
			case "Savings":
				Expect(acc.Balance.StringFixed(2)).To(Equal("501.27"))
			}
		}
	})

	It("should rebuild the data with --clear", func() {
		Expect(runSeed(ctx, a, svc)).To(Succeed())
		clearData = true
		Expect(runSeed(ctx, a, svc)).To(Succeed())

		u, err := svc.user.GetByEmail(ctx, seedEmail)
		Expect(err).NotTo(HaveOccurred())
		_, total, err := svc.paycheck.List(ctx, u.ID, paycheck.ListFilter{Page: transport.Page{Page: 1, PerPage: 100}})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeNumerically("==", 3))
	})
})
