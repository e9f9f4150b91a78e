package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var clearData bool

const (
	seedEmail    = "demo@finance-tracker.local"
	seedUsername = "demo"
	seedPassword = "password123"
)

const seedCategoriesCSV = `categories,categories_group,categories_type
Paycheck,Income,Income
Interest,Income,Income
Groceries,Food,Expense
Restaurants,Food,Expense
Rent,Housing,Expense
Utilities,Housing,Expense
Transfer,Transfers,Transfer
`

const seedTransactionsCSV = `Transaction ID,Category,Institution,Account,Date,Amount,Description
seed-0001,Paycheck,First Bank,Checking,01/15/2024,"$2,450.00",January paycheck
seed-0002,Rent,First Bank,Checking,01/01/2024,"-1,200.00",Rent
seed-0003,Groceries,First Bank,Checking,01/06/2024,-84.12,Market
seed-0004,Restaurants,First Bank,Checking,01/09/2024,-32.50,Lunch
seed-0005,Utilities,First Bank,Checking,01/20/2024,-96.40,Power bill
seed-0006,Transfer,First Bank,Checking,01/25/2024,-500.00,To savings
seed-0007,Transfer,First Bank,Savings,01/25/2024,500.00,From checking
seed-0008,Interest,First Bank,Savings,01/31/2024,1.27,Interest
`

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user, categories, accounts, transactions and paychecks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.Close()

		return runSeed(cmd.Context(), a, a.services())
	},
}

func runSeed(ctx context.Context, a *app, svc *services) error {
	if ctx == nil {
		ctx = context.Background()
	}

	u, err := svc.user.GetByEmail(ctx, seedEmail)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		u, err = svc.user.Signup(ctx, user.SignupDTO{
			Email:     seedEmail,
			Username:  seedUsername,
			Password:  seedPassword,
			FirstName: "Demo",
			LastName:  "User",
		})
		if err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		fmt.Println("Seeded demo user:", seedEmail)
	case err != nil:
		return err
	default:
		fmt.Println("demo user already exists:", seedEmail)
	}

	if clearData {
		if err := clearUserData(ctx, a.db.Gorm, u.ID); err != nil {
			return err
		}
		fmt.Println("Cleared existing data for", seedEmail)
	}

	limit := a.cfg.Import.WithDefaults().MaxErrorDetails

	cats, err := svc.category.ImportCSV(ctx, u.ID, strings.NewReader(seedCategoriesCSV), limit)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	fmt.Printf("Categories: %d created, %d skipped\n", cats.CategoriesCreated, cats.CategoriesSkipped)

	txs, err := svc.transaction.ImportCSV(ctx, u.ID, strings.NewReader(seedTransactionsCSV), limit)
	if err != nil {
		return fmt.Errorf("failed to seed transactions: %w", err)
	}
	fmt.Printf("Transactions: %d created, %d skipped\n", txs.TransactionsCreated, txs.TransactionsSkipped)

	if _, err := svc.account.RecomputeBalances(ctx, u.ID); err != nil {
		return fmt.Errorf("failed to recompute balances: %w", err)
	}

	_, total, err := svc.paycheck.List(ctx, u.ID, paycheck.ListFilter{Page: transport.Page{Page: 1, PerPage: 1}})
	if err != nil {
		return err
	}
	if total > 0 {
		fmt.Println("paychecks already seeded")
		return nil
	}

	for _, p := range seedPaychecks() {
		if _, err := svc.paycheck.Create(ctx, u.ID, p); err != nil {
			return fmt.Errorf("failed to seed paycheck %s: %w", p.PayDate, err)
		}
	}
	fmt.Println("Seeded paychecks for", seedEmail)
	return nil
}

func seedPaychecks() []paycheck.CreatePaycheckDTO {
	amount := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	ptr := func(s string) *decimal.Decimal {
		d := amount(s)
		return &d
	}

	months := []struct {
		start, end, pay string
		gross, net      string
	}{
		{"2024-01-01", "2024-01-31", "2024-01-31", "4000.00", "3054.00"},
		{"2024-02-01", "2024-02-29", "2024-02-29", "4000.00", "3054.00"},
		{"2024-03-01", "2024-03-31", "2024-03-29", "4400.00", "3359.40"},
	}

	out := make([]paycheck.CreatePaycheckDTO, 0, len(months))
	for _, m := range months {
		gross := amount(m.gross)
		out = append(out, paycheck.CreatePaycheckDTO{
			Employer:          "Acme Corp",
			PayPeriodStart:    m.start,
			PayPeriodEnd:      m.end,
			PayDate:           m.pay,
			GrossIncome:       ptr(m.gross),
			NetPay:            ptr(m.net),
			FederalTax:        gross.Mul(amount("0.12")).Round(2),
			StateTax:          gross.Mul(amount("0.04")).Round(2),
			SocialSecurityTax: gross.Mul(amount("0.062")).Round(2),
			MedicareTax:       gross.Mul(amount("0.0145")).Round(2),
			Retirement401k:    gross.Mul(amount("0.05")).Round(2),
			HoursWorked:       ptr("160"),
		})
	}
	return out
}

// clearUserData removes everything the user owns except the user row.
func clearUserData(ctx context.Context, db *gorm.DB, userID string) error {
	tables := []string{"transactions", "paycheck", "categories", "categories_group", "categories_type", "account", "institution"}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Exec("DELETE FROM "+t+" WHERE user_id = ?", userID).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", t, err)
			}
		}
		return nil
	})
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
