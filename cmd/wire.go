package cmd

import (
	"github.com/frahmantamala/finance-tracker/internal/account"
	accountPostgres "github.com/frahmantamala/finance-tracker/internal/account/postgres"
	"github.com/frahmantamala/finance-tracker/internal/auth"
	"github.com/frahmantamala/finance-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-tracker/internal/category/postgres"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	institutionPostgres "github.com/frahmantamala/finance-tracker/internal/institution/postgres"
	"github.com/frahmantamala/finance-tracker/internal/paycheck"
	paycheckPostgres "github.com/frahmantamala/finance-tracker/internal/paycheck/postgres"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	transactionPostgres "github.com/frahmantamala/finance-tracker/internal/transaction/postgres"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
)

type services struct {
	auth        *auth.Service
	user        *user.Service
	institution *institution.Service
	account     *account.Service
	category    *category.Service
	transaction *transaction.Service
	paycheck    *paycheck.Service
}

func (a *app) services() *services {
	gdb := a.db.Gorm
	sec := a.cfg.Security

	userRepo := userPostgres.NewUserRepository(gdb)
	tokens := auth.NewJWTTokenGenerator(
		sec.AccessTokenSecret,
		sec.RefreshTokenSecret,
		sec.AccessTokenDuration,
		sec.RefreshTokenDuration,
	)

	return &services{
		auth:        auth.NewService(userRepo, tokens, a.logger),
		user:        user.NewService(userRepo, a.bus, sec.BCryptCost, a.logger),
		institution: institution.NewService(institutionPostgres.NewInstitutionRepository(gdb), a.logger),
		account:     account.NewService(accountPostgres.NewAccountRepository(gdb, a.db.SQLX), a.logger),
		category:    category.NewService(categoryPostgres.NewCategoryRepository(gdb), a.bus, a.logger),
		transaction: transaction.NewService(transactionPostgres.NewTransactionRepository(gdb), a.bus, a.logger),
		paycheck:    paycheck.NewService(paycheckPostgres.NewPaycheckRepository(gdb), a.logger),
	}
}

// balancePool starts a worker pool fed by the event bus.
func (a *app) balancePool(svc *account.Service) *account.BalanceWorkerPool {
	pool := account.NewBalanceWorkerPool(svc, account.PoolConfig{
		MaxWorkers:   a.cfg.Worker.BalanceWorkers,
		JobQueueSize: a.cfg.Worker.BalanceQueueSize,
	}, a.logger)
	pool.RegisterEventHandlers(a.bus)
	pool.Start()
	return pool
}
