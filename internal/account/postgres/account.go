package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/finance-tracker/internal/account"
	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
	sx *sqlx.DB
}

// NewAccountRepository takes the GORM handle for row access and an sqlx handle over the
// same pool for the aggregate query.
func NewAccountRepository(db *gorm.DB, sx *sqlx.DB) account.RepositoryAPI {
	return &AccountRepository{db: db, sx: sx}
}

func (r *AccountRepository) Create(ctx context.Context, a *accountDatamodel.Account) error {
	return r.db.WithContext(ctx).Omit("Institution").Create(a).Error
}

func (r *AccountRepository) GetByID(ctx context.Context, userID, id string) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).Preload("Institution").
		Where("id = ? AND user_id = ?", id, userID).
		First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) List(ctx context.Context, userID string) ([]*accountDatamodel.Account, error) {
	var items []*accountDatamodel.Account
	err := r.db.WithContext(ctx).Preload("Institution").
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *AccountRepository) Update(ctx context.Context, a *accountDatamodel.Account) error {
	return r.db.WithContext(ctx).Omit("Institution").Save(a).Error
}

func (r *AccountRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&accountDatamodel.Account{}).Error
}

func (r *AccountRepository) InstitutionExists(ctx context.Context, userID, institutionID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&institutionDatamodel.Institution{}).
		Where("id = ? AND user_id = ?", institutionID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *AccountRepository) CountTransactions(ctx context.Context, userID, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).
		Where("account_id = ? AND user_id = ?", id, userID).
		Count(&n).Error
	return n, err
}

type accountTotal struct {
	AccountID string          `db:"account_id"`
	Total     decimal.Decimal `db:"total"`
}

func (r *AccountRepository) SumAmountsByAccount(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	query := r.sx.Rebind(`
		SELECT account_id, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		WHERE user_id = ?
		GROUP BY account_id`)

	var rows []accountTotal
	if err := r.sx.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.AccountID] = row.Total
	}
	return out, nil
}

func (r *AccountRepository) UpdateBalances(ctx context.Context, balances map[string]decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, balance := range balances {
			err := tx.Model(&accountDatamodel.Account{}).
				Where("id = ?", id).
				Update("balance", balance).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AccountRepository) UserIDsWithAccounts(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&accountDatamodel.Account{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
