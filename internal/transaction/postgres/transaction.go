package postgres

import (
	"context"
	"errors"

	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	institutionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-tracker/internal/transaction"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.RepositoryAPI {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) RunInTx(ctx context.Context, fn func(repo transaction.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TransactionRepository{db: tx})
	})
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Omit("Account", "Categories").Create(t).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID, id string) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	err := r.db.WithContext(ctx).
		Preload("Account").
		Preload("Categories").
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) List(ctx context.Context, userID string, filter transaction.ListFilter) ([]*transactionDatamodel.Transaction, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if filter.AccountID != "" {
			db = db.Where("account_id = ?", filter.AccountID)
		}
		if filter.CategoriesID != "" {
			db = db.Where("categories_id = ?", filter.CategoriesID)
		}
		return db
	}

	var total int64
	err := r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).Scopes(scope).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var items []*transactionDatamodel.Transaction
	err = r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Account").
		Preload("Categories").
		Order("external_date DESC NULLS LAST").
		Order("created_at DESC").
		Limit(filter.Page.PerPage).
		Offset(filter.Page.Offset()).
		Find(&items).Error
	return items, total, err
}

func (r *TransactionRepository) Update(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Omit("Account", "Categories").Save(t).Error
}

func (r *TransactionRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&transactionDatamodel.Transaction{}).Error
}

func (r *TransactionRepository) ExternalIDExists(ctx context.Context, userID, externalID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).
		Where("user_id = ? AND external_id = ?", userID, externalID).
		Count(&n).Error
	return n > 0, err
}

func (r *TransactionRepository) GetAccount(ctx context.Context, userID, id string) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (r *TransactionRepository) GetCategory(ctx context.Context, userID, id string) (*categoryDatamodel.Category, error) {
	var c categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *TransactionRepository) GetCategoryByName(ctx context.Context, userID, name string) (*categoryDatamodel.Category, error) {
	var c categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *TransactionRepository) GetOrCreateInstitution(ctx context.Context, userID, name string) (*institutionDatamodel.Institution, error) {
	var inst institutionDatamodel.Institution
	err := r.db.WithContext(ctx).
		Where(institutionDatamodel.Institution{UserID: userID, Name: name}).
		FirstOrCreate(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// GetOrCreateAccount creates missing accounts as active checking assets with a zero
// starting balance.
func (r *TransactionRepository) GetOrCreateAccount(ctx context.Context, userID, institutionID, name string) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).
		Where(accountDatamodel.Account{UserID: userID, InstitutionID: institutionID, Name: name}).
		Attrs(accountDatamodel.Account{
			Status:          "active",
			AccountType:     "checking",
			AccountClass:    "asset",
			Balance:         decimal.Zero,
			StartingBalance: decimal.Zero,
		}).
		FirstOrCreate(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
