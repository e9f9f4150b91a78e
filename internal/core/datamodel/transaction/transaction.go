package transaction

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/base"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	base.Model
	UserID            string          `gorm:"column:user_id;type:varchar(36);not null;index;uniqueIndex:idx_transactions_user_external"`
	CategoriesID      string          `gorm:"column:categories_id;type:varchar(36);index;not null"`
	AccountID         string          `gorm:"column:account_id;type:varchar(36);index;not null"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	TransactionType   string          `gorm:"column:transaction_type;not null"`
	ExternalID        *string         `gorm:"column:external_id;uniqueIndex:idx_transactions_user_external"`
	ExternalDate      *time.Time      `gorm:"column:external_date;type:date"`
	Description       string          `gorm:"column:description"`
	Merchant          string          `gorm:"column:merchant"`
	OriginalStatement string          `gorm:"column:original_statement"`
	Notes             string          `gorm:"column:notes"`
	Tags              string          `gorm:"column:tags"`

	Account    *account.Account   `gorm:"foreignKey:AccountID"`
	Categories *category.Category `gorm:"foreignKey:CategoriesID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
