package transaction

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/account"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
)

const (
	TypeDeposit    = "Deposit"
	TypeWithdrawal = "Withdrawal"
)

// TypeFor derives the transaction type from the sign of the amount.
func TypeFor(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return TypeWithdrawal
	}
	return TypeDeposit
}

type Transaction struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	CategoriesID      string             `json:"categories_id"`
	AccountID         string             `json:"account_id"`
	Amount            decimal.Decimal    `json:"amount"`
	TransactionType   string             `json:"transaction_type"`
	ExternalID        *string            `json:"external_id"`
	ExternalDate      *string            `json:"external_date"`
	Description       string             `json:"description"`
	Merchant          string             `json:"merchant"`
	OriginalStatement string             `json:"original_statement"`
	Notes             string             `json:"notes"`
	Tags              string             `json:"tags"`
	Account           *account.Account   `json:"account,omitempty"`
	Categories        *category.Category `json:"categories,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

var (
	ErrTransactionNotFound = internal.NewNotFoundError("Transaction not found", internal.ErrCodeTransactionNotFound)
	ErrAccountNotFound     = internal.NewNotFoundError("Account not found", internal.ErrCodeAccountNotFound)
	ErrCategoryNotFound    = internal.NewNotFoundError("Category not found", internal.ErrCodeCategoryNotFound)
	ErrDuplicateExternalID = internal.NewValidationError("Transaction ID already exists", internal.ErrCodeDuplicateExternalID)
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validation.DateLayout)
	return &s
}

func FromDataModel(dm *transactionDatamodel.Transaction) *Transaction {
	if dm == nil {
		return nil
	}
	return &Transaction{
		ID:                dm.ID,
		UserID:            dm.UserID,
		CategoriesID:      dm.CategoriesID,
		AccountID:         dm.AccountID,
		Amount:            dm.Amount,
		TransactionType:   dm.TransactionType,
		ExternalID:        dm.ExternalID,
		ExternalDate:      formatDate(dm.ExternalDate),
		Description:       dm.Description,
		Merchant:          dm.Merchant,
		OriginalStatement: dm.OriginalStatement,
		Notes:             dm.Notes,
		Tags:              dm.Tags,
		Account:           account.FromDataModel(dm.Account),
		Categories:        category.FromDataModel(dm.Categories),
		CreatedAt:         dm.CreatedAt,
		UpdatedAt:         dm.UpdatedAt,
	}
}
