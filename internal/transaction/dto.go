package transaction

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/shopspring/decimal"
)

type CreateTransactionDTO struct {
	AccountID         string           `json:"account_id"`
	CategoriesID      string           `json:"categories_id"`
	Amount            *decimal.Decimal `json:"amount"`
	ExternalID        string           `json:"external_id"`
	ExternalDate      string           `json:"external_date"`
	Description       string           `json:"description"`
	Merchant          string           `json:"merchant"`
	OriginalStatement string           `json:"original_statement"`
	Notes             string           `json:"notes"`
	Tags              string           `json:"tags"`
}

func (d *CreateTransactionDTO) Validate() error {
	d.ExternalID = strings.TrimSpace(d.ExternalID)
	d.ExternalDate = strings.TrimSpace(d.ExternalDate)

	v := validation.NewValidator()
	v.Field("account_id", d.AccountID).Required()
	v.Field("categories_id", d.CategoriesID).Required()
	v.Field("amount", d.Amount).Required()
	v.Field("external_date", d.ExternalDate).Date()
	v.Field("description", d.Description).MaxLength(1000)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateTransactionDTO is a partial update. transaction_type is never accepted; it
// follows the amount.
type UpdateTransactionDTO struct {
	AccountID         *string          `json:"account_id"`
	CategoriesID      *string          `json:"categories_id"`
	Amount            *decimal.Decimal `json:"amount"`
	ExternalID        *string          `json:"external_id"`
	ExternalDate      *string          `json:"external_date"`
	Description       *string          `json:"description"`
	Merchant          *string          `json:"merchant"`
	OriginalStatement *string          `json:"original_statement"`
	Notes             *string          `json:"notes"`
	Tags              *string          `json:"tags"`
}

func (d *UpdateTransactionDTO) Validate() error {
	v := validation.NewValidator()
	if d.AccountID != nil {
		v.Field("account_id", *d.AccountID).Required()
	}
	if d.CategoriesID != nil {
		v.Field("categories_id", *d.CategoriesID).Required()
	}
	v.Field("external_date", d.ExternalDate).Date()
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(1000)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ListFilter narrows the transaction list. Empty fields are ignored.
type ListFilter struct {
	AccountID    string
	CategoriesID string
	Page         transport.Page
}

type ListResponse struct {
	Transactions []*Transaction       `json:"transactions"`
	Pagination   transport.Pagination `json:"pagination"`
}

type ImportResult struct {
	Message             string         `json:"message"`
	TransactionsCreated int            `json:"transactions_created"`
	TransactionsSkipped int            `json:"transactions_skipped"`
	Errors              int            `json:"errors"`
	ErrorDetails        []string       `json:"error_details"`
	ErrorSummary        map[string]int `json:"error_summary"`
}

// Failed reports an import where every row was an error: nothing was created and
// nothing was recognised as already stored.
func (r *ImportResult) Failed() bool {
	return r.TransactionsCreated == 0 && r.TransactionsSkipped == 0 && r.Errors > 0
}
