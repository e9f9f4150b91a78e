package account

import (
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateAccountDTO struct {
	InstitutionID   string           `json:"institution_id"`
	Name            string           `json:"name"`
	Number          string           `json:"number"`
	Status          string           `json:"status"`
	StartingBalance *decimal.Decimal `json:"starting_balance"`
	AccountType     string           `json:"account_type"`
	AccountClass    string           `json:"account_class"`
}

func (d *CreateAccountDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Status == "" {
		d.Status = StatusActive
	}

	v := validation.NewValidator()
	v.Field("institution_id", d.InstitutionID).Required()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("status", d.Status).OneOf(Statuses...)
	v.Field("account_type", d.AccountType).Required().OneOf(Types...)
	v.Field("account_class", d.AccountClass).Required().OneOf(Classes...)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateAccountDTO struct {
	InstitutionID   *string          `json:"institution_id"`
	Name            *string          `json:"name"`
	Number          *string          `json:"number"`
	Status          *string          `json:"status"`
	StartingBalance *decimal.Decimal `json:"starting_balance"`
	AccountType     *string          `json:"account_type"`
	AccountClass    *string          `json:"account_class"`
}

func (d *UpdateAccountDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", trimmed).Required().MaxLength(255)
	}
	if d.InstitutionID != nil {
		v.Field("institution_id", *d.InstitutionID).Required()
	}
	v.Field("status", d.Status).OneOf(Statuses...)
	v.Field("account_type", d.AccountType).OneOf(Types...)
	v.Field("account_class", d.AccountClass).OneOf(Classes...)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type AccountsResponse struct {
	Accounts []*Account `json:"accounts"`
}

// BalanceUpdate reports one account touched by a recompute.
type BalanceUpdate struct {
	AccountID       string          `json:"account_id"`
	Name            string          `json:"name"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	Balance         decimal.Decimal `json:"balance"`
}

func (b BalanceUpdate) Changed() bool {
	return !b.PreviousBalance.Equal(b.Balance)
}

type RecomputeResponse struct {
	Message         string          `json:"message"`
	AccountsUpdated int             `json:"accounts_updated"`
	Accounts        []BalanceUpdate `json:"accounts"`
}
