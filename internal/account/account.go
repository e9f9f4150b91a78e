package account

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	accountDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/account"
	"github.com/frahmantamala/finance-tracker/internal/institution"
	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	TypeChecking   = "checking"
	TypeSavings    = "savings"
	TypeCredit     = "credit"
	TypeLoan       = "loan"
	TypeInvestment = "investment"
	TypeOther      = "other"

	ClassAsset     = "asset"
	ClassLiability = "liability"
)

var (
	Statuses = []string{StatusActive, StatusInactive}
	Types    = []string{TypeChecking, TypeSavings, TypeCredit, TypeLoan, TypeInvestment, TypeOther}
	Classes  = []string{ClassAsset, ClassLiability}
)

type Account struct {
	ID              string                   `json:"id"`
	InstitutionID   string                   `json:"institution_id"`
	UserID          string                   `json:"user_id"`
	Name            string                   `json:"name"`
	Number          string                   `json:"number"`
	Status          string                   `json:"status"`
	Balance         decimal.Decimal          `json:"balance"`
	StartingBalance decimal.Decimal          `json:"starting_balance"`
	AccountType     string                   `json:"account_type"`
	AccountClass    string                   `json:"account_class"`
	Institution     *institution.Institution `json:"institution,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

func (a *Account) IsLiability() bool {
	return a.AccountClass == ClassLiability
}

var (
	ErrAccountNotFound     = internal.NewNotFoundError("Account not found", internal.ErrCodeAccountNotFound)
	ErrInstitutionNotFound = internal.NewNotFoundError("Institution not found", internal.ErrCodeInstitutionNotFound)
	ErrAccountInUse        = internal.NewConflictError("Account still has transactions", internal.ErrCodeResourceInUse)
)

func ToDataModel(a *Account) *accountDatamodel.Account {
	dm := &accountDatamodel.Account{
		InstitutionID:   a.InstitutionID,
		UserID:          a.UserID,
		Name:            a.Name,
		Number:          a.Number,
		Status:          a.Status,
		Balance:         a.Balance,
		StartingBalance: a.StartingBalance,
		AccountType:     a.AccountType,
		AccountClass:    a.AccountClass,
	}
	dm.ID = a.ID
	dm.CreatedAt = a.CreatedAt
	dm.UpdatedAt = a.UpdatedAt
	return dm
}

func FromDataModel(dm *accountDatamodel.Account) *Account {
	if dm == nil {
		return nil
	}
	return &Account{
		ID:              dm.ID,
		InstitutionID:   dm.InstitutionID,
		UserID:          dm.UserID,
		Name:            dm.Name,
		Number:          dm.Number,
		Status:          dm.Status,
		Balance:         dm.Balance,
		StartingBalance: dm.StartingBalance,
		AccountType:     dm.AccountType,
		AccountClass:    dm.AccountClass,
		Institution:     institution.FromDataModel(dm.Institution),
		CreatedAt:       dm.CreatedAt,
		UpdatedAt:       dm.UpdatedAt,
	}
}
