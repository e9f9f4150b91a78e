package account

import (
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/base"
	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/institution"
	"github.com/shopspring/decimal"
)

type Account struct {
	base.Model
	InstitutionID   string          `gorm:"column:institution_id;type:varchar(36);index;not null"`
	UserID          string          `gorm:"column:user_id;type:varchar(36);index;not null"`
	Name            string          `gorm:"column:name;not null"`
	Number          string          `gorm:"column:number"`
	Status          string          `gorm:"column:status;not null;default:active"`
	Balance         decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null;default:0"`
	StartingBalance decimal.Decimal `gorm:"column:starting_balance;type:numeric(14,2);not null;default:0"`
	AccountType     string          `gorm:"column:account_type;not null"`
	AccountClass    string          `gorm:"column:account_class;not null"`

	Institution *institution.Institution `gorm:"foreignKey:InstitutionID"`
}

func (Account) TableName() string {
	return "account"
}
