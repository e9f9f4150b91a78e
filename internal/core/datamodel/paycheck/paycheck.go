package paycheck

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/datamodel/base"
	"github.com/shopspring/decimal"
)

type Paycheck struct {
	base.Model
	UserID         string    `gorm:"column:user_id;type:varchar(36);index;not null"`
	EmployeeName   string    `gorm:"column:employee_name;not null;default:Self"`
	Employer       string    `gorm:"column:employer;not null"`
	PayPeriodStart time.Time `gorm:"column:pay_period_start;type:date;not null"`
	PayPeriodEnd   time.Time `gorm:"column:pay_period_end;type:date;not null"`
	PayDate        time.Time `gorm:"column:pay_date;type:date;index;not null"`

	GrossIncome decimal.Decimal `gorm:"column:gross_income;type:numeric(14,2);not null"`
	NetPay      decimal.Decimal `gorm:"column:net_pay;type:numeric(14,2);not null"`

	FederalTax        decimal.Decimal `gorm:"column:federal_tax;type:numeric(14,2);not null;default:0"`
	StateTax          decimal.Decimal `gorm:"column:state_tax;type:numeric(14,2);not null;default:0"`
	SocialSecurityTax decimal.Decimal `gorm:"column:social_security_tax;type:numeric(14,2);not null;default:0"`
	MedicareTax       decimal.Decimal `gorm:"column:medicare_tax;type:numeric(14,2);not null;default:0"`
	OtherTaxes        decimal.Decimal `gorm:"column:other_taxes;type:numeric(14,2);not null;default:0"`

	HealthInsurance        decimal.Decimal `gorm:"column:health_insurance;type:numeric(14,2);not null;default:0"`
	DentalInsurance        decimal.Decimal `gorm:"column:dental_insurance;type:numeric(14,2);not null;default:0"`
	VisionInsurance        decimal.Decimal `gorm:"column:vision_insurance;type:numeric(14,2);not null;default:0"`
	VoluntaryLifeInsurance decimal.Decimal `gorm:"column:voluntary_life_insurance;type:numeric(14,2);not null;default:0"`

	Retirement401k  decimal.Decimal `gorm:"column:retirement_401k;type:numeric(14,2);not null;default:0"`
	Retirement403b  decimal.Decimal `gorm:"column:retirement_403b;type:numeric(14,2);not null;default:0"`
	RetirementIRA   decimal.Decimal `gorm:"column:retirement_ira;type:numeric(14,2);not null;default:0"`
	OtherDeductions decimal.Decimal `gorm:"column:other_deductions;type:numeric(14,2);not null;default:0"`

	HoursWorked   decimal.NullDecimal `gorm:"column:hours_worked;type:numeric(8,2)"`
	HourlyRate    decimal.NullDecimal `gorm:"column:hourly_rate;type:numeric(10,2)"`
	OvertimeHours decimal.Decimal     `gorm:"column:overtime_hours;type:numeric(8,2);not null;default:0"`
	OvertimeRate  decimal.NullDecimal `gorm:"column:overtime_rate;type:numeric(10,2)"`
	Bonus         decimal.Decimal     `gorm:"column:bonus;type:numeric(14,2);not null;default:0"`
	Commission    decimal.Decimal     `gorm:"column:commission;type:numeric(14,2);not null;default:0"`
	Notes         string              `gorm:"column:notes"`
}

func (Paycheck) TableName() string {
	return "paycheck"
}
