package paycheck

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	paycheckDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/shopspring/decimal"
)

const DefaultEmployeeName = "Self"

// Paycheck is the API view of a stored paycheck with its derived metrics inlined.
type Paycheck struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	EmployeeName   string `json:"employee_name"`
	Employer       string `json:"employer"`
	PayPeriodStart string `json:"pay_period_start"`
	PayPeriodEnd   string `json:"pay_period_end"`
	PayDate        string `json:"pay_date"`

	GrossIncome decimal.Decimal `json:"gross_income"`
	NetPay      decimal.Decimal `json:"net_pay"`

	FederalTax        decimal.Decimal `json:"federal_tax"`
	StateTax          decimal.Decimal `json:"state_tax"`
	SocialSecurityTax decimal.Decimal `json:"social_security_tax"`
	MedicareTax       decimal.Decimal `json:"medicare_tax"`
	OtherTaxes        decimal.Decimal `json:"other_taxes"`

	HealthInsurance        decimal.Decimal `json:"health_insurance"`
	DentalInsurance        decimal.Decimal `json:"dental_insurance"`
	VisionInsurance        decimal.Decimal `json:"vision_insurance"`
	VoluntaryLifeInsurance decimal.Decimal `json:"voluntary_life_insurance"`

	Retirement401k  decimal.Decimal `json:"retirement_401k"`
	Retirement403b  decimal.Decimal `json:"retirement_403b"`
	RetirementIRA   decimal.Decimal `json:"retirement_ira"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`

	HoursWorked   decimal.NullDecimal `json:"hours_worked"`
	HourlyRate    decimal.NullDecimal `json:"hourly_rate"`
	OvertimeHours decimal.Decimal     `json:"overtime_hours"`
	OvertimeRate  decimal.NullDecimal `json:"overtime_rate"`
	Bonus         decimal.Decimal     `json:"bonus"`
	Commission    decimal.Decimal     `json:"commission"`
	Notes         string              `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Metrics
}

var (
	ErrPaycheckNotFound    = internal.NewNotFoundError("Paycheck not found", internal.ErrCodePaycheckNotFound)
	ErrNoPaychecks         = internal.NewNotFoundError("No paychecks found for the specified criteria", internal.ErrCodePaycheckNotFound)
	ErrNoPaychecksForUser  = internal.NewNotFoundError("No paychecks found for this user", internal.ErrCodePaycheckNotFound)
	ErrInvalidPayPeriod    = internal.NewValidationError("Pay period start date must be before end date", internal.ErrCodeInvalidDateRange)
	ErrComparePeriodsEmpty = internal.NewValidationError("All period dates are required: period1_start, period1_end, period2_start, period2_end", internal.ErrCodeValidationFailed)
	ErrCompareDateFormat   = internal.NewValidationError("Date fields must be in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
)

func FromDataModel(dm *paycheckDatamodel.Paycheck) *Paycheck {
	if dm == nil {
		return nil
	}
	return &Paycheck{
		ID:                     dm.ID,
		UserID:                 dm.UserID,
		EmployeeName:           dm.EmployeeName,
		Employer:               dm.Employer,
		PayPeriodStart:         dm.PayPeriodStart.Format(validation.DateLayout),
		PayPeriodEnd:           dm.PayPeriodEnd.Format(validation.DateLayout),
		PayDate:                dm.PayDate.Format(validation.DateLayout),
		GrossIncome:            dm.GrossIncome,
		NetPay:                 dm.NetPay,
		FederalTax:             dm.FederalTax,
		StateTax:               dm.StateTax,
		SocialSecurityTax:      dm.SocialSecurityTax,
		MedicareTax:            dm.MedicareTax,
		OtherTaxes:             dm.OtherTaxes,
		HealthInsurance:        dm.HealthInsurance,
		DentalInsurance:        dm.DentalInsurance,
		VisionInsurance:        dm.VisionInsurance,
		VoluntaryLifeInsurance: dm.VoluntaryLifeInsurance,
		Retirement401k:         dm.Retirement401k,
		Retirement403b:         dm.Retirement403b,
		RetirementIRA:          dm.RetirementIRA,
		OtherDeductions:        dm.OtherDeductions,
		HoursWorked:            dm.HoursWorked,
		HourlyRate:             dm.HourlyRate,
		OvertimeHours:          dm.OvertimeHours,
		OvertimeRate:           dm.OvertimeRate,
		Bonus:                  dm.Bonus,
		Commission:             dm.Commission,
		Notes:                  dm.Notes,
		CreatedAt:              dm.CreatedAt,
		UpdatedAt:              dm.UpdatedAt,
		Metrics:                Calculate(dm),
	}
}
