package paycheck

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	paycheckDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/shopspring/decimal"
)

type CreatePaycheckDTO struct {
	EmployeeName   string           `json:"employee_name"`
	Employer       string           `json:"employer"`
	PayPeriodStart string           `json:"pay_period_start"`
	PayPeriodEnd   string           `json:"pay_period_end"`
	PayDate        string           `json:"pay_date"`
	GrossIncome    *decimal.Decimal `json:"gross_income"`
	NetPay         *decimal.Decimal `json:"net_pay"`

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

	HoursWorked   *decimal.Decimal `json:"hours_worked"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate"`
	OvertimeHours decimal.Decimal  `json:"overtime_hours"`
	OvertimeRate  *decimal.Decimal `json:"overtime_rate"`
	Bonus         decimal.Decimal  `json:"bonus"`
	Commission    decimal.Decimal  `json:"commission"`
	Notes         string           `json:"notes"`
}

// amountFields pairs each optional money/hours field with its JSON name.
func (d *CreatePaycheckDTO) amountFields() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"federal_tax":              d.FederalTax,
		"state_tax":                d.StateTax,
		"social_security_tax":      d.SocialSecurityTax,
		"medicare_tax":             d.MedicareTax,
		"other_taxes":              d.OtherTaxes,
		"health_insurance":         d.HealthInsurance,
		"dental_insurance":         d.DentalInsurance,
		"vision_insurance":         d.VisionInsurance,
		"voluntary_life_insurance": d.VoluntaryLifeInsurance,
		"retirement_401k":          d.Retirement401k,
		"retirement_403b":          d.Retirement403b,
		"retirement_ira":           d.RetirementIRA,
		"other_deductions":         d.OtherDeductions,
		"overtime_hours":           d.OvertimeHours,
		"bonus":                    d.Bonus,
		"commission":               d.Commission,
	}
}

func (d *CreatePaycheckDTO) Validate() error {
	d.Employer = strings.TrimSpace(d.Employer)
	d.EmployeeName = strings.TrimSpace(d.EmployeeName)

	v := validation.NewValidator()
	v.Field("employer", d.Employer).Required().MaxLength(255)
	v.Field("employee_name", d.EmployeeName).MaxLength(100)
	v.Field("pay_period_start", d.PayPeriodStart).Required().Date()
	v.Field("pay_period_end", d.PayPeriodEnd).Required().Date()
	v.Field("pay_date", d.PayDate).Required().Date()
	v.Field("gross_income", d.GrossIncome).Required().NonNegative()
	v.Field("net_pay", d.NetPay).Required().NonNegative()
	v.Field("hours_worked", d.HoursWorked).NonNegative()
	v.Field("hourly_rate", d.HourlyRate).NonNegative()
	v.Field("overtime_rate", d.OvertimeRate).NonNegative()
	fields := d.amountFields()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		v.Field(name, fields[name]).NonNegative()
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ToDataModel assumes Validate passed.
func (d *CreatePaycheckDTO) ToDataModel(userID string) *paycheckDatamodel.Paycheck {
	start, _ := time.Parse(validation.DateLayout, d.PayPeriodStart)
	end, _ := time.Parse(validation.DateLayout, d.PayPeriodEnd)
	payDate, _ := time.Parse(validation.DateLayout, d.PayDate)

	name := d.EmployeeName
	if name == "" {
		name = DefaultEmployeeName
	}

	return &paycheckDatamodel.Paycheck{
		UserID:                 userID,
		EmployeeName:           name,
		Employer:               d.Employer,
		PayPeriodStart:         start,
		PayPeriodEnd:           end,
		PayDate:                payDate,
		GrossIncome:            d.GrossIncome.Round(2),
		NetPay:                 d.NetPay.Round(2),
		FederalTax:             d.FederalTax.Round(2),
		StateTax:               d.StateTax.Round(2),
		SocialSecurityTax:      d.SocialSecurityTax.Round(2),
		MedicareTax:            d.MedicareTax.Round(2),
		OtherTaxes:             d.OtherTaxes.Round(2),
		HealthInsurance:        d.HealthInsurance.Round(2),
		DentalInsurance:        d.DentalInsurance.Round(2),
		VisionInsurance:        d.VisionInsurance.Round(2),
		VoluntaryLifeInsurance: d.VoluntaryLifeInsurance.Round(2),
		Retirement401k:         d.Retirement401k.Round(2),
		Retirement403b:         d.Retirement403b.Round(2),
		RetirementIRA:          d.RetirementIRA.Round(2),
		OtherDeductions:        d.OtherDeductions.Round(2),
		HoursWorked:            nullDecimal(d.HoursWorked),
		HourlyRate:             nullDecimal(d.HourlyRate),
		OvertimeHours:          d.OvertimeHours.Round(2),
		OvertimeRate:           nullDecimal(d.OvertimeRate),
		Bonus:                  d.Bonus.Round(2),
		Commission:             d.Commission.Round(2),
		Notes:                  d.Notes,
	}
}

// NullableAmount is a partial-update field for nullable columns. Set is false when the
// key is absent; an explicit JSON null sets it with an invalid Value, which clears the
// column.
type NullableAmount struct {
	Set   bool
	Value decimal.NullDecimal
}

func (n *NullableAmount) UnmarshalJSON(b []byte) error {
	n.Set = true
	return n.Value.UnmarshalJSON(b)
}

// UpdatePaycheckDTO is a partial update; nil fields keep their stored value.
type UpdatePaycheckDTO struct {
	EmployeeName   *string `json:"employee_name"`
	Employer       *string `json:"employer"`
	PayPeriodStart *string `json:"pay_period_start"`
	PayPeriodEnd   *string `json:"pay_period_end"`
	PayDate        *string `json:"pay_date"`

	GrossIncome *decimal.Decimal `json:"gross_income"`
	NetPay      *decimal.Decimal `json:"net_pay"`

	FederalTax        *decimal.Decimal `json:"federal_tax"`
	StateTax          *decimal.Decimal `json:"state_tax"`
	SocialSecurityTax *decimal.Decimal `json:"social_security_tax"`
	MedicareTax       *decimal.Decimal `json:"medicare_tax"`
	OtherTaxes        *decimal.Decimal `json:"other_taxes"`

	HealthInsurance        *decimal.Decimal `json:"health_insurance"`
	DentalInsurance        *decimal.Decimal `json:"dental_insurance"`
	VisionInsurance        *decimal.Decimal `json:"vision_insurance"`
	VoluntaryLifeInsurance *decimal.Decimal `json:"voluntary_life_insurance"`

	Retirement401k  *decimal.Decimal `json:"retirement_401k"`
	Retirement403b  *decimal.Decimal `json:"retirement_403b"`
	RetirementIRA   *decimal.Decimal `json:"retirement_ira"`
	OtherDeductions *decimal.Decimal `json:"other_deductions"`

	HoursWorked   NullableAmount   `json:"hours_worked"`
	HourlyRate    NullableAmount   `json:"hourly_rate"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours"`
	OvertimeRate  NullableAmount   `json:"overtime_rate"`
	Bonus         *decimal.Decimal `json:"bonus"`
	Commission    *decimal.Decimal `json:"commission"`
	Notes         *string          `json:"notes"`
}

type amountRef struct {
	src *decimal.Decimal
	dst *decimal.Decimal
}

func (d *UpdatePaycheckDTO) amounts(dm *paycheckDatamodel.Paycheck) map[string]amountRef {
	return map[string]amountRef{
		"gross_income":             {d.GrossIncome, &dm.GrossIncome},
		"net_pay":                  {d.NetPay, &dm.NetPay},
		"federal_tax":              {d.FederalTax, &dm.FederalTax},
		"state_tax":                {d.StateTax, &dm.StateTax},
		"social_security_tax":      {d.SocialSecurityTax, &dm.SocialSecurityTax},
		"medicare_tax":             {d.MedicareTax, &dm.MedicareTax},
		"other_taxes":              {d.OtherTaxes, &dm.OtherTaxes},
		"health_insurance":         {d.HealthInsurance, &dm.HealthInsurance},
		"dental_insurance":         {d.DentalInsurance, &dm.DentalInsurance},
		"vision_insurance":         {d.VisionInsurance, &dm.VisionInsurance},
		"voluntary_life_insurance": {d.VoluntaryLifeInsurance, &dm.VoluntaryLifeInsurance},
		"retirement_401k":          {d.Retirement401k, &dm.Retirement401k},
		"retirement_403b":          {d.Retirement403b, &dm.Retirement403b},
		"retirement_ira":           {d.RetirementIRA, &dm.RetirementIRA},
		"other_deductions":         {d.OtherDeductions, &dm.OtherDeductions},
		"overtime_hours":           {d.OvertimeHours, &dm.OvertimeHours},
		"bonus":                    {d.Bonus, &dm.Bonus},
		"commission":               {d.Commission, &dm.Commission},
	}
}

func (d *UpdatePaycheckDTO) Validate() error {
	v := validation.NewValidator()
	if d.Employer != nil {
		v.Field("employer", *d.Employer).Required().MaxLength(255)
	}
	if d.EmployeeName != nil {
		v.Field("employee_name", *d.EmployeeName).MaxLength(100)
	}
	v.Field("pay_period_start", d.PayPeriodStart).Date()
	v.Field("pay_period_end", d.PayPeriodEnd).Date()
	v.Field("pay_date", d.PayDate).Date()
	v.Field("hours_worked", d.HoursWorked.Value).NonNegative()
	v.Field("hourly_rate", d.HourlyRate.Value).NonNegative()
	v.Field("overtime_rate", d.OvertimeRate.Value).NonNegative()

	fields := d.amounts(&paycheckDatamodel.Paycheck{})
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		v.Field(name, fields[name].src).NonNegative()
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Apply copies the set fields onto dm. Dates are assumed valid.
func (d *UpdatePaycheckDTO) Apply(dm *paycheckDatamodel.Paycheck) {
	if d.Employer != nil {
		dm.Employer = strings.TrimSpace(*d.Employer)
	}
	if d.EmployeeName != nil {
		dm.EmployeeName = strings.TrimSpace(*d.EmployeeName)
		if dm.EmployeeName == "" {
			dm.EmployeeName = DefaultEmployeeName
		}
	}
	setDate(&dm.PayPeriodStart, d.PayPeriodStart)
	setDate(&dm.PayPeriodEnd, d.PayPeriodEnd)
	setDate(&dm.PayDate, d.PayDate)

	for _, f := range d.amounts(dm) {
		if f.src != nil {
			*f.dst = f.src.Round(2)
		}
	}
	d.HoursWorked.apply(&dm.HoursWorked)
	d.HourlyRate.apply(&dm.HourlyRate)
	d.OvertimeRate.apply(&dm.OvertimeRate)
	if d.Notes != nil {
		dm.Notes = *d.Notes
	}
}

func (n NullableAmount) apply(dst *decimal.NullDecimal) {
	if !n.Set {
		return
	}
	if !n.Value.Valid {
		*dst = decimal.NullDecimal{}
		return
	}
	*dst = decimal.NewNullDecimal(n.Value.Decimal.Round(2))
}

func setDate(dst *time.Time, s *string) {
	if s == nil || *s == "" {
		return
	}
	if t, err := time.Parse(validation.DateLayout, *s); err == nil {
		*dst = t
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(2))
}

// ListFilter narrows the paycheck list. StartDate and EndDate bound pay_date inclusively.
type ListFilter struct {
	Employer     string
	EmployeeName string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         transport.Page
}

type ListResponse struct {
	Paychecks  []*Paycheck          `json:"paychecks"`
	Pagination transport.Pagination `json:"pagination"`
}
