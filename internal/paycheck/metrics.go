package paycheck

import (
	paycheckDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
)

// Metrics are derived from the stored amounts and never persisted.
type Metrics struct {
	TotalTaxes                 decimal.Decimal `json:"total_taxes"`
	TotalDeductions            decimal.Decimal `json:"total_deductions"`
	TotalRetirement            decimal.Decimal `json:"total_retirement"`
	TaxableIncome              decimal.Decimal `json:"taxable_income"`
	CalculatedNetPay           decimal.Decimal `json:"calculated_net_pay"`
	NetPayDifference           decimal.Decimal `json:"net_pay_difference"`
	NetPayMatches              bool            `json:"net_pay_matches"`
	EffectiveTaxRate           decimal.Decimal `json:"effective_tax_rate"`
	FederalTaxRate             decimal.Decimal `json:"federal_tax_rate"`
	StateTaxRate               decimal.Decimal `json:"state_tax_rate"`
	RetirementContributionRate decimal.Decimal `json:"retirement_contribution_rate"`
}

func totalTaxes(p *paycheckDatamodel.Paycheck) decimal.Decimal {
	return decimal.Sum(p.FederalTax, p.StateTax, p.SocialSecurityTax, p.MedicareTax, p.OtherTaxes)
}

func totalRetirement(p *paycheckDatamodel.Paycheck) decimal.Decimal {
	return decimal.Sum(p.Retirement401k, p.Retirement403b, p.RetirementIRA)
}

func insurance(p *paycheckDatamodel.Paycheck) decimal.Decimal {
	return decimal.Sum(p.HealthInsurance, p.DentalInsurance, p.VisionInsurance, p.VoluntaryLifeInsurance)
}

// Rate returns part/whole*100 rounded to cents, or zero when whole is not positive.
func Rate(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// Calculate derives every reporting figure for one paycheck.
//
// Retirement and insurance reduce taxable income; other_deductions do not.
func Calculate(p *paycheckDatamodel.Paycheck) Metrics {
	taxes := totalTaxes(p)
	retirement := totalRetirement(p)
	deductions := taxes.Add(insurance(p)).Add(p.OtherDeductions)
	taxable := p.GrossIncome.Sub(retirement.Add(insurance(p)))

	calculated := p.GrossIncome.Sub(deductions).Round(2)
	diff := p.NetPay.Sub(calculated).Round(2)

	return Metrics{
		TotalTaxes:                 taxes.Round(2),
		TotalDeductions:            deductions.Round(2),
		TotalRetirement:            retirement.Round(2),
		TaxableIncome:              taxable.Round(2),
		CalculatedNetPay:           calculated,
		NetPayDifference:           diff,
		NetPayMatches:              diff.Abs().LessThanOrEqual(cent),
		EffectiveTaxRate:           Rate(taxes, taxable),
		FederalTaxRate:             Rate(p.FederalTax, taxable),
		StateTaxRate:               Rate(p.StateTax, taxable),
		RetirementContributionRate: Rate(retirement, p.GrossIncome),
	}
}
