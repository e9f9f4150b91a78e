package paycheck

import (
	"sort"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	paycheckDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/paycheck"
	"github.com/shopspring/decimal"
)

// tally accumulates the four amounts every report is built from.
type tally struct {
	count      int
	gross      decimal.Decimal
	net        decimal.Decimal
	taxes      decimal.Decimal
	retirement decimal.Decimal
}

func (t *tally) add(p *paycheckDatamodel.Paycheck) {
	t.count++
	t.gross = t.gross.Add(p.GrossIncome)
	t.net = t.net.Add(p.NetPay)
	t.taxes = t.taxes.Add(totalTaxes(p))
	t.retirement = t.retirement.Add(totalRetirement(p))
}

func (t *tally) average(total decimal.Decimal) decimal.Decimal {
	if t.count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(t.count))).Round(2)
}

func (t *tally) taxRate() decimal.Decimal        { return Rate(t.taxes, t.gross) }
func (t *tally) retirementRate() decimal.Decimal { return Rate(t.retirement, t.gross) }

// Stats are the totals, averages and rates of a group of paychecks.
type Stats struct {
	Count             int             `json:"count"`
	TotalGross        decimal.Decimal `json:"total_gross"`
	TotalNet          decimal.Decimal `json:"total_net"`
	TotalTaxes        decimal.Decimal `json:"total_taxes"`
	TotalRetirement   decimal.Decimal `json:"total_retirement"`
	AvgGross          decimal.Decimal `json:"avg_gross"`
	AvgNet            decimal.Decimal `json:"avg_net"`
	AvgTaxRate        decimal.Decimal `json:"avg_tax_rate"`
	AvgRetirementRate decimal.Decimal `json:"avg_retirement_rate"`
}

func (t *tally) stats() Stats {
	return Stats{
		Count:             t.count,
		TotalGross:        t.gross.Round(2),
		TotalNet:          t.net.Round(2),
		TotalTaxes:        t.taxes.Round(2),
		TotalRetirement:   t.retirement.Round(2),
		AvgGross:          t.average(t.gross),
		AvgNet:            t.average(t.net),
		AvgTaxRate:        t.taxRate(),
		AvgRetirementRate: t.retirementRate(),
	}
}

// PercentChange is (cur-prev)/prev*100 rounded to cents, or zero when prev is not positive.
func PercentChange(cur, prev decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(2)
}

type Summary struct {
	TotalPaychecks        int             `json:"total_paychecks"`
	TotalGrossIncome      decimal.Decimal `json:"total_gross_income"`
	TotalNetPay           decimal.Decimal `json:"total_net_pay"`
	TotalTaxes            decimal.Decimal `json:"total_taxes"`
	TotalRetirement       decimal.Decimal `json:"total_retirement"`
	AverageGrossIncome    decimal.Decimal `json:"average_gross_income"`
	AverageNetPay         decimal.Decimal `json:"average_net_pay"`
	AverageTaxRate        decimal.Decimal `json:"average_tax_rate"`
	AverageRetirementRate decimal.Decimal `json:"average_retirement_rate"`
}

type AnalyticsDateRange struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type Analytics struct {
	Summary    Summary            `json:"summary"`
	ByEmployer map[string]Stats   `json:"by_employer"`
	DateRange  AnalyticsDateRange `json:"date_range"`
}

// BuildAnalytics summarises paychecks overall and per employer.
func BuildAnalytics(rows []*paycheckDatamodel.Paycheck, start, end *time.Time) *Analytics {
	var all tally
	employers := make(map[string]*tally)
	for _, p := range rows {
		all.add(p)
		t, ok := employers[p.Employer]
		if !ok {
			t = &tally{}
			employers[p.Employer] = t
		}
		t.add(p)
	}

	byEmployer := make(map[string]Stats, len(employers))
	for name, t := range employers {
		byEmployer[name] = t.stats()
	}

	return &Analytics{
		Summary: Summary{
			TotalPaychecks:        all.count,
			TotalGrossIncome:      all.gross.Round(2),
			TotalNetPay:           all.net.Round(2),
			TotalTaxes:            all.taxes.Round(2),
			TotalRetirement:       all.retirement.Round(2),
			AverageGrossIncome:    all.average(all.gross),
			AverageNetPay:         all.average(all.net),
			AverageTaxRate:        all.taxRate(),
			AverageRetirementRate: all.retirementRate(),
		},
		ByEmployer: byEmployer,
		DateRange:  AnalyticsDateRange{StartDate: formatOptionalDate(start), EndDate: formatOptionalDate(end)},
	}
}

type MonthlyTrend struct {
	Period    string `json:"period"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Stats
	MomGrossChange          *decimal.Decimal `json:"mom_gross_change,omitempty"`
	MomNetChange            *decimal.Decimal `json:"mom_net_change,omitempty"`
	MomTaxRateChange        *decimal.Decimal `json:"mom_tax_rate_change,omitempty"`
	MomRetirementRateChange *decimal.Decimal `json:"mom_retirement_rate_change,omitempty"`
}

type YearlyTrend struct {
	Year int `json:"year"`
	Stats
	YoyGrossChange          *decimal.Decimal `json:"yoy_gross_change,omitempty"`
	YoyNetChange            *decimal.Decimal `json:"yoy_net_change,omitempty"`
	YoyTaxRateChange        *decimal.Decimal `json:"yoy_tax_rate_change,omitempty"`
	YoyRetirementRateChange *decimal.Decimal `json:"yoy_retirement_rate_change,omitempty"`
}

type TrendsDateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

type TrendsSummary struct {
	TotalMonths int             `json:"total_months"`
	TotalYears  int             `json:"total_years"`
	DateRange   TrendsDateRange `json:"date_range"`
}

type Trends struct {
	MonthlyTrends []MonthlyTrend `json:"monthly_trends"`
	YearlyTrends  []YearlyTrend  `json:"yearly_trends"`
	Summary       TrendsSummary  `json:"summary"`
}

// changes holds the deltas between two adjacent groups.
type changes struct {
	gross, net, taxRate, retirementRate decimal.Decimal
}

// compareTallies leaves the rate deltas at zero when prev had no gross income.
func compareTallies(cur, prev *tally) changes {
	c := changes{
		gross: PercentChange(cur.gross, prev.gross),
		net:   PercentChange(cur.net, prev.net),
	}
	if prev.gross.IsPositive() {
		c.taxRate = cur.taxRate().Sub(prev.taxRate()).Round(2)
		c.retirementRate = cur.retirementRate().Sub(prev.retirementRate()).Round(2)
	}
	return c
}

// BuildTrends groups paychecks by calendar month and year of pay_date, oldest first.
// rows may be in any order.
func BuildTrends(rows []*paycheckDatamodel.Paycheck) *Trends {
	months := make(map[string]*tally)
	monthOf := make(map[string]time.Time)
	years := make(map[int]*tally)
	var earliest, latest time.Time

	for i, p := range rows {
		key := p.PayDate.Format("2006-01")
		if months[key] == nil {
			months[key] = &tally{}
		}
		months[key].add(p)
		monthOf[key] = p.PayDate

		y := p.PayDate.Year()
		if years[y] == nil {
			years[y] = &tally{}
		}
		years[y].add(p)

		if i == 0 || p.PayDate.Before(earliest) {
			earliest = p.PayDate
		}
		if i == 0 || p.PayDate.After(latest) {
			latest = p.PayDate
		}
	}

	monthKeys := make([]string, 0, len(months))
	for k := range months {
		monthKeys = append(monthKeys, k)
	}
	sort.Strings(monthKeys)

	monthly := make([]MonthlyTrend, 0, len(monthKeys))
	for i, k := range monthKeys {
		t := months[k]
		day := monthOf[k]
		m := MonthlyTrend{
			Period:    k,
			Year:      day.Year(),
			Month:     int(day.Month()),
			MonthName: day.Month().String(),
			Stats:     t.stats(),
		}
		if i > 0 {
			c := compareTallies(t, months[monthKeys[i-1]])
			m.MomGrossChange, m.MomNetChange = &c.gross, &c.net
			m.MomTaxRateChange, m.MomRetirementRateChange = &c.taxRate, &c.retirementRate
		}
		monthly = append(monthly, m)
	}

	yearKeys := make([]int, 0, len(years))
	for y := range years {
		yearKeys = append(yearKeys, y)
	}
	sort.Ints(yearKeys)

	yearly := make([]YearlyTrend, 0, len(yearKeys))
	for i, y := range yearKeys {
		t := years[y]
		yt := YearlyTrend{Year: y, Stats: t.stats()}
		if i > 0 {
			c := compareTallies(t, years[yearKeys[i-1]])
			yt.YoyGrossChange, yt.YoyNetChange = &c.gross, &c.net
			yt.YoyTaxRateChange, yt.YoyRetirementRateChange = &c.taxRate, &c.retirementRate
		}
		yearly = append(yearly, yt)
	}

	trends := &Trends{
		MonthlyTrends: monthly,
		YearlyTrends:  yearly,
		Summary: TrendsSummary{
			TotalMonths: len(monthly),
			TotalYears:  len(yearly),
		},
	}
	if len(rows) > 0 {
		trends.Summary.DateRange = TrendsDateRange{
			Earliest: earliest.Format(validation.DateLayout),
			Latest:   latest.Format(validation.DateLayout),
		}
	}
	return trends
}

type PeriodDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PeriodStats struct {
	Period string `json:"period"`
	Stats
	DateRange PeriodDateRange `json:"date_range"`
}

// PeriodChanges omits gross_change and net_change when period 1 had nothing to compare against.
type PeriodChanges struct {
	GrossChange          *decimal.Decimal `json:"gross_change,omitempty"`
	NetChange            *decimal.Decimal `json:"net_change,omitempty"`
	TaxRateChange        decimal.Decimal  `json:"tax_rate_change"`
	RetirementRateChange decimal.Decimal  `json:"retirement_rate_change"`
}

type Comparison struct {
	Period1 PeriodStats   `json:"period1"`
	Period2 PeriodStats   `json:"period2"`
	Changes PeriodChanges `json:"changes"`
}

// Period is an inclusive pay_date range.
type Period struct {
	Start time.Time
	End   time.Time
}

func periodStats(name string, p Period, rows []*paycheckDatamodel.Paycheck) PeriodStats {
	var t tally
	for _, row := range rows {
		t.add(row)
	}
	return PeriodStats{
		Period: name,
		Stats:  t.stats(),
		DateRange: PeriodDateRange{
			Start: p.Start.Format(validation.DateLayout),
			End:   p.End.Format(validation.DateLayout),
		},
	}
}

// BuildComparison compares two already-filtered sets of paychecks.
func BuildComparison(p1, p2 Period, rows1, rows2 []*paycheckDatamodel.Paycheck) *Comparison {
	s1 := periodStats("Period 1", p1, rows1)
	s2 := periodStats("Period 2", p2, rows2)

	var ch PeriodChanges
	if s1.TotalGross.IsPositive() {
		v := PercentChange(s2.TotalGross, s1.TotalGross)
		ch.GrossChange = &v
	}
	if s1.TotalNet.IsPositive() {
		v := PercentChange(s2.TotalNet, s1.TotalNet)
		ch.NetChange = &v
	}
	ch.TaxRateChange = s2.AvgTaxRate.Sub(s1.AvgTaxRate).Round(2)
	ch.RetirementRateChange = s2.AvgRetirementRate.Sub(s1.AvgRetirementRate).Round(2)

	return &Comparison{Period1: s1, Period2: s2, Changes: ch}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validation.DateLayout)
	return &s
}

