package paycheck

import (
	"fmt"
	"io"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/wcharczuk/go-chart/v2"
)

var ErrNoChartData = internal.NewNotFoundError("No paychecks found for this user", internal.ErrCodePaycheckNotFound)

// RenderTrendsChart draws monthly gross, net and taxes as a PNG line chart.
func RenderTrendsChart(w io.Writer, monthly []MonthlyTrend) error {
	if len(monthly) == 0 {
		return ErrNoChartData
	}

	xs := make([]time.Time, len(monthly))
	gross := make([]float64, len(monthly))
	net := make([]float64, len(monthly))
	taxes := make([]float64, len(monthly))
	lo, hi := 0.0, 0.0
	for i, m := range monthly {
		xs[i] = time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
		gross[i] = m.TotalGross.InexactFloat64()
		net[i] = m.TotalNet.InexactFloat64()
		taxes[i] = m.TotalTaxes.InexactFloat64()
		for _, v := range []float64{gross[i], net[i], taxes[i]} {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	graph := chart.Chart{
		Title:  "Monthly paycheck trends",
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Gross",
				XValues: xs,
				YValues: gross,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Net",
				XValues: xs,
				YValues: net,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Taxes",
				XValues: xs,
				YValues: taxes,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
		},
	}

	// go-chart refuses zero-width ranges
	if len(xs) == 1 {
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(xs[0].AddDate(0, -1, 0)),
			Max: chart.TimeToFloat64(xs[0].AddDate(0, 1, 0)),
		}
	}
	if lo == hi {
		graph.YAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi + 1}
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render trends chart: %w", err)
	}
	return nil
}
