// Package charts builds ECharts option documents for the organization
// dashboard. The pages hand them to echarts.setOption in the browser.
package charts

import (
	"encoding/json"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Skufu/heartcheck/internal/display"
	"github.com/Skufu/heartcheck/internal/history"
)

// WeeklyTrend plots screenings per week on a time axis.
func WeeklyTrend(points []history.TrendPoint) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Weekly Screening Trend",
			Subtitle: "Patients screened per week",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: []interface{}{p.Date, p.Count}})
	}
	line.AddSeries("Screenings", items).SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: 2}),
	)
	return encode("weekly trend", line.JSON())
}

// RegionalDistribution shows screenings per region.
func RegionalDistribution(regions []history.RegionCount) (string, error) {
	items := make([]opts.PieData, 0, len(regions))
	for _, r := range regions {
		items = append(items, opts.PieData{Name: r.Region, Value: r.Count})
	}
	return encode("regional distribution", pie("Regional Distribution", "Patients", items).JSON())
}

// RiskMix shows how many records fall into each risk level.
func RiskMix(counts history.RiskCounts) (string, error) {
	items := []opts.PieData{
		{Name: display.ForRiskLevel(history.RiskLow).Label, Value: counts.Low},
		{Name: display.ForRiskLevel(history.RiskModerate).Label, Value: counts.Moderate},
		{Name: display.ForRiskLevel(history.RiskHigh).Label, Value: counts.High},
	}
	return encode("risk mix", pie("Risk Levels", "Predictions", items).JSON())
}

func pie(title, series string, items []opts.PieData) *charts.Pie {
	p := charts.NewPie()
	p.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	p.AddSeries(series, items).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return p
}

func encode(name string, options interface{}) (string, error) {
	b, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("encode %s chart: %w", name, err)
	}
	return string(b), nil
}
