package render

import (
	"fmt"
	"io"
	"math"

	"dividendtracker/src/utils"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Slice is one named share of a pie chart.
type Slice struct {
	Name  string
	Value float64
}

// RenderBarGraph writes a standalone HTML page with one bar per label.
func RenderBarGraph(w io.Writer, title, seriesName string, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return fmt.Errorf("bar graph needs one value per label, got %d labels and %d values", len(labels), len(values))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	items := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.BarData{Value: round2(v)})
	}
	bar.SetXAxis(labels).AddSeries(seriesName, items)

	return bar.Render(w)
}

// RenderPieGraph writes a standalone HTML page with one slice per item, coloured
// from utils.ChartColors in order.
func RenderPieGraph(w io.Writer, title, seriesName string, slices []Slice) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	items := make([]opts.PieData, 0, len(slices))
	for i, s := range slices {
		items = append(items, opts.PieData{
			Name:      s.Name,
			Value:     round2(s.Value),
			ItemStyle: &opts.ItemStyle{Color: utils.GetChartColor(i)},
		})
	}
	pie.AddSeries(seriesName, items)

	return pie.Render(w)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
