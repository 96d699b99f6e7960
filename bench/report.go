package bench

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteReport renders an HTML report of a campaign: planning time and path
// length per trial
func WriteReport(w io.Writer, c *Campaign) error {
	summary := Summarize(c)

	seeds := make([]string, len(c.Trials))
	times := make([]opts.BarData, len(c.Trials))
	lengths := make([]opts.LineData, len(c.Trials))
	optimized := make([]opts.LineData, len(c.Trials))
	for i, trial := range c.Trials {
		seeds[i] = fmt.Sprintf("%d", trial.Seed)
		times[i] = opts.BarData{Value: float64(trial.Duration.Microseconds()) / 1000}
		lengths[i] = opts.LineData{Value: trial.Length}
		optimized[i] = opts.LineData{Value: trial.Optimized}
	}

	timeChart := charts.NewBar()
	timeChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("Benchmark %s", c.Name),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Planning time (ms)",
			Subtitle: fmt.Sprintf("%s: %d trials, %.0f%% success, mean %v",
				c.Name, summary.Trials, summary.SuccessRate*100, summary.TimeMean),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "seed"}),
	)
	timeChart.SetXAxis(seeds).AddSeries("time", times)

	lengthChart := charts.NewLine()
	lengthChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Path length",
			Subtitle: fmt.Sprintf("mean %.3f, optimized mean %.3f",
				summary.LengthMean, summary.OptimizedMean),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "seed"}),
	)
	lengthChart.SetXAxis(seeds).
		AddSeries("solved", lengths).
		AddSeries("optimized", optimized)

	page := components.NewPage()
	page.AddCharts(timeChart, lengthChart)
	return page.Render(w)
}
