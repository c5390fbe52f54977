package stats

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartConfig holds configuration for the completion chart.
type ChartConfig struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
	Theme    string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:    "Collection completion",
		Subtitle: "owned vs total per dan",
		Width:    "900px",
		Height:   "500px",
		Theme:    "light",
	}
}

// WriteCompletionChart renders an interactive owned-vs-total bar chart
// to an HTML file.
func WriteCompletionChart(byDan []DanCompletion, config ChartConfig, outputPath string) error {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	xLabels := make([]string, len(byDan))
	ownedData := make([]opts.BarData, len(byDan))
	totalData := make([]opts.BarData, len(byDan))
	for i, d := range byDan {
		xLabels[i] = d.Dan
		ownedData[i] = opts.BarData{Value: d.Owned}
		totalData[i] = opts.BarData{Value: d.Total}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Owned", ownedData).
		AddSeries("Total", totalData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := bar.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
