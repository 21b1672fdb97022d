package chart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vicanso/go-charts/v2"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

// Options controls the rendered chart. Zero values fall back to defaults.
type Options struct {
	Width  int
	Height int
	Title  string
}

// Render draws the run history as a PNG line chart: the market price rebased
// to the initial portfolio value, the live portfolio track and, for hedged
// runs, the unhedged counterfactual.
func Render(history []engine.HistoryRecord, metrics engine.MetricsSnapshot, opts Options) ([]byte, error) {
	if len(history) < 2 {
		return nil, errors.New("need at least two history records to chart")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Title == "" {
		opts.Title = "Portfolio Hedging Simulation"
	}

	first := history[0]
	hedgedRun := first.HedgedPortfolio != nil

	labels := make([]string, len(history))
	market := make([]float64, len(history))
	live := make([]float64, len(history))
	var unhedged []float64
	if hedgedRun {
		unhedged = make([]float64, len(history))
	}

	scale := first.PortfolioValue / first.MarketPrice
	for i, rec := range history {
		labels[i] = strconv.Itoa(rec.Day)
		market[i] = rec.MarketPrice * scale
		live[i] = rec.PortfolioValue
		if hedgedRun {
			unhedged[i] = rec.UnhedgedPortfolio
		}
	}

	values := [][]float64{market, live}
	names := []string{"Market (rebased)", "Portfolio"}
	if hedgedRun {
		values = append(values, unhedged)
		names = append(names, "Unhedged")
	}

	// Y-axis range with 5% padding
	yMin, yMax := values[0][0], values[0][0]
	for _, series := range values {
		for _, v := range series {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = yMax * 0.05
	}
	yMin -= pad
	yMax += pad

	splitNum := 6
	if len(labels) <= 30 {
		splitNum = len(labels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(opts.Title, subtitle(metrics)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: splitNum,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(opts.Width),
		charts.HeightOptionFunc(opts.Height),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return painter.Bytes()
}

func subtitle(m engine.MetricsSnapshot) string {
	sharpe := "n/a"
	if m.SharpeRatio != nil {
		sharpe = fmt.Sprintf("%.2f", *m.SharpeRatio)
	}
	return fmt.Sprintf("Return: %.2f%% | Sharpe: %s | Vol: %.2f%% | MaxDD: %.2f%%",
		m.AnnualizedReturnPct, sharpe, m.AnnualizedVolatilityPct, m.MaxDrawdownPct)
}
