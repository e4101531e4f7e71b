// Package charts shapes filtered dataset slices into chart payloads, one
// builder per analysis kind. Dispatch goes through a lookup table keyed by
// the kind; there is no conditional chain.
package charts

import (
	"errors"
	"fmt"
	"time"

	"stockdash/internal/analytics"
	"stockdash/internal/dataset"
	"stockdash/pkg/contracts/domain"
)

// ErrUnknownKind is returned when the requested analysis kind is not one of
// the defined builders.
var ErrUnknownKind = errors.New("unknown analysis kind")

// View is the per-source slicing of one filtered dataset view. Sources keeps
// the configured display order; absent or empty sources simply contribute no
// series.
type View struct {
	Sources  []string
	BySource map[string]dataset.Table
}

// NewView slices a filtered table per source, keeping sources in the given
// order.
func NewView(sources []string, filtered dataset.Table) View {
	bySource, _ := filtered.BySource()
	return View{Sources: sources, BySource: bySource}
}

// builderFunc produces the chart payloads of one analysis kind.
type builderFunc func(View) domain.AnalysisCharts

// builders maps each analysis kind to its payload builder.
var builders = map[domain.AnalysisKind]builderFunc{
	domain.AnalysisPriceTrends: buildPriceTrends,
	domain.AnalysisVolume:      buildVolumeAnalysis,
	domain.AnalysisReturns:     buildReturnsComparison,
	domain.AnalysisCorrelation: buildCorrelationMatrix,
}

// Build dispatches to the builder for kind.
func Build(kind domain.AnalysisKind, view View) (domain.AnalysisCharts, error) {
	build, ok := builders[kind]
	if !ok {
		return domain.AnalysisCharts{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return build(view), nil
}

// buildPriceTrends renders the multi-line close chart plus per-source
// candlestick payloads.
func buildPriceTrends(view View) domain.AnalysisCharts {
	line := &domain.LineChart{}
	var candles []domain.CandlestickChart

	for _, src := range view.Sources {
		slice := view.BySource[src]
		if slice.Len() == 0 {
			continue
		}
		line.Series = append(line.Series, lineSeries(src, slice))
		candles = append(candles, candlestick(src, slice))
	}

	return domain.AnalysisCharts{Line: line, Candles: candles}
}

// buildVolumeAnalysis renders grouped volume bars plus per-source
// candlestick payloads carrying volume.
func buildVolumeAnalysis(view View) domain.AnalysisCharts {
	volume := &domain.VolumeChart{}
	var candles []domain.CandlestickChart

	for _, src := range view.Sources {
		slice := view.BySource[src]
		if slice.Len() == 0 {
			continue
		}
		series := domain.VolumeSeries{Source: src}
		for _, row := range slice.Rows {
			series.Dates = append(series.Dates, row.DateText())
			series.Values = append(series.Values, row.Volume)
		}
		volume.Series = append(volume.Series, series)
		candles = append(candles, candlestick(src, slice))
	}

	return domain.AnalysisCharts{Volume: volume, Candles: candles}
}

// buildReturnsComparison renders daily and cumulative return series per
// source. Dates start at each slice's second row since the first day has no
// prior close; sources with fewer than two rows contribute no series.
func buildReturnsComparison(view View) domain.AnalysisCharts {
	returns := &domain.ReturnsChart{}

	for _, src := range view.Sources {
		slice := view.BySource[src]
		if slice.Len() < 2 {
			continue
		}

		daily := analytics.DailyReturns(slice.Closes())
		series := domain.ReturnsSeries{
			Source:     src,
			Daily:      daily,
			Cumulative: analytics.CumulativeReturns(daily),
		}
		for _, row := range slice.Rows[1:] {
			series.Dates = append(series.Dates, row.DateText())
		}
		returns.Series = append(returns.Series, series)
	}

	return domain.AnalysisCharts{Returns: returns}
}

// buildCorrelationMatrix renders the pairwise close-price correlation
// heatmap over the selected sources.
func buildCorrelationMatrix(view View) domain.AnalysisCharts {
	return domain.AnalysisCharts{
		Heatmap: &domain.HeatmapChart{
			Sources:     view.Sources,
			Cells:       analytics.CorrelationMatrix(view.Sources, view.BySource),
			GeneratedAt: time.Now().UTC(),
		},
	}
}

func lineSeries(source string, slice dataset.Table) domain.LineSeries {
	series := domain.LineSeries{Source: source}
	for _, row := range slice.Rows {
		series.Dates = append(series.Dates, row.DateText())
		series.Values = append(series.Values, row.Close)
	}
	return series
}

func candlestick(source string, slice dataset.Table) domain.CandlestickChart {
	chart := domain.CandlestickChart{Source: source}
	for _, row := range slice.Rows {
		chart.Points = append(chart.Points, domain.CandlePoint{
			Date:   row.DateText(),
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return chart
}
