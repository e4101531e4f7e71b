package domain

import (
	"time"
)

// LineSeries is one source's close-price polyline. Dates and Values are
// parallel slices in ascending date order.
type LineSeries struct {
	Source string    `json:"source"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// LineChart is the multi-series close-price chart.
type LineChart struct {
	Series []LineSeries `json:"series"`
}

// CandlePoint is one OHLCV bar of a candlestick payload.
type CandlePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// CandlestickChart is one source's candlestick payload.
type CandlestickChart struct {
	Source string        `json:"source"`
	Points []CandlePoint `json:"points"`
}

// VolumeSeries is one source's traded-volume bars.
type VolumeSeries struct {
	Source string   `json:"source"`
	Dates  []string `json:"dates"`
	Values []int64  `json:"values"`
}

// VolumeChart is the grouped volume bar chart, one series per source.
type VolumeChart struct {
	Series []VolumeSeries `json:"series"`
}

// ReturnsSeries carries one source's daily and cumulative returns. Dates
// starts at the second row of the filtered slice since the first day has no
// prior close.
type ReturnsSeries struct {
	Source     string    `json:"source"`
	Dates      []string  `json:"dates"`
	Daily      []float64 `json:"daily"`
	Cumulative []float64 `json:"cumulative"`
}

// ReturnsChart is the daily/cumulative returns comparison chart.
type ReturnsChart struct {
	Series []ReturnsSeries `json:"series"`
}

// HeatmapChart is the pairwise close-price correlation heatmap. Cells is a
// square matrix in Sources order; undefined coefficients (no overlapping
// dates, or a constant series) are nil and serialize as null.
type HeatmapChart struct {
	Sources     []string     `json:"sources"`
	Cells       [][]*float64 `json:"cells"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// AnalysisCharts bundles the chart payloads one analysis kind produces.
// Builders fill only the fields their kind renders.
type AnalysisCharts struct {
	Line    *LineChart         `json:"line,omitempty"`
	Candles []CandlestickChart `json:"candles,omitempty"`
	Volume  *VolumeChart       `json:"volume,omitempty"`
	Returns *ReturnsChart      `json:"returns,omitempty"`
	Heatmap *HeatmapChart      `json:"heatmap,omitempty"`
}

// FilterEcho restates the filter a response was computed for, after defaults
// and date-interval correction were applied.
type FilterEcho struct {
	Sources []string `json:"sources"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
}

// DashboardState is one complete dashboard render: the applied filter, the
// per-source metric cards, the statistics table and the charts of the
// selected analysis kind. Sources with no rows in range are omitted from
// Metrics and Stats rather than zero-filled.
type DashboardState struct {
	Analysis AnalysisKind   `json:"analysis"`
	Filter   FilterEcho     `json:"filter"`
	Metrics  []MetricCard   `json:"metrics"`
	Stats    []SourceStats  `json:"stats"`
	Charts   AnalysisCharts `json:"charts"`
}
