package domain

import (
	"fmt"
)

// SourceStats holds the descriptive statistics of one source's closing prices
// over a filtered view. StdevClose is the sample standard deviation and is nil
// when fewer than two rows are present.
type SourceStats struct {
	Source      string   `json:"source"`
	Rows        int      `json:"rows"`
	MeanClose   float64  `json:"mean_close"`
	StdevClose  *float64 `json:"stdev_close"`
	MinClose    float64  `json:"min_close"`
	MaxClose    float64  `json:"max_close"`
	TotalVolume int64    `json:"total_volume"`
}

// MetricCard is the per-source headline metric pair: the latest closing price
// in the filtered view and the percentage change across the view. Text fields
// carry the display strings; the raw values stay available for clients that
// format themselves.
type MetricCard struct {
	Source          string  `json:"source"`
	LatestPrice     float64 `json:"latest_price"`
	LatestPriceText string  `json:"latest_price_text"`
	ChangePct       float64 `json:"change_pct"`
	ChangePctText   string  `json:"change_pct_text"`
}

// PriceText formats a price for metric display.
func PriceText(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// PercentText formats a percentage for metric display.
func PercentText(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
