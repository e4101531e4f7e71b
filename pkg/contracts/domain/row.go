package domain

import (
	"time"
)

// Row is one trading day of one source after normalization.
// Date is the natural key within a source; rows are immutable once loaded.
type Row struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
	Source string    `json:"source"`
}

// DateText returns the row date in the wire format used by chart payloads.
func (r Row) DateText() string {
	return r.Date.Format(time.DateOnly)
}

// SourceMeta describes one loaded source for UI controls and health output.
type SourceMeta struct {
	Label     string `json:"label"`
	File      string `json:"file"`
	Rows      int    `json:"rows"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
}

// DatasetMeta summarizes the loaded dataset: tracked sources, overall date
// bounds and the analysis kinds the dashboard can render. It drives the
// client's ticker multi-select, date pickers and analysis selector.
type DatasetMeta struct {
	Sources   []SourceMeta     `json:"sources"`
	TotalRows int              `json:"total_rows"`
	FirstDate string           `json:"first_date,omitempty"`
	LastDate  string           `json:"last_date,omitempty"`
	LoadedAt  time.Time        `json:"loaded_at"`
	Analyses  []AnalysisOption `json:"analyses"`
}
