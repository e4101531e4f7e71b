package dataset

import (
	"time"

	"stockdash/pkg/contracts/domain"
)

// Interval is a closed date range [Start, End]. Both ends are inclusive.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from the user-chosen dates. When the start
// is not before the end the interval is silently corrected by advancing the
// end to start + 1 day; the input is never rejected.
func NewInterval(start, end time.Time) Interval {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if !start.Before(end) {
		end = start.AddDate(0, 0, 1)
	}
	return Interval{Start: start, End: end}
}

// Contains reports whether d falls within the interval, inclusive on both
// ends.
func (iv Interval) Contains(d time.Time) bool {
	return !d.Before(iv.Start) && !d.After(iv.End)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Selection names the sources and date interval a filtered view is
// restricted to.
type Selection struct {
	Sources  []string
	Interval Interval
}

// Table is an ordered collection of time-series rows. The date is the
// natural key within a source. Tables are never mutated after construction;
// derived views are new tables.
type Table struct {
	Rows []domain.Row
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Filter returns the subset of rows whose source is a member of the
// selection's source set and whose date lies within its interval. Row order
// is preserved. The result is a fresh table; the receiver is untouched.
// Same inputs always yield the same output.
func (t Table) Filter(sel Selection) Table {
	selected := make(map[string]bool, len(sel.Sources))
	for _, s := range sel.Sources {
		selected[s] = true
	}

	var rows []domain.Row
	for _, row := range t.Rows {
		if !selected[row.Source] {
			continue
		}
		if !sel.Interval.Contains(row.Date) {
			continue
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows}
}

// BySource splits the table into per-source tables, preserving row order
// within each source. order lists the sources in first-appearance order.
func (t Table) BySource() (bySource map[string]Table, order []string) {
	bySource = make(map[string]Table)
	for _, row := range t.Rows {
		if _, ok := bySource[row.Source]; !ok {
			order = append(order, row.Source)
		}
		sub := bySource[row.Source]
		sub.Rows = append(sub.Rows, row)
		bySource[row.Source] = sub
	}
	return bySource, order
}

// Bounds returns the earliest and latest dates present in the table.
// ok is false for an empty table.
func (t Table) Bounds() (first, last time.Time, ok bool) {
	if len(t.Rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t.Rows[0].Date, t.Rows[0].Date
	for _, row := range t.Rows[1:] {
		if row.Date.Before(first) {
			first = row.Date
		}
		if row.Date.After(last) {
			last = row.Date
		}
	}
	return first, last, true
}

// Closes returns the close-price series in row order.
func (t Table) Closes() []float64 {
	closes := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		closes[i] = row.Close
	}
	return closes
}
