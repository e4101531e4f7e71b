package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 13.4 appear as 13.40 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatReturn formats a return ratio with 6 decimal places; 2 is too coarse
// for daily returns
func formatReturn(f float64) string {
	return fmt.Sprintf("%.6f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatNullableFloat formats a nullable float64; nil becomes an empty cell
func formatNullableFloat(f *float64, precision int) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%.*f", precision, *f)
}
