package domain

// AnalysisKind selects which chart family a dashboard response carries.
type AnalysisKind string

const (
	AnalysisPriceTrends AnalysisKind = "price_trends"
	AnalysisVolume      AnalysisKind = "volume_analysis"
	AnalysisReturns     AnalysisKind = "returns_comparison"
	AnalysisCorrelation AnalysisKind = "correlation_matrix"
)

// AnalysisKinds lists all kinds in display order.
func AnalysisKinds() []AnalysisKind {
	return []AnalysisKind{
		AnalysisPriceTrends,
		AnalysisVolume,
		AnalysisReturns,
		AnalysisCorrelation,
	}
}

var analysisLabels = map[AnalysisKind]string{
	AnalysisPriceTrends: "Price Trends",
	AnalysisVolume:      "Volume Analysis",
	AnalysisReturns:     "Returns Comparison",
	AnalysisCorrelation: "Correlation Matrix",
}

// Valid reports whether k is one of the defined analysis kinds.
func (k AnalysisKind) Valid() bool {
	_, ok := analysisLabels[k]
	return ok
}

// Label returns the human-readable selector label for k.
func (k AnalysisKind) Label() string {
	return analysisLabels[k]
}

// AnalysisOption pairs a kind with its display label for UI controls.
type AnalysisOption struct {
	Kind  AnalysisKind `json:"kind"`
	Label string       `json:"label"`
}

// AnalysisOptions returns the selector option set in display order.
func AnalysisOptions() []AnalysisOption {
	kinds := AnalysisKinds()
	opts := make([]AnalysisOption, 0, len(kinds))
	for _, k := range kinds {
		opts = append(opts, AnalysisOption{Kind: k, Label: k.Label()})
	}
	return opts
}
