package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stockdash/internal/analytics"
	"stockdash/internal/charts"
	"stockdash/internal/dataset"
	api "stockdash/pkg/contracts/api/v1"
	"stockdash/pkg/contracts/domain"
)

// DashboardService resolves dashboard requests against the loaded dataset:
// it applies filter defaults, validates the selection and computes metric
// cards, the statistics table and chart payloads.
type DashboardService struct {
	store  *dataset.Store
	logger *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *dataset.Store, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:  store,
		logger: logger.With(slog.String("service", "dashboard")),
	}
}

// Dashboard computes one complete dashboard render for the given request.
func (s *DashboardService) Dashboard(ctx context.Context, req api.DashboardRequest) (*domain.DashboardState, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	kind := domain.AnalysisPriceTrends
	if req.Analysis != "" {
		kind = domain.AnalysisKind(req.Analysis)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysisKind, req.Analysis)
		}
	}

	sel, echo, err := s.resolveSelection(snap, req.Tickers, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	filtered := snap.Combined.Filter(sel)
	view := charts.NewView(sel.Sources, filtered)

	chartSet, err := charts.Build(kind, view)
	if err != nil {
		return nil, err
	}

	metrics, stats := s.computeTables(sel.Sources, view.BySource)

	s.logger.DebugContext(ctx, "dashboard computed",
		slog.String("analysis", string(kind)),
		slog.Int("sources", len(sel.Sources)),
		slog.Int("rows", filtered.Len()),
	)

	return &domain.DashboardState{
		Analysis: kind,
		Filter:   echo,
		Metrics:  metrics,
		Stats:    stats,
		Charts:   chartSet,
	}, nil
}

// Charts computes the chart payloads of one analysis kind.
func (s *DashboardService) Charts(ctx context.Context, req api.ChartRequest) (*domain.AnalysisCharts, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	kind := domain.AnalysisKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysisKind, req.Kind)
	}

	sel, _, err := s.resolveSelection(snap, req.Tickers, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	view := charts.NewView(sel.Sources, snap.Combined.Filter(sel))
	chartSet, err := charts.Build(kind, view)
	if err != nil {
		return nil, err
	}
	return &chartSet, nil
}

// Stats computes the metric cards and statistics table for a filtered view.
func (s *DashboardService) Stats(ctx context.Context, req api.StatsRequest) ([]domain.MetricCard, []domain.SourceStats, domain.FilterEcho, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, nil, domain.FilterEcho{}, err
	}

	sel, echo, err := s.resolveSelection(snap, req.Tickers, req.Start, req.End)
	if err != nil {
		return nil, nil, domain.FilterEcho{}, err
	}

	view := charts.NewView(sel.Sources, snap.Combined.Filter(sel))
	metrics, stats := s.computeTables(sel.Sources, view.BySource)
	return metrics, stats, echo, nil
}

// Meta returns the dataset description that drives the UI controls.
func (s *DashboardService) Meta(ctx context.Context) (*domain.DatasetMeta, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	meta := snap.Meta()
	return &meta, nil
}

// snapshot fetches the current dataset snapshot or reports that none is loaded
func (s *DashboardService) snapshot() (*dataset.Snapshot, error) {
	snap, err := s.store.Dataset()
	if err != nil {
		return nil, ErrDatasetNotLoaded
	}
	return snap, nil
}

// resolveSelection applies filter defaults and validates the requested
// sources. Empty tickers select every source; empty dates fall back to the
// dataset bounds. The echo restates the filter after the date-interval
// correction was applied.
func (s *DashboardService) resolveSelection(snap *dataset.Snapshot, tickers []string, start, end string) (dataset.Selection, domain.FilterEcho, error) {
	sources := tickers
	if len(sources) == 0 {
		sources = snap.Labels()
	} else {
		for _, label := range sources {
			if !snap.HasSource(label) {
				return dataset.Selection{}, domain.FilterEcho{}, fmt.Errorf("%w: %q", ErrTickerNotFound, label)
			}
		}
	}

	first, last, ok := snap.Combined.Bounds()
	if !ok {
		first = time.Now().UTC()
		last = first
	}

	startDate := first
	if start != "" {
		parsed, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return dataset.Selection{}, domain.FilterEcho{}, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
		}
		startDate = parsed
	}

	endDate := last
	if end != "" {
		parsed, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return dataset.Selection{}, domain.FilterEcho{}, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
		}
		endDate = parsed
	}

	interval := dataset.NewInterval(startDate, endDate)

	sel := dataset.Selection{
		Sources:  sources,
		Interval: interval,
	}
	echo := domain.FilterEcho{
		Sources: sources,
		Start:   interval.Start.Format(time.DateOnly),
		End:     interval.End.Format(time.DateOnly),
	}
	return sel, echo, nil
}

// computeTables builds the metric cards and statistics rows in selection
// order. Sources with no rows in range are omitted rather than zero-filled.
func (s *DashboardService) computeTables(sources []string, bySource map[string]dataset.Table) ([]domain.MetricCard, []domain.SourceStats) {
	metrics := make([]domain.MetricCard, 0, len(sources))
	stats := make([]domain.SourceStats, 0, len(sources))

	for _, source := range sources {
		slice := bySource[source]
		if card, ok := analytics.MetricCard(source, slice); ok {
			metrics = append(metrics, card)
		}
		if row, ok := analytics.SourceStats(source, slice); ok {
			stats = append(stats, row)
		}
	}
	return metrics, stats
}
