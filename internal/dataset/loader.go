package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"stockdash/internal/config"
	"stockdash/pkg/contracts/domain"
)

// Snapshot is one immutable load result. It is built once by the loader and
// never mutated afterwards; the store swaps whole snapshots.
type Snapshot struct {
	Combined  Table
	PerSource []SourceTable
	LoadedAt  time.Time
}

// SourceTable is one source's rows before concatenation, kept for the
// round-trip guarantee: concatenating the per-source tables in order
// reproduces the combined table exactly.
type SourceTable struct {
	Label string
	File  string
	Table Table
}

// Meta summarizes the snapshot for UI controls and health output.
func (s *Snapshot) Meta() domain.DatasetMeta {
	meta := domain.DatasetMeta{
		TotalRows: s.Combined.Len(),
		LoadedAt:  s.LoadedAt,
		Analyses:  domain.AnalysisOptions(),
	}
	for _, src := range s.PerSource {
		sm := domain.SourceMeta{
			Label: src.Label,
			File:  filepath.Base(src.File),
			Rows:  src.Table.Len(),
		}
		if first, last, ok := src.Table.Bounds(); ok {
			sm.FirstDate = first.Format(time.DateOnly)
			sm.LastDate = last.Format(time.DateOnly)
		}
		meta.Sources = append(meta.Sources, sm)
	}
	if first, last, ok := s.Combined.Bounds(); ok {
		meta.FirstDate = first.Format(time.DateOnly)
		meta.LastDate = last.Format(time.DateOnly)
	}
	return meta
}

// Labels returns the source labels in configured order.
func (s *Snapshot) Labels() []string {
	labels := make([]string, len(s.PerSource))
	for i, src := range s.PerSource {
		labels[i] = src.Label
	}
	return labels
}

// HasSource reports whether label names a loaded source.
func (s *Snapshot) HasSource(label string) bool {
	for _, src := range s.PerSource {
		if src.Label == label {
			return true
		}
	}
	return false
}

// Loader reads the tracked source files into snapshots. Loading is
// all-or-nothing: the first missing or unreadable file fails the whole load.
type Loader struct {
	sources []config.SourceSpec
	logger  *slog.Logger
}

// NewLoader creates a loader over the configured (file, label) pairs.
func NewLoader(sources []config.SourceSpec, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{sources: sources, logger: logger}
}

// Sources returns the configured source specs.
func (l *Loader) Sources() []config.SourceSpec {
	return l.sources
}

// Load reads every configured source and assembles the combined table.
// Files are read concurrently; the first error cancels the remaining reads
// and fails the load. The assembled output follows the configured source
// order and is independent of scheduling.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if len(l.sources) == 0 {
		return nil, fmt.Errorf("no dataset sources configured")
	}

	start := time.Now()
	tables := make([]SourceTable, len(l.sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range l.sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			table, err := loadSourceFile(src.File, src.Label)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Label, err)
			}
			tables[i] = SourceTable{Label: src.Label, File: src.File, Table: table}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dataset load failed: %w", err)
	}

	var combined Table
	for _, src := range tables {
		combined.Rows = append(combined.Rows, src.Table.Rows...)
	}

	snap := &Snapshot{
		Combined:  combined,
		PerSource: tables,
		LoadedAt:  time.Now().UTC(),
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("sources", len(tables)),
		slog.Int("rows", combined.Len()),
		slog.Duration("duration", time.Since(start)))

	return snap, nil
}

// loadSourceFile reads one tabular file into date-sorted rows tagged with
// the source label. CSV and XLSX inputs are accepted, selected by extension.
func loadSourceFile(path, label string) (Table, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return Table{}, err
	}

	if len(records) < 2 {
		return Table{}, fmt.Errorf("file %s has no data rows", filepath.Base(path))
	}

	cols, err := findColumns(records[0])
	if err != nil {
		return Table{}, fmt.Errorf("file %s: %w", filepath.Base(path), err)
	}

	rows := make([]domain.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := parseRow(record, cols, label)
		if err != nil {
			return Table{}, fmt.Errorf("file %s row %d: %w", filepath.Base(path), i+2, err)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	return Table{Rows: rows}, nil
}

// readCSV reads all records from a CSV file, tolerating a UTF-8 BOM.
func readCSV(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Strip BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

// readXLSX reads the first sheet of an XLSX workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// columnIndices holds the indices of the required columns
type columnIndices struct {
	dateCol   int
	openCol   int
	highCol   int
	lowCol    int
	closeCol  int
	volumeCol int
}

// findColumns locates the required columns in the header. Matching is
// case/whitespace tolerant: exact name first, lowercased fallback. Zero-width
// characters and a leading BOM are stripped before matching.
func findColumns(header []string) (columnIndices, error) {
	indices := columnIndices{
		dateCol:   -1,
		openCol:   -1,
		highCol:   -1,
		lowCol:    -1,
		closeCol:  -1,
		volumeCol: -1,
	}

	for i, col := range header {
		cleanCol := strings.TrimSpace(col)
		cleanCol = strings.TrimPrefix(cleanCol, "\ufeff")
		cleanCol = strings.TrimLeft(cleanCol, "\u200b\u200c\u200d\u2060\ufeff")
		cleanCol = strings.TrimSpace(cleanCol)

		switch cleanCol {
		case "Date":
			indices.dateCol = i
		case "Open":
			indices.openCol = i
		case "High":
			indices.highCol = i
		case "Low":
			indices.lowCol = i
		case "Close":
			indices.closeCol = i
		case "Volume":
			indices.volumeCol = i
		default:
			switch strings.ToLower(cleanCol) {
			case "date", "trading_date":
				indices.dateCol = i
			case "open", "open_price", "openprice":
				indices.openCol = i
			case "high", "high_price", "highprice":
				indices.highCol = i
			case "low", "low_price", "lowprice":
				indices.lowCol = i
			case "close", "close_price", "closeprice", "adj close", "closing_price":
				if indices.closeCol == -1 {
					indices.closeCol = i
				}
			case "volume":
				indices.volumeCol = i
			}
		}
	}

	var missing []string
	if indices.dateCol == -1 {
		missing = append(missing, "Date")
	}
	if indices.openCol == -1 {
		missing = append(missing, "Open")
	}
	if indices.highCol == -1 {
		missing = append(missing, "High")
	}
	if indices.lowCol == -1 {
		missing = append(missing, "Low")
	}
	if indices.closeCol == -1 {
		missing = append(missing, "Close")
	}
	if indices.volumeCol == -1 {
		missing = append(missing, "Volume")
	}
	if len(missing) > 0 {
		return indices, fmt.Errorf("required columns not found: %v (header: %v)", missing, header)
	}

	return indices, nil
}

// dateLayouts lists the accepted date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func parseRow(record []string, cols columnIndices, label string) (domain.Row, error) {
	max := cols.dateCol
	for _, c := range []int{cols.openCol, cols.highCol, cols.lowCol, cols.closeCol, cols.volumeCol} {
		if c > max {
			max = c
		}
	}
	if len(record) <= max {
		return domain.Row{}, fmt.Errorf("short record: %d columns", len(record))
	}

	date, err := parseDate(record[cols.dateCol])
	if err != nil {
		return domain.Row{}, err
	}

	open, err := parsePrice("Open", record[cols.openCol])
	if err != nil {
		return domain.Row{}, err
	}
	high, err := parsePrice("High", record[cols.highCol])
	if err != nil {
		return domain.Row{}, err
	}
	low, err := parsePrice("Low", record[cols.lowCol])
	if err != nil {
		return domain.Row{}, err
	}
	closePrice, err := parsePrice("Close", record[cols.closeCol])
	if err != nil {
		return domain.Row{}, err
	}
	volume, err := parseVolume(record[cols.volumeCol])
	if err != nil {
		return domain.Row{}, err
	}

	return domain.Row{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
		Source: label,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return truncateToDay(d), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parsePrice(column, value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable %s value %q", column, value)
	}
	return f, nil
}

func parseVolume(value string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return n, nil
	}
	// Some exports write volume as a float
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return int64(f), nil
	}
	return 0, fmt.Errorf("unparseable Volume value %q", value)
}
