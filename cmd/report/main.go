// Command report generates the dashboard report bundle offline: summary
// statistics in CSV and XLSX, daily and cumulative returns, the correlation
// matrix and per-source history files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"stockdash/internal/config"
	"stockdash/internal/dataset"
	"stockdash/internal/infrastructure"
	"stockdash/internal/services"
	api "stockdash/pkg/contracts/api/v1"
)

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	tickers := flag.String("tickers", "", "comma-separated source labels (default: all)")
	start := flag.String("start", "", "start date (YYYY-MM-DD, default: dataset start)")
	end := flag.String("end", "", "end date (YYYY-MM-DD, default: dataset end)")
	outputDir := flag.String("out", "", "output directory (default: reports dir next to the executable)")
	format := flag.String("format", "all", "report format: all, csv or xlsx")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("STOCKDASH_CONFIG", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		logger.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		paths = paths.WithReportsDir(*outputDir)
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	loader := dataset.NewLoader(cfg.Dataset.Sources, logger)
	store := dataset.NewStore(loader, logger, nil)
	if err := store.Load(ctx); err != nil {
		logger.Error("Dataset load failed", "error", err)
		os.Exit(1)
	}

	snap, _ := store.Dataset()
	logger.Info("Dataset loaded",
		slog.Int("total_rows", snap.Combined.Len()),
		slog.Int("sources", len(snap.PerSource)))

	dashboard := services.NewDashboardService(store, logger)
	export := services.NewExportService(dashboard, paths, logger)

	req := api.StatsRequest{
		DateRangeRequest: api.DateRangeRequest{Start: *start, End: *end},
		Tickers:          splitTickers(*tickers),
	}

	switch *format {
	case "all":
		err = export.GenerateReports(ctx, req)
	case "csv", "xlsx":
		var path string
		path, err = export.ExportStats(ctx, api.ExportRequest{
			DateRangeRequest: req.DateRangeRequest,
			Tickers:          req.Tickers,
			Format:           *format,
		})
		if err == nil {
			fmt.Println(path)
		}
	default:
		logger.Error("Unknown format", slog.String("format", *format))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Reports written", slog.String("output_dir", paths.ReportsDir))
}

func splitTickers(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
