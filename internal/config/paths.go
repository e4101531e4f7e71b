package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths
// This is the single source of truth for file layout around the executable
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// Well-known report files
	StatsCSV    string
	StatsXLSX   string
	ReturnsCSV  string
	MatrixCSV   string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are ALWAYS relative to the executable directory, never the
// current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// dist/
	//   ├── data/       (source CSV/XLSX files)
	//   ├── reports/    (exported statistics reports)
	//   └── logs/       (application logs)

	reportsDir := filepath.Join(exeDir, "reports")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       filepath.Join(exeDir, "data"),
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		StatsCSV:   filepath.Join(reportsDir, "summary_stats.csv"),
		StatsXLSX:  filepath.Join(reportsDir, "summary_stats.xlsx"),
		ReturnsCSV: filepath.Join(reportsDir, "returns.csv"),
		MatrixCSV:  filepath.Join(reportsDir, "correlation_matrix.csv"),
	}

	return paths, nil
}

// WithReportsDir returns a copy of the paths with the reports directory and
// the well-known report files rebased onto dir.
func (p *Paths) WithReportsDir(dir string) *Paths {
	rebased := *p
	rebased.ReportsDir = dir
	rebased.StatsCSV = filepath.Join(dir, "summary_stats.csv")
	rebased.StatsXLSX = filepath.Join(dir, "summary_stats.xlsx")
	rebased.ReturnsCSV = filepath.Join(dir, "returns.csv")
	rebased.MatrixCSV = filepath.Join(dir, "correlation_matrix.csv")
	return &rebased
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetRelativePath returns a path relative to the executable directory
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// GetDataFilePath returns the path to a source data file
func (p *Paths) GetDataFilePath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetDatedReportPath returns the path for a dated report file
// (e.g. summary_stats_20240115.csv)
func (p *Paths) GetDatedReportPath(prefix string, date time.Time, ext string) string {
	filename := fmt.Sprintf("%s_%s.%s", prefix, date.Format("20060102"), ext)
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("report_files",
			slog.String("stats_csv", p.StatsCSV),
			slog.String("stats_xlsx", p.StatsXLSX),
			slog.String("returns_csv", p.ReturnsCSV),
			slog.String("matrix_csv", p.MatrixCSV),
		))
}
