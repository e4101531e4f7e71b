package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"stockdash/internal/app"
	"stockdash/pkg/contracts"
)

// Embedded dashboard frontend files
//
//go:embed all:frontend
var frontendFiles embed.FS

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	// Flags win over config file and environment; the config loader reads
	// these variables last.
	if *configPath != "" {
		os.Setenv("STOCKDASH_CONFIG", *configPath)
	}
	if *port != 0 {
		os.Setenv("STOCKDASH_SERVER_PORT", fmt.Sprintf("%d", *port))
	}
	if *logLevel != "" {
		os.Setenv("STOCKDASH_LOGGING_LEVEL", *logLevel)
	}

	var frontendFS fs.FS
	if sub, err := fs.Sub(frontendFiles, "frontend"); err == nil {
		frontendFS = sub
	} else {
		slog.Warn("Frontend embedding failed", slog.String("error", err.Error()))
	}

	application, err := app.NewApplication(frontendFS)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
