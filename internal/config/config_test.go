package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	// Save original environment to restore later
	originalEnv := make(map[string]string)
	envVars := []string{
		"STOCKDASH_SERVER_PORT", "STOCKDASH_SERVER_READ_TIMEOUT", "STOCKDASH_SERVER_WRITE_TIMEOUT",
		"STOCKDASH_SECURITY_ALLOWED_ORIGINS", "STOCKDASH_SECURITY_ENABLE_CORS",
		"STOCKDASH_LOGGING_LEVEL", "STOCKDASH_LOGGING_FORMAT", "STOCKDASH_LOGGING_OUTPUT",
		"STOCKDASH_PATHS_DATA_DIR", "STOCKDASH_PATHS_REPORTS_DIR", "STOCKDASH_PATHS_LOGS_DIR",
		"STOCKDASH_DATASET_WATCH_INTERVAL", "STOCKDASH_DATASET_WATCH_ENABLED",
		"STOCKDASH_WEBSOCKET_READ_BUFFER_SIZE", "STOCKDASH_WEBSOCKET_WRITE_BUFFER_SIZE",
	}

	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}

	defer func() {
		for _, envVar := range envVars {
			if val, exists := originalEnv[envVar]; exists && val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	clearEnv := func() {
		for _, envVar := range envVars {
			os.Unsetenv(envVar)
		}
	}

	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name:     "default configuration with no env vars",
			setupEnv: clearEnv,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)

				require.Len(t, cfg.Dataset.Sources, 2)
				assert.Equal(t, "Kaggle_AAPL", cfg.Dataset.Sources[0].Label)
				assert.Equal(t, "Kaggle_NFLX", cfg.Dataset.Sources[1].Label)
				assert.Equal(t, "AAPL.csv", filepath.Base(cfg.Dataset.Sources[0].File))
				assert.True(t, filepath.IsAbs(cfg.Dataset.Sources[0].File))
				assert.Equal(t, 30*time.Second, cfg.Dataset.WatchInterval)

				assert.NotEmpty(t, cfg.Paths.ExecutableDir)

				assert.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
				assert.Equal(t, 1024, cfg.WebSocket.WriteBufferSize)
				assert.Equal(t, 30*time.Second, cfg.WebSocket.PingPeriod)
				assert.Equal(t, 60*time.Second, cfg.WebSocket.PongWait)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func() {
				clearEnv()
				os.Setenv("STOCKDASH_SERVER_PORT", "9090")
				os.Setenv("STOCKDASH_SERVER_READ_TIMEOUT", "30s")
				os.Setenv("STOCKDASH_SECURITY_ALLOWED_ORIGINS", "http://example.com,https://example.com")
				os.Setenv("STOCKDASH_LOGGING_LEVEL", "debug")
				os.Setenv("STOCKDASH_DATASET_WATCH_INTERVAL", "5s")
				os.Setenv("STOCKDASH_WEBSOCKET_READ_BUFFER_SIZE", "2048")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 5*time.Second, cfg.Dataset.WatchInterval)
				assert.Equal(t, 2048, cfg.WebSocket.ReadBufferSize)
			},
		},
		{
			name: "invalid port number",
			setupEnv: func() {
				clearEnv()
				os.Setenv("STOCKDASH_SERVER_PORT", "99999")
			},
			wantErr: true,
		},
		{
			name: "zero port number",
			setupEnv: func() {
				clearEnv()
				os.Setenv("STOCKDASH_SERVER_PORT", "0")
			},
			wantErr: true,
		},
		{
			name: "negative timeout",
			setupEnv: func() {
				clearEnv()
				os.Setenv("STOCKDASH_SERVER_READ_TIMEOUT", "-5s")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

// TestLoadFromFile tests explicit config file loading
func TestLoadFromFile(t *testing.T) {
	t.Run("valid config file", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.yaml")
		content := `
server:
  port: 9191
dataset:
  sources:
    - file: AAPL.csv
      label: Kaggle_AAPL
    - file: NFLX.csv
      label: Kaggle_NFLX
    - file: MSFT.csv
      label: Kaggle_MSFT
  watch_interval: 10s
logging:
  level: warn
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		cfg, err := LoadFromFile(configPath)
		require.NoError(t, err)

		assert.Equal(t, 9191, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		require.Len(t, cfg.Dataset.Sources, 3)
		assert.Equal(t, "Kaggle_MSFT", cfg.Dataset.Sources[2].Label)
		assert.Equal(t, 10*time.Second, cfg.Dataset.WatchInterval)
		for _, src := range cfg.Dataset.Sources {
			assert.True(t, filepath.IsAbs(src.File))
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("server: [not a map"), 0644))

		_, err := LoadFromFile(configPath)
		assert.Error(t, err)
	})

	t.Run("duplicate source labels rejected", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.yaml")
		content := `
dataset:
  sources:
    - file: a.csv
      label: SAME
    - file: b.csv
      label: SAME
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		_, err := LoadFromFile(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate dataset source label")
	})

	t.Run("source without label rejected", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.yaml")
		content := `
dataset:
  sources:
    - file: a.csv
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		_, err := LoadFromFile(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no label")
	})
}

// TestDefault verifies the programmatic default configuration
func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultSources(), cfg.Dataset.Sources)
	assert.True(t, cfg.Dataset.WatchEnabled)
	assert.Equal(t, 30*time.Second, cfg.Dataset.WatchInterval)
}

// TestResolveDataFile verifies data file path resolution
func TestResolveDataFile(t *testing.T) {
	cfg := Default()
	cfg.Paths.ExecutableDir = "/opt/stockdash"

	t.Run("relative path joins data dir", func(t *testing.T) {
		got := cfg.ResolveDataFile("AAPL.csv")
		assert.Equal(t, filepath.Join("/opt/stockdash", "data", "AAPL.csv"), got)
	})

	t.Run("absolute path passes through", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "NFLX.csv")
		assert.Equal(t, abs, cfg.ResolveDataFile(abs))
	})
}

// TestMergeConfigs verifies env precedence over file values
func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 7070
	fileCfg.Logging.Level = "warn"
	fileCfg.Dataset.Sources = []SourceSpec{{File: "x.csv", Label: "X"}}

	envCfg := Config{}
	envCfg.Server.Port = 9090

	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 9090, merged.Server.Port, "env port wins")
	assert.Equal(t, "warn", merged.Logging.Level, "file level fills unset env")
	assert.Equal(t, fileCfg.Dataset.Sources, merged.Dataset.Sources)
}
