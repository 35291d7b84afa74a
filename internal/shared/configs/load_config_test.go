package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.yml")
	require.NoError(t, err)
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	path := writeTempConfig(t, `log:
  level: debug
  file: ./logs/nginx_data.log
file_storage:
  root_dir: ./data
collector:
  workers: 4
  source_timeout: 30
  pattern: "nginx-access-ui.log*.gz"
report:
  output_dir: ./out
  output_name: report.html
  console_top: 5
  keep_partials: true
metrics:
  addr: "localhost:9100"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "./logs/nginx_data.log", cfg.Log.File)
	assert.Equal(t, "./data", cfg.FileStorage.RootDir)
	assert.Equal(t, 4, cfg.Collector.Workers)
	assert.Equal(t, 30, cfg.Collector.SourceTimeout)
	assert.Equal(t, "nginx-access-ui.log*.gz", cfg.Collector.Pattern)
	assert.Equal(t, "./out", cfg.Report.OutputDir)
	assert.Equal(t, "report.html", cfg.Report.OutputName)
	assert.Equal(t, 5, cfg.Report.ConsoleTop)
	assert.True(t, cfg.Report.KeepPartials)
	assert.Equal(t, "localhost:9100", cfg.Metrics.Addr)
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ".", cfg.FileStorage.RootDir)
	assert.Equal(t, 0, cfg.Collector.Workers)
	assert.Equal(t, "*.gz", cfg.Collector.Pattern)
	assert.Equal(t, "./reports", cfg.Report.OutputDir)
	assert.Equal(t, 10, cfg.Report.ConsoleTop)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.yml")
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	path := writeTempConfig(t, `log:
  level: loud
`)

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "log.level (oneof=")
}

func TestLoadConfig_InvalidWorkersRange(t *testing.T) {
	path := writeTempConfig(t, `collector:
  workers: 1000
`)

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "collector.workers (max=256)")
}

func TestLoadConfig_EmptyFileStorageRootDir(t *testing.T) {
	path := writeTempConfig(t, `file_storage:
  root_dir: ""
`)

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), " filestorage.rootdir")
}

func TestLoadConfig_InvalidMetricsAddr(t *testing.T) {
	path := writeTempConfig(t, `metrics:
  addr: "not an address"
`)

	cfg, err := LoadConfig(path)
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "metrics.addr")
}

func TestLoadConfig_ShippedExample(t *testing.T) {
	cfg, err := LoadConfig("../../../configs/configs.yml")
	require.NoError(t, err)
	assert.Equal(t, "./logs", cfg.FileStorage.RootDir)
	assert.Equal(t, "nginx-access-ui.log-*.gz", cfg.Collector.Pattern)
	assert.Empty(t, cfg.Metrics.Addr)
}
