package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
input:
  path: forecasts.csv
output:
  path: out.json
  format: json
scheduler:
  capacity_mwh: 4
mqtt:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "forecasts.csv", cfg.Input.Path)
	require.Equal(t, "out.json", cfg.Output.Path)
	require.Equal(t, "json", cfg.Output.Format)
	require.Equal(t, 4.0, cfg.Scheduler.CapacityMWh)

	// Unset fields fall back to the unit defaults.
	require.Equal(t, 2.5, cfg.Scheduler.MaxPowerMW)
	require.Equal(t, 32, cfg.Scheduler.DischargeStart)
	require.Equal(t, "peakshave/schedule", cfg.MQTT.TopicPrefix)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"input":{"path":"forecasts.csv"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "schedule.csv", cfg.Output.Path)
	require.Equal(t, "csv", cfg.Output.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
input:
  path: forecasts.csv
output:
  format: csv
`)
	t.Setenv("PS_OUTPUT__FORMAT", "json")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "json", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load("config.toml")
		require.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
	t.Run("missing input path", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "output:\n  format: csv\n")
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "input path")
	})
	t.Run("bad output format", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "input:\n  path: f.csv\noutput:\n  format: xml\n")
		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown output format")
	})
	t.Run("bad scheduler window", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "input:\n  path: f.csv\nscheduler:\n  charge_end: 40\n")
		_, err := Load(path)
		require.Error(t, err)
	})
}
