package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bisect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(AddrEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Setenv(AddrEnv, "")

	path := writeFile(t, `
server:
  addr: "127.0.0.1:9090"
solver:
  tol: 0.001
store:
  driver: sqlite
  path: /tmp/runs.db
log:
  level: debug
`)

	// durations are read from strings
	retained, err := Load(writeFile(t, "server:\n  run_retention: 90s\n"))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, retained.Server.RunRetention)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 400, cfg.Server.PlotPoints, "unset keys keep defaults")
	assert.Equal(t, 0.001, cfg.Solver.Tol)
	assert.Equal(t, 100, cfg.Solver.MaxIter)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvAddr(t *testing.T) {
	t.Setenv(AddrEnv, ":7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "server: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"no addr":         func(c *Config) { c.Server.Addr = "" },
		"few plot points": func(c *Config) { c.Server.PlotPoints = 1 },
		"negative retain": func(c *Config) { c.Server.RunRetention = -time.Second },
		"zero tol":        func(c *Config) { c.Solver.Tol = 0 },
		"zero max iter":   func(c *Config) { c.Solver.MaxIter = 0 },
		"sqlite no path":  func(c *Config) { c.Store.Driver = DriverSQLite },
		"unknown driver":  func(c *Config) { c.Store.Driver = "redis" },
		"bad level":       func(c *Config) { c.Log.Level = "loud" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(AddrEnv, "")

	cfg := Default()
	cfg.Store = StoreConfig{Driver: DriverSQLite, Path: "runs.db"}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
