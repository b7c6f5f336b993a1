package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dekendrabaduwal/College-course/internal/logger"
	"github.com/Dekendrabaduwal/College-course/internal/rootfind"
)

// Store drivers
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// AddrEnv overrides Server.Addr when set.
const AddrEnv = "BISECT_ADDR"

// Config is the top level configuration file (bisect.yaml)
type Config struct {
	Server ServerConfig `yaml:"server"`
	Solver SolverConfig `yaml:"solver"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// PlotPoints is how many samples /start returns for plotting f
	PlotPoints int `yaml:"plot_points"`

	// RunRetention is how long a finished run stays in memory for /stream
	// and /export before only the history store has it.
	RunRetention time.Duration `yaml:"run_retention"`
}

// SolverConfig holds defaults applied when a request leaves them out.
type SolverConfig struct {
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", PlotPoints: 400, RunRetention: 10 * time.Minute},
		Solver: SolverConfig{Tol: 1e-6, MaxIter: rootfind.DefaultMaxIter},
		Store:  StoreConfig{Driver: DriverMemory},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if addr := os.Getenv(AddrEnv); addr != "" {
		cfg.Server.Addr = addr
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.PlotPoints < 2 {
		return fmt.Errorf("server.plot_points must be at least 2, got %d", c.Server.PlotPoints)
	}
	if c.Server.RunRetention < 0 {
		return fmt.Errorf("server.run_retention must not be negative, got %v", c.Server.RunRetention)
	}
	if !(c.Solver.Tol > 0) {
		return fmt.Errorf("solver.tol must be positive, got %v", c.Solver.Tol)
	}
	if c.Solver.MaxIter <= 0 {
		return fmt.Errorf("solver.max_iter must be positive, got %d", c.Solver.MaxIter)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
