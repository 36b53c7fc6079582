// Package config loads the squadplanner configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/squad"
	"gopkg.in/yaml.v3"
)

const (
	BackendDOM     = "dom"
	BackendBrowser = "browser"
)

type Config struct {
	Listen    string `yaml:"listen"`
	LogLevel  string `yaml:"log_level"`
	PlayersDB string `yaml:"players_db"`
	StorePath string `yaml:"store_path"`

	Planner PlannerConfig `yaml:"planner"`
	Verify  VerifyConfig  `yaml:"verify"`
}

type PlannerConfig struct {
	DefaultRole string `yaml:"default_role"`
	Budget      int    `yaml:"budget"`
}

// VerifyConfig configures the role switch check.
type VerifyConfig struct {
	Backend    string   `yaml:"backend"` // dom or browser
	Order      []string `yaml:"order"`
	Headless   bool     `yaml:"headless"`
	ControlURL string   `yaml:"control_url"` // attach to a running Chrome instead of launching one
	BrowserBin string   `yaml:"browser_bin"` // Chrome binary to launch; empty lets rod find or download one
	Timeout    string   `yaml:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen:    ":8080",
		LogLevel:  "info",
		PlayersDB: "players_database.json",
		Planner: PlannerConfig{
			DefaultRole: planner.RoleGoalkeeper.String(),
			Budget:      squad.DefaultBudget,
		},
		Verify: VerifyConfig{
			Backend:  BackendDOM,
			Headless: true,
			Timeout:  "30s",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SQUADPLANNER_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("SQUADPLANNER_PLAYERS_DB"); v != "" {
		c.PlayersDB = v
	}
	if v := os.Getenv("SQUADPLANNER_STORE"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("SQUADPLANNER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks values that would otherwise only fail deep inside a command.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.DefaultRole(); err != nil {
		errs = append(errs, fmt.Errorf("planner.default_role: %w", err))
	}
	if c.Planner.Budget < 0 {
		errs = append(errs, errors.New("planner.budget must not be negative"))
	}
	switch c.Verify.Backend {
	case BackendDOM, BackendBrowser:
	default:
		errs = append(errs, fmt.Errorf("verify.backend: unknown backend %q", c.Verify.Backend))
	}
	if _, err := c.VerifyOrder(); err != nil {
		errs = append(errs, fmt.Errorf("verify.order: %w", err))
	}
	if _, err := c.VerifyTimeout(); err != nil {
		errs = append(errs, fmt.Errorf("verify.timeout: %w", err))
	}

	return errors.Join(errs...)
}

// DefaultRole is the role new planner sessions start on.
func (c *Config) DefaultRole() (planner.Role, error) {
	if c.Planner.DefaultRole == "" {
		return planner.RoleGoalkeeper, nil
	}
	return planner.ParseRole(c.Planner.DefaultRole)
}

// VerifyOrder is the click order of the role switch check. It is nil when no
// order is configured, which leaves the choice to the page's button order.
func (c *Config) VerifyOrder() ([]planner.Role, error) {
	if len(c.Verify.Order) == 0 {
		return nil, nil
	}
	return planner.ParseRoleOrder(strings.Join(c.Verify.Order, ","))
}

func (c *Config) VerifyTimeout() (time.Duration, error) {
	if c.Verify.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.Verify.Timeout)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
