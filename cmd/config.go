// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds connection defaults loaded from a YAML file. Command-line
// flags take precedence over the file, and environment variables take
// precedence over both.
type Config struct {
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Imperial bool   `yaml:"imperial"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Baud: 38400,
	}
}

// defaultConfigPath returns the conventional config location, or "" if the
// user config directory cannot be determined.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "obdstat", "config.yaml")
}

// LoadConfig reads a config file and applies environment overrides.
// A missing file at the default location is not an error; a missing file
// at an explicitly requested path is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %v", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %v", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets OBDSTAT_* environment variables override file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OBDSTAT_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("OBDSTAT_BAUD"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil && baud > 0 {
			c.Baud = baud
		}
	}
	if v := os.Getenv("OBDSTAT_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("OBDSTAT_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("OBDSTAT_IMPERIAL"); v != "" {
		if imperial, err := strconv.ParseBool(v); err == nil {
			c.Imperial = imperial
		}
	}
}

// applyConfig fills in flag values that the user did not set on the
// command line from the loaded config.
func applyConfig(cmd *cobra.Command) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("port") && cfg.Port != "" {
		portName = cfg.Port
	}
	if !flags.Changed("baud") && cfg.Baud > 0 {
		baudRate = cfg.Baud
	}
	if !flags.Changed("url") && cfg.URL != "" {
		wsURL = cfg.URL
	}
	if !flags.Changed("username") && cfg.Username != "" {
		wsUsername = cfg.Username
	}
	if !flags.Changed("imperial") && cfg.Imperial {
		imperialUnits = true
	}
	return nil
}
