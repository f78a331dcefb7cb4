package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
)

// ServerConfig holds settings for storage, logging and the HTTP API.
type ServerConfig struct {
	ApiAddr            string `json:"api_addr" toml:"api_addr"`
	LogLevel           string `json:"log_level" toml:"log_level"`
	DatabasePath       string `json:"database_path" toml:"database_path"`
	MaxBodyBytes       int64  `json:"max_body_bytes" toml:"max_body_bytes"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" toml:"shutdown_timeout_sec"`
}

// AnalysisConfig holds settings for how analyses are reported and recorded.
type AnalysisConfig struct {
	OutputFormat string `json:"output_format" toml:"output_format"`
	RecordRuns   bool   `json:"record_runs" toml:"record_runs"`
	ListLimit    int    `json:"list_limit" toml:"list_limit"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server   *ServerConfig   `json:"server_config" toml:"server_config"`
	Analysis *AnalysisConfig `json:"analysis_config" toml:"analysis_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ApiAddr:            ":7279",
		LogLevel:           "info",
		DatabasePath:       "./data/vowelchain.db",
		MaxBodyBytes:       8 << 20,
		ShutdownTimeoutSec: 10,
	}
}

// DefaultAnalysisConfig creates an analysis configuration with default values.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		OutputFormat: formatText,
		RecordRuns:   false,
		ListLimit:    20,
	}
}

// DefaultConfig returns a Config with every section set to its defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:   DefaultServerConfig(),
		Analysis: DefaultAnalysisConfig(),
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func encodeConfig(config *Config, path string) ([]byte, error) {
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return json.MarshalIndent(config, "", "  ")
}

// LoadConfig reads the configuration from a JSON or TOML file, chosen by the
// file extension. If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = encodeConfig(config, path)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Still usable with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A section explicitly set to null falls back to its defaults.
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Analysis == nil {
		config.Analysis = DefaultAnalysisConfig()
	}

	return config, nil
}
