package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	for _, name := range []string{"config.json", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if *config.Server != *DefaultServerConfig() || *config.Analysis != *DefaultAnalysisConfig() {
				t.Errorf("expected defaults, got %+v %+v", config.Server, config.Analysis)
			}
			if _, err = os.Stat(path); err != nil {
				t.Fatalf("expected default config to be written: %v", err)
			}

			// The written file loads back to the same values.
			again, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("reloading default config failed: %v", err)
			}
			if *again.Server != *config.Server || *again.Analysis != *config.Analysis {
				t.Errorf("reloaded config differs: %+v %+v", again.Server, again.Analysis)
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "JSON",
			file: "config.json",
			content: `{
  "server_config": {"api_addr": ":9000", "log_level": "debug"},
  "analysis_config": {"output_format": "yaml", "record_runs": true}
}`,
		},
		{
			name: "TOML",
			file: "config.toml",
			content: `[server_config]
api_addr = ":9000"
log_level = "debug"

[analysis_config]
output_format = "yaml"
record_runs = true
`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if config.Server.ApiAddr != ":9000" || config.Server.LogLevel != "debug" {
				t.Errorf("server overrides not applied: %+v", config.Server)
			}
			if config.Analysis.OutputFormat != formatYAML || !config.Analysis.RecordRuns {
				t.Errorf("analysis overrides not applied: %+v", config.Analysis)
			}
			// Unset keys keep their defaults.
			if config.Server.MaxBodyBytes != DefaultServerConfig().MaxBodyBytes {
				t.Errorf("max_body_bytes = %d, want default", config.Server.MaxBodyBytes)
			}
			if config.Analysis.ListLimit != DefaultAnalysisConfig().ListLimit {
				t.Errorf("list_limit = %d, want default", config.Analysis.ListLimit)
			}
		})
	}
}

func TestLoadConfigNullSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server_config": null}`), 0o644); err != nil {
		t.Fatal(err)
	}
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Server == nil || config.Server.ApiAddr != DefaultServerConfig().ApiAddr {
		t.Errorf("expected default server config, got %+v", config.Server)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}
