// pkg/config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration
type Config struct {
	// Analysis settings
	AnchorKernel        string  `yaml:"anchorKernel"`        // Operation each step is trimmed to ("none" disables)
	DecodeMaxDurationMs float64 `yaml:"decodeMaxDurationMs"` // Prefill cutoff in milliseconds

	// Reporter settings
	OutputFormat string `yaml:"outputFormat"` // Output format (csv, json)
	ReportDir    string `yaml:"reportDir"`    // Directory for generated reports
	PreviewRows  int    `yaml:"previewRows"`  // Rows printed in the stdout preview

	// Collection settings
	CollectEnvironment bool `yaml:"collectEnvironment"` // Record host information with each run
	StoreRuns          bool `yaml:"storeRuns"`          // Persist runs to the database
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		AnchorKernel:        "recover_decode_task",
		DecodeMaxDurationMs: 30,
		OutputFormat:        "csv",
		ReportDir:           "reports",
		PreviewRows:         10,
		CollectEnvironment:  true,
		StoreRuns:           false,
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	return config, nil
}

// SaveConfig writes the configuration to a file
func SaveConfig(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
