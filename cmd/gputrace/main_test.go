package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"gputrace/pkg/config"
)

func TestFileConfigMissingFile(t *testing.T) {
	got := fileConfig(zap.NewNop(), filepath.Join(t.TempDir(), "absent.yaml"))
	if !reflect.DeepEqual(got, config.DefaultConfig()) {
		t.Errorf("fileConfig() = %+v, want defaults", got)
	}
}

func TestFileConfigUnparsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	got := fileConfig(zap.NewNop(), path)
	if !reflect.DeepEqual(got, config.DefaultConfig()) {
		t.Errorf("fileConfig() = %+v, want defaults", got)
	}
}

func TestFileConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "anchorKernel: attention_core\noutputFormat: json\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := fileConfig(zap.NewNop(), path)
	if cfg.AnchorKernel != "attention_core" {
		t.Errorf("AnchorKernel = %q, want attention_core", cfg.AnchorKernel)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("OutputFormat = %q, want json", cfg.OutputFormat)
	}
	// Fields absent from the file keep their defaults.
	if cfg.DecodeMaxDurationMs != config.DefaultConfig().DecodeMaxDurationMs {
		t.Errorf("DecodeMaxDurationMs = %v, want default", cfg.DecodeMaxDurationMs)
	}
}
