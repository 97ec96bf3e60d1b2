package gdbstub

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
	if cfg.RecvTimeout != time.Second {
		t.Errorf("RecvTimeout = %v, want 1s", cfg.RecvTimeout)
	}
	if cfg.BreakPollInterval != 100*time.Millisecond {
		t.Errorf("BreakPollInterval = %v, want 100ms", cfg.BreakPollInterval)
	}
}

func TestApplyDefaultsFillsZeroFields(t *testing.T) {
	var cfg ServerConfig
	cfg.applyDefaults()
	if cfg.Architecture != ARMThumb {
		t.Errorf("Architecture = %q, want %q", cfg.Architecture, ARMThumb)
	}
	if cfg.ListenAddr == "" {
		t.Errorf("ListenAddr left empty after applyDefaults")
	}
	if cfg.RecvTimeout <= 0 || cfg.BreakPollInterval <= 0 {
		t.Errorf("zero-valued durations were not defaulted: %+v", cfg)
	}
}

func TestValidateRejectsUnsupportedArchitecture(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Architecture = "mips"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error for an unsupported architecture")
	}
	if _, ok := err.(*ErrInvalidArchitecture); !ok {
		t.Fatalf("error type = %T, want *ErrInvalidArchitecture", err)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "gdbstub-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString("listen_addr: 127.0.0.1:9999\nlog_wire: true\n"); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:9999", cfg.ListenAddr)
	}
	if !cfg.LogWire {
		t.Errorf("LogWire = false, want true")
	}
	if cfg.Architecture != ARMThumb {
		t.Errorf("Architecture = %q, want defaulted to %q", cfg.Architecture, ARMThumb)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/gdbstub.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
