package gdbstub

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// ArchitectureType names a guest CPU architecture this core knows how to
// describe to GDB. Only Thumb/ARM is supported today; hardware breakpoints
// and other architectures are out of scope.
type ArchitectureType string

// ARMThumb is the only architecture this core currently reports.
const ARMThumb ArchitectureType = "thumb"

// ServerConfig is the ambient configuration for a Server, loadable from a
// YAML file and overridable by CLI flags in cmd/gdbserver.
type ServerConfig struct {
	// Architecture selects the register layout and target description
	// advertised to the client.
	Architecture ArchitectureType `yaml:"architecture"`

	// ListenAddr is the TCP address the server binds, e.g. "127.0.0.1:10001".
	ListenAddr string `yaml:"listen_addr"`

	// RecvTimeout bounds how long a single socket read blocks before the
	// session loop re-checks for shutdown. Mirrors the original's 1s
	// select timeout.
	RecvTimeout time.Duration `yaml:"recv_timeout"`

	// BreakPollInterval is how often continue-all polls for a breakpoint
	// hit while threads are running.
	BreakPollInterval time.Duration `yaml:"break_poll_interval"`

	// LogWire, LogDispatch and LogController name the wire, dispatch and
	// controller log components. They are loaded from YAML but neither New
	// nor cmd/gdbserver reads them: which components log is set only by
	// logflags.Setup (the --log and --verbose flags).
	LogWire       bool `yaml:"log_wire"`
	LogDispatch   bool `yaml:"log_dispatch"`
	LogController bool `yaml:"log_controller"`
}

// DefaultConfig returns a ServerConfig with the values the original
// implementation hard-coded: a 1 second recv timeout and a 100ms break
// poll interval.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Architecture:      ARMThumb,
		ListenAddr:        "0.0.0.0:10001",
		RecvTimeout:       1 * time.Second,
		BreakPollInterval: 100 * time.Millisecond,
	}
}

// applyDefaults fills in zero-valued fields with their defaults. Booleans
// have no meaningful "unset" value so they are left alone.
func (c *ServerConfig) applyDefaults() {
	def := DefaultConfig()
	if c.Architecture == "" {
		c.Architecture = def.Architecture
	}
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.RecvTimeout <= 0 {
		c.RecvTimeout = def.RecvTimeout
	}
	if c.BreakPollInterval <= 0 {
		c.BreakPollInterval = def.BreakPollInterval
	}
}

// Validate checks the configuration is usable, returning a descriptive
// error rather than panicking, since config errors are a reachable runtime
// condition (a bad file on disk) rather than a programmer error.
func (c ServerConfig) Validate() error {
	if c.Architecture != ARMThumb {
		return &ErrInvalidArchitecture{Got: c.Architecture}
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("gdbstub: listen address must not be empty")
	}
	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults to any
// zero-valued field, and validates the result.
func LoadConfig(path string) (ServerConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("gdbstub: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("gdbstub: parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
