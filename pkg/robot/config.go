package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/transport"
)

// DryRunPort opens a simulated brick that accepts every command.
const DryRunPort = "TEST"

// Config holds the session configuration. Every scalar can be overridden from
// the environment.
type Config struct {
	Class         brick.Class `json:"class" env:"BRICKCTL_CLASS"`
	Port          string      `json:"port" env:"BRICKCTL_PORT"`
	BaudRate      int         `json:"baud_rate,omitempty" env:"BRICKCTL_BAUD_RATE"`
	ReadTimeoutMs int         `json:"read_timeout_ms,omitempty" env:"BRICKCTL_READ_TIMEOUT_MS"`
	DelayMs       int         `json:"delay_ms,omitempty" env:"BRICKCTL_DELAY_MS"`
	AckMaxPolls   int         `json:"ack_max_polls,omitempty" env:"BRICKCTL_ACK_MAX_POLLS"`
	AckIntervalMs int         `json:"ack_interval_ms,omitempty" env:"BRICKCTL_ACK_INTERVAL_MS"`
	Program       string      `json:"program,omitempty" env:"BRICKCTL_PROGRAM"`
	AutoStart     bool        `json:"auto_start,omitempty" env:"BRICKCTL_AUTO_START"`
	FrameLog      string      `json:"frame_log,omitempty" env:"BRICKCTL_FRAME_LOG"`
	LogLevel      string      `json:"log_level,omitempty" env:"BRICKCTL_LOG_LEVEL"`
	Calibration   Calibration `json:"calibration,omitempty"`
}

// Default returns a configuration for an EV3 brick with no port set.
func Default() Config {
	return Config{
		Class:         brick.ClassEV3,
		BaudRate:      transport.DefaultBaudRate,
		ReadTimeoutMs: 15000,
		LogLevel:      "info",
	}
}

// ReadTimeout is the serial read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

// Delay is the pause after every completed motion.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// AckInterval is the pause between two mailbox checks.
func (c *Config) AckInterval() time.Duration {
	return time.Duration(c.AckIntervalMs) * time.Millisecond
}

// Validate checks the fields Connect depends on.
func (c *Config) Validate() error {
	if _, err := brick.ParseClass(string(c.Class)); err != nil {
		return err
	}
	if c.Port == "" {
		return fmt.Errorf("no port configured")
	}
	if c.ReadTimeoutMs < 0 || c.DelayMs < 0 || c.AckIntervalMs < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	for name := range c.Calibration {
		if !hasOutput(c.Class, name) {
			return fmt.Errorf("calibration for unknown output %q", name)
		}
	}
	return nil
}

func hasOutput(class brick.Class, name OutputName) bool {
	for _, o := range Outputs(class) {
		if o == name {
			return true
		}
	}
	return false
}

// ApplyEnv overrides fields from BRICKCTL_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// LoadConfigFrom loads configuration from a specific file. Fields missing from
// the file keep their defaults, and the environment is applied last.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
