package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/robot"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// loadConfig reads the config file and applies command-line overrides. With
// --port set a missing file is not an error.
func loadConfig() (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(opts.Config)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || opts.Port == "" {
			return nil, fmt.Errorf("load %s: %w (run 'brickctl setup' first)", opts.Config, err)
		}
		def := robot.Default()
		if err := def.ApplyEnv(); err != nil {
			return nil, err
		}
		cfg = &def
	}

	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.Class != "" {
		cfg.Class = brick.Class(opts.Class)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, nil
}

// connect opens a session from the configuration. The returned context ends
// on Ctrl-C.
func connect() (context.Context, context.CancelFunc, brick.Device, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	return connectWith(cfg)
}

// connectWith opens a session from an already loaded configuration.
func connectWith(cfg *robot.Config) (context.Context, context.CancelFunc, brick.Device, error) {
	logger := robot.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	dev, err := robot.Connect(ctx, *cfg, robot.WithLogger(logger))
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, dev, nil
}

func mode(simultaneous bool) brick.Mode {
	if simultaneous {
		return brick.Simultaneous
	}
	return brick.Sequential
}

// parseVector parses "90,-45,0" into integers.
func parseVector(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse position %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

// hint explains the errors a user can act on.
func hint(err error) error {
	switch {
	case errors.Is(err, brick.ErrCompanionNotRunning):
		return fmt.Errorf("%w\nrun 'brickctl start' or set auto_start in the config", err)
	case errors.Is(err, brick.ErrTooManyActuators):
		return fmt.Errorf("%w\nEV3 has outputs A-D, NXT has A-C", err)
	case errors.Is(err, brick.ErrUnsupportedMode):
		return fmt.Errorf("%w\nNXT bricks move one output at a time; drop --simultaneous", err)
	}
	return err
}
