package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/nxt"
	"github.com/gwillem/brickctl/pkg/robot"
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("brickctl setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg := robot.Default()
	if existing, err := robot.LoadConfigFrom(opts.Config); err == nil {
		cfg = *existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	class := string(cfg.Class)
	port := cfg.Port
	timeout := strconv.Itoa(cfg.ReadTimeoutMs)
	delay := strconv.Itoa(cfg.DelayMs)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which brick is connected?").
				Options(
					huh.NewOption("EV3 (outputs A-D)", string(brick.ClassEV3)),
					huh.NewOption("NXT (outputs A-C, companion program)", string(brick.ClassNXT)),
				).
				Value(&class),
			huh.NewInput().
				Title("Serial port").
				Description("e.g. /dev/rfcomm0 or COM5; TEST for a dry run").
				Value(&port).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("port is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Read timeout (ms)").
				Value(&timeout).
				Validate(validateMillis),
			huh.NewInput().
				Title("Pause after each motion (ms)").
				Value(&delay).
				Validate(validateMillis),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		return nil
	}

	cfg.Class = brick.Class(class)
	cfg.Port = port
	cfg.ReadTimeoutMs, _ = strconv.Atoi(timeout)
	cfg.DelayMs, _ = strconv.Atoi(delay)

	if cfg.Class == brick.ClassNXT {
		if cfg.Program == "" {
			cfg.Program = nxt.DefaultProgram
		}
		autoStart := cfg.AutoStart
		nxtForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Companion program").
					Value(&cfg.Program),
				huh.NewConfirm().
					Title("Start the companion program on connect?").
					Value(&autoStart),
			),
		)
		if err := nxtForm.Run(); err != nil {
			fmt.Println()
			return nil
		}
		cfg.AutoStart = autoStart
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save %s: %w", opts.Config, err)
	}
	fmt.Println(successStyle.Render("Configuration saved to " + opts.Config))

	runTest := false
	confirm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Run a self-test now?").
				Description("Every output turns forward and back").
				Value(&runTest),
		),
	)
	if err := confirm.Run(); err != nil || !runTest {
		return nil
	}
	return (&SelfTestCommand{}).Execute(nil)
}

func validateMillis(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a number of milliseconds")
	}
	if v < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
