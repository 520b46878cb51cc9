package main

import (
	"fmt"
	"strings"

	"github.com/gwillem/brickctl/pkg/brick"
)

type SpinCommand struct{}

// Execute takes one signed power per output; 0 brakes and _ leaves the output
// running as it is.
func (c *SpinCommand) Execute(args []string) error {
	speeds, err := brick.ParseValues(args)
	if err != nil {
		return err
	}

	ctx, cancel, dev, err := connect()
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	spinner, ok := dev.(brick.Spinner)
	if !ok {
		return fmt.Errorf("%s bricks cannot spin outputs", dev.Class())
	}
	return hint(spinner.Spin(ctx, speeds))
}

type StopCommand struct{}

func (c *StopCommand) Execute(args []string) error {
	ctx, cancel, dev, err := connect()
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	spinner, ok := dev.(brick.Spinner)
	if !ok {
		return fmt.Errorf("%s bricks have nothing to stop", dev.Class())
	}
	return spinner.Stop(ctx)
}

type StartCommand struct {
	Program string `long:"program" description:"Program file on the brick (default from config, then MindCtrl.rxe)"`
	NoWait  bool   `long:"no-wait" description:"Return without waiting for the program to settle"`
}

func (c *StartCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	program := c.Program
	if program == "" {
		program = cfg.Program
	}
	// The program is started below, once
	cfg.AutoStart = false

	ctx, cancel, dev, err := connectWith(cfg)
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	starter, ok := dev.(brick.ProgramStarter)
	if !ok {
		return fmt.Errorf("%s bricks need no companion program", dev.Class())
	}
	if err := starter.Start(ctx, program, !c.NoWait); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Program started."))
	return nil
}

type SelfTestCommand struct{}

func (c *SelfTestCommand) Execute(args []string) error {
	ctx, cancel, dev, err := connect()
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	tester, ok := dev.(brick.SelfTester)
	if !ok {
		return fmt.Errorf("%s bricks have no self-test", dev.Class())
	}
	fmt.Println(headerStyle.Render("Self-test") + dimStyle.Render(" ("+string(dev.Class())+")"))
	if err := tester.SelfTest(ctx); err != nil {
		return hint(err)
	}
	fmt.Println(successStyle.Render("Self-test complete."))
	return nil
}

func splitList(s string) []string {
	return strings.Split(s, ",")
}
