package main

import (
	"fmt"

	"github.com/gwillem/brickctl/pkg/brick"
)

type RotateCommand struct {
	Speed        int  `long:"speed" short:"s" default:"100" description:"Speed in percent (1-100)"`
	Simultaneous bool `long:"simultaneous" short:"m" description:"Move all outputs together (EV3 only)"`
}

func (c *RotateCommand) Execute(args []string) error {
	angles, err := brick.ParseValues(args)
	if err != nil {
		return err
	}

	ctx, cancel, dev, err := connect()
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	if err := dev.Rotate(ctx, angles, c.Speed, mode(c.Simultaneous)); err != nil {
		return hint(err)
	}
	fmt.Println(successStyle.Render("Done."))
	return nil
}

type RotateToCommand struct {
	Speed        int  `long:"speed" short:"s" default:"100" description:"Speed in percent (1-100)"`
	Simultaneous bool `long:"simultaneous" short:"m" description:"Move all outputs together (EV3 only)"`
}

// Execute visits each argument in turn. An argument is a comma separated list
// of positions, one per output, with _ for outputs that stay put.
func (c *RotateToCommand) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no positions given")
	}
	var targets [][]brick.Value
	for _, a := range args {
		vs, err := brick.ParseValues(splitList(a))
		if err != nil {
			return err
		}
		targets = append(targets, vs)
	}

	ctx, cancel, dev, err := connect()
	if err != nil {
		return err
	}
	defer cancel()
	defer dev.Disconnect()

	for _, t := range targets {
		if err := dev.RotateTo(ctx, t, c.Speed, mode(c.Simultaneous)); err != nil {
			return hint(err)
		}
		fmt.Printf("  at %s\n", brick.FormatValues(t))
	}
	fmt.Println(successStyle.Render("Done."))
	return nil
}
