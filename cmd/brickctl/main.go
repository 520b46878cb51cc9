package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config   string `long:"config" short:"c" default:"brickctl.json" description:"Configuration file"`
	Port     string `long:"port" short:"p" description:"Override the configured port (TEST for a dry run)"`
	Class    string `long:"class" choice:"ev3" choice:"nxt" description:"Override the configured device class"`
	LogLevel string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Override the configured log level"`

	Setup    SetupCommand    `command:"setup" description:"Choose device class and port, save the configuration"`
	Rotate   RotateCommand   `command:"rotate" description:"Rotate outputs by relative angles"`
	RotateTo RotateToCommand `command:"rotate-to" alias:"goto" description:"Move outputs through absolute positions"`
	Spin     SpinCommand     `command:"spin" description:"Run outputs at a power until stopped (EV3)"`
	Stop     StopCommand     `command:"stop" description:"Brake every output (EV3)"`
	Start    StartCommand    `command:"start" description:"Start the companion program (NXT)"`
	Plan     PlanCommand     `command:"plan" description:"Show the step plan between two positions"`
	Run      RunCommand      `command:"run" description:"Execute a step plan with a live progress view"`
	SelfTest SelfTestCommand `command:"selftest" description:"Rotate every output forward and back"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "brickctl - drive EV3 and NXT brick motors over a serial link.\n\n" +
		"Angles are given per output in port order; use _ to leave an output alone.\n" +
		"Put -- before the first negative value, e.g. brickctl rotate -- -90 _ 45"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
