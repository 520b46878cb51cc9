package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Parity of the serial line. EV3 bricks use none, NXT bricks use even.
type Parity int

const (
	NoParity Parity = iota
	EvenParity
)

// DefaultBaudRate is the rate used by both brick generations over Bluetooth SPP.
const DefaultBaudRate = 28800

// SerialConfig describes how to open a serial channel.
type SerialConfig struct {
	Port        string
	BaudRate    int
	Parity      Parity
	ReadTimeout time.Duration
}

// OpenSerial opens a serial port as a Channel.
func OpenSerial(cfg SerialConfig) (Channel, error) {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if cfg.Parity == EvenParity {
		mode.Parity = serial.EvenParity
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}

	// Drop anything the brick sent before we were listening
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("reset input buffer: %w", err)
	}

	return port, nil
}
