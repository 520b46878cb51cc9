// Package brick defines the capabilities shared by the supported controller bricks.
//
// The two device classes speak incompatible wire formats and drive a different
// number of actuators. Each class lives in its own package (ev3, nxt) and satisfies
// the interfaces declared here.
package brick

import (
	"context"
	"fmt"
)

// Class identifies a device generation.
type Class string

// Supported device classes.
const (
	ClassEV3 Class = "ev3"
	ClassNXT Class = "nxt"
)

// ParseClass converts a config or flag value into a Class.
func ParseClass(s string) (Class, error) {
	switch Class(s) {
	case ClassEV3, ClassNXT:
		return Class(s), nil
	}
	return "", fmt.Errorf("unknown device class %q", s)
}

// Mode selects how a multi-actuator rotation is dispatched.
type Mode int

const (
	// Sequential moves one actuator at a time, in ascending index order.
	Sequential Mode = iota
	// Simultaneous moves every actuator in a single message, scaling speeds so
	// all of them finish together.
	Simultaneous
)

func (m Mode) String() string {
	if m == Simultaneous {
		return "simultaneous"
	}
	return "sequential"
}

// Device is a motion-capable brick session.
//
// A Device is owned by one goroutine. Every method blocks until the brick reports
// completion, the context ends, or the transport fails.
type Device interface {
	Class() Class
	// Actuators returns the number of addressable actuators.
	Actuators() int
	// Rotate turns each actuator by a relative angle in degrees.
	Rotate(ctx context.Context, angles []Value, speed int, mode Mode) error
	// RotateTo moves each actuator to an absolute position tracked by the session.
	RotateTo(ctx context.Context, positions []Value, speed int, mode Mode) error
	// Disconnect closes the underlying transport.
	Disconnect() error
}

// Spinner is implemented by devices that can run actuators without a target angle.
type Spinner interface {
	Spin(ctx context.Context, speeds []Value) error
	Stop(ctx context.Context) error
}

// ProgramStarter is implemented by devices that rely on a companion program.
type ProgramStarter interface {
	Start(ctx context.Context, program string, wait bool) error
}

// SelfTester runs a short fixed motion routine on every actuator.
type SelfTester interface {
	SelfTest(ctx context.Context) error
}

// ActuatorCommand is one actuator's share of a rotation.
type ActuatorCommand struct {
	Index int
	Delta int
	Speed int
}

// Mask returns the output bitmask addressing this actuator.
func (c ActuatorCommand) Mask() byte {
	return 1 << c.Index
}
