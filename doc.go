// Package brickctl drives the motors of LEGO Mindstorms EV3 and NXT bricks
// over a serial link.
//
// # Installation
//
//	go install github.com/gwillem/brickctl/cmd/brickctl@latest
//
// # Usage
//
// First, run setup to choose the brick class and port:
//
//	brickctl setup
//
// Then move outputs by relative angles, or through absolute positions:
//
//	brickctl rotate 90 _ -- -45
//	brickctl goto 90,0 0,0
//
// Plan and run a stepped trajectory:
//
//	brickctl plan 10,-3
//	brickctl run --from 0,0 90,45
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/brickctl: CLI with setup, rotate, spin, plan and run commands
//   - pkg/brick: Device contract, optional values, command building and position tracking
//   - pkg/transport: Length-prefixed framing over serial or an in-memory script
//   - pkg/ev3: EV3 direct-command encoding and the EV3 device
//   - pkg/nxt: NXT mailbox protocol, acknowledgement polling and the NXT device
//   - pkg/stepper: Unit-step interpolation between positions
//   - pkg/trajectory: Executes a step sequence on a device
//   - pkg/framelog: JSON lines record of every frame on the link
//   - pkg/robot: Configuration, calibration, logging and session setup
package brickctl
