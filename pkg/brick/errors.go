package brick

import "errors"

var (
	// ErrTooManyActuators is returned when a request carries more values than the
	// device has actuators. Nothing is sent.
	ErrTooManyActuators = errors.New("too many actuators")

	// ErrCompanionNotRunning means the NXT rejected a mailbox read because no
	// program is running. Start the companion program first.
	ErrCompanionNotRunning = errors.New("companion program not running")

	// ErrTimeout is returned when a completion handshake exceeds its bound.
	ErrTimeout = errors.New("completion timeout")

	ErrUnsupportedMode  = errors.New("dispatch mode not supported by device")
	ErrConnectionFailed = errors.New("connection failed")
	ErrMalformedReply   = errors.New("malformed reply")
	ErrCommandFailed    = errors.New("device reported command failure")
)
