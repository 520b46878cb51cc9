// Package trajectory executes a planned step sequence on a brick session.
package trajectory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/stepper"
)

// State reports progress after a waypoint.
type State struct {
	Step      int
	Total     int
	Waypoint  []int
	Timestamp time.Time
	Error     error
	Done      bool
}

// Runner moves a device through every waypoint of a sequence with RotateTo.
type Runner struct {
	dev   brick.Device
	seq   stepper.Sequence
	speed int
	mode  brick.Mode

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

// Config holds configuration for the runner.
type Config struct {
	Speed int
	Mode  brick.Mode
}

// NewRunner creates a runner. The device must not be used elsewhere while the
// runner is active.
func NewRunner(dev brick.Device, seq stepper.Sequence, cfg Config) (*Runner, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty step sequence")
	}
	if n := len(seq[0]); n > dev.Actuators() {
		return nil, fmt.Errorf("plan for %d actuators on a %d-actuator brick: %w", n, dev.Actuators(), brick.ErrTooManyActuators)
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 100
	}
	return &Runner{
		dev:     dev,
		seq:     seq,
		speed:   cfg.Speed,
		mode:    cfg.Mode,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates. Only the latest
// update is kept when the reader falls behind.
func (r *Runner) States() <-chan State {
	return r.stateCh
}

// Logs returns a channel that receives log messages.
func (r *Runner) Logs() <-chan string {
	return r.logCh
}

// Steps returns the number of moves in the plan.
func (r *Runner) Steps() int {
	return r.seq.Steps()
}

func (r *Runner) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case r.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Run moves to the start waypoint, then through every following waypoint.
// Cancelling ctx stops the run between two waypoints; a move already sent is
// never interrupted.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("already running")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	total := r.seq.Steps()
	r.log("Running %d steps at speed %d (%s)", total, r.speed, r.mode)

	for i := range r.seq {
		if err := ctx.Err(); err != nil {
			r.log("Stopped at step %d of %d", i, total)
			return err
		}
		if err := r.dev.RotateTo(ctx, r.seq.Values(i), r.speed, r.mode); err != nil {
			r.log("Step %d failed: %v", i, err)
			r.sendState(State{Step: i, Total: total, Error: err, Timestamp: time.Now()})
			return fmt.Errorf("step %d: %w", i, err)
		}
		r.sendState(State{
			Step:      i,
			Total:     total,
			Waypoint:  r.seq[i],
			Timestamp: time.Now(),
			Done:      i == total,
		})
	}

	r.log("Trajectory complete")
	return nil
}

func (r *Runner) sendState(s State) {
	select {
	case r.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-r.stateCh:
		default:
		}
		r.stateCh <- s
	}
}
