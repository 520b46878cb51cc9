package brick

import "fmt"

// Tracker remembers the last absolute target of each actuator so absolute
// positions can be turned into relative moves. It belongs to one session.
type Tracker struct {
	positions []float64
	scales    []float64
}

// NewTracker creates a tracker for n actuators, all at position 0. Missing or
// zero scales default to 1.
func NewTracker(n int, scales ...float64) *Tracker {
	t := &Tracker{
		positions: make([]float64, n),
		scales:    make([]float64, n),
	}
	for i := range t.scales {
		t.scales[i] = 1
		if i < len(scales) && scales[i] != 0 {
			t.scales[i] = scales[i]
		}
	}
	return t
}

// Deltas computes the relative move for each present target and records the
// target as the new position. Skipped targets yield Skip and keep their
// position. Nothing is recorded when targets is too long.
func (t *Tracker) Deltas(targets []Value) ([]Value, error) {
	if len(targets) > len(t.positions) {
		return nil, fmt.Errorf("%d positions for %d actuators: %w", len(targets), len(t.positions), ErrTooManyActuators)
	}
	deltas := make([]Value, len(t.positions))
	for i, target := range targets {
		pos, ok := target.Get()
		if !ok {
			continue
		}
		deltas[i] = Set((pos - t.positions[i]) * t.scales[i])
		t.positions[i] = pos
	}
	return deltas, nil
}

// Position returns the last commanded absolute position of actuator i.
func (t *Tracker) Position(i int) float64 {
	return t.positions[i]
}

// Positions returns a copy of every tracked position.
func (t *Tracker) Positions() []float64 {
	return append([]float64(nil), t.positions...)
}
