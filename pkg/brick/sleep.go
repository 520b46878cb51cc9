package brick

import (
	"context"
	"time"
)

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PortName returns the label printed on the brick for actuator i (A, B, ...).
func PortName(i int) string {
	return string(rune('A' + i))
}
