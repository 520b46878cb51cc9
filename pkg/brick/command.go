package brick

import "math"

// Commands converts normalized angles into per-actuator commands. Angles are
// rounded to whole degrees; actuators whose rounded angle is zero are omitted.
// Every command carries the same clamped speed.
func Commands(angles []Value, speed int) []ActuatorCommand {
	speed = ClampSpeed(speed)
	var cmds []ActuatorCommand
	for i, a := range angles {
		delta := int(math.Round(a.Or(0)))
		if delta == 0 {
			continue
		}
		cmds = append(cmds, ActuatorCommand{Index: i, Delta: delta, Speed: speed})
	}
	return cmds
}

// ScaleSpeeds rescales speeds so every command finishes together: the actuator
// with the largest travel keeps speed, the others get a proportional share,
// never below 1.
func ScaleSpeeds(cmds []ActuatorCommand, speed int) []ActuatorCommand {
	speed = ClampSpeed(speed)
	maxAngle := 0
	for _, c := range cmds {
		maxAngle = max(maxAngle, abs(c.Delta))
	}
	if maxAngle == 0 {
		return nil
	}
	out := make([]ActuatorCommand, len(cmds))
	for i, c := range cmds {
		c.Speed = max(1, int(math.Round(math.Abs(float64(speed)*float64(c.Delta)/float64(maxAngle)))))
		out[i] = c
	}
	return out
}

// ClampSpeed limits a speed percentage to 1..100. The bricks reject a zero
// speed operand on a bounded move.
func ClampSpeed(speed int) int {
	return min(max(speed, 1), 100)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
