// Package stepper splits a multi-actuator move into small synchronized steps.
//
// The actuator with the longest travel moves one degree per step; the others
// advance proportionally, so each waypoint lies close to the straight line
// between start and end.
package stepper

import (
	"math"

	"github.com/gwillem/brickctl/pkg/brick"
)

// Sequence is an ordered list of integer waypoints. Element 0 is the start.
type Sequence [][]int

// Interpolate plans the waypoints from start to end. start is cut or padded
// with zeros to the length of end. The last waypoint always equals end.
//
// Intermediate coordinates are rounded half away from zero, so a plan and its
// mirror image are symmetric.
func Interpolate(start, end []int) Sequence {
	from := make([]int, len(end))
	copy(from, start)

	steps := 0
	for i := range end {
		steps = max(steps, abs(end[i]-from[i]))
	}
	if steps == 0 {
		return Sequence{from}
	}

	increment := make([]float64, len(end))
	for i := range end {
		increment[i] = float64(end[i]-from[i]) / float64(steps)
	}

	seq := make(Sequence, 0, steps+1)
	seq = append(seq, from)
	for k := 1; k < steps; k++ {
		wp := make([]int, len(end))
		for i := range end {
			wp[i] = int(math.Round(float64(from[i]) + float64(k)*increment[i]))
		}
		seq = append(seq, wp)
	}
	return append(seq, append([]int(nil), end...))
}

// FromZero plans from the origin to end.
func FromZero(end []int) Sequence {
	return Interpolate(nil, end)
}

// Steps returns the number of moves in the plan.
func (s Sequence) Steps() int {
	return max(len(s)-1, 0)
}

// Values converts waypoint i into RotateTo arguments.
func (s Sequence) Values(i int) []brick.Value {
	out := make([]brick.Value, len(s[i]))
	for j, v := range s[i] {
		out[j] = brick.Set(float64(v))
	}
	return out
}

// Deltas returns the relative move from waypoint i-1 to waypoint i.
func (s Sequence) Deltas(i int) []int {
	out := make([]int, len(s[i]))
	for j := range s[i] {
		out[j] = s[i][j] - s[i-1][j]
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
