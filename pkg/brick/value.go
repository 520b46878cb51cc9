package brick

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an optional per-actuator argument. The zero Value is Skip, which
// leaves the actuator alone; Set(0) is an explicit zero.
type Value struct {
	v  float64
	ok bool
}

// Skip is the no-op sentinel.
var Skip Value

// Set returns a present value.
func Set(v float64) Value {
	return Value{v: v, ok: true}
}

// Values wraps every argument with Set.
func Values(vs ...float64) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Set(v)
	}
	return out
}

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.v, v.ok
}

// Or returns the value, or def when skipped.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.v
}

// IsSet reports whether the value is present.
func (v Value) IsSet() bool {
	return v.ok
}

func (v Value) String() string {
	if !v.ok {
		return "_"
	}
	return strconv.FormatFloat(v.v, 'g', -1, 64)
}

// ParseValues parses CLI arguments. "_", "-" and "skip" produce Skip.
func ParseValues(args []string) ([]Value, error) {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		switch strings.ToLower(a) {
		case "_", "-", "skip":
			out = append(out, Skip)
			continue
		}
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", a, err)
		}
		out = append(out, Set(f))
	}
	return out, nil
}

// FormatValues joins values for log lines.
func FormatValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// Normalize pads vs to n entries with Skip. It fails with ErrTooManyActuators
// when vs is longer than n.
func Normalize(vs []Value, n int) ([]Value, error) {
	if len(vs) > n {
		return nil, fmt.Errorf("%d values for %d actuators: %w", len(vs), n, ErrTooManyActuators)
	}
	out := make([]Value, n)
	copy(out, vs)
	return out, nil
}
