package ev3

import "github.com/gwillem/brickctl/pkg/brick"

// Direct command opcodes.
const (
	opOutputStop      = 0xA3
	opOutputPower     = 0xA5
	opOutputStart     = 0xA6
	opOutputPolarity  = 0xA7
	opOutputReady     = 0xAA
	opOutputStepSpeed = 0xAE
)

const (
	layer           = 0x00
	polarityForward = 0x01
	polarityReverse = 0x3F
	brakeOn         = 0x01
	allOutputs      = 0x0F
)

// Reply types.
const (
	replyOK    = 0x02
	replyError = 0x04
)

// header is the direct command preamble: message counter, command type
// (direct, reply required) and variable allocation, all zero.
func header() []byte {
	return []byte{0, 0, 0, 0, 0}
}

func polarity(mask byte, reverse bool) []byte {
	p := byte(polarityForward)
	if reverse {
		p = polarityReverse
	}
	return []byte{opOutputPolarity, layer, mask, p}
}

// stepSpeed runs the outputs in mask for angle degrees with no ramps and
// brakes at the end.
func stepSpeed(mask byte, speed, angle int) []byte {
	b := []byte{opOutputStepSpeed, layer, mask}
	b = append(b, Const2(float64(speed))...)
	b = append(b, Const5(0)...)
	b = append(b, Const5(float64(angle))...)
	b = append(b, Const5(0)...)
	return append(b, brakeOn)
}

func start(mask byte) []byte {
	return []byte{opOutputStart, layer, mask}
}

func ready(mask byte) []byte {
	return []byte{opOutputReady, layer, mask}
}

func stop(mask byte) []byte {
	return []byte{opOutputStop, layer, mask, brakeOn}
}

func power(mask byte, speed int) []byte {
	return append([]byte{opOutputPower, layer, mask}, Const2(float64(speed))...)
}

// simultaneousMessage moves every command in one message and waits until all
// targeted outputs are idle.
func simultaneousMessage(cmds []brick.ActuatorCommand) []byte {
	msg := header()
	var all byte
	for _, c := range cmds {
		msg = append(msg, polarity(c.Mask(), c.Delta < 0)...)
		msg = append(msg, stepSpeed(c.Mask(), c.Speed, c.Delta)...)
		all |= c.Mask()
	}
	return append(msg, ready(all)...)
}

// sequentialMessage moves a single actuator and waits for it.
func sequentialMessage(c brick.ActuatorCommand) []byte {
	msg := header()
	msg = append(msg, polarity(c.Mask(), c.Delta < 0)...)
	msg = append(msg, stepSpeed(c.Mask(), c.Speed, c.Delta)...)
	msg = append(msg, start(c.Mask())...)
	return append(msg, ready(c.Mask())...)
}

// spinMessage starts or stops each present actuator. It returns nil when no
// actuator is addressed.
func spinMessage(speeds []brick.Value) []byte {
	msg := header()
	body := false
	for i, s := range speeds {
		v, ok := s.Get()
		if !ok {
			continue
		}
		body = true
		mask := byte(1) << i
		speed := int(round(v))
		if speed == 0 {
			msg = append(msg, stop(mask)...)
			continue
		}
		msg = append(msg, polarity(mask, speed < 0)...)
		msg = append(msg, power(mask, min(abs(speed), 100))...)
		msg = append(msg, start(mask)...)
	}
	if !body {
		return nil
	}
	return msg
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
