package ev3

import (
	"fmt"
	"math"
)

// Operand tags for multi-byte constants. The low bits give the number of
// value bytes that follow.
const (
	tagConst2 = 0x81
	tagConst3 = 0x82
	tagConst5 = 0x83
)

// Const1 encodes v as a single signed byte.
func Const1(v float64) []byte {
	return []byte{byte(round(v))}
}

// Const2 encodes v as a tagged one-byte constant.
func Const2(v float64) []byte {
	return []byte{tagConst2, byte(round(v))}
}

// Const3 encodes v as a tagged 16-bit little-endian constant.
func Const3(v float64) []byte {
	n := round(v)
	return []byte{tagConst3, byte(n), byte(n >> 8)}
}

// Const5 encodes v as a tagged 32-bit little-endian constant.
func Const5(v float64) []byte {
	n := round(v)
	return []byte{tagConst5, byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
}

// DecodeConst reads one constant operand from b and returns its value and the
// number of bytes consumed. Untagged bytes decode as Const1.
func DecodeConst(b []byte) (int64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("empty operand")
	}
	var size int
	switch b[0] {
	case tagConst2:
		size = 2
	case tagConst3:
		size = 3
	case tagConst5:
		size = 5
	default:
		return int64(int8(b[0])), 1, nil
	}
	if len(b) < size {
		return 0, 0, fmt.Errorf("operand 0x%02x truncated: have %d bytes, need %d", b[0], len(b), size)
	}
	switch size {
	case 2:
		return int64(int8(b[1])), 2, nil
	case 3:
		return int64(int16(uint16(b[1]) | uint16(b[2])<<8)), 3, nil
	default:
		return int64(int32(uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16 | uint32(b[4])<<24)), 5, nil
	}
}

// round rounds half away from zero. Values beyond the int64 range are not
// meaningful operands and saturate.
func round(v float64) int64 {
	return int64(math.Round(v))
}
