package nxt

import (
	"encoding/binary"
	"math"
)

// Command types.
const (
	directReply   = 0x00
	directNoReply = 0x80
	replyTelegram = 0x02
)

// Direct command opcodes.
const (
	opStartProgram = 0x00
	opMessageWrite = 0x09
	opMessageRead  = 0x13
)

// Mailboxes shared with the companion program. Commands go to inbox 0 and the
// program posts its status to remote inbox 10.
const (
	commandInbox = 0
	statusInbox  = 10
	localInbox   = 0
)

// statusNoProgram is the NXT error code for a mailbox read without a running
// program.
const statusNoProgram = 0xEC

// messageWrite posts one float to the command inbox. The message is the four
// float bytes plus a terminating zero.
func messageWrite(v float32) []byte {
	b := []byte{directNoReply, opMessageWrite, commandInbox, 5}
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	return append(b, 0)
}

// rotateFrames are the three writes the companion program expects per motor:
// motor number (1-based), angle, power.
func rotateFrames(index, angle, speed int) [][]byte {
	return [][]byte{
		messageWrite(float32(index + 1)),
		messageWrite(float32(angle)),
		messageWrite(float32(speed)),
	}
}

// mailboxCheck reads and removes the oldest status message.
func mailboxCheck() []byte {
	return []byte{directReply, opMessageRead, statusInbox, localInbox, 1}
}

func startProgram(name string) []byte {
	b := []byte{directNoReply, opStartProgram}
	b = append(b, name...)
	return append(b, 0)
}
