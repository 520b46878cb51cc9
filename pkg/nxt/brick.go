// Package nxt drives NXT-class bricks: three outputs, moved one at a time by a
// companion program that reads float commands from a mailbox and reports back
// through another.
package nxt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/transport"
)

// Actuators is the number of outputs on an NXT brick.
const Actuators = 3

// DefaultProgram is the companion program shipped for the brick.
const DefaultProgram = "MindCtrl.rxe"

// DefaultSettle is how long Start waits for the program to begin listening.
const DefaultSettle = time.Second

// Brick is an NXT session. It is not safe for concurrent use.
type Brick struct {
	link     *transport.Link
	tracker  *brick.Tracker
	delay    time.Duration
	settle   time.Duration
	maxPolls int
	interval time.Duration
	logger   *slog.Logger
	acker    *Acker
}

type Option func(*Brick)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Brick) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDelay inserts a pause after every completed motion.
func WithDelay(d time.Duration) Option {
	return func(b *Brick) {
		b.delay = d
	}
}

// WithScales sets the per-output factor applied to RotateTo deltas.
func WithScales(scales ...float64) Option {
	return func(b *Brick) {
		b.tracker = brick.NewTracker(Actuators, scales...)
	}
}

// WithAckLimit bounds the mailbox handshake. maxPolls 0 sizes each handshake
// with MovePolls; a negative value polls until ctx ends.
func WithAckLimit(maxPolls int, interval time.Duration) Option {
	return func(b *Brick) {
		b.maxPolls = maxPolls
		b.interval = interval
	}
}

// WithSettle overrides the wait after starting the companion program.
func WithSettle(d time.Duration) Option {
	return func(b *Brick) {
		b.settle = d
	}
}

// New creates a session on an open link.
func New(link *transport.Link, opts ...Option) *Brick {
	b := &Brick{
		link:    link,
		tracker: brick.NewTracker(Actuators),
		settle:  DefaultSettle,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.acker = NewAcker(link, b.maxPolls, b.interval, b.logger)
	return b
}

func (b *Brick) Class() brick.Class { return brick.ClassNXT }

func (b *Brick) Actuators() int { return Actuators }

// Start launches the companion program. With wait set it then pauses so the
// program is listening before the first rotate.
func (b *Brick) Start(ctx context.Context, program string, wait bool) error {
	if program == "" {
		program = DefaultProgram
	}
	b.logger.Info("starting companion program", "program", program)

	if err := b.link.WriteFrame(startProgram(program)); err != nil {
		return fmt.Errorf("start %s: %w", program, err)
	}
	if !wait {
		return nil
	}
	return brick.Sleep(ctx, b.settle)
}

// Rotate turns outputs A to C one after another by relative angles, waiting
// for the companion program to acknowledge each. Only Sequential mode exists.
func (b *Brick) Rotate(ctx context.Context, angles []brick.Value, speed int, mode brick.Mode) error {
	b.logger.Info("rotate", "speed", speed, "angles", brick.FormatValues(angles))

	if mode != brick.Sequential {
		return fmt.Errorf("%s rotate: %w", mode, brick.ErrUnsupportedMode)
	}
	angles, err := brick.Normalize(angles, Actuators)
	if err != nil {
		return err
	}

	for _, c := range brick.Commands(angles, speed) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, frame := range rotateFrames(c.Index, c.Delta, c.Speed) {
			if err := b.link.WriteFrame(frame); err != nil {
				return fmt.Errorf("rotate output %s: %w", brick.PortName(c.Index), err)
			}
		}

		_, polls, err := b.acker.AwaitPolls(ctx, b.pollBudget(c))
		if err != nil {
			return fmt.Errorf("rotate output %s: %w", brick.PortName(c.Index), err)
		}
		b.logger.Info("acknowledged", "output", brick.PortName(c.Index), "polls", polls)

		if b.delay > 0 {
			b.logger.Debug("delay", "duration", b.delay)
			if err := brick.Sleep(ctx, b.delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// RotateTo moves outputs to absolute positions relative to where this session
// last sent them.
func (b *Brick) RotateTo(ctx context.Context, positions []brick.Value, speed int, mode brick.Mode) error {
	b.logger.Info("rotate to", "speed", speed, "positions", brick.FormatValues(positions))

	if mode != brick.Sequential {
		return fmt.Errorf("%s rotate: %w", mode, brick.ErrUnsupportedMode)
	}
	deltas, err := b.tracker.Deltas(positions)
	if err != nil {
		return err
	}
	return b.Rotate(ctx, deltas, speed, mode)
}

// pollBudget is the configured ack limit, or MovePolls when none is set.
func (b *Brick) pollBudget(c brick.ActuatorCommand) int {
	if b.maxPolls != 0 {
		return b.maxPolls
	}
	return MovePolls(c.Delta, c.Speed)
}

// Positions returns the absolute position last commanded for each output.
func (b *Brick) Positions() []float64 {
	return b.tracker.Positions()
}

// SelfTest rotates every output forward and back.
func (b *Brick) SelfTest(ctx context.Context) error {
	b.logger.Info("self-test started")
	steps := []struct {
		angles []float64
		speed  int
	}{
		{[]float64{90, 180, 270}, 75},
		{[]float64{-450, -450, -450}, 50},
		{[]float64{360, 270, 180}, 100},
	}
	for _, s := range steps {
		if err := b.Rotate(ctx, brick.Values(s.angles...), s.speed, brick.Sequential); err != nil {
			return fmt.Errorf("self-test: %w", err)
		}
	}
	b.logger.Info("self-test complete")
	return nil
}

// Disconnect closes the link.
func (b *Brick) Disconnect() error {
	err := b.link.Close()
	b.logger.Info("port closed")
	return err
}

// DryRunReply acknowledges every mailbox check and answers nothing else,
// the way a brick running the companion program would.
func DryRunReply(payload []byte) []byte {
	if len(payload) < 2 || payload[0] != directReply || payload[1] != opMessageRead {
		return nil
	}
	return AckReply()
}

// AckReply builds a mailbox read reply carrying the acknowledgment token.
func AckReply() []byte {
	return mailboxReply(0x00, ackToken)
}

// mailboxReply is a message read telegram: status, inbox, size, then a
// fixed 59-byte zero-padded message field.
func mailboxReply(status byte, msg []byte) []byte {
	r := []byte{replyTelegram, opMessageRead, status, localInbox, byte(len(msg) + 1)}
	body := make([]byte, 59)
	copy(body, msg)
	return append(r, body...)
}
