// Package ev3 drives EV3-class bricks: four outputs, direct commands with a
// synchronous reply.
package ev3

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/transport"
)

// Actuators is the number of outputs on an EV3 brick.
const Actuators = 4

// Brick is an EV3 session. It is not safe for concurrent use.
type Brick struct {
	link    *transport.Link
	tracker *brick.Tracker
	delay   time.Duration
	logger  *slog.Logger
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

// New creates a session on an open link.
func New(link *transport.Link, opts ...Option) *Brick {
	b := &Brick{
		link:    link,
		tracker: brick.NewTracker(Actuators),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Brick) Class() brick.Class { return brick.ClassEV3 }

func (b *Brick) Actuators() int { return Actuators }

// Rotate turns outputs by relative angles. In Simultaneous mode all outputs
// move in one message and the largest angle runs at speed; in Sequential mode
// outputs move one after another, A to D, each at speed.
func (b *Brick) Rotate(ctx context.Context, angles []brick.Value, speed int, mode brick.Mode) error {
	b.logger.Info("rotate", "speed", speed, "mode", mode, "angles", brick.FormatValues(angles))

	angles, err := brick.Normalize(angles, Actuators)
	if err != nil {
		return err
	}
	cmds := brick.Commands(angles, speed)
	if len(cmds) == 0 {
		return nil
	}

	if mode == brick.Simultaneous {
		cmds = brick.ScaleSpeeds(cmds, speed)
		if err := b.send(ctx, simultaneousMessage(cmds)); err != nil {
			return fmt.Errorf("rotate simultaneous: %w", err)
		}
		return b.pause(ctx)
	}

	for _, c := range cmds {
		if err := b.send(ctx, sequentialMessage(c)); err != nil {
			return fmt.Errorf("rotate output %s: %w", brick.PortName(c.Index), err)
		}
		if err := b.pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RotateTo moves outputs to absolute positions relative to where this session
// last sent them.
func (b *Brick) RotateTo(ctx context.Context, positions []brick.Value, speed int, mode brick.Mode) error {
	b.logger.Info("rotate to", "speed", speed, "mode", mode, "positions", brick.FormatValues(positions))

	deltas, err := b.tracker.Deltas(positions)
	if err != nil {
		return err
	}
	return b.Rotate(ctx, deltas, speed, mode)
}

// Spin runs outputs at a signed power until told otherwise. A zero speed
// brakes the output; skipped outputs are left alone.
func (b *Brick) Spin(ctx context.Context, speeds []brick.Value) error {
	b.logger.Info("spin", "speeds", brick.FormatValues(speeds))

	speeds, err := brick.Normalize(speeds, Actuators)
	if err != nil {
		return err
	}
	msg := spinMessage(speeds)
	if msg == nil {
		return nil
	}
	if err := b.send(ctx, msg); err != nil {
		return fmt.Errorf("spin: %w", err)
	}
	return nil
}

// Stop brakes every output.
func (b *Brick) Stop(ctx context.Context) error {
	return b.Spin(ctx, brick.Values(0, 0, 0, 0))
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
		mode   brick.Mode
	}{
		{[]float64{90, 180, 270, 360}, 75, brick.Sequential},
		{[]float64{-450, -450, -450, -450}, 50, brick.Simultaneous},
		{[]float64{360, 270, 180, 90}, 100, brick.Sequential},
	}
	for _, s := range steps {
		if err := b.Rotate(ctx, brick.Values(s.angles...), s.speed, s.mode); err != nil {
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

// send transmits one message and validates the reply. The link itself cannot
// be interrupted, so ctx is only checked before transmitting.
func (b *Brick) send(ctx context.Context, msg []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	reply, err := b.link.Send(msg)
	if err != nil {
		return err
	}
	return checkReply(reply)
}

func checkReply(reply []byte) error {
	if len(reply) < 3 {
		return fmt.Errorf("reply of %d bytes: %w", len(reply), brick.ErrMalformedReply)
	}
	if reply[2] == replyError {
		return brick.ErrCommandFailed
	}
	return nil
}

func (b *Brick) pause(ctx context.Context) error {
	if b.delay <= 0 {
		return nil
	}
	b.logger.Debug("delay", "duration", b.delay)
	return brick.Sleep(ctx, b.delay)
}

// DryRunReply answers every direct command with an empty success reply.
func DryRunReply(payload []byte) []byte {
	if len(payload) < 2 {
		return []byte{}
	}
	return []byte{payload[0], payload[1], replyOK}
}
