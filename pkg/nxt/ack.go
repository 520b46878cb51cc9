package nxt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/transport"
)

// AckState is the progress of one completion handshake.
type AckState int

const (
	Polling AckState = iota
	Acknowledged
	Rejected
)

func (s AckState) String() string {
	switch s {
	case Acknowledged:
		return "acknowledged"
	case Rejected:
		return "rejected"
	default:
		return "polling"
	}
}

// DefaultMaxPolls bounds the handshake when no limit is configured.
const DefaultMaxPolls = 600

// pollReference is the travel, in degrees per speed percent, that
// DefaultMaxPolls is sized for: one full turn at speed 10.
const pollReference = 36

// MovePolls is the default poll budget for one motion. It is DefaultMaxPolls
// for moves up to one turn at speed 10 and grows linearly with degrees per
// speed percent beyond that, so long slow moves are not cut short.
func MovePolls(delta, speed int) int {
	speed = brick.ClampSpeed(speed)
	if delta < 0 {
		delta = -delta
	}
	n := (delta + speed*pollReference - 1) / (speed * pollReference)
	return DefaultMaxPolls * max(n, 1)
}

var (
	ackToken        = []byte("ACKNOWLEDGED")
	rejectSignature = []byte{replyTelegram, opMessageRead, statusNoProgram}
)

// Classify inspects one mailbox reply.
func Classify(reply []byte) AckState {
	switch {
	case bytes.HasPrefix(reply, rejectSignature):
		return Rejected
	case bytes.Contains(reply, ackToken):
		return Acknowledged
	default:
		return Polling
	}
}

// Acker polls the status mailbox until the companion program confirms the
// last motion.
type Acker struct {
	link     *transport.Link
	maxPolls int
	interval time.Duration
	logger   *slog.Logger
}

// NewAcker creates an Acker. maxPolls of 0 selects DefaultMaxPolls; a negative
// value polls until acknowledged, rejected, or ctx ends.
func NewAcker(link *transport.Link, maxPolls int, interval time.Duration, logger *slog.Logger) *Acker {
	if maxPolls == 0 {
		maxPolls = DefaultMaxPolls
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Acker{
		link:     link,
		maxPolls: maxPolls,
		interval: interval,
		logger:   logger,
	}
}

// Await runs the handshake and returns the final state and the number of
// mailbox checks sent. Rejected comes with ErrCompanionNotRunning; running out
// of polls or ctx yields ErrTimeout.
func (a *Acker) Await(ctx context.Context) (AckState, int, error) {
	return a.AwaitPolls(ctx, a.maxPolls)
}

// AwaitPolls is Await with a poll limit for this handshake only. A limit of 0
// or less polls until acknowledged, rejected, or ctx ends.
func (a *Acker) AwaitPolls(ctx context.Context, maxPolls int) (AckState, int, error) {
	polls := 0
	for {
		if maxPolls > 0 && polls >= maxPolls {
			return Polling, polls, fmt.Errorf("no acknowledgment after %d polls: %w", polls, brick.ErrTimeout)
		}
		if err := ctx.Err(); err != nil {
			return Polling, polls, fmt.Errorf("await acknowledgment: %w: %w", brick.ErrTimeout, err)
		}

		reply, err := a.link.Send(mailboxCheck())
		polls++
		if err != nil && !errors.Is(err, transport.ErrNoData) {
			return Polling, polls, fmt.Errorf("check mailbox: %w", err)
		}

		switch Classify(reply) {
		case Rejected:
			a.logger.Error("companion program not started", "reply", string(bytes.Trim(reply, "\x00")))
			return Rejected, polls, brick.ErrCompanionNotRunning
		case Acknowledged:
			a.logger.Debug("acknowledged", "polls", polls)
			return Acknowledged, polls, nil
		}

		if a.interval > 0 {
			if err := brick.Sleep(ctx, a.interval); err != nil {
				return Polling, polls, fmt.Errorf("await acknowledgment: %w: %w", brick.ErrTimeout, err)
			}
		}
	}
}
