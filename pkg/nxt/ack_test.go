package nxt

import (
	"context"
	"errors"
	"testing"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/transport"
)

// cannedMailbox answers mailbox checks with replies in order, repeating the
// last one, and counts the checks.
type cannedMailbox struct {
	replies [][]byte
	checks  int
}

func (c *cannedMailbox) reply(payload []byte) []byte {
	if payload[0] != directReply || payload[1] != opMessageRead {
		return nil
	}
	c.checks++
	i := min(c.checks, len(c.replies)) - 1
	return c.replies[i]
}

func pending() []byte {
	return mailboxReply(0x00, []byte("BUSY"))
}

func rejected() []byte {
	return []byte{0x02, 0x13, 0xEC, 0x00, 0x00}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		reply []byte
		want  AckState
	}{
		{"ack", AckReply(), Acknowledged},
		{"rejected", rejected(), Rejected},
		{"busy", pending(), Polling},
		{"empty", nil, Polling},
		{"token inside noise", []byte("xxACKNOWLEDGEDxx"), Acknowledged},
	}
	for _, tt := range tests {
		if got := Classify(tt.reply); got != tt.want {
			t.Errorf("%s: Classify = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAwait_AcknowledgedAfterThreePolls(t *testing.T) {
	mb := &cannedMailbox{replies: [][]byte{pending(), pending(), AckReply()}}
	a := NewAcker(transport.NewLink(transport.NewScript(mb.reply)), 0, 0, nil)

	state, polls, err := a.Await(context.Background())
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if state != Acknowledged {
		t.Errorf("state = %s, want acknowledged", state)
	}
	if polls != 3 || mb.checks != 3 {
		t.Errorf("polls = %d, checks = %d, want 3", polls, mb.checks)
	}
}

func TestAwait_RejectedAfterOnePoll(t *testing.T) {
	mb := &cannedMailbox{replies: [][]byte{rejected(), AckReply()}}
	a := NewAcker(transport.NewLink(transport.NewScript(mb.reply)), 0, 0, nil)

	state, polls, err := a.Await(context.Background())
	if !errors.Is(err, brick.ErrCompanionNotRunning) {
		t.Fatalf("err = %v, want ErrCompanionNotRunning", err)
	}
	if state != Rejected || polls != 1 || mb.checks != 1 {
		t.Errorf("state = %s, polls = %d, checks = %d", state, polls, mb.checks)
	}
}

func TestAwait_EmptyReplyKeepsPolling(t *testing.T) {
	mb := &cannedMailbox{replies: [][]byte{{}, AckReply()}}
	a := NewAcker(transport.NewLink(transport.NewScript(mb.reply)), 0, 0, nil)

	state, polls, err := a.Await(context.Background())
	if err != nil || state != Acknowledged || polls != 2 {
		t.Errorf("state = %s, polls = %d, err = %v", state, polls, err)
	}
}

func TestAwait_MaxPolls(t *testing.T) {
	mb := &cannedMailbox{replies: [][]byte{pending()}}
	a := NewAcker(transport.NewLink(transport.NewScript(mb.reply)), 5, 0, nil)

	state, polls, err := a.Await(context.Background())
	if !errors.Is(err, brick.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if state != Polling || polls != 5 || mb.checks != 5 {
		t.Errorf("state = %s, polls = %d, checks = %d", state, polls, mb.checks)
	}
}

func TestAwait_ContextEndsUnboundedPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mb := &cannedMailbox{replies: [][]byte{pending()}}
	script := transport.NewScript(func(p []byte) []byte {
		r := mb.reply(p)
		if mb.checks == 1000 {
			cancel()
		}
		return r
	})
	a := NewAcker(transport.NewLink(script), -1, 0, nil)

	_, polls, err := a.Await(ctx)
	if !errors.Is(err, brick.ErrTimeout) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want ErrTimeout and context.Canceled", err)
	}
	if polls != 1000 {
		t.Errorf("polls = %d, want 1000", polls)
	}
}

func TestAwait_NoReplyIsAnError(t *testing.T) {
	a := NewAcker(transport.NewLink(transport.NewScript(nil)), 0, 0, nil)

	_, polls, err := a.Await(context.Background())
	if !errors.Is(err, transport.ErrReadTimeout) {
		t.Fatalf("err = %v, want ErrReadTimeout", err)
	}
	if polls != 1 {
		t.Errorf("polls = %d, want 1", polls)
	}
}

func TestMovePolls(t *testing.T) {
	tests := []struct {
		delta, speed int
		want         int
	}{
		{90, 100, DefaultMaxPolls},
		{360, 10, DefaultMaxPolls},
		{361, 10, 2 * DefaultMaxPolls},
		{-3600, 10, 10 * DefaultMaxPolls},
		{3600, 100, DefaultMaxPolls},
		{100, 0, 3 * DefaultMaxPolls},
	}
	for _, tt := range tests {
		if got := MovePolls(tt.delta, tt.speed); got != tt.want {
			t.Errorf("MovePolls(%d, %d) = %d, want %d", tt.delta, tt.speed, got, tt.want)
		}
	}
}
