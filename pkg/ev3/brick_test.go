package ev3

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/transport"
)

func newTestBrick(reply transport.ReplyFunc, opts ...Option) (*Brick, *transport.Script) {
	s := transport.NewScript(reply)
	return New(transport.NewLink(s), opts...), s
}

func TestRotate_SimultaneousMessage(t *testing.T) {
	b, s := newTestBrick(DryRunReply)
	ctx := context.Background()

	if err := b.Rotate(ctx, brick.Values(90, -45, 0, 0), 100, brick.Simultaneous); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	frames := s.Frames()
	if len(frames) != 1 {
		t.Fatalf("sent %d messages, want 1", len(frames))
	}

	want := []byte{0, 0, 0, 0, 0}
	want = append(want, 0xA7, 0x00, 0x01, 0x01)
	want = append(want, 0xAE, 0x00, 0x01, 0x81, 100,
		0x83, 0, 0, 0, 0,
		0x83, 90, 0, 0, 0,
		0x83, 0, 0, 0, 0,
		0x01)
	want = append(want, 0xA7, 0x00, 0x02, 0x3F)
	want = append(want, 0xAE, 0x00, 0x02, 0x81, 50,
		0x83, 0, 0, 0, 0,
		0x83, 0xD3, 0xFF, 0xFF, 0xFF,
		0x83, 0, 0, 0, 0,
		0x01)
	want = append(want, 0xAA, 0x00, 0x03)

	if !bytes.Equal(frames[0], want) {
		t.Errorf("message =\n% x\nwant\n% x", frames[0], want)
	}
}

func TestRotate_SequentialMessages(t *testing.T) {
	b, s := newTestBrick(DryRunReply)

	if err := b.Rotate(context.Background(), []brick.Value{brick.Skip, brick.Set(540), brick.Set(0), brick.Set(-30)}, 75, brick.Sequential); err != nil {
		t.Fatalf("Rotate: %v", err)
	}

	frames := s.Frames()
	if len(frames) != 2 {
		t.Fatalf("sent %d messages, want 2", len(frames))
	}

	first := []byte{0, 0, 0, 0, 0,
		0xA7, 0x00, 0x02, 0x01,
		0xAE, 0x00, 0x02, 0x81, 75,
		0x83, 0, 0, 0, 0,
		0x83, 0x1C, 0x02, 0, 0,
		0x83, 0, 0, 0, 0,
		0x01,
		0xA6, 0x00, 0x02,
		0xAA, 0x00, 0x02,
	}
	if !bytes.Equal(frames[0], first) {
		t.Errorf("first message =\n% x\nwant\n% x", frames[0], first)
	}

	// Output D, reversed, waits for itself only
	second := frames[1]
	if second[5] != 0xA7 || second[7] != 0x08 || second[8] != 0x3F {
		t.Errorf("second message polarity = % x", second[5:9])
	}
	if tail := second[len(second)-3:]; !bytes.Equal(tail, []byte{0xAA, 0x00, 0x08}) {
		t.Errorf("second message wait = % x", tail)
	}
}

func TestRotate_SequentialWaitsForEachReply(t *testing.T) {
	calls := 0
	b, s := newTestBrick(func(p []byte) []byte {
		calls++
		if calls == 1 {
			return []byte{0, 0, replyError}
		}
		return DryRunReply(p)
	})

	err := b.Rotate(context.Background(), brick.Values(10, 20, 30), 50, brick.Sequential)
	if !errors.Is(err, brick.ErrCommandFailed) {
		t.Fatalf("err = %v, want ErrCommandFailed", err)
	}
	if len(s.Frames()) != 1 {
		t.Errorf("sent %d messages after a failed reply, want 1", len(s.Frames()))
	}
}

func TestRotate_TooManyActuators(t *testing.T) {
	b, s := newTestBrick(DryRunReply)

	err := b.Rotate(context.Background(), brick.Values(1, 2, 3, 4, 5), 100, brick.Simultaneous)
	if !errors.Is(err, brick.ErrTooManyActuators) {
		t.Fatalf("err = %v, want ErrTooManyActuators", err)
	}
	if len(s.Frames()) != 0 {
		t.Errorf("sent %d messages, want 0", len(s.Frames()))
	}
}

func TestRotate_NothingToMove(t *testing.T) {
	b, s := newTestBrick(DryRunReply)

	for _, mode := range []brick.Mode{brick.Simultaneous, brick.Sequential} {
		if err := b.Rotate(context.Background(), []brick.Value{brick.Set(0), brick.Skip}, 100, mode); err != nil {
			t.Fatalf("Rotate(%s): %v", mode, err)
		}
	}
	if len(s.Frames()) != 0 {
		t.Errorf("sent %d messages, want 0", len(s.Frames()))
	}
}

func TestRotate_PortClosed(t *testing.T) {
	b, s := newTestBrick(DryRunReply)
	if err := b.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	err := b.Rotate(context.Background(), brick.Values(90), 100, brick.Sequential)
	if !errors.Is(err, transport.ErrPortClosed) {
		t.Fatalf("err = %v, want ErrPortClosed", err)
	}
	if len(s.Frames()) != 0 {
		t.Errorf("sent %d messages on a closed port", len(s.Frames()))
	}
}

func TestRotate_MalformedReply(t *testing.T) {
	b, _ := newTestBrick(func([]byte) []byte { return []byte{0x01} })

	err := b.Rotate(context.Background(), brick.Values(90), 100, brick.Simultaneous)
	if !errors.Is(err, brick.ErrMalformedReply) {
		t.Errorf("short reply: err = %v, want ErrMalformedReply", err)
	}

	b, _ = newTestBrick(func([]byte) []byte { return []byte{} })
	err = b.Rotate(context.Background(), brick.Values(90), 100, brick.Simultaneous)
	if !errors.Is(err, transport.ErrNoData) {
		t.Errorf("empty reply: err = %v, want ErrNoData", err)
	}
}

func TestRotate_DelayHonoursContext(t *testing.T) {
	b, s := newTestBrick(DryRunReply, WithDelay(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := b.Rotate(ctx, brick.Values(10, 10), 100, brick.Sequential)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if len(s.Frames()) != 1 {
		t.Errorf("sent %d messages, want 1 before the delay was interrupted", len(s.Frames()))
	}
}

func TestRotateTo_Deltas(t *testing.T) {
	b, s := newTestBrick(DryRunReply)
	ctx := context.Background()

	if err := b.RotateTo(ctx, brick.Values(90, 45), 100, brick.Simultaneous); err != nil {
		t.Fatalf("RotateTo: %v", err)
	}
	if err := b.RotateTo(ctx, []brick.Value{brick.Set(30), brick.Skip}, 100, brick.Simultaneous); err != nil {
		t.Fatalf("RotateTo: %v", err)
	}

	frames := s.Frames()
	if len(frames) != 2 {
		t.Fatalf("sent %d messages, want 2", len(frames))
	}
	// Second move: output A only, -60 degrees
	second := frames[1]
	if second[7] != 0x01 || second[8] != 0x3F {
		t.Errorf("second move polarity = % x", second[5:9])
	}
	angle, _, err := DecodeConst(second[19:24])
	if err != nil || angle != -60 {
		t.Errorf("second move angle = %d (%v), want -60", angle, err)
	}
	if got := b.Positions(); got[0] != 30 || got[1] != 45 {
		t.Errorf("Positions = %v", got)
	}
}

func TestRotateTo_Scale(t *testing.T) {
	b, s := newTestBrick(DryRunReply, WithScales(3))

	if err := b.RotateTo(context.Background(), brick.Values(10), 100, brick.Sequential); err != nil {
		t.Fatalf("RotateTo: %v", err)
	}
	angle, _, _ := DecodeConst(s.Frames()[0][19:24])
	if angle != 30 {
		t.Errorf("scaled angle = %d, want 30", angle)
	}
}

func TestSpin(t *testing.T) {
	b, s := newTestBrick(DryRunReply)

	if err := b.Spin(context.Background(), []brick.Value{brick.Set(-40), brick.Skip, brick.Set(0)}); err != nil {
		t.Fatalf("Spin: %v", err)
	}

	want := []byte{0, 0, 0, 0, 0,
		0xA7, 0x00, 0x01, 0x3F,
		0xA5, 0x00, 0x01, 0x81, 40,
		0xA6, 0x00, 0x01,
		0xA3, 0x00, 0x04, 0x01,
	}
	frames := s.Frames()
	if len(frames) != 1 || !bytes.Equal(frames[0], want) {
		t.Errorf("spin message = % x, want % x", frames, want)
	}
}

func TestStop(t *testing.T) {
	b, s := newTestBrick(DryRunReply)

	if err := b.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	want := []byte{0, 0, 0, 0, 0,
		0xA3, 0x00, 0x01, 0x01,
		0xA3, 0x00, 0x02, 0x01,
		0xA3, 0x00, 0x04, 0x01,
		0xA3, 0x00, 0x08, 0x01,
	}
	if frames := s.Frames(); len(frames) != 1 || !bytes.Equal(frames[0], want) {
		t.Errorf("stop message = % x, want % x", frames, want)
	}
}

func TestSpin_NothingAddressed(t *testing.T) {
	b, s := newTestBrick(DryRunReply)
	if err := b.Spin(context.Background(), nil); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if len(s.Frames()) != 0 {
		t.Errorf("sent %d messages, want 0", len(s.Frames()))
	}
}

func TestSelfTest(t *testing.T) {
	b, s := newTestBrick(DryRunReply)
	if err := b.SelfTest(context.Background()); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
	// 4 sequential + 1 simultaneous + 4 sequential
	if len(s.Frames()) != 9 {
		t.Errorf("sent %d messages, want 9", len(s.Frames()))
	}
}
