// Package transport frames request/reply exchanges over a byte-stream channel.
//
// Every frame on the wire is a little-endian uint16 length followed by that many
// payload bytes. The length does not count itself.
package transport

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// MaxPayload is the largest payload a single frame can carry.
const MaxPayload = 0xFFFF

var (
	// ErrPortClosed is returned when the channel is not open. Nothing is written.
	ErrPortClosed = errors.New("port closed")
	// ErrNoData is returned when the device answered with an empty frame.
	ErrNoData = errors.New("no data in reply")
	// ErrReadTimeout is returned when the read timeout elapsed before the
	// expected bytes arrived.
	ErrReadTimeout = errors.New("read timeout")
)

// Channel is the byte stream a Link runs on, usually a serial port.
type Channel interface {
	io.ReadWriteCloser
}

// Direction tells a Recorder which way a frame travelled.
type Direction string

const (
	Sent     Direction = "send"
	Received Direction = "recv"
)

// Recorder receives a copy of every frame. It must not retain the slice.
type Recorder interface {
	Record(dir Direction, payload []byte)
}

// Link is a blocking request/reply framer. It is not safe for concurrent use.
type Link struct {
	ch       Channel
	open     bool
	recorder Recorder
	logger   *slog.Logger
}

type Option func(*Link)

// WithRecorder attaches a diagnostic sink for every frame.
func WithRecorder(r Recorder) Option {
	return func(l *Link) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithLogger sets the logger used for frame-level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Link) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLink wraps an already opened channel.
func NewLink(ch Channel, opts ...Option) *Link {
	l := &Link{
		ch:     ch,
		open:   ch != nil,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsOpen reports whether the channel can be used.
func (l *Link) IsOpen() bool {
	return l.open
}

// Close closes the channel, and the recorder when it is an io.Closer.
// A recorder that reports a write error through Err is logged as a warning.
// Closing twice is a no-op.
func (l *Link) Close() error {
	if !l.open {
		return nil
	}
	l.open = false
	err := l.ch.Close()
	if r, ok := l.recorder.(interface{ Err() error }); ok {
		if rerr := r.Err(); rerr != nil {
			l.logger.Warn("frame log incomplete", "error", rerr)
		}
	}
	if c, ok := l.recorder.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Send writes payload as one frame and blocks for the reply frame.
func (l *Link) Send(payload []byte) ([]byte, error) {
	if err := l.WriteFrame(payload); err != nil {
		return nil, err
	}
	return l.ReadFrame()
}

// WriteFrame writes payload with its length prefix without waiting for a reply.
func (l *Link) WriteFrame(payload []byte) error {
	if !l.open {
		l.logger.Error("port is not open, command cancelled")
		return ErrPortClosed
	}
	if len(payload) > MaxPayload {
		return fmt.Errorf("payload of %d bytes exceeds frame limit", len(payload))
	}

	frame := make([]byte, 2+len(payload))
	binary.LittleEndian.PutUint16(frame, uint16(len(payload)))
	copy(frame[2:], payload)

	l.logger.Debug("send", "len", len(payload), "payload", hex.EncodeToString(payload))
	l.record(Sent, payload)

	if _, err := l.ch.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame. A frame announcing zero bytes is
// reported as ErrNoData.
func (l *Link) ReadFrame() ([]byte, error) {
	if !l.open {
		return nil, ErrPortClosed
	}

	var prefix [2]byte
	if err := l.readFull(prefix[:]); err != nil {
		return nil, fmt.Errorf("read reply length: %w", err)
	}
	n := int(binary.LittleEndian.Uint16(prefix[:]))
	if n == 0 {
		l.logger.Debug("recv", "len", 0)
		l.record(Received, nil)
		return nil, ErrNoData
	}

	reply := make([]byte, n)
	if err := l.readFull(reply); err != nil {
		return nil, fmt.Errorf("read reply payload: %w", err)
	}

	l.logger.Debug("recv", "len", n, "payload", hex.EncodeToString(reply))
	l.record(Received, reply)
	return reply, nil
}

// readFull fills buf. A read returning no bytes and no error is how serial
// ports report an elapsed read timeout.
func (l *Link) readFull(buf []byte) error {
	got := 0
	for got < len(buf) {
		n, err := l.ch.Read(buf[got:])
		got += n
		if err != nil {
			if errors.Is(err, io.EOF) && got < len(buf) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if n == 0 {
			return ErrReadTimeout
		}
	}
	return nil
}

func (l *Link) record(dir Direction, payload []byte) {
	if l.recorder != nil {
		l.recorder.Record(dir, payload)
	}
}
