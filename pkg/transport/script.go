package transport

import (
	"bytes"
	"encoding/binary"
	"os"
	"sync"
)

// ReplyFunc answers one written frame payload. Returning nil sends nothing
// back; returning an empty slice sends an empty frame.
type ReplyFunc func(payload []byte) []byte

// Script is an in-memory Channel that answers frames with a ReplyFunc. It backs
// dry-run sessions and device tests. Reads with nothing queued behave like a
// serial read timeout.
type Script struct {
	mu      sync.Mutex
	reply   ReplyFunc
	pending []byte
	out     bytes.Buffer
	frames  [][]byte
	closed  bool
}

// NewScript creates a scripted channel.
func NewScript(reply ReplyFunc) *Script {
	return &Script{reply: reply}
}

func (s *Script) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, os.ErrClosed
	}

	s.pending = append(s.pending, p...)
	for len(s.pending) >= 2 {
		n := int(binary.LittleEndian.Uint16(s.pending))
		if len(s.pending) < 2+n {
			break
		}
		payload := append([]byte(nil), s.pending[2:2+n]...)
		s.pending = s.pending[2+n:]
		s.frames = append(s.frames, payload)

		if s.reply == nil {
			continue
		}
		if r := s.reply(payload); r != nil {
			var prefix [2]byte
			binary.LittleEndian.PutUint16(prefix[:], uint16(len(r)))
			s.out.Write(prefix[:])
			s.out.Write(r)
		}
	}
	return len(p), nil
}

func (s *Script) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, os.ErrClosed
	}
	if s.out.Len() == 0 {
		return 0, nil
	}
	return s.out.Read(p)
}

func (s *Script) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Frames returns every payload written so far.
func (s *Script) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.frames))
	copy(out, s.frames)
	return out
}

// Closed reports whether Close was called.
func (s *Script) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
