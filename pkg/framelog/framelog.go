// Package framelog keeps an append-only JSON Lines record of every frame
// exchanged with a brick.
package framelog

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gwillem/brickctl/pkg/transport"
)

// Writer encodes one record per frame. It satisfies transport.Recorder.
type Writer struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	now    func() time.Time
	err    error
}

type record struct {
	TS         string `json:"ts"`
	Dir        string `json:"dir"`
	Len        int    `json:"len"`
	PayloadHex string `json:"payload_hex"`
}

// NewWriter writes records to w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	fw := &Writer{enc: enc, now: time.Now}
	if c, ok := w.(io.Closer); ok {
		fw.closer = c
	}
	return fw
}

// Open appends to the file at path, creating it if needed.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	return NewWriter(f), nil
}

// Record implements transport.Recorder. Write errors are kept and reported by
// Err; the exchange with the brick is never interrupted by a failing log.
func (w *Writer) Record(dir transport.Direction, payload []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.enc.Encode(record{
		TS:         w.now().UTC().Format(time.RFC3339Nano),
		Dir:        string(dir),
		Len:        len(payload),
		PayloadHex: hex.EncodeToString(payload),
	})
	if err != nil && w.err == nil {
		w.err = err
	}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close closes the underlying file when there is one.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
