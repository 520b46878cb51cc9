package framelog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gwillem/brickctl/pkg/transport"
)

func TestWriter_Record(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.now = func() time.Time { return time.Date(2026, 2, 5, 16, 0, 0, 0, time.UTC) }

	link := transport.NewLink(transport.NewScript(func([]byte) []byte { return []byte{0x00, 0x00, 0x02} }), transport.WithRecorder(w))
	if _, err := link.Send([]byte{0xA6, 0x00, 0x0F}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var recs []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("json unmarshal failed: %v", err)
		}
		recs = append(recs, rec)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0]["dir"] != "send" || recs[0]["payload_hex"] != "a6000f" || recs[0]["len"] != float64(3) {
		t.Errorf("send record = %v", recs[0])
	}
	if recs[1]["dir"] != "recv" || recs[1]["payload_hex"] != "000002" {
		t.Errorf("recv record = %v", recs[1])
	}
	if recs[0]["ts"] != "2026-02-05T16:00:00Z" {
		t.Errorf("ts = %v", recs[0]["ts"])
	}
	if err := w.Err(); err != nil {
		t.Errorf("Err = %v", err)
	}
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")

	for i := 0; i < 2; i++ {
		w, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		w.Record(transport.Sent, []byte{byte(i)})
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if n := bytes.Count(data, []byte("\n")); n != 2 {
		t.Errorf("log has %d lines, want 2", n)
	}
}
