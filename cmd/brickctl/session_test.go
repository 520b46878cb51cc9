package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/gwillem/brickctl/pkg/brick"
)

func TestParseVector(t *testing.T) {
	got, err := parseVector(" 90, -45,0 ")
	if err != nil {
		t.Fatalf("parseVector: %v", err)
	}
	want := []int{90, -45, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if v, err := parseVector(""); err != nil || v != nil {
		t.Errorf("parseVector(\"\") = %v, %v; want nil, nil", v, err)
	}
	if _, err := parseVector("1,,2"); err == nil {
		t.Error("parseVector should reject empty elements")
	}
}

func TestHint(t *testing.T) {
	err := hint(brick.ErrCompanionNotRunning)
	if !errors.Is(err, brick.ErrCompanionNotRunning) {
		t.Error("hint must keep the wrapped error")
	}
	if !strings.Contains(err.Error(), "brickctl start") {
		t.Errorf("hint = %q, want a start suggestion", err)
	}

	plain := errors.New("boom")
	if hint(plain) != plain {
		t.Error("unknown errors should pass through unchanged")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("90,_,45")
	want := []string{"90", "_", "45"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("splitList = %v, want %v", got, want)
	}
}
