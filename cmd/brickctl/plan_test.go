package main

import (
	"strings"
	"testing"
)

func TestPlanFromArgs(t *testing.T) {
	seq, err := planFromArgs("", []string{"10,-3"})
	if err != nil {
		t.Fatalf("planFromArgs: %v", err)
	}
	if seq.Steps() != 10 {
		t.Errorf("Steps = %d, want 10", seq.Steps())
	}

	seq, err = planFromArgs("5", []string{"0,2"})
	if err != nil {
		t.Fatalf("planFromArgs: %v", err)
	}
	if seq[0][0] != 5 || seq[0][1] != 0 {
		t.Errorf("start = %v, want [5 0]", seq[0])
	}

	if _, err := planFromArgs("", nil); err == nil {
		t.Error("planFromArgs without an end position should fail")
	}
	if _, err := planFromArgs("", []string{"1,x"}); err == nil {
		t.Error("planFromArgs should reject non-numeric positions")
	}
}

func TestRenderPlanTable_Elides(t *testing.T) {
	seq, _ := planFromArgs("", []string{"100"})
	out := renderPlanTable(seq, 10)

	if !strings.Contains(out, "⋮") {
		t.Error("long plan should be elided")
	}
	if !strings.Contains(out, "100") {
		t.Error("last waypoint missing from table")
	}
	if strings.Contains(out, " 50 ") {
		t.Error("middle waypoint should be elided")
	}
}
