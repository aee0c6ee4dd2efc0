package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/tenfreethrows/freethrows/internal/app"
)

func TestParseShots(t *testing.T) {
	shots, err := parseShots(" 10,-20; 4, -14 ;;")
	if err != nil {
		t.Fatalf("parseShots: %v", err)
	}
	want := []app.Shot{{VX: 10, VY: -20}, {VX: 4, VY: -14}}
	if len(shots) != len(want) {
		t.Fatalf("got %d shots, want %d", len(shots), len(want))
	}
	for i := range want {
		if shots[i] != want[i] {
			t.Errorf("shot %d = %+v, want %+v", i, shots[i], want[i])
		}
	}

	for _, bad := range []string{"", ";", "1", "1,2,3", "a,2", "1,b"} {
		if _, err := parseShots(bad); err == nil {
			t.Errorf("parseShots(%q) accepted", bad)
		}
	}
}

func TestSimCommandPrintsSummary(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"sim", "--log-level", "error", "--tuning", "", "--shots", "10,-20;4,-14", "--frames", "5000"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var s simSummary
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("summary is not JSON: %v\n%s", err, out.String())
	}
	if s.Taken != 2 {
		t.Errorf("shots taken = %d, want 2", s.Taken)
	}
	if s.State.ShotsLeft != 8 {
		t.Errorf("shots left = %d, want 8", s.State.ShotsLeft)
	}
	if s.Result != nil {
		t.Errorf("round should not be complete after 2 of 10 shots")
	}
}

func TestSimCommandRequiresShots(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"sim"})
	if err := root.Execute(); err == nil {
		t.Errorf("sim without --shots should fail")
	}
}
