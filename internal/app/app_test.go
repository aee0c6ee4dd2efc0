package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/render"
)

func newDriver(t *testing.T, shots int) *Driver {
	t.Helper()
	tun := config.DefaultTuning()
	tun.Rules.Shots = shots
	core, err := game.New(context.Background(), game.Options{
		Tuning: tun,
		Now:    func() time.Time { return time.Date(2025, 9, 10, 12, 0, 0, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	d, err := New(core, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestNewRequiresCore(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNoCore) {
		t.Errorf("err = %v, want ErrNoCore", err)
	}
}

func TestFrameWithoutSurfaceFails(t *testing.T) {
	d := newDriver(t, 10)
	err := d.Frame(1.0/60, nil)
	if !errors.Is(err, render.ErrNoSurface) {
		t.Errorf("err = %v, want ErrNoSurface", err)
	}
}

func TestStepClampsLongFrames(t *testing.T) {
	d := newDriver(t, 10)
	d.Core().Shoot(0, -10)

	d.Step(5)
	if n := d.Core().World().Steps(); n != 0 {
		t.Errorf("a stalled frame ran %d physics steps, want 0", n)
	}
	d.Step(5)
	if n := d.Core().World().Steps(); n != 1 {
		t.Errorf("steps after two clamped frames = %d, want 1", n)
	}
	if d.Frames() != 2 {
		t.Errorf("frames = %d, want 2", d.Frames())
	}
}

func TestFrameDrawsToSurface(t *testing.T) {
	d := newDriver(t, 10)
	rec := render.NewRecorder(900, 600)

	if err := d.Frame(1.0/60, rec); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if len(rec.Commands()) == 0 {
		t.Errorf("no draw commands recorded")
	}
}

func TestSimulateStopsAtRoundEnd(t *testing.T) {
	d := newDriver(t, 2)
	shots := []Shot{{0, -5}, {0, -5}, {0, -5}}

	taken := d.Simulate(shots, 3000)

	if taken != 2 {
		t.Errorf("taken = %d, want 2", taken)
	}
	st := d.Core().State()
	if !st.RoundOver() || st.Score != 0 {
		t.Errorf("state = %+v, want finished round with no score", st)
	}
	if d.Core().BallPresent() {
		t.Errorf("ball left on court after the round")
	}
}
