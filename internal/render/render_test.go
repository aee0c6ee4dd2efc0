package render

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/store"
)

func testNow() time.Time {
	return time.Date(2025, time.September, 10, 12, 0, 0, 0, time.Local)
}

func newCore(t *testing.T, slot game.Slot) *game.Core {
	t.Helper()
	c, err := game.New(context.Background(), game.Options{
		Tuning: config.DefaultTuning(),
		Slot:   slot,
		Now:    testNow,
	})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return c
}

func finishedCore(t *testing.T, days int) *game.Core {
	t.Helper()
	raw := []byte(`{"schemaVersion":2,"date":"2025-09-10","score":7,"daysInARow":` + itoa(days) + `}`)
	return newCore(t, store.NewMemorySlot(raw))
}

func itoa(n int) string { return strconv.Itoa(n) }

func drawLayers(t *testing.T, c *game.Core) ([]Layer, *Recorder) {
	t.Helper()
	var layers []Layer
	r := New(Options{OnLayer: func(l Layer) { layers = append(layers, l) }})
	rec := NewRecorder(900, 600)
	if err := r.Draw(rec, c.Snapshot()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return layers, rec
}

func indexOf(cmds []Command, match func(Command) bool) int {
	for i, c := range cmds {
		if match(c) {
			return i
		}
	}
	return -1
}

func TestLayerOrderAtRest(t *testing.T) {
	layers, _ := drawLayers(t, newCore(t, nil))

	want := []Layer{LayerClear, LayerBackground, LayerCourt, LayerBodies, LayerEffects, LayerHoop}
	if !reflect.DeepEqual(layers, want) {
		t.Errorf("layers = %v, want %v", layers, want)
	}
}

func TestAimOnlyWhileDragging(t *testing.T) {
	c := newCore(t, nil)
	c.Input().PointerDown(200, 500)
	c.Update(0)
	c.Input().PointerMove(140, 620)

	layers, rec := drawLayers(t, c)
	want := []Layer{LayerClear, LayerBackground, LayerCourt, LayerBodies, LayerEffects, LayerHoop, LayerAim}
	if !reflect.DeepEqual(layers, want) {
		t.Fatalf("layers = %v, want %v", layers, want)
	}

	cmds := rec.Commands()
	dashed := indexOf(cmds, func(c Command) bool { return c.Op == "line" && c.Args[5] > 0 })
	if dashed < 0 {
		t.Fatalf("no dashed aim line recorded")
	}
	dots := 0
	for _, cmd := range cmds[dashed+1:] {
		if cmd.Op == "fill_circle" {
			dots++
		}
	}
	if dots != 5 {
		t.Errorf("power dots = %d, want 5", dots)
	}

	c.Input().PointerUp()
	layers, _ = drawLayers(t, c)
	for _, l := range layers {
		if l == LayerAim {
			t.Errorf("aim drawn after the shot was released")
		}
	}
}

func TestBallBetweenCourtAndBackboard(t *testing.T) {
	_, rec := drawLayers(t, newCore(t, nil))
	cmds := rec.Commands()

	arc := indexOf(cmds, func(c Command) bool { return c.Op == "stroke_circle" && c.Color == Hex(colCourtLine) })
	ball := indexOf(cmds, func(c Command) bool { return c.Op == "fill_circle" && c.Color == Hex(colBall) })
	board := indexOf(cmds, func(c Command) bool { return c.Op == "fill_rect" && c.Color == Hex(colBackboard) })

	if arc < 0 || ball < 0 || board < 0 {
		t.Fatalf("missing commands: arc=%d ball=%d board=%d", arc, ball, board)
	}
	if !(arc < ball && ball < board) {
		t.Errorf("draw order arc=%d ball=%d board=%d, want arc < ball < board", arc, ball, board)
	}
}

func TestGameOverOverlay(t *testing.T) {
	c := finishedCore(t, 3)
	layers, rec := drawLayers(t, c)

	if layers[len(layers)-1] != LayerOverlay {
		t.Fatalf("last layer = %v, want overlay", layers[len(layers)-1])
	}
	cmds := rec.Commands()
	if indexOf(cmds, func(c Command) bool { return c.Text == "Day Over" }) < 0 {
		t.Errorf("missing Day Over title")
	}
	if indexOf(cmds, func(c Command) bool { return c.Text == "You have played 3 days in a row." }) < 0 {
		t.Errorf("missing days line")
	}
	if indexOf(cmds, func(c Command) bool { return c.Op == "stroke_circle" && c.Color == Hex(colCourtLine) }) >= 0 {
		t.Errorf("free-throw arc drawn with no shots left")
	}
	zero := indexOf(cmds, func(c Command) bool { return c.Op == "text" && c.Text == "00" })
	if zero < 0 || cmds[zero].Color != Hex(colZero) {
		t.Errorf("zero shots left should be drawn in red")
	}
	if indexOf(cmds, func(c Command) bool { return c.Op == "text" && c.Text == "07" }) < 0 {
		t.Errorf("score should be zero padded")
	}

	c.TogglePractice()
	layers, _ = drawLayers(t, c)
	for _, l := range layers {
		if l == LayerOverlay {
			t.Errorf("overlay drawn in practice mode")
		}
	}
}

func TestScoreboardShowsDate(t *testing.T) {
	_, rec := drawLayers(t, newCore(t, nil))
	cmds := rec.Commands()

	for _, want := range []string{"Month", "Day", "09", "10", "Score", "# Left"} {
		if indexOf(cmds, func(c Command) bool { return c.Op == "text" && c.Text == want }) < 0 {
			t.Errorf("scoreboard text %q missing", want)
		}
	}
}

func TestToastDrawnLast(t *testing.T) {
	c := newCore(t, nil)
	c.TogglePractice()

	layers, rec := drawLayers(t, c)
	if layers[len(layers)-1] != LayerToast {
		t.Fatalf("last layer = %v, want toast", layers[len(layers)-1])
	}
	cmds := rec.Commands()
	if cmds[len(cmds)-1].Text != game.MsgPracticeOn {
		t.Errorf("last command = %+v, want practice toast", cmds[len(cmds)-1])
	}
}

func TestDrawWithoutSurface(t *testing.T) {
	err := New(Options{}).Draw(nil, newCore(t, nil).Snapshot())
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("err = %v, want ErrNoSurface", err)
	}
}

func TestDaysLine(t *testing.T) {
	cases := map[int]string{
		0: "You have played 0 days in a row.",
		1: "You have played 1 day in a row.",
		5: "You have played 5 days in a row.",
	}
	for days, want := range cases {
		if got := DaysLine(days); got != want {
			t.Errorf("DaysLine(%d) = %q, want %q", days, got, want)
		}
	}
}
