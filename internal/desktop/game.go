// Package desktop runs the game in an ebiten window.
package desktop

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tenfreethrows/freethrows/internal/app"
	"github.com/tenfreethrows/freethrows/internal/logging"
)

var ErrNoDriver = errors.New("desktop: no frame driver")

type Options struct {
	Title string
}

type Game struct {
	ctx     context.Context
	driver  *app.Driver
	log     *log.Logger
	w, h    int
	touch   ebiten.TouchID
	touched bool
	ids     []ebiten.TouchID
	drawErr error
}

func newGame(ctx context.Context, d *app.Driver, logger *log.Logger) *Game {
	return &Game{ctx: ctx, driver: d, log: logger}
}

func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if g.drawErr != nil {
		return g.drawErr
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.pointer()
	g.keys()
	g.driver.Step(1 / float64(ebiten.TPS()))
	g.drainFeedback()
	return nil
}

func (g *Game) pointer() {
	in := g.driver.Core().Input()

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		in.PointerDown(float64(x), float64(y))
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		in.PointerUp()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		in.PointerMove(float64(x), float64(y))
	}

	// only the first finger drives the gesture
	if !g.touched {
		g.ids = inpututil.AppendJustPressedTouchIDs(g.ids[:0])
		if len(g.ids) > 0 {
			g.touch, g.touched = g.ids[0], true
			x, y := ebiten.TouchPosition(g.touch)
			in.PointerDown(float64(x), float64(y))
		}
		return
	}
	if inpututil.IsTouchJustReleased(g.touch) {
		g.touched = false
		in.PointerUp()
		return
	}
	x, y := ebiten.TouchPosition(g.touch)
	in.PointerMove(float64(x), float64(y))
}

func (g *Game) keys() {
	in := g.driver.Core().Input()
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		in.Key("r")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		in.Key("p")
	}
}

// drainFeedback logs toasts and sound cues; there is no audio backend.
func (g *Game) drainFeedback() {
	for _, f := range g.driver.Core().DrainFeedback() {
		g.log.Debug("feedback", "kind", f.Kind, "message", f.Message)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.driver.Draw(surface{img: screen}); err != nil {
		g.drawErr = err
	}
}

// Layout keeps the screen at the window size and rescales the court when
// the window changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		scale := g.driver.Core().Resize(float64(outsideWidth), float64(outsideHeight))
		g.log.Debug("resize", "w", outsideWidth, "h", outsideHeight, "scale", scale)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes or ctx is cancelled.
func Run(ctx context.Context, d *app.Driver, opts Options, logger *log.Logger) error {
	if d == nil {
		return ErrNoDriver
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Title == "" {
		opts.Title = "Ten Free Throws"
	}

	tun := d.Core().Tuning()
	ebiten.SetWindowSize(int(tun.World.Width), int(tun.World.Height))
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("opening window", "title", opts.Title)
	err := ebiten.RunGame(newGame(ctx, d, logger))
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
