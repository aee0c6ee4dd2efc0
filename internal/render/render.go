// Package render composes a frame from a game snapshot. Layers are drawn in
// a fixed order so the ball passes in front of the court markings and behind
// the backboard and rim.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/physics"
)

var ErrNoSurface = errors.New("render: no drawing surface")

type Layer string

const (
	LayerClear      Layer = "clear"
	LayerBackground Layer = "background"
	LayerCourt      Layer = "court"
	LayerBodies     Layer = "bodies"
	LayerEffects    Layer = "effects"
	LayerHoop       Layer = "hoop"
	LayerAim        Layer = "aim"
	LayerOverlay    Layer = "overlay"
	LayerToast      Layer = "toast"
)

var (
	colBlank      = color.RGBA{}
	colSky        = color.RGBA{0x1d, 0x22, 0x33, 0xff}
	colHorizon    = color.RGBA{0x3b, 0x2f, 0x3f, 0xff}
	colFloor      = color.RGBA{0x8a, 0x5a, 0x3c, 0xff}
	colFloorEdge  = color.RGBA{0x6e, 0x44, 0x2b, 0xff}
	colCourtLine  = color.RGBA{0xff, 0xff, 0xff, 0x26}
	colShadow     = color.RGBA{0x00, 0x00, 0x00, 0x40}
	colBoardBody  = color.RGBA{0x2a, 0x1f, 0x18, 0xff}
	colBoardText  = color.RGBA{0xd6, 0xc1, 0xa1, 0xff}
	colZero       = color.RGBA{0xc7, 0x2c, 0x48, 0xff}
	colBall       = color.RGBA{0xe0, 0x78, 0x2c, 0xff}
	colSeam       = color.RGBA{0x3a, 0x1e, 0x0e, 0xff}
	colRim        = color.RGBA{0xc7, 0x2c, 0x48, 0xff}
	colTrail      = color.RGBA{0xff, 0xff, 0xff, 0x33}
	colGlow       = color.RGBA{0xff, 0xc8, 0x50, 0x59}
	colBackboard  = color.RGBA{0xf2, 0xf2, 0xf2, 0xe6}
	colBoardFrame = color.RGBA{0x33, 0x33, 0x33, 0xff}
	colPole       = color.RGBA{0x55, 0x55, 0x5a, 0xff}
	colNet        = color.RGBA{0xff, 0xff, 0xff, 0xb3}
	colAim        = color.RGBA{0xff, 0xff, 0xff, 0xb3}
	colDim        = color.RGBA{0x00, 0x00, 0x00, 0x40}
	colWhite      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

type Options struct {
	// MaxPull caps the aim line length, in world units.
	MaxPull float64
	// OnLayer, when set, is called as each layer starts.
	OnLayer func(Layer)
}

type Renderer struct {
	maxPull float64
	onLayer func(Layer)
}

func New(opts Options) *Renderer {
	if opts.MaxPull <= 0 {
		opts.MaxPull = 180
	}
	return &Renderer{maxPull: opts.MaxPull, onLayer: opts.OnLayer}
}

func (r *Renderer) layer(l Layer) {
	if r.onLayer != nil {
		r.onLayer(l)
	}
}

// Draw renders one frame of snap onto s.
func (r *Renderer) Draw(s Surface, snap game.Snapshot) error {
	if s == nil {
		return ErrNoSurface
	}
	k := snap.Scale
	if k <= 0 {
		k = 1
	}

	r.layer(LayerClear)
	s.Clear(colBlank)

	r.layer(LayerBackground)
	r.drawBackground(s, snap, k)

	r.layer(LayerCourt)
	r.drawCourt(s, snap, k)

	r.layer(LayerBodies)
	r.drawBodies(s, snap, k)

	r.layer(LayerEffects)
	r.drawEffects(s, snap, k)

	r.layer(LayerHoop)
	r.drawHoop(s, snap, k)

	if snap.Gesture.Dragging && snap.Ball.Present && snap.Ball.AtRest {
		r.layer(LayerAim)
		r.drawAim(s, snap, k)
	}

	if snap.State.RoundOver() {
		r.layer(LayerOverlay)
		r.drawGameOver(s, snap.State, k)
	}

	if snap.Toast.Visible {
		r.layer(LayerToast)
		w, h := s.Size()
		s.Text(w/2, h*0.22, snap.Toast.Message, 36*k, AlignCenter, colWhite)
	}
	return nil
}

func (r *Renderer) drawBackground(s Surface, snap game.Snapshot, k float64) {
	w, h := s.Size()
	top := (snap.FloorY - 25) * k
	s.FillRect(0, 0, w, h, colSky)
	s.FillRect(0, top-80*k, w, 80*k, colHorizon)
	s.FillRect(0, top, w, h-top, colFloor)
	s.Line(0, top, w, top, 2*k, 0, colFloorEdge)
}

func (r *Renderer) drawCourt(s Surface, snap game.Snapshot, k float64) {
	st := snap.State
	if snap.Ball.AtRest && st.ShotsLeft > 0 {
		s.StrokeCircle(snap.FreeThrow.X*k, (snap.FreeThrow.Y-60)*k, 120*k, 3*k, colCourtLine)
	}

	// hoop shadow sits on the display floor under the far rim
	s.FillEllipse(snap.Hoop.Right.X*k, snap.FloorY*k-10, 90*k, 27*k, colShadow)

	if st.ShotsLeft != 0 && snap.Ball.Present {
		sh := snap.Ball.Shadow
		if sh.Opacity > 0 {
			c := colShadow
			c.A = uint8(math.Round(255 * 0.4 * sh.Opacity))
			s.FillEllipse((sh.X-10)*k, sh.Y*k, sh.Radius*k, sh.Radius*0.3*k, c)
		}
	}

	r.scoreboard(s, 30*k, 65*k, "Month", "Day", int(snap.Date.Month()), snap.Date.Day(), k)
	r.scoreboard(s, 30*k, 175*k, "Score", "# Left", st.Score, st.ShotsLeft, k)
}

func (r *Renderer) scoreboard(s Surface, x, y float64, label1, label2 string, v1, v2 int, k float64) {
	s.FillRect(x, y, 200*k, 100*k, colBoardBody)
	s.StrokeRect(x, y, 200*k, 100*k, 2*k, colBoardFrame)
	s.Text(x+64*k, y+88*k, label1, 14*k, AlignCenter, colBoardText)
	s.Text(x+137*k, y+88*k, label2, 14*k, AlignCenter, colBoardText)
	s.Text(x+65*k, y+60*k, twoDigits(v1), 44*k, AlignCenter, colBoardText)

	right := colBoardText
	if v2 == 0 {
		right = colZero
	}
	s.Text(x+139*k, y+60*k, twoDigits(v2), 44*k, AlignCenter, right)
}

func twoDigits(v int) string {
	return fmt.Sprintf("%02d", v)
}

// drawBodies draws every visible body, dispatching on its label.
func (r *Renderer) drawBodies(s Surface, snap game.Snapshot, k float64) {
	bodies := append([]physics.BodyView(nil), snap.Bodies...)
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].ID < bodies[j].ID })

	for _, b := range bodies {
		if b.Hidden {
			continue
		}
		x, y := b.Position.X*k, b.Position.Y*k
		switch b.Label {
		case physics.LabelBall:
			drawBall(s, x, y, b.Radius*k, b.Angle, k)
		case physics.LabelRim:
			s.FillCircle(x, y, b.Radius*k, colRim)
		default:
			if b.Shape == physics.ShapeCircle {
				s.FillCircle(x, y, b.Radius*k, colPole)
			} else {
				s.FillRect(x-b.Width*k/2, y-b.Height*k/2, b.Width*k, b.Height*k, colPole)
			}
		}
	}
}

func drawBall(s Surface, x, y, rad, angle, k float64) {
	s.FillCircle(x, y, rad, colBall)
	for _, a := range []float64{angle, angle + math.Pi/2} {
		dx, dy := math.Cos(a)*rad, math.Sin(a)*rad
		s.Line(x-dx, y-dy, x+dx, y+dy, 1.5*k, 0, colSeam)
	}
	s.StrokeCircle(x, y, rad, 1.5*k, colSeam)
}

func (r *Renderer) drawEffects(s Surface, snap game.Snapshot, k float64) {
	b := snap.Ball
	if !b.Present {
		return
	}
	for i := 1; i < len(b.Trail); i++ {
		p, q := b.Trail[i-1], b.Trail[i]
		s.Line(p.X*k, p.Y*k, q.X*k, q.Y*k, 2*k, 0, colTrail)
	}
	if b.Swish {
		s.RadialGlow(b.Position.X*k, b.Position.Y*k, b.Radius*0.3*k, b.Radius*2.8*k, colGlow)
	}
}

// drawHoop draws the pole, the backboard, the front of the rim and the net
// over the bodies layer.
func (r *Renderer) drawHoop(s Surface, snap game.Snapshot, k float64) {
	h := snap.Hoop
	b := h.Board
	poleX := b.X + b.W + 4
	s.FillRect(poleX*k, (b.Y+b.H/2)*k, 10*k, (snap.FloorY-25-b.Y-b.H/2)*k, colPole)
	s.FillRect(b.X*k, b.Y*k, b.W*k, b.H*k, colBackboard)
	s.StrokeRect(b.X*k, b.Y*k, b.W*k, b.H*k, 2*k, colBoardFrame)

	lx, rx := h.Left.X*k, h.Right.X*k
	top := h.Y * k
	depth := h.R * 1.1 * k
	inset := (rx - lx) * 0.2
	const strands = 5
	for i := 0; i <= strands; i++ {
		t := float64(i) / strands
		x0 := lx + (rx-lx)*t
		x1 := lx + inset + (rx-lx-2*inset)*t
		s.Line(x0, top, x1, top+depth, 1.2*k, 0, colNet)
	}
	s.Line(lx, top, rx, top, 4*k, 0, colRim)
}

func (r *Renderer) drawAim(s Surface, snap game.Snapshot, k float64) {
	pull := snap.Gesture.Pull()
	length := math.Min(r.maxPull, math.Hypot(pull.X, pull.Y))
	ang := math.Atan2(pull.Y, pull.X)
	ax, ay := snap.Ball.Position.X*k, snap.Ball.Position.Y*k
	dx, dy := math.Cos(ang)*length*k, math.Sin(ang)*length*k

	s.Line(ax, ay, ax+dx, ay+dy, 2*k, 6*k, colAim)
	for i := 0; i < 5; i++ {
		t := float64(i+1) / 6
		c := colWhite
		c.A = uint8(math.Round(255 * (0.25 + 0.12*float64(i))))
		s.FillCircle(ax+dx*t, ay+dy*t, (3+float64(i)*0.4)*k, c)
	}
}

func (r *Renderer) drawGameOver(s Surface, st game.GameState, k float64) {
	w, h := s.Size()
	s.FillRect(0, 0, w, h, colDim)
	s.Text(w/2, h*0.52, "Day Over", 50*k, AlignCenter, colWhite)
	s.Text(w/2, h*0.56, DaysLine(st.DaysInARow), 24*k, AlignCenter, colWhite)
}

// DaysLine is the streak sentence under the game-over title.
func DaysLine(days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("You have played %d %s in a row.", days, unit)
}
