package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tenfreethrows/freethrows/internal/render"
)

// debug font cell size used by ebitenutil.DebugPrintAt
const (
	glyphW = 6
	glyphH = 16
)

// surface draws render commands onto an ebiten image.
type surface struct {
	img *ebiten.Image
}

func (s surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s surface) Clear(c color.RGBA) { s.img.Fill(c) }

func (s surface) FillRect(x, y, w, h float64, c color.RGBA) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s surface) StrokeRect(x, y, w, h, width float64, c color.RGBA) {
	vector.StrokeRect(s.img, float32(x), float32(y), float32(w), float32(h), float32(width), c, false)
}

func (s surface) FillCircle(cx, cy, r float64, c color.RGBA) {
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), c, true)
}

func (s surface) StrokeCircle(cx, cy, r, width float64, c color.RGBA) {
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(width), c, true)
}

func (s surface) FillEllipse(cx, cy, rx, ry float64, c color.RGBA) {
	for _, sp := range render.EllipseSpans(cx, cy, rx, ry) {
		vector.DrawFilledRect(s.img, float32(sp.X), float32(sp.Y), float32(sp.W), 1, c, false)
	}
}

func (s surface) RadialGlow(cx, cy, inner, outer float64, c color.RGBA) {
	radii, alpha := render.GlowRings(inner, outer, 8)
	for i, r := range radii {
		ring := c
		ring.A = uint8(float64(c.A) * alpha[i])
		vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), ring, true)
	}
}

func (s surface) Line(x1, y1, x2, y2, width, dash float64, c color.RGBA) {
	for _, seg := range render.DashSegments(x1, y1, x2, y2, dash) {
		vector.StrokeLine(s.img, float32(seg.X1), float32(seg.Y1), float32(seg.X2), float32(seg.Y2), float32(width), c, true)
	}
}

// Text uses the built-in debug font; size only affects placement.
func (s surface) Text(x, y float64, str string, size float64, align render.Align, c color.RGBA) {
	w := float64(len(str) * glyphW)
	switch align {
	case render.AlignCenter:
		x -= w / 2
	case render.AlignRight:
		x -= w
	}
	ebitenutil.DebugPrintAt(s.img, str, int(x), int(y)-glyphH/2)
}
