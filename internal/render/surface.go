package render

import (
	"fmt"
	"image/color"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is a 2D drawing context in display pixels.
type Surface interface {
	Size() (w, h float64)
	Clear(c color.RGBA)
	FillRect(x, y, w, h float64, c color.RGBA)
	StrokeRect(x, y, w, h, width float64, c color.RGBA)
	FillCircle(cx, cy, r float64, c color.RGBA)
	StrokeCircle(cx, cy, r, width float64, c color.RGBA)
	FillEllipse(cx, cy, rx, ry float64, c color.RGBA)
	// RadialGlow fades c from the inner radius out to transparent at outer.
	RadialGlow(cx, cy, inner, outer float64, c color.RGBA)
	// Line draws a segment; dash > 0 draws it dashed with equal gaps.
	Line(x1, y1, x2, y2, width, dash float64, c color.RGBA)
	Text(x, y float64, s string, size float64, align Align, c color.RGBA)
}

// Command is one recorded draw call.
type Command struct {
	Op    string    `json:"op"`
	Args  []float64 `json:"args"`
	Text  string    `json:"text,omitempty"`
	Color string    `json:"color"`
}

// Recorder is a Surface that keeps the draw calls instead of drawing them.
// Remote sessions ship its commands to clients; tests inspect them.
type Recorder struct {
	w, h float64
	cmds []Command
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h}
}

func (r *Recorder) Commands() []Command {
	return append([]Command(nil), r.cmds...)
}

func (r *Recorder) Reset() { r.cmds = r.cmds[:0] }

func (r *Recorder) add(op string, c color.RGBA, text string, args ...float64) {
	r.cmds = append(r.cmds, Command{Op: op, Args: args, Text: text, Color: Hex(c)})
}

func (r *Recorder) Size() (float64, float64) { return r.w, r.h }

func (r *Recorder) Clear(c color.RGBA) { r.add("clear", c, "") }

func (r *Recorder) FillRect(x, y, w, h float64, c color.RGBA) {
	r.add("fill_rect", c, "", x, y, w, h)
}

func (r *Recorder) StrokeRect(x, y, w, h, width float64, c color.RGBA) {
	r.add("stroke_rect", c, "", x, y, w, h, width)
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.RGBA) {
	r.add("fill_circle", c, "", cx, cy, rad)
}

func (r *Recorder) StrokeCircle(cx, cy, rad, width float64, c color.RGBA) {
	r.add("stroke_circle", c, "", cx, cy, rad, width)
}

func (r *Recorder) FillEllipse(cx, cy, rx, ry float64, c color.RGBA) {
	r.add("fill_ellipse", c, "", cx, cy, rx, ry)
}

func (r *Recorder) RadialGlow(cx, cy, inner, outer float64, c color.RGBA) {
	r.add("glow", c, "", cx, cy, inner, outer)
}

func (r *Recorder) Line(x1, y1, x2, y2, width, dash float64, c color.RGBA) {
	r.add("line", c, "", x1, y1, x2, y2, width, dash)
}

func (r *Recorder) Text(x, y float64, s string, size float64, align Align, c color.RGBA) {
	r.add("text", c, s, x, y, size, float64(align))
}

// Hex formats c as #rrggbbaa.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
