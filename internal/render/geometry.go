package render

import "math"

// Segment is a line piece from (X1, Y1) to (X2, Y2).
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// DashSegments splits a line into dashes of length dash separated by equal
// gaps. A non-positive dash yields the whole line.
func DashSegments(x1, y1, x2, y2, dash float64) []Segment {
	length := math.Hypot(x2-x1, y2-y1)
	if dash <= 0 || length <= dash {
		return []Segment{{x1, y1, x2, y2}}
	}
	ux, uy := (x2-x1)/length, (y2-y1)/length
	var out []Segment
	for d := 0.0; d < length; d += 2 * dash {
		end := math.Min(d+dash, length)
		out = append(out, Segment{x1 + ux*d, y1 + uy*d, x1 + ux*end, y1 + uy*end})
	}
	return out
}

// Span is one horizontal row of a filled shape.
type Span struct {
	X, Y, W float64
}

// EllipseSpans covers an axis-aligned ellipse with one-pixel rows.
func EllipseSpans(cx, cy, rx, ry float64) []Span {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	var out []Span
	for dy := -ry; dy < ry; dy++ {
		mid := (dy + 0.5) / ry
		if mid*mid >= 1 {
			continue
		}
		half := rx * math.Sqrt(1-mid*mid)
		out = append(out, Span{X: cx - half, Y: cy + dy, W: 2 * half})
	}
	return out
}

// GlowRings returns radii and alpha scales for drawing a radial fade as
// stacked translucent discs, outermost first.
func GlowRings(inner, outer float64, rings int) (radii, alpha []float64) {
	if rings < 1 || outer <= inner {
		return nil, nil
	}
	for i := 0; i < rings; i++ {
		t := float64(i) / float64(rings)
		radii = append(radii, outer-(outer-inner)*t)
		alpha = append(alpha, 1/float64(rings))
	}
	return radii, alpha
}
