package physics

// manifold describes an overlap. Normal points from b toward a; pushing a
// along Normal by Depth separates the pair.
type manifold struct {
	Normal Vec2
	Depth  float64
}

func collide(a, b *Body) (manifold, bool) {
	switch {
	case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
		return circleCircle(a, b)
	case a.Shape == ShapeCircle && b.Shape == ShapeBox:
		return circleBox(a, b)
	case a.Shape == ShapeBox && b.Shape == ShapeCircle:
		m, ok := circleBox(b, a)
		m.Normal = m.Normal.Invert()
		return m, ok
	}
	return manifold{}, false
}

func circleCircle(a, b *Body) (manifold, bool) {
	d := a.Position.Minus(b.Position)
	reach := a.Radius + b.Radius
	distSq := d.MagnitudeSquared()
	if distSq >= reach*reach {
		return manifold{}, false
	}
	dist := d.Magnitude()
	if dist == 0 {
		return manifold{Normal: V(0, -1), Depth: reach}, true
	}
	return manifold{Normal: d.Times(1 / dist), Depth: reach - dist}, true
}

func circleBox(c, box *Body) (manifold, bool) {
	hw, hh := box.Width/2, box.Height/2
	local := c.Position.Minus(box.Position)
	closest := V(clamp(local.X, -hw, hw), clamp(local.Y, -hh, hh))

	if closest == local {
		// centre inside the box: exit along the shallowest axis
		dx := hw - abs(local.X)
		dy := hh - abs(local.Y)
		if dx < dy {
			return manifold{Normal: V(sign(local.X), 0), Depth: dx + c.Radius}, true
		}
		return manifold{Normal: V(0, sign(local.Y)), Depth: dy + c.Radius}, true
	}

	diff := local.Minus(closest)
	distSq := diff.MagnitudeSquared()
	if distSq >= c.Radius*c.Radius {
		return manifold{}, false
	}
	dist := diff.Magnitude()
	return manifold{Normal: diff.Times(1 / dist), Depth: c.Radius - dist}, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
