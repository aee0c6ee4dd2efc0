package physics

import "math"

// Settle holds the floor rest thresholds and damping factors.
type Settle struct {
	Proximity float64
	SlowSpeed float64
	SlowSpin  float64
	DampX     float64
	DampY     float64
	DampSpin  float64
	RestSpeed float64
}

// IsOutOfBounds reports whether a circle has left the play area by more than
// the configured margins on the sides or above the top. There is no bottom
// bound; the floor catches the ball.
func (w *World) IsOutOfBounds(b *Body, width float64) bool {
	p := b.Position
	r := b.Radius
	return p.X-r < -w.opts.OutMarginX ||
		p.X+r > width+w.opts.OutMarginX ||
		p.Y+r < -w.opts.OutMarginTop
}

// CheckFloorCollision damps a slow ball near the floor and reports true on
// the frame it has effectively stopped, zeroing its motion. It reports true
// only once per release; later calls return false until SetStatic(b, false)
// launches the body again. A ball that has not been shot never settles.
func (w *World) CheckFloorCollision(b *Body, floorY float64, shotTaken bool, s Settle) bool {
	if !shotTaken || b.settled {
		return false
	}
	if b.Position.Y+b.Radius*2 < floorY-s.Proximity {
		return false
	}

	total := b.Velocity.Manhattan()
	if total >= s.SlowSpeed || math.Abs(b.AngularVelocity) >= s.SlowSpin {
		return false
	}

	b.Velocity = V(b.Velocity.X*s.DampX, math.Min(b.Velocity.Y*s.DampY, 0))
	b.AngularVelocity *= s.DampSpin

	if total < s.RestSpeed {
		b.Velocity = Vec2{}
		b.AngularVelocity = 0
		b.settled = true
		return true
	}
	return false
}

// SetVelocity replaces a body's linear velocity.
func (w *World) SetVelocity(b *Body, v Vec2) error {
	if !w.Contains(b) {
		return ErrNoBody
	}
	b.Velocity = v
	return nil
}

func (w *World) SetAngularVelocity(b *Body, av float64) error {
	if !w.Contains(b) {
		return ErrNoBody
	}
	b.AngularVelocity = av
	return nil
}

// SetStatic freezes or releases a body.
func (w *World) SetStatic(b *Body, static bool) error {
	if !w.Contains(b) {
		return ErrNoBody
	}
	b.Static = static
	if static {
		b.Velocity = Vec2{}
		b.AngularVelocity = 0
	} else {
		b.settled = false
	}
	b.updateMass()
	return nil
}

