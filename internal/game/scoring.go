package game

import "math"

// checkScoring runs the make test for a ball in flight. The ball must be seen
// above the rim between the pegs, then below the rim still between them.
func (c *Core) checkScoring() {
	if c.ball.Counted {
		return
	}
	p := c.ball.Body.Position
	h := c.hoop
	between := p.X > h.Left.X && p.X < h.Right.X

	switch {
	case between && p.Y < h.Y:
		c.ball.IsAboveHoop = true
	case between && !c.ball.Scored && c.ball.ShotTaken && c.ball.IsAboveHoop && p.Y > h.Y:
		c.ball.IsAboveHoop = false
		c.registerMake()
	default:
		c.ball.IsAboveHoop = false
	}

	if c.ball.Scored && p.Y > h.Y+h.R*c.tun.Rules.ExitDepthRadii {
		c.EndShot(true)
	}
}

func (c *Core) registerMake() {
	c.ball.Scored = true
	c.state.Score++
	c.state.Streak++
	c.state.BestStreak = max(c.state.BestStreak, c.state.Streak)
	c.ball.Swish = !c.ball.HitRim

	c.cue(CueNet)
	if c.ball.Swish {
		c.state.Score += c.tun.Rules.SwishBonus
		c.setToast(MsgSwish)
	} else {
		c.setToast(MsgBucket)
	}
	c.log.Debug("make", "swish", c.ball.Swish, "score", c.state.Score, "streak", c.state.Streak)
}

// updateShadow grows and fades the shadow with height above the floor.
func (c *Core) updateShadow() {
	if c.ball.Body == nil {
		return
	}
	s := c.tun.Shadow
	r := c.ball.Radius
	floorY := c.tun.World.FloorY
	p := c.ball.Body.Position
	height := floorY - p.Y - r

	if height > s.MaxHeight {
		c.ball.Shadow = Shadow{X: p.X, Y: floorY - r}
		return
	}

	ratio := math.Max(0, height/s.MaxHeight)
	base := r * s.BaseScale
	top := r * s.MaxScale
	c.ball.Shadow = Shadow{
		X:       p.X,
		Y:       floorY - r,
		Radius:  base + (top-base)*ratio,
		Opacity: s.MaxOpacity - (s.MaxOpacity-s.MinOpacity)*ratio,
	}
}
