package game

import "github.com/tenfreethrows/freethrows/internal/physics"

// handleContact applies the collision policy. Pairs without the current
// ball are ignored; the ball may be either participant.
func (c *Core) handleContact(ct physics.Contact) {
	ball, other, ok := ct.Other(physics.LabelBall)
	if !ok || c.ball.Body == nil || ball.ID != c.ball.Body.ID {
		return
	}

	if ct.Phase == physics.Active {
		if other.Label == physics.LabelFloor {
			c.handleFloorContact(ball)
		}
		return
	}

	speed := ball.Velocity.Magnitude()
	rules := c.tun.Rules
	fb := c.tun.Feedback

	switch other.Label {
	case physics.LabelRim:
		c.ball.HitRim = true
		if speed > fb.RimCueSpeed {
			c.cue(CueRim)
		}
		c.world.SetVelocity(ball, ball.Velocity.Times(rules.RimDamping))

	case physics.LabelBackboard:
		c.ball.HitRim = true
		if speed > fb.BackboardCueSpeed {
			c.cue(CueBackboard)
		}
		c.world.SetVelocity(ball, ball.Velocity.TimesVec(physics.V(rules.BackboardDampingX, rules.BackboardDampingY)))
		c.world.SetAngularVelocity(ball, ball.AngularVelocity*rules.BackboardSpinDamping)

	case physics.LabelFloor:
		if speed > fb.FloorCueSpeed {
			c.cue(CueDribble)
		}

	case physics.LabelLeftWall, physics.LabelRightWall, physics.LabelCeiling:
		c.log.Debug("out of bounds", "sensor", other.Label)
		c.EndShot(false)
	}
}

// handleFloorContact ends the shot on the frame the ball settles. The world
// reports rest once per release, so later floor contacts are no-ops.
func (c *Core) handleFloorContact(ball *physics.Body) {
	if c.ball.Settled {
		return
	}
	if c.world.CheckFloorCollision(ball, c.tun.World.FloorY, c.ball.ShotTaken, c.settleRules()) {
		c.ball.Settled = true
		c.EndShot(false)
	}
}

func (c *Core) settleRules() physics.Settle {
	s := c.tun.Settle
	return physics.Settle{
		Proximity: s.Proximity,
		SlowSpeed: s.SlowSpeed,
		SlowSpin:  s.SlowSpin,
		DampX:     s.DampX,
		DampY:     s.DampY,
		DampSpin:  s.DampSpin,
		RestSpeed: s.RestSpeed,
	}
}
