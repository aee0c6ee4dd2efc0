package game

import (
	"time"

	"github.com/tenfreethrows/freethrows/internal/input"
	"github.com/tenfreethrows/freethrows/internal/physics"
)

// BallView is the drawable part of the ball.
type BallView struct {
	Present  bool           `json:"present"`
	Position physics.Vec2   `json:"position"`
	Angle    float64        `json:"angle"`
	Radius   float64        `json:"radius"`
	AtRest   bool           `json:"at_rest"`
	Settled  bool           `json:"settled"`
	Swish    bool           `json:"swish"`
	Trail    []physics.Vec2 `json:"trail"`
	Shadow   Shadow         `json:"shadow"`
}

// Snapshot is an immutable copy of everything the renderer reads in a frame.
type Snapshot struct {
	State     GameState          `json:"state"`
	Ball      BallView           `json:"ball"`
	Hoop      Hoop               `json:"hoop"`
	FreeThrow physics.Vec2       `json:"free_throw"`
	FloorY    float64            `json:"floor_y"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Scale     float64            `json:"scale"`
	Gesture   input.Gesture      `json:"-"`
	Toast     Toast              `json:"toast"`
	Date      time.Time          `json:"date"`
	Bodies    []physics.BodyView `json:"-"`
}

func (c *Core) Snapshot() Snapshot {
	bv := BallView{Radius: c.ball.Radius, Shadow: c.ball.Shadow}
	if b := c.ball.Body; b != nil {
		bv.Present = true
		bv.Position = b.Position
		bv.Angle = b.Angle
		bv.AtRest = c.ball.AtRest
		bv.Settled = c.ball.Settled
		bv.Swish = c.ball.Swish
		bv.Trail = c.ball.Trail.Points()
	}

	w := c.tun.World
	return Snapshot{
		State:     c.state,
		Ball:      bv,
		Hoop:      c.hoop,
		FreeThrow: c.freeThrow,
		FloorY:    w.FloorY,
		Width:     w.Width,
		Height:    w.Height,
		Scale:     c.scale,
		Gesture:   c.input.Gesture(),
		Toast:     c.toast,
		Date:      c.now(),
		Bodies:    c.world.Bodies(),
	}
}
