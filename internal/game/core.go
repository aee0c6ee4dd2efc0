// Package game holds the free-throw rules: the round state machine, the
// collision policy applied to physics contacts, scoring and persistence.
//
// A Core is driven from a single goroutine. Each frame the driver advances
// the physics world, which delivers contacts to the Core, then calls Update.
package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/input"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/physics"
	"github.com/tenfreethrows/freethrows/internal/schedule"
)

const (
	keyRespawn schedule.Key = "respawn"
	keyToast   schedule.Key = "toast"
)

type Options struct {
	Tuning config.Tuning
	// Slot is optional; without it progress is not kept between sessions.
	Slot Slot
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *log.Logger
	// OnRoundComplete runs when the last shot of a round is counted.
	OnRoundComplete func(RoundResult)
}

type Core struct {
	tun     config.Tuning
	world   *physics.World
	bounds  physics.Boundaries
	input   *input.Manager
	sched   *schedule.Scheduler
	slot    Slot
	now     func() time.Time
	log     *log.Logger
	onRound func(RoundResult)

	state     GameState
	ball      Ball
	hoop      Hoop
	hoopBody  [3]*physics.Body
	freeThrow physics.Vec2
	scale     float64

	// generation changes on restart so stale respawn timers do nothing
	generation int
	lastPlayed string
	toast      Toast
	feedback   []Feedback
}

// New builds the world, loads persisted progress and spawns the first ball.
func New(ctx context.Context, opts Options) (*Core, error) {
	tun := opts.Tuning
	if err := tun.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	c := &Core{
		tun:     tun,
		sched:   schedule.New(),
		slot:    opts.Slot,
		now:     opts.Now,
		log:     opts.Logger,
		onRound: opts.OnRoundComplete,
		state:   DefaultState(tun.Rules.Shots),
		scale:   1,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = logging.Discard()
	}

	w := tun.World
	c.world = physics.NewWorld(physics.Options{
		Width:            w.Width,
		Height:           w.Height,
		Gravity:          physics.V(0, w.Gravity),
		StepSeconds:      1 / w.StepHz,
		Substeps:         w.Substeps,
		MaxStepsPerFrame: w.MaxStepsPerFrame,
		RestingThreshold: w.RestingThreshold,
		OutMarginX:       w.OutMarginX,
		OutMarginTop:     w.OutMarginTop,
	})
	c.world.OnContact(c.handleContact)

	c.input = input.NewManager(input.Handlers{
		Shoot:          c.Shoot,
		Restart:        c.RestartRound,
		TogglePractice: c.TogglePractice,
	}, tun.Input.MaxPull, tun.Input.PowerDivisor)

	c.ball = Ball{Radius: tun.Ball.Radius, Trail: NewTrail(tun.Ball.TrailLength)}
	c.hoop = buildHoop(tun.Hoop)
	c.freeThrow = physics.V(tun.Ball.FreeThrowX, w.FloorY)

	c.loadPersisted(ctx)
	c.buildCourt()

	return c, nil
}

func buildHoop(h config.HoopTuning) Hoop {
	return Hoop{
		X: h.X,
		Y: h.Y,
		R: h.Radius,
		Left: Peg{
			X: h.X - h.Radius,
			Y: h.Y,
			R: h.LeftPegRadius,
		},
		Right: Peg{
			X: h.X + h.Radius - h.RightPegInset,
			Y: h.Y + h.RightPegDrop,
			R: h.RightPegRadius,
		},
		Board: Board{
			X: h.X + h.Radius + h.BoardGap,
			Y: h.Y - h.BoardRise,
			W: h.BoardWidth,
			H: h.BoardHeight,
		},
	}
}

func (c *Core) World() *physics.World { return c.world }
func (c *Core) Input() *input.Manager { return c.input }
func (c *Core) State() GameState { return c.state }
func (c *Core) Hoop() Hoop { return c.hoop }
func (c *Core) Tuning() config.Tuning { return c.tun }
func (c *Core) Now() time.Time { return c.now() }
func (c *Core) BallAtRest() bool { return c.ball.Body != nil && c.ball.AtRest }
func (c *Core) BallPresent() bool { return c.ball.Body != nil }
func (c *Core) Toast() Toast { return c.toast }
func (c *Core) RespawnPending() bool { return c.sched.Pending(keyRespawn) }

// CanShoot is the drag predicate: a resting ball and shots left or practice.
func (c *Core) CanShoot() bool {
	return c.BallAtRest() && (c.state.Practice || c.state.ShotsLeft > 0)
}

// Resize adapts to a new display size. The world keeps its logical size;
// input is rescaled and the static geometry is rebuilt.
func (c *Core) Resize(displayW, displayH float64) float64 {
	w := c.tun.World
	scale := math.Min(displayW/w.Width, displayH/w.Height)
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	c.scale = scale
	c.input.SetScale(scale)
	c.buildCourt()
	return scale
}

// buildCourt recreates boundaries and hoop bodies, and respawns the ball
// unless a shot is in flight.
func (c *Core) buildCourt() {
	for _, b := range []*physics.Body{c.bounds.Floor, c.bounds.LeftWall, c.bounds.RightWall, c.bounds.Ceiling} {
		if b != nil {
			c.world.Remove(b.ID)
		}
	}
	w := c.tun.World
	c.bounds = c.world.CreateBoundaries(w.Width, w.Height, w.FloorY, w.FloorThickness, material(c.tun.Materials.Floor))

	if !c.ball.InFlight() {
		c.spawnBall()
	}
	c.createHoopBodies()
}

func material(m config.Material) physics.Material {
	return physics.Material{
		Restitution: m.Restitution,
		Friction:    m.Friction,
		Density:     m.Density,
		AirFriction: m.AirFriction,
	}
}

// createHoopBodies destroys and recreates the rim pegs and backboard together.
func (c *Core) createHoopBodies() {
	for i, b := range c.hoopBody {
		if b != nil {
			c.world.Remove(b.ID)
			c.hoopBody[i] = nil
		}
	}

	h := c.hoop
	t := c.tun.Hoop
	rim := material(c.tun.Materials.Rim)
	c.hoopBody[0] = c.world.CreateRimPeg(h.Left.X, h.Left.Y, h.Left.R, rim)
	c.hoopBody[1] = c.world.CreateRimPeg(h.Right.X, h.Right.Y, h.Right.R, rim)
	c.hoopBody[2] = c.world.CreateBackboard(
		h.Board.X+h.Board.W/2,
		h.Board.Y+h.Board.H/2+t.BoardBodyDrop,
		h.Board.W-t.BoardBodyTrimW,
		h.Board.H-t.BoardBodyTrimH,
		material(c.tun.Materials.Backboard),
	)
}

// spawnBall removes the current ball and places a fresh one on the line,
// unless the round is over.
func (c *Core) spawnBall() {
	if c.ball.Body != nil {
		c.world.Remove(c.ball.Body.ID)
		c.ball.Body = nil
	}
	if c.state.RoundOver() {
		return
	}

	r := c.ball.Radius
	x := c.freeThrow.X
	y := c.tun.World.FloorY - r*2 + c.tun.Ball.SpawnLift
	c.ball.Body = c.world.CreateBall(x, y, r, material(c.tun.Materials.Ball))

	c.ball.AtRest = true
	c.ball.ShotTaken = false
	c.ball.Scored = false
	c.ball.Swish = false
	c.ball.IsAboveHoop = false
	c.ball.HitRim = false
	c.ball.Counted = false
	c.ball.Settled = false
	c.ball.Trail.Reset()
	c.ball.Shadow = Shadow{
		X:       x,
		Y:       c.tun.World.FloorY - r,
		Radius:  r * c.tun.Shadow.BaseScale,
		Opacity: c.tun.Shadow.MaxOpacity,
	}
}

func (c *Core) respawn() {
	c.spawnBall()
	c.createHoopBodies()
}

// Shoot launches a resting ball. It does nothing while the ball is in flight.
func (c *Core) Shoot(vx, vy float64) {
	if !c.BallAtRest() {
		return
	}
	b := c.ball.Body
	c.world.SetStatic(b, false)
	c.world.SetVelocity(b, physics.V(vx, vy))

	speed := math.Hypot(vx, vy)
	spin := (vx/c.ball.Radius)*c.tun.Ball.SpinFactor + speed*c.tun.Ball.BackspinFactor
	c.world.SetAngularVelocity(b, spin)

	c.ball.AtRest = false
	c.ball.ShotTaken = true
	c.ball.Counted = false
	c.ball.Swish = false
	c.ball.IsAboveHoop = false
	c.log.Debug("shot", "vx", vx, "vy", vy, "spin", spin)
}

// Update runs one frame of game logic. dt is in seconds.
func (c *Core) Update(dt float64) {
	if dt > 0 {
		c.sched.Advance(time.Duration(dt * float64(time.Second)))
	}

	c.input.UpdateDragging(c.CanShoot())
	c.updateShadow()

	if !c.ball.InFlight() {
		return
	}
	pos := c.ball.Body.Position
	c.ball.Trail.Push(pos)

	if c.world.IsOutOfBounds(c.ball.Body, c.tun.World.Width) {
		c.EndShot(false)
		return
	}
	c.checkScoring()
}

// EndShot terminates the current shot. Only the first call per shot counts it;
// a miss always clears the streak unless the ball already went in.
func (c *Core) EndShot(made bool) {
	if c.ball.Body == nil || !c.ball.ShotTaken {
		return
	}

	if !c.ball.Counted {
		c.ball.Counted = true
		if !c.state.Practice {
			c.state.ShotsLeft = max(0, c.state.ShotsLeft-1)
			if c.state.ShotsLeft == 0 {
				c.completeRound()
			}
		}

		delay := c.tun.Rules.MissRespawnMs
		if made {
			delay = c.tun.Rules.MadeRespawnMs
		}
		gen := c.generation
		c.sched.After(keyRespawn, time.Duration(delay)*time.Millisecond, func() {
			if gen != c.generation {
				return
			}
			c.respawn()
		})
		c.log.Debug("shot ended", "made", made, "shots_left", c.state.ShotsLeft)
	}

	if !made && !c.ball.Scored {
		c.state.Streak = 0
	}
}

func (c *Core) completeRound() {
	today := c.today()
	if c.lastPlayed != today {
		c.state.DaysInARow++
	}
	c.lastPlayed = today
	c.persist(context.Background(), today)

	result := RoundResult{
		Date:       today,
		Score:      c.state.Score,
		BestStreak: c.state.BestStreak,
		DaysInARow: c.state.DaysInARow,
	}
	c.log.Info("round complete", "score", result.Score, "best_streak", result.BestStreak, "days_in_a_row", result.DaysInARow)
	if c.onRound != nil {
		c.onRound(result)
	}
}

// RestartRound resets the round counters and puts a fresh ball on the line.
// Practice mode and the day count are kept.
func (c *Core) RestartRound() {
	fresh := DefaultState(c.tun.Rules.Shots)
	fresh.Practice = c.state.Practice
	fresh.DaysInARow = c.state.DaysInARow
	c.state = fresh

	c.generation++
	c.sched.Cancel(keyRespawn)
	c.respawn()
	c.setToast(MsgNewRound)
}

// TogglePractice flips practice mode. Turning it on after the round ended
// puts a ball back on the line.
func (c *Core) TogglePractice() {
	c.state.Practice = !c.state.Practice
	if c.state.Practice {
		if c.ball.Body == nil && !c.sched.Pending(keyRespawn) {
			c.respawn()
		}
		c.setToast(MsgPracticeOn)
		return
	}
	c.setToast(MsgPracticeOff)
}
