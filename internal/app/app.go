// Package app drives one game frame: physics, game logic, then drawing.
package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/render"
)

var ErrNoCore = errors.New("app: no game core")

type Driver struct {
	core     *game.Core
	renderer *render.Renderer
	maxDt    float64
	log      *log.Logger
	frames   int
}

func New(core *game.Core, logger *log.Logger) (*Driver, error) {
	if core == nil {
		return nil, ErrNoCore
	}
	if logger == nil {
		logger = logging.Discard()
	}
	tun := core.Tuning()
	return &Driver{
		core:     core,
		renderer: render.New(render.Options{MaxPull: tun.Input.MaxPull}),
		maxDt:    tun.World.MaxFrameSeconds,
		log:      logger,
	}, nil
}

func (d *Driver) Core() *game.Core { return d.core }
func (d *Driver) Frames() int      { return d.frames }

// Step advances the simulation by one frame of dt seconds, clamped to the
// tuned maximum so a stalled host does not fast-forward the game.
func (d *Driver) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if d.maxDt > 0 && dt > d.maxDt {
		dt = d.maxDt
	}
	d.core.World().Advance(dt)
	d.core.Update(dt)
	d.frames++
}

// Draw renders the current state onto s.
func (d *Driver) Draw(s render.Surface) error {
	if err := d.renderer.Draw(s, d.core.Snapshot()); err != nil {
		return fmt.Errorf("draw frame %d: %w", d.frames, err)
	}
	return nil
}

// Frame runs Step then Draw.
func (d *Driver) Frame(dt float64, s render.Surface) error {
	d.Step(dt)
	return d.Draw(s)
}

// Shot is a scripted launch velocity.
type Shot struct {
	VX, VY float64
}

// Simulate plays shots headlessly at the world's step rate. Each shot waits
// for a resting ball, up to maxFrames frames, and is skipped once the round
// is over. It returns the number of shots actually taken.
func (d *Driver) Simulate(shots []Shot, maxFrames int) int {
	dt := 1 / d.core.Tuning().World.StepHz
	taken := 0
	for _, sh := range shots {
		if !d.waitForBall(dt, maxFrames) {
			d.log.Warn("ball never came to rest", "frames", maxFrames)
			break
		}
		if !d.core.CanShoot() {
			break
		}
		d.core.Shoot(sh.VX, sh.VY)
		taken++
		d.log.Debug("scripted shot", "n", taken, "vx", sh.VX, "vy", sh.VY)
	}
	d.waitForBall(dt, maxFrames)
	return taken
}

func (d *Driver) waitForBall(dt float64, maxFrames int) bool {
	for i := 0; i < maxFrames; i++ {
		if d.core.BallAtRest() || (d.core.State().RoundOver() && !d.core.RespawnPending()) {
			return true
		}
		d.Step(dt)
	}
	return d.core.BallAtRest()
}
