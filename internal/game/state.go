package game

import "github.com/tenfreethrows/freethrows/internal/physics"

// GameState is the round and session state. Only Core mutates it.
type GameState struct {
	Practice   bool `json:"practice"`
	ShotsLeft  int  `json:"shots_left"`
	Score      int  `json:"score"`
	Streak     int  `json:"streak"`
	BestStreak int  `json:"best_streak"`
	DaysInARow int  `json:"days_in_a_row"`
}

// DefaultState builds a fresh round state. Never share the result between rounds.
func DefaultState(shots int) GameState {
	return GameState{ShotsLeft: shots}
}

// RoundOver reports whether the round has ended. Practice rounds never end.
func (s GameState) RoundOver() bool {
	return !s.Practice && s.ShotsLeft == 0
}

// Shadow is the ball's floor shadow, recomputed every update.
type Shadow struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

// Ball is the game-side view of the ball. Body is a back-reference into the
// physics world, which owns it.
type Ball struct {
	Body   *physics.Body
	Radius float64

	AtRest      bool
	ShotTaken   bool
	Scored      bool
	Swish       bool
	IsAboveHoop bool
	HitRim      bool
	Counted     bool
	// Settled is set once a shot ball comes to rest on the floor.
	Settled     bool

	Trail  *Trail
	Shadow Shadow
}

// InFlight is true between a shot and the ball's removal.
func (b *Ball) InFlight() bool {
	return b.Body != nil && !b.AtRest
}

type Peg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Board is the drawn backboard; X, Y is the top-left corner.
type Board struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Hoop is the static rim and backboard geometry.
type Hoop struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
	Left  Peg     `json:"left"`
	Right Peg     `json:"right"`
	Board Board   `json:"board"`
}

// Trail is a bounded FIFO of recent ball positions.
type Trail struct {
	max int
	pts []physics.Vec2
}

func NewTrail(max int) *Trail {
	return &Trail{max: max}
}

func (t *Trail) Push(p physics.Vec2) {
	if t.max <= 0 {
		return
	}
	t.pts = append(t.pts, p)
	if len(t.pts) > t.max {
		t.pts = t.pts[len(t.pts)-t.max:]
	}
}

func (t *Trail) Reset() {
	t.pts = t.pts[:0]
}

func (t *Trail) Len() int { return len(t.pts) }

// Points returns a copy, oldest first.
func (t *Trail) Points() []physics.Vec2 {
	out := make([]physics.Vec2, len(t.pts))
	copy(out, t.pts)
	return out
}
