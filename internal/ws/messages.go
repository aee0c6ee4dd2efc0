package ws

import (
	"errors"
	"fmt"

	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/render"
)

const (
	TypePointer       = "pointer"
	TypeKey           = "key"
	TypeFrame         = "frame"
	TypeFeedback      = "feedback"
	TypeRoundComplete = "round_complete"
	TypeRoundEvent    = "round_event"
	TypeError         = "error"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Inbound is a message from the client. Pointer coordinates are in court
// units; the client scales its own canvas.
type Inbound struct {
	Type  string  `json:"type"`
	Phase string  `json:"phase,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Key   string  `json:"key,omitempty"`
}

// HUD is the scoreboard state sent with every frame.
type HUD struct {
	Score      int  `json:"score"`
	ShotsLeft  int  `json:"shots_left"`
	Streak     int  `json:"streak"`
	BestStreak int  `json:"best_streak"`
	DaysInARow int  `json:"days_in_a_row"`
	Practice   bool `json:"practice"`
	RoundOver  bool `json:"round_over"`
}

func hudFor(s game.GameState) HUD {
	return HUD{
		Score:      s.Score,
		ShotsLeft:  s.ShotsLeft,
		Streak:     s.Streak,
		BestStreak: s.BestStreak,
		DaysInARow: s.DaysInARow,
		Practice:   s.Practice,
		RoundOver:  s.RoundOver(),
	}
}

type FrameMessage struct {
	Type     string           `json:"type"`
	Frame    int              `json:"frame"`
	HUD      HUD              `json:"hud"`
	Commands []render.Command `json:"commands"`
}

type FeedbackMessage struct {
	Type    string            `json:"type"`
	Kind    game.FeedbackKind `json:"kind"`
	Message string            `json:"message"`
}

type RoundMessage struct {
	Type   string           `json:"type"`
	Player string           `json:"player"`
	Result game.RoundResult `json:"result"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// applyInbound feeds one client message to the core's input manager.
func applyInbound(core *game.Core, msg Inbound) error {
	in := core.Input()
	switch msg.Type {
	case TypePointer:
		switch msg.Phase {
		case "down":
			in.PointerDown(msg.X, msg.Y)
		case "move":
			in.PointerMove(msg.X, msg.Y)
		case "up":
			in.PointerUp()
		default:
			return fmt.Errorf("unknown pointer phase %q", msg.Phase)
		}
	case TypeKey:
		in.Key(msg.Key)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}
