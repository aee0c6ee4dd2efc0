package ws

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tenfreethrows/freethrows/internal/app"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/render"
)

var ErrNoSender = errors.New("ws: session has no sender")

type SessionOptions struct {
	Tuning config.Tuning
	Slot   game.Slot
	TickHz int
	Now    func() time.Time
	Logger *log.Logger
	// OnRoundComplete runs on the session goroutine.
	OnRoundComplete func(game.RoundResult)
}

// Session owns one game core. Input is queued and applied between frames
// so the core is only ever touched by Run's goroutine.
type Session struct {
	player string
	driver *app.Driver
	rec    *render.Recorder
	in     chan Inbound
	send   func(any) bool
	tick   time.Duration
	log    *log.Logger
}

func NewSession(ctx context.Context, player string, send func(any) bool, opts SessionOptions) (*Session, error) {
	if send == nil {
		return nil, ErrNoSender
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.TickHz <= 0 {
		opts.TickHz = 60
	}

	core, err := game.New(ctx, game.Options{
		Tuning:          opts.Tuning,
		Slot:            opts.Slot,
		Now:             opts.Now,
		Logger:          logging.For(opts.Logger, "game"),
		OnRoundComplete: opts.OnRoundComplete,
	})
	if err != nil {
		return nil, fmt.Errorf("new session for %s: %w", player, err)
	}
	driver, err := app.New(core, opts.Logger)
	if err != nil {
		return nil, err
	}

	w := opts.Tuning.World
	return &Session{
		player: player,
		driver: driver,
		rec:    render.NewRecorder(w.Width, w.Height),
		in:     make(chan Inbound, 32),
		send:   send,
		tick:   time.Second / time.Duration(opts.TickHz),
		log:    opts.Logger,
	}, nil
}

func (s *Session) Core() *game.Core { return s.driver.Core() }

// Push queues a client message. It reports false when the queue is full.
func (s *Session) Push(msg Inbound) bool {
	select {
	case s.in <- msg:
		return true
	default:
		return false
	}
}

// Run steps the game on a ticker until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.in:
			s.apply(msg)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := s.Tick(dt); err != nil {
				return err
			}
		}
	}
}

func (s *Session) apply(msg Inbound) {
	if err := applyInbound(s.driver.Core(), msg); err != nil {
		s.log.Debug("bad client message", "player", s.player, "err", err)
		s.send(ErrorMessage{Type: TypeError, Message: err.Error()})
	}
}

// Tick runs one frame and sends the frame plus any feedback it produced.
func (s *Session) Tick(dt float64) error {
	s.driver.Step(dt)
	s.rec.Reset()
	if err := s.driver.Draw(s.rec); err != nil {
		return err
	}

	core := s.driver.Core()
	s.send(FrameMessage{
		Type:     TypeFrame,
		Frame:    s.driver.Frames(),
		HUD:      hudFor(core.State()),
		Commands: s.rec.Commands(),
	})
	for _, f := range core.DrainFeedback() {
		s.send(FeedbackMessage{Type: TypeFeedback, Kind: f.Kind, Message: f.Message})
	}
	return nil
}

// generateID generates a random alphanumeric ID
func generateID(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
