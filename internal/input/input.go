// Package input turns pointer, touch and key events into drag gestures and
// commands. It keeps only its own gesture state and reports intent through
// callbacks.
package input

import (
	"math"
	"strings"

	"github.com/tenfreethrows/freethrows/internal/physics"
)

type Phase int

const (
	Idle Phase = iota
	Down
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Down:
		return "down"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// Handlers receive the recognised intents.
type Handlers struct {
	Shoot          func(vx, vy float64)
	Restart        func()
	TogglePractice func()
}

// Gesture is a snapshot of the current drag, in world coordinates.
type Gesture struct {
	Down     bool
	Dragging bool
	Start    physics.Vec2
	Current  physics.Vec2
}

// Pull returns the drag vector from current back to start.
func (g Gesture) Pull() physics.Vec2 {
	return g.Start.Minus(g.Current)
}

func (g Gesture) Phase() Phase {
	switch {
	case g.Dragging:
		return Dragging
	case g.Down:
		return Down
	}
	return Idle
}

type Manager struct {
	handlers Handlers
	maxPull  float64
	divisor  float64
	scale    float64
	g        Gesture
}

func NewManager(h Handlers, maxPull, divisor float64) *Manager {
	if divisor == 0 {
		divisor = 1
	}
	return &Manager{handlers: h, maxPull: maxPull, divisor: divisor, scale: 1}
}

// SetScale sets the display-to-world factor; pointer coordinates are divided by it.
func (m *Manager) SetScale(s float64) {
	if s > 0 {
		m.scale = s
	}
}

func (m *Manager) Gesture() Gesture { return m.g }

func (m *Manager) toWorld(x, y float64) physics.Vec2 {
	return physics.V(x/m.scale, y/m.scale)
}

// PointerDown starts a gesture at a display position.
func (m *Manager) PointerDown(x, y float64) {
	p := m.toWorld(x, y)
	m.g.Down = true
	m.g.Start = p
	m.g.Current = p
}

// PointerMove tracks the pointer while it is held.
func (m *Manager) PointerMove(x, y float64) {
	if !m.g.Down {
		return
	}
	m.g.Current = m.toWorld(x, y)
}

// PointerUp ends the gesture, shooting if it was a valid drag.
func (m *Manager) PointerUp() {
	if m.g.Dragging && m.handlers.Shoot != nil {
		vx, vy := ShotVelocity(m.g.Pull(), m.maxPull, m.divisor)
		m.handlers.Shoot(vx, vy)
	}
	m.g.Down = false
	m.g.Dragging = false
}

// Key handles a key press: r restarts, p toggles practice. Case-insensitive.
func (m *Manager) Key(key string) {
	switch strings.ToLower(key) {
	case "r":
		if m.handlers.Restart != nil {
			m.handlers.Restart()
		}
	case "p":
		if m.handlers.TogglePractice != nil {
			m.handlers.TogglePractice()
		}
	}
}

// UpdateDragging re-evaluates the drag predicate each frame. A held pointer
// only counts as a drag while allowed is true.
func (m *Manager) UpdateDragging(allowed bool) {
	m.g.Dragging = m.g.Down && allowed
}

// ShotVelocity clamps the pull to maxPull and scales it down by divisor.
func ShotVelocity(pull physics.Vec2, maxPull, divisor float64) (vx, vy float64) {
	raw := math.Hypot(pull.X, pull.Y)
	if raw == 0 {
		return 0, 0
	}
	norm := math.Min(maxPull, raw) / raw
	return pull.X * norm / divisor, pull.Y * norm / divisor
}
