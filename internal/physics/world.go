package physics

import (
	"errors"
	"math"
	"sort"
)

var ErrNoBody = errors.New("body not in world")

// Phase tells whether a contact is new this step or continuing.
type Phase int

const (
	Begin Phase = iota
	Active
)

func (p Phase) String() string {
	if p == Begin {
		return "begin"
	}
	return "active"
}

// Contact is delivered to subscribers after each step.
type Contact struct {
	Phase Phase
	A, B  *Body
	// Normal points from B toward A.
	Normal Vec2
	// Speed is the approach speed along Normal before the impulse.
	Speed float64
}

// Other returns the body in the pair that is not labelled l, and whether the
// pair involves l at all.
func (c Contact) Other(l Label) (self, other *Body, ok bool) {
	switch {
	case c.A.Label == l:
		return c.A, c.B, true
	case c.B.Label == l:
		return c.B, c.A, true
	}
	return nil, nil, false
}

type ContactHandler func(Contact)

type Options struct {
	Width            float64
	Height           float64
	Gravity          Vec2
	StepSeconds      float64
	Substeps         int
	MaxStepsPerFrame int
	RestingThreshold float64
	OutMarginX       float64
	OutMarginTop     float64
}

type pairKey struct {
	lo, hi BodyID
}

func keyOf(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

type touch struct {
	a, b   *Body
	normal Vec2
	speed  float64
}

// World owns the bodies and advances them in fixed steps.
type World struct {
	opts     Options
	bodies   []*Body
	nextID   BodyID
	touching map[pairKey]bool
	handlers []ContactHandler
	acc      float64
	steps    uint64
}

func NewWorld(opts Options) *World {
	if opts.StepSeconds <= 0 {
		opts.StepSeconds = 1.0 / 60
	}
	if opts.Substeps < 1 {
		opts.Substeps = 1
	}
	if opts.MaxStepsPerFrame < 1 {
		opts.MaxStepsPerFrame = 4
	}
	return &World{
		opts:     opts,
		nextID:   1,
		touching: make(map[pairKey]bool),
	}
}

func (w *World) Width() float64  { return w.opts.Width }
func (w *World) Height() float64 { return w.opts.Height }

// Steps reports how many fixed steps have run.
func (w *World) Steps() uint64 { return w.steps }

// OnContact registers a subscriber. Subscribers run in registration order.
func (w *World) OnContact(h ContactHandler) {
	w.handlers = append(w.handlers, h)
}

// Add assigns an ID and inserts the body.
func (w *World) Add(b *Body) *Body {
	b.ID = w.nextID
	w.nextID++
	b.updateMass()
	w.bodies = append(w.bodies, b)
	return b
}

// Remove deletes a body. It returns false if the body is not present, so a
// double remove is harmless.
func (w *World) Remove(id BodyID) bool {
	for i, b := range w.bodies {
		if b.ID == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			for k := range w.touching {
				if k.lo == id || k.hi == id {
					delete(w.touching, k)
				}
			}
			return true
		}
	}
	return false
}

func (w *World) Body(id BodyID) (*Body, bool) {
	for _, b := range w.bodies {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (w *World) Contains(b *Body) bool {
	if b == nil {
		return false
	}
	_, ok := w.Body(b.ID)
	return ok
}

// Find returns the bodies carrying label l in insertion order.
func (w *World) Find(l Label) []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.Label == l {
			out = append(out, b)
		}
	}
	return out
}

// Bodies returns drawable copies of every body in insertion order.
func (w *World) Bodies() []BodyView {
	out := make([]BodyView, 0, len(w.bodies))
	for _, b := range w.bodies {
		out = append(out, b.view())
	}
	return out
}

// Advance accumulates frame time and runs as many fixed steps as are due,
// capped per frame. It returns the number of steps taken.
func (w *World) Advance(dt float64) int {
	if dt <= 0 {
		return 0
	}
	w.acc += dt
	limit := w.opts.StepSeconds * float64(w.opts.MaxStepsPerFrame)
	if w.acc > limit {
		w.acc = limit
	}

	n := 0
	const eps = 1e-9
	for w.acc+eps >= w.opts.StepSeconds {
		w.Step()
		w.acc -= w.opts.StepSeconds
		n++
	}
	if w.acc < 0 {
		w.acc = 0
	}
	return n
}

// Step runs one fixed step and then notifies subscribers: begins first, then
// actives, each in pair order.
func (w *World) Step() {
	w.steps++
	for _, b := range w.bodies {
		if !b.dynamic() {
			continue
		}
		b.Velocity = b.Velocity.Plus(w.opts.Gravity)
		air := 1 - b.Material.AirFriction
		b.Velocity = b.Velocity.Times(air)
		b.AngularVelocity *= air
	}

	current := make(map[pairKey]*touch)
	sub := float64(w.opts.Substeps)
	for s := 0; s < w.opts.Substeps; s++ {
		for _, b := range w.bodies {
			if !b.dynamic() {
				continue
			}
			b.Position = b.Position.Plus(b.Velocity.Times(1 / sub))
			b.Angle += b.AngularVelocity / sub
		}
		w.solve(current)
	}

	var begins, actives []Contact
	for k, t := range current {
		c := Contact{A: t.a, B: t.b, Normal: t.normal, Speed: t.speed}
		if w.touching[k] {
			c.Phase = Active
			actives = append(actives, c)
		} else {
			c.Phase = Begin
			begins = append(begins, c)
		}
	}
	sortContacts(begins)
	sortContacts(actives)

	w.touching = make(map[pairKey]bool, len(current))
	for k := range current {
		w.touching[k] = true
	}

	for _, c := range append(begins, actives...) {
		for _, h := range w.handlers {
			h(c)
		}
	}
}

func sortContacts(cs []Contact) {
	sort.Slice(cs, func(i, j int) bool {
		ki, kj := keyOf(cs[i].A.ID, cs[i].B.ID), keyOf(cs[j].A.ID, cs[j].B.ID)
		if ki.lo != kj.lo {
			return ki.lo < kj.lo
		}
		return ki.hi < kj.hi
	})
}

func (w *World) solve(current map[pairKey]*touch) {
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if !a.dynamic() && !b.dynamic() {
				continue
			}
			m, ok := collide(a, b)
			if !ok {
				continue
			}

			speed := w.approachSpeed(a, b, m.Normal)
			if !a.Sensor && !b.Sensor {
				w.resolve(a, b, m)
			}

			k := keyOf(a.ID, b.ID)
			if t, seen := current[k]; seen {
				if speed > t.speed {
					t.speed = speed
				}
				continue
			}
			current[k] = &touch{a: a, b: b, normal: m.Normal, speed: speed}
		}
	}
}

func (w *World) approachSpeed(a, b *Body, n Vec2) float64 {
	vn := a.Velocity.Minus(b.Velocity).Dot(n)
	if vn < 0 {
		return -vn
	}
	return 0
}

// resolve separates the pair and applies normal and friction impulses.
func (w *World) resolve(a, b *Body, m manifold) {
	n := m.Normal
	totalInv := a.invMass + b.invMass
	if totalInv == 0 {
		return
	}

	// positional correction split by inverse mass
	a.Position = a.Position.Plus(n.Times(m.Depth * a.invMass / totalInv))
	b.Position = b.Position.Minus(n.Times(m.Depth * b.invMass / totalInv))

	ra := n.Times(-a.contactRadius())
	rb := n.Times(b.contactRadius())

	rel := relativeVelocity(a, b, ra, rb)
	vn := rel.Dot(n)
	if vn >= 0 {
		return
	}

	e := math.Max(a.Material.Restitution, b.Material.Restitution)
	if -vn < w.opts.RestingThreshold {
		e = 0
	}
	jn := -(1 + e) * vn / totalInv
	a.Velocity = a.Velocity.Plus(n.Times(jn * a.invMass))
	b.Velocity = b.Velocity.Minus(n.Times(jn * b.invMass))

	rel = relativeVelocity(a, b, ra, rb)
	tangent := rel.Minus(n.Times(rel.Dot(n)))
	if tangent.MagnitudeSquared() < 1e-12 {
		return
	}
	t := tangent.Normalize()
	rat, rbt := ra.Cross(t), rb.Cross(t)
	kt := totalInv + rat*rat*a.invInertia + rbt*rbt*b.invInertia
	jt := -rel.Dot(t) / kt
	mu := math.Min(a.Material.Friction, b.Material.Friction)
	jt = clamp(jt, -mu*jn, mu*jn)

	a.Velocity = a.Velocity.Plus(t.Times(jt * a.invMass))
	a.AngularVelocity += rat * jt * a.invInertia
	b.Velocity = b.Velocity.Minus(t.Times(jt * b.invMass))
	b.AngularVelocity -= rbt * jt * b.invInertia
}

func relativeVelocity(a, b *Body, ra, rb Vec2) Vec2 {
	va := a.Velocity.Plus(CrossScalar(a.AngularVelocity, ra))
	vb := b.Velocity.Plus(CrossScalar(b.AngularVelocity, rb))
	return va.Minus(vb)
}

func (b *Body) contactRadius() float64 {
	if b.Shape == ShapeCircle {
		return b.Radius
	}
	return 0
}
