package physics

import "math"

// Label names a body's role. Collision policy dispatches on labels only.
type Label string

const (
	LabelBall      Label = "ball"
	LabelRim       Label = "rim"
	LabelBackboard Label = "backboard"
	LabelFloor     Label = "floor"
	LabelLeftWall  Label = "leftWall"
	LabelRightWall Label = "rightWall"
	LabelCeiling   Label = "ceiling"
)

type BodyID int

type Shape int

const (
	ShapeCircle Shape = iota
	ShapeBox
)

type Material struct {
	Restitution float64
	Friction    float64
	Density     float64
	AirFriction float64
}

// Body is a rigid body. Boxes are axis-aligned and always static; only
// circles move.
type Body struct {
	ID    BodyID
	Label Label
	Shape Shape

	Radius float64
	Width  float64
	Height float64

	Position        Vec2
	Velocity        Vec2
	Angle           float64
	AngularVelocity float64

	Material Material
	Static   bool
	Sensor   bool
	Hidden   bool

	invMass    float64
	invInertia float64

	// settled latches the floor rest query until the body is released again
	settled bool
}

// BodyView is a read-only copy of a body for drawing.
type BodyView struct {
	ID       BodyID
	Label    Label
	Shape    Shape
	Position Vec2
	Angle    float64
	Radius   float64
	Width    float64
	Height   float64
	Hidden   bool
}

func (b *Body) view() BodyView {
	return BodyView{
		ID:       b.ID,
		Label:    b.Label,
		Shape:    b.Shape,
		Position: b.Position,
		Angle:    b.Angle,
		Radius:   b.Radius,
		Width:    b.Width,
		Height:   b.Height,
		Hidden:   b.Hidden,
	}
}

func (b *Body) updateMass() {
	if b.Static || b.Shape != ShapeCircle {
		b.invMass = 0
		b.invInertia = 0
		return
	}
	density := b.Material.Density
	if density <= 0 {
		density = 0.001
	}
	mass := density * math.Pi * b.Radius * b.Radius
	inertia := 0.5 * mass * b.Radius * b.Radius
	b.invMass = 1 / mass
	b.invInertia = 1 / inertia
}

func (b *Body) dynamic() bool {
	return !b.Static && b.Shape == ShapeCircle
}
