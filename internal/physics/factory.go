package physics

// Boundaries groups the static bodies framing the court.
type Boundaries struct {
	Floor     *Body
	LeftWall  *Body
	RightWall *Body
	Ceiling   *Body
}

// CreateBoundaries adds the floor and the three out-of-bounds sensors. The
// floor is a slab of the given thickness centred on floorY; the sensors sit
// well outside the visible area.
func (w *World) CreateBoundaries(width, height, floorY, thickness float64, floor Material) Boundaries {
	return Boundaries{
		Floor: w.Add(&Body{
			Label:    LabelFloor,
			Shape:    ShapeBox,
			Position: V(width/2, floorY),
			Width:    width,
			Height:   thickness,
			Material: floor,
			Static:   true,
			Hidden:   true,
		}),
		LeftWall: w.Add(&Body{
			Label:    LabelLeftWall,
			Shape:    ShapeBox,
			Position: V(-thickness, height/2),
			Width:    thickness,
			Height:   height * 2,
			Static:   true,
			Sensor:   true,
			Hidden:   true,
		}),
		RightWall: w.Add(&Body{
			Label:    LabelRightWall,
			Shape:    ShapeBox,
			Position: V(width+thickness, height/2),
			Width:    thickness,
			Height:   height * 2,
			Static:   true,
			Sensor:   true,
			Hidden:   true,
		}),
		Ceiling: w.Add(&Body{
			Label:    LabelCeiling,
			Shape:    ShapeBox,
			Position: V(width/2, -200),
			Width:    width,
			Height:   thickness,
			Static:   true,
			Sensor:   true,
			Hidden:   true,
		}),
	}
}

// CreateBall adds a ball frozen in place; SetStatic(false) releases it.
func (w *World) CreateBall(x, y, r float64, m Material) *Body {
	return w.Add(&Body{
		Label:    LabelBall,
		Shape:    ShapeCircle,
		Position: V(x, y),
		Radius:   r,
		Material: m,
		Static:   true,
	})
}

// CreateRimPeg adds one static rim endpoint.
func (w *World) CreateRimPeg(x, y, r float64, m Material) *Body {
	return w.Add(&Body{
		Label:    LabelRim,
		Shape:    ShapeCircle,
		Position: V(x, y),
		Radius:   r,
		Material: m,
		Static:   true,
	})
}

// CreateBackboard adds the static board. x, y is the centre.
func (w *World) CreateBackboard(x, y, width, height float64, m Material) *Body {
	return w.Add(&Body{
		Label:    LabelBackboard,
		Shape:    ShapeBox,
		Position: V(x, y),
		Width:    width,
		Height:   height,
		Material: m,
		Static:   true,
		Hidden:   true,
	})
}
