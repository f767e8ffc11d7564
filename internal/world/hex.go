// Package world provides the battlefield hex grid and its spatial math.
// Cells are stored in odd-q offset coordinates (col, row); axial and cube
// forms are derived on demand for distance and line interpolation.
package world

import "math"

// Offset is a cell position in offset coordinates (column X, row Y).
// It doubles as a 2D direction vector for facing and knockback.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Axial is the axial (q, r) form of a hex coordinate.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Cube is the cube form of a hex coordinate. Q+R+S is always zero.
type Cube struct {
	Q, R, S int
}

// S returns the implicit third cube coordinate.
func (a Axial) S() int {
	return -a.Q - a.R
}

// Cube returns the cube form of an axial coordinate.
func (a Axial) Cube() Cube {
	return Cube{Q: a.Q, R: a.R, S: a.S()}
}

// OffsetToAxial converts an offset cell to axial coordinates.
func OffsetToAxial(o Offset) Axial {
	return Axial{Q: o.X, R: o.Y - (o.X-(o.X&1))/2}
}

// AxialToOffset converts axial coordinates back to an offset cell.
func AxialToOffset(a Axial) Offset {
	return Offset{X: a.Q, Y: a.R + (a.Q-(a.Q&1))/2}
}

// NeighborDirections defines the six unit directions in axial coordinates.
var NeighborDirections = [6]Axial{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Distance returns the hex distance between two offset cells.
func Distance(a, b Offset) int {
	aa := OffsetToAxial(a)
	ba := OffsetToAxial(b)
	dq := aa.Q - ba.Q
	dr := aa.R - ba.R
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Line returns the cells strictly between a and b along the cube-coordinate
// line. Adjacent or identical cells have no intermediate samples.
func Line(a, b Offset) []Offset {
	steps := Distance(a, b)
	if steps <= 1 {
		return nil
	}
	ac := OffsetToAxial(a).Cube()
	bc := OffsetToAxial(b).Cube()

	cells := make([]Offset, 0, steps-1)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		c := cubeRound(
			lerp(float64(ac.Q), float64(bc.Q), t),
			lerp(float64(ac.R), float64(bc.R), t),
			lerp(float64(ac.S), float64(bc.S), t),
		)
		cells = append(cells, AxialToOffset(Axial{Q: c.Q, R: c.R}))
	}
	return cells
}

// Direction returns the per-axis sign vector pointing from a to b.
func Direction(a, b Offset) Offset {
	return Offset{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
}

// Dot returns the dot product of two vectors.
func Dot(a, b Offset) int {
	return a.X*b.X + a.Y*b.Y
}

// Add returns the component-wise sum of two offsets.
func (o Offset) Add(d Offset) Offset {
	return Offset{X: o.X + d.X, Y: o.Y + d.Y}
}

// Scale multiplies a vector by k.
func (o Offset) Scale(k int) Offset {
	return Offset{X: o.X * k, Y: o.Y * k}
}

// cubeRound rounds fractional cube coordinates to the nearest hex. The
// component with the largest rounding error is recomputed from the other
// two so the cube constraint holds.
func cubeRound(q, r, s float64) Cube {
	rq, rr, rs := math.RoundToEven(q), math.RoundToEven(r), math.RoundToEven(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	default:
		rs = -rq - rr
	}
	return Cube{Q: int(rq), R: int(rr), S: int(rs)}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
