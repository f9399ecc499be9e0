package field

import "image/color"

// Surface is the 2D drawing target a Field renders onto. Hosts own its size
// and report changes through Field.Resize.
type Surface interface {
	Clear()
	DrawDisc(center Vec, radius float64, clr color.Color)
	DrawLine(from, to Vec, clr color.Color, width float64)
}

// Pointer is the host's latest pointer snapshot for one frame.
type Pointer struct {
	X, Y float64
	Over bool // pointer is over the surface
}

// Pos returns the pointer position as a Vec.
func (p Pointer) Pos() Vec { return Vec{p.X, p.Y} }

// Edge is a connection line produced for a frame.
type Edge struct {
	From, To Vec
	Opacity  float64 // 0..1
	Width    float64
}
