package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-network/internal/field"
)

// screenSurface adapts an ebiten image to field.Surface.
type screenSurface struct {
	dst *ebiten.Image
}

func (s screenSurface) Clear() { s.dst.Clear() }

func (s screenSurface) DrawDisc(center field.Vec, radius float64, clr color.Color) {
	vector.DrawFilledCircle(s.dst, float32(center.X), float32(center.Y), float32(radius), clr, true)
}

func (s screenSurface) DrawLine(from, to field.Vec, clr color.Color, width float64) {
	vector.StrokeLine(s.dst, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), float32(width), clr, true)
}
