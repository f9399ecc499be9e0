package terminal

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-network/internal/config"
	"github.com/iburimskiy/particle-network/internal/field"
)

const (
	runeDot       = '•'
	runeBigDot    = '●'
	runeLink      = '·'
	runeHeavyLink = '∙'

	// alpha below which a line cell is left blank
	minLineAlpha = 16
)

// Surface renders a field onto terminal cells. One cell covers
// CellWidth x CellHeight surface units.
type Surface struct {
	screen tcell.Screen
}

func NewSurface(screen tcell.Screen) *Surface {
	return &Surface{screen: screen}
}

// Bounds returns the surface size in field units.
func (s *Surface) Bounds() (float64, float64) {
	w, h := s.screen.Size()
	return float64(w * config.CellWidth), float64(h * config.CellHeight)
}

func (s *Surface) Clear() { s.screen.Clear() }

func (s *Surface) DrawDisc(center field.Vec, radius float64, clr color.Color) {
	x, y := toCell(center)
	r := runeDot
	if radius >= 2 {
		r = runeBigDot
	}
	s.set(x, y, r, clr)
}

// DrawLine walks the cells between the endpoints, leaving discs intact.
func (s *Surface) DrawLine(from, to field.Vec, clr color.Color, width float64) {
	if color.NRGBAModel.Convert(clr).(color.NRGBA).A < minLineAlpha {
		return
	}
	r := runeLink
	if width >= 2 {
		r = runeHeavyLink
	}
	x0, y0 := toCell(from)
	x1, y1 := toCell(to)
	cells(x0, y0, x1, y1, func(x, y int) {
		if cur, _, _, _ := s.screen.GetContent(x, y); cur == runeDot || cur == runeBigDot {
			return
		}
		s.set(x, y, r, clr)
	})
}

func (s *Surface) set(x, y int, r rune, clr color.Color) {
	w, h := s.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(shade(clr)))
}

// shade flattens clr onto a black background.
func shade(clr color.Color) tcell.Color {
	c := color.NRGBAModel.Convert(clr).(color.NRGBA)
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}

func toCell(v field.Vec) (int, int) {
	return int(v.X) / config.CellWidth, int(v.Y) / config.CellHeight
}

// CellCenter maps a terminal cell to field coordinates.
func CellCenter(x, y int) field.Vec {
	return field.Vec{
		X: float64(x*config.CellWidth) + config.CellWidth/2,
		Y: float64(y*config.CellHeight) + config.CellHeight/2,
	}
}

// cells visits every cell on the Bresenham line from (x0,y0) to (x1,y1).
func cells(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
