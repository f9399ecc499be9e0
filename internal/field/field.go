// Package field implements the particle network: a fixed set of drifting
// particles repelled by the pointer and joined by proximity edges.
package field

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/iburimskiy/particle-network/internal/config"
)

// DefaultAccent is the colour particles, edges and the pointer marker use.
var DefaultAccent = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

// Particle is one simulated point.
type Particle struct {
	Pos     Vec
	Radius  float64
	BaseVel Vec // intrinsic drift, constant for the particle's lifetime
	Vel     Vec
}

// Field owns the particles and the surface dimensions they wrap within.
// It is not safe for concurrent use; hosts call it from their frame loop.
type Field struct {
	width, height float64
	particles     []Particle
	accent        color.NRGBA
}

// Create allocates count particles at random positions within the surface.
// A nil rng uses a time-seeded source.
func Create(width, height float64, count int, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if count < 0 {
		count = 0
	}
	ps := make([]Particle, count)
	for i := range ps {
		base := Vec{
			X: (rng.Float64()*2 - 1) * config.MaxDrift,
			Y: (rng.Float64()*2 - 1) * config.MaxDrift,
		}
		ps[i] = Particle{
			Pos:     Vec{rng.Float64() * width, rng.Float64() * height},
			Radius:  config.MinRadius + rng.Float64()*(config.MaxRadius-config.MinRadius),
			BaseVel: base,
			Vel:     base,
		}
	}
	return FromParticles(width, height, ps)
}

// FromParticles builds a field around an explicit particle set.
func FromParticles(width, height float64, ps []Particle) *Field {
	f := &Field{accent: DefaultAccent}
	f.particles = append([]Particle(nil), ps...)
	f.Resize(width, height)
	return f
}

// Resize updates the surface dimensions. Particles keep their absolute
// coordinates. Non-positive or NaN sizes are ignored.
func (f *Field) Resize(width, height float64) {
	if width > 0 && !math.IsInf(width, 0) {
		f.width = width
	}
	if height > 0 && !math.IsInf(height, 0) {
		f.height = height
	}
}

func (f *Field) Size() (width, height float64) { return f.width, f.height }

func (f *Field) Len() int { return len(f.particles) }

// Particles returns a copy of the current particle state.
func (f *Field) Particles() []Particle {
	return append([]Particle(nil), f.particles...)
}

func (f *Field) Accent() color.NRGBA { return f.accent }

func (f *Field) SetAccent(c color.Color) {
	f.accent = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Advance moves every particle one frame forward.
func (f *Field) Advance(p Pointer) {
	ptr := p.Pos()
	for i := range f.particles {
		pt := &f.particles[i]

		repelled := false
		if p.Over {
			d := pt.Pos.Sub(ptr)
			dist := d.Len()
			if dist > 0 && dist < config.RepulsionRadius {
				force := Repulsion(dist)
				pt.Vel = pt.BaseVel.Add(d.Scale(force * config.RepulsionStrength / dist))
				repelled = true
			}
		}
		if !repelled {
			pt.Vel = pt.Vel.Add(pt.BaseVel.Sub(pt.Vel).Scale(config.RelaxRate))
		}

		pt.Pos = pt.Pos.Add(pt.Vel)
		pt.Pos.X = wrap(pt.Pos.X, f.width)
		pt.Pos.Y = wrap(pt.Pos.Y, f.height)
	}
}

// Repulsion is the pointer force at distance d: 1 at the pointer, falling
// linearly to 0 at the repulsion radius.
func Repulsion(d float64) float64 {
	if d >= config.RepulsionRadius {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return (config.RepulsionRadius - d) / config.RepulsionRadius
}

// wrap snaps a coordinate that left [0,dim) to the opposite edge.
func wrap(v, dim float64) float64 {
	switch {
	case v >= dim:
		return 0
	case v < 0:
		return math.Nextafter(dim, 0)
	}
	return v
}

// Connections returns an edge for every pair of particles closer than the
// link distance.
func (f *Field) Connections() []Edge {
	var edges []Edge
	for i := 0; i < len(f.particles); i++ {
		for j := i + 1; j < len(f.particles); j++ {
			a, b := f.particles[i].Pos, f.particles[j].Pos
			dist := a.Dist(b)
			if dist < config.LinkDistance {
				edges = append(edges, Edge{
					From:    a,
					To:      b,
					Opacity: (1 - dist/config.LinkDistance) * config.LinkOpacity,
					Width:   config.LinkWidth,
				})
			}
		}
	}
	return edges
}

// PointerLinks returns edges from the pointer to every nearby particle. It is
// empty unless the pointer is over the surface and above its bottom edge.
func (f *Field) PointerLinks(p Pointer) []Edge {
	if !f.pointerVisible(p) {
		return nil
	}
	ptr := p.Pos()
	var edges []Edge
	for _, pt := range f.particles {
		dist := pt.Pos.Dist(ptr)
		if dist < config.PointerLinkDistance {
			edges = append(edges, Edge{
				From:    pt.Pos,
				To:      ptr,
				Opacity: (1 - dist/config.PointerLinkDistance) * config.PointerLinkOpacity,
				Width:   config.PointerLinkWidth,
			})
		}
	}
	return edges
}

func (f *Field) pointerVisible(p Pointer) bool {
	return p.Over && p.Y < f.height
}

// Render draws the current frame. A nil surface draws nothing.
func (f *Field) Render(s Surface, p Pointer) {
	if s == nil {
		return
	}
	s.Clear()

	for _, pt := range f.particles {
		s.DrawDisc(pt.Pos, pt.Radius, f.accent)
	}
	for _, e := range f.Connections() {
		s.DrawLine(e.From, e.To, f.fade(e.Opacity), e.Width)
	}
	if f.pointerVisible(p) {
		for _, e := range f.PointerLinks(p) {
			s.DrawLine(e.From, e.To, f.fade(e.Opacity), e.Width)
		}
		s.DrawDisc(p.Pos(), config.PointerMarkerRadius, f.fade(config.PointerMarkerAlpha))
	}
}

// Frame advances the simulation and renders the result.
func (f *Field) Frame(s Surface, p Pointer) {
	f.Advance(p)
	f.Render(s, p)
}

// fade returns the accent colour at the given opacity.
func (f *Field) fade(opacity float64) color.NRGBA {
	c := f.accent
	c.A = uint8(math.Round(clamp01(opacity) * float64(f.accent.A)))
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
