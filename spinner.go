package rowan

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Spinner is an indeterminate progress indicator: a rotating lit arc over
// an unlit ring.
type Spinner struct {
	Base

	thickness float64
	litLength float64 // lit arc length in degrees
	speed     float64 // rotation speed in degrees per second
	unlit     Color
	lit       Color

	angle float64
	timer *tickTimer
}

// NewSpinner creates a spinner of the given diameter at (x, y).
func NewSpinner(name string, x, y, size, thickness, litLength, speed float64) *Spinner {
	return &Spinner{
		Base:      NewBase(name, x, y, size, size),
		thickness: thickness,
		litLength: litLength,
		speed:     speed,
		unlit:     Color{0.85, 0.85, 0.85, 1},
		lit:       Color{0.1, 0.45, 0.85, 1},
		timer:     newTickTimer(nil),
	}
}

// Update advances the rotation by wall time and redraws.
func (s *Spinner) Update(p *Pointer, keys []KeyEvent) {
	s.angle = math.Mod(s.angle+s.speed*s.timer.Tick(), 360)
	s.render()
}

func (s *Spinner) render() {
	img := s.ensureImage()
	img.Clear()
	cx := s.W / 2
	cy := s.H / 2
	r := s.W/2 - s.thickness/2
	vector.StrokeCircle(img, float32(cx), float32(cy), float32(r), float32(s.thickness), s.unlit.toRGBA(), true)
	// Lit arc, drawn as short line segments.
	const segStep = 6.0 // degrees per segment
	lc := s.lit.toRGBA()
	for a := 0.0; a < s.litLength; a += segStep {
		a0 := (s.angle + a) * math.Pi / 180
		a1 := (s.angle + math.Min(a+segStep, s.litLength)) * math.Pi / 180
		x0 := cx + r*math.Cos(a0)
		y0 := cy + r*math.Sin(a0)
		x1 := cx + r*math.Cos(a1)
		y1 := cy + r*math.Sin(a1)
		vector.StrokeLine(img, float32(x0), float32(y0), float32(x1), float32(y1), float32(s.thickness), lc, true)
	}
}
