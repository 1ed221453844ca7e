package rowan

import (
	"image"
)

// HitShape is a custom hit-test region in a widget's local coordinates.
// Widgets without one fall back to their bounding rectangle.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// AlphaShape is a pixel-mask hit area built from an image's alpha channel.
// Used by irregularly shaped widgets so transparent corners never swallow
// clicks. The mask is sampled at construction; it does not track later
// changes to the source image.
type AlphaShape struct {
	w, h int
	mask []bool
}

// alphaThreshold is the minimum alpha (out of 0xffff) for a pixel to count
// as solid.
const alphaThreshold = 0x0800

// NewAlphaShape samples src's alpha channel into a hit mask.
func NewAlphaShape(src image.Image) *AlphaShape {
	b := src.Bounds()
	s := &AlphaShape{
		w:    b.Dx(),
		h:    b.Dy(),
		mask: make([]bool, b.Dx()*b.Dy()),
	}
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			_, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			s.mask[y*s.w+x] = a >= alphaThreshold
		}
	}
	return s
}

// Contains reports whether the pixel under (x, y) is solid.
func (s *AlphaShape) Contains(x, y float64) bool {
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= s.w || iy >= s.h {
		return false
	}
	return s.mask[iy*s.w+ix]
}

// Scaled returns a HitShape that tests against the mask after mapping local
// coordinates from a (width x height) widget back to the mask's resolution.
// Used by widgets that render a scaled copy of their source image.
func (s *AlphaShape) Scaled(width, height float64) HitShape {
	return scaledAlpha{src: s, sx: float64(s.w) / width, sy: float64(s.h) / height}
}

type scaledAlpha struct {
	src    *AlphaShape
	sx, sy float64
}

func (s scaledAlpha) Contains(x, y float64) bool {
	return s.src.Contains(x*s.sx, y*s.sy)
}
