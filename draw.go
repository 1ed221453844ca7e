package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// arrowDirection orients the solid triangles used by scroll buttons and
// tree-node expanders.
type arrowDirection uint8

const (
	arrowUp arrowDirection = iota
	arrowDown
	arrowLeft
	arrowRight
)

// fillTriangle draws one solid triangle using the shared white pixel.
func fillTriangle(dst *ebiten.Image, p0, p1, p2 Vec2, c Color) {
	cr := float32(c.R * c.A)
	cg := float32(c.G * c.A)
	cb := float32(c.B * c.A)
	ca := float32(c.A)
	vs := []ebiten.Vertex{
		{DstX: float32(p0.X), DstY: float32(p0.Y), SrcX: 0, SrcY: 0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: float32(p1.X), DstY: float32(p1.Y), SrcX: 0, SrcY: 0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		{DstX: float32(p2.X), DstY: float32(p2.Y), SrcX: 0, SrcY: 0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
	}
	dst.DrawTriangles(vs, []uint16{0, 1, 2}, WhitePixel, &ebiten.DrawTrianglesOptions{})
}

// fillArrow draws a solid directional triangle filling rect.
func fillArrow(dst *ebiten.Image, rect Rect, dir arrowDirection, c Color) {
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.Width, rect.Y+rect.Height
	cx := rect.X + rect.Width/2
	cy := rect.Y + rect.Height/2
	switch dir {
	case arrowUp:
		fillTriangle(dst, Vec2{cx, y0}, Vec2{x1, y1}, Vec2{x0, y1}, c)
	case arrowDown:
		fillTriangle(dst, Vec2{x0, y0}, Vec2{x1, y0}, Vec2{cx, y1}, c)
	case arrowLeft:
		fillTriangle(dst, Vec2{x0, cy}, Vec2{x1, y0}, Vec2{x1, y1}, c)
	case arrowRight:
		fillTriangle(dst, Vec2{x0, y0}, Vec2{x1, cy}, Vec2{x0, y1}, c)
	}
}
