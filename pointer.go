package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// pointerButtons is the number of tracked mouse buttons (left, right, middle).
const pointerButtons = 3

// Pointer is the per-tick snapshot of mouse state shared by every Frame.
//
// The application owns exactly one Pointer and mutates it at the start of
// each tick (position, buttons, scroll). Frames hand translated copies to
// their children, so coordinate transforms never touch the original. The
// occlusion depth counter gates which stacked layer currently owns the
// pointer; see Frame.Update.
type Pointer struct {
	X, Y    float64
	buttons [pointerButtons]bool
	scrollX float64
	scrollY float64
	depth   int
	left    bool

	inject []syntheticPointerEvent
}

// NewPointer returns a pointer with the occlusion depth reset for a fresh
// tick.
func NewPointer() *Pointer {
	return &Pointer{depth: 1}
}

// Copy returns a detached snapshot. Mutating the copy never affects the
// original; in particular, depth increments on a copy are discarded.
func (p *Pointer) Copy() *Pointer {
	c := *p
	return &c
}

// Translated returns a copy with the position shifted by (dx, dy). The
// shift is applied even while the pointer has left the window, so dead
// sentinels stay dead.
func (p *Pointer) Translated(dx, dy float64) *Pointer {
	c := *p
	c.X += dx
	c.Y += dy
	return &c
}

// deadPointer returns a sentinel that collides with nothing, handed to
// children that must not react this tick.
func deadPointer() *Pointer {
	p := NewPointer()
	p.Leave()
	return p
}

// SetPos updates the position. Ignored while the pointer has left the
// window.
func (p *Pointer) SetPos(x, y float64) {
	if p.left {
		return
	}
	p.X = x
	p.Y = y
}

// SetButton sets the state of mouse button n (0 = left, 1 = right,
// 2 = middle). Out-of-range buttons are ignored.
func (p *Pointer) SetButton(n int, down bool) {
	if n < 0 || n >= pointerButtons {
		return
	}
	p.buttons[n] = down
}

// Button reports whether mouse button n is held.
func (p *Pointer) Button(n int) bool {
	if n < 0 || n >= pointerButtons {
		return false
	}
	return p.buttons[n]
}

// PushScroll accumulates wheel movement for this tick. Ignored while the
// pointer has left the window.
func (p *Pointer) PushScroll(dx, dy float64) {
	if p.left {
		return
	}
	p.scrollX += dx
	p.scrollY += dy
}

// Scroll returns the accumulated wheel delta for the given axis.
func (p *Pointer) Scroll(axis Axis) float64 {
	if axis == Vertical {
		return p.scrollY
	}
	return p.scrollX
}

// ResetScroll clears the accumulated wheel delta. Called once per tick by
// the application after all frames have been updated.
func (p *Pointer) ResetScroll() {
	p.scrollX = 0
	p.scrollY = 0
}

// Depth returns the current occlusion depth. Layers at this z level own the
// pointer for the remainder of the tick.
func (p *Pointer) Depth() int {
	return p.depth
}

// IncrementDepth passes pointer ownership to the next lower stacked layer.
// Called by a live Frame whose children all missed.
func (p *Pointer) IncrementDepth() {
	p.depth++
}

// ResetDepth rewinds the occlusion depth for a new tick.
func (p *Pointer) ResetDepth() {
	p.depth = 1
}

// Leave marks the pointer as outside the window: position and scroll
// updates are suppressed, held buttons are released, and no widget can
// collide with it until Enter is called.
func (p *Pointer) Leave() {
	p.SetPos(-1, -1)
	p.scrollX = 0
	p.scrollY = 0
	p.left = true
	for i := range p.buttons {
		p.buttons[i] = false
	}
}

// Enter marks the pointer as back inside the window.
func (p *Pointer) Enter() {
	p.left = false
}

// HasLeft reports whether the pointer is outside the window.
func (p *Pointer) HasLeft() bool {
	return p.left
}

// ReadInput fills the pointer from ebiten's mouse state: cursor position,
// the three standard buttons, and wheel movement. Call once at the start of
// each tick, before updating any Frame.
func (p *Pointer) ReadInput() {
	p.ResetDepth()
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0
	if w, h := ebiten.WindowSize(); inside && w > 0 && h > 0 {
		inside = x < w && y < h
	}
	if inside {
		p.Enter()
	} else {
		p.Leave()
		return
	}
	p.SetPos(float64(x), float64(y))
	p.SetButton(0, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	p.SetButton(1, ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))
	p.SetButton(2, ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle))
	wx, wy := ebiten.Wheel()
	p.PushScroll(wx, wy)
}

// EndTick clears per-tick accumulators (scroll delta, occlusion depth).
// Call after the last Frame has been updated.
func (p *Pointer) EndTick() {
	p.ResetScroll()
	p.ResetDepth()
}
