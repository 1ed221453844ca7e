package rowan

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// scrollStep is the constant bump added on top of every non-zero scroll
// delta so single wheel notches feel responsive.
const scrollStep = 20.0

// Frame is the container widget: it owns named children, a render z-order,
// scroll offsets, and dispatches pointer and keyboard input to its children
// once per tick, compositing their bitmaps into its own.
type Frame struct {
	Base

	// Z is the frame's static z level for occlusion gating. Stacked
	// top-level frames use distinct levels; level 1 is topmost.
	Z int

	// Background fills the frame bitmap before children are composited.
	Background Color

	// PaddingBottom is the trailing padding added to the content extent on
	// both axes.
	PaddingBottom float64

	widgets    map[string]Widget
	order      []string // insertion order, used for dispatch and layout
	zOrder     []string // render order; last entry is topmost
	scrollbars []string

	// Resize anchors: every child's centroid at Add time, against the
	// frame size at construction. Proportional resizing rescales from
	// these, never from intermediate sizes.
	anchors       map[string]Vec2
	origW, origH  float64
	resizeExclude map[string]AxisMask
	resized       bool

	xScroll, yScroll float64

	textInput   bool
	cursorShape ebiten.CursorShapeType
}

// NewFrame creates an empty frame at (x, y) with the given view size.
func NewFrame(name string, x, y, w, h, paddingBottom float64) *Frame {
	return &Frame{
		Base:          NewBase(name, x, y, w, h),
		Z:             1,
		Background:    ColorTransparent,
		PaddingBottom: paddingBottom,
		widgets:       map[string]Widget{},
		anchors:       map[string]Vec2{},
		origW:         w,
		origH:         h,
		resizeExclude: map[string]AxisMask{},
	}
}

// Kind returns KindContainer.
func (f *Frame) Kind() Kind { return KindContainer }

// Add registers a child widget. It fails with ErrDuplicateName if the name
// is already taken in this frame, or ErrAlreadyParented if the widget
// belongs to another frame. The child's centroid is recorded for future
// proportional resizing.
func (f *Frame) Add(w Widget) error {
	name := w.Name()
	if _, ok := f.widgets[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if err := w.setParent(f); err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}
	if w.Kind() == KindScrollElement {
		f.scrollbars = append(f.scrollbars, name)
	}
	f.widgets[name] = w
	f.order = append(f.order, name)
	f.zOrder = append(f.zOrder, name)
	b := w.Bounds()
	f.anchors[name] = Vec2{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
	return nil
}

// Delete removes the named child from every internal index. It fails with
// ErrUnknownWidget if the frame does not own it.
func (f *Frame) Delete(name string) error {
	if _, ok := f.widgets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	delete(f.widgets, name)
	delete(f.anchors, name)
	delete(f.resizeExclude, name)
	f.order = removeString(f.order, name)
	f.zOrder = removeString(f.zOrder, name)
	f.scrollbars = removeString(f.scrollbars, name)
	return nil
}

// RaiseLayer moves the named child to the top of the render order.
func (f *Frame) RaiseLayer(name string) error {
	if _, ok := f.widgets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	f.zOrder = removeString(f.zOrder, name)
	f.zOrder = append(f.zOrder, name)
	return nil
}

// Widget returns the named child, or nil if absent.
func (f *Frame) Widget(name string) Widget {
	return f.widgets[name]
}

// ContentWidth returns the horizontal content extent: the maximum right
// edge over non-scrollbar children plus the trailing padding.
func (f *Frame) ContentWidth() float64 {
	maxRight := 0.0
	for _, name := range f.order {
		w := f.widgets[name]
		if w.Kind() == KindScrollElement {
			continue
		}
		b := w.Bounds()
		if r := b.X + b.Width; r > maxRight {
			maxRight = r
		}
	}
	return maxRight + f.PaddingBottom
}

// ContentHeight returns the vertical content extent: the maximum bottom
// edge over non-scrollbar children plus the trailing padding.
func (f *Frame) ContentHeight() float64 {
	maxBottom := 0.0
	for _, name := range f.order {
		w := f.widgets[name]
		if w.Kind() == KindScrollElement {
			continue
		}
		b := w.Bounds()
		if bot := b.Y + b.Height; bot > maxBottom {
			maxBottom = bot
		}
	}
	return maxBottom + f.PaddingBottom
}

// AddScrollOffset adds a delta (plus a constant step in its direction) to
// the scroll offset for the axis, clamps the result to
// [-(contentExtent-viewExtent), 0], and returns the new offset.
func (f *Frame) AddScrollOffset(amount float64, axis Axis) float64 {
	step := scrollStep
	if amount < 0 {
		step = -scrollStep
	}
	if amount == 0 {
		step = 0
	}
	if axis == Vertical {
		f.yScroll = f.clampOffset(f.yScroll+amount+step, f.ContentHeight()-f.H)
		return f.yScroll
	}
	f.xScroll = f.clampOffset(f.xScroll+amount+step, f.ContentWidth()-f.W)
	return f.xScroll
}

func (f *Frame) clampOffset(v, contentDistance float64) float64 {
	if contentDistance < 0 {
		contentDistance = 0
	}
	if v > 0 {
		return 0
	}
	if v < -contentDistance {
		return -contentDistance
	}
	return v
}

// SetScrollOffset sets the offset for the axis directly. Used by scrollbar
// thumbs, which compute an absolute position from the drag.
func (f *Frame) SetScrollOffset(offset float64, axis Axis) {
	if axis == Vertical {
		f.yScroll = offset
	} else {
		f.xScroll = offset
	}
}

// ScrollOffset returns the current offset for the axis.
func (f *Frame) ScrollOffset(axis Axis) float64 {
	if axis == Vertical {
		return f.yScroll
	}
	return f.xScroll
}

// SetSize resizes the frame's view. During the next Update every
// non-excluded child is repositioned proportionally from its recorded
// centroid; scrollbars re-derive their geometry instead.
func (f *Frame) SetSize(w, h float64) {
	f.resized = true
	f.W = w
	f.H = h
	f.img = nil // reallocated on next render
}

// MoveWidget manually positions a child and excludes it from future
// proportional resizing on the supplied axes.
func (f *Frame) MoveWidget(name string, pos Vec2, axes AxisMask) error {
	w, ok := f.widgets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	b := w.Bounds()
	x, y := b.X, b.Y
	if axes&AxisX != 0 {
		x = pos.X
	}
	if axes&AxisY != 0 {
		y = pos.Y
	}
	f.resizeExclude[name] |= axes
	w.SetPosition(x, y)
	return nil
}

// TextInputActive reports whether any text-entry child wanted text input
// mode after the last Update.
func (f *Frame) TextInputActive() bool { return f.textInput }

// Update gates the pointer, dispatches input to every child, applies resize
// repositioning, aggregates text-entry signals, and re-renders the
// composited bitmap.
//
// Scrollbar children are hit-tested first (they are always topmost and win
// against scrolled content) and receive a frame-relative pointer without
// scroll translation. Everything else receives a pointer translated by the
// frame position and scroll offset.
func (f *Frame) Update(p *Pointer, keys []KeyEvent) {
	live := f.Z == p.Depth() && f.Bounds().Contains(p.X, p.Y)

	var scrolled *Pointer
	if live {
		scrolled = p.Translated(-f.X-f.xScroll, -f.Y-f.yScroll)
	} else {
		scrolled = deadPointer()
		if f.Z != p.Depth() {
			// A lower layer may not see this tick's keys either.
			keys = nil
		}
	}
	var rel *Pointer
	if f.Z == p.Depth() {
		rel = p.Translated(-f.X, -f.Y)
	} else {
		rel = deadPointer()
	}

	// Scrollbars first: topmost, and a hit on one blocks all content.
	blocked := false
	for _, name := range f.scrollbars {
		f.RaiseLayer(name) //nolint:errcheck // name comes from our own index
		if f.widgets[name].Hit(rel.X, rel.Y) {
			blocked = true
			break
		}
	}
	collided := blocked
	if blocked {
		scrolled.Leave()
	}

	var hover, drag, focus bool
	for _, name := range f.order {
		w, ok := f.widgets[name]
		if !ok {
			continue // deleted by an earlier child's callback this tick
		}
		if !collided && w.Kind() != KindScrollElement && w.Hit(scrolled.X, scrolled.Y) {
			collided = true
		}
		if f.resized {
			f.applyResize(name, w)
		}
		if w.Kind() == KindScrollElement {
			w.Update(rel, keys)
		} else {
			w.Update(scrolled, keys)
		}
		if w.Kind() == KindTextEntry {
			if e, ok := w.(textEntry); ok {
				s := e.signals()
				hover = hover || s.Hover
				drag = drag || s.Drag
				focus = focus || s.Focus
			}
		}
	}
	if f.resized {
		f.resized = false
		clear(f.resizeExclude)
	}
	f.applyTextSignals(hover, drag, focus)
	f.render()
	if live && !collided {
		p.IncrementDepth()
	}
}

// applyResize recomputes one child's position on a resize tick.
func (f *Frame) applyResize(name string, w Widget) {
	if r, ok := w.(resizable); ok {
		r.resize(f.W, f.H)
		return
	}
	anchor, ok := f.anchors[name]
	if !ok {
		return
	}
	b := w.Bounds()
	cx := f.W * (anchor.X / f.origW)
	cy := f.H * (anchor.Y / f.origH)
	excl := f.resizeExclude[name]
	x, y := b.X, b.Y
	if excl&AxisX == 0 {
		x = cx - b.Width/2
	}
	if excl&AxisY == 0 {
		y = cy - b.Height/2
	}
	w.SetPosition(x, y)
}

// resizable is implemented by children that derive their own geometry from
// the frame size (scrollbars) instead of being repositioned proportionally.
type resizable interface {
	resize(frameW, frameH float64)
}

// entrySignals are the per-tick outputs of a text-entry widget that the
// frame aggregates.
type entrySignals struct {
	Hover bool // pointer is over the editable region: show i-beam
	Drag  bool // a selection drag is in progress: show drag cursor
	Focus bool // the entry holds keyboard focus: text input mode on
}

type textEntry interface {
	Widget
	signals() entrySignals
}

// applyTextSignals applies the most specific aggregated cursor and flips
// text input mode edges.
func (f *Frame) applyTextSignals(hover, drag, focus bool) {
	f.textInput = focus
	shape := ebiten.CursorShapeDefault
	switch {
	case drag:
		shape = ebiten.CursorShapeMove
	case hover:
		shape = ebiten.CursorShapeText
	}
	if shape != f.cursorShape {
		f.cursorShape = shape
		ebiten.SetCursorShape(shape)
	}
}

// render composites all children into the frame bitmap in z order, applying
// the scroll offset to everything but scroll elements and culling children
// fully outside the viewport.
func (f *Frame) render() {
	img := f.ensureImage()
	img.Fill(f.Background.toRGBA())
	view := Rect{Width: f.W, Height: f.H}
	for _, name := range f.zOrder {
		w := f.widgets[name]
		src := w.Image()
		if src == nil {
			continue
		}
		b := w.Bounds()
		dx, dy := b.X, b.Y
		if w.Kind() != KindScrollElement {
			dx += f.xScroll
			dy += f.yScroll
		}
		if !view.Intersects(Rect{X: dx, Y: dy, Width: b.Width, Height: b.Height}) {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(dx, dy)
		img.DrawImage(src, op)
	}
}

// Draw blits the frame's composited bitmap onto the target at the frame's
// position. Top-level frames call this from ebiten.Game.Draw.
func (f *Frame) Draw(target *ebiten.Image) {
	if f.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(f.X, f.Y)
	target.DrawImage(f.img, op)
}

func removeString(s []string, v string) []string {
	for i := range s {
		if s[i] == v {
			copy(s[i:], s[i+1:])
			return s[:len(s)-1]
		}
	}
	return s
}
