package rowan

import (
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	minThumbLength      = 30.0
	scrollButtonStep    = 10.0
	scrollRepeatDelay   = 0.2 // seconds before a held button starts repeating
	scrollRepeatStride  = 0.1 // seconds between repeats once started
	scrollWheelVertical = 1.0
	scrollWheelHorizont = -1.0
)

var (
	scrollTrackColor   = Color{0.87, 0.87, 0.87, 1}
	thumbIdleColor     = Color{0.62, 0.62, 0.62, 1}
	thumbHoverColor    = Color{0.48, 0.48, 0.48, 1}
	thumbDragColor     = Color{0.33, 0.33, 0.33, 1}
	arrowIdleColor     = Color{0.33, 0.33, 0.33, 1}
	arrowHoverColor    = Color{0, 0, 0, 1}
	arrowHeldColor     = Color{1, 1, 1, 1}
	buttonIdleColor    = scrollTrackColor
	buttonHoverColor   = Color{0.78, 0.78, 0.78, 1}
	buttonHeldColor    = thumbDragColor
)

// ScrollBar scrolls its parent Frame's content along one axis. It is driven
// three ways: dragging the thumb, the scroll wheel, and a pair of repeat
// buttons at the track ends. Geometry is derived from the parent's size when
// the bar is added, so the constructor takes no position.
type ScrollBar struct {
	Base

	axis      Axis
	thickness float64
	// shorten trims the bar by one thickness so a perpendicular partner can
	// occupy the shared corner.
	shorten bool

	contentExtent float64
	factor        float64
	hasFactor     bool

	thumb   scrollThumb
	backBtn scrollButton
	fwdBtn  scrollButton
}

// NewScrollBar creates a scrollbar for the given axis. A thickness of 20 is
// the intended size. Most state stays unset until Frame.Add attaches the bar
// to its parent.
func NewScrollBar(name string, thickness float64, axis Axis, shorten bool) *ScrollBar {
	s := &ScrollBar{
		Base:      NewBase(name, 0, 0, 0, 0),
		axis:      axis,
		thickness: thickness,
		shorten:   shorten,
	}
	s.thumb.bar = s
	s.backBtn.timer = newTickTimer(nil)
	s.fwdBtn.timer = newTickTimer(nil)
	return s
}

// Kind returns KindScrollElement.
func (s *ScrollBar) Kind() Kind { return KindScrollElement }

func (s *ScrollBar) setParent(f *Frame) error {
	if err := s.Base.setParent(f); err != nil {
		return err
	}
	s.deriveGeometry(f.W, f.H)
	s.updateLength(true)
	if s.axis == Vertical {
		s.backBtn.dir, s.fwdBtn.dir = arrowUp, arrowDown
	} else {
		s.backBtn.dir, s.fwdBtn.dir = arrowLeft, arrowRight
	}
	return nil
}

// deriveGeometry places the bar against the trailing edge of the parent for
// its axis and stretches it along the full opposite extent.
func (s *ScrollBar) deriveGeometry(frameW, frameH float64) {
	trim := 0.0
	if s.shorten {
		trim = s.thickness
	}
	if s.axis == Vertical {
		s.X = frameW - s.thickness
		s.Y = 0
		s.W = s.thickness
		s.H = frameH - trim
	} else {
		s.X = 0
		s.Y = frameH - s.thickness
		s.W = frameW - trim
		s.H = s.thickness
	}
}

// resize re-derives geometry from the new frame size. Called by the parent
// on its resize tick instead of proportional repositioning.
func (s *ScrollBar) resize(frameW, frameH float64) {
	s.deriveGeometry(frameW, frameH)
	s.updateLength(true)
	s.scrollByContent(0)
}

// length returns the bar's extent along its scroll axis.
func (s *ScrollBar) length() float64 {
	if s.axis == Vertical {
		return s.H
	}
	return s.W
}

// trackLength is the space between the two buttons.
func (s *ScrollBar) trackLength() float64 {
	return s.length() - s.thickness*2
}

// viewExtent is the parent's size along the scroll axis.
func (s *ScrollBar) viewExtent() float64 {
	if s.axis == Vertical {
		return s.parent.H
	}
	return s.parent.W
}

// updateLength recomputes the thumb length and the content/track scroll
// factor. Cheap to call every tick; it short-circuits unless the content
// extent changed or force is set.
func (s *ScrollBar) updateLength(force bool) {
	var content float64
	if s.axis == Vertical {
		content = s.parent.ContentHeight()
	} else {
		content = s.parent.ContentWidth()
	}
	if !force && content == s.contentExtent {
		return
	}
	s.contentExtent = content

	track := s.trackLength()
	view := s.viewExtent()
	thumbLen := track
	if content > 0 && view > 0 {
		thumbLen = track / (content / view)
	}
	if thumbLen > track {
		thumbLen = track
	} else if thumbLen < minThumbLength {
		thumbLen = minThumbLength
	}
	if thumbLen == track {
		// Nothing to scroll; any stale offset would strand the content.
		s.parent.SetScrollOffset(0, s.axis)
	}
	s.thumb.setLengths(track, thumbLen)

	travel := track - thumbLen
	distance := content - view
	if travel > 0 && distance > 0 {
		s.factor = distance / travel
		s.hasFactor = true
	} else {
		s.factor = 0
		s.hasFactor = false
	}
}

// scrollByContent scrolls the parent by a content-space delta and snaps the
// thumb to the resulting offset so wheel, buttons, and drags stay in step.
func (s *ScrollBar) scrollByContent(delta float64) {
	if !s.hasFactor {
		return
	}
	off := s.parent.AddScrollOffset(delta, s.axis)
	s.thumb.forcePos(-off / s.factor)
}

// Update processes one tick of frame-relative pointer input.
func (s *ScrollBar) Update(p *Pointer, keys []KeyEvent) {
	local := p.Translated(-s.X, -s.Y)
	s.updateLength(false)

	backSteps := s.backBtn.update(s.backRect().Contains(local.X, local.Y) && !local.HasLeft(), local.Button(0))
	fwdSteps := s.fwdBtn.update(s.fwdRect().Contains(local.X, local.Y) && !local.HasLeft(), local.Button(0))

	// The thumb works in track coordinates: local shifted past the back
	// button.
	var trackPos, crossPos float64
	if s.axis == Vertical {
		trackPos, crossPos = local.Y-s.thickness, local.X
	} else {
		trackPos, crossPos = local.X-s.thickness, local.Y
	}
	onThumb := !local.HasLeft() &&
		crossPos >= 0 && crossPos < s.thickness &&
		trackPos >= s.thumb.pos && trackPos < s.thumb.pos+s.thumb.length
	dragged := s.thumb.update(trackPos, onThumb, local.Button(0), local.HasLeft())

	if s.hasFactor {
		switch {
		case dragged:
			s.parent.SetScrollOffset(-(s.factor * s.thumb.pos), s.axis)
		default:
			if wheel := p.Scroll(s.axis); wheel != 0 {
				mult := scrollWheelVertical
				if s.axis == Horizontal {
					mult = scrollWheelHorizont
				}
				s.scrollByContent(wheel * mult)
			}
			for i := 0; i < backSteps; i++ {
				s.scrollByContent(+scrollButtonStep)
			}
			for i := 0; i < fwdSteps; i++ {
				s.scrollByContent(-scrollButtonStep)
			}
		}
	}
	s.render()
}

func (s *ScrollBar) backRect() Rect {
	return Rect{X: 0, Y: 0, Width: s.thickness, Height: s.thickness}
}

func (s *ScrollBar) fwdRect() Rect {
	if s.axis == Vertical {
		return Rect{X: 0, Y: s.H - s.thickness, Width: s.thickness, Height: s.thickness}
	}
	return Rect{X: s.W - s.thickness, Y: 0, Width: s.thickness, Height: s.thickness}
}

func (s *ScrollBar) render() {
	img := s.ensureImage()
	img.Fill(scrollTrackColor.toRGBA())

	tc := thumbIdleColor
	if s.thumb.dragging {
		tc = thumbDragColor
	} else if s.thumb.hover {
		tc = thumbHoverColor
	}
	if s.axis == Vertical {
		vector.DrawFilledRect(img, 0, float32(s.thickness+s.thumb.pos),
			float32(s.thickness), float32(s.thumb.length), tc.toRGBA(), false)
	} else {
		vector.DrawFilledRect(img, float32(s.thickness+s.thumb.pos), 0,
			float32(s.thumb.length), float32(s.thickness), tc.toRGBA(), false)
	}
	s.renderButton(&s.backBtn, s.backRect())
	s.renderButton(&s.fwdBtn, s.fwdRect())
}

func (s *ScrollBar) renderButton(b *scrollButton, r Rect) {
	img := s.img
	bg, fg := buttonIdleColor, arrowIdleColor
	switch {
	case b.held:
		bg, fg = buttonHeldColor, arrowHeldColor
	case b.hover:
		bg, fg = buttonHoverColor, arrowHoverColor
	}
	vector.DrawFilledRect(img, float32(r.X), float32(r.Y),
		float32(r.Width), float32(r.Height), bg.toRGBA(), false)
	inset := Rect{X: r.X + 5, Y: r.Y + 6, Width: r.Width - 10, Height: r.Height - 12}
	if b.dir == arrowLeft || b.dir == arrowRight {
		inset = Rect{X: r.X + 6, Y: r.Y + 5, Width: r.Width - 12, Height: r.Height - 10}
	}
	fillArrow(img, inset, b.dir, fg)
}

// --- thumb ---

// scrollThumb tracks drag state in track coordinates (0 at the inner edge of
// the back button).
type scrollThumb struct {
	bar *ScrollBar

	pos    float64
	length float64
	track  float64

	lock       bool // press started off the thumb, ignore until release
	dragging   bool
	dragOffset float64
	hover      bool
	resized    bool
}

func (t *scrollThumb) setLengths(track, thumb float64) {
	t.track = track
	t.length = thumb
	t.clampPos()
	t.resized = true
}

func (t *scrollThumb) maxTravel() float64 {
	if v := t.track - t.length; v > 0 {
		return v
	}
	return 0
}

func (t *scrollThumb) clampPos() {
	if t.pos < 0 {
		t.pos = 0
	} else if max := t.maxTravel(); t.pos > max {
		t.pos = max
	}
}

func (t *scrollThumb) forcePos(pos float64) {
	t.pos = pos
	t.clampPos()
}

// update advances the drag state machine and reports whether the thumb moved
// under pointer control this tick. A press that starts off the thumb never
// captures it.
func (t *scrollThumb) update(trackPos float64, hovering, buttonDown, left bool) bool {
	moved := false
	if t.dragging && !left {
		t.pos = trackPos - t.dragOffset
		t.clampPos()
		moved = true
	}
	t.hover = hovering
	if hovering {
		if buttonDown && !t.dragging && !t.lock {
			t.dragging = true
			t.dragOffset = trackPos - t.pos
		} else if !buttonDown {
			t.dragging = false
			t.lock = false
		}
	} else {
		if !buttonDown {
			t.dragging = false
		}
		t.lock = true
	}
	if t.resized {
		t.resized = false
		moved = true
	}
	return moved
}

// --- repeat buttons ---

// scrollButton fires once on press, then repeats while held: nothing for
// scrollRepeatDelay, then one step per scrollRepeatStride. Elapsed time is
// carried across ticks as fractional debt, so the total step count depends
// only on how long the button was held, not on the frame rate.
type scrollButton struct {
	dir arrowDirection

	lock  bool
	held  bool
	hover bool

	timer *tickTimer
	wait  float64 // time until the next repeat fires
	debt  float64
}

// update advances the hold state and returns how many steps fired this tick.
func (b *scrollButton) update(hovering, buttonDown bool) int {
	steps := 0
	b.hover = hovering
	if hovering {
		if buttonDown && !b.held && !b.lock {
			b.held = true
			steps++
			b.wait = scrollRepeatDelay
			b.debt = 0
			b.timer.Reset()
		} else if !buttonDown {
			b.held = false
			b.lock = false
		}
	} else {
		if !buttonDown {
			b.held = false
		}
		b.lock = true
	}
	if b.held {
		b.debt += b.timer.Tick()
		for b.debt >= b.wait {
			b.debt -= b.wait
			b.wait = scrollRepeatStride
			steps++
		}
	} else {
		b.debt = 0
		b.timer.Reset()
	}
	return steps
}
