package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const caretBlinkInterval = 0.5 // seconds

// Entry is a single-line text input. It acquires focus on click, releases
// it on an outside click, and reports the per-tick signals (hover, drag,
// focus) that its Frame aggregates into cursor shape and text-input mode.
type Entry struct {
	Base

	face    text.Face
	padding float64

	runes   []rune
	caret   int
	focused bool
	hover   bool

	blink        *tickTimer
	blinkAccum   float64
	caretVisible bool

	latch clickLatch

	// OnSubmit, when set, fires with the current content when Enter is
	// pressed while focused.
	OnSubmit func(string)
}

// NewEntry creates an entry at (x, y) with a fixed size.
func NewEntry(name string, x, y, w, h float64, face text.Face) *Entry {
	return &Entry{
		Base:    NewBase(name, x, y, w, h),
		face:    face,
		padding: 4,
		blink:   newTickTimer(nil),
	}
}

// Kind returns KindTextEntry.
func (e *Entry) Kind() Kind { return KindTextEntry }

// Text returns the current content.
func (e *Entry) Text() string { return string(e.runes) }

// SetText replaces the content and moves the caret to the end.
func (e *Entry) SetText(s string) {
	e.runes = []rune(s)
	e.caret = len(e.runes)
}

// Focused reports whether the entry holds keyboard focus.
func (e *Entry) Focused() bool { return e.focused }

func (e *Entry) signals() entrySignals {
	return entrySignals{Hover: e.hover, Focus: e.focused}
}

// caretIndexAt maps a widget-local x position to a rune index.
func (e *Entry) caretIndexAt(x float64) int {
	x -= e.padding
	for i := 1; i <= len(e.runes); i++ {
		if text.Advance(string(e.runes[:i]), e.face) > x {
			return i - 1
		}
	}
	return len(e.runes)
}

// Update handles focus transitions, key input, and caret blinking.
func (e *Entry) Update(p *Pointer, keys []KeyEvent) {
	e.hover = !p.HasLeft() && e.Hit(p.X, p.Y)
	if e.latch.update(e.hover, p.Button(0)) {
		e.focused = true
		e.caretVisible = true
		e.blinkAccum = 0
		e.caret = e.caretIndexAt(p.X - e.X)
	} else if !e.hover && p.Button(0) {
		e.focused = false
	}

	if e.focused {
		for _, k := range keys {
			e.handleKey(k)
		}
		e.blinkAccum += e.blink.Tick()
		if e.blinkAccum >= caretBlinkInterval {
			e.blinkAccum = 0
			e.caretVisible = !e.caretVisible
		}
	} else {
		e.blink.Reset()
	}
	e.render()
}

func (e *Entry) handleKey(k KeyEvent) {
	switch k.Type {
	case KeyEventChar:
		e.runes = append(e.runes[:e.caret], append([]rune{k.Rune}, e.runes[e.caret:]...)...)
		e.caret++
	case KeyEventDown:
		switch k.Key {
		case ebiten.KeyBackspace:
			if e.caret > 0 {
				e.runes = append(e.runes[:e.caret-1], e.runes[e.caret:]...)
				e.caret--
			}
		case ebiten.KeyDelete:
			if e.caret < len(e.runes) {
				e.runes = append(e.runes[:e.caret], e.runes[e.caret+1:]...)
			}
		case ebiten.KeyArrowLeft:
			if e.caret > 0 {
				e.caret--
			}
		case ebiten.KeyArrowRight:
			if e.caret < len(e.runes) {
				e.caret++
			}
		case ebiten.KeyHome:
			e.caret = 0
		case ebiten.KeyEnd:
			e.caret = len(e.runes)
		case ebiten.KeyEnter:
			if e.OnSubmit != nil {
				e.OnSubmit(e.Text())
			}
		case ebiten.KeyEscape:
			e.focused = false
		}
	}
	e.caretVisible = true
	e.blinkAccum = 0
}

func (e *Entry) render() {
	img := e.ensureImage()
	img.Fill(ColorWhite.toRGBA())
	border := Color{0.6, 0.6, 0.6, 1}
	if e.focused {
		border = Color{0.1, 0.45, 0.85, 1}
	}
	vector.StrokeRect(img, 0, 0, float32(e.W), float32(e.H), 2, border.toRGBA(), false)

	m := e.face.Metrics()
	textH := m.HAscent + m.HDescent
	ty := (e.H - textH) / 2
	op := &text.DrawOptions{}
	op.GeoM.Translate(e.padding, ty)
	op.ColorScale.ScaleWithColor(Color{0, 0, 0, 1}.toRGBA())
	text.Draw(img, string(e.runes), e.face, op)

	if e.focused && e.caretVisible {
		cx := e.padding + text.Advance(string(e.runes[:e.caret]), e.face)
		vector.StrokeLine(img, float32(cx), float32(ty), float32(cx), float32(ty+textH), 1.5, Color{0, 0, 0, 1}.toRGBA(), false)
	}
}
