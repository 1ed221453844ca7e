package rowan

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Label is a static text widget. The bitmap is re-rendered only when the
// content changes.
type Label struct {
	Base

	content string
	face    text.Face
	color   Color
	dirty   bool
}

// NewLabel creates a label at (x, y). The widget sizes itself to the text.
func NewLabel(name string, x, y float64, content string, face text.Face) *Label {
	l := &Label{
		Base:    NewBase(name, x, y, 1, 1),
		face:    face,
		color:   Color{0, 0, 0, 1},
		dirty:   true,
		content: content,
	}
	l.measure()
	return l
}

// SetText replaces the label content.
func (l *Label) SetText(content string) {
	if content == l.content {
		return
	}
	l.content = content
	l.measure()
	l.dirty = true
}

// Text returns the current content.
func (l *Label) Text() string { return l.content }

// SetColor sets the text color.
func (l *Label) SetColor(c Color) {
	l.color = c
	l.dirty = true
}

func (l *Label) lineHeight() float64 {
	m := l.face.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

func (l *Label) measure() {
	w, h := text.Measure(l.content, l.face, l.lineHeight())
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	l.W, l.H = w, h
}

// Update re-renders the bitmap when the content changed.
func (l *Label) Update(p *Pointer, keys []KeyEvent) {
	if !l.dirty && l.img != nil {
		return
	}
	l.dirty = false
	img := l.ensureImage()
	img.Clear()
	op := &text.DrawOptions{}
	op.LineSpacing = l.lineHeight()
	op.ColorScale.ScaleWithColor(l.color.toRGBA())
	text.Draw(img, l.content, l.face, op)
}
