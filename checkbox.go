package rowan

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const checkMarkDuration = 0.1 // seconds for the mark fade

// Checkbox is a boolean control with a label and an animated check mark.
type Checkbox struct {
	Base

	// OnChange fires after a click toggles the state.
	OnChange func(checked bool)

	label   string
	face    text.Face
	boxSize float64

	checked   bool
	markAlpha float64
	mark      *gween.Tween
	latch     clickLatch
	timer     *tickTimer
}

// NewCheckbox creates a checkbox at (x, y).
func NewCheckbox(name string, x, y float64, label string, face text.Face, boxSize float64) *Checkbox {
	m := face.Metrics()
	lineH := m.HAscent + m.HDescent + m.HLineGap
	tw, th := text.Measure(label, face, lineH)
	h := boxSize
	if th > h {
		h = th
	}
	return &Checkbox{
		Base:    NewBase(name, x, y, boxSize+6+tw, h),
		label:   label,
		face:    face,
		boxSize: boxSize,
		timer:   newTickTimer(nil),
	}
}

// Checked reports the current state.
func (c *Checkbox) Checked() bool { return c.checked }

// SetChecked forces the state without animation.
func (c *Checkbox) SetChecked(v bool) {
	c.checked = v
	c.mark = nil
	if v {
		c.markAlpha = 1
	} else {
		c.markAlpha = 0
	}
}

func (c *Checkbox) toggle() {
	c.checked = !c.checked
	to := float32(0)
	if c.checked {
		to = 1
	}
	c.mark = gween.New(float32(c.markAlpha), to, checkMarkDuration, ease.Linear)
}

// Update handles clicks and advances the mark animation.
func (c *Checkbox) Update(p *Pointer, keys []KeyEvent) {
	hover := !p.HasLeft() && c.Hit(p.X, p.Y)
	if c.latch.update(hover, p.Button(0)) {
		c.toggle()
		if c.OnChange != nil {
			c.OnChange(c.checked)
		}
	}
	if c.mark != nil {
		v, done := c.mark.Update(float32(c.timer.Tick()))
		c.markAlpha = float64(v)
		if done {
			c.mark = nil
		}
	} else {
		c.timer.Reset()
	}
	c.render()
}

func (c *Checkbox) render() {
	img := c.ensureImage()
	img.Clear()
	s := float32(c.boxSize)
	oy := float32(c.H-c.boxSize) / 2
	vector.DrawFilledRect(img, 0, oy, s, s, ColorWhite.toRGBA(), false)
	vector.StrokeRect(img, 0, oy, s, s, 2, Color{0.25, 0.25, 0.25, 1}.toRGBA(), false)
	if c.markAlpha > 0 {
		mc := Color{0.1, 0.45, 0.85, c.markAlpha}.toRGBA()
		vector.StrokeLine(img, s*0.2, oy+s*0.55, s*0.42, oy+s*0.78, 2.5, mc, true)
		vector.StrokeLine(img, s*0.42, oy+s*0.78, s*0.8, oy+s*0.25, 2.5, mc, true)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(c.boxSize+6, 0)
	op.ColorScale.ScaleWithColor(Color{0, 0, 0, 1}.toRGBA())
	text.Draw(img, c.label, c.face, op)
}

// RadioGroup owns a set of mutually exclusive RadioButtons. Create buttons
// through the group, then add the group to a Frame with Frame.AddGroup.
type RadioGroup struct {
	// OnChange fires with the newly selected button's name.
	OnChange func(name string)

	buttons  []*RadioButton
	selected int
}

// NewRadioGroup creates an empty group.
func NewRadioGroup() *RadioGroup {
	return &RadioGroup{selected: -1}
}

// NewButton creates a radio button registered in the group. The first
// button created is selected by default.
func (g *RadioGroup) NewButton(name string, x, y float64, label string, face text.Face, size float64) *RadioButton {
	b := &RadioButton{
		Checkbox: *NewCheckbox(name, x, y, label, face, size),
		group:    g,
		id:       len(g.buttons),
	}
	if len(g.buttons) == 0 {
		b.SetChecked(true)
		g.selected = 0
	}
	g.buttons = append(g.buttons, b)
	return b
}

// Selected returns the index of the selected button, or -1.
func (g *RadioGroup) Selected() int { return g.selected }

func (g *RadioGroup) selectButton(id int) {
	if id == g.selected {
		return
	}
	for _, b := range g.buttons {
		if b.id == g.selected && b.checked {
			b.toggle()
		}
	}
	g.selected = id
}

// RadioButton is a Checkbox variant drawn as a circle; selecting one clears
// the rest of its group.
type RadioButton struct {
	Checkbox
	group *RadioGroup
	id    int
}

// Update handles clicks; a click selects this button and deselects the
// group's previous choice. Clicking the selected button again is a no-op.
func (r *RadioButton) Update(p *Pointer, keys []KeyEvent) {
	hover := !p.HasLeft() && r.Hit(p.X, p.Y)
	if r.latch.update(hover, p.Button(0)) && !r.checked {
		r.group.selectButton(r.id)
		r.toggle()
		if r.group.OnChange != nil {
			r.group.OnChange(r.name)
		}
	}
	if r.mark != nil {
		v, done := r.mark.Update(float32(r.timer.Tick()))
		r.markAlpha = float64(v)
		if done {
			r.mark = nil
		}
	} else {
		r.timer.Reset()
	}
	r.render()
}

func (r *RadioButton) render() {
	img := r.ensureImage()
	img.Clear()
	rad := float32(r.boxSize) / 2
	cy := float32(r.H) / 2
	vector.DrawFilledCircle(img, rad, cy, rad, ColorWhite.toRGBA(), true)
	vector.StrokeCircle(img, rad, cy, rad-1, 2, Color{0.25, 0.25, 0.25, 1}.toRGBA(), true)
	if r.markAlpha > 0 {
		vector.DrawFilledCircle(img, rad, cy, rad*0.45, Color{0.1, 0.45, 0.85, r.markAlpha}.toRGBA(), true)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(r.boxSize+6, 0)
	op.ColorScale.ScaleWithColor(Color{0, 0, 0, 1}.toRGBA())
	text.Draw(img, r.label, r.face, op)
}

// AddGroup registers every button of a RadioGroup as a child of the frame.
func (f *Frame) AddGroup(g *RadioGroup) error {
	for _, b := range g.buttons {
		if err := f.Add(b); err != nil {
			return fmt.Errorf("add radio group: %w", err)
		}
	}
	return nil
}
