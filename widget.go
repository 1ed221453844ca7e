package rowan

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// Widget usage errors. These are programmer errors: they are reported to the
// caller as distinguishable conditions and never silently corrected.
var (
	// ErrDuplicateName is returned by Frame.Add when the frame already owns
	// a widget with the same name.
	ErrDuplicateName = errors.New("rowan: duplicate widget name")

	// ErrAlreadyParented is returned by Frame.Add when the widget has
	// already been added to a frame. A widget belongs to at most one Frame
	// for its lifetime; re-parenting is forbidden.
	ErrAlreadyParented = errors.New("rowan: widget already has a parent")

	// ErrUnknownWidget is returned by Frame operations that name a widget
	// the frame does not own.
	ErrUnknownWidget = errors.New("rowan: unknown widget")
)

// Kind is the closed set of widget capability tags. Frame dispatches on the
// tag rather than on runtime type inspection.
type Kind uint8

const (
	KindLeaf          Kind = iota // plain control
	KindContainer                 // nested Frame
	KindScrollElement             // scrollbar: topmost, exempt from scroll translation
	KindTextEntry                 // text input: reports per-tick IME/cursor signals
)

// Widget is the capability interface shared by everything a Frame can own.
//
// Widgets receive a pointer snapshot and the tick's keyboard events in
// Update, and expose a renderable bitmap plus bounds for compositing. All
// implementations embed Base, which provides identity, geometry, and the
// parent relation.
type Widget interface {
	Name() string
	Kind() Kind

	// Update processes one tick of input. The pointer is already translated
	// into the owning frame's content coordinates (scroll elements instead
	// receive frame-relative coordinates).
	Update(p *Pointer, keys []KeyEvent)

	// Image returns the widget's current bitmap, re-rendered by Update.
	// May be nil for widgets that have not been attached yet.
	Image() *ebiten.Image

	// Bounds returns the widget's rectangle in its frame's content
	// coordinates.
	Bounds() Rect

	SetPosition(x, y float64)
	Parent() *Frame

	// Hit reports whether (x, y), in frame content coordinates, collides
	// with the widget. The default is a rectangle test; irregularly shaped
	// widgets override it with a pixel-mask test.
	Hit(x, y float64) bool

	// setParent records the owning frame. Called exactly once, by
	// Frame.Add.
	setParent(f *Frame) error
}

// Base provides the identity, geometry, and parent plumbing shared by all
// widgets. Embed it and override what the widget needs.
type Base struct {
	name   string
	parent *Frame

	X, Y float64
	W, H float64

	img *ebiten.Image
}

// NewBase returns a Base with the given identity and geometry. Widget
// constructors call this; applications normally do not.
func NewBase(name string, x, y, w, h float64) Base {
	return Base{name: name, X: x, Y: y, W: w, H: h}
}

// Name returns the widget's identity key, unique within its Frame.
func (b *Base) Name() string { return b.name }

// Kind returns KindLeaf. Containers, scroll elements, and text entries
// override it.
func (b *Base) Kind() Kind { return KindLeaf }

// Parent returns the owning Frame, or nil before the widget is added.
func (b *Base) Parent() *Frame { return b.parent }

func (b *Base) setParent(f *Frame) error {
	if b.parent != nil {
		return ErrAlreadyParented
	}
	b.parent = f
	return nil
}

// Bounds returns the widget's rectangle in frame content coordinates.
func (b *Base) Bounds() Rect { return Rect{X: b.X, Y: b.Y, Width: b.W, Height: b.H} }

// SetPosition moves the widget's top-left corner.
func (b *Base) SetPosition(x, y float64) {
	b.X = x
	b.Y = y
}

// Image returns the widget's bitmap.
func (b *Base) Image() *ebiten.Image { return b.img }

// Hit performs the default rectangle collision test.
func (b *Base) Hit(x, y float64) bool {
	return b.Bounds().Contains(x, y)
}

// Update is a no-op; widgets that react to input override it.
func (b *Base) Update(p *Pointer, keys []KeyEvent) {}

// ensureImage (re)allocates the widget bitmap when the size changed.
func (b *Base) ensureImage() *ebiten.Image {
	w, h := int(b.W), int(b.H)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if b.img == nil || b.img.Bounds().Dx() != w || b.img.Bounds().Dy() != h {
		b.img = ebiten.NewImage(w, h)
	}
	return b.img
}

// clickLatch implements the press discipline every rowan control shares: a
// press that started outside a widget can never complete a click inside it,
// and releasing outside cancels the pending click.
type clickLatch struct {
	lock bool // armed only after the button was seen released over the widget
	down bool // press started on the widget and is still held
}

// update advances the latch and reports whether a click completed this tick.
func (l *clickLatch) update(hovering, buttonDown bool) bool {
	clicked := false
	if !hovering {
		if !buttonDown {
			l.down = false
		}
		l.lock = true
		return false
	}
	if buttonDown && !l.down && !l.lock {
		l.down = true
	} else if !buttonDown && l.down {
		l.down = false
		clicked = true
	}
	if !buttonDown {
		l.lock = false
	}
	return clicked
}

// pressed reports whether a press that started on the widget is being held.
func (l *clickLatch) pressed() bool { return l.down }
