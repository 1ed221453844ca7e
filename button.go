package rowan

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	buttonGrowDuration  = 0.15 // seconds for the hover dilation
	buttonFlashDuration = 0.12 // seconds for each half of the click flash
	buttonFlashPeak     = 0.8  // extra brightness at the flash apex
)

// Button is an image button that dilates on hover, flashes on click, and
// fires a callback once per confirmed click (press and release both
// inside). Collision uses a pixel mask built from the source image's alpha
// channel, scaled with the current animation size, so transparent corners
// never swallow clicks.
type Button struct {
	Base

	src        *ebiten.Image
	srcW, srcH float64
	minW, maxW float64
	aspect     float64

	curW      float64
	growTo    float64
	grow      *gween.Tween
	flash     *gween.Sequence
	brightness float64

	mask    *AlphaShape
	latch   clickLatch
	timer   *tickTimer
	onClick func()
}

// NewButton creates a button from a decoded image. widen is how many pixels
// the image dilates by on hover; the widget reserves space for the dilated
// size so neighbors never shift.
func NewButton(name string, x, y float64, src image.Image, widen float64, onClick func()) *Button {
	sb := src.Bounds()
	srcW := float64(sb.Dx())
	srcH := float64(sb.Dy())
	maxW := srcW + widen
	aspect := srcH / srcW
	b := &Button{
		Base:    NewBase(name, x, y, maxW, maxW*aspect),
		src:     ebiten.NewImageFromImage(src),
		srcW:    srcW,
		srcH:    srcH,
		minW:    srcW,
		maxW:    maxW,
		aspect:  aspect,
		curW:    srcW,
		growTo:  srcW,
		mask:    NewAlphaShape(src),
		timer:   newTickTimer(nil),
		onClick: onClick,
	}
	return b
}

// Hit tests against the alpha mask of the currently drawn (centered,
// scaled) image rather than the reserved rectangle.
func (b *Button) Hit(x, y float64) bool {
	curH := b.curW * b.aspect
	ox := b.X + (b.W-b.curW)/2
	oy := b.Y + (b.H-curH)/2
	return b.mask.Scaled(b.curW, curH).Contains(x-ox, y-oy)
}

// Update advances the hover/flash animations and fires the callback on a
// completed click.
func (b *Button) Update(p *Pointer, keys []KeyEvent) {
	dt := float32(b.timer.Tick())

	hover := !p.HasLeft() && b.Hit(p.X, p.Y)
	if b.latch.update(hover, p.Button(0)) {
		b.flash = gween.NewSequence(
			gween.New(0, buttonFlashPeak, buttonFlashDuration, ease.OutQuad),
			gween.New(buttonFlashPeak, 0, buttonFlashDuration, ease.InQuad),
		)
		if b.onClick != nil {
			b.onClick()
		}
	}

	target := b.minW
	if hover {
		target = b.maxW
	}
	if target != b.growTo {
		// Retarget from the current width so reversals mid-flight are smooth.
		b.growTo = target
		b.grow = gween.New(float32(b.curW), float32(target), buttonGrowDuration, ease.OutQuad)
	}
	if b.grow != nil {
		v, done := b.grow.Update(dt)
		b.curW = float64(v)
		if done {
			b.grow = nil
		}
	}
	if b.flash != nil {
		v, _, done := b.flash.Update(dt)
		b.brightness = float64(v)
		if done {
			b.flash = nil
			b.brightness = 0
		}
	}
	b.render()
}

func (b *Button) render() {
	img := b.ensureImage()
	img.Clear()
	curH := b.curW * b.aspect
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(b.curW/b.srcW, curH/b.srcH)
	op.GeoM.Translate((b.W-b.curW)/2, (b.H-curH)/2)
	if b.brightness > 0 {
		s := float32(1 + b.brightness)
		op.ColorScale.Scale(s, s, s, 1)
	}
	img.DrawImage(b.src, op)
}
