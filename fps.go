package rowan

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSLabel is a small overlay widget that displays the current FPS and TPS,
// refreshed roughly twice a second. Useful while tuning scrolling and
// animation behavior.
type FPSLabel struct {
	Base
	accum float64
	timer *tickTimer
}

// NewFPSLabel creates an FPS readout at (x, y).
func NewFPSLabel(name string, x, y float64) *FPSLabel {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &FPSLabel{
		Base:  NewBase(name, x, y, 100, 32),
		timer: newTickTimer(nil),
	}
}

// Update redraws the readout every ~0.5 seconds.
func (l *FPSLabel) Update(p *Pointer, keys []KeyEvent) {
	l.accum += l.timer.Tick()
	if l.img != nil && l.accum < 0.5 {
		return
	}
	l.accum = 0
	img := l.ensureImage()
	img.Clear()
	// Semi-transparent background for readability
	img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
