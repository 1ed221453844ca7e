package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Layer is a top-level updatable surface: a Frame, a DirTree, or anything
// else that consumes the shared pointer and draws itself.
type Layer interface {
	Update(p *Pointer, keys []KeyEvent)
	Draw(target *ebiten.Image)
}

// Screen owns the shared pointer, the per-tick key buffer, and an ordered
// stack of top-level layers. Layers are updated in the order they were
// added; add the topmost (lowest Z) layer first so occlusion depth cascades
// correctly.
//
// Screen implements ebiten.Game; hand it to Run or ebiten.RunGame.
type Screen struct {
	ClearColor Color

	layers  []Layer
	pointer *Pointer
	keys    []KeyEvent

	update func() error

	fps *FPSLabel

	w, h int
}

// NewScreen creates an empty screen with the given logical size.
func NewScreen(w, h int) *Screen {
	return &Screen{
		ClearColor: Color{0.08, 0.08, 0.1, 1},
		pointer:    NewPointer(),
		w:          w,
		h:          h,
	}
}

// Add appends a top-level layer.
func (s *Screen) Add(l Layer) { s.layers = append(s.layers, l) }

// Pointer returns the shared pointer, for injection or inspection.
func (s *Screen) Pointer() *Pointer { return s.pointer }

// SetUpdateFunc installs an application callback run at the end of every
// tick, after all layers have been updated.
func (s *Screen) SetUpdateFunc(f func() error) { s.update = f }

// Update implements ebiten.Game.
func (s *Screen) Update() error {
	if !s.pointer.FeedInjected() {
		s.pointer.ReadInput()
	}
	s.keys = ReadKeys(s.keys[:0])
	for _, l := range s.layers {
		l.Update(s.pointer, s.keys)
	}
	if s.fps != nil {
		s.fps.Update(deadPointer(), nil)
	}
	s.pointer.EndTick()
	if s.update != nil {
		return s.update()
	}
	return nil
}

// Draw implements ebiten.Game.
func (s *Screen) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())
	for _, l := range s.layers {
		l.Draw(screen)
	}
	if s.fps != nil {
		if img := s.fps.Image(); img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(s.fps.X, s.fps.Y)
			screen.DrawImage(img, op)
		}
	}
}

// Layout implements ebiten.Game.
func (s *Screen) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.w, s.h
}

// RunConfig configures the window for Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and drives the screen until it exits.
func Run(s *Screen, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = s.w
	}
	if cfg.Height <= 0 {
		cfg.Height = s.h
	}
	if cfg.ShowFPS {
		s.fps = NewFPSLabel("!fps", 8, float64(s.h)-40)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(s)
}
