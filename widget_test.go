package rowan

import (
	"testing"
)

// --- Base geometry ---

func TestBaseBoundsAndHit(t *testing.T) {
	b := NewBase("w", 10, 20, 30, 40)
	if got := b.Bounds(); got != (Rect{X: 10, Y: 20, Width: 30, Height: 40}) {
		t.Errorf("Bounds = %v", got)
	}
	if !b.Hit(10, 20) || !b.Hit(40, 60) {
		t.Error("points inside or on the edge should hit")
	}
	if b.Hit(41, 20) || b.Hit(10, 61) {
		t.Error("points past the far edge should miss")
	}
	b.SetPosition(0, 0)
	if b.X != 0 || b.Y != 0 {
		t.Errorf("SetPosition moved to (%v, %v)", b.X, b.Y)
	}
}

func TestEnsureImageMinimumSize(t *testing.T) {
	b := NewBase("w", 0, 0, 0, 0)
	img := b.ensureImage()
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("zero-sized widget image = %v, want 1x1", img.Bounds())
	}
}

func TestEnsureImageReallocOnResize(t *testing.T) {
	b := NewBase("w", 0, 0, 10, 10)
	first := b.ensureImage()
	if got := b.ensureImage(); got != first {
		t.Error("same size should reuse the bitmap")
	}
	b.W = 20
	if got := b.ensureImage(); got == first {
		t.Error("resize should reallocate the bitmap")
	}
}

// --- Click latch ---

func TestClickLatch(t *testing.T) {
	type tick struct {
		hover, down bool
		click       bool
	}
	tests := []struct {
		name  string
		ticks []tick
	}{
		{
			name: "press and release on widget",
			ticks: []tick{
				{hover: true, down: false},
				{hover: true, down: true},
				{hover: true, down: false, click: true},
			},
		},
		{
			name: "press outside never completes inside",
			ticks: []tick{
				{hover: false, down: true},
				{hover: true, down: true},
				{hover: true, down: false},
				// A clean press afterwards still works.
				{hover: true, down: true},
				{hover: true, down: false, click: true},
			},
		},
		{
			name: "release outside cancels",
			ticks: []tick{
				{hover: true, down: true},
				{hover: false, down: true},
				{hover: false, down: false},
				{hover: true, down: false},
			},
		},
		{
			name: "drag off and back completes on release",
			ticks: []tick{
				{hover: true, down: true},
				{hover: false, down: true},
				{hover: true, down: true},
				{hover: true, down: false, click: true},
			},
		},
		{
			name: "held button entering the widget is ignored",
			ticks: []tick{
				{hover: false, down: true},
				{hover: true, down: true},
				{hover: true, down: true},
				{hover: true, down: false},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l clickLatch
			for i, tk := range tt.ticks {
				got := l.update(tk.hover, tk.down)
				if got != tk.click {
					t.Errorf("tick %d: click = %v, want %v", i, got, tk.click)
				}
			}
		})
	}
}

func TestClickLatchPressed(t *testing.T) {
	var l clickLatch
	l.update(true, true)
	if !l.pressed() {
		t.Error("pressed should be true while the press is held")
	}
	l.update(true, false)
	if l.pressed() {
		t.Error("pressed should clear on release")
	}
}
