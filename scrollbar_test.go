package rowan

import (
	"testing"
	"time"
)

// newScrollFixture builds a 100x200 frame holding content of the given
// height and a vertical scrollbar (thickness 20, full length).
func newScrollFixture(contentHeight float64) (*Frame, *ScrollBar) {
	f := NewFrame("f", 0, 0, 100, 200, 0)
	f.Add(newProbe("content", 0, 0, 10, contentHeight)) //nolint:errcheck
	s := NewScrollBar("s", 20, Vertical, false)
	f.Add(s) //nolint:errcheck
	return f, s
}

// --- Geometry ---

func TestScrollBarGeometry(t *testing.T) {
	tests := []struct {
		name    string
		axis    Axis
		shorten bool
		want    Rect
	}{
		{"vertical full", Vertical, false, Rect{X: 80, Y: 0, Width: 20, Height: 200}},
		{"vertical shortened", Vertical, true, Rect{X: 80, Y: 0, Width: 20, Height: 180}},
		{"horizontal full", Horizontal, false, Rect{X: 0, Y: 180, Width: 100, Height: 20}},
		{"horizontal shortened", Horizontal, true, Rect{X: 0, Y: 180, Width: 80, Height: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame("f", 0, 0, 100, 200, 0)
			s := NewScrollBar("s", 20, tt.axis, tt.shorten)
			if err := f.Add(s); err != nil {
				t.Fatalf("Add: %v", err)
			}
			if got := s.Bounds(); got != tt.want {
				t.Errorf("Bounds = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- Thumb length and factor ---

func TestScrollBarThumbLength(t *testing.T) {
	// Track length is 200 - 2*20 = 160, view extent 200.
	tests := []struct {
		name       string
		content    float64
		wantThumb  float64
		wantFactor float64
	}{
		{"half visible", 400, 80, 2.5},
		{"tiny thumb clamps", 8000, 30, 60},
		{"content fits, thumb fills track", 150, 160, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s := newScrollFixture(tt.content)
			if s.thumb.length != tt.wantThumb {
				t.Errorf("thumb length = %v, want %v", s.thumb.length, tt.wantThumb)
			}
			if tt.wantFactor == 0 {
				if s.hasFactor {
					t.Error("hasFactor should be false when the thumb fills the track")
				}
				return
			}
			if !s.hasFactor {
				t.Fatal("hasFactor should be true")
			}
			if diff := s.factor - tt.wantFactor; diff > 0.001 || diff < -0.001 {
				t.Errorf("factor = %v, want %v", s.factor, tt.wantFactor)
			}
		})
	}
}

func TestScrollBarContentShrinkResetsOffset(t *testing.T) {
	f, s := newScrollFixture(400)
	f.SetScrollOffset(-100, Vertical)

	// Shrink the content below the view and re-derive.
	f.Widget("content").(*probe).H = 50
	s.updateLength(true)

	if got := f.ScrollOffset(Vertical); got != 0 {
		t.Errorf("offset after shrink = %v, want 0", got)
	}
}

// --- Drag ---

func TestScrollBarThumbDrag(t *testing.T) {
	f, s := newScrollFixture(400) // thumb 80, factor 2.5

	// Frame-relative coordinates: the bar occupies x in [80, 100]. The
	// thumb starts at track position 0, which is y in [20, 100].
	p := NewPointer()
	p.SetPos(85, 30)
	s.Update(p, nil) // hover arms the thumb

	p.SetButton(0, true)
	s.Update(p, nil) // press captures it

	p.SetPos(85, 70)
	s.Update(p, nil) // drag 40 down the track

	if s.thumb.pos != 40 {
		t.Errorf("thumb pos = %v, want 40", s.thumb.pos)
	}
	if got := f.ScrollOffset(Vertical); got != -100 {
		t.Errorf("offset = %v, want -100", got)
	}

	p.SetButton(0, false)
	s.Update(p, nil)
	if s.thumb.dragging {
		t.Error("release should end the drag")
	}
}

func TestScrollBarDragClamps(t *testing.T) {
	f, s := newScrollFixture(400)

	p := NewPointer()
	p.SetPos(85, 30)
	s.Update(p, nil)
	p.SetButton(0, true)
	s.Update(p, nil)

	p.SetPos(85, 1000) // way past the end of the track
	s.Update(p, nil)

	if s.thumb.pos != 80 {
		t.Errorf("thumb pos = %v, want 80 (max travel)", s.thumb.pos)
	}
	if got := f.ScrollOffset(Vertical); got != -200 {
		t.Errorf("offset = %v, want -200", got)
	}
}

func TestScrollBarPressOffThumbDoesNotCapture(t *testing.T) {
	_, s := newScrollFixture(400)

	p := NewPointer()
	p.SetPos(85, 30)
	s.Update(p, nil) // hover the thumb first so the press lock is clear

	// Press on the empty track below the thumb, then move over the thumb.
	p.SetPos(85, 150)
	p.SetButton(0, true)
	s.Update(p, nil)
	p.SetPos(85, 30)
	s.Update(p, nil)

	if s.thumb.dragging {
		t.Error("a press off the thumb should never capture it")
	}
	if s.thumb.pos != 0 {
		t.Errorf("thumb pos = %v, want 0", s.thumb.pos)
	}
}

// --- Wheel ---

func TestScrollBarWheel(t *testing.T) {
	f, s := newScrollFixture(400)

	p := NewPointer()
	p.SetPos(85, 150)
	s.Update(p, nil) // settle the initial thumb placement

	p.PushScroll(0, -1) // one notch down
	s.Update(p, nil)

	if got := f.ScrollOffset(Vertical); got != -21 {
		t.Errorf("offset = %v, want -21", got)
	}
	wantThumb := 21.0 / 2.5
	if diff := s.thumb.pos - wantThumb; diff > 0.001 || diff < -0.001 {
		t.Errorf("thumb pos = %v, want %v", s.thumb.pos, wantThumb)
	}
}

// --- Repeat buttons ---

func TestScrollButtonRepeat(t *testing.T) {
	now := time.Unix(0, 0)
	advance := func(d time.Duration) { now = now.Add(d) }
	b := &scrollButton{timer: newTickTimer(func() time.Time { return now })}

	if got := b.update(true, true); got != 1 {
		t.Fatalf("fresh press fired %d steps, want 1", got)
	}
	advance(150 * time.Millisecond)
	if got := b.update(true, true); got != 0 {
		t.Errorf("before the repeat delay fired %d steps, want 0", got)
	}
	advance(100 * time.Millisecond) // 250ms held: delay passed, one stride banked
	if got := b.update(true, true); got != 1 {
		t.Errorf("past the repeat delay fired %d steps, want 1", got)
	}
	advance(300 * time.Millisecond) // three strides at once
	if got := b.update(true, true); got != 3 {
		t.Errorf("long tick fired %d steps, want 3", got)
	}

	b.update(true, false) // release
	advance(time.Second)
	if got := b.update(true, true); got != 1 {
		t.Errorf("re-press fired %d steps, want 1", got)
	}
}

func TestScrollButtonPressOutsideIgnored(t *testing.T) {
	now := time.Unix(0, 0)
	b := &scrollButton{timer: newTickTimer(func() time.Time { return now })}

	b.update(false, true) // press started off the button
	if got := b.update(true, true); got != 0 {
		t.Errorf("entering with the button held fired %d steps, want 0", got)
	}
}

func TestScrollBarButtonsScroll(t *testing.T) {
	f, s := newScrollFixture(400)

	// Press the forward (bottom) button: one step of 10 plus the 20 bump.
	p := NewPointer()
	p.SetPos(85, 190)
	s.Update(p, nil) // hover arms the button
	p.SetButton(0, true)
	s.Update(p, nil)

	if got := f.ScrollOffset(Vertical); got != -30 {
		t.Errorf("offset after forward step = %v, want -30", got)
	}

	p.SetButton(0, false)
	s.Update(p, nil)

	// The back (top) button scrolls the other way.
	p.SetPos(85, 10)
	s.Update(p, nil)
	p.SetButton(0, true)
	s.Update(p, nil)
	if got := f.ScrollOffset(Vertical); got != 0 {
		t.Errorf("offset after back step = %v, want 0", got)
	}
}
