package rowan

// syntheticPointerEvent is a single injected pointer event in window
// coordinates, matching what real mouse input would produce.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a left-button press at (x, y). One queued event is
// consumed per FeedInjected call.
func (p *Pointer) InjectPress(x, y float64) {
	p.inject = append(p.inject, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move to (x, y) with the button held. Use between
// InjectPress and InjectRelease to simulate a drag.
func (p *Pointer) InjectMove(x, y float64) {
	p.inject = append(p.inject, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at (x, y).
func (p *Pointer) InjectRelease(x, y float64) {
	p.inject = append(p.inject, syntheticPointerEvent{x: x, y: y, pressed: false})
}

// InjectClick queues a hover, a press, and a release at the same position.
// The leading unpressed event matters: widgets arm their press latch on a
// hover tick, exactly as a real mouse produces one by moving in before the
// press. Consumes three ticks.
func (p *Pointer) InjectClick(x, y float64) {
	p.inject = append(p.inject, syntheticPointerEvent{x: x, y: y})
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// InjectDrag queues a full drag: a hover then a press at (fromX, fromY),
// linearly interpolated held moves, and a release at (toX, toY). The pressed
// portion spans `frames` ticks (minimum 2); the leading hover adds one more.
func (p *Pointer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.inject = append(p.inject, syntheticPointerEvent{x: fromX, y: fromY})
	p.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectRelease(toX, toY)
}

// InjectPending reports whether queued events remain.
func (p *Pointer) InjectPending() bool { return len(p.inject) > 0 }

// FeedInjected pops one queued synthetic event into the pointer state and
// reports whether one was applied. Call at the start of a tick in place of
// ReadInput when input is driven by a script or a test.
func (p *Pointer) FeedInjected() bool {
	p.ResetDepth()
	if len(p.inject) == 0 {
		return false
	}
	ev := p.inject[0]
	copy(p.inject, p.inject[1:])
	p.inject = p.inject[:len(p.inject)-1]
	p.Enter()
	p.SetPos(ev.x, ev.y)
	p.SetButton(0, ev.pressed)
	return true
}
