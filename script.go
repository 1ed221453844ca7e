package rowan

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences injected pointer events and screenshot requests across
// ticks, for driving a widget tree without a user. Call Step once per tick
// before feeding the pointer.
//
// Supported actions: "click" (x, y), "drag" (fromX/fromY/toX/toY, frames),
// "wait" (frames), "screenshot" (label).
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("rowan: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("rowan: parse script: no steps")
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has been executed and drained.
func (r *Script) Done() bool { return r.done }

// Step advances the script by one tick, queuing events on p as needed. It
// returns a non-empty label when this tick requests a screenshot; the
// caller captures it after drawing (see SaveScreenshot).
func (r *Script) Step(p *Pointer) (screenshot string) {
	if r.done {
		return ""
	}
	// Let queued injections drain before advancing.
	if p.InjectPending() {
		return ""
	}
	if r.waitCount > 0 {
		r.waitCount--
		return ""
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return ""
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		screenshot = st.Label
		if screenshot == "" {
			screenshot = fmt.Sprintf("step%d", r.cursor)
		}
	case "click":
		p.InjectClick(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		p.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !p.InjectPending() {
		r.done = true
	}
	return screenshot
}
