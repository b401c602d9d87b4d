package tactile

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// contactScript is the top-level JSON structure for an interaction script.
type contactScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptPlayer sequences scripted gestures (tap, drag, wait) across
// frames for automated interaction testing. It drives an Injector,
// which feeds the router one event per frame.
type ScriptPlayer struct {
	injector  *Injector
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script and returns a
// ScriptPlayer feeding the given router.
func LoadScript(r *Router, jsonData []byte) (*ScriptPlayer, error) {
	var script contactScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse interaction script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse interaction script: no steps")
	}
	return &ScriptPlayer{
		injector: NewInjector(r),
		steps:    script.Steps,
	}, nil
}

// Done reports whether all steps in the script have been executed.
func (p *ScriptPlayer) Done() bool {
	return p.done
}

// Step advances the player by one frame: either forwards a pending
// injected event to the router, or begins the next script step. Call
// once per frame, before Router.Update.
func (p *ScriptPlayer) Step() error {
	if p.done {
		return nil
	}
	// Drain pending gesture events before advancing.
	if p.injector.PendingEvents() > 0 {
		return p.injector.Step()
	}
	// Count down wait frames.
	if p.waitCount > 0 {
		p.waitCount--
		return nil
	}
	if p.cursor >= len(p.steps) {
		p.done = true
		return nil
	}

	st := p.steps[p.cursor]
	p.cursor++

	switch st.Action {
	case "tap":
		p.injector.InjectTap(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		p.injector.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "wait":
		if st.Frames > 0 {
			p.waitCount = st.Frames - 1 // this frame counts as one
		}
		return nil
	default:
		return fmt.Errorf("interaction script: unknown action %q", st.Action)
	}

	return p.injector.Step()
}
