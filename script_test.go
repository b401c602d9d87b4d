package tactile

import (
	"strings"
	"testing"
)

func runScript(t *testing.T, r *Router, p *ScriptPlayer) int {
	t.Helper()
	frames := 0
	for !p.Done() {
		if frames > 1000 {
			t.Fatal("script did not finish within 1000 frames")
		}
		if err := p.Step(); err != nil {
			t.Fatal(err)
		}
		update(t, r)
		frames++
	}
	return frames
}

func TestLoadScriptErrors(t *testing.T) {
	r := NewRouter(nil)

	if _, err := LoadScript(r, []byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := LoadScript(r, []byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty script")
	}
}

func TestScriptUnknownAction(t *testing.T) {
	r := NewRouter(nil)
	p, err := LoadScript(r, []byte(`{"steps": [{"action": "teleport", "x": 1, "y": 2}]}`))
	if err != nil {
		t.Fatal(err)
	}
	err = p.Step()
	if err == nil || !strings.Contains(err.Error(), "unknown action") {
		t.Errorf("Step: got %v, want unknown action error", err)
	}
}

func TestScriptTapSequence(t *testing.T) {
	r, b := buttonFixture(t)
	var clicks int
	b.OnClick = func(c Contact) { clicks++ }

	p, err := LoadScript(r, []byte(`{"steps": [
		{"action": "tap", "x": 50, "y": 50},
		{"action": "wait", "frames": 3},
		{"action": "tap", "x": 50, "y": 50},
		{"action": "tap", "x": 500, "y": 500}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	runScript(t, r, p)
	if clicks != 2 {
		t.Errorf("clicks = %d, want 2 (third tap misses the button)", clicks)
	}
}

func TestScriptDragDrivesScrollbar(t *testing.T) {
	r, s := scrollFixture(t)

	p, err := LoadScript(r, []byte(`{"steps": [
		{"action": "drag", "fromX": 100, "fromY": 10, "toX": 300, "toY": 10, "frames": 6}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	runScript(t, r, p)
	// The last interpolated move lands at x=260; the release itself does
	// not move the thumb.
	if !approx(s.Value(), 0.8) {
		t.Errorf("value = %v, want 0.8", s.Value())
	}
	if s.Dragging() {
		t.Error("drag should have ended with the script")
	}
}

func TestScriptWaitConsumesFrames(t *testing.T) {
	r := NewRouter(nil)
	p, err := LoadScript(r, []byte(`{"steps": [{"action": "wait", "frames": 5}]}`))
	if err != nil {
		t.Fatal(err)
	}

	frames := runScript(t, r, p)
	// 5 wait frames plus the frame that notices the script is done.
	if frames != 6 {
		t.Errorf("frames = %d, want 6", frames)
	}
}

func TestScriptStepAfterDone(t *testing.T) {
	r := NewRouter(nil)
	p, err := LoadScript(r, []byte(`{"steps": [{"action": "wait", "frames": 1}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runScript(t, r, p)
	if err := p.Step(); err != nil {
		t.Errorf("Step after Done: %v", err)
	}
}
