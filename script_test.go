package morph

import "testing"

func TestLoadScriptRejectsEmpty(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("script without steps should error")
	}
	if _, err := LoadScript([]byte(`{`)); err == nil {
		t.Error("malformed JSON should error")
	}
}

func TestScriptDrivesInteraction(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	clicks := 0
	m.On(MouseClickLeft, func(Event) { clicks++ })
	bin := newDropBin(t, w)

	script, err := LoadScript([]byte(`{
		"steps": [
			{"action": "click", "x": 110, "y": 110},
			{"action": "wait", "ticks": 3},
			{"action": "drag", "fromX": 110, "fromY": 110, "toX": 450, "toY": 450}
		]
	}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	for i := 0; i < 100 && !script.Done(); i++ {
		script.Step(w)
		w.Update()
	}

	if !script.Done() {
		t.Fatal("script should have finished")
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if m.Parent != bin {
		t.Errorf("parent = %v, scripted drag should have dropped into bin", name(m.Parent))
	}
}
