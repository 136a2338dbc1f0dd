package morph

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
	Button string  `json:"button,omitempty"`
	Text   string  `json:"text,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Ticks  int     `json:"ticks,omitempty"`
}

// scriptFile is the top-level JSON structure for an interaction script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences recorded interaction across world ticks: one step is fed
// to the world per tick, except "wait" steps which stall the script for a
// number of ticks. Scripts drive the same abstract input queue as live
// input, so a scripted session is indistinguishable from a user's to the
// morphs involved.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON interaction script.
func LoadScript(data []byte) (*Script, error) {
	var file scriptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &Script{steps: file.Steps}, nil
}

// Done reports whether all steps have been executed.
func (s *Script) Done() bool {
	return s.done
}

// Step feeds the script's next action to w. Call once per tick, before
// World.Update, until Done reports true.
func (s *Script) Step(w *World) {
	if s.done {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	button := buttonNamed(st.Button)
	switch st.Action {
	case "click":
		w.InjectClick(Point{st.X, st.Y}, button)
	case "drag":
		w.InjectDrag(Point{st.FromX, st.FromY}, Point{st.ToX, st.ToY}, button)
	case "move":
		w.PointerMove(Point{st.X, st.Y})
	case "press":
		w.PointerDown(Point{st.X, st.Y}, button)
	case "release":
		w.PointerUp(Point{st.X, st.Y}, button)
	case "scroll":
		w.PointerScroll(Point{st.X, st.Y}, Point{st.DX, st.DY})
	case "type":
		for _, ch := range st.Text {
			w.KeyPress(KeyEvent{Char: ch})
		}
	case "wait":
		if st.Ticks > 1 {
			s.waitCount = st.Ticks - 1 // this tick counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}

func buttonNamed(name string) Button {
	switch name {
	case "middle":
		return ButtonMiddle
	case "right":
		return ButtonRight
	default:
		return ButtonLeft
	}
}
