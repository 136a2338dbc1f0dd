package morph

import "testing"

func TestOnOffHandles(t *testing.T) {
	m := NewMorph("m")
	if m.Handles(MouseClickLeft) {
		t.Error("fresh morph should handle nothing")
	}
	m.On(MouseClickLeft, func(Event) {})
	if !m.Handles(MouseClickLeft) {
		t.Error("Handles should report the registered handler")
	}
	m.Off(MouseClickLeft)
	if m.Handles(MouseClickLeft) {
		t.Error("Off should unregister the handler")
	}
}

func TestReceiveSetsTarget(t *testing.T) {
	m := NewMorph("m")
	var got *Morph
	m.On(MouseEnter, func(evt Event) { got = evt.Target })
	if !m.receive(Event{Name: MouseEnter}) {
		t.Fatal("receive should report the handler ran")
	}
	if got != m {
		t.Error("Target should be the receiving morph")
	}
	if m.receive(Event{Name: MouseLeave}) {
		t.Error("receive without a handler should report false")
	}
}

func TestEscalateStopsAtFirstHandler(t *testing.T) {
	grandparent := NewMorph("grandparent")
	parent := NewMorph("parent")
	child := NewMorph("child")
	mustAdd(t, grandparent, parent)
	mustAdd(t, parent, child)

	order := []string{}
	grandparent.On(MouseClickLeft, func(Event) { order = append(order, "grandparent") })
	parent.On(MouseClickLeft, func(Event) { order = append(order, "parent") })

	child.Escalate(Event{Name: MouseClickLeft})
	if len(order) != 1 || order[0] != "parent" {
		t.Errorf("order = %v, want just the nearest handling ancestor", order)
	}
}

func TestEscalationIsOptIn(t *testing.T) {
	w := newTestWorld(t)
	parent := NewMorph("parent")
	parent.SetBounds(Rect{100, 100, 100, 100})
	parent.IsDraggable = false
	child := NewMorph("child")
	child.SetBounds(Rect{120, 120, 40, 40})
	child.IsDraggable = false
	mustAdd(t, &w.Morph, parent)
	mustAdd(t, parent, child)
	parentClicks := 0
	parent.On(MouseClickLeft, func(Event) { parentClicks++ })

	// The child is hit but has no handler: the event dies there.
	w.InjectClick(Point{130, 130}, ButtonLeft)
	tick(t, w, 1)
	if parentClicks != 0 {
		t.Fatalf("parent saw %d clicks, engine must not auto-bubble", parentClicks)
	}

	// With an escalating handler the parent hears about it.
	child.On(MouseClickLeft, func(evt Event) { child.Escalate(evt) })
	w.InjectClick(Point{130, 130}, ButtonLeft)
	tick(t, w, 1)
	if parentClicks != 1 {
		t.Errorf("parent saw %d clicks after explicit Escalate, want 1", parentClicks)
	}
}

func TestButtonNames(t *testing.T) {
	cases := map[Button]string{
		NoButton:     "none",
		ButtonLeft:   "left",
		ButtonMiddle: "middle",
		ButtonRight:  "right",
	}
	for b, want := range cases {
		if b.String() != want {
			t.Errorf("%d.String() = %q, want %q", b, b.String(), want)
		}
	}
}

func TestPanickingHandlerIsContained(t *testing.T) {
	w := newTestWorld(t)
	m := NewMorph("angry")
	m.SetBounds(Rect{100, 100, 50, 50})
	m.IsDraggable = false
	mustAdd(t, &w.Morph, m)
	m.On(MouseDownLeft, func(Event) { panic("boom") })
	clicked := false
	m.On(MouseClickLeft, func(Event) { clicked = true })

	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1)
	if !clicked {
		t.Error("a panicking handler must not derail the rest of the tick")
	}
}
