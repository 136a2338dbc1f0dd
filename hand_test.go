package morph

import (
	"testing"
)

// newClickTarget attaches a 50x40 morph at (100, 100) to w.
func newClickTarget(t *testing.T, w *World, name string) *Morph {
	t.Helper()
	m := NewMorph(name)
	m.SetBounds(Rect{100, 100, 50, 40})
	mustAdd(t, &w.Morph, m)
	return m
}

// newDropBin attaches an accepting 100x100 drop target at (400, 400) to w.
func newDropBin(t *testing.T, w *World) *Morph {
	t.Helper()
	bin := NewMorph("bin")
	bin.SetBounds(Rect{400, 400, 100, 100})
	bin.IsDraggable = false
	bin.AcceptsDrops = true
	mustAdd(t, &w.Morph, bin)
	return bin
}

// --- Clicks ---

func TestClickDispatch(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	var got []EventName
	m.On(MouseDownLeft, func(evt Event) { got = append(got, evt.Name) })
	m.On(MouseClickLeft, func(evt Event) { got = append(got, evt.Name) })

	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1)

	if len(got) != 2 || got[0] != MouseDownLeft || got[1] != MouseClickLeft {
		t.Errorf("events = %v, want [mouseDownLeft mouseClickLeft]", got)
	}
	if w.Hand.State() != HandIdle {
		t.Errorf("hand state = %v, want idle", w.Hand.State())
	}
}

func TestRightClickDispatch(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	clicked := false
	m.On(MouseClickRight, func(Event) { clicked = true })
	w.InjectClick(Point{110, 110}, ButtonRight)
	tick(t, w, 1)
	if !clicked {
		t.Error("right click should dispatch mouseClickRight")
	}
}

func TestUnhandledEventsAreIgnored(t *testing.T) {
	w := newTestWorld(t)
	newClickTarget(t, w, "mute")
	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1) // no handler anywhere: must be silently dropped
}

func TestSubThresholdMoveStillClicks(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	clicked := false
	m.On(MouseClickLeft, func(Event) { clicked = true })

	w.PointerDown(Point{110, 110}, ButtonLeft)
	w.PointerMove(Point{112, 113}) // under the grab threshold of 5
	w.PointerUp(Point{112, 113}, ButtonLeft)
	tick(t, w, 1)

	if !clicked {
		t.Error("jitter under the grab threshold should still click")
	}
	if m.Position() != (Point{100, 100}) {
		t.Errorf("morph moved to %v, a click must not drag", m.Position())
	}
	if m.Parent != &w.Morph {
		t.Error("morph should never have left its parent")
	}
}

func TestDoubleClick(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	clicks, doubles := 0, 0
	m.On(MouseClickLeft, func(Event) { clicks++ })
	m.On(MouseDoubleClickLeft, func(Event) { doubles++ })

	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1)
	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1)

	if clicks != 2 {
		t.Errorf("clicks = %d, want 2 (double click does not eat the click)", clicks)
	}
	if doubles != 1 {
		t.Errorf("doubles = %d, want 1", doubles)
	}
}

func TestDoubleClickWindowExpires(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	doubles := 0
	m.On(MouseDoubleClickLeft, func(Event) { doubles++ })

	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1)
	tick(t, w, 40) // ~0.66s at 60 tps, past the 500ms window
	w.InjectClick(Point{110, 110}, ButtonLeft)
	tick(t, w, 1)

	if doubles != 0 {
		t.Errorf("doubles = %d, want 0 after the window expired", doubles)
	}
}

// --- Enter / leave ---

func TestEnterAndLeave(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "hoverable")
	var got []EventName
	m.On(MouseEnter, func(evt Event) { got = append(got, evt.Name) })
	m.On(MouseLeave, func(evt Event) { got = append(got, evt.Name) })

	w.PointerMove(Point{110, 110})
	tick(t, w, 1)
	w.PointerMove(Point{500, 50})
	tick(t, w, 1)

	if len(got) != 2 || got[0] != MouseEnter || got[1] != MouseLeave {
		t.Errorf("events = %v, want [mouseEnter mouseLeave]", got)
	}
}

func TestEnterDraggingCarriesGrabbedMorph(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	bin := newDropBin(t, w)
	var dragged *Morph
	bin.On(MouseEnterDraggingLeft, func(evt Event) { dragged = evt.Dragged })

	w.PointerDown(Point{110, 110}, ButtonLeft)
	w.PointerMove(Point{300, 300})
	tick(t, w, 1)
	w.PointerMove(Point{450, 450})
	tick(t, w, 1)

	if w.Hand.State() != HandDragging {
		t.Fatalf("hand state = %v, want dragging", w.Hand.State())
	}
	if dragged != m {
		t.Errorf("Dragged = %v, want the grabbed morph", name(dragged))
	}
}

// --- Grab and drop ---

func TestDragAndDropAccepted(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	bin := newDropBin(t, w)
	justDropped := false
	var received *Morph
	m.JustDropped = func(*Hand) { justDropped = true }
	bin.ReactToDropOf = func(dropped *Morph, _ *Hand) { received = dropped }

	w.InjectDrag(Point{110, 110}, Point{450, 450}, ButtonLeft)
	tick(t, w, 1)

	if m.Parent != bin {
		t.Fatalf("parent = %v, want bin", name(m.Parent))
	}
	if !justDropped {
		t.Error("JustDropped should fire on an accepted drop")
	}
	if received != m {
		t.Errorf("ReactToDropOf got %v, want cargo", name(received))
	}
	// The morph followed the pointer by (340, 340).
	if m.Position() != (Point{440, 440}) {
		t.Errorf("position = %v, want (440,440)", m.Position())
	}
	if w.Hand.State() != HandIdle {
		t.Errorf("hand state = %v, want idle", w.Hand.State())
	}
}

func TestDropRejectedReturnsToOrigin(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	wall := NewMorph("wall") // AcceptsDrops is false by default
	wall.SetBounds(Rect{400, 400, 100, 100})
	wall.IsDraggable = false
	mustAdd(t, &w.Morph, wall)
	m.JustDropped = func(*Hand) { t.Error("JustDropped must not fire on a rejected drop") }

	w.InjectDrag(Point{110, 110}, Point{450, 450}, ButtonLeft)
	tick(t, w, 1)

	if m.Parent != &w.Morph {
		t.Fatalf("parent = %v, want the original owner", name(m.Parent))
	}
	if m.Position() != (Point{100, 100}) {
		t.Errorf("position = %v, want the pre-grab (100,100)", m.Position())
	}
}

func TestWantsDropOfVetoes(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	bin := newDropBin(t, w)
	bin.WantsDropOf = func(candidate *Morph) bool { return candidate.Name != "cargo" }

	w.InjectDrag(Point{110, 110}, Point{450, 450}, ButtonLeft)
	tick(t, w, 1)

	if m.Parent != &w.Morph {
		t.Errorf("parent = %v, vetoed drop should return the morph", name(m.Parent))
	}
	if m.Position() != (Point{100, 100}) {
		t.Errorf("position = %v, want (100,100)", m.Position())
	}
}

func TestDropSubstitutesSelectForEdit(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	bin := newDropBin(t, w)
	inner := NewMorph("inner")
	inner.SetBounds(Rect{410, 410, 20, 20})
	inner.IsDraggable = false
	mustAdd(t, bin, inner)
	bin.SelectForEdit = func() *Morph { return inner }

	w.InjectDrag(Point{110, 110}, Point{450, 450}, ButtonLeft)
	tick(t, w, 1)

	if m.Parent != inner {
		t.Errorf("parent = %v, SelectForEdit should redirect the attach", name(m.Parent))
	}
	_ = m
}

func TestGrabHooksFire(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	prepared := false
	var grabbedSeen *Morph
	m.PrepareToBeGrabbed = func(*Hand) { prepared = true }
	w.Morph.ReactToGrabOf = func(g *Morph) { grabbedSeen = g }

	w.PointerDown(Point{110, 110}, ButtonLeft)
	w.PointerMove(Point{300, 300})
	tick(t, w, 1)

	if !prepared {
		t.Error("PrepareToBeGrabbed should fire before detachment")
	}
	if grabbedSeen != m {
		t.Errorf("ReactToGrabOf got %v, want cargo", name(grabbedSeen))
	}
	if w.Hand.GrabbedMorph() != m {
		t.Errorf("hand holds %v, want cargo", name(w.Hand.GrabbedMorph()))
	}
	w.Morph.ReactToGrabOf = nil
}

func TestTemplateDragSpawnsCopy(t *testing.T) {
	w := newTestWorld(t)
	palette := NewMorph("palette")
	palette.SetBounds(Rect{0, 0, 100, 600})
	palette.IsDraggable = false
	mustAdd(t, &w.Morph, palette)
	tile := NewMorph("tile")
	tile.SetBounds(Rect{25, 25, 50, 50})
	tile.IsTemplate = true
	tile.IsDraggable = false
	copies := 0
	tile.ReactToTemplateCopy = func() { copies++ }
	mustAdd(t, palette, tile)
	bin := newDropBin(t, w)

	w.InjectDrag(Point{50, 50}, Point{450, 450}, ButtonLeft)
	tick(t, w, 1)

	if tile.Parent != palette {
		t.Fatal("the template itself must stay in place")
	}
	if bin.NumChildren() != 1 {
		t.Fatalf("bin has %d children, want the dropped copy", bin.NumChildren())
	}
	dup := bin.ChildAt(0)
	if dup == tile {
		t.Fatal("dropped morph must be a copy, not the template")
	}
	if dup.IsTemplate || !dup.IsDraggable {
		t.Error("copy should be a plain draggable morph, not a template")
	}
	if copies != 1 {
		t.Errorf("ReactToTemplateCopy fired %d times, want 1", copies)
	}
}

func TestTemplateCopyRejectedIsDestroyed(t *testing.T) {
	w := newTestWorld(t)
	palette := NewMorph("palette")
	palette.SetBounds(Rect{0, 0, 100, 600})
	palette.IsDraggable = false
	mustAdd(t, &w.Morph, palette)
	tile := NewMorph("tile")
	tile.SetBounds(Rect{25, 25, 50, 50})
	tile.IsTemplate = true
	tile.IsDraggable = false
	mustAdd(t, palette, tile)
	wall := NewMorph("wall")
	wall.SetBounds(Rect{400, 400, 100, 100})
	wall.IsDraggable = false
	mustAdd(t, &w.Morph, wall)

	w.InjectDrag(Point{50, 50}, Point{450, 450}, ButtonLeft)
	tick(t, w, 1)

	if wall.NumChildren() != 0 {
		t.Error("rejecting wall must not keep the copy")
	}
	if w.Hand.GrabbedMorph() != nil {
		t.Error("hand should be empty after the drop resolved")
	}
	// With no previous owner the rejected copy is destroyed, so the
	// template remains the palette's only tile.
	if palette.NumChildren() != 1 {
		t.Errorf("palette has %d children, want just the template", palette.NumChildren())
	}
}

func TestDestroyGrabbedMorphMidDrag(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")

	w.PointerDown(Point{110, 110}, ButtonLeft)
	w.PointerMove(Point{300, 300})
	tick(t, w, 1)
	if w.Hand.GrabbedMorph() != m {
		t.Fatal("expected the morph to be grabbed")
	}

	m.Destroy()
	if w.Hand.GrabbedMorph() != nil {
		t.Fatal("destroying the grabbed morph should empty the hand")
	}
	w.PointerUp(Point{300, 300}, ButtonLeft)
	tick(t, w, 1) // must not panic or resurrect the morph
	if w.Hand.State() != HandIdle {
		t.Errorf("hand state = %v, want idle", w.Hand.State())
	}
}

func TestCancelDragReturnsMorph(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "cargo")
	m.JustDropped = func(*Hand) { t.Error("cancelling a drag must not fire drop hooks") }

	w.PointerDown(Point{110, 110}, ButtonLeft)
	w.PointerMove(Point{300, 300})
	tick(t, w, 1)
	if w.Hand.State() != HandDragging {
		t.Fatal("expected an active drag")
	}

	w.Hand.CancelDrag()
	if w.Hand.State() != HandIdle {
		t.Errorf("hand state = %v, want idle", w.Hand.State())
	}
	if m.Parent != &w.Morph || m.Position() != (Point{100, 100}) {
		t.Errorf("morph at %v under %v, want (100,100) under the original owner",
			m.Position(), name(m.Parent))
	}
	// The release that eventually arrives finds nothing to drop.
	w.PointerUp(Point{300, 300}, ButtonLeft)
	tick(t, w, 1)
}

func TestMouseOverTracksPointer(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "hoverable")
	w.PointerMove(Point{110, 110})
	tick(t, w, 1)
	if w.Hand.MouseOverMorph() != m {
		t.Errorf("mouse over = %v, want hoverable", name(w.Hand.MouseOverMorph()))
	}
	m.Destroy()
	if w.Hand.MouseOverMorph() != nil {
		t.Error("destroying the target should clear the mouse-over reference")
	}
}

// --- Scrolling ---

func TestScrollIsScaledBySettings(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "list")
	var delta Point
	m.On(MouseScroll, func(evt Event) { delta = evt.Delta })

	w.PointerScroll(Point{110, 110}, Point{0, 1})
	tick(t, w, 1)

	if delta.Y != w.Settings.MouseScrollAmount {
		t.Errorf("Delta.Y = %v, want scaled %v", delta.Y, w.Settings.MouseScrollAmount)
	}
}

// --- Context menus ---

func TestContextMenuModeSelection(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	m.UserMenu = func() any { return "user menu" }
	m.DevelopersMenu = func() any { return "dev menu" }
	var menus []any
	w.OnContextMenu = func(_ *Morph, menu any, _ Point) { menus = append(menus, menu) }

	w.InjectClick(Point{110, 110}, ButtonRight)
	tick(t, w, 1)
	w.SetDevMode(true)
	w.InjectClick(Point{110, 110}, ButtonRight)
	tick(t, w, 1)
	w.SetDevMode(false)

	if len(menus) != 2 || menus[0] != "user menu" || menus[1] != "dev menu" {
		t.Errorf("menus = %v, want the user then the developer menu", menus)
	}
}

func TestCustomContextMenuWins(t *testing.T) {
	w := newTestWorld(t)
	m := newClickTarget(t, w, "button")
	m.UserMenu = func() any { return "user menu" }
	m.CustomContextMenu = "custom"
	var menu any
	w.OnContextMenu = func(_ *Morph, got any, _ Point) { menu = got }

	w.InjectClick(Point{110, 110}, ButtonRight)
	tick(t, w, 1)

	if menu != "custom" {
		t.Errorf("menu = %v, want the custom menu", menu)
	}
}

// --- Focus interplay ---

func TestClickOutsideFocusDropsIt(t *testing.T) {
	w := newTestWorld(t)
	field := newClickTarget(t, w, "field")
	w.FocusKeyboard(field)

	w.InjectClick(Point{110, 110}, ButtonLeft) // inside the focus
	tick(t, w, 1)
	if w.KeyboardFocus() != field {
		t.Fatal("clicking the focused morph should keep focus")
	}

	w.InjectClick(Point{600, 300}, ButtonLeft) // on the backdrop
	tick(t, w, 1)
	if w.KeyboardFocus() != nil {
		t.Error("clicking elsewhere should drop keyboard focus")
	}
}
