package morph

import "math"

// HandState is the hand's interaction phase.
type HandState uint8

const (
	// HandIdle: no button held, nothing grabbed.
	HandIdle HandState = iota
	// HandPressed: a button is down but motion has not exceeded the grab
	// threshold. Releasing here produces a click.
	HandPressed
	// HandDragging: a morph is attached to the hand and follows the pointer.
	HandDragging
	// HandDropping: transient phase while a release resolves a drop.
	HandDropping
)

func (s HandState) String() string {
	switch s {
	case HandIdle:
		return "idle"
	case HandPressed:
		return "pressed"
	case HandDragging:
		return "dragging"
	case HandDropping:
		return "dropping"
	}
	return "unknown"
}

// Hand is the pointer's representative in the morph tree. It tracks the
// pointer position and button phase, performs hit testing, synthesizes
// click, double-click, enter and leave events, and carries grabbed morphs.
//
// The hand holds a grabbed morph as the child of an invisible zero-extent
// carrier morph, so a grabbed subtree is out of the world tree (and out of
// hit testing) while it follows the pointer, yet still resolves its World
// for damage reporting.
type Hand struct {
	world   *World
	carrier *Morph

	position Point
	button   Button
	state    HandState

	mouseOver  *Morph
	boundsOver *Morph

	mouseDownMorph *Morph
	pressPos       Point

	grabOrigin   *Morph
	grabPosition Point

	lastClickClock  float64
	lastClickTarget *Morph
	lastClickButton Button
}

func newHand(w *World) *Hand {
	carrier := NewMorph("hand")
	carrier.bounds = Rect{}
	carrier.IsDraggable = false
	carrier.AcceptsDrops = false
	carrier.worldPtr = w
	return &Hand{
		world:          w,
		carrier:        carrier,
		lastClickClock: -math.MaxFloat64,
	}
}

// Position returns the pointer's current position in world coordinates.
func (h *Hand) Position() Point {
	return h.position
}

// State returns the hand's current interaction phase.
func (h *Hand) State() HandState {
	return h.state
}

// GrabbedMorph returns the morph the hand is carrying, or nil.
func (h *Hand) GrabbedMorph() *Morph {
	if len(h.carrier.children) == 0 {
		return nil
	}
	return h.carrier.children[0]
}

// MouseOverMorph returns the morph most recently found under the pointer,
// or nil before the first motion. The reference is weak and clears when its
// target is destroyed.
func (h *Hand) MouseOverMorph() *Morph {
	return h.mouseOver
}

// CancelDrag aborts an in-progress drag as if the drop had been rejected:
// the grabbed morph snaps back to its pre-grab owner and position, or is
// destroyed when it has none (a template copy). No drop hooks fire. No-op
// when nothing is being dragged.
func (h *Hand) CancelDrag() {
	if h.state != HandDragging {
		return
	}
	if m := h.GrabbedMorph(); m != nil {
		h.returnOrDestroy(m)
	}
	h.grabOrigin = nil
	h.state = HandIdle
	h.button = NoButton
	h.mouseDownMorph = nil
}

// returnOrDestroy re-attaches a rejected or cancelled grab to its pre-grab
// owner at its pre-grab position, destroying it when it has no owner to
// return to.
func (h *Hand) returnOrDestroy(m *Morph) {
	if h.grabOrigin != nil && !h.grabOrigin.IsDestroyed() {
		if err := h.grabOrigin.Add(m); err == nil {
			m.SetPosition(h.grabPosition)
			return
		}
	}
	m.Destroy()
}

// morphAtPointer returns the frontmost visible unobscured morph under the
// pointer, falling back to the world itself. A grabbed morph lives under the
// carrier, outside the world tree, so it never occludes the drop target
// beneath it.
func (h *Hand) morphAtPointer() *Morph {
	if m := h.world.Morph.MorphAt(h.position); m != nil {
		return m
	}
	return &h.world.Morph
}

func (h *Hand) dispatch(target *Morph, evt Event) {
	if target == nil || target.IsDestroyed() {
		return
	}
	evt.Target = target
	target.receive(evt)
}

// --- Button press ---

func (h *Hand) processDown(pos Point, button Button) {
	h.position = pos
	h.pressPos = pos
	h.button = button
	target := h.morphAtPointer()
	h.mouseDownMorph = target
	h.state = HandPressed
	if focus := h.world.keyboardFocus; focus != nil && !isAncestor(focus, target) {
		h.world.FocusKeyboard(nil)
	}
	h.dispatch(target, Event{Name: mouseDownEvent(button), Pos: pos, Button: button})
}

// --- Motion ---

func (h *Hand) processMove(pos Point) {
	delta := pos.Sub(h.position)
	h.position = pos

	if h.state == HandPressed && pos.DistanceTo(h.pressPos) > h.world.Settings.GrabThreshold {
		h.initiateGrab()
	}

	// A morph grabbed by this very motion follows its full delta, so the
	// grab tracks the pointer's travel since the press.
	if grabbed := h.GrabbedMorph(); grabbed != nil && (delta.X != 0 || delta.Y != 0) {
		grabbed.MoveBy(delta)
	}

	newOver := h.morphAtPointer()
	if newOver != h.mouseOver {
		old := h.mouseOver
		h.mouseOver = newOver
		if grabbed := h.GrabbedMorph(); grabbed != nil {
			h.dispatch(old, Event{Name: mouseLeaveDraggingEvent(h.button), Pos: pos, Button: h.button, Dragged: grabbed})
			h.dispatch(newOver, Event{Name: mouseEnterDraggingEvent(h.button), Pos: pos, Button: h.button, Dragged: grabbed})
		} else {
			h.dispatch(old, Event{Name: MouseLeave, Pos: pos})
			h.dispatch(newOver, Event{Name: MouseEnter, Pos: pos})
		}
	}

	newBoundsOver := h.world.Morph.fullBoundsMorphAt(pos)
	if newBoundsOver != h.boundsOver {
		old := h.boundsOver
		h.boundsOver = newBoundsOver
		h.dispatch(old, Event{Name: MouseLeaveBounds, Pos: pos, Dragged: h.GrabbedMorph()})
		h.dispatch(newBoundsOver, Event{Name: MouseEnterBounds, Pos: pos, Dragged: h.GrabbedMorph()})
	}

	h.dispatch(newOver, Event{Name: MouseMove, Pos: pos, Button: h.button, Delta: delta})
	if grabbed := h.GrabbedMorph(); grabbed != nil {
		h.dispatch(grabbed, Event{Name: MouseMove, Pos: pos, Button: h.button, Delta: delta})
	}
}

// --- Grabbing ---

// initiateGrab resolves the press target to something draggable and attaches
// it to the hand. Templates yield an independent duplicate and stay put; the
// duplicate has no origin to return to, so a rejected drop destroys it.
func (h *Hand) initiateGrab() {
	pressed := h.mouseDownMorph
	if pressed == nil || pressed.IsDestroyed() {
		return
	}
	pick, isCopy := grabTargetFor(pressed)
	if pick == nil {
		return
	}
	if pick.SelectForEdit != nil {
		if sub := pick.SelectForEdit(); sub != nil {
			pick = sub
		}
	}
	if isCopy {
		h.grabOrigin = nil
		if pick.ReactToTemplateCopy != nil {
			hook := pick.ReactToTemplateCopy
			protect("reactToTemplateCopy", func() { hook() })
		}
	} else {
		h.grabOrigin = pick.Parent
		h.grabPosition = pick.Position()
	}
	if pick.PrepareToBeGrabbed != nil {
		hook := pick.PrepareToBeGrabbed
		protect("prepareToBeGrabbed", func() { hook(h) })
	}
	formerParent := pick.Parent
	if err := h.carrier.Add(pick); err != nil {
		h.grabOrigin = nil
		return
	}
	if formerParent != nil && formerParent.ReactToGrabOf != nil {
		hook := formerParent.ReactToGrabOf
		protect("reactToGrabOf", func() { hook(pick) })
	}
	h.state = HandDragging
}

// grabTargetFor walks the owner chain from m looking for the nearest
// draggable morph. A template morph encountered on the way yields a
// non-template draggable duplicate instead. Stops below world roots.
func grabTargetFor(m *Morph) (pick *Morph, isCopy bool) {
	for t := m; t != nil && t.worldPtr == nil; t = t.Parent {
		if t.IsDraggable {
			return t, false
		}
		if t.IsTemplate {
			dup := t.FullCopy()
			dup.IsTemplate = false
			dup.IsDraggable = true
			return dup, true
		}
	}
	return nil, false
}

// --- Button release ---

func (h *Hand) processUp(pos Point, button Button) {
	if pos != h.position {
		h.processMove(pos)
	}
	switch h.state {
	case HandDragging:
		h.drop()
	case HandPressed:
		h.processClick(pos, button)
	}
	h.state = HandIdle
	h.button = NoButton
	h.mouseDownMorph = nil
}

// processClick re-validates the press target as still the frontmost hit at
// release before synthesizing a click. A second click on the same target
// with the same button inside the double-click window additionally produces
// a double-click.
func (h *Hand) processClick(pos Point, button Button) {
	target := h.morphAtPointer()
	pressed := h.mouseDownMorph
	if pressed == nil || pressed.IsDestroyed() || target != pressed {
		return
	}
	h.dispatch(target, Event{Name: mouseClickEvent(button), Pos: pos, Button: button})
	window := float64(h.world.Settings.DoubleClickInterval) / 1000
	if h.lastClickTarget == target && h.lastClickButton == button &&
		h.world.clock-h.lastClickClock <= window {
		h.dispatch(target, Event{Name: mouseDoubleClickEvent(button), Pos: pos, Button: button})
		h.lastClickTarget = nil
	} else {
		h.lastClickTarget = target
		h.lastClickButton = button
		h.lastClickClock = h.world.clock
	}
	if button == ButtonRight {
		h.openContextMenu(target, pos)
	}
}

// --- Dropping ---

// drop resolves the grabbed morph against the morph under the pointer. The
// target accepts when its AcceptsDrops flag is set and its WantsDropOf hook
// (if any) approves; an accepting target may redirect attachment through
// SelectForEdit. On rejection the morph snaps back to its pre-grab owner and
// position, or is destroyed when it has none.
func (h *Hand) drop() {
	h.state = HandDropping
	m := h.GrabbedMorph()
	if m == nil {
		return
	}
	target := h.morphAtPointer()
	accepted := target.AcceptsDrops && !target.IsDestroyed()
	if accepted && target.WantsDropOf != nil {
		accepted = target.WantsDropOf(m)
	}
	if accepted {
		if target.SelectForEdit != nil {
			if sub := target.SelectForEdit(); sub != nil {
				target = sub
			}
		}
		if err := target.Add(m); err != nil {
			accepted = false
		} else {
			if m.JustDropped != nil {
				hook := m.JustDropped
				protect("justDropped", func() { hook(h) })
			}
			if target.ReactToDropOf != nil {
				hook := target.ReactToDropOf
				protect("reactToDropOf", func() { hook(m, h) })
			}
		}
	}
	if !accepted {
		h.returnOrDestroy(m)
	}
	h.grabOrigin = nil
}

// --- Scrolling ---

func (h *Hand) processScroll(pos Point, delta Point) {
	h.position = pos
	target := h.morphAtPointer()
	amount := h.world.Settings.MouseScrollAmount
	h.dispatch(target, Event{
		Name:  MouseScroll,
		Pos:   pos,
		Delta: Point{delta.X * amount, delta.Y * amount},
	})
}

// --- Context menus ---

// openContextMenu builds a menu for target and hands it to the world's
// OnContextMenu callback. A morph-provided custom menu wins; otherwise the
// world's mode selects between the developer and the user menu hook.
func (h *Hand) openContextMenu(target *Morph, pos Point) {
	if h.world.OnContextMenu == nil {
		return
	}
	menu := h.contextMenuFor(target)
	if menu == nil {
		return
	}
	callback := h.world.OnContextMenu
	protect("contextMenu", func() { callback(target, menu, pos) })
}

func (h *Hand) contextMenuFor(target *Morph) any {
	if target.CustomContextMenu != nil {
		return target.CustomContextMenu
	}
	if h.world.IsDevMode {
		if target.DevelopersMenu != nil {
			return target.DevelopersMenu()
		}
		return nil
	}
	if target.UserMenu != nil {
		return target.UserMenu()
	}
	return nil
}

// --- External content drops ---

// processContentDrop routes an externally dropped piece of content (a file
// dragged in from the host system) to the morph under the pointer.
func (h *Hand) processContentDrop(evt Event) {
	evt.Pos = h.position
	h.dispatch(h.morphAtPointer(), evt)
}

// --- Weak reference invalidation ---

func (h *Hand) clearRefsTo(sub *Morph) {
	if h.mouseOver != nil && isAncestor(sub, h.mouseOver) {
		h.mouseOver = nil
	}
	if h.boundsOver != nil && isAncestor(sub, h.boundsOver) {
		h.boundsOver = nil
	}
	if h.mouseDownMorph != nil && isAncestor(sub, h.mouseDownMorph) {
		h.mouseDownMorph = nil
	}
	if h.lastClickTarget != nil && isAncestor(sub, h.lastClickTarget) {
		h.lastClickTarget = nil
	}
	if h.state == HandDragging && h.GrabbedMorph() == nil {
		h.state = HandIdle
		h.grabOrigin = nil
	}
}
