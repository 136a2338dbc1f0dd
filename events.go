package morph

import "github.com/hajimehoshi/ebiten/v2"

// EventName identifies a pointer or content event that can be dispatched to a
// morph. Morphs opt into an event by registering a handler for its name; an
// event arriving at a morph with no handler for it is silently ignored.
type EventName string

// Pointer events dispatched by the Hand.
const (
	MouseDownLeft   EventName = "mouseDownLeft"
	MouseDownMiddle EventName = "mouseDownMiddle"
	MouseDownRight  EventName = "mouseDownRight"

	MouseClickLeft   EventName = "mouseClickLeft"
	MouseClickMiddle EventName = "mouseClickMiddle"
	MouseClickRight  EventName = "mouseClickRight"

	MouseDoubleClickLeft   EventName = "mouseDoubleClickLeft"
	MouseDoubleClickMiddle EventName = "mouseDoubleClickMiddle"
	MouseDoubleClickRight  EventName = "mouseDoubleClickRight"

	MouseEnter EventName = "mouseEnter"
	MouseLeave EventName = "mouseLeave"

	MouseEnterDraggingLeft   EventName = "mouseEnterDraggingLeft"
	MouseEnterDraggingMiddle EventName = "mouseEnterDraggingMiddle"
	MouseEnterDraggingRight  EventName = "mouseEnterDraggingRight"
	MouseLeaveDraggingLeft   EventName = "mouseLeaveDraggingLeft"
	MouseLeaveDraggingMiddle EventName = "mouseLeaveDraggingMiddle"
	MouseLeaveDraggingRight  EventName = "mouseLeaveDraggingRight"

	MouseEnterBounds EventName = "mouseEnterBounds"
	MouseLeaveBounds EventName = "mouseLeaveBounds"

	MouseMove   EventName = "mouseMove"
	MouseScroll EventName = "mouseScroll"
)

// Content events dispatched when files are dropped onto the world from
// outside. Multi-file drops are bracketed by BeginBulkDrop and EndBulkDrop.
const (
	DroppedImage  EventName = "droppedImage"
	DroppedSVG    EventName = "droppedSVG"
	DroppedAudio  EventName = "droppedAudio"
	DroppedText   EventName = "droppedText"
	DroppedBinary EventName = "droppedBinary"
	BeginBulkDrop EventName = "beginBulkDrop"
	EndBulkDrop   EventName = "endBulkDrop"
)

// Button identifies a mouse button, or no button at all.
type Button uint8

const (
	NoButton Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// String returns the morphic button name ("left", "middle", "right", "none").
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "none"
	}
}

// mouseDownEvent returns the per-button mouse-down event name.
func mouseDownEvent(b Button) EventName {
	switch b {
	case ButtonMiddle:
		return MouseDownMiddle
	case ButtonRight:
		return MouseDownRight
	default:
		return MouseDownLeft
	}
}

// mouseClickEvent returns the per-button click event name.
func mouseClickEvent(b Button) EventName {
	switch b {
	case ButtonMiddle:
		return MouseClickMiddle
	case ButtonRight:
		return MouseClickRight
	default:
		return MouseClickLeft
	}
}

// mouseDoubleClickEvent returns the per-button double-click event name.
func mouseDoubleClickEvent(b Button) EventName {
	switch b {
	case ButtonMiddle:
		return MouseDoubleClickMiddle
	case ButtonRight:
		return MouseDoubleClickRight
	default:
		return MouseDoubleClickLeft
	}
}

// mouseEnterDraggingEvent returns the enter-while-dragging event name for the
// button holding the grabbed morph.
func mouseEnterDraggingEvent(b Button) EventName {
	switch b {
	case ButtonMiddle:
		return MouseEnterDraggingMiddle
	case ButtonRight:
		return MouseEnterDraggingRight
	default:
		return MouseEnterDraggingLeft
	}
}

// mouseLeaveDraggingEvent returns the leave-while-dragging event name for the
// button holding the grabbed morph.
func mouseLeaveDraggingEvent(b Button) EventName {
	switch b {
	case ButtonMiddle:
		return MouseLeaveDraggingMiddle
	case ButtonRight:
		return MouseLeaveDraggingRight
	default:
		return MouseLeaveDraggingLeft
	}
}

// Modifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota // Shift key
	ModCtrl                        // Control key
	ModAlt                         // Alt / Option key
	ModMeta                        // Meta / Command / Windows key
)

// KeyEvent carries one keyboard event. Char is only meaningful for key-press
// (character input) events; Key identifies the physical key for down/up.
type KeyEvent struct {
	Key       ebiten.Key
	Char      rune
	Modifiers Modifiers
}

// Event carries the data for a single dispatched pointer or content event.
// Only the fields relevant to the event's name are populated.
type Event struct {
	Name   EventName
	Target *Morph // morph the event is being delivered to
	Pos    Point  // hand position in world coordinates
	Button Button
	Delta  Point // scroll offset (MouseScroll only)

	// Dragged is the morph currently held by the Hand for the
	// "-Dragging-" enter/leave variants and bounds events, nil otherwise.
	Dragged *Morph

	// Content drop payload (Dropped* events only).
	Image    *ebiten.Image
	Text     string
	Data     []byte
	FileName string
	MIME     string
}

// Handler reacts to a dispatched Event.
type Handler func(Event)

// On registers a handler for the named event on this morph, replacing any
// previous handler for the same name. Registering a handler is the morphic
// equivalent of overriding an event method: presence of the handler is what
// makes the morph react to the event at all.
func (m *Morph) On(name EventName, h Handler) {
	if m.handlers == nil {
		m.handlers = make(map[EventName]Handler)
	}
	m.handlers[name] = h
}

// Off removes the handler for the named event, making the morph ignore it
// again.
func (m *Morph) Off(name EventName) {
	delete(m.handlers, name)
}

// Handles reports whether the morph has a handler registered for the named
// event. This is the capability probe the Hand uses before dispatching.
func (m *Morph) Handles(name EventName) bool {
	return m.handlers[name] != nil
}

// receive delivers evt to this morph's handler for evt.Name, if any.
// Reports whether a handler was present. A panicking handler is logged and
// contained; it still counts as handled.
func (m *Morph) receive(evt Event) bool {
	h := m.handlers[evt.Name]
	if h == nil {
		return false
	}
	evt.Target = m
	protect(string(evt.Name), func() { h(evt) })
	return true
}

// Escalate forwards evt up the owner chain until an ancestor handles it.
// Bubbling is strictly opt-in: the engine never escalates on its own, a
// handler that wants its owner to see the event calls Escalate itself.
func (m *Morph) Escalate(evt Event) {
	for p := m.Parent; p != nil; p = p.Parent {
		if p.receive(evt) {
			return
		}
	}
}
