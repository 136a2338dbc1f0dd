package morph

import "github.com/hajimehoshi/ebiten/v2"

// The world consumes abstract input events rather than polling a device
// directly. The driver loop in run.go translates live ebiten input into
// these events; tests and scripts enqueue them synthetically through the
// same API, which is what makes interaction reproducible.

type inputKind uint8

const (
	evPointerDown inputKind = iota
	evPointerUp
	evPointerMove
	evPointerScroll
	evKeyDown
	evKeyUp
	evKeyPress
	evResize
	evDropImage
	evDropSVG
	evDropAudio
	evDropText
	evDropBinary
	evBeginBulkDrop
	evEndBulkDrop
)

type inputEvent struct {
	kind   inputKind
	pos    Point
	button Button
	delta  Point
	key    KeyEvent
	bounds Rect
	image  *ebiten.Image
	text   string
	data   []byte
	name   string
	mime   string
}

func (w *World) enqueue(evt inputEvent) {
	w.queue = append(w.queue, evt)
}

// PointerDown queues a button press at pos.
func (w *World) PointerDown(pos Point, button Button) {
	w.enqueue(inputEvent{kind: evPointerDown, pos: pos, button: button})
}

// PointerUp queues a button release at pos.
func (w *World) PointerUp(pos Point, button Button) {
	w.enqueue(inputEvent{kind: evPointerUp, pos: pos, button: button})
}

// PointerMove queues a pointer motion to pos. Consecutive queued motions are
// coalesced into the last one when the tick drains the queue.
func (w *World) PointerMove(pos Point) {
	w.enqueue(inputEvent{kind: evPointerMove, pos: pos})
}

// PointerScroll queues a scroll wheel motion at pos. The delta is in raw
// wheel units; the settings' MouseScrollAmount scales it before dispatch.
func (w *World) PointerScroll(pos Point, delta Point) {
	w.enqueue(inputEvent{kind: evPointerScroll, pos: pos, delta: delta})
}

// KeyDown queues a key press for the focused morph.
func (w *World) KeyDown(evt KeyEvent) {
	w.enqueue(inputEvent{kind: evKeyDown, key: evt})
}

// KeyUp queues a key release for the focused morph.
func (w *World) KeyUp(evt KeyEvent) {
	w.enqueue(inputEvent{kind: evKeyUp, key: evt})
}

// KeyPress queues a typed character for the focused morph.
func (w *World) KeyPress(evt KeyEvent) {
	w.enqueue(inputEvent{kind: evKeyPress, key: evt})
}

// WindowResized queues a world resize to newBounds.
func (w *World) WindowResized(newBounds Rect) {
	w.enqueue(inputEvent{kind: evResize, bounds: newBounds})
}

// DropImage queues an externally dropped image for the morph under the
// pointer.
func (w *World) DropImage(img *ebiten.Image, name string) {
	w.enqueue(inputEvent{kind: evDropImage, image: img, name: name})
}

// DropSVG queues externally dropped SVG markup.
func (w *World) DropSVG(markup string, name string) {
	w.enqueue(inputEvent{kind: evDropSVG, text: markup, name: name})
}

// DropAudio queues externally dropped audio data.
func (w *World) DropAudio(data []byte, name string) {
	w.enqueue(inputEvent{kind: evDropAudio, data: data, name: name})
}

// DropText queues externally dropped plain text.
func (w *World) DropText(text string) {
	w.enqueue(inputEvent{kind: evDropText, text: text})
}

// DropBinary queues an externally dropped file of arbitrary type.
func (w *World) DropBinary(data []byte, name, mime string) {
	w.enqueue(inputEvent{kind: evDropBinary, data: data, name: name, mime: mime})
}

// BeginBulkDrop announces that a batch of content drops is about to arrive,
// so the receiving morph can suspend per-item work until EndBulkDrop.
func (w *World) BeginBulkDrop() {
	w.enqueue(inputEvent{kind: evBeginBulkDrop})
}

// EndBulkDrop closes a batch opened with BeginBulkDrop.
func (w *World) EndBulkDrop() {
	w.enqueue(inputEvent{kind: evEndBulkDrop})
}

// processEvents drains the queue accumulated since the last tick and feeds
// each event to the hand or the keyboard router. Events enqueued by handlers
// during the drain run on the next tick.
func (w *World) processEvents() {
	if len(w.queue) == 0 {
		return
	}
	events := w.queue
	w.queue = nil
	for i := 0; i < len(events); i++ {
		evt := events[i]
		if evt.kind == evPointerMove {
			for i+1 < len(events) && events[i+1].kind == evPointerMove {
				i++
				evt = events[i]
			}
		}
		w.processInputEvent(evt)
	}
}

func (w *World) processInputEvent(evt inputEvent) {
	switch evt.kind {
	case evPointerDown:
		w.Hand.processDown(evt.pos, evt.button)
	case evPointerUp:
		w.Hand.processUp(evt.pos, evt.button)
	case evPointerMove:
		w.Hand.processMove(evt.pos)
	case evPointerScroll:
		w.Hand.processScroll(evt.pos, evt.delta)
	case evKeyDown:
		w.processKeyDown(evt.key)
	case evKeyUp:
		w.processKeyUp(evt.key)
	case evKeyPress:
		w.processKeyPress(evt.key)
	case evResize:
		w.Resize(evt.bounds)
	case evDropImage:
		w.Hand.processContentDrop(Event{Name: DroppedImage, Image: evt.image, FileName: evt.name})
	case evDropSVG:
		w.Hand.processContentDrop(Event{Name: DroppedSVG, Text: evt.text, FileName: evt.name})
	case evDropAudio:
		w.Hand.processContentDrop(Event{Name: DroppedAudio, Data: evt.data, FileName: evt.name})
	case evDropText:
		w.Hand.processContentDrop(Event{Name: DroppedText, Text: evt.text})
	case evDropBinary:
		w.Hand.processContentDrop(Event{Name: DroppedBinary, Data: evt.data, FileName: evt.name, MIME: evt.mime})
	case evBeginBulkDrop:
		w.Hand.processContentDrop(Event{Name: BeginBulkDrop})
	case evEndBulkDrop:
		w.Hand.processContentDrop(Event{Name: EndBulkDrop})
	}
}

// InjectClick queues a full press and release at pos, producing a click on
// the morph there once the next tick runs.
func (w *World) InjectClick(pos Point, button Button) {
	w.PointerDown(pos, button)
	w.PointerUp(pos, button)
}

// InjectDrag queues a press at from, a motion to to, and a release,
// producing a grab and drop once a tick consumes them. The motion must
// exceed the settings' grab threshold for the grab to initiate.
func (w *World) InjectDrag(from, to Point, button Button) {
	w.PointerDown(from, button)
	w.PointerMove(to)
	w.PointerUp(to, button)
}
