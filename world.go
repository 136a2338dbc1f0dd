package morph

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// World is the root morph bound to one render surface. It owns the Hand, the
// keyboard focus reference, the animation queue and the pending damage set,
// and runs the per-frame control loop.
//
// A world is strictly single-threaded: input handlers, step hooks, animation
// callbacks and rendering all run sequentially inside one tick, so user code
// mutating the tree from inside a callback always sees it in a consistent
// state. The flip side is cooperative scheduling: a slow callback delays
// every later phase of the same tick, so keep hooks short.
//
// Multiple worlds are fully independent; nothing is shared between them.
type World struct {
	Morph

	// Hand is the world's pointer proxy; there is exactly one per world.
	Hand *Hand

	// Settings controls interaction thresholds and sizes. Swap it wholesale
	// to switch profiles (see StandardSettings, TouchScreenSettings).
	Settings Settings

	// IsDevMode selects the developer context menu over the user one when a
	// morph is right-clicked (see SetDevMode).
	IsDevMode bool

	// OnContextMenu, when set, is called with the menu object a right-click
	// produced. Menus are opaque to the engine; building the widgetry that
	// displays one is the embedder's job.
	OnContextMenu func(target *Morph, menu any, at Point)

	keyboardFocus *Morph
	currentKey    *KeyEvent

	animations []*Animation
	damage     damageList
	queue      []inputEvent

	// clock is virtual world time in seconds, advanced by a fixed dt each
	// tick. Step throttles and double-click timing run on this clock, which
	// keeps interaction deterministic under a scripted event feed.
	clock float64

	stats   bool
	stepBuf []*Morph
}

// NewWorld creates a world covering the given extent (clamped to at least
// 1x1) with its Hand and standard settings. The whole surface is marked
// damaged so the first frame paints everything.
func NewWorld(width, height float64) *World {
	w := &World{
		Morph: Morph{
			ID:           nextMorphID(),
			Name:         "world",
			bounds:       Rect{0, 0, math.Max(width, 1), math.Max(height, 1)},
			Color:        Color{0.8, 0.8, 0.8, 1},
			IsVisible:    true,
			AcceptsDrops: true,
			cacheDirty:   true,
			lastStepped:  -math.MaxFloat64,
		},
		Settings: StandardSettings(),
	}
	w.Morph.worldPtr = w
	w.Hand = newHand(w)
	w.damage.add(w.bounds)
	return w
}

// SetDevMode switches the world between development and user mode and
// enables destroyed-morph checks in tree operations.
func (w *World) SetDevMode(enabled bool) {
	w.IsDevMode = enabled
	devChecksEnabled = enabled
}

// SetFrameStats enables per-frame redraw statistics on stderr.
func (w *World) SetFrameStats(enabled bool) {
	w.stats = enabled
}

// Update runs one scheduler tick: drain queued input, step animations, then
// step morphs. The redraw phase is Draw, which the presenter calls after
// Update each display cycle.
func (w *World) Update() {
	dt := 1.0 / float64(ebiten.TPS())
	w.clock += dt
	w.processEvents()
	w.stepAnimations(dt)
	w.stepMorphs()
}

// --- Animation queue ---

// AddAnimation registers an animation to be stepped once per tick. The queue
// owns the animation: it is dropped after it completes.
func (w *World) AddAnimation(a *Animation) {
	if a == nil {
		return
	}
	w.animations = append(w.animations, a)
}

// StopAnimation deactivates a and removes it from the queue without setting
// its destination value or firing its completion callback.
func (w *World) StopAnimation(a *Animation) {
	a.Stop()
	for i, queued := range w.animations {
		if queued == a {
			w.animations = append(w.animations[:i], w.animations[i+1:]...)
			return
		}
	}
}

// stepAnimations advances every registered animation by dt seconds and drops
// completed ones. Animations registered from inside a completion callback
// start stepping on the next tick.
func (w *World) stepAnimations(dt float64) {
	snapshot := w.animations
	for _, a := range snapshot {
		a.Step(dt)
	}
	active := w.animations[:0]
	for _, a := range w.animations {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	for i := len(active); i < len(w.animations); i++ {
		w.animations[i] = nil
	}
	w.animations = active
}

// stepMorphs runs the step hooks of every morph in the tree whose own
// throttle interval has elapsed. The set of stepping morphs is snapshotted
// before any hook runs, so hooks may freely attach and detach morphs without
// upsetting the traversal.
func (w *World) stepMorphs() {
	w.stepBuf = w.stepBuf[:0]
	w.Morph.ForAllChildren(func(m *Morph) {
		if m.OnStep != nil {
			w.stepBuf = append(w.stepBuf, m)
		}
	})
	for _, m := range w.stepBuf {
		if !m.destroyed && m.World() == w {
			m.stepFrame(w.clock)
		}
	}
}

// --- Keyboard focus ---

// FocusKeyboard makes m the world's keyboard focus; key events are forwarded
// only to it. Pass nil to drop focus. The reference is weak: destroying or
// detaching the focused morph clears it and later key events are silently
// dropped.
func (w *World) FocusKeyboard(m *Morph) {
	w.keyboardFocus = m
}

// KeyboardFocus returns the currently focused morph, or nil.
func (w *World) KeyboardFocus() *Morph {
	return w.keyboardFocus
}

// CurrentKey returns the key currently held down, if any. Mouse handlers use
// it to implement shift-click and similar combined interactions.
func (w *World) CurrentKey() (KeyEvent, bool) {
	if w.currentKey == nil {
		return KeyEvent{}, false
	}
	return *w.currentKey, true
}

func (w *World) focusTarget() *Morph {
	if w.keyboardFocus == nil {
		return nil
	}
	if w.keyboardFocus.IsDestroyed() {
		w.keyboardFocus = nil
		return nil
	}
	return w.keyboardFocus
}

func (w *World) processKeyDown(evt KeyEvent) {
	key := evt
	w.currentKey = &key
	if focus := w.focusTarget(); focus != nil && focus.OnKeyDown != nil {
		protect("processKeyDown", func() { focus.OnKeyDown(evt) })
	}
}

func (w *World) processKeyUp(evt KeyEvent) {
	w.currentKey = nil
	if focus := w.focusTarget(); focus != nil && focus.OnKeyUp != nil {
		protect("processKeyUp", func() { focus.OnKeyUp(evt) })
	}
}

func (w *World) processKeyPress(evt KeyEvent) {
	if focus := w.focusTarget(); focus != nil && focus.OnKeyPress != nil {
		protect("processKeyPress", func() { focus.OnKeyPress(evt) })
	}
}

// --- Resize ---

// Resize adjusts the world's extent, keeping its origin. Degenerate
// dimensions are clamped to 1, never propagated. The whole surface is
// damaged and every top-level morph with an OnWorldResize hook is notified
// of the new bounds.
func (w *World) Resize(newBounds Rect) {
	clamped := Rect{
		X:      newBounds.X,
		Y:      newBounds.Y,
		Width:  math.Max(newBounds.Width, 1),
		Height: math.Max(newBounds.Height, 1),
	}
	if clamped == w.bounds {
		return
	}
	w.bounds = clamped
	w.Rerender()
	for _, child := range w.Children() {
		if child.OnWorldResize != nil {
			hook := child.OnWorldResize
			protect("reactToWorldResize", func() { hook(clamped) })
		}
	}
}

// --- Weak reference invalidation ---

// clearRefsTo drops every weak reference (keyboard focus, mouse-over, press
// target, grab) pointing at sub or one of its descendants. Called whenever a
// subtree is detached or destroyed.
func (w *World) clearRefsTo(sub *Morph) {
	if w.keyboardFocus != nil && isAncestor(sub, w.keyboardFocus) {
		w.keyboardFocus = nil
	}
	if w.Hand != nil {
		w.Hand.clearRefsTo(sub)
	}
}
