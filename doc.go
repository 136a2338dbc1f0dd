// Package morph is a retained-mode interaction and redraw engine in the
// Morphic tradition, built on ebiten.
//
// A World owns a tree of Morphs: every on-screen thing, from the backdrop to
// the smallest widget, is a Morph. There is a single concrete morph type;
// behavior is attached per instance through optional hook fields and an
// event handler table rather than through subclassing. Children are ordered
// back to front, so the last child of a morph is the topmost of its
// siblings.
//
// The world runs a cooperative tick with four phases in fixed order: queued
// input is dispatched, animations are stepped, morph step hooks run, and
// finally only the regions reported damaged during the tick are repainted.
// Everything happens on one goroutine; handlers and hooks may freely mutate
// the tree but must return promptly, since a slow callback stalls the whole
// world.
//
// Pointer interaction is mediated by the Hand, which hit-tests the tree,
// synthesizes clicks, double clicks, enter and leave events, and implements
// grab and drop: dragging a draggable morph detaches it into the hand,
// dropping consults the target's drop-acceptance hooks and either attaches
// the morph there or returns it where it came from.
//
// Morphs opt into events by registering handlers (see Morph.On); events are
// never bubbled automatically, a handler escalates to its owner explicitly
// with Escalate. References the world keeps into the tree, such as the
// keyboard focus and the mouse-over morph, are weak: destroying a morph
// clears them rather than leaving them dangling.
//
// Use Run (or wrap a World in a Game) to drive a world from a window;
// tests and scripts instead enqueue synthetic events through the same
// input API and call World.Update directly.
package morph
