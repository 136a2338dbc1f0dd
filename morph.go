package morph

import (
	"errors"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrCycle is returned by Add and AddBack when attaching the child would make
// a morph its own ancestor.
var ErrCycle = errors.New("morph: adding child would create a cycle")

// morphIDCounter is a plain counter; worlds are single-threaded.
var morphIDCounter uint32

func nextMorphID() uint32 {
	morphIDCounter++
	return morphIDCounter
}

// Morph is a node in the visual tree: the unit of drawing and interaction.
// A single flat struct is used for every kind of morph; behavior is attached
// per instance through the optional hook fields and the event handler table
// (see On) instead of subclassing.
//
// A morph owns its children exclusively. The parent pointer is a non-owning
// back-reference, as are the world's focus, mouse-over and grab references,
// all of which are cleared when their target is destroyed.
type Morph struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy. children are ordered back to front: the last child is
	// topmost in z-order.
	Parent   *Morph
	children []*Morph

	bounds Rect

	// Visual & interactive attributes
	Color          Color
	IsVisible      bool
	IsDraggable    bool
	IsTemplate     bool
	AcceptsDrops   bool
	IsFreeForm     bool // pixel-perfect hit testing against the rendered shape
	IsCachingImage bool // keep the rendered shape until Rerender is called

	// Holes are local-space rectangles excluded from hit testing; events
	// inside a hole fall through to the morph underneath.
	Holes []Rect

	// FPS throttles the step hook: a morph with FPS 10 steps at most ten
	// times per second. Zero steps every frame.
	FPS float64

	// CustomContextMenu, when non-nil, is used as the context menu for this
	// morph regardless of the world's mode. The engine treats menus as
	// opaque values; presenting one is the embedder's job (see
	// World.OnContextMenu).
	CustomContextMenu any

	// Optional hooks. A nil hook selects the default behavior; absence is a
	// capability probe, not an error.
	OnStep           func()
	OnRender         func(*ebiten.Image)
	OnFixLayout      func()
	OnFixHolesLayout func()
	OnWorldResize    func(Rect)

	OnKeyDown  func(KeyEvent)
	OnKeyUp    func(KeyEvent)
	OnKeyPress func(KeyEvent)

	WantsDropOf         func(*Morph) bool
	JustDropped         func(*Hand)
	ReactToDropOf       func(dropped *Morph, hand *Hand)
	ReactToGrabOf       func(grabbed *Morph)
	PrepareToBeGrabbed  func(*Hand)
	SelectForEdit       func() *Morph
	ReactToTemplateCopy func()
	UpdateReferences    func(map[*Morph]*Morph)
	DevelopersMenu      func() any
	UserMenu            func() any

	handlers map[EventName]Handler

	// Rendering state
	cachedImage *ebiten.Image // shape cache, valid while !cacheDirty
	raster      *ebiten.Image // most recently rendered shape, for pixel tests
	cacheDirty  bool

	// Stepping state, in world-clock seconds.
	lastStepped float64

	worldPtr  *World // set only on root morphs owned by a World (its embedded Morph, the hand carrier)
	destroyed bool
}

// NewMorph creates a morph with morphic's defaults: visible, draggable,
// medium gray, 50x40 at the origin.
func NewMorph(name string) *Morph {
	return &Morph{
		ID:          nextMorphID(),
		Name:        name,
		bounds:      Rect{0, 0, 50, 40},
		Color:       Color{0.31, 0.31, 0.31, 1},
		IsVisible:   true,
		IsDraggable: true,
		cacheDirty:  true,
		lastStepped: -math.MaxFloat64,
	}
}

// --- Tree manipulation ---

// Add attaches child as this morph's topmost child and damages the child's
// region. If child already has a parent it is detached from it first. Returns
// ErrCycle, before any mutation, if child is this morph or one of its
// ancestors.
func (m *Morph) Add(child *Morph) error {
	return m.addChild(child, false)
}

// AddBack attaches child underneath all existing children (bottom of the
// z-order). Same reparenting and cycle behavior as Add.
func (m *Morph) AddBack(child *Morph) error {
	return m.addChild(child, true)
}

func (m *Morph) addChild(child *Morph, atBack bool) error {
	if child == nil {
		return errors.New("morph: cannot add nil child")
	}
	if isAncestor(child, m) {
		return ErrCycle
	}
	if devChecksEnabled {
		devCheckDestroyed(m, "Add (parent)")
		devCheckDestroyed(child, "Add (child)")
	}
	if child.Parent != nil {
		child.FullChanged()
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = m
	if atBack {
		m.children = append(m.children, nil)
		copy(m.children[1:], m.children)
		m.children[0] = child
	} else {
		m.children = append(m.children, child)
	}
	child.FullChanged()
	return nil
}

// RemoveChild detaches child from this morph, damages its prior region, and
// clears any weak references (keyboard focus, mouse-over, grab) pointing at
// the detached subtree. No-op if child is not one of m's children.
func (m *Morph) RemoveChild(child *Morph) {
	if child == nil || child.Parent != m {
		return
	}
	child.FullChanged()
	w := m.World()
	m.removeChildByPtr(child)
	child.Parent = nil
	if w != nil {
		w.clearRefsTo(child)
	}
}

// RemoveFromParent detaches this morph from its parent.
// No-op if this morph has no parent.
func (m *Morph) RemoveFromParent() {
	if m.Parent != nil {
		m.Parent.RemoveChild(m)
	}
}

// removeChildByPtr removes child from m.children without clearing
// child.Parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (m *Morph) removeChildByPtr(child *Morph) {
	for i, c := range m.children {
		if c == child {
			copy(m.children[i:], m.children[i+1:])
			m.children[len(m.children)-1] = nil
			m.children = m.children[:len(m.children)-1]
			return
		}
	}
}

// Children returns the child list, ordered back to front.
// The returned slice MUST NOT be mutated by the caller.
func (m *Morph) Children() []*Morph {
	return m.children
}

// NumChildren returns the number of children.
func (m *Morph) NumChildren() int {
	return len(m.children)
}

// ChildAt returns the child at the given index (0 = bottom of the z-order).
func (m *Morph) ChildAt(index int) *Morph {
	return m.children[index]
}

// MoveToFront makes this morph the topmost among its siblings.
func (m *Morph) MoveToFront() {
	p := m.Parent
	if p == nil || len(p.children) < 2 || p.children[len(p.children)-1] == m {
		return
	}
	p.removeChildByPtr(m)
	p.children = append(p.children, m)
	m.FullChanged()
}

// Destroy detaches this morph, damages its prior region, clears all weak
// references into the subtree, and marks the whole subtree destroyed.
// Destroying a morph twice is a no-op.
func (m *Morph) Destroy() {
	if m.destroyed {
		return
	}
	m.FullChanged()
	w := m.World()
	if m.Parent != nil {
		m.Parent.removeChildByPtr(m)
		m.Parent = nil
	}
	if w != nil {
		w.clearRefsTo(m)
	}
	m.markDestroyed()
}

func (m *Morph) markDestroyed() {
	m.destroyed = true
	m.cachedImage = nil
	m.raster = nil
	for _, child := range m.children {
		child.markDestroyed()
	}
}

// IsDestroyed reports whether this morph has been destroyed.
func (m *Morph) IsDestroyed() bool {
	return m.destroyed
}

// isAncestor reports whether candidate is node or one of node's ancestors.
func isAncestor(candidate, node *Morph) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// Root returns the top of this morph's owner chain.
func (m *Morph) Root() *Morph {
	r := m
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// World returns the world this morph is part of, or nil if the morph is not
// attached to one.
func (m *Morph) World() *World {
	return m.Root().worldPtr
}

// ForAllChildren visits this morph and every descendant, depth first,
// parents before children. The visit order is captured before the first call
// at each level, so a visitor may detach the morph it is handed.
func (m *Morph) ForAllChildren(visit func(*Morph)) {
	visit(m)
	for _, child := range slices.Clone(m.children) {
		child.ForAllChildren(visit)
	}
}

// --- Geometry ---

// Bounds returns the morph's bounding rectangle in world coordinates.
func (m *Morph) Bounds() Rect {
	return m.bounds
}

// FullBounds returns the union of the morph's bounds with all of its
// visible children's full bounds.
func (m *Morph) FullBounds() Rect {
	full := m.bounds
	for _, child := range m.children {
		if child.IsVisible {
			full = full.Union(child.FullBounds())
		}
	}
	return full
}

// Position returns the morph's top-left corner.
func (m *Morph) Position() Point {
	return m.bounds.Origin()
}

// Extent returns the morph's width and height.
func (m *Morph) Extent() Point {
	return m.bounds.Extent()
}

// Width returns the morph's width.
func (m *Morph) Width() float64 { return m.bounds.Width }

// Height returns the morph's height.
func (m *Morph) Height() float64 { return m.bounds.Height }

// Center returns the morph's center point.
func (m *Morph) Center() Point {
	return m.bounds.Center()
}

// SetPosition moves the morph (and its whole subtree) so its top-left corner
// is at p.
func (m *Morph) SetPosition(p Point) {
	m.MoveBy(p.Sub(m.bounds.Origin()))
}

// SetCenter moves the morph so its center is at p.
func (m *Morph) SetCenter(p Point) {
	m.MoveBy(p.Sub(m.bounds.Center()))
}

// MoveBy shifts the morph and all of its children by delta, damaging both the
// vacated and the newly covered regions.
func (m *Morph) MoveBy(delta Point) {
	if delta.X == 0 && delta.Y == 0 {
		return
	}
	m.FullChanged()
	m.silentMoveBy(delta)
	m.FullChanged()
}

func (m *Morph) silentMoveBy(delta Point) {
	m.bounds = m.bounds.Translate(delta.X, delta.Y)
	for _, child := range m.children {
		child.silentMoveBy(delta)
	}
}

// SetExtent resizes the morph, invokes its layout hooks and invalidates its
// shape. Layout hooks must not call SetExtent on the morph they lay out,
// which would recurse forever; they adjust bounds through SetBounds instead.
func (m *Morph) SetExtent(ext Point) {
	if ext.X == m.bounds.Width && ext.Y == m.bounds.Height {
		return
	}
	m.Changed()
	m.bounds.Width = math.Max(ext.X, 0)
	m.bounds.Height = math.Max(ext.Y, 0)
	m.fixLayout()
	m.Rerender()
}

// SetBounds sets the morph's bounding rectangle directly, damaging both the
// old and the new region. Unlike SetExtent it does not run layout hooks, so
// it is safe to call from inside OnFixLayout.
func (m *Morph) SetBounds(r Rect) {
	if r == m.bounds {
		return
	}
	m.Changed()
	m.bounds = r
	m.Rerender()
}

// fixLayout runs the morph's layout hooks after a size change.
func (m *Morph) fixLayout() {
	if m.OnFixLayout != nil {
		protect("fixLayout", m.OnFixLayout)
	}
	if m.OnFixHolesLayout != nil {
		protect("fixHolesLayout", m.OnFixHolesLayout)
	}
}

// --- Visibility & appearance ---

// Hide makes the morph (and thereby its subtree) invisible and untouchable.
func (m *Morph) Hide() {
	if !m.IsVisible {
		return
	}
	m.IsVisible = false
	m.FullChanged()
}

// Show makes the morph visible again.
func (m *Morph) Show() {
	if m.IsVisible {
		return
	}
	m.IsVisible = true
	m.FullChanged()
}

// SetColor changes the morph's color and invalidates its rendered shape.
func (m *Morph) SetColor(c Color) {
	if c == m.Color {
		return
	}
	m.Color = c
	m.Rerender()
}

// Changed adds the morph's current bounds to its world's pending damage.
// Call it after any mutation that alters what the morph looks like on
// screen. Mutations that also move or resize the morph must damage the prior
// region as well; the engine's own mutators (MoveBy, SetBounds, SetExtent)
// do this for you.
func (m *Morph) Changed() {
	if w := m.World(); w != nil {
		w.damage.add(m.bounds.Spread())
	}
}

// FullChanged damages the morph's full bounds, children included.
func (m *Morph) FullChanged() {
	if w := m.World(); w != nil {
		w.damage.add(m.FullBounds().Spread())
	}
}

// Rerender invalidates the morph's cached shape and damages its region.
// A caching morph (IsCachingImage) keeps showing and hit-testing against its
// stale raster until Rerender is called; mutating its appearance without
// calling Rerender is a known hazard, not something the engine detects.
func (m *Morph) Rerender() {
	m.cacheDirty = true
	m.Changed()
}

// --- Hit testing ---

// MorphAt returns the topmost visible morph in this subtree containing p, or
// nil if none does. Children are consulted before their parents, topmost
// sibling first. A morph whose ancestors include an invisible morph is never
// hit. Points inside one of a morph's holes, or on a transparent pixel of a
// free-form morph, fall through.
func (m *Morph) MorphAt(p Point) *Morph {
	if !m.IsVisible {
		return nil
	}
	for i := len(m.children) - 1; i >= 0; i-- {
		if hit := m.children[i].MorphAt(p); hit != nil {
			return hit
		}
	}
	if !m.bounds.ContainsPoint(p) {
		return nil
	}
	if m.isHoleAt(p) {
		return nil
	}
	if m.IsFreeForm && m.isTransparentAt(p) {
		return nil
	}
	return m
}

// fullBoundsMorphAt returns the topmost visible morph in this subtree whose
// full bounds contain p. Used for the mouseEnterBounds/mouseLeaveBounds
// events, which track proximity rather than solid containment.
func (m *Morph) fullBoundsMorphAt(p Point) *Morph {
	if !m.IsVisible {
		return nil
	}
	for i := len(m.children) - 1; i >= 0; i-- {
		if hit := m.children[i].fullBoundsMorphAt(p); hit != nil {
			return hit
		}
	}
	if m.FullBounds().ContainsPoint(p) {
		return m
	}
	return nil
}

// isHoleAt reports whether the world point p falls inside one of the morph's
// holes. Hole rectangles are in local coordinates relative to the morph's
// position.
func (m *Morph) isHoleAt(p Point) bool {
	if len(m.Holes) == 0 {
		return false
	}
	local := p.Sub(m.bounds.Origin())
	for _, hole := range m.Holes {
		if hole.ContainsPoint(local) {
			return true
		}
	}
	return false
}

// --- Duplication ---

// FullCopy deep-clones the morph and its subtree. Handlers and hooks are
// shared with the originals; rendering caches are not. After the whole
// subtree has been cloned, each clone's UpdateReferences hook is invoked
// with the original-to-clone mapping so that cross-references into the
// copied subtree can be rewritten; at clone time the referenced clones may
// not have existed yet.
func (m *Morph) FullCopy() *Morph {
	dict := make(map[*Morph]*Morph)
	c := m.copyTree(dict)
	c.ForAllChildren(func(clone *Morph) {
		if clone.UpdateReferences != nil {
			protect("updateReferences", func() { clone.UpdateReferences(dict) })
		}
	})
	return c
}

func (m *Morph) copyTree(dict map[*Morph]*Morph) *Morph {
	c := &Morph{}
	*c = *m
	c.ID = nextMorphID()
	c.Parent = nil
	c.children = nil
	c.worldPtr = nil
	c.cachedImage = nil
	c.raster = nil
	c.cacheDirty = true
	c.lastStepped = -math.MaxFloat64
	c.Holes = slices.Clone(m.Holes)
	if m.handlers != nil {
		c.handlers = maps.Clone(m.handlers)
	}
	dict[m] = c
	for _, child := range m.children {
		cc := child.copyTree(dict)
		cc.Parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// --- Stepping ---

// stepFrame invokes the morph's step hook if its own throttle interval has
// elapsed. clock is the world's virtual time in seconds.
func (m *Morph) stepFrame(clock float64) {
	if m.OnStep == nil {
		return
	}
	if m.FPS > 0 && clock-m.lastStepped < 1/m.FPS {
		return
	}
	m.lastStepped = clock
	protect("step", m.OnStep)
}

// --- Animation conveniences ---

// GlideTo animates the morph's position to dest over the given duration.
// Easing is selected by morphic name (see EasingNamed); onComplete may be
// nil. The animations are registered with the morph's world; a detached
// morph just jumps to dest.
func (m *Morph) GlideTo(dest Point, duration time.Duration, easing string, onComplete func()) {
	w := m.World()
	if w == nil {
		m.SetPosition(dest)
		if onComplete != nil {
			onComplete()
		}
		return
	}
	pos := m.Position()
	w.AddAnimation(NewAnimation(
		func(v float64) { m.SetPosition(Point{v, m.Position().Y}) },
		func() float64 { return m.Position().X },
		dest.X-pos.X, duration, EasingNamed(easing), onComplete,
	))
	w.AddAnimation(NewAnimation(
		func(v float64) { m.SetPosition(Point{m.Position().X, v}) },
		func() float64 { return m.Position().Y },
		dest.Y-pos.Y, duration, EasingNamed(easing), nil,
	))
}

// FadeTo animates the alpha component of the morph's color to the given
// target in [0, 1].
func (m *Morph) FadeTo(alpha float64, duration time.Duration, easing string, onComplete func()) {
	w := m.World()
	if w == nil {
		m.Color.A = alpha
		m.Rerender()
		if onComplete != nil {
			onComplete()
		}
		return
	}
	w.AddAnimation(NewAnimation(
		func(v float64) {
			m.Color.A = v
			m.Rerender()
		},
		func() float64 { return m.Color.A },
		alpha-m.Color.A, duration, EasingNamed(easing), onComplete,
	))
}

// SlideBackTo glides the morph back to pos and re-attaches it to owner when
// the glide completes. Used to float a rejected drop back to where it came
// from.
func (m *Morph) SlideBackTo(owner *Morph, pos Point, duration time.Duration) {
	m.GlideTo(pos, duration, "quad_out", func() {
		if owner != nil && !owner.IsDestroyed() {
			_ = owner.Add(m)
			if m.JustDropped != nil {
				if w := owner.World(); w != nil {
					protect("justDropped", func() { m.JustDropped(w.Hand) })
				}
			}
		}
	})
}
