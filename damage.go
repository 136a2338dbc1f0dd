package morph

// damageList accumulates the regions that must be redrawn before the next
// present. Rectangles are in world coordinates and get coalesced
// opportunistically: a rectangle already covered by a pending one is
// dropped on arrival, and overlapping rectangles are merged when the list
// is collected.
type damageList struct {
	rects []Rect
}

// add appends r to the pending set. Empty rectangles are ignored; a
// rectangle contained in an existing entry is dropped, and existing entries
// contained in r are replaced by it.
func (d *damageList) add(r Rect) {
	if r.IsEmpty() {
		return
	}
	for i, existing := range d.rects {
		if containsRect(existing, r) {
			return
		}
		if containsRect(r, existing) {
			d.rects[i] = r
			d.compact(i)
			return
		}
	}
	d.rects = append(d.rects, r)
}

// compact removes entries after index i that are covered by d.rects[i].
func (d *damageList) compact(i int) {
	keeper := d.rects[i]
	out := d.rects[:i+1]
	for _, r := range d.rects[i+1:] {
		if !containsRect(keeper, r) {
			out = append(out, r)
		}
	}
	for j := len(out); j < len(d.rects); j++ {
		d.rects[j] = Rect{}
	}
	d.rects = out
}

// collectAndClear merges overlapping pending rectangles and returns the
// result, resetting the list to empty. Called exactly once per frame by the
// redraw phase. Returns nil on a frame with no damage.
func (d *damageList) collectAndClear() []Rect {
	if len(d.rects) == 0 {
		return nil
	}
	condensed := condense(d.rects)
	d.rects = d.rects[:0]
	return condensed
}

// pending reports whether any damage is waiting to be collected.
func (d *damageList) pending() bool {
	return len(d.rects) > 0
}

// condense repeatedly merges intersecting rectangles until no two overlap.
// The union of the result always covers the union of the input; merging can
// only grow coverage, never shrink it.
func condense(rects []Rect) []Rect {
	out := make([]Rect, 0, len(rects))
	out = append(out, rects...)
	merged := true
	for merged {
		merged = false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Intersects(out[j]) {
					out[i] = out[i].Union(out[j])
					out[j] = out[len(out)-1]
					out = out[:len(out)-1]
					merged = true
					break
				}
			}
		}
	}
	return out
}

// containsRect reports whether outer fully covers inner.
func containsRect(outer, inner Rect) bool {
	return inner.X >= outer.X &&
		inner.Y >= outer.Y &&
		inner.X+inner.Width <= outer.X+outer.Width &&
		inner.Y+inner.Height <= outer.Y+outer.Height
}
