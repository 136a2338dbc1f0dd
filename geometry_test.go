package morph

import "testing"

func TestRectContainsPoint(t *testing.T) {
	r := Rect{10, 10, 20, 20}
	if !r.ContainsPoint(Point{10, 10}) {
		t.Error("origin corner should be inside")
	}
	if r.ContainsPoint(Point{30, 30}) {
		t.Error("far corner is exclusive")
	}
	if r.ContainsPoint(Point{5, 15}) {
		t.Error("point left of rect should be outside")
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 50, 50}
	b := Rect{25, 25, 50, 50}
	got := a.Intersect(b)
	if got != (Rect{25, 25, 25, 25}) {
		t.Errorf("Intersect = %v, want 25x25 at (25,25)", got)
	}
	if !a.Intersect(Rect{100, 100, 10, 10}).IsEmpty() {
		t.Error("disjoint intersect should be empty")
	}
}

func TestRectUnionCoversBoth(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{20, 30, 10, 10}
	u := a.Union(b)
	if !containsRect(u, a) || !containsRect(u, b) {
		t.Errorf("Union %v should cover both inputs", u)
	}
}

func TestRectSpreadCovers(t *testing.T) {
	r := Rect{10.3, 10.7, 19.2, 19.9}
	s := r.Spread()
	if !containsRect(s, r) {
		t.Errorf("Spread %v should cover %v", s, r)
	}
	if s.X != 10 || s.Y != 10 {
		t.Errorf("Spread origin = (%v,%v), want floored (10,10)", s.X, s.Y)
	}
}

func TestPointDistance(t *testing.T) {
	d := Point{0, 0}.DistanceTo(Point{3, 4})
	if d != 5 {
		t.Errorf("DistanceTo = %v, want 5", d)
	}
}

func TestColorMixed(t *testing.T) {
	black := Color{0, 0, 0, 1}
	white := Color{1, 1, 1, 1}
	mid := black.Mixed(0.5, white)
	if mid.R != 0.5 || mid.G != 0.5 || mid.B != 0.5 {
		t.Errorf("Mixed = %v, want mid gray", mid)
	}
}
