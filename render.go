package morph

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Draw runs the redraw phase: it collects the damage accumulated during the
// tick, condenses it into disjoint rectangles, and repaints exactly those
// regions back to front. With no pending damage it leaves the screen alone,
// which is what makes an idle world cheap.
func (w *World) Draw(screen *ebiten.Image) {
	rects := w.damage.collectAndClear()
	if rects == nil {
		return
	}
	var stats frameStats
	var start time.Time
	if w.stats {
		stats.damageRects = len(rects)
		start = time.Now()
	}
	for _, r := range rects {
		area := r.Intersect(w.bounds)
		if area.IsEmpty() {
			continue
		}
		w.Morph.fullDrawOn(screen, area, &stats)
		for _, grabbed := range w.Hand.carrier.children {
			grabbed.fullDrawOn(screen, area, &stats)
		}
	}
	if w.stats {
		stats.renderTime = time.Since(start)
		logStats(stats)
	}
}

// fullDrawOn paints this morph and its subtree onto screen, restricted to
// area. Children paint after (on top of) their parent, in child-list order,
// so the last child ends up topmost. An invisible morph hides its whole
// subtree.
func (m *Morph) fullDrawOn(screen *ebiten.Image, area Rect, stats *frameStats) {
	if !m.IsVisible {
		return
	}
	m.drawOn(screen, area, stats)
	for _, child := range m.children {
		child.fullDrawOn(screen, area, stats)
	}
}

// drawOn paints just this morph's own shape, clipped to area.
func (m *Morph) drawOn(screen *ebiten.Image, area Rect, stats *frameStats) {
	part := m.bounds.Intersect(area)
	if part.IsEmpty() {
		return
	}
	img := m.shapeImage()
	if img == nil {
		return
	}
	clip := screen.SubImage(part.toImageRect()).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(m.bounds.X, m.bounds.Y)
	clip.DrawImage(img, op)
	if stats != nil {
		stats.morphsDrawn++
	}
	if w := m.World(); w != nil && w.Settings.ShowHoles {
		m.drawHolesOn(clip, area)
	}
}

// drawHolesOn tints the morph's holes translucent red, an inspection aid
// toggled by the ShowHoles setting.
func (m *Morph) drawHolesOn(screen *ebiten.Image, area Rect) {
	origin := m.bounds.Origin()
	for _, hole := range m.Holes {
		r := hole.Translate(origin.X, origin.Y).Intersect(m.bounds).Intersect(area)
		if r.IsEmpty() {
			continue
		}
		tint := screen.SubImage(r.toImageRect()).(*ebiten.Image)
		tint.Fill(color.RGBA{R: 0xff, A: 0x40})
	}
}

// shapeImage returns the morph's rendered shape, rendering it first when
// needed. A caching morph (IsCachingImage) keeps its shape until Rerender; a
// plain-fill morph reuses its last raster while clean; a morph with an
// OnRender hook and no cache renders fresh on every repaint.
func (m *Morph) shapeImage() *ebiten.Image {
	if m.IsCachingImage && !m.cacheDirty && m.cachedImage != nil {
		return m.cachedImage
	}
	wpx := int(math.Ceil(m.bounds.Width))
	hpx := int(math.Ceil(m.bounds.Height))
	if wpx < 1 || hpx < 1 {
		return nil
	}
	if m.OnRender == nil && !m.cacheDirty && m.raster != nil {
		if b := m.raster.Bounds(); b.Dx() == wpx && b.Dy() == hpx {
			return m.raster
		}
	}
	img := ebiten.NewImage(wpx, hpx)
	if m.OnRender != nil {
		hook := m.OnRender
		protect("render", func() { hook(img) })
	} else {
		img.Fill(m.Color.toRGBA())
	}
	m.raster = img
	m.cacheDirty = false
	if m.IsCachingImage {
		m.cachedImage = img
	}
	return img
}

// isTransparentAt reports whether the world point p lands on a fully
// transparent pixel of the morph's rendered shape. Free-form morphs use it
// to let hits fall through their transparent pixels. The shape is rendered
// on demand so hit testing works before the first repaint; a caching morph's
// stale raster answers until Rerender is called.
func (m *Morph) isTransparentAt(p Point) bool {
	if !m.bounds.ContainsPoint(p) {
		return true
	}
	if m.raster == nil {
		if m.shapeImage() == nil {
			return true
		}
	}
	local := p.Sub(m.bounds.Origin())
	x := int(local.X)
	y := int(local.Y)
	b := m.raster.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return true
	}
	_, _, _, a := m.raster.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return a == 0
}
