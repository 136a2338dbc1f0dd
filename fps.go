package morph

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSMorph returns a small overlay morph showing the current frame and
// tick rates. Add it to a world (typically in a corner) while tuning; it
// refreshes itself a few times a second and stays out of the way of
// interaction.
func NewFPSMorph() *Morph {
	m := NewMorph("fps")
	m.SetBounds(Rect{0, 0, 96, 16})
	m.Color = Color{0, 0, 0, 0.5}
	m.IsDraggable = false
	m.FPS = 4
	m.OnRender = func(img *ebiten.Image) {
		img.Fill(m.Color.toRGBA())
		ebitenutil.DebugPrint(img, fmt.Sprintf("%0.0f fps %0.0f tps",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	m.OnStep = func() {
		m.Rerender()
	}
	return m
}
