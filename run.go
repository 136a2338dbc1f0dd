package morph

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a World to ebiten's game loop. Each ebiten tick it translates
// the live input state into queued pointer and key events, runs one world
// tick, and lets the world repaint its damaged regions.
//
// Embedders that need their own ebiten.Game can instead call PollInput,
// World.Update and World.Draw themselves in the same order.
type Game struct {
	World *World

	cursor   Point
	hasMoved bool
	keyBuf   []ebiten.Key
}

// NewGame wraps w for ebiten.RunGame.
func NewGame(w *World) *Game {
	return &Game{World: w}
}

func (g *Game) Update() error {
	g.PollInput()
	g.World.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.World.Draw(screen)
}

// Layout reports the world's extent as the logical screen size and queues a
// world resize when the window size diverges from it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.World.Bounds()
	if outsideWidth > 0 && outsideHeight > 0 &&
		(float64(outsideWidth) != b.Width || float64(outsideHeight) != b.Height) {
		g.World.WindowResized(Rect{b.X, b.Y, float64(outsideWidth), float64(outsideHeight)})
	}
	return int(b.Width), int(b.Height)
}

var pollButtons = [...]struct {
	ebiten ebiten.MouseButton
	button Button
}{
	{ebiten.MouseButtonLeft, ButtonLeft},
	{ebiten.MouseButtonMiddle, ButtonMiddle},
	{ebiten.MouseButtonRight, ButtonRight},
}

// PollInput samples ebiten's input state and queues the corresponding
// abstract events on the world. Call once per tick, before World.Update.
func (g *Game) PollInput() {
	w := g.World

	x, y := ebiten.CursorPosition()
	pos := Point{float64(x), float64(y)}
	if !g.hasMoved || pos != g.cursor {
		if g.hasMoved {
			w.PointerMove(pos)
		}
		g.cursor = pos
		g.hasMoved = true
	}

	for _, b := range pollButtons {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			w.PointerDown(pos, b.button)
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			w.PointerUp(pos, b.button)
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		w.PointerScroll(pos, Point{dx, dy})
	}

	mods := currentModifiers()
	g.keyBuf = inpututil.AppendJustPressedKeys(g.keyBuf[:0])
	for _, key := range g.keyBuf {
		w.KeyDown(KeyEvent{Key: key, Modifiers: mods})
	}
	g.keyBuf = inpututil.AppendJustReleasedKeys(g.keyBuf[:0])
	for _, key := range g.keyBuf {
		w.KeyUp(KeyEvent{Key: key, Modifiers: mods})
	}
	for _, ch := range ebiten.AppendInputChars(nil) {
		w.KeyPress(KeyEvent{Char: ch, Modifiers: mods})
	}
}

func currentModifiers() Modifiers {
	var mods Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// RunOptions configures the window Run opens.
type RunOptions struct {
	Title      string
	Resizable  bool
	Fullscreen bool
}

// Run opens a window sized to the world and drives it with ebiten's game
// loop until the window closes.
func Run(w *World, opts RunOptions) error {
	b := w.Bounds()
	ebiten.SetWindowSize(int(b.Width), int(b.Height))
	if opts.Title != "" {
		ebiten.SetWindowTitle(opts.Title)
	}
	if opts.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(opts.Fullscreen)
	return ebiten.RunGame(NewGame(w))
}
