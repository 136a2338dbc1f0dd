package morph

import (
	"fmt"
	"os"
	"time"
)

// devChecksEnabled mirrors the most recently set World dev-mode flag so that
// morph operations (which lack a World pointer) can check it cheaply. Only
// valid with a single World; multiple Worlds with differing modes will
// reflect whichever called SetDevMode last.
var devChecksEnabled bool

// protect runs a user callback (step hook, event handler, animation or drop
// hook) and contains any panic it raises: the failure is reported to stderr
// and the current tick continues with the next phase or morph. A runaway
// callback must never stall the world.
func protect(context string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[morph] recovered panic in %s: %v\n", context, r)
		}
	}()
	fn()
}

// frameStats holds per-frame redraw metrics. Only populated when the world's
// stats flag is on.
type frameStats struct {
	damageRects int
	morphsDrawn int
	renderTime  time.Duration
}

// logStats prints redraw stats for one frame to stderr.
func logStats(stats frameStats) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[morph] damage rects: %d | morphs drawn: %d | render: %v\n",
		stats.damageRects, stats.morphsDrawn, stats.renderTime)
}

// devCheckDestroyed panics with a descriptive message when a destroyed morph
// is used in a tree operation. Only called in dev mode; release mode skips
// the check entirely.
func devCheckDestroyed(m *Morph, op string) {
	if m.destroyed {
		panic(fmt.Sprintf("morph dev: %s on destroyed morph %q (ID %d)", op, m.Name, m.ID))
	}
}
