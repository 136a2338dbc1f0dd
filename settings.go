package morph

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings bundles the tunable interaction and appearance parameters of a
// world. A world starts with StandardSettings; assign a different profile to
// World.Settings to reconfigure it wholesale, typically at startup or when
// the host detects a touch screen.
type Settings struct {
	MinimumFontHeight  float64 `toml:"minimumFontHeight"`
	GlobalFontFamily   string  `toml:"globalFontFamily"`
	MenuFontName       string  `toml:"menuFontName"`
	MenuFontSize       float64 `toml:"menuFontSize"`
	BubbleHelpFontSize float64 `toml:"bubbleHelpFontSize"`
	PrompterFontName   string  `toml:"prompterFontName"`
	PrompterFontSize   float64 `toml:"prompterFontSize"`
	PrompterSliderSize float64 `toml:"prompterSliderSize"`
	HandleSize         float64 `toml:"handleSize"`
	ScrollBarSize      float64 `toml:"scrollBarSize"`
	MouseScrollAmount  float64 `toml:"mouseScrollAmount"`
	UseSliderForInput  bool    `toml:"useSliderForInput"`
	IsTouchDevice      bool    `toml:"isTouchDevice"`
	RasterizeSVGs      bool    `toml:"rasterizeSVGs"`
	IsFlat             bool    `toml:"isFlat"`
	ShowHoles          bool    `toml:"showHoles"`

	// GrabThreshold is the pointer travel in pixels beyond which a pressed
	// morph is picked up instead of clicked.
	GrabThreshold float64 `toml:"grabThreshold"`

	// DoubleClickInterval is the window, in milliseconds of world time,
	// within which a second click on the same morph counts as a double
	// click.
	DoubleClickInterval int `toml:"doubleClickInterval"`
}

// StandardSettings returns the desktop (mouse driven) profile.
func StandardSettings() Settings {
	return Settings{
		MinimumFontHeight:   10,
		MenuFontName:        "helvetica",
		MenuFontSize:        12,
		BubbleHelpFontSize:  10,
		PrompterFontName:    "helvetica",
		PrompterFontSize:    12,
		PrompterSliderSize:  10,
		HandleSize:          15,
		ScrollBarSize:       9,
		MouseScrollAmount:   40,
		GrabThreshold:       5,
		DoubleClickInterval: 500,
	}
}

// TouchScreenSettings returns a profile with larger grab handles and scroll
// bars suited to finger input.
func TouchScreenSettings() Settings {
	s := StandardSettings()
	s.HandleSize = 26
	s.ScrollBarSize = 24
	s.IsTouchDevice = true
	s.UseSliderForInput = true
	return s
}

// ReadSettings decodes a TOML settings profile from r. Fields absent from
// the document keep their StandardSettings value, so a profile file only
// needs to list what it overrides.
func ReadSettings(r io.Reader) (Settings, error) {
	s := StandardSettings()
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: decode: %w", err)
	}
	return s, nil
}

// LoadSettings reads a TOML settings profile from the file at path.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	defer f.Close()
	return ReadSettings(f)
}

// WriteSettings encodes s as TOML to w.
func WriteSettings(w io.Writer, s Settings) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	return nil
}

// SaveSettings writes s as a TOML profile to the file at path.
func SaveSettings(path string, s Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := WriteSettings(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
