package session

// Palette is a fixed set of hex colors for one display mode.
type Palette struct {
	Background       string
	CardBackground   string
	Text             string
	ToggleBackground string
	HeaderBackground string
}

var (
	// LightPalette is used when dark mode is off.
	LightPalette = Palette{
		Background:       "#F8F9FA",
		CardBackground:   "#E3F2FD",
		Text:             "#212529",
		ToggleBackground: "#FFD700",
		HeaderBackground: "#BBDEFB",
	}

	// DarkPalette is used when dark mode is on.
	DarkPalette = Palette{
		Background:       "#070F2B",
		CardBackground:   "#1B1A55",
		Text:             "#E0E0E0",
		ToggleBackground: "#6A5ACD",
		HeaderBackground: "#282A36",
	}
)

// PaletteFor returns the palette matching the dark-mode flag.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
