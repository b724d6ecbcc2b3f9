package tui

// Color constants for the daybook TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#101B2D" // Dark navy
	ColorBorder         = "#36415C" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E8ECF4" // Primary text (field labels, user input, titles)
	ColorSecondaryText = "#ABB4C6" // Secondary text - subtle blue-tinted grey
	ColorDisabledText  = "#697088" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Teal theme)
	ColorAccentMain   = "#14B8A6" // Logo, accent elements, active borders
	ColorAccentBright = "#5EEAD4" // Hover, highlights, current hour

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E" // Success, confirmations
	ColorWarning = "#F59E0B" // Warnings, overdue markers
)

// eventPalette maps an item's stored color name to a renderable hex.
var eventPalette = map[string]string{
	"red":    "#F87171",
	"orange": "#FB923C",
	"yellow": "#FACC15",
	"green":  "#4ADE80",
	"teal":   "#2DD4BF",
	"blue":   "#60A5FA",
	"purple": "#C084FC",
	"pink":   "#F472B6",
	"grey":   "#9CA3AF",
}

// paletteColor resolves a stored color name, falling back to the accent.
func paletteColor(name string) string {
	if hex, ok := eventPalette[name]; ok {
		return hex
	}
	return ColorAccentMain
}
