package iostreams

import "github.com/charmbracelet/lipgloss"

// Named colors.
var (
	ColorEmerald = lipgloss.Color("#04B575") // Vivid green (nearest: X11 MediumSeaGreen)
	ColorAmber   = lipgloss.Color("#FFCC00") // Warm yellow (nearest: X11 Gold)
	ColorHotPink = lipgloss.Color("#FF5F87") // Bright pink (nearest: X11 HotPink)
	ColorDimGray = lipgloss.Color("#626262") // Near X11 DimGray
	ColorSkyBlue = lipgloss.Color("#87CEEB") // Exact X11/CSS: SkyBlue
)

// Semantic theme. Intent-based aliases over the named colors.
var (
	ColorSuccess = ColorEmerald
	ColorWarning = ColorAmber
	ColorError   = ColorHotPink
	ColorMuted   = ColorDimGray
	ColorInfo    = ColorSkyBlue
)

// Text styles.
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	BannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
)
