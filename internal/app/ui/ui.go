package ui

import (
	"fmt"
	"io"
	"strings"
)

const AsciiArt = `
███╗   ██╗██╗   ██╗██████╗ ██╗
████╗  ██║██║   ██║██╔══██╗██║
██╔██╗ ██║██║   ██║██████╔╝██║
██║╚██╗██║██║   ██║██╔══██╗██║
██║ ╚████║╚██████╔╝██║  ██║███████╗
╚═╝  ╚═══╝ ╚═════╝ ╚═╝  ╚═╝╚══════╝
`

const (
	ColorReset  = "\033[0m"
	ColorGray   = "\033[90m" // Light gray
	ColorWhite  = "\033[97m" // White
	ColorRed    = "\033[91m" // Bright Red
	ColorGreen  = "\033[92m" // Bright Green
	ColorYellow = "\033[93m" // Bright Yellow
)

// Palette wraps text in colour codes only when enabled.
type Palette struct {
	Enabled bool
}

func (p Palette) Paint(color, s string) string {
	if !p.Enabled || s == "" {
		return s
	}
	return color + s + ColorReset
}

// PrintBanner prints the ASCII art shaded from yellow to blue, followed by
// subtitle in gray.
func PrintBanner(w io.Writer, subtitle string) {
	lines := strings.Split(strings.Trim(AsciiArt, "\n"), "\n")
	for i, line := range lines {
		r, g, b := bannerShade(i, len(lines))
		fmt.Fprintf(w, "\033[38;2;%d;%d;%dm%s%s\n", r, g, b, line, ColorReset)
	}
	if subtitle != "" {
		fmt.Fprintf(w, "%s%s%s\n", ColorGray, subtitle, ColorReset)
	}
}

// bannerShade maps line i of n onto yellow (255,255,0) -> cyan (0,255,255)
// -> blue (0,0,255).
func bannerShade(i, n int) (r, g, b int) {
	if n < 2 {
		return 255, 255, 0
	}
	t := float64(i) / float64(n-1)
	if t < 0.5 {
		t *= 2
		return int(255 * (1 - t)), 255, int(255 * t)
	}
	t = (t - 0.5) * 2
	return 0, int(255 * (1 - t)), 255
}
