package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the DevCraft ASCII banner followed by a tagline.
func PrintBanner(w io.Writer, tagline string) {
	out := termenv.NewOutput(w)
	// Blue to violet, matching the site's primary gradient
	lines := []struct{ text, color string }{
		{"  ____              ____            __ _   ", "#3b82f6"},
		{" |  _ \\  _____   __/ ___|_ __ __ _ / _| |_ ", "#6366f1"},
		{" | | | |/ _ \\ \\ / / |   | '__/ _` | |_| __|", "#8b5cf6"},
		{" | |_| |  __/\\ V /| |___| | | (_| |  _| |_ ", "#a855f7"},
		{" |____/ \\___| \\_/  \\____|_|  \\__,_|_|  \\__|", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if tagline != "" {
		fmt.Fprintln(w, out.String("  "+tagline).Faint())
	}
	fmt.Fprintln(w)
}
