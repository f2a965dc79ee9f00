package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the arbor ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Greens, darkening toward the trunk
	lines := []struct{ text, color string }{
		{"              _                ", "#86efac"},
		{"   __ _  _ __| |__   ___  _ __ ", "#4ade80"},
		{"  / _` || '__| '_ \\ / _ \\| '__|", "#22c55e"},
		{" | (_| || |  | |_) | (_) | |   ", "#16a34a"},
		{"  \\__,_||_|  |_.__/ \\___/|_|   ", "#15803d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
