package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/muesli/termenv"
)

// Outline prints a markup tree as an indented outline, one element per line:
//
//	world
//	├── person name="Ada"  3:3
//	│   └── weapon "axe"
//	└── note
//
// With color disabled the output is plain ASCII art and safe to diff.
func Outline(w io.Writer, root *domain.Node, color bool) error {
	o := outliner{w: w, profile: termenv.Ascii}
	if color {
		o.profile = termenv.ColorProfile()
	}
	o.line(root, "", "")
	o.children(root, "")
	return o.err
}

type outliner struct {
	w       io.Writer
	profile termenv.Profile
	err     error
}

func (o *outliner) children(n *domain.Node, prefix string) {
	for i, c := range n.Children {
		branch, indent := "├── ", "│   "
		if i == len(n.Children)-1 {
			branch, indent = "└── ", "    "
		}
		o.line(c, prefix, branch)
		o.children(c, prefix+indent)
	}
}

func (o *outliner) line(n *domain.Node, prefix, branch string) {
	if o.err != nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(prefix + branch)
	sb.WriteString(o.profile.String(n.Tag).Foreground(o.profile.Color("#4ade80")).Bold().String())
	for _, a := range n.Attrs {
		sb.WriteString(" ")
		sb.WriteString(o.profile.String(a.Name + "=").Foreground(o.profile.Color("#a78bfa")).String())
		sb.WriteString(fmt.Sprintf("%q", a.Value))
	}
	if text := strings.TrimSpace(n.Text.Value); text != "" {
		sb.WriteString(" ")
		sb.WriteString(o.profile.String(fmt.Sprintf("%q", text)).Italic().String())
	}
	if n.Pos.IsKnown() {
		sb.WriteString("  ")
		sb.WriteString(o.profile.String(n.Pos.String()).Faint().String())
	}
	_, o.err = fmt.Fprintln(o.w, sb.String())
}
