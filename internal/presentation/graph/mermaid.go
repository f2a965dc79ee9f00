package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// maxLabelText bounds how much node text is shown inside a box.
const maxLabelText = 24

// GraphOverlay marks nodes of interest on the chart.
type GraphOverlay struct {
	// Failed is the node a build error points at (see domain.ErrorNode).
	Failed *domain.Node
}

// GenerateMermaid produces a Mermaid flowchart of a markup tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Text leaf: ([Stadium])
// - Default: [Rectangle]
func GenerateMermaid(root *domain.Node, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var failedID string
	ids := make(map[*domain.Node]string)
	root.Walk(func(n *domain.Node, depth int) bool {
		id := fmt.Sprintf("n%d", len(ids))
		ids[n] = id
		if overlay != nil && overlay.Failed == n {
			failedID = id
		}

		opener, closer := "[", "]"
		switch {
		case depth == 0:
			opener, closer = "((", "))"
		case len(n.Children) == 0 && n.Text.Valid && strings.TrimSpace(n.Text.Value) != "":
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label(n), closer))
		return true
	})

	root.Walk(func(n *domain.Node, depth int) bool {
		for _, c := range n.Children {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", ids[n], ids[c]))
		}
		return true
	})

	if failedID != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#b71c1c,stroke-width:3px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s failed;\n", failedID))
	}

	return sb.String()
}

func label(n *domain.Node) string {
	parts := []string{escape(n.Tag)}
	for _, a := range n.Attrs {
		parts = append(parts, escape(fmt.Sprintf("%s=%s", a.Name, a.Value)))
	}
	if text := strings.TrimSpace(n.Text.Value); text != "" {
		if len([]rune(text)) > maxLabelText {
			text = strings.TrimSpace(string([]rune(text)[:maxLabelText])) + "…"
		}
		parts = append(parts, "<i>"+escape(text)+"</i>")
	}
	return strings.Join(parts, " <br/> ")
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return strings.ReplaceAll(s, "\n", " ")
}
