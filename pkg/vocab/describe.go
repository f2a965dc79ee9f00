package vocab

import (
	"fmt"
	"strings"
)

// Describe renders v (and its mounted vocabularies) as Markdown.
func Describe(v *Vocabulary) string {
	var sb strings.Builder
	describe(&sb, v, 1)
	return sb.String()
}

func describe(sb *strings.Builder, v *Vocabulary, level int) {
	fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", min(level, 6)), v.Name)
	if v.Description != "" {
		sb.WriteString(v.Description + "\n\n")
	}

	sb.WriteString("| Tag | Attributes | Parents | Description |\n")
	sb.WriteString("|-----|------------|---------|-------------|\n")
	var mounts []*Vocabulary
	for _, t := range v.Tags {
		desc := t.Description
		if t.Mount != nil {
			desc = fmt.Sprintf("handled by **%s**", t.Mount.Name)
			mounts = append(mounts, t.Mount)
		}
		fmt.Fprintf(sb, "| `%s` | %s | %s | %s |\n", t.Tag, attrsCell(t), parentsCell(t.Parents), desc)
	}
	sb.WriteString("\n")

	for _, m := range mounts {
		describe(sb, m, level+1)
	}
}

func attrsCell(t TagSpec) string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		switch {
		case p.Required:
			parts = append(parts, fmt.Sprintf("`%s` (required)", p.Name))
		case p.Default != nil:
			parts = append(parts, fmt.Sprintf("`%s` = %q", p.Name, *p.Default))
		default:
			parts = append(parts, fmt.Sprintf("`%s`", p.Name))
		}
	}
	if t.Open {
		parts = append(parts, "*any*")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func parentsCell(parents []string) string {
	if len(parents) == 0 {
		return "*any*"
	}
	out := make([]string, len(parents))
	for i, p := range parents {
		if p == RootParent {
			out[i] = "*root*"
		} else {
			out[i] = "`" + p + "`"
		}
	}
	return strings.Join(out, ", ")
}
