package yamltree

import (
	"bytes"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Marshal renders a node tree in the YAML markup form accepted by Parser.
// Elements with only text become scalars and elements with only children become
// sequences, so common documents stay compact.
func Marshal(root *domain.Node) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	appendElement(doc, root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func appendElement(mapping *yaml.Node, n *domain.Node) {
	mapping.Content = append(mapping.Content, scalar(n.Tag), body(n))
}

func body(n *domain.Node) *yaml.Node {
	switch {
	case len(n.Attrs) == 0 && len(n.Children) == 0:
		if !n.Text.Valid {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		return scalar(n.Text.Value)
	case len(n.Attrs) == 0 && !n.Text.Valid:
		return children(n.Children)
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, a := range n.Attrs {
		m.Content = append(m.Content, scalar(attrPrefix+a.Name), scalar(a.Value))
	}
	if n.Text.Valid {
		m.Content = append(m.Content, scalar(textKey), scalar(n.Text.Value))
	}
	if len(n.Children) > 0 {
		m.Content = append(m.Content, scalar(childrenKey), children(n.Children))
	}
	return m
}

func children(nodes []*domain.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range nodes {
		item := &yaml.Node{Kind: yaml.MappingNode}
		appendElement(item, c)
		seq.Content = append(seq.Content, item)
	}
	return seq
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
