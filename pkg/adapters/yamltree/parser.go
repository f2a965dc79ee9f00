// Package yamltree reads and writes markup trees written as YAML.
//
// An element is a single-key mapping from its tag to its body:
//
//	object:
//	  "@lang": en
//	  "#text": hello
//	  "#children":
//	    - title: New World
//	    - person:
//	        - name: John
//
// The body may be null (no text), a scalar (text only), a sequence (children only),
// or a mapping. In a mapping, keys starting with '@' are attributes, "#text" is the
// text, "#children" is a sequence of elements, and any other key is a child element
// (mapping order is document order).
package yamltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"gopkg.in/yaml.v3"
)

const (
	attrPrefix  = "@"
	textKey     = "#text"
	childrenKey = "#children"
)

// DefaultMaxElements bounds the elements one document may produce. Aliases are
// expanded in place, so a small document with nested anchors can describe a
// very large tree.
const DefaultMaxElements = 100_000

// Parser implements ports.TreeParser for the YAML markup form.
type Parser struct {
	maxElements int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxElements sets the element limit. n <= 0 disables it.
func WithMaxElements(n int) Option {
	return func(p *Parser) {
		p.maxElements = n
	}
}

// New creates a new YAML markup parser.
func New(opts ...Option) *Parser {
	p := &Parser{maxElements: DefaultMaxElements}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// walk holds the state of one Parse call.
type walk struct {
	limit    int
	elements int
}

// Parse reads one root element from data.
func (p *Parser) Parse(data []byte) (*domain.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.MalformedInputError{Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &domain.MalformedInputError{Err: errors.New("no root element")}
	}
	top := resolve(doc.Content[0])
	if top.Kind != yaml.MappingNode || len(top.Content) != 2 {
		return nil, invalid(top, "the document must be a mapping with exactly one key (the root tag)")
	}
	w := &walk{limit: p.maxElements}
	return w.parseElement(top.Content[0], top.Content[1])
}

func (w *walk) parseElement(key, body *yaml.Node) (*domain.Node, error) {
	if key.Kind != yaml.ScalarNode || key.Value == "" {
		return nil, invalid(key, "element tag must be a non-empty scalar")
	}
	if strings.HasPrefix(key.Value, attrPrefix) || strings.HasPrefix(key.Value, "#") {
		return nil, invalid(key, fmt.Sprintf("%q is not a valid tag", key.Value))
	}
	w.elements++
	if w.limit > 0 && w.elements > w.limit {
		return nil, invalid(key, fmt.Sprintf("document expands to more than %d elements", w.limit))
	}
	node := &domain.Node{Tag: key.Value, Pos: pos(key)}
	body = resolve(body)

	switch body.Kind {
	case yaml.ScalarNode:
		if body.Tag != "!!null" {
			node.Text = domain.SomeText(body.Value)
		}
	case yaml.SequenceNode:
		children, err := w.parseChildren(body)
		if err != nil {
			return nil, err
		}
		node.Children = children
	case yaml.MappingNode:
		if err := w.parseBody(node, body); err != nil {
			return nil, err
		}
	default:
		return nil, invalid(body, "unsupported element body")
	}
	return node, nil
}

func (w *walk) parseBody(node *domain.Node, body *yaml.Node) error {
	seen := make(map[string]bool)
	for i := 0; i+1 < len(body.Content); i += 2 {
		k, v := body.Content[i], resolve(body.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return invalid(k, "mapping keys must be scalars")
		}
		if seen[k.Value] {
			return invalid(k, fmt.Sprintf("duplicate key %q (use %q for repeated elements)", k.Value, childrenKey))
		}
		seen[k.Value] = true

		switch {
		case strings.HasPrefix(k.Value, attrPrefix):
			if v.Kind != yaml.ScalarNode {
				return invalid(v, fmt.Sprintf("attribute %q must be a scalar", k.Value))
			}
			node.Attrs = append(node.Attrs, domain.Attr{Name: strings.TrimPrefix(k.Value, attrPrefix), Value: v.Value})
		case k.Value == textKey:
			if v.Kind != yaml.ScalarNode {
				return invalid(v, "text must be a scalar")
			}
			if v.Tag != "!!null" {
				node.Text = domain.SomeText(v.Value)
			}
		case k.Value == childrenKey:
			if v.Kind != yaml.SequenceNode {
				return invalid(v, fmt.Sprintf("%q must be a sequence", childrenKey))
			}
			children, err := w.parseChildren(v)
			if err != nil {
				return err
			}
			node.Children = append(node.Children, children...)
		default:
			child, err := w.parseElement(k, v)
			if err != nil {
				return err
			}
			node.Children = append(node.Children, child)
		}
	}
	return nil
}

func (w *walk) parseChildren(seq *yaml.Node) ([]*domain.Node, error) {
	children := make([]*domain.Node, 0, len(seq.Content))
	for _, item := range seq.Content {
		item = resolve(item)
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, invalid(item, "each child must be a mapping with exactly one key (its tag)")
		}
		child, err := w.parseElement(item.Content[0], item.Content[1])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func pos(n *yaml.Node) domain.Position {
	return domain.Position{Line: n.Line, Column: n.Column}
}

func invalid(n *yaml.Node, msg string) error {
	return &domain.MalformedInputError{Pos: pos(n), Err: errors.New(msg)}
}
