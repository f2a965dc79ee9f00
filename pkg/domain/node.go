package domain

import (
	"encoding/json"
	"fmt"
)

// Position locates a node in its source document.
// Line and Column are 1-based; a zero Line means the position is unknown.
type Position struct {
	Line   int `json:"line,omitempty" yaml:"line,omitempty"`
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// String renders the position as "line:column".
func (p Position) String() string {
	if p.Line == 0 {
		return "?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsKnown reports whether the position was recorded by the parser.
func (p Position) IsKnown() bool {
	return p.Line > 0
}

// Text is the optional character data of a node.
// A node with no text at all (as opposed to empty text) has Valid == false.
type Text struct {
	Value string
	Valid bool
}

// SomeText returns a present Text holding s.
func SomeText(s string) Text {
	return Text{Value: s, Valid: true}
}

// NoText is the absent Text.
var NoText = Text{}

// Or returns the text value, or def when the text is absent.
func (t Text) Or(def string) string {
	if !t.Valid {
		return def
	}
	return t.Value
}

// String returns the text value ("" when absent).
func (t Text) String() string {
	return t.Value
}

// MarshalJSON encodes an absent text as null.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// UnmarshalJSON decodes null as an absent text.
func (t *Text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = NoText
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = SomeText(s)
	return nil
}

// Attr is a single markup attribute.
type Attr struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Node is one element of a parsed markup tree.
// Nodes are produced by a ports.TreeParser and are never mutated by the builder.
type Node struct {
	Tag      string   `json:"tag" yaml:"tag"`
	Text     Text     `json:"text" yaml:"-"`
	Attrs    []Attr   `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
	Pos      Position `json:"pos" yaml:"pos"`
}

// NewNode is a convenience constructor used mostly by tests and programmatic tree builders.
func NewNode(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// WithText sets the node text and returns the node.
func (n *Node) WithText(s string) *Node {
	n.Text = SomeText(s)
	return n
}

// WithAttr appends an attribute and returns the node.
func (n *Node) WithAttr(name, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits n and its descendants depth-first, left to right.
// Returning false from fn prunes the subtree below the visited node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// String describes the node for diagnostics, e.g. "<person> at 3:5".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Pos.IsKnown() {
		return fmt.Sprintf("<%s> at %s", n.Tag, n.Pos)
	}
	return fmt.Sprintf("<%s>", n.Tag)
}
