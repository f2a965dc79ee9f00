// Package xmltree parses XML documents into domain.Node trees.
//
// Text follows the ElementTree convention: a node's text is the character data
// between its start tag and its first child (or end tag), and is absent when there
// is none. Text after a child element (the "tail") is not kept. Namespaces are not
// interpreted: tags and attributes use their local names and xmlns declarations
// are dropped.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"golang.org/x/text/encoding/htmlindex"
)

// Parser implements ports.TreeParser for XML.
type Parser struct{}

// New creates a new XML parser.
func New() *Parser {
	return &Parser{}
}

// Parse reads exactly one root element from data.
func (p *Parser) Parse(data []byte) (*domain.Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var (
		root  *domain.Node
		stack []*domain.Node
	)
	for {
		line, col := dec.InputPos()
		pos := domain.Position{Line: line, Column: col}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, &domain.MalformedInputError{Pos: pos, Err: fmt.Errorf("unexpected second root element <%s>", t.Name.Local)}
			}
			node, err := newNode(t, pos)
			if err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, &domain.MalformedInputError{Pos: pos, Err: errors.New("character data outside the root element")}
				}
				continue
			}
			top := stack[len(stack)-1]
			if len(top.Children) == 0 {
				top.Text = domain.SomeText(top.Text.Value + string(t))
			}
		}
	}

	if root == nil {
		return nil, &domain.MalformedInputError{Err: errors.New("no root element")}
	}
	return root, nil
}

func newNode(t xml.StartElement, pos domain.Position) (*domain.Node, error) {
	node := &domain.Node{Tag: t.Name.Local, Pos: pos}
	seen := make(map[string]bool, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		if seen[a.Name.Local] {
			return nil, &domain.MalformedInputError{Pos: pos, Err: fmt.Errorf("duplicate attribute %q on <%s>", a.Name.Local, t.Name.Local)}
		}
		seen[a.Name.Local] = true
		node.Attrs = append(node.Attrs, domain.Attr{Name: a.Name.Local, Value: a.Value})
	}
	return node, nil
}

func malformed(err error) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &domain.MalformedInputError{Pos: domain.Position{Line: syntax.Line}, Err: errors.New(syntax.Msg)}
	}
	return &domain.MalformedInputError{Err: err}
}

// charsetReader decodes documents declaring a non UTF-8 encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
