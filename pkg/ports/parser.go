package ports

import "github.com/aretw0/arbor/pkg/domain"

// TreeParser turns raw markup into a node tree.
// Syntax errors must be reported as *domain.MalformedInputError.
type TreeParser interface {
	Parse(data []byte) (*domain.Node, error)
}

// TreeParserFunc adapts a function into a TreeParser.
type TreeParserFunc func(data []byte) (*domain.Node, error)

// Parse calls f(data).
func (f TreeParserFunc) Parse(data []byte) (*domain.Node, error) {
	return f(data)
}
