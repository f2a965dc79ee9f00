package registry

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Transform converts a node into a domain object.
// parent is the object produced by the enclosing transform, or domain.NoParent at the root.
type Transform func(parent any, text domain.Text, args Args) (Result, error)

// Func adapts a single-step function into a Transform.
func Func(fn func(parent any, text domain.Text, args Args) (any, error)) Transform {
	return func(parent any, text domain.Text, args Args) (Result, error) {
		v, err := fn(parent, text, args)
		if err != nil {
			return Result{}, err
		}
		return Value(v), nil
	}
}

// Binding is a transform together with its parent guard and attribute schema.
type Binding struct {
	Tag         string
	Transform   Transform
	Guard       ParentGuard
	Params      []Param
	Open        bool
	Description string
}

// BindingOption configures a Binding at registration time.
type BindingOption func(*Binding)

// WithGuard rejects parents the guard does not accept (domain.ErrInvalidParent).
func WithGuard(g ParentGuard) BindingOption {
	return func(b *Binding) {
		b.Guard = g
	}
}

// WithParams declares the attributes the transform accepts, in order.
func WithParams(params ...Param) BindingOption {
	return func(b *Binding) {
		b.Params = append(b.Params, params...)
	}
}

// OpenAttributes accepts any attribute, regardless of the attribute policy.
// Declared params still apply their defaults and required checks.
func OpenAttributes() BindingOption {
	return func(b *Binding) {
		b.Open = true
	}
}

// WithDescription attaches documentation shown by tooling.
func WithDescription(text string) BindingOption {
	return func(b *Binding) {
		b.Description = text
	}
}

func (b *Binding) validate() error {
	seen := make(map[string]bool, len(b.Params))
	for _, p := range b.Params {
		if p.Name == "" {
			return fmt.Errorf("tag %q: parameter with empty name", b.Tag)
		}
		if Coerce(p.Name) != p.Name {
			return fmt.Errorf("tag %q: parameter %q is not a bound name (attributes bind as %q)", b.Tag, p.Name, Coerce(p.Name))
		}
		if seen[p.Name] {
			return fmt.Errorf("tag %q: parameter %q declared twice", b.Tag, p.Name)
		}
		if p.Required && p.HasDefault {
			return fmt.Errorf("tag %q: required parameter %q cannot have a default", b.Tag, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Accepts runs the parent guard.
func (b *Binding) Accepts(parent any) bool {
	return b.Guard == nil || b.Guard(parent)
}

// Bind builds the argument set for node. It returns the raw names of attributes
// dropped under AttributesLenient.
func (b *Binding) Bind(node *domain.Node, policy AttributePolicy) (Args, []string, error) {
	declared := make(map[string]bool, len(b.Params))
	for _, p := range b.Params {
		declared[p.Name] = true
	}

	args := make(Args, len(node.Attrs)+len(b.Params))
	raw := make(map[string]string, len(node.Attrs))
	var dropped []string
	for _, a := range node.Attrs {
		key := Coerce(a.Name)
		if prev, ok := raw[key]; ok {
			return nil, nil, &domain.AttributeCollisionError{
				Tag:   b.Tag,
				Key:   key,
				Names: []string{prev, a.Name},
				Node:  node,
			}
		}
		raw[key] = a.Name

		if !declared[key] && !b.Open {
			if policy == AttributesLenient {
				dropped = append(dropped, a.Name)
				continue
			}
			return nil, nil, &domain.UnexpectedAttributeError{Tag: b.Tag, Attribute: a.Name, Node: node}
		}
		args[key] = a.Value
	}

	for _, p := range b.Params {
		if _, ok := args[p.Name]; ok {
			continue
		}
		switch {
		case p.Required:
			return nil, nil, &domain.MissingAttributeError{Tag: b.Tag, Param: p.Name, Node: node}
		case p.HasDefault:
			args[p.Name] = p.Default
		}
	}
	return args, dropped, nil
}
