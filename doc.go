/*
Package arbor builds object trees from markup documents.

A document (XML, or its YAML form) is parsed into a tree of nodes. Each node is
dispatched, depth-first, to the transform registered for its tag; the transform
receives the object built for the enclosing element and returns the object its
own children will receive. The object built for the root element is the result.

# Concept

Registries map tags to transforms. A registry can mount another registry under a
tag, handing it that element and its whole subtree, which keeps vocabularies such
as "people" and "objects" apart even when they share tag names.

Transforms are single-step (return a value) or two-step: they return an enter
value immediately and an exit step that runs after every child has been built.
Generator-style transforms yield exactly once and resume after the children.

# Key Features

  - Parent guards: a transform can restrict which parent objects it accepts.
  - Attribute binding: declared parameters with defaults and required checks,
    strict or lenient handling of undeclared attributes, optional struct decoding.
  - Typed errors: every failure wraps a sentinel (domain.ErrUnhandledElement,
    domain.ErrInvalidParent, ...) and carries the offending node and position.
  - Entry points for strings, readers, files, command-line args and document sources.

# Usage

	reg := registry.New("shapes").
		MustRegister("group", registry.Func(func(parent any, text domain.Text, args registry.Args) (any, error) {
			return &Group{}, nil
		})).
		MustRegister("box", registry.Func(func(parent any, text domain.Text, args registry.Args) (any, error) {
			g := parent.(*Group)
			g.Boxes = append(g.Boxes, args.Get("label"))
			return nil, nil
		}), registry.WithParams(registry.Optional("label")), registry.WithGuard(registry.Is[*Group]()))

	b, err := arbor.New(reg)
	if err != nil {
		log.Fatal(err)
	}
	group, err := arbor.Build[*Group](b, `<group><box label="a"/><box/></group>`)
*/
package arbor
