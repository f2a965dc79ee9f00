package vocab

import (
	"fmt"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// Element is the object every vocabulary transform produces.
// Each element appends itself to its parent element, so the root element
// returned by a build holds the whole document.
// Text is nil when the element has no text, which is not the same as empty text.
type Element struct {
	Tag      string            `json:"tag" yaml:"tag"`
	Text     *string           `json:"text,omitempty" yaml:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []*Element        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Compile builds a registry (and its mounted sub-registries) from v.
func Compile(v *Vocabulary) (*registry.Registry, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	reg := registry.New(v.Name)
	for _, t := range v.Tags {
		if t.Mount != nil {
			sub, err := Compile(t.Mount)
			if err != nil {
				return nil, err
			}
			if err := reg.Mount(t.Tag, sub); err != nil {
				return nil, err
			}
			continue
		}

		opts := []registry.BindingOption{registry.WithDescription(t.Description)}
		if len(t.Params) > 0 {
			params := make([]registry.Param, 0, len(t.Params))
			for _, p := range t.Params {
				params = append(params, p.param())
			}
			opts = append(opts, registry.WithParams(params...))
		}
		if t.Open {
			opts = append(opts, registry.OpenAttributes())
		}
		if len(t.Parents) > 0 {
			opts = append(opts, registry.WithGuard(parentGuard(t.Parents)))
		}

		if err := reg.Register(t.Tag, elementTransform(t.Tag), opts...); err != nil {
			return nil, fmt.Errorf("vocabulary %q: %w", v.Name, err)
		}
	}
	return reg, nil
}

func elementTransform(tag string) registry.Transform {
	return registry.Func(func(parent any, text domain.Text, args registry.Args) (any, error) {
		el := &Element{Tag: tag}
		if text.Valid {
			el.Text = &text.Value
		}
		if len(args) > 0 {
			el.Attrs = make(map[string]string, len(args))
			for k, v := range args {
				el.Attrs[k] = v
			}
		}
		if p, ok := parent.(*Element); ok {
			p.Children = append(p.Children, el)
		}
		return el, nil
	})
}

func parentGuard(parents []string) registry.ParentGuard {
	root := slices.Contains(parents, RootParent)
	return registry.Where(func(parent any) bool {
		if domain.IsNoParent(parent) {
			return root
		}
		p, ok := parent.(*Element)
		return ok && slices.Contains(parents, p.Tag)
	})
}
