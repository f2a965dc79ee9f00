package vocab

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/arbor/pkg/registry"
	"gopkg.in/yaml.v3"
)

// RootParent is the parent name that stands for the document root.
const RootParent = "/"

// Vocabulary is the YAML description of a registry.
type Vocabulary struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Tags        []TagSpec `yaml:"tags"`
}

// TagSpec describes a single tag.
type TagSpec struct {
	Tag         string      `yaml:"tag"`
	Description string      `yaml:"description,omitempty"`
	Params      []ParamSpec `yaml:"params,omitempty"`
	// Parents restricts the enclosing tag; RootParent allows the tag at the top level.
	// An empty list accepts any parent.
	Parents []string `yaml:"parents,omitempty"`
	Open    bool     `yaml:"open,omitempty"`
	// Mount hands the tag and its whole subtree to a nested vocabulary,
	// which must itself declare the tag.
	Mount *Vocabulary `yaml:"mount,omitempty"`
}

// ParamSpec describes one attribute.
type ParamSpec struct {
	Name     string  `yaml:"name"`
	Required bool    `yaml:"required,omitempty"`
	Default  *string `yaml:"default,omitempty"`
}

// Load decodes a vocabulary from r. Unknown fields are rejected.
func Load(r io.Reader) (*Vocabulary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var v Vocabulary
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty vocabulary")
		}
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// LoadFile reads a vocabulary from path.
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocabulary: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the structural rules Compile relies on.
func (v *Vocabulary) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("vocabulary name is required")
	}
	if len(v.Tags) == 0 {
		return fmt.Errorf("vocabulary %q declares no tags", v.Name)
	}
	seen := make(map[string]bool, len(v.Tags))
	for i, t := range v.Tags {
		if t.Tag == "" {
			return fmt.Errorf("vocabulary %q: tag #%d has no name", v.Name, i+1)
		}
		if seen[t.Tag] {
			return fmt.Errorf("vocabulary %q: tag %q declared twice", v.Name, t.Tag)
		}
		seen[t.Tag] = true

		for _, p := range t.Params {
			if p.Required && p.Default != nil {
				return fmt.Errorf("vocabulary %q: tag %q: required parameter %q cannot have a default", v.Name, t.Tag, p.Name)
			}
		}
		if t.Mount != nil {
			if len(t.Params) > 0 || len(t.Parents) > 0 || t.Open {
				return fmt.Errorf("vocabulary %q: mounted tag %q is declared by its mounted vocabulary", v.Name, t.Tag)
			}
			if err := t.Mount.Validate(); err != nil {
				return fmt.Errorf("vocabulary %q: tag %q: %w", v.Name, t.Tag, err)
			}
			if !t.Mount.declares(t.Tag) {
				return fmt.Errorf("vocabulary %q: mounted vocabulary %q does not declare %q", v.Name, t.Mount.Name, t.Tag)
			}
		}
	}
	return nil
}

func (v *Vocabulary) declares(tag string) bool {
	for _, t := range v.Tags {
		if t.Tag == tag {
			return true
		}
	}
	return false
}

func (p ParamSpec) param() registry.Param {
	switch {
	case p.Required:
		return registry.Required(p.Name)
	case p.Default != nil:
		return registry.Default(p.Name, *p.Default)
	default:
		return registry.Optional(p.Name)
	}
}
