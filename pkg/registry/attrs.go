package registry

import (
	"go/token"
	"strings"
	"unicode"
)

// AttributePolicy controls what happens to attributes that match no declared parameter.
type AttributePolicy int

const (
	// AttributesStrict rejects undeclared attributes with domain.ErrUnexpectedAttribute.
	AttributesStrict AttributePolicy = iota
	// AttributesLenient silently drops undeclared attributes.
	AttributesLenient
)

func (p AttributePolicy) String() string {
	if p == AttributesLenient {
		return "lenient"
	}
	return "strict"
}

// Args is the set of bound attributes handed to a transform, keyed by coerced name.
type Args map[string]string

// Get returns the value for name, or "" when absent.
func (a Args) Get(name string) string {
	return a[name]
}

// Lookup returns the value for name and whether it is present.
func (a Args) Lookup(name string) (string, bool) {
	v, ok := a[name]
	return v, ok
}

// Or returns the value for name, or def when absent.
func (a Args) Or(name, def string) string {
	if v, ok := a[name]; ok {
		return v
	}
	return def
}

// Param declares one attribute a transform accepts.
type Param struct {
	Name       string
	Default    string
	HasDefault bool
	Required   bool
}

// Optional declares a parameter with no default: when the attribute is absent
// the key is missing from Args.
func Optional(name string) Param {
	return Param{Name: name}
}

// Default declares a parameter that takes value when the attribute is absent.
func Default(name, value string) Param {
	return Param{Name: name, Default: value, HasDefault: true}
}

// Required declares a parameter that must be present on the node.
func Required(name string) Param {
	return Param{Name: name, Required: true}
}

// Coerce maps a raw attribute name to the key it is bound under.
// Characters other than letters, digits and '_' become '_', a leading digit is
// prefixed with '_', and Go keywords get a trailing '_' ("type" -> "type_").
func Coerce(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 1)
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	key := sb.String()
	if key == "" {
		return "_"
	}
	if token.IsKeyword(key) {
		key += "_"
	}
	return key
}
