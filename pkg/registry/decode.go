package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Decode copies args into the struct pointed to by out.
// Fields are matched by their `mapstructure` tag (or name), and string values are
// converted to the field type ("3" -> int, "true" -> bool). Keys that match no
// field are an error.
func Decode(args Args, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("failed to create attribute decoder: %w", err)
	}
	if err := dec.Decode(map[string]string(args)); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	return nil
}

// Typed adapts a transform that takes its attributes as a struct.
func Typed[T any](fn func(parent any, text domain.Text, opts T) (Result, error)) Transform {
	return func(parent any, text domain.Text, args Args) (Result, error) {
		var opts T
		if err := Decode(args, &opts); err != nil {
			return Result{}, err
		}
		return fn(parent, text, opts)
	}
}

// ParamsFor derives a parameter list from the exported fields of struct T.
// The name comes from the `mapstructure` tag (or the lower-cased field name);
// `default:"..."` sets a default and `arbor:"required"` marks the field required.
func ParamsFor[T any]() []Param {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	params := make([]Param, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.ToLower(f.Name)
		if tag, ok := f.Tag.Lookup("mapstructure"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		p := Param{Name: name}
		if def, ok := f.Tag.Lookup("default"); ok {
			p.Default, p.HasDefault = def, true
		}
		if f.Tag.Get("arbor") == "required" {
			p.Required = true
		}
		params = append(params, p)
	}
	return params
}

// RegisterTyped registers a struct-typed transform whose parameters are derived from T.
func RegisterTyped[T any](r *Registry, tag string, fn func(parent any, text domain.Text, opts T) (Result, error), opts ...BindingOption) error {
	opts = append([]BindingOption{WithParams(ParamsFor[T]()...)}, opts...)
	return r.Register(tag, Typed(fn), opts...)
}
