package registry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	cases := map[string]string{
		"name":       "name",
		"data-id":    "data_id",
		"xml.lang":   "xml_lang",
		"ns:attr":    "ns_attr",
		"type":       "type_",
		"func":       "func_",
		"3d":         "_3d",
		"":           "_",
		"already_ok": "already_ok",
		"größe":      "größe",
	}
	for in, want := range cases {
		assert.Equal(t, want, Coerce(in), in)
	}
}

func TestBind_RoundTripsValuesVerbatim(t *testing.T) {
	b := &Binding{Tag: "second", Params: []Param{Optional("test"), Optional("type_")}}
	node := domain.NewNode("second").WithAttr("test", "true").WithAttr("type", " 42 ")

	args, dropped, err := b.Bind(node, AttributesStrict)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, Args{"test": "true", "type_": " 42 "}, args)
}

func TestBind_DefaultsAndRequired(t *testing.T) {
	b := &Binding{Tag: "frame", Params: []Param{Default("title", "Untitled Frame"), Optional("style"), Required("id")}}

	args, _, err := b.Bind(domain.NewNode("frame").WithAttr("id", "main"), AttributesStrict)
	require.NoError(t, err)
	assert.Equal(t, "Untitled Frame", args.Get("title"))
	_, ok := args.Lookup("style")
	assert.False(t, ok, "optional params without default stay absent")
	assert.Equal(t, "fallback", args.Or("style", "fallback"))

	_, _, err = b.Bind(domain.NewNode("frame"), AttributesStrict)
	var missing *domain.MissingAttributeError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "id", missing.Param)
}

func TestBind_UnexpectedAttribute(t *testing.T) {
	b := &Binding{Tag: "first"}
	node := domain.NewNode("first").WithAttr("color", "red")

	_, _, err := b.Bind(node, AttributesStrict)
	var unexpected *domain.UnexpectedAttributeError
	require.True(t, errors.As(err, &unexpected))
	assert.Equal(t, "color", unexpected.Attribute)
	assert.Same(t, node, unexpected.Node)

	args, dropped, err := b.Bind(node, AttributesLenient)
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t, []string{"color"}, dropped)

	open := &Binding{Tag: "first", Open: true}
	args, _, err = open.Bind(node, AttributesStrict)
	require.NoError(t, err)
	assert.Equal(t, "red", args.Get("color"))
}

func TestBind_CollisionAfterCoercion(t *testing.T) {
	b := &Binding{Tag: "x", Open: true}
	node := domain.NewNode("x").WithAttr("data-id", "1").WithAttr("data_id", "2")

	_, _, err := b.Bind(node, AttributesLenient)
	var collision *domain.AttributeCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "data_id", collision.Key)
	assert.Equal(t, []string{"data-id", "data_id"}, collision.Names)
}

func TestGuards(t *testing.T) {
	type frame struct{}
	type sizer struct{}

	assert.True(t, Is[*frame]()(&frame{}))
	assert.False(t, Is[*frame]()(&sizer{}))
	assert.False(t, Is[*frame]()(domain.NoParent))

	assert.True(t, Is[fmt.Stringer]()(domain.NewNode("x")))
	assert.False(t, Is[fmt.Stringer]()(domain.NoParent))
	assert.False(t, Is[any]()(domain.NoParent))
	_, isStringer := domain.NoParent.(fmt.Stringer)
	assert.False(t, isStringer, "the root sentinel implements no methods")

	assert.True(t, Root()(domain.NoParent))
	assert.False(t, Root()(nil), "nil is not the root sentinel")

	either := OneOf(Is[*frame](), Is[*sizer](), nil)
	assert.True(t, either(&sizer{}))
	assert.False(t, either("text"))

	assert.True(t, Where(func(p any) bool { return p == "ok" })("ok"))

	assert.True(t, (&Binding{}).Accepts(nil), "no guard accepts anything")
}
