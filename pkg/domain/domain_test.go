package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedRegistry string

func (n namedRegistry) Name() string { return string(n) }

func TestText_JSON(t *testing.T) {
	n := domain.NewNode("a", domain.NewNode("b").WithText(""))
	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tag":"a","text":null,"pos":{},"children":[{"tag":"b","text":"","pos":{}}]}`, string(data))

	var back domain.Node
	require.NoError(t, json.Unmarshal(data, &back))
	assert.False(t, back.Text.Valid)
	assert.Equal(t, domain.SomeText(""), back.Children[0].Text)
}

func TestText_Or(t *testing.T) {
	assert.Equal(t, "def", domain.NoText.Or("def"))
	assert.Equal(t, "", domain.SomeText("").Or("def"))
}

func TestNode_Walk(t *testing.T) {
	root := domain.NewNode("a",
		domain.NewNode("b", domain.NewNode("c")),
		domain.NewNode("d"),
	)

	var visited []string
	root.Walk(func(n *domain.Node, depth int) bool {
		visited = append(visited, fmt.Sprintf("%s%d", n.Tag, depth))
		return n.Tag != "b"
	})
	assert.Equal(t, []string{"a0", "b1", "d1"}, visited)
}

func TestNode_AttrAndString(t *testing.T) {
	n := domain.NewNode("person").WithAttr("name", "Ada")
	v, ok := n.Attr("name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)
	_, ok = n.Attr("age")
	assert.False(t, ok)

	assert.Equal(t, "<person>", n.String())
	n.Pos = domain.Position{Line: 3, Column: 5}
	assert.Equal(t, "<person> at 3:5", n.String())
	assert.Equal(t, "<nil>", (*domain.Node)(nil).String())
}

func TestNoParent(t *testing.T) {
	assert.True(t, domain.IsNoParent(domain.NoParent))
	assert.False(t, domain.IsNoParent(nil))
	assert.False(t, domain.IsNoParent(struct{}{}))
}

func TestErrorKindAndNode(t *testing.T) {
	node := domain.NewNode("x")
	boom := errors.New("boom")

	tests := []struct {
		err  error
		kind string
		node *domain.Node
	}{
		{&domain.UnhandledElementError{Registry: namedRegistry("r"), Node: node}, "unhandled_element", node},
		{&domain.InvalidParentError{Tag: "x", Node: node}, "invalid_parent", node},
		{&domain.MisusedTwoStepError{Tag: "x", Node: node, Reason: "twice"}, "misused_two_step", node},
		{&domain.UnexpectedAttributeError{Tag: "x", Attribute: "a", Node: node}, "unexpected_attribute", node},
		{&domain.MissingAttributeError{Tag: "x", Param: "a", Node: node}, "missing_attribute", node},
		{&domain.AttributeCollisionError{Tag: "x", Key: "a_b", Names: []string{"a-b", "a.b"}, Node: node}, "attribute_collision", node},
		{&domain.DepthExceededError{Limit: 1, Node: node}, "depth_exceeded", node},
		{&domain.MalformedInputError{Err: boom}, "malformed_input", nil},
		{&domain.TransformError{Tag: "x", Node: node, Err: boom}, "transform_failed", node},
		{fmt.Errorf("wrapped: %w", &domain.DepthExceededError{Node: node}), "depth_exceeded", node},
		{boom, "internal", nil},
		{nil, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.kind, domain.ErrorKind(tt.err))
			assert.Same(t, tt.node, domain.ErrorNode(tt.err))
		})
	}
}

func TestWrappedCauses(t *testing.T) {
	boom := errors.New("boom")

	te := &domain.TransformError{Tag: "x", Node: domain.NewNode("x"), Exit: true, Err: boom}
	assert.ErrorIs(t, te, boom)
	assert.ErrorIs(t, te, domain.ErrTransformFailed)
	assert.Contains(t, te.Error(), "exit step")

	me := &domain.MalformedInputError{Pos: domain.Position{Line: 2, Column: 1}, Err: boom}
	assert.ErrorIs(t, me, boom)
	assert.ErrorIs(t, me, domain.ErrMalformedInput)
	assert.Contains(t, me.Error(), "at 2:1")
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnEnter: func(*domain.ElementEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnEnter: func(*domain.ElementEvent) { calls = append(calls, "b") },
		OnError: func(*domain.ElementEvent) { calls = append(calls, "err") },
	}

	merged := a.Merge(b)
	merged.OnEnter(&domain.ElementEvent{})
	merged.OnError(&domain.ElementEvent{})
	assert.Nil(t, merged.OnExit)
	assert.Equal(t, []string{"a", "b", "err"}, calls)
}
