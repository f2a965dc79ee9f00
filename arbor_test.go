package arbor_test

import (
	"context"
	"errors"
	"os"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/yamltree"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	tags []string
}

func newCounterRegistry() *registry.Registry {
	record := registry.Func(func(parent any, text domain.Text, args registry.Args) (any, error) {
		c, ok := parent.(*counter)
		if !ok {
			c = &counter{}
		}
		c.tags = append(c.tags, strings.TrimSpace(text.Value))
		return c, nil
	})
	return registry.New("counter").
		MustRegister("a", record).
		MustRegister("b", record, registry.WithParams(registry.Optional("n")))
}

func newBuilder(t *testing.T, opts ...arbor.Option) *arbor.Builder {
	t.Helper()
	b, err := arbor.New(newCounterRegistry(), opts...)
	require.NoError(t, err)
	return b
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := arbor.New(nil)
	assert.Error(t, err)
}

func TestNew_FreezesRegistry(t *testing.T) {
	reg := newCounterRegistry()
	_, err := arbor.New(reg)
	require.NoError(t, err)

	assert.True(t, reg.Frozen())
	err = reg.Register("c", registry.Func(func(any, domain.Text, registry.Args) (any, error) { return nil, nil }))
	assert.True(t, errors.Is(err, domain.ErrRegistryFrozen))
}

func TestFromString(t *testing.T) {
	obj, err := newBuilder(t).FromString(`<a>x<b>y</b><b n="2">z</b></a>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, obj.(*counter).tags)
}

type failingParser struct {
	err error
}

func (p failingParser) Parse([]byte) (*domain.Node, error) {
	return nil, p.err
}

func TestFromString_MalformedInputPassesThrough(t *testing.T) {
	parseErr := &domain.MalformedInputError{Pos: domain.Position{Line: 3, Column: 7}, Err: errors.New("unexpected EOF")}
	_, err := newBuilder(t, arbor.WithParser(failingParser{err: parseErr})).FromString("<a>")

	var malformed *domain.MalformedInputError
	require.True(t, errors.As(err, &malformed))
	assert.Same(t, parseErr, malformed)

	_, err = newBuilder(t).FromString("<a>\n<b>\n</a>")
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "malformed_input", domain.ErrorKind(err))
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))
	assert.Equal(t, 3, malformed.Pos.Line)
}

func TestBuilder_ConcurrentBuilds(t *testing.T) {
	b := newBuilder(t)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			want := []string{fmt.Sprint(i)}
			for j := range i % 4 {
				want = append(want, fmt.Sprintf("%d.%d", i, j))
			}
			var doc strings.Builder
			fmt.Fprintf(&doc, "<a>%s", want[0])
			for _, text := range want[1:] {
				fmt.Fprintf(&doc, "<b>%s</b>", text)
			}
			doc.WriteString("</a>")

			obj, err := b.FromString(doc.String())
			if err != nil {
				errs <- err
				return
			}
			if got := obj.(*counter).tags; !assert.ObjectsAreEqual(want, got) {
				errs <- fmt.Errorf("worker %d: got %v, want %v", i, got, want)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestFromReader(t *testing.T) {
	obj, err := newBuilder(t).FromReader(strings.NewReader(`<a><b/></a>`))
	require.NoError(t, err)
	assert.Len(t, obj.(*counter).tags, 2)
}

func TestFromFileAndArgs(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "default.xml")
	other := filepath.Join(dir, "other.xml")
	require.NoError(t, os.WriteFile(def, []byte(`<a>default</a>`), 0644))
	require.NoError(t, os.WriteFile(other, []byte(`<a>other</a>`), 0644))

	b := newBuilder(t)

	obj, err := b.FromFile(def)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, obj.(*counter).tags)

	obj, err = b.FromArgs(nil, def)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, obj.(*counter).tags)

	obj, err = b.FromArgs([]string{other}, def)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, obj.(*counter).tags)

	_, err = b.FromFile(filepath.Join(dir, "missing.xml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFromSource(t *testing.T) {
	src := memory.NewSource(map[string]string{"doc": `<a><b/></a>`})
	b := newBuilder(t)

	obj, err := b.FromSource(context.Background(), src, "doc")
	require.NoError(t, err)
	assert.Len(t, obj.(*counter).tags, 2)

	_, err = b.FromSource(context.Background(), src, "nope")
	assert.True(t, errors.Is(err, ports.ErrDocumentNotFound))
}

func TestBuild_Typed(t *testing.T) {
	b := newBuilder(t)

	c, err := arbor.Build[*counter](b, `<a/>`)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, c.tags)

	_, err = arbor.Build[string](b, `<a/>`)
	assert.ErrorContains(t, err, "want string")
}

func TestWithParser_YAML(t *testing.T) {
	b := newBuilder(t, arbor.WithParser(yamltree.New()))
	obj, err := b.FromString("a:\n  - b: one\n  - b: two\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "one", "two"}, obj.(*counter).tags)
}

func TestWithAttributePolicy(t *testing.T) {
	_, err := newBuilder(t).FromString(`<a x="1"/>`)
	assert.True(t, errors.Is(err, domain.ErrUnexpectedAttribute))

	_, err = newBuilder(t, arbor.WithAttributePolicy(registry.AttributesLenient)).FromString(`<a x="1"/>`)
	assert.NoError(t, err)
}

func TestWithMaxDepth(t *testing.T) {
	_, err := newBuilder(t, arbor.WithMaxDepth(2)).FromString(`<a><a><a/></a></a>`)
	assert.True(t, errors.Is(err, domain.ErrDepthExceeded))

	_, err = newBuilder(t, arbor.WithMaxDepth(0)).FromString(strings.Repeat("<a>", 2000) + strings.Repeat("</a>", 2000))
	assert.NoError(t, err)
}

func TestWithLifecycleHooks(t *testing.T) {
	var events []string
	record := func(e *domain.ElementEvent) {
		events = append(events, string(e.Type)+":"+e.Tag)
	}
	b := newBuilder(t,
		arbor.WithLifecycleHooks(domain.LifecycleHooks{OnEnter: record}),
		arbor.WithLifecycleHooks(domain.LifecycleHooks{OnExit: record, OnError: record}),
	)

	_, err := b.FromString(`<a><b/></a>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"element_enter:a", "element_enter:b", "element_exit:b", "element_exit:a"}, events)

	events = nil
	_, err = b.FromString(`<a>`)
	require.Error(t, err)
	assert.Equal(t, []string{"build_error:"}, events)
}

func TestBuilder_Registry(t *testing.T) {
	b := newBuilder(t)
	assert.Equal(t, "counter", b.Registry().Name())
	assert.Equal(t, []string{"a", "b"}, b.Registry().Tags())
}
