package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/adapters/xmltree"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
)

// Builder is the high-level entry point for the arbor library.
// It pairs a frozen registry with a markup parser and the dispatcher.
// A Builder is safe for concurrent use as long as the transforms are.
type Builder struct {
	registry    *registry.Registry
	parser      ports.TreeParser
	dispatcher  *runtime.Dispatcher
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	policy      registry.AttributePolicy
	maxDepth    int
	maxDepthSet bool
}

// Option defines a functional option for configuring the Builder.
type Option func(*Builder)

// WithLogger sets a custom structured logger for the builder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithParser replaces the default XML parser.
func WithParser(p ports.TreeParser) Option {
	return func(b *Builder) {
		b.parser = p
	}
}

// WithLifecycleHooks registers observability hooks. Multiple calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Builder) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithAttributePolicy selects how undeclared attributes are handled (strict by default).
func WithAttributePolicy(p registry.AttributePolicy) Option {
	return func(b *Builder) {
		b.policy = p
	}
}

// WithMaxDepth bounds document nesting (default runtime.DefaultMaxDepth, 0 = unlimited).
func WithMaxDepth(n int) Option {
	return func(b *Builder) {
		b.maxDepth = n
		b.maxDepthSet = true
	}
}

// New creates a Builder for reg. The registry (and every registry mounted in it)
// is frozen: registering further tags on it fails from now on.
func New(reg *registry.Registry, opts ...Option) (*Builder, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	b := &Builder{registry: reg}
	for _, opt := range opts {
		opt(b)
	}

	if b.parser == nil {
		b.parser = xmltree.New()
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if reg.Name() != "" {
		b.logger = b.logger.With("registry", reg.Name())
	}

	dispatcherOpts := []runtime.Option{
		runtime.WithLogger(b.logger),
		runtime.WithLifecycleHooks(b.hooks),
		runtime.WithAttributePolicy(b.policy),
	}
	if b.maxDepthSet {
		dispatcherOpts = append(dispatcherOpts, runtime.WithMaxDepth(b.maxDepth))
	}
	b.dispatcher = runtime.NewDispatcher(dispatcherOpts...)

	reg.Freeze()
	return b, nil
}

// Registry returns the registry the builder dispatches against.
func (b *Builder) Registry() *registry.Registry {
	return b.registry
}

// Process dispatches an already parsed tree. parent is usually domain.NoParent.
func (b *Builder) Process(node *domain.Node, parent any) (any, error) {
	return b.dispatcher.Process(b.registry, node, parent)
}

// FromBytes parses data and builds the object tree rooted at its root element.
func (b *Builder) FromBytes(data []byte) (any, error) {
	start := time.Now()
	root, err := b.parser.Parse(data)
	if err != nil {
		b.logger.Debug("parse failed", "error", err)
		if b.hooks.OnError != nil {
			b.hooks.OnError(&domain.ElementEvent{Timestamp: time.Now(), Type: domain.EventBuildError, Registry: b.registry.Name(), Err: err})
		}
		return nil, err
	}
	obj, err := b.Process(root, domain.NoParent)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("document built", "root", root.Tag, "duration", time.Since(start))
	return obj, nil
}

// FromString is FromBytes for string input.
func (b *Builder) FromString(markup string) (any, error) {
	return b.FromBytes([]byte(markup))
}

// FromReader reads r to EOF and builds from its contents.
func (b *Builder) FromReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read markup: %w", err)
	}
	return b.FromBytes(data)
}

// FromFile builds from the named file.
func (b *Builder) FromFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markup file: %w", err)
	}
	b.logger.Debug("loaded markup file", "path", path, "bytes", len(data))
	return b.FromBytes(data)
}

// FromArgs builds from the file named by the first element of args, or from
// defaultPath when args is empty. It is meant for small programs that take an
// optional document path on the command line (pass os.Args[1:]).
func (b *Builder) FromArgs(args []string, defaultPath string) (any, error) {
	path := defaultPath
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	return b.FromFile(path)
}

// FromSource fetches the document stored under key and builds from it.
func (b *Builder) FromSource(ctx context.Context, src ports.DocumentSource, key string) (any, error) {
	data, err := src.Fetch(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", key, err)
	}
	return b.FromBytes(data)
}

// Build runs FromString and asserts the type of the root object.
func Build[T any](b *Builder, markup string) (T, error) {
	var zero T
	obj, err := b.FromString(markup)
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("root transform produced %T, want %T", obj, zero)
	}
	return typed, nil
}
