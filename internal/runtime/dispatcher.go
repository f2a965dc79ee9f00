package runtime

import (
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// DefaultMaxDepth bounds recursion unless WithMaxDepth overrides it.
const DefaultMaxDepth = 1024

// Dispatcher walks a node tree and invokes the transform bound to each tag.
// It holds no per-walk state, so one Dispatcher may serve concurrent walks.
type Dispatcher struct {
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	policy   registry.AttributePolicy
	maxDepth int
	now      func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-element debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = d.hooks.Merge(hooks)
	}
}

// WithAttributePolicy selects strict or lenient handling of undeclared attributes.
func WithAttributePolicy(p registry.AttributePolicy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// WithMaxDepth bounds the nesting depth of documents; 0 disables the check.
func WithMaxDepth(n int) Option {
	return func(d *Dispatcher) {
		d.maxDepth = n
	}
}

// NewDispatcher creates a dispatcher. Without options it is strict, silent,
// and bounded at DefaultMaxDepth.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:   logging.NewNop(),
		policy:   registry.AttributesStrict,
		maxDepth: DefaultMaxDepth,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Process dispatches node and its subtree against reg, starting with parent
// (domain.NoParent for a document root). It returns the object produced for node.
// Any error aborts the walk; no partial result is returned.
func (d *Dispatcher) Process(reg *registry.Registry, node *domain.Node, parent any) (any, error) {
	obj, err := d.process(reg, node, parent, 0)
	if err != nil {
		d.fail(reg, err)
		return nil, err
	}
	return obj, nil
}

func (d *Dispatcher) process(reg *registry.Registry, node *domain.Node, parent any, depth int) (any, error) {
	if d.maxDepth > 0 && depth >= d.maxDepth {
		return nil, &domain.DepthExceededError{Limit: d.maxDepth, Node: node}
	}

	// Resolve, following sub-registries: a sub-registry owns the node and its descendants.
	entry, ok := reg.Resolve(node.Tag)
	for ok && entry.Sub != nil {
		d.logger.Debug("delegating element", "tag", node.Tag, "from", reg.Name(), "to", entry.Sub.Name())
		reg = entry.Sub
		entry, ok = reg.Resolve(node.Tag)
	}
	if !ok {
		return nil, &domain.UnhandledElementError{Registry: reg, Node: node}
	}
	binding := entry.Binding

	if !binding.Accepts(parent) {
		return nil, &domain.InvalidParentError{Registry: reg, Binding: binding, Tag: node.Tag, Parent: parent, Node: node}
	}

	args, dropped, err := binding.Bind(node, d.policy)
	if err != nil {
		return nil, err
	}
	if len(dropped) > 0 {
		d.logger.Warn("dropped undeclared attributes", "tag", node.Tag, "pos", node.Pos.String(), "attributes", dropped)
	}

	res, err := binding.Transform(parent, node.Text, args)
	if err != nil {
		return nil, wrapTransformErr(node, false, err)
	}
	step, err := res.Begin()
	if err != nil {
		return nil, annotateTwoStep(node, err)
	}
	// A failed child leaves the suspension pending; release it without running exit.
	defer step.Discard()

	obj := step.Value()
	d.emit(d.hooks.OnEnter, domain.EventElementEnter, reg, node, depth, step.TwoStep())
	d.logger.Debug("entered element", "registry", reg.Name(), "tag", node.Tag, "depth", depth, "two_step", step.TwoStep())

	for _, child := range node.Children {
		if _, err := d.process(reg, child, obj, depth+1); err != nil {
			return nil, err
		}
	}

	if err := step.Resume(); err != nil {
		var misuse *domain.MisusedTwoStepError
		if errors.As(err, &misuse) {
			return nil, annotateTwoStep(node, err)
		}
		return nil, wrapTransformErr(node, true, err)
	}
	d.emit(d.hooks.OnExit, domain.EventElementExit, reg, node, depth, step.TwoStep())

	return obj, nil
}

func (d *Dispatcher) emit(hook func(*domain.ElementEvent), typ domain.EventType, reg *registry.Registry, node *domain.Node, depth int, twoStep bool) {
	if hook == nil {
		return
	}
	hook(&domain.ElementEvent{
		Timestamp: d.now(),
		Type:      typ,
		Registry:  reg.Name(),
		Tag:       node.Tag,
		Depth:     depth,
		Pos:       node.Pos,
		TwoStep:   twoStep,
	})
}

func (d *Dispatcher) fail(reg *registry.Registry, err error) {
	node := domain.ErrorNode(err)
	d.logger.Debug("build failed", "error", err, "kind", domain.ErrorKind(err))
	if d.hooks.OnError == nil {
		return
	}
	ev := &domain.ElementEvent{
		Timestamp: d.now(),
		Type:      domain.EventBuildError,
		Registry:  reg.Name(),
		Err:       err,
	}
	if node != nil {
		ev.Tag = node.Tag
		ev.Pos = node.Pos
	}
	d.hooks.OnError(ev)
}

func wrapTransformErr(node *domain.Node, exit bool, err error) error {
	var misuse *domain.MisusedTwoStepError
	if errors.As(err, &misuse) {
		return annotateTwoStep(node, err)
	}
	return &domain.TransformError{Tag: node.Tag, Node: node, Exit: exit, Err: err}
}

// annotateTwoStep fills in the node of a two-step misuse reported by the lifecycle controller.
func annotateTwoStep(node *domain.Node, err error) error {
	var misuse *domain.MisusedTwoStepError
	if errors.As(err, &misuse) && misuse.Node == nil {
		misuse.Tag = node.Tag
		misuse.Node = node
	}
	return err
}
