package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error produced by the builder unwraps to one of these.
var (
	// ErrUnhandledElement is returned when a tag has no binding and no sub-registry.
	ErrUnhandledElement = errors.New("unhandled element")
	// ErrInvalidParent is returned when a parent guard rejects the parent object.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrDuplicateBinding is returned when a tag is registered twice in one registry.
	ErrDuplicateBinding = errors.New("duplicate binding")
	// ErrMisusedTwoStep is returned when a two-step transform suspends more than once,
	// never suspends, or is resumed twice.
	ErrMisusedTwoStep = errors.New("misused two-step transform")
	// ErrUnexpectedAttribute is returned in strict mode for undeclared attributes.
	ErrUnexpectedAttribute = errors.New("unexpected attribute")
	// ErrMissingAttribute is returned when a required parameter has no attribute.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrAttributeCollision is returned when two attribute names coerce to the same key.
	ErrAttributeCollision = errors.New("attribute collision")
	// ErrDepthExceeded is returned when the tree is deeper than the configured bound.
	ErrDepthExceeded = errors.New("maximum depth exceeded")
	// ErrMalformedInput wraps errors reported by the markup parser.
	ErrMalformedInput = errors.New("malformed input")
	// ErrTransformFailed wraps errors returned by user transforms.
	ErrTransformFailed = errors.New("transform failed")
	// ErrRegistryCycle is returned when mounting a sub-registry would create a cycle.
	ErrRegistryCycle = errors.New("registry cycle")
	// ErrRegistryFrozen is returned when registering on a registry that is in use.
	ErrRegistryFrozen = errors.New("registry is frozen")
)

// RegistryRef identifies a registry in error values without importing the registry package.
type RegistryRef interface {
	Name() string
}

// BindingRef identifies the binding whose guard rejected a parent.
type BindingRef interface {
	Accepts(parent any) bool
}

func registryName(r RegistryRef) string {
	if r == nil || r.Name() == "" {
		return "unnamed registry"
	}
	return fmt.Sprintf("registry %q", r.Name())
}

// UnhandledElementError reports a node whose tag is not declared in the registry that resolved it.
type UnhandledElementError struct {
	Registry RegistryRef
	Node     *Node
}

func (e *UnhandledElementError) Error() string {
	return fmt.Sprintf("%s: no transform for %s in %s", ErrUnhandledElement, e.Node, registryName(e.Registry))
}

func (e *UnhandledElementError) Unwrap() error { return ErrUnhandledElement }

// InvalidParentError reports a parent guard rejection.
type InvalidParentError struct {
	Registry RegistryRef
	Binding  BindingRef
	Tag      string
	Parent   any
	Node     *Node
}

func (e *InvalidParentError) Error() string {
	return fmt.Sprintf("%s: %s (%s) does not accept parent %v (%T)", ErrInvalidParent, e.Node, registryName(e.Registry), e.Parent, e.Parent)
}

func (e *InvalidParentError) Unwrap() error { return ErrInvalidParent }

// DuplicateBindingError reports a registration for a tag that is already bound.
type DuplicateBindingError struct {
	Registry RegistryRef
	Tag      string
	// Existing is "transform" or "sub-registry".
	Existing string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("%s: tag %q already bound to a %s in %s", ErrDuplicateBinding, e.Tag, e.Existing, registryName(e.Registry))
}

func (e *DuplicateBindingError) Unwrap() error { return ErrDuplicateBinding }

// MisusedTwoStepError reports a two-step transform that broke the single-suspension contract.
type MisusedTwoStepError struct {
	Tag    string
	Node   *Node
	Reason string
}

func (e *MisusedTwoStepError) Error() string {
	where := e.Tag
	if e.Node != nil {
		where = e.Node.String()
	}
	if where == "" {
		return fmt.Sprintf("%s: %s", ErrMisusedTwoStep, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMisusedTwoStep, where, e.Reason)
}

func (e *MisusedTwoStepError) Unwrap() error { return ErrMisusedTwoStep }

// UnexpectedAttributeError reports an attribute with no declared parameter.
type UnexpectedAttributeError struct {
	Tag       string
	Attribute string
	Node      *Node
}

func (e *UnexpectedAttributeError) Error() string {
	return fmt.Sprintf("%s: %s has no parameter %q", ErrUnexpectedAttribute, e.Node, e.Attribute)
}

func (e *UnexpectedAttributeError) Unwrap() error { return ErrUnexpectedAttribute }

// MissingAttributeError reports a required parameter with no attribute.
type MissingAttributeError struct {
	Tag   string
	Param string
	Node  *Node
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: %s requires %q", ErrMissingAttribute, e.Node, e.Param)
}

func (e *MissingAttributeError) Unwrap() error { return ErrMissingAttribute }

// AttributeCollisionError reports raw attribute names that coerce to the same key.
type AttributeCollisionError struct {
	Tag   string
	Key   string
	Names []string
	Node  *Node
}

func (e *AttributeCollisionError) Error() string {
	return fmt.Sprintf("%s: %s attributes %s all bind to %q", ErrAttributeCollision, e.Node, strings.Join(e.Names, ", "), e.Key)
}

func (e *AttributeCollisionError) Unwrap() error { return ErrAttributeCollision }

// DepthExceededError reports a node nested deeper than the configured limit.
type DepthExceededError struct {
	Limit int
	Node  *Node
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("%s: %s is nested deeper than %d", ErrDepthExceeded, e.Node, e.Limit)
}

func (e *DepthExceededError) Unwrap() error { return ErrDepthExceeded }

// MalformedInputError wraps a parser failure.
type MalformedInputError struct {
	Pos Position
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Pos.IsKnown() {
		return fmt.Sprintf("%s at %s: %v", ErrMalformedInput, e.Pos, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrMalformedInput, e.Err)
}

// Unwrap exposes both the sentinel and the parser's own error.
func (e *MalformedInputError) Unwrap() []error { return []error{ErrMalformedInput, e.Err} }

// TransformError wraps an error returned by a user transform (or its exit step).
type TransformError struct {
	Tag  string
	Node *Node
	Exit bool
	Err  error
}

func (e *TransformError) Error() string {
	step := "transform"
	if e.Exit {
		step = "exit step"
	}
	return fmt.Sprintf("%s %s: %v", e.Node, step, e.Err)
}

func (e *TransformError) Unwrap() []error { return []error{ErrTransformFailed, e.Err} }

// ErrorKind classifies err into a short snake_case label used by metrics and HTTP responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrUnhandledElement):
		return "unhandled_element"
	case errors.Is(err, ErrInvalidParent):
		return "invalid_parent"
	case errors.Is(err, ErrMisusedTwoStep):
		return "misused_two_step"
	case errors.Is(err, ErrUnexpectedAttribute):
		return "unexpected_attribute"
	case errors.Is(err, ErrMissingAttribute):
		return "missing_attribute"
	case errors.Is(err, ErrAttributeCollision):
		return "attribute_collision"
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	case errors.Is(err, ErrDuplicateBinding):
		return "duplicate_binding"
	case errors.Is(err, ErrRegistryCycle):
		return "registry_cycle"
	case errors.Is(err, ErrRegistryFrozen):
		return "registry_frozen"
	case errors.Is(err, ErrTransformFailed):
		return "transform_failed"
	default:
		return "internal"
	}
}

// ErrorNode extracts the offending node from any builder error, if it carries one.
func ErrorNode(err error) *Node {
	var (
		unhandled  *UnhandledElementError
		parent     *InvalidParentError
		twoStep    *MisusedTwoStepError
		unexpected *UnexpectedAttributeError
		missing    *MissingAttributeError
		collision  *AttributeCollisionError
		depth      *DepthExceededError
		transform  *TransformError
	)
	switch {
	case errors.As(err, &unhandled):
		return unhandled.Node
	case errors.As(err, &parent):
		return parent.Node
	case errors.As(err, &twoStep):
		return twoStep.Node
	case errors.As(err, &unexpected):
		return unexpected.Node
	case errors.As(err, &missing):
		return missing.Node
	case errors.As(err, &collision):
		return collision.Node
	case errors.As(err, &depth):
		return depth.Node
	case errors.As(err, &transform):
		return transform.Node
	}
	return nil
}
