package domain

import "time"

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventElementEnter EventType = "element_enter"
	EventElementExit  EventType = "element_exit"
	EventBuildError   EventType = "build_error"
)

// ElementEvent describes a node being dispatched.
type ElementEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Registry  string    `json:"registry"`
	Tag       string    `json:"tag"`
	Depth     int       `json:"depth"`
	Pos       Position  `json:"pos"`
	// TwoStep is set when the transform returned an enter/exit handle.
	TwoStep bool `json:"two_step,omitempty"`
	// Err is only set on EventBuildError.
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for builder observability.
// OnEnter fires after a transform produced its object, before children are visited.
// OnExit fires after the subtree (and the exit step, if any) completed.
// OnError fires once, at the node where the build failed.
type LifecycleHooks struct {
	OnEnter func(*ElementEvent)
	OnExit  func(*ElementEvent)
	OnError func(*ElementEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEnter: chain(h.OnEnter, other.OnEnter),
		OnExit:  chain(h.OnExit, other.OnExit),
		OnError: chain(h.OnError, other.OnError),
	}
}

func chain(a, b func(*ElementEvent)) func(*ElementEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e *ElementEvent) {
		a(e)
		b(e)
	}
}
