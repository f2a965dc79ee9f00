package registry

import "github.com/aretw0/arbor/pkg/domain"

// Suspension is a started Result. It is affine: Resume runs the exit step at
// most once, and Discard abandons it without running the exit step.
type Suspension struct {
	value   any
	exit    func() error
	stop    func()
	twoStep bool
	done    bool
}

// Value returns the enter value, i.e. the parent object for the children.
func (s *Suspension) Value() any {
	return s.value
}

// TwoStep reports whether the suspension has an exit step.
func (s *Suspension) TwoStep() bool {
	return s.twoStep
}

// Done reports whether the suspension was resumed or discarded.
func (s *Suspension) Done() bool {
	return s.done
}

// Resume runs the exit step. Calling Resume a second time fails with
// domain.ErrMisusedTwoStep without touching the transform again.
func (s *Suspension) Resume() error {
	if s.done {
		return &domain.MisusedTwoStepError{Reason: "resumed more than once"}
	}
	s.done = true
	if s.exit == nil {
		return nil
	}
	return s.exit()
}

// Discard releases the suspension without running its exit step.
// It is a no-op on a suspension that is already done.
func (s *Suspension) Discard() {
	if s.done {
		return
	}
	s.done = true
	if s.stop != nil {
		s.stop()
	}
}
