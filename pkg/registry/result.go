package registry

import (
	"iter"

	"github.com/aretw0/arbor/pkg/domain"
)

type resultKind uint8

const (
	kindValue resultKind = iota
	kindEnter
	kindYield
)

// Result is what a Transform produces: either an immediate object, or a two-step
// handle whose enter value is used as the parent of the children and whose exit
// step runs once the whole subtree has been built.
type Result struct {
	kind  resultKind
	value any
	exit  func() error
	seq   iter.Seq[any]
}

// Value returns an immediate result.
func Value(v any) Result {
	return Result{kind: kindValue, value: v}
}

// Enter returns a two-step result. exit may be nil.
// The builder returns v to the caller of the subtree; whatever exit does is a side effect.
func Enter(v any, exit func() error) Result {
	return Result{kind: kindEnter, value: v, exit: exit}
}

// Yield returns a generator-style two-step result. The sequence must yield
// exactly one value; the code after that yield runs as the exit step.
//
//	return registry.Yield(func(yield func(any) bool) {
//		sizer := newSizer()
//		if !yield(sizer) {
//			return
//		}
//		sizer.Layout()
//	}), nil
func Yield(seq iter.Seq[any]) Result {
	return Result{kind: kindYield, seq: seq}
}

// IsTwoStep reports whether the result has an exit step.
func (r Result) IsTwoStep() bool {
	return r.kind != kindValue
}

// Begin starts the result's lifecycle and returns the suspension holding the
// object for the children. For generator results this runs the generator up to its
// first yield.
func (r Result) Begin() (*Suspension, error) {
	switch r.kind {
	case kindEnter:
		return &Suspension{value: r.value, exit: r.exit, twoStep: true}, nil
	case kindYield:
		return beginSeq(r.seq)
	default:
		return &Suspension{value: r.value}, nil
	}
}

func beginSeq(seq iter.Seq[any]) (*Suspension, error) {
	if seq == nil {
		return nil, &domain.MisusedTwoStepError{Reason: "nil generator"}
	}
	next, stop := iter.Pull(seq)
	v, ok := next()
	if !ok {
		stop()
		return nil, &domain.MisusedTwoStepError{Reason: "generator finished without yielding"}
	}
	return &Suspension{
		value:   v,
		twoStep: true,
		stop:    stop,
		exit: func() error {
			defer stop()
			if _, again := next(); again {
				return &domain.MisusedTwoStepError{Reason: "generator yielded more than once"}
			}
			return nil
		},
	}, nil
}
