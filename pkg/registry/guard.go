package registry

import "github.com/aretw0/arbor/pkg/domain"

// ParentGuard decides whether a transform accepts the object produced by its parent.
// A nil guard accepts every parent, including domain.NoParent.
type ParentGuard func(parent any) bool

// Is accepts parents whose dynamic type is (or implements) T.
// domain.NoParent is never accepted, even when T is an interface type.
func Is[T any]() ParentGuard {
	return func(parent any) bool {
		if domain.IsNoParent(parent) {
			return false
		}
		_, ok := parent.(T)
		return ok
	}
}

// Root accepts only the domain.NoParent sentinel, i.e. the document root.
func Root() ParentGuard {
	return domain.IsNoParent
}

// Where wraps an arbitrary predicate.
func Where(pred func(parent any) bool) ParentGuard {
	return pred
}

// OneOf accepts a parent if any of the guards accepts it. Nil guards are skipped.
func OneOf(guards ...ParentGuard) ParentGuard {
	return func(parent any) bool {
		for _, g := range guards {
			if g != nil && g(parent) {
				return true
			}
		}
		return false
	}
}
