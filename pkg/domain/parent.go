package domain

// rootMarker is the dynamic type of NoParent. It is not zero-sized so that
// its address is unique. It has no methods, so it satisfies no interface
// but the empty one.
type rootMarker struct {
	label string
}

// NoParent is passed as the parent object to the transform of the document root.
// It is distinct from nil and from every domain object; compare by identity.
var NoParent any = &rootMarker{label: "top-level node"}

// IsNoParent reports whether parent is the NoParent sentinel.
func IsNoParent(parent any) bool {
	return parent == NoParent
}
