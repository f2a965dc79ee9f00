package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/domain"
)

// Entry is what a tag resolves to: exactly one of Binding or Sub is set.
type Entry struct {
	Tag     string
	Binding *Binding
	Sub     *Registry
}

// Registry manages the tag vocabulary of one nesting level.
type Registry struct {
	name     string
	mu       sync.RWMutex
	bindings map[string]*Binding
	subs     map[string]*Registry
	frozen   atomic.Bool
}

// New creates a new empty registry. The name is only used in diagnostics.
func New(name string) *Registry {
	return &Registry{
		name:     name,
		bindings: make(map[string]*Binding),
		subs:     make(map[string]*Registry),
	}
}

// Name returns the diagnostic name of the registry.
func (r *Registry) Name() string {
	return r.name
}

func (r *Registry) String() string {
	if r.name == "" {
		return "registry(unnamed)"
	}
	return "registry(" + r.name + ")"
}

// Register binds tag to a transform.
// It fails with domain.ErrDuplicateBinding if the tag is already bound here,
// either to a transform or to a sub-registry; use Unregister first to replace it.
func (r *Registry) Register(tag string, fn Transform, opts ...BindingOption) error {
	if tag == "" {
		return fmt.Errorf("%s: empty tag", r)
	}
	if fn == nil {
		return fmt.Errorf("%s: nil transform for tag %q", r, tag)
	}
	b := &Binding{Tag: tag, Transform: fn}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.validate(); err != nil {
		return fmt.Errorf("%s: %w", r, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkFree(tag); err != nil {
		return err
	}
	r.bindings[tag] = b
	return nil
}

// MustRegister is like Register but panics on error. It returns r for chaining.
func (r *Registry) MustRegister(tag string, fn Transform, opts ...BindingOption) *Registry {
	if err := r.Register(tag, fn, opts...); err != nil {
		panic(err)
	}
	return r
}

// Mount delegates tag, and the whole subtree below it, to sub.
// The same registry may be mounted in several parents, but never in a cycle.
func (r *Registry) Mount(tag string, sub *Registry) error {
	if tag == "" {
		return fmt.Errorf("%s: empty tag", r)
	}
	if sub == nil {
		return fmt.Errorf("%s: nil sub-registry for tag %q", r, tag)
	}
	if sub == r || sub.reaches(r) {
		return fmt.Errorf("%w: mounting %s under %q in %s", domain.ErrRegistryCycle, sub, tag, r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkFree(tag); err != nil {
		return err
	}
	r.subs[tag] = sub
	return nil
}

// MustMount is like Mount but panics on error. It returns r for chaining.
func (r *Registry) MustMount(tag string, sub *Registry) *Registry {
	if err := r.Mount(tag, sub); err != nil {
		panic(err)
	}
	return r
}

// Unregister removes whatever tag is bound to. Removing an unbound tag is a no-op.
func (r *Registry) Unregister(tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return fmt.Errorf("%w: %s", domain.ErrRegistryFrozen, r)
	}
	delete(r.bindings, tag)
	delete(r.subs, tag)
	return nil
}

// checkFree must be called with the write lock held.
func (r *Registry) checkFree(tag string) error {
	if r.frozen.Load() {
		return fmt.Errorf("%w: cannot bind %q in %s", domain.ErrRegistryFrozen, tag, r)
	}
	if _, ok := r.bindings[tag]; ok {
		return &domain.DuplicateBindingError{Registry: r, Tag: tag, Existing: "transform"}
	}
	if _, ok := r.subs[tag]; ok {
		return &domain.DuplicateBindingError{Registry: r, Tag: tag, Existing: "sub-registry"}
	}
	return nil
}

// reaches reports whether target is mounted anywhere below r.
func (r *Registry) reaches(target *Registry) bool {
	seen := make(map[*Registry]bool)
	var visit func(*Registry) bool
	visit = func(cur *Registry) bool {
		if seen[cur] {
			return false
		}
		seen[cur] = true
		cur.mu.RLock()
		subs := make([]*Registry, 0, len(cur.subs))
		for _, s := range cur.subs {
			subs = append(subs, s)
		}
		cur.mu.RUnlock()
		for _, s := range subs {
			if s == target || visit(s) {
				return true
			}
		}
		return false
	}
	return visit(r)
}

// Resolve looks up tag by exact match.
func (r *Registry) Resolve(tag string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.bindings[tag]; ok {
		return Entry{Tag: tag, Binding: b}, true
	}
	if s, ok := r.subs[tag]; ok {
		return Entry{Tag: tag, Sub: s}, true
	}
	return Entry{}, false
}

// Entries returns every binding and sub-registry, sorted by tag.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.bindings)+len(r.subs))
	for tag, b := range r.bindings {
		entries = append(entries, Entry{Tag: tag, Binding: b})
	}
	for tag, s := range r.subs {
		entries = append(entries, Entry{Tag: tag, Sub: s})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
	return entries
}

// Tags returns the bound tags, sorted.
func (r *Registry) Tags() []string {
	entries := r.Entries()
	tags := make([]string, len(entries))
	for i, e := range entries {
		tags[i] = e.Tag
	}
	return tags
}

// Freeze makes r and every registry mounted below it immutable.
// Builders freeze their registry so that no transform can register bindings mid-walk.
func (r *Registry) Freeze() {
	if r.frozen.Swap(true) {
		return
	}
	for _, e := range r.Entries() {
		if e.Sub != nil {
			e.Sub.Freeze()
		}
	}
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}
