/*
Package domain contains the data model shared by every arbor package.

It is kept free of I/O and of the registry/dispatch logic, so that parsers,
sources and the builder can all depend on it.

# Key Entities

  - Node: one element of a parsed markup tree (tag, optional text, ordered attributes, children).
  - NoParent: the sentinel passed as parent to the root transform.
  - Errors: sentinel values (ErrUnhandledElement, ErrInvalidParent, ...) and the typed errors
    that carry the offending node and registry.
  - LifecycleHooks: enter/exit/error callbacks used for logging and metrics.
*/
package domain
