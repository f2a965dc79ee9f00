/*
Package observability exposes Prometheus metrics for arbor builds.

Metrics are fed through domain.LifecycleHooks, so they can be attached to any
Builder with arbor.WithLifecycleHooks(m.Hooks()).
*/
package observability
