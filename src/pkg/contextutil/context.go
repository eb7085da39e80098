// Package contextutil provides type-safe storage and retrieval of values
// carried in a context.Context.
package contextutil

import "context"

// ctxKey is keyed by the stored type, so two values of distinct types never collide.
type ctxKey[T any] struct{}

// SetTyped stores val in ctx under its own type.
func SetTyped[T any](ctx context.Context, val T) context.Context {
	return context.WithValue(ctx, ctxKey[T]{}, val)
}

// TryRetrieveTyped returns the value of type T stored in ctx and whether it was present.
func TryRetrieveTyped[T any](ctx context.Context) (T, bool) {
	val, ok := ctx.Value(ctxKey[T]{}).(T)
	return val, ok
}

// TraceParent is a W3C traceparent header value pinned to a context.
type TraceParent string

// WithTraceParent pins tp to ctx so every request issued with the returned
// context reuses it instead of minting a fresh one.
func WithTraceParent(ctx context.Context, tp string) context.Context {
	return SetTyped(ctx, TraceParent(tp))
}

// TraceParentFrom returns the traceparent pinned to ctx, if any.
func TraceParentFrom(ctx context.Context) (string, bool) {
	tp, ok := TryRetrieveTyped[TraceParent](ctx)
	return string(tp), ok && tp != ""
}
