package flowstack

import (
	"fmt"
	"log/slog"
)

// Resolver builds the content for a presented value.
type Resolver func(env *Env, v Value) (Content, error)

// Registry maps value type keys to destination resolvers. Registration is
// additive: a later registration for the same type key replaces the earlier
// one, and entries are never removed.
type Registry struct {
	table map[string]Resolver
}

// NewRegistry creates an empty destination registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[string]Resolver)}
}

// Register associates a resolver with a type key.
func (r *Registry) Register(typeKey string, fn Resolver) *Registry {
	r.table[typeKey] = fn
	return r
}

// Has reports whether a destination is registered for the type key.
func (r *Registry) Has(typeKey string) bool {
	_, ok := r.table[typeKey]
	return ok
}

// Len returns the number of registered destinations.
func (r *Registry) Len() int {
	return len(r.table)
}

// Resolve builds the content for v using the destination registered for
// its type key.
func (r *Registry) Resolve(env *Env, v Value) (Content, error) {
	if v == nil {
		return nil, fmt.Errorf("resolve nil value: %w", ErrNoDestination)
	}
	fn, ok := r.table[v.TypeKey()]
	if !ok {
		return nil, fmt.Errorf("resolve %s: %w", v.TypeKey(), ErrNoDestination)
	}
	return fn(env, v)
}

// RegisterDestination associates destination content with values of type T
// wrapped by [ValueOf].
//
//	flowstack.RegisterDestination(stack.Registry(), func(env *flowstack.Env, p Product) flowstack.Content {
//		return newProductDetail(env, p)
//	})
func RegisterDestination[T comparable](r *Registry, fn func(env *Env, v T) Content) {
	key := TypeKeyOf[T]()
	r.Register(key, func(env *Env, v Value) (Content, error) {
		it, ok := v.(Item[T])
		if !ok {
			return nil, fmt.Errorf("resolve %s as %s: %w", v.TypeKey(), key, ErrDestinationMismatch)
		}
		return fn(env, it.V), nil
	})
}

// resolveOrDiscard resolves v. Failures are programmer errors: they panic
// in debug mode and otherwise render nothing for the element.
func (r *Registry) resolveOrDiscard(env *Env, v Value) Content {
	c, err := r.Resolve(env, v)
	if err != nil {
		if globalDebug {
			panic(fmt.Sprintf("flowstack debug: %v", err))
		}
		Logger().Warn("flowstack: destination not rendered", slog.Any("err", err))
		return nil
	}
	return c
}
