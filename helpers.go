package manifest

import (
	"fmt"

	logger "github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
)

// Resolve with type safety. Missing services are a hard error here: a typed
// result has no way to express the untyped nil-on-miss contract, so this
// wraps ResolveRequired. Use Lookup for the optional form.
func Resolve[T any](r Resolver, name string) (T, error) {
	var zero T

	instance, err := r.ResolveRequired(name)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(name, instance)
	}

	return typed, nil
}

// Lookup resolves a service that may be absent. The boolean reports whether
// a usable value was returned; a missing service yields (zero, false, nil).
func Lookup[T any](r Resolver, name string) (T, bool, error) {
	var zero T

	instance, err := r.Resolve(name)
	if err != nil {
		return zero, false, err
	}

	if instance == nil {
		return zero, false, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, false, ErrTypeMismatch(name, instance)
	}

	return typed, true, nil
}

// ResolveAll with type safety. Every registered instance for name must be
// of type T; absence yields an empty slice.
func ResolveAll[T any](r Resolver, name string) ([]T, error) {
	instances, err := r.ResolveAll(name)
	if err != nil {
		return nil, err
	}

	typed := make([]T, 0, len(instances))
	for _, instance := range instances {
		t, ok := instance.(T)
		if !ok {
			return nil, ErrTypeMismatch(name, instance)
		}

		typed = append(typed, t)
	}

	return typed, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](r Resolver, name string) T {
	instance, err := Resolve[T](r, name)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", name, err))
	}

	return instance
}

// AddSingleton is a convenience wrapper for singleton registrations.
func AddSingleton[T any](r *Registry, name string, factory func(Resolver) (T, error)) error {
	return r.Add(name, func(res Resolver) (any, error) {
		return factory(res)
	}, Singleton())
}

// AddTransient is a convenience wrapper for transient registrations.
func AddTransient[T any](r *Registry, name string, factory func(Resolver) (T, error)) error {
	return r.Add(name, func(res Resolver) (any, error) {
		return factory(res)
	}, Transient())
}

// AddScoped is a convenience wrapper for scoped registrations.
func AddScoped[T any](r *Registry, name string, factory func(Resolver) (T, error)) error {
	return r.Add(name, func(res Resolver) (any, error) {
		return factory(res)
	}, Scoped())
}

// AddValue registers a pre-built instance (always singleton, never owned).
func AddValue[T any](r *Registry, name string, instance T) error {
	return r.AddInstance(name, instance)
}

// GetLogger resolves the logger from the resolver
// This is a convenience function for resolving the conventional "logger"
// service and asserting it to the go-utils logger interface.
func GetLogger(r Resolver) (logger.Logger, error) {
	l, err := r.ResolveRequired("logger")
	if err != nil {
		return nil, err
	}

	log, ok := l.(logger.Logger)
	if !ok {
		return nil, fmt.Errorf("resolved instance is not Logger, got %T", l)
	}

	return log, nil
}

// GetMetrics resolves the metrics from the resolver
// This is a convenience function for resolving the conventional "metrics"
// service and asserting it to the go-utils metrics interface.
func GetMetrics(r Resolver) (metrics.Metrics, error) {
	m, err := r.ResolveRequired("metrics")
	if err != nil {
		return nil, err
	}

	mx, ok := m.(metrics.Metrics)
	if !ok {
		return nil, fmt.Errorf("resolved instance is not Metrics, got %T", m)
	}

	return mx, nil
}
