package manifest

import "context"

// Middleware provides hooks for intercepting container operations.
// Middleware can be used for logging, metrics, security, testing, etc.
// The chain is fixed when the container is built (WithMiddleware).
type Middleware interface {
	// BeforeResolve is called before resolving a service.
	// Return error to abort resolution.
	BeforeResolve(ctx context.Context, name string) error

	// AfterResolve is called after resolving a service.
	// Called even if resolution failed (service and err may both be set).
	// For collection resolution, service is the resolved slice.
	AfterResolve(ctx context.Context, name string, service any, err error) error

	// AfterDispose is called once after the container has released its
	// owned singletons. err aggregates any disposer failures.
	AfterDispose(ctx context.Context, err error)
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

// beforeResolve calls BeforeResolve on all middleware.
func (m *middlewareChain) beforeResolve(ctx context.Context, name string) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeResolve(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// afterResolve calls AfterResolve on all middleware.
func (m *middlewareChain) afterResolve(ctx context.Context, name string, service any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterResolve(ctx, name, service, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// afterDispose calls AfterDispose on all middleware.
func (m *middlewareChain) afterDispose(ctx context.Context, err error) {
	for _, mw := range m.middleware {
		mw.AfterDispose(ctx, err)
	}
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(ctx context.Context, name string) error
	AfterResolveFunc  func(ctx context.Context, name string, service any, err error) error
	AfterDisposeFunc  func(ctx context.Context, err error)
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(ctx context.Context, name string) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(ctx, name)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(ctx context.Context, name string, service any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(ctx, name, service, err)
	}
	return nil
}

// AfterDispose implements Middleware.
func (f *FuncMiddleware) AfterDispose(ctx context.Context, err error) {
	if f.AfterDisposeFunc != nil {
		f.AfterDisposeFunc(ctx, err)
	}
}
