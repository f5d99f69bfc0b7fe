package manifest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_BeforeResolve(t *testing.T) {
	var seen []string

	mw := &FuncMiddleware{
		BeforeResolveFunc: func(ctx context.Context, name string) error {
			seen = append(seen, name)
			return nil
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("svc", func(r Resolver) (any, error) {
		return &mockService{name: "svc"}, nil
	}))

	c := reg.Build(WithMiddleware(mw))

	_, err := c.Resolve("svc")
	require.NoError(t, err)
	_, err = c.Resolve("other")
	require.NoError(t, err)

	assert.Equal(t, []string{"svc", "other"}, seen)
}

func TestMiddleware_BeforeResolveAborts(t *testing.T) {
	blocked := errors.New("resolution blocked")
	factoryCalled := false

	mw := &FuncMiddleware{
		BeforeResolveFunc: func(ctx context.Context, name string) error {
			if name == "secret" {
				return blocked
			}
			return nil
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("secret", func(r Resolver) (any, error) {
		factoryCalled = true
		return &mockService{name: "secret"}, nil
	}))
	require.NoError(t, reg.Add("public", func(r Resolver) (any, error) {
		return &mockService{name: "public"}, nil
	}))

	c := reg.Build(WithMiddleware(mw))

	_, err := c.Resolve("secret")
	assert.ErrorIs(t, err, blocked)
	assert.False(t, factoryCalled)

	svc, err := c.Resolve("public")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestMiddleware_AfterResolveObserves(t *testing.T) {
	var gotName string
	var gotService any
	var gotErr error

	mw := &FuncMiddleware{
		AfterResolveFunc: func(ctx context.Context, name string, service any, err error) error {
			gotName = name
			gotService = service
			gotErr = err
			return nil
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("svc", func(r Resolver) (any, error) {
		return &mockService{name: "svc"}, nil
	}))
	require.NoError(t, reg.Add("bad", func(r Resolver) (any, error) {
		return nil, errors.New("boom")
	}, Transient()))

	c := reg.Build(WithMiddleware(mw))

	svc, err := c.Resolve("svc")
	require.NoError(t, err)
	assert.Equal(t, "svc", gotName)
	assert.Same(t, svc, gotService)
	assert.NoError(t, gotErr)

	_, err = c.Resolve("bad")
	assert.Error(t, err)
	assert.Equal(t, "bad", gotName)
	assert.Nil(t, gotService)
	assert.Error(t, gotErr)
}

func TestMiddleware_AfterResolve_SeesMiss(t *testing.T) {
	var gotService any
	var gotErr error
	called := false

	mw := &FuncMiddleware{
		AfterResolveFunc: func(ctx context.Context, name string, service any, err error) error {
			called = true
			gotService = service
			gotErr = err
			return nil
		},
	}

	c := NewRegistry().Build(WithMiddleware(mw))

	_, err := c.Resolve("ghost")
	require.NoError(t, err)

	assert.True(t, called)
	assert.Nil(t, gotService)
	assert.NoError(t, gotErr)
}

func TestMiddleware_AfterResolveOverridesError(t *testing.T) {
	rejected := errors.New("audit rejected")

	mw := &FuncMiddleware{
		AfterResolveFunc: func(ctx context.Context, name string, service any, err error) error {
			return rejected
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("svc", func(r Resolver) (any, error) {
		return &mockService{name: "svc"}, nil
	}))

	c := reg.Build(WithMiddleware(mw))

	svc, err := c.Resolve("svc")
	assert.ErrorIs(t, err, rejected)
	assert.Nil(t, svc)
}

func TestMiddleware_ResolveAll_SeesCollection(t *testing.T) {
	var gotService any

	mw := &FuncMiddleware{
		AfterResolveFunc: func(ctx context.Context, name string, service any, err error) error {
			gotService = service
			return nil
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("handler", func(r Resolver) (any, error) {
		return "first", nil
	}, Transient()))
	require.NoError(t, reg.Add("handler", func(r Resolver) (any, error) {
		return "second", nil
	}, Transient()))

	c := reg.Build(WithMiddleware(mw))

	_, err := c.ResolveAll("handler")
	require.NoError(t, err)

	collection, ok := gotService.([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"first", "second"}, collection)
}

func TestMiddleware_AfterDispose(t *testing.T) {
	disposeCalls := 0
	var gotErr error

	mw := &FuncMiddleware{
		AfterDisposeFunc: func(ctx context.Context, err error) {
			disposeCalls++
			gotErr = err
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("svc", func(r Resolver) (any, error) {
		return &mockService{name: "svc"}, nil
	}))

	c := reg.Build(WithMiddleware(mw))

	_, err := c.Resolve("svc")
	require.NoError(t, err)

	require.NoError(t, c.Dispose())
	assert.Equal(t, 1, disposeCalls)
	assert.NoError(t, gotErr)

	// Repeated disposal never re-runs the chain.
	require.NoError(t, c.Dispose())
	assert.Equal(t, 1, disposeCalls)
}

func TestMiddleware_AfterDispose_SeesErrors(t *testing.T) {
	var gotErr error

	mw := &FuncMiddleware{
		AfterDisposeFunc: func(ctx context.Context, err error) {
			gotErr = err
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("flaky", func(r Resolver) (any, error) {
		return &errorDisposable{name: "flaky", err: assert.AnError}, nil
	}))

	c := reg.Build(WithMiddleware(mw))

	_, err := c.Resolve("flaky")
	require.NoError(t, err)

	assert.Error(t, c.Dispose())
	assert.Error(t, gotErr)
}

func TestMiddleware_RunsInRegistrationOrder(t *testing.T) {
	var sequence []string

	tag := func(name string) Middleware {
		return &FuncMiddleware{
			BeforeResolveFunc: func(ctx context.Context, service string) error {
				sequence = append(sequence, name+"-before")
				return nil
			},
			AfterResolveFunc: func(ctx context.Context, service string, instance any, err error) error {
				sequence = append(sequence, name+"-after")
				return nil
			},
		}
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("svc", func(r Resolver) (any, error) {
		return "svc", nil
	}))

	c := reg.Build(WithMiddleware(tag("auth"), tag("trace")))

	_, err := c.Resolve("svc")
	require.NoError(t, err)

	assert.Equal(t, []string{"auth-before", "trace-before", "auth-after", "trace-after"}, sequence)
}

func TestFuncMiddleware_NilFuncs(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add("svc", func(r Resolver) (any, error) {
		return &mockService{name: "svc"}, nil
	}))

	c := reg.Build(WithMiddleware(&FuncMiddleware{}))

	svc, err := c.Resolve("svc")
	require.NoError(t, err)
	assert.NotNil(t, svc)

	assert.NoError(t, c.Dispose())
}

func TestMiddleware_ScopeResolutionsBypassChain(t *testing.T) {
	beforeCalls := 0

	mw := &FuncMiddleware{
		BeforeResolveFunc: func(ctx context.Context, name string) error {
			beforeCalls++
			return nil
		},
	}

	reg := NewRegistry()
	require.NoError(t, reg.Add("session", func(r Resolver) (any, error) {
		return &mockService{name: "session"}, nil
	}, Scoped()))

	c := reg.Build(WithMiddleware(mw))
	s := c.BeginScope()

	// Middleware guards the container surface; scope resolutions go
	// straight to the entries.
	_, err := s.Resolve("session")
	require.NoError(t, err)
	assert.Equal(t, 0, beforeCalls)

	_, err = c.Resolve(ResolverKey)
	require.NoError(t, err)
	assert.Equal(t, 1, beforeCalls)

	require.NoError(t, s.End())
}
