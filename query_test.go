package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newQueryContainer builds a container with a spread of lifetimes and
// metadata, with only "db" realized.
func newQueryContainer(t *testing.T) Container {
	t.Helper()

	reg := NewRegistry()

	require.NoError(t, reg.Add("db", func(r Resolver) (any, error) {
		return &mockService{name: "db"}, nil
	}, WithMetadata("tier", "core")))
	require.NoError(t, reg.Add("cache", func(r Resolver) (any, error) {
		return &mockService{name: "cache"}, nil
	}))
	require.NoError(t, reg.Add("handler", func(r Resolver) (any, error) {
		return "handler-a", nil
	}, Transient(), WithMetadata("tier", "web")))
	require.NoError(t, reg.Add("handler", func(r Resolver) (any, error) {
		return "handler-b", nil
	}, Transient()))
	require.NoError(t, reg.Add("session", func(r Resolver) (any, error) {
		return &mockService{name: "session"}, nil
	}, Scoped()))

	c := reg.Build()

	_, err := c.Resolve("db")
	require.NoError(t, err)

	return c
}

func TestQuery_All(t *testing.T) {
	c := newQueryContainer(t)

	results := Query(c, ServiceQuery{})
	assert.Len(t, results, 5)
}

func TestQuery_ByLifetime(t *testing.T) {
	c := newQueryContainer(t)

	lifetime := LifetimeSingleton
	results := Query(c, ServiceQuery{Lifetime: &lifetime})

	require.Len(t, results, 2)
	assert.Equal(t, "db", results[0].Name)
	assert.Equal(t, "cache", results[1].Name)
}

func TestQuery_ByRealized(t *testing.T) {
	c := newQueryContainer(t)

	realized := true
	results := Query(c, ServiceQuery{Realized: &realized})

	require.Len(t, results, 1)
	assert.Equal(t, "db", results[0].Name)
	assert.Equal(t, "*manifest.mockService", results[0].Type)
}

func TestQuery_ByMetadata(t *testing.T) {
	c := newQueryContainer(t)

	results := Query(c, ServiceQuery{Metadata: map[string]string{"tier": "core"}})

	require.Len(t, results, 1)
	assert.Equal(t, "db", results[0].Name)
}

func TestQuery_MetadataMustFullyMatch(t *testing.T) {
	c := newQueryContainer(t)

	results := Query(c, ServiceQuery{Metadata: map[string]string{
		"tier":  "core",
		"owner": "nobody",
	}})

	assert.Empty(t, results)
}

func TestQuery_CombinedFilters(t *testing.T) {
	c := newQueryContainer(t)

	lifetime := LifetimeTransient
	results := Query(c, ServiceQuery{
		Lifetime: &lifetime,
		Metadata: map[string]string{"tier": "web"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "handler", results[0].Name)
	assert.Equal(t, 2, results[0].Order)
}

func TestQuery_ShadowedRegistrationsAppearSeparately(t *testing.T) {
	c := newQueryContainer(t)

	lifetime := LifetimeTransient
	results := Query(c, ServiceQuery{Lifetime: &lifetime})

	require.Len(t, results, 2)
	assert.Equal(t, "handler", results[0].Name)
	assert.Equal(t, "handler", results[1].Name)
	assert.NotEqual(t, results[0].Order, results[1].Order)
}

func TestQueryNames(t *testing.T) {
	c := newQueryContainer(t)

	lifetime := LifetimeSingleton
	names := QueryNames(c, ServiceQuery{Lifetime: &lifetime})

	assert.Equal(t, []string{"db", "cache"}, names)
}

func TestFindByLifetime(t *testing.T) {
	c := newQueryContainer(t)

	scoped := FindByLifetime(c, LifetimeScoped)
	require.Len(t, scoped, 1)
	assert.Equal(t, "session", scoped[0].Name)
}

func TestFindRealized(t *testing.T) {
	c := newQueryContainer(t)

	results := FindRealized(c)
	require.Len(t, results, 1)
	assert.Equal(t, "db", results[0].Name)
}

func TestFindUnrealized(t *testing.T) {
	c := newQueryContainer(t)

	results := FindUnrealized(c)
	assert.Len(t, results, 4)

	for _, info := range results {
		assert.NotEqual(t, "db", info.Name)
	}
}
