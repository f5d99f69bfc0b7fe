// Package manifest provides dependency injection with a sealed registration
// phase: services are added to a Registry, the registry is sealed into an
// immutable Manifest, and containers built from the manifest resolve against
// a fixed service set.
//
//	reg := manifest.NewRegistry()
//	_ = reg.Add("database", newDatabase)
//	_ = reg.Add("handler", newHandler, manifest.Transient())
//
//	c := reg.Build()
//	defer c.Dispose()
//
//	db, err := c.ResolveRequired("database")
package manifest

// New creates a container from a sealed manifest. A nil manifest yields an
// empty container.
func New(m *Manifest, opts ...ContainerOption) Container {
	return newContainer(m, opts...)
}
