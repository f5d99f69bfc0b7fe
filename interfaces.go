package manifest

// Lifetime controls how long a resolved instance lives.
type Lifetime int

const (
	// LifetimeSingleton caches one instance for the container's lifetime (default).
	LifetimeSingleton Lifetime = iota

	// LifetimeTransient creates a fresh instance on every resolution.
	LifetimeTransient

	// LifetimeScoped caches one instance per scope.
	LifetimeScoped
)

// String returns the lifetime's lowercase name.
func (l Lifetime) String() string {
	switch l {
	case LifetimeSingleton:
		return "singleton"
	case LifetimeTransient:
		return "transient"
	case LifetimeScoped:
		return "scoped"
	default:
		return "unknown"
	}
}

const (
	// ResolverKey resolves to the active resolver capability: the
	// container's when resolved from the container, the scope's when
	// resolved from a scope. A user registration under this key shadows
	// the built-in for single resolution.
	ResolverKey = "manifest:resolver"

	// RegistryKey is the conventional key for self-registering a Registry
	// before sealing, so ResolveRegistry can find it afterwards.
	RegistryKey = "manifest:registry"
)

// Factory creates a service instance. The resolver argument is the
// resolution context the instance is created in and may be captured by the
// service for later lookups.
type Factory func(r Resolver) (any, error)

// Disposable is implemented by services that hold releasable resources.
// The container disposes owned singletons in reverse creation order; scopes
// dispose their scoped instances when they end.
type Disposable interface {
	Dispose() error
}

// Resolver is the resolution capability handed to factories and registered
// services. It deliberately omits container lifecycle operations: holding a
// Resolver never grants the power to dispose the container.
type Resolver interface {
	// Resolve returns the instance of the last registration for name.
	// An unregistered name yields (nil, nil).
	Resolve(name string) (any, error)

	// ResolveRequired is Resolve with a hard miss: an unregistered name
	// yields ErrServiceNotFound instead of nil.
	ResolveRequired(name string) (any, error)

	// ResolveAll returns one instance per registration for name, in
	// registration order. An unregistered name yields an empty slice and
	// no error.
	ResolveAll(name string) ([]any, error)

	// Has reports whether name is resolvable.
	Has(name string) bool
}

// Container is the sealed, immutable resolution root built from a Manifest.
type Container interface {
	Resolver

	// ResolveSelf returns the container's resolver capability. It never
	// fails; resolutions through the returned Resolver report
	// ErrContainerDisposed once the container is disposed.
	ResolveSelf() Resolver

	// ResolveRegistry returns the source Registry if it was registered
	// under RegistryKey before sealing, ErrServiceNotFound otherwise.
	ResolveRegistry() (*Registry, error)

	// BeginScope creates a child scope for scoped services.
	BeginScope() Scope

	// Services returns registered service names in first-registration order.
	Services() []string

	// Inspect returns diagnostics for the effective (last) registration of name.
	Inspect(name string) ServiceInfo

	// InspectAll returns diagnostics for every registration of name, in
	// registration order.
	InspectAll(name string) []ServiceInfo

	// Dispose releases owned disposable singletons in reverse creation
	// order. Repeated calls are no-ops.
	Dispose() error

	// IsDisposed reports whether Dispose has run.
	IsDisposed() bool
}

// Scope is a bounded resolution context for scoped services
// Typically used for HTTP requests or other bounded operations.
type Scope interface {
	Resolver

	// ID returns the scope's unique identifier.
	ID() string

	// End releases disposable scoped instances in reverse creation order.
	End() error
}
