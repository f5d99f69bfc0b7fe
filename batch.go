package manifest

// ServiceRegistration holds configuration for a service to be registered.
type ServiceRegistration struct {
	Name    string
	Factory Factory
	Options []RegisterOption
}

// Service creates a ServiceRegistration for batch registration.
// This is a convenience function for creating ServiceRegistration structs.
//
// Example:
//
//	manifest.AddServices(reg,
//	    manifest.Service("db", NewDatabase, manifest.Singleton()),
//	    manifest.Service("cache", NewCache, manifest.Singleton()),
//	)
func Service(name string, factory Factory, opts ...RegisterOption) ServiceRegistration {
	return ServiceRegistration{
		Name:    name,
		Factory: factory,
		Options: opts,
	}
}

// AddServices registers multiple services in a single call.
// Returns error if any service registration fails.
//
// Example:
//
//	err := manifest.AddServices(reg,
//	    manifest.Service("db", NewDatabase, manifest.Singleton()),
//	    manifest.Service("cache", NewCache, manifest.Singleton()),
//	    manifest.Service("logger", NewLogger, manifest.Singleton()),
//	)
func AddServices(r *Registry, services ...ServiceRegistration) error {
	for _, svc := range services {
		if err := r.Add(svc.Name, svc.Factory, svc.Options...); err != nil {
			return err
		}
	}
	return nil
}

// TypedServiceRegistration holds configuration for a typed service to be registered.
type TypedServiceRegistration[T any] struct {
	Name    string
	Factory func(Resolver) (T, error)
	Options []RegisterOption
}

// TypedService creates a TypedServiceRegistration for batch typed registration.
func TypedService[T any](name string, factory func(Resolver) (T, error), opts ...RegisterOption) TypedServiceRegistration[T] {
	return TypedServiceRegistration[T]{
		Name:    name,
		Factory: factory,
		Options: opts,
	}
}

// AddTypedServices registers multiple typed services in a single call.
// This version provides type safety for the factory functions.
//
// Example:
//
//	err := manifest.AddTypedServices(reg,
//	    manifest.TypedService("db", NewDatabase, manifest.Singleton()),
//	    manifest.TypedService("cache", NewCache, manifest.Singleton()),
//	)
func AddTypedServices[T any](r *Registry, services ...TypedServiceRegistration[T]) error {
	for _, svc := range services {
		// Wrap typed factory in untyped factory
		factory := svc.Factory
		wrappedFactory := func(res Resolver) (any, error) {
			return factory(res)
		}
		if err := r.Add(svc.Name, wrappedFactory, svc.Options...); err != nil {
			return err
		}
	}
	return nil
}

// KeyedServiceRegistration holds configuration for a keyed service to be registered.
type KeyedServiceRegistration[T any] struct {
	Key     ServiceKey[T]
	Factory func(Resolver) (T, error)
	Options []RegisterOption
}

// KeyedService creates a KeyedServiceRegistration for batch registration with service keys.
func KeyedService[T any](key ServiceKey[T], factory func(Resolver) (T, error), opts ...RegisterOption) KeyedServiceRegistration[T] {
	return KeyedServiceRegistration[T]{
		Key:     key,
		Factory: factory,
		Options: opts,
	}
}

// AddKeyedServices registers multiple keyed services in a single call.
// This version provides type safety via ServiceKeys.
//
// Example:
//
//	var (
//	    DatabaseKey = manifest.NewServiceKey[*Database]("database")
//	    CacheKey    = manifest.NewServiceKey[*Cache]("cache")
//	)
//
//	err := manifest.AddKeyedServices(reg,
//	    manifest.KeyedService(DatabaseKey, NewDatabase, manifest.Singleton()),
//	    manifest.KeyedService(CacheKey, NewCache, manifest.Singleton()),
//	)
func AddKeyedServices[T any](r *Registry, services ...KeyedServiceRegistration[T]) error {
	for _, svc := range services {
		if err := AddWithKey(r, svc.Key, svc.Factory, svc.Options...); err != nil {
			return err
		}
	}
	return nil
}
