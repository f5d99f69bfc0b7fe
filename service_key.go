package manifest

// ServiceKey provides type-safe service identification.
// Use NewServiceKey to create typed keys for your services.
type ServiceKey[T any] struct {
	name string
}

// NewServiceKey creates a new typed service key.
// The type parameter T ensures type safety when registering and resolving services.
//
// Example:
//
//	var DatabaseKey = NewServiceKey[*Database]("database")
//	var UserServiceKey = NewServiceKey[*UserService]("userService")
func NewServiceKey[T any](name string) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// Name returns the string name of the service key.
func (k ServiceKey[T]) Name() string {
	return k.name
}

// AddWithKey registers a service using a typed service key.
// This provides type safety and autocomplete support compared to string-based registration.
//
// Example:
//
//	var DatabaseKey = NewServiceKey[*Database]("database")
//	AddWithKey(reg, DatabaseKey, func(r Resolver) (*Database, error) {
//	    return &Database{}, nil
//	})
func AddWithKey[T any](r *Registry, key ServiceKey[T], factory func(Resolver) (T, error), opts ...RegisterOption) error {
	// Wrap the typed factory in an untyped factory
	wrappedFactory := func(res Resolver) (any, error) {
		return factory(res)
	}
	return r.Add(key.name, wrappedFactory, opts...)
}

// AddInstanceWithKey registers a pre-built value under a typed service key.
func AddInstanceWithKey[T any](r *Registry, key ServiceKey[T], instance T) error {
	return r.AddInstance(key.name, instance)
}

// ResolveWithKey resolves a service using a typed service key.
// Missing services are a hard error, as with Resolve.
//
// Example:
//
//	db, err := ResolveWithKey(c, DatabaseKey)
func ResolveWithKey[T any](r Resolver, key ServiceKey[T]) (T, error) {
	return Resolve[T](r, key.name)
}

// LookupWithKey resolves an optional service using a typed service key.
// A missing service yields (zero, false, nil).
func LookupWithKey[T any](r Resolver, key ServiceKey[T]) (T, bool, error) {
	return Lookup[T](r, key.name)
}

// MustWithKey resolves a service using a typed service key and panics on error.
//
// Example:
//
//	db := MustWithKey(c, DatabaseKey)
func MustWithKey[T any](r Resolver, key ServiceKey[T]) T {
	result, err := ResolveWithKey(r, key)
	if err != nil {
		panic(err)
	}
	return result
}

// HasKey checks if a service is registered using a typed service key.
func HasKey[T any](r Resolver, key ServiceKey[T]) bool {
	return r.Has(key.name)
}

// InspectKey returns diagnostic information about a service using a typed service key.
func InspectKey[T any](c Container, key ServiceKey[T]) ServiceInfo {
	return c.Inspect(key.name)
}
