package manifest

import (
	"fmt"
	"sync"
)

// Registration is a single service registration as it appears in a sealed
// manifest. The factory itself is deliberately unexported: holders of a
// Registration can see what was registered but cannot invoke or swap it.
type Registration struct {
	// Key is the service name the registration resolves under.
	Key string

	// Lifetime controls instance caching.
	Lifetime Lifetime

	// Order is the insertion index within the registry.
	Order int

	// Metadata carries diagnostic key-value pairs from WithMetadata.
	Metadata map[string]string

	fn       Factory
	external bool // pre-built instance, never owned by a container
}

// Registry is an ordered, write-once collection of service registrations.
// Registrations accumulate until Seal; afterwards every mutation fails with
// ErrRegistrySealed. Multiple registrations may share a key: the last wins
// single resolution, and ResolveAll yields all of them in insertion order.
//
// A registry is not resolvable from containers built from it unless it is
// explicitly self-registered:
//
//	reg := manifest.NewRegistry()
//	_ = reg.AddInstance(manifest.RegistryKey, reg)
type Registry struct {
	mu       sync.Mutex
	regs     []Registration
	manifest *Manifest
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a registration for name. The lifetime defaults to singleton;
// pass Transient, Scoped or WithLifetime to override.
func (r *Registry) Add(name string, factory Factory, opts ...RegisterOption) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}

	if factory == nil {
		return ErrInvalidFactory
	}

	cfg := newRegisterConfig(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manifest != nil {
		return ErrRegistrySealed
	}

	r.regs = append(r.regs, Registration{
		Key:      name,
		Lifetime: cfg.lifetime,
		Order:    len(r.regs),
		Metadata: cfg.metadata,
		fn:       factory,
	})

	return nil
}

// AddInstance registers a pre-built value under name, always as a
// singleton. Containers do not take ownership of instances registered this
// way: they are never disposed.
func (r *Registry) AddInstance(name string, instance any) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manifest != nil {
		return ErrRegistrySealed
	}

	r.regs = append(r.regs, Registration{
		Key:      name,
		Lifetime: LifetimeSingleton,
		Order:    len(r.regs),
		fn:       func(Resolver) (any, error) { return instance, nil },
		external: true,
	})

	return nil
}

// Seal freezes the registry and returns its manifest. Sealing is
// idempotent: every call returns the same manifest.
func (r *Registry) Seal() *Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.manifest == nil {
		regs := make([]Registration, len(r.regs))
		copy(regs, r.regs)
		r.manifest = &Manifest{regs: regs}
	}

	return r.manifest
}

// Build seals the registry and constructs a container from the manifest.
// Every Build call yields an independent container with its own singleton
// instances.
func (r *Registry) Build(opts ...ContainerOption) Container {
	return New(r.Seal(), opts...)
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.regs)
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.manifest != nil
}

// Manifest is the sealed, immutable registration list produced by
// Registry.Seal. It is pure data: all resolution state lives in the
// containers built from it.
type Manifest struct {
	regs []Registration
}

// Len returns the number of registrations.
func (m *Manifest) Len() int {
	return len(m.regs)
}

// Registrations returns a copy of the registration list in insertion order.
func (m *Manifest) Registrations() []Registration {
	out := make([]Registration, len(m.regs))
	copy(out, m.regs)
	return out
}

// Keys returns the unique service keys in first-registration order.
func (m *Manifest) Keys() []string {
	seen := make(map[string]struct{}, len(m.regs))
	keys := make([]string, 0, len(m.regs))

	for _, reg := range m.regs {
		if _, ok := seen[reg.Key]; ok {
			continue
		}
		seen[reg.Key] = struct{}{}
		keys = append(keys, reg.Key)
	}

	return keys
}
