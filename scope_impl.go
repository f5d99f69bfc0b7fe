package manifest

import (
	"sync"

	"github.com/google/uuid"
	logger "github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// scope implements Scope.
//
// Scoped instances are cached per registration (keyed by registration
// order, so shadowed registrations keep distinct slots for ResolveAll).
// Singletons delegate to the parent container; transients are created fresh
// with the scope as the factory resolver, so their dependencies resolve
// scope-aware.
type scope struct {
	id     string
	parent *containerImpl
	self   *scopeFacade

	mu      sync.Mutex
	slots   map[int]*scopedSlot
	created []scopedInstance // creation order, for reverse disposal
	ended   bool
}

// scopedSlot is the per-registration cache within one scope. Its creating
// lock serializes the factory call the same way serviceEntry does for
// singletons.
type scopedSlot struct {
	creating sync.Mutex
	instance any
	realized bool
}

// scopedInstance pairs a realized scoped instance with its service name.
type scopedInstance struct {
	key      string
	instance any
}

// scopeFacade is the Resolver view of a scope, handed to factories running
// in scope context. Like the container facade it withholds lifecycle
// methods: a captured scope facade cannot end the scope.
type scopeFacade struct {
	s *scope
}

func (f *scopeFacade) Resolve(name string) (any, error)         { return f.s.Resolve(name) }
func (f *scopeFacade) ResolveRequired(name string) (any, error) { return f.s.ResolveRequired(name) }
func (f *scopeFacade) ResolveAll(name string) ([]any, error)    { return f.s.ResolveAll(name) }
func (f *scopeFacade) Has(name string) bool                     { return f.s.Has(name) }

// newScope creates a new scope.
func newScope(parent *containerImpl) *scope {
	s := &scope{
		id:     uuid.New().String(),
		parent: parent,
		slots:  make(map[int]*scopedSlot),
	}
	s.self = &scopeFacade{s: s}

	return s
}

// ID returns the scope's unique identifier.
func (s *scope) ID() string {
	return s.id
}

// Resolve returns a service by name from this scope. Unregistered names
// follow the container's null contract.
func (s *scope) Resolve(name string) (any, error) {
	service, _, err := s.resolve(name)
	return service, err
}

// ResolveRequired is Resolve with a hard miss.
func (s *scope) ResolveRequired(name string) (any, error) {
	service, found, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrServiceNotFound(name)
	}

	return service, nil
}

// ResolveAll returns one instance per registration for name, resolved in
// scope context.
func (s *scope) ResolveAll(name string) ([]any, error) {
	if s.isEnded() {
		return nil, ErrScopeEnded
	}

	if s.parent.isDisposed() {
		return nil, ErrContainerDisposed
	}

	entries := s.parent.index[name]
	services := make([]any, 0, len(entries)+1)

	if name == ResolverKey {
		services = append(services, s.self)
	}

	for _, entry := range entries {
		service, err := s.resolveEntry(entry)
		if err != nil {
			return nil, err
		}

		services = append(services, service)
	}

	return services, nil
}

// Has reports whether name is resolvable.
func (s *scope) Has(name string) bool {
	return s.parent.Has(name)
}

func (s *scope) resolve(name string) (any, bool, error) {
	if s.isEnded() {
		return nil, false, ErrScopeEnded
	}

	if s.parent.isDisposed() {
		return nil, false, ErrContainerDisposed
	}

	entries := s.parent.index[name]
	if len(entries) == 0 {
		// In scope context the resolver capability is the scope itself.
		if name == ResolverKey {
			return s.self, true, nil
		}

		return nil, false, nil
	}

	service, err := s.resolveEntry(entries[len(entries)-1])
	if err != nil {
		return nil, true, err
	}

	return service, true, nil
}

func (s *scope) resolveEntry(entry *serviceEntry) (any, error) {
	switch entry.reg.Lifetime {
	case LifetimeSingleton:
		// Singletons live on the container; their factories see the
		// container resolver so they never capture a shorter-lived scope.
		return s.parent.resolveSingleton(entry, s.parent.self)
	case LifetimeScoped:
		return s.resolveScoped(entry)
	default:
		return s.parent.resolveTransient(entry, s.self)
	}
}

// resolveScoped creates the entry's instance at most once per scope. The
// shape mirrors singleton creation: fast path on the cache, then a
// per-slot creation lock held across the factory, then a post-check so an
// instance finishing after End is released instead of cached.
func (s *scope) resolveScoped(entry *serviceEntry) (any, error) {
	slot, err := s.slot(entry)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, ErrScopeEnded
	}

	if slot.realized {
		instance := slot.instance
		s.mu.Unlock()

		return instance, nil
	}
	s.mu.Unlock()

	slot.creating.Lock()
	defer slot.creating.Unlock()

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, ErrScopeEnded
	}

	if slot.realized {
		instance := slot.instance
		s.mu.Unlock()

		return instance, nil
	}
	s.mu.Unlock()

	if s.parent.isDisposed() {
		return nil, ErrContainerDisposed
	}

	instance, err := entry.reg.fn(s.self)
	if err != nil {
		return nil, NewServiceError(entry.reg.Key, "resolve", err)
	}

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		releaseOrphan(instance)

		return nil, ErrScopeEnded
	}

	slot.instance = instance
	slot.realized = true

	if _, ok := instance.(Disposable); ok {
		s.created = append(s.created, scopedInstance{key: entry.reg.Key, instance: instance})
	}
	s.mu.Unlock()

	return instance, nil
}

// slot returns the scope's cache slot for a registration, allocating it on
// first use.
func (s *scope) slot(entry *serviceEntry) (*scopedSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return nil, ErrScopeEnded
	}

	slot, ok := s.slots[entry.reg.Order]
	if !ok {
		slot = &scopedSlot{}
		s.slots[entry.reg.Order] = slot
	}

	return slot, nil
}

func (s *scope) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ended
}

// End cleans up all scoped services in this scope, releasing disposable
// instances in reverse creation order. A second End reports ErrScopeEnded.
func (s *scope) End() error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrScopeEnded
	}

	s.ended = true
	created := s.created
	s.created = nil
	s.slots = nil
	s.mu.Unlock()

	var errs error
	for i := len(created) - 1; i >= 0; i-- {
		scoped := created[i]
		if d, ok := scoped.instance.(Disposable); ok {
			if err := d.Dispose(); err != nil {
				errs = multierr.Append(errs, NewServiceError(scoped.key, "end_scope", err))
			}
		}
	}

	s.parent.logger.Debug("scope ended",
		logger.String("container", s.parent.name),
		logger.String("scope", s.id),
		logger.Int("released", len(created)))

	return errs
}
