package manifest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	logger "github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
	"go.uber.org/multierr"
)

// containerImpl implements Container over a sealed manifest.
//
// The registration set is fixed at construction: entries, index and order
// are built once and read-only afterwards, so lookups run without locks.
// Mutable state (singleton slots, the creation log, the disposed flag) is
// guarded by mu; singleton creation is additionally serialized by a
// per-entry lock held across the factory call. Lock order is always entry
// lock before mu, and Dispose takes only mu, so factories are free to
// resolve other services while their own entry lock is held.
type containerImpl struct {
	id         string
	name       string
	entries    []*serviceEntry
	index      map[string][]*serviceEntry
	order      []string // unique keys, first-registration order
	middleware *middlewareChain
	logger     logger.Logger
	metrics    metrics.Metrics
	self       *resolverFacade

	mu       sync.Mutex
	disposed bool
	created  []*serviceEntry // realized owned singletons, creation order
}

// serviceEntry is the container-private resolution state for one
// registration. Two containers built from the same manifest share
// Registration data but never entries.
type serviceEntry struct {
	reg      Registration
	creating sync.Mutex
	instance any
	realized bool
}

// resolverFacade is the Resolver view handed to factories and returned by
// ResolveSelf. It carries no lifecycle methods and is not assertable to
// Container, so a captured facade can never dispose the container.
type resolverFacade struct {
	c *containerImpl
}

func (f *resolverFacade) Resolve(name string) (any, error)         { return f.c.Resolve(name) }
func (f *resolverFacade) ResolveRequired(name string) (any, error) { return f.c.ResolveRequired(name) }
func (f *resolverFacade) ResolveAll(name string) ([]any, error)    { return f.c.ResolveAll(name) }
func (f *resolverFacade) Has(name string) bool                     { return f.c.Has(name) }

// newContainer builds a container from a sealed manifest. Each call
// produces an independent container: singleton instances are never shared
// between containers.
func newContainer(m *Manifest, opts ...ContainerOption) Container {
	cfg := containerConfig{name: "container"}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = logger.NewNoopLogger()
	}

	chain := newMiddlewareChain()
	for _, mw := range cfg.middleware {
		chain.add(mw)
	}

	c := &containerImpl{
		id:         uuid.New().String(),
		name:       cfg.name,
		index:      make(map[string][]*serviceEntry),
		middleware: chain,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}
	c.self = &resolverFacade{c: c}

	if m != nil {
		c.entries = make([]*serviceEntry, 0, m.Len())
		for _, reg := range m.regs {
			entry := &serviceEntry{reg: reg}
			c.entries = append(c.entries, entry)

			if len(c.index[reg.Key]) == 0 {
				c.order = append(c.order, reg.Key)
			}
			c.index[reg.Key] = append(c.index[reg.Key], entry)
		}
	}

	c.logger.Debug("container built",
		logger.String("container", c.name),
		logger.String("id", c.id),
		logger.Int("registrations", len(c.entries)))

	return c
}

// Resolve returns the instance of the last registration for name, or
// (nil, nil) when name is unregistered.
func (c *containerImpl) Resolve(name string) (any, error) {
	service, _, err := c.resolve(name, c.self)
	return service, err
}

// ResolveRequired returns the instance of the last registration for name,
// or ErrServiceNotFound when name is unregistered.
func (c *containerImpl) ResolveRequired(name string) (any, error) {
	service, found, err := c.resolve(name, c.self)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrServiceNotFound(name)
	}

	return service, nil
}

// ResolveAll returns one instance per registration for name, in
// registration order. An unregistered name yields an empty slice.
func (c *containerImpl) ResolveAll(name string) ([]any, error) {
	return c.resolveAll(name, c.self)
}

// resolve runs the middleware chain and instrumentation around a single
// resolution. The found flag distinguishes an unregistered name from a
// registration whose instance is nil.
func (c *containerImpl) resolve(name string, r Resolver) (any, bool, error) {
	ctx := context.Background()

	if err := c.middleware.beforeResolve(ctx, name); err != nil {
		return nil, false, err
	}

	start := time.Now()
	service, found, err := c.resolveInternal(name, r)
	c.observeResolve(name, start, found, err)

	if mwErr := c.middleware.afterResolve(ctx, name, service, err); mwErr != nil {
		return nil, found, mwErr
	}

	return service, found, err
}

// resolveInternal performs the actual service resolution without middleware.
func (c *containerImpl) resolveInternal(name string, r Resolver) (any, bool, error) {
	if c.isDisposed() {
		return nil, false, ErrContainerDisposed
	}

	entries := c.index[name]
	if len(entries) == 0 {
		// The resolver capability is always available unless shadowed by a
		// user registration.
		if name == ResolverKey {
			return r, true, nil
		}

		return nil, false, nil
	}

	// Last registration wins single resolution.
	service, err := c.resolveEntry(entries[len(entries)-1], r)
	if err != nil {
		return nil, true, err
	}

	return service, true, nil
}

func (c *containerImpl) resolveAll(name string, r Resolver) ([]any, error) {
	ctx := context.Background()

	if err := c.middleware.beforeResolve(ctx, name); err != nil {
		return nil, err
	}

	start := time.Now()
	services, err := c.resolveAllInternal(name, r)
	c.observeResolve(name, start, len(services) > 0, err)

	if mwErr := c.middleware.afterResolve(ctx, name, services, err); mwErr != nil {
		return nil, mwErr
	}

	return services, err
}

// resolveAllInternal materializes every registration for name eagerly.
// Absence is not an error: the result is an empty slice.
func (c *containerImpl) resolveAllInternal(name string, r Resolver) ([]any, error) {
	if c.isDisposed() {
		return nil, ErrContainerDisposed
	}

	entries := c.index[name]
	services := make([]any, 0, len(entries)+1)

	// The built-in resolver capability sorts before user registrations.
	if name == ResolverKey {
		services = append(services, r)
	}

	for _, entry := range entries {
		service, err := c.resolveEntry(entry, r)
		if err != nil {
			return nil, err
		}

		services = append(services, service)
	}

	return services, nil
}

// resolveEntry dispatches on the registration's lifetime. The resolver r is
// what the factory receives and captures.
func (c *containerImpl) resolveEntry(entry *serviceEntry, r Resolver) (any, error) {
	switch entry.reg.Lifetime {
	case LifetimeSingleton:
		return c.resolveSingleton(entry, r)
	case LifetimeScoped:
		return nil, fmt.Errorf("scoped service %s must be resolved from a scope", entry.reg.Key)
	default:
		return c.resolveTransient(entry, r)
	}
}

// resolveSingleton creates the entry's instance at most once. Concurrent
// first resolutions block on the entry lock while one factory runs, then
// observe the cache. An instance whose factory finishes after Dispose is
// never cached: it is released immediately and the resolution fails.
func (c *containerImpl) resolveSingleton(entry *serviceEntry, r Resolver) (any, error) {
	// Fast path: cached instance.
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, ErrContainerDisposed
	}

	if entry.realized {
		instance := entry.instance
		c.mu.Unlock()

		return instance, nil
	}
	c.mu.Unlock()

	// Slow path: serialize creation per registration.
	entry.creating.Lock()
	defer entry.creating.Unlock()

	// Double-check after acquiring the entry lock.
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, ErrContainerDisposed
	}

	if entry.realized {
		instance := entry.instance
		c.mu.Unlock()

		return instance, nil
	}
	c.mu.Unlock()

	// Factory runs holding only the entry lock, so it may resolve other
	// services. A registration resolving itself deadlocks here.
	instance, err := entry.reg.fn(r)
	if err != nil {
		return nil, NewServiceError(entry.reg.Key, "resolve", err)
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		releaseOrphan(instance)

		return nil, ErrContainerDisposed
	}

	entry.instance = instance
	entry.realized = true

	if _, ok := instance.(Disposable); ok && !entry.reg.external {
		c.created = append(c.created, entry)
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.Gauge("container_singletons_realized",
			metrics.WithLabel("container", c.name)).Inc()
	}

	return instance, nil
}

// resolveTransient creates a fresh instance on every call.
func (c *containerImpl) resolveTransient(entry *serviceEntry, r Resolver) (any, error) {
	if c.isDisposed() {
		return nil, ErrContainerDisposed
	}

	instance, err := entry.reg.fn(r)
	if err != nil {
		return nil, NewServiceError(entry.reg.Key, "resolve", err)
	}

	// Disposal may have won while the factory ran. Nobody will receive the
	// instance, so release it here rather than leak it.
	if c.isDisposed() {
		releaseOrphan(instance)
		return nil, ErrContainerDisposed
	}

	return instance, nil
}

// Has reports whether name is resolvable. The built-in resolver capability
// is always present.
func (c *containerImpl) Has(name string) bool {
	if name == ResolverKey {
		return true
	}

	return len(c.index[name]) > 0
}

// ResolveSelf returns the container's resolver facade. It is a plain
// accessor and keeps working after Dispose; resolutions through the facade
// fail with ErrContainerDisposed instead.
func (c *containerImpl) ResolveSelf() Resolver {
	return c.self
}

// ResolveRegistry returns the source registry when it was self-registered
// under RegistryKey before sealing.
func (c *containerImpl) ResolveRegistry() (*Registry, error) {
	service, found, err := c.resolve(RegistryKey, c.self)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrServiceNotFound(RegistryKey)
	}

	registry, ok := service.(*Registry)
	if !ok {
		return nil, ErrTypeMismatch(RegistryKey, service)
	}

	return registry, nil
}

// Services returns registered service names in first-registration order.
func (c *containerImpl) Services() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)

	return names
}

// BeginScope creates a new scope for request-scoped services.
func (c *containerImpl) BeginScope() Scope {
	s := newScope(c)

	c.logger.Debug("scope started",
		logger.String("container", c.name),
		logger.String("scope", s.ID()))

	return s
}

// Inspect returns diagnostic information about the effective (last)
// registration for name.
func (c *containerImpl) Inspect(name string) ServiceInfo {
	entries := c.index[name]
	if len(entries) == 0 {
		return ServiceInfo{Name: name}
	}

	return c.entryInfo(entries[len(entries)-1])
}

// InspectAll returns diagnostic information about every registration for
// name, in registration order.
func (c *containerImpl) InspectAll(name string) []ServiceInfo {
	entries := c.index[name]

	infos := make([]ServiceInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, c.entryInfo(entry))
	}

	return infos
}

func (c *containerImpl) entryInfo(entry *serviceEntry) ServiceInfo {
	c.mu.Lock()
	instance := entry.instance
	realized := entry.realized
	c.mu.Unlock()

	typeName := "unknown"
	if instance != nil {
		typeName = fmt.Sprintf("%T", instance)
	}

	return ServiceInfo{
		Name:       entry.reg.Key,
		Type:       typeName,
		Lifetime:   entry.reg.Lifetime,
		Order:      entry.reg.Order,
		Registered: true,
		Realized:   realized,
		Metadata:   entry.reg.Metadata,
	}
}

// Dispose releases owned disposable singletons in reverse creation order,
// so later singletons can still use their earlier dependencies during
// teardown. Repeated calls are no-ops. After the disposed flag is set, no
// resolution succeeds and no new instance is cached.
func (c *containerImpl) Dispose() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}

	c.disposed = true
	created := c.created
	c.created = nil
	c.mu.Unlock()

	var errs error
	for i := len(created) - 1; i >= 0; i-- {
		entry := created[i]
		if d, ok := entry.instance.(Disposable); ok {
			if err := d.Dispose(); err != nil {
				errs = multierr.Append(errs, NewServiceError(entry.reg.Key, "dispose", err))
			}
		}
	}

	c.middleware.afterDispose(context.Background(), errs)

	if errs != nil {
		c.logger.Error("container disposed with errors",
			logger.String("container", c.name),
			logger.Int("released", len(created)),
			logger.Error(errs))
	} else {
		c.logger.Info("container disposed",
			logger.String("container", c.name),
			logger.Int("released", len(created)))
	}

	if c.metrics != nil {
		c.metrics.Counter("container_disposals_total",
			metrics.WithLabel("container", c.name)).Inc()
		c.metrics.Gauge("container_singletons_realized",
			metrics.WithLabel("container", c.name)).Set(0)
	}

	return errs
}

// IsDisposed reports whether Dispose has run.
func (c *containerImpl) IsDisposed() bool {
	return c.isDisposed()
}

func (c *containerImpl) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disposed
}

// observeResolve records resolution metrics and logs failures. Failures log
// at debug so hot paths stay quiet.
func (c *containerImpl) observeResolve(name string, start time.Time, found bool, err error) {
	if err != nil {
		c.logger.Debug("resolve failed",
			logger.String("container", c.name),
			logger.String("service", name),
			logger.Error(err))
	}

	if c.metrics == nil {
		return
	}

	c.metrics.Counter("container_resolves_total",
		metrics.WithLabel("container", c.name),
		metrics.WithLabel("service", name)).Inc()
	c.metrics.Histogram("container_resolve_duration_seconds",
		metrics.WithLabel("container", c.name)).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.Counter("container_resolve_failures_total",
			metrics.WithLabel("container", c.name),
			metrics.WithLabel("service", name)).Inc()
	case !found:
		c.metrics.Counter("container_resolve_misses_total",
			metrics.WithLabel("container", c.name),
			metrics.WithLabel("service", name)).Inc()
	}
}

// releaseOrphan disposes an instance whose construction finished after the
// container was disposed and which can no longer be handed out.
func releaseOrphan(instance any) {
	if d, ok := instance.(Disposable); ok {
		_ = d.Dispose()
	}
}
