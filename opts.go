package manifest

import (
	logger "github.com/xraph/go-utils/log"
	"github.com/xraph/go-utils/metrics"
)

// registerConfig collects per-registration settings.
type registerConfig struct {
	lifetime Lifetime
	metadata map[string]string
}

// newRegisterConfig applies opts over the defaults (singleton, no metadata).
func newRegisterConfig(opts []RegisterOption) registerConfig {
	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// RegisterOption is a configuration option for service registration.
type RegisterOption func(*registerConfig)

// Singleton makes the service a singleton (default).
func Singleton() RegisterOption {
	return func(c *registerConfig) { c.lifetime = LifetimeSingleton }
}

// Transient makes the service created on each resolve.
func Transient() RegisterOption {
	return func(c *registerConfig) { c.lifetime = LifetimeTransient }
}

// Scoped makes the service live for the duration of a scope.
func Scoped() RegisterOption {
	return func(c *registerConfig) { c.lifetime = LifetimeScoped }
}

// WithLifetime sets the lifetime explicitly.
func WithLifetime(lifetime Lifetime) RegisterOption {
	return func(c *registerConfig) { c.lifetime = lifetime }
}

// WithMetadata adds diagnostic metadata to a service registration.
func WithMetadata(key, value string) RegisterOption {
	return func(c *registerConfig) {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		c.metadata[key] = value
	}
}

// containerConfig collects container construction settings.
type containerConfig struct {
	name       string
	logger     logger.Logger
	metrics    metrics.Metrics
	middleware []Middleware
}

// ContainerOption configures a container at build time.
type ContainerOption func(*containerConfig)

// WithName names the container for log and metric attribution.
func WithName(name string) ContainerOption {
	return func(c *containerConfig) { c.name = name }
}

// WithLogger attaches a structured logger. Defaults to a noop logger.
func WithLogger(l logger.Logger) ContainerOption {
	return func(c *containerConfig) { c.logger = l }
}

// WithMetrics attaches a metrics sink. Without one, instrumentation is off.
func WithMetrics(m metrics.Metrics) ContainerOption {
	return func(c *containerConfig) { c.metrics = m }
}

// WithMiddleware appends resolution middleware. The chain is fixed once the
// container is built.
func WithMiddleware(mw ...Middleware) ContainerOption {
	return func(c *containerConfig) { c.middleware = append(c.middleware, mw...) }
}
