package manifest

// ServiceInfo contains diagnostic information about a registration.
type ServiceInfo struct {
	// Name is the service key.
	Name string

	// Type is the realized instance's dynamic type, "unknown" before
	// realization.
	Type string

	// Lifetime is the registration's lifetime.
	Lifetime Lifetime

	// Order is the registration's insertion index.
	Order int

	// Registered reports whether a registration exists. Inspect on an
	// unknown name returns a zero ServiceInfo with only Name set.
	Registered bool

	// Realized reports whether a singleton instance has been created.
	// Transient and scoped registrations never realize on the container.
	Realized bool

	// Metadata carries the registration's diagnostic metadata.
	Metadata map[string]string
}

// ServiceQuery defines criteria for querying services.
type ServiceQuery struct {
	// Lifetime filters by registration lifetime.
	// nil matches all lifetimes.
	Lifetime *Lifetime

	// Realized filters by whether a singleton instance exists.
	// nil matches all registrations (realized and not realized).
	Realized *bool

	// Metadata filters by registration metadata key-value pairs.
	// All specified metadata must match for a registration to be included.
	Metadata map[string]string
}

// Query returns detailed information about registrations matching the query
// criteria, across every registration of every key.
//
// Example:
//
//	// Find all realized singletons
//	realized := true
//	lifetime := manifest.LifetimeSingleton
//	results := manifest.Query(c, manifest.ServiceQuery{
//	    Lifetime: &lifetime,
//	    Realized: &realized,
//	})
func Query(c Container, query ServiceQuery) []ServiceInfo {
	var results []ServiceInfo

	for _, name := range c.Services() {
		for _, info := range c.InspectAll(name) {
			// Filter by lifetime
			if query.Lifetime != nil && info.Lifetime != *query.Lifetime {
				continue
			}

			// Filter by realized status
			if query.Realized != nil && info.Realized != *query.Realized {
				continue
			}

			// Filter by metadata
			if len(query.Metadata) > 0 {
				allMatch := true
				for key, value := range query.Metadata {
					if info.Metadata[key] != value {
						allMatch = false
						break
					}
				}
				if !allMatch {
					continue
				}
			}

			results = append(results, info)
		}
	}

	return results
}

// QueryNames returns the names of registrations matching the query criteria.
// This is more efficient than Query when you only need service names. Keys
// with multiple matching registrations appear once per registration.
func QueryNames(c Container, query ServiceQuery) []string {
	results := Query(c, query)
	names := make([]string, len(results))
	for i, info := range results {
		names[i] = info.Name
	}
	return names
}

// FindByLifetime returns all registrations with a specific lifetime.
func FindByLifetime(c Container, lifetime Lifetime) []ServiceInfo {
	return Query(c, ServiceQuery{Lifetime: &lifetime})
}

// FindRealized returns all registrations whose singleton has been created.
func FindRealized(c Container) []ServiceInfo {
	realized := true
	return Query(c, ServiceQuery{Realized: &realized})
}

// FindUnrealized returns all registrations that have not been realized.
func FindUnrealized(c Container) []ServiceInfo {
	realized := false
	return Query(c, ServiceQuery{Realized: &realized})
}
