package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "seqflow" namespace for metrics.
	Namespace string

	// Labels are additional labels to add to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
	}
}

// Build returns the registry described by c, or nil when metrics are disabled.
// Building twice against the same Prometheus registry panics with a duplicate
// registration error, so callers build once and share the result.
func (c Config) Build() *Registry {
	if !c.Enabled {
		return nil
	}

	if c.Registry == nil && (c.Namespace == "" || c.Namespace == DefaultNamespace) && len(c.Labels) == 0 {
		return Default()
	}

	reg := c.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	namespace := c.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return newRegistry(reg, namespace, c.Labels)
}
