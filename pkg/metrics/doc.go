// Package metrics provides Prometheus metrics for seqflow stream evaluations
// and the worker pool that drives concurrent evaluations.
//
// # Basic Usage
//
// Build a registry once and hand it to every stream configuration that
// should report:
//
//	reg := metrics.NewRegistry(prometheus.DefaultRegisterer)
//
//	cfg := stream.DefaultConfig()
//	cfg.Metrics = reg
//	n, err := stream.FromSlice(items).WithConfig(cfg).Named("ingest").Count(ctx)
//
// Expose them with the usual handler:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation, for example in tests:
//
//	registry := prometheus.NewRegistry()
//	reg := metrics.Config{Enabled: true, Registry: registry}.Build()
//
// # Available Metrics
//
// ## Stream Metrics
//
//   - seqflow_stream_evaluations_total: Terminal operations evaluated
//   - seqflow_stream_elements_total: Elements that reached a terminal operation
//   - seqflow_stream_errors_total: Failed terminal operations
//   - seqflow_stream_short_circuits_total: Evaluations stopped before exhausting the source
//   - seqflow_stream_partitions_total: Source partitions processed concurrently
//   - seqflow_stream_evaluation_duration_seconds: Time spent in terminal operations
//
// ## Worker Pool Metrics
//
//   - seqflow_workerpool_size: Worker limit of the most recent pool
//   - seqflow_workerpool_active_workers: Workers currently executing tasks
//   - seqflow_workerpool_tasks_executed_total: Tasks executed
//   - seqflow_workerpool_tasks_failed_total: Tasks that returned an error or panicked
//   - seqflow_workerpool_task_duration_seconds: Time spent executing tasks
//
// # Labels
//
//   - terminal: Terminal operation name (e.g. "count", "collect", "reduce")
//   - mode: "sequential" or "concurrent"
//   - stream_name: Name given with Stream.Named, empty when unset
//   - pool_name: Name of the worker pool instance
//
// # Configuration
//
//	config := metrics.Config{
//		Enabled:   true,                                // Enable/disable metrics
//		Registry:  prometheus.DefaultRegisterer,        // Custom registry
//		Namespace: "myapp",                             // Override default "seqflow"
//		Labels:    prometheus.Labels{"version": "1.0"}, // Additional labels
//	}
//	reg := config.Build() // nil when disabled
//
// A nil *Registry is valid everywhere a registry is accepted and disables
// collection.
package metrics
