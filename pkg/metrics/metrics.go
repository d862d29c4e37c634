package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name unless Config.Namespace overrides it.
const DefaultNamespace = "seqflow"

// Registry holds all metric instances for seqflow components.
type Registry struct {
	// Stream evaluation metrics
	StreamEvaluations   *prometheus.CounterVec
	StreamElements      *prometheus.CounterVec
	StreamErrors        *prometheus.CounterVec
	StreamShortCircuits *prometheus.CounterVec
	StreamPartitions    *prometheus.CounterVec
	StreamDuration      *prometheus.HistogramVec

	// Worker pool metrics
	WorkerPoolSize        *prometheus.GaugeVec
	WorkerPoolActive      *prometheus.GaugeVec
	TasksExecuted         *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns a registry bound to prometheus.DefaultRegisterer.
// It is created on first use so importing this package has no side effects.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return newRegistry(reg, DefaultNamespace, nil)
}

func newRegistry(reg prometheus.Registerer, namespace string, labels prometheus.Labels) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		StreamEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "evaluations_total",
				Help:        "Total number of terminal operations evaluated",
				ConstLabels: labels,
			},
			[]string{"terminal", "mode", "stream_name"},
		),

		StreamElements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "elements_total",
				Help:        "Total number of elements that reached a terminal operation",
				ConstLabels: labels,
			},
			[]string{"terminal", "stream_name"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "errors_total",
				Help:        "Total number of failed terminal operations",
				ConstLabels: labels,
			},
			[]string{"terminal", "stream_name"},
		),

		StreamShortCircuits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "short_circuits_total",
				Help:        "Total number of evaluations that stopped before exhausting their source",
				ConstLabels: labels,
			},
			[]string{"terminal", "stream_name"},
		),

		StreamPartitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "partitions_total",
				Help:        "Total number of source partitions processed by concurrent evaluations",
				ConstLabels: labels,
			},
			[]string{"stream_name"},
		),

		StreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "evaluation_duration_seconds",
				Help:        "Time spent evaluating terminal operations",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"terminal", "mode", "stream_name"},
		),

		WorkerPoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "workerpool",
				Name:        "size",
				Help:        "Worker limit of the most recent pool",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		WorkerPoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "workerpool",
				Name:        "active_workers",
				Help:        "Number of workers currently executing tasks",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "workerpool",
				Name:        "tasks_executed_total",
				Help:        "Total number of tasks executed",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "workerpool",
				Name:        "tasks_failed_total",
				Help:        "Total number of tasks that returned an error or panicked",
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "workerpool",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing tasks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"pool_name"},
		),
	}
}
