package stream

import (
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/common/validation"
	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// Mode selects how a terminal operation evaluates the pipeline.
type Mode int

const (
	// Sequential evaluates on the calling goroutine in encounter order.
	Sequential Mode = iota

	// Concurrent partitions the source across a worker pool.
	Concurrent
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// DefaultBatchSize is the partition size used for sources of unknown length.
const DefaultBatchSize = 256

const tracerName = "github.com/vnykmshr/seqflow/pkg/streaming/stream"

// Config holds evaluation options carried by a stream.
type Config struct {
	// Mode selects sequential or concurrent evaluation.
	Mode Mode

	// Parallelism bounds the worker pool in concurrent mode.
	// Zero means runtime.GOMAXPROCS(0).
	Parallelism int

	// BatchSize is the number of elements per partition when the source
	// length is unknown. Zero means DefaultBatchSize.
	BatchSize int

	// Name labels logs, metrics and spans.
	Name string

	// Logger receives evaluation summaries at debug level. Nil means no logging.
	Logger *zap.Logger

	// Metrics records evaluation metrics. Nil disables collection.
	Metrics *metrics.Registry

	// Tracer starts one span per terminal operation. Nil uses the global
	// tracer provider.
	Tracer trace.Tracer
}

// DefaultConfig returns a sequential configuration without instrumentation.
func DefaultConfig() Config {
	return Config{
		Mode:      Sequential,
		BatchSize: DefaultBatchSize,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Mode != Sequential && c.Mode != Concurrent {
		return gferrors.NewValidationError("stream", "Mode", int(c.Mode), "unknown mode").
			WithHint("use stream.Sequential or stream.Concurrent")
	}
	if err := validation.ValidateNonNegative("stream", "Parallelism", c.Parallelism); err != nil {
		return err
	}
	return validation.ValidateNonNegative("stream", "BatchSize", c.BatchSize)
}

// withDefaults fills zero values. It does not validate.
func (c Config) withDefaults() Config {
	if c.Parallelism == 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(tracerName)
	}
	return c
}
