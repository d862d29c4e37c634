// Package config loads stream execution settings from a config file and
// SEQFLOW_* environment variables using viper, and turns them into a
// stream.Config.
//
// Keys, with their environment variable equivalents:
//
//	mode            SEQFLOW_MODE             sequential | concurrent
//	parallelism     SEQFLOW_PARALLELISM      0 means one worker per CPU
//	batch_size      SEQFLOW_BATCH_SIZE       0 means stream.DefaultBatchSize
//	name            SEQFLOW_NAME
//	log.level       SEQFLOW_LOG_LEVEL        debug | info | warn | error
//	log.development SEQFLOW_LOG_DEVELOPMENT
//	metrics.enabled SEQFLOW_METRICS_ENABLED
//	metrics.namespace SEQFLOW_METRICS_NAMESPACE
//	dedup.redis_addr  SEQFLOW_DEDUP_REDIS_ADDR
//	dedup.key         SEQFLOW_DEDUP_KEY
//	dedup.ttl         SEQFLOW_DEDUP_TTL
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/common/validation"
	"github.com/vnykmshr/seqflow/pkg/metrics"
	"github.com/vnykmshr/seqflow/pkg/streaming/dedup"
	"github.com/vnykmshr/seqflow/pkg/streaming/stream"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SEQFLOW"

// Settings is the file/environment form of a stream configuration.
type Settings struct {
	Mode        string          `mapstructure:"mode"`
	Parallelism int             `mapstructure:"parallelism"`
	BatchSize   int             `mapstructure:"batch_size"`
	Name        string          `mapstructure:"name"`
	Log         LogSettings     `mapstructure:"log"`
	Metrics     MetricsSettings `mapstructure:"metrics"`
	Dedup       DedupSettings   `mapstructure:"dedup"`
}

// LogSettings configures the zap logger handed to streams.
type LogSettings struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// MetricsSettings configures Prometheus instrumentation.
type MetricsSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// DedupSettings selects the key set used by DistinctWith. An empty RedisAddr
// keeps keys in memory.
type DedupSettings struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	Key       string        `mapstructure:"key"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// LoaderConfig holds optional loader overrides.
type LoaderConfig struct {
	ConfigFile string
	Viper      *viper.Viper
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile reads settings from path before applying the environment.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithViper loads from an existing viper instance instead of a new one.
func WithViper(v *viper.Viper) LoaderOption {
	return func(lc *LoaderConfig) { lc.Viper = v }
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", stream.Sequential.String())
	v.SetDefault("parallelism", 0)
	v.SetDefault("batch_size", 0)
	v.SetDefault("name", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", metrics.DefaultNamespace)
	v.SetDefault("dedup.redis_addr", "")
	v.SetDefault("dedup.key", "seqflow:distinct")
	v.SetDefault("dedup.ttl", time.Hour)
}

// Load reads Settings from defaults, an optional config file and the
// environment, in increasing order of precedence, and validates them.
func Load(opts ...LoaderOption) (Settings, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	v := lc.Viper
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, gferrors.NewOperationError("config", "Load", err).WithContext(lc.ConfigFile)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings describe a usable configuration.
func (s Settings) Validate() error {
	if err := validation.ValidateOneOf("config", "mode", strings.ToLower(s.Mode),
		stream.Sequential.String(), stream.Concurrent.String()); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "parallelism", s.Parallelism); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "batch_size", s.BatchSize); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(s.Log.Level); err != nil {
		return gferrors.NewValidationError("config", "log.level", s.Log.Level, "unknown level").
			WithHint("use debug, info, warn or error")
	}
	if s.Dedup.RedisAddr != "" {
		if err := validation.ValidateNonNegative("config", "dedup.ttl", s.Dedup.TTL); err != nil {
			return err
		}
	}
	return nil
}

// Logger builds the zap logger described by the log settings.
func (s Settings) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if s.Log.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// StreamConfig builds a stream.Config. Metrics, when enabled, register with
// reg, or with the Prometheus default registerer when reg is nil. Registering
// the same namespace twice with one registerer panics, so build once per
// registerer and share the result.
func (s Settings) StreamConfig(reg prometheus.Registerer) (stream.Config, error) {
	if err := s.Validate(); err != nil {
		return stream.Config{}, err
	}

	logger, err := s.Logger()
	if err != nil {
		return stream.Config{}, err
	}

	cfg := stream.DefaultConfig()
	if strings.EqualFold(s.Mode, stream.Concurrent.String()) {
		cfg.Mode = stream.Concurrent
	}
	cfg.Parallelism = s.Parallelism
	cfg.BatchSize = s.BatchSize
	cfg.Name = s.Name
	cfg.Logger = logger
	cfg.Metrics = metrics.Config{
		Enabled:   s.Metrics.Enabled,
		Registry:  reg,
		Namespace: s.Metrics.Namespace,
	}.Build()

	return cfg, nil
}

// KeySet returns the key set selected by the dedup settings and a function
// releasing its resources.
func (s Settings) KeySet() (dedup.KeySet, func() error, error) {
	if s.Dedup.RedisAddr == "" {
		return dedup.NewMemorySet(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{Addr: s.Dedup.RedisAddr})
	set, err := dedup.NewRedisSet(dedup.RedisConfig{
		Redis: client,
		Key:   s.Dedup.Key,
		TTL:   s.Dedup.TTL,
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return set, client.Close, nil
}
