package audit

import (
	"log/slog"
	"time"
)

// Config holds the dispatcher settings.
type Config struct {
	QueueSize        int           // Capacity of the in-memory event queue.
	Workers          int           // Number of delivery goroutines.
	BatchSize        int           // Maximum events per Transport.Send call.
	RetryInitial     time.Duration // First backoff interval.
	RetryMaxInterval time.Duration // Upper bound of a single backoff interval.
	RetryMaxElapsed  time.Duration // Give up on a batch after this long.
	SendTimeout      time.Duration // Deadline of a single Send attempt.
	Metrics          Metrics
	Logger           *slog.Logger
}

// DefaultConfig returns the settings used when no option overrides them.
func DefaultConfig() Config {
	return Config{
		QueueSize:        1024,
		Workers:          4,
		BatchSize:        20,
		RetryInitial:     200 * time.Millisecond,
		RetryMaxInterval: 10 * time.Second,
		RetryMaxElapsed:  2 * time.Minute,
		SendTimeout:      5 * time.Second,
		Metrics:          nopMetrics{},
		Logger:           slog.Default(),
	}
}

// Option configures a Dispatcher.
type Option func(*Config)

// WithQueueSize sets the capacity of the event queue. Events emitted while
// the queue is full are dropped.
func WithQueueSize(n int) Option {
	return func(cfg *Config) { cfg.QueueSize = n }
}

// WithWorkers sets the number of concurrent delivery goroutines.
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// WithBatchSize caps how many queued events a worker sends at once.
func WithBatchSize(n int) Option {
	return func(cfg *Config) { cfg.BatchSize = n }
}

// WithRetry configures exponential backoff between delivery attempts.
func WithRetry(initial, maxInterval, maxElapsed time.Duration) Option {
	return func(cfg *Config) {
		cfg.RetryInitial = initial
		cfg.RetryMaxInterval = maxInterval
		cfg.RetryMaxElapsed = maxElapsed
	}
}

// WithSendTimeout bounds a single delivery attempt.
func WithSendTimeout(d time.Duration) Option {
	return func(cfg *Config) { cfg.SendTimeout = d }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(cfg *Config) { cfg.Metrics = m }
}

// WithLogger sets the logger used for delivery warnings and drops.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = logger }
}
