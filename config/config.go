// Package config reads service configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Audit transports
const (
	TransportHTTP  = "http"
	TransportKafka = "kafka"
	TransportNone  = "none"
)

// Logging configures the process logger
type Logging struct {
	Format     string
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Audit configures how the rate service delivers audit events
type Audit struct {
	Transport       string
	LogServiceURL   string
	KafkaBrokers    []string
	KafkaTopic      string
	QueueSize       int
	Workers         int
	RetryInitial    time.Duration
	RetryMaxElapsed time.Duration
	ShutdownTimeout time.Duration
}

// RateService is the rate service configuration
type RateService struct {
	Addr            string
	DatabasePath    string
	ImportRatesPath string
	Logging         Logging
	Audit           Audit
}

// OIDC configures optional operator login on the log service
type OIDC struct {
	IssuerURL     string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	SecureCookies bool
}

// Enabled reports whether operator login is configured
func (o OIDC) Enabled() bool {
	return o.IssuerURL != ""
}

// LogService is the log service configuration
type LogService struct {
	Addr         string
	DatabasePath string
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string
	Logging      Logging
	OIDC         OIDC
}

// LoadEnv loads the given .env files, or ".env" when none are given.
// Missing files are ignored; variables already set are not overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// RateServiceFromEnv builds the rate service configuration
func RateServiceFromEnv() (RateService, error) {
	var e env
	cfg := RateService{
		Addr:            e.str("RATE_ADDR", ":8000"),
		DatabasePath:    e.str("RATE_DB_PATH", "rates.db"),
		ImportRatesPath: e.str("IMPORT_RATES_PATH", "data/import_rates.json"),
		Logging:         loggingFromEnv(&e),
		Audit: Audit{
			Transport:       strings.ToLower(e.str("AUDIT_TRANSPORT", TransportHTTP)),
			LogServiceURL:   e.str("LOG_SERVICE_URL", "http://localhost:8050"),
			KafkaBrokers:    e.list("AUDIT_KAFKA_BROKERS"),
			KafkaTopic:      e.str("AUDIT_KAFKA_TOPIC", "audit-events"),
			QueueSize:       e.int("AUDIT_QUEUE_SIZE", 1024),
			Workers:         e.int("AUDIT_WORKERS", 4),
			RetryInitial:    e.duration("AUDIT_RETRY_INITIAL", 200*time.Millisecond),
			RetryMaxElapsed: e.duration("AUDIT_RETRY_MAX_ELAPSED", 2*time.Minute),
			ShutdownTimeout: e.duration("AUDIT_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	switch cfg.Audit.Transport {
	case TransportHTTP, TransportNone:
	case TransportKafka:
		if len(cfg.Audit.KafkaBrokers) == 0 {
			e.fail("AUDIT_KAFKA_BROKERS", "is required when AUDIT_TRANSPORT=kafka")
		}
	default:
		e.fail("AUDIT_TRANSPORT", "must be one of http, kafka, none")
	}
	if cfg.Audit.QueueSize < 1 {
		e.fail("AUDIT_QUEUE_SIZE", "must be positive")
	}
	if cfg.Audit.Workers < 1 {
		e.fail("AUDIT_WORKERS", "must be positive")
	}

	return cfg, e.err()
}

// LogServiceFromEnv builds the log service configuration
func LogServiceFromEnv() (LogService, error) {
	var e env
	cfg := LogService{
		Addr:         e.str("LOG_ADDR", ":8050"),
		DatabasePath: e.str("LOG_DB_PATH", "logs.db"),
		KafkaBrokers: e.list("LOG_KAFKA_BROKERS"),
		KafkaTopic:   e.str("LOG_KAFKA_TOPIC", "audit-events"),
		KafkaGroup:   e.str("LOG_KAFKA_GROUP", "logsvc"),
		Logging:      loggingFromEnv(&e),
		OIDC: OIDC{
			IssuerURL:     e.str("OIDC_ISSUER_URL", ""),
			ClientID:      e.str("OIDC_CLIENT_ID", ""),
			ClientSecret:  e.str("OIDC_CLIENT_SECRET", ""),
			RedirectURL:   e.str("OIDC_REDIRECT_URL", ""),
			SecureCookies: e.bool("USE_HTTPS", false),
		},
	}
	return cfg, e.err()
}

func loggingFromEnv(e *env) Logging {
	cfg := Logging{
		Format:     strings.ToLower(e.str("LOG_FORMAT", "json")),
		Level:      e.str("LOG_LEVEL", "info"),
		File:       e.str("LOG_FILE", ""),
		MaxSizeMB:  e.int("LOG_FILE_MAX_SIZE_MB", 100),
		MaxBackups: e.int("LOG_FILE_MAX_BACKUPS", 5),
		MaxAgeDays: e.int("LOG_FILE_MAX_AGE_DAYS", 30),
	}
	if cfg.Format != "json" && cfg.Format != "text" {
		e.fail("LOG_FORMAT", "must be json or text")
	}
	return cfg
}

// env reads typed variables and collects every parse failure
type env struct {
	errs []error
}

func (e *env) fail(key, msg string) {
	e.errs = append(e.errs, fmt.Errorf("%s %s", key, msg))
}

func (e *env) err() error {
	return errors.Join(e.errs...)
}

func (e *env) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e *env) list(key string) []string {
	var out []string
	for _, part := range strings.Split(e.str(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e *env) int(key string, def int) int {
	s := e.str(key, "")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		e.fail(key, "must be an integer")
		return def
	}
	return n
}

func (e *env) bool(key string, def bool) bool {
	s := e.str(key, "")
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		e.fail(key, "must be true or false")
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	s := e.str(key, "")
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		e.fail(key, "must be a duration such as 200ms or 2m")
		return def
	}
	return d
}
