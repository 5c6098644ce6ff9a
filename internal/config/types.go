// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package config

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	Gateway   Gateway   `mapstructure:"gateway"`
	Redis     Redis     `mapstructure:"redis"`
	RateLimit RateLimit `mapstructure:"rate_limit"`
	Cache     Cache     `mapstructure:"cache"`
	NATS      NATS      `mapstructure:"nats"`
	Telemetry Telemetry `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Gateway configuration settings for the HTTP gateway server.
type Gateway struct {
	// Port the server will bind to.
	Port int `mapstructure:"port"`
	// Security contains security-related settings such as CORS and the
	// token signing key.
	Security Security `mapstructure:"security"`
	// Routes maps path prefixes to backend services.
	Routes []ServiceRoute `mapstructure:"routes" validate:"required,dive"`
	// BackendTimeout is the per-request timeout for proxied backend calls.
	BackendTimeout string `mapstructure:"backend_timeout"` // e.g. "10s"
}

// Security represents security-related settings for the gateway.
type Security struct {
	// CORS Cross-Origin Resource Sharing (CORS) settings for the server.
	CORS CORS `mapstructure:"cors"`
	// SigningKey is the key used for signing and validating bearer tokens.
	SigningKey string `mapstructure:"signing_key" validate:"required"`
}

// CORS represents the CORS (Cross-Origin Resource Sharing) settings.
type CORS struct {
	// List of origins allowed to access the server.
	AllowOrigins []string `mapstructure:"allow_origins,omitempty"`
}

// ServiceRoute maps a path prefix to a backend base URL. Routes are loaded
// once at startup and read-only at request time.
type ServiceRoute struct {
	// Prefix is the inbound path prefix, e.g. "/api/users".
	Prefix string `mapstructure:"prefix" validate:"required,startswith=/"`
	// Target is the backend base URL, e.g. "http://localhost:3002".
	Target string `mapstructure:"target" validate:"required,url"`
	// StripPrefix removes the prefix before forwarding when true.
	StripPrefix bool `mapstructure:"strip_prefix"`
	// Protected requires a verified bearer identity when true.
	Protected bool `mapstructure:"protected"`
	// Cacheable enables the response cache for GET requests when true.
	Cacheable bool `mapstructure:"cacheable"`
}

// Redis configuration for the shared key-value store.
type Redis struct {
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" validate:"required"`
	// Password for AUTH, empty for none.
	Password string `mapstructure:"password"`
	// DB selects the logical database.
	DB int `mapstructure:"db"`
	// PoolSize caps the connection pool.
	PoolSize int `mapstructure:"pool_size"`
	// DialTimeout, ReadTimeout, WriteTimeout are connection timeouts.
	DialTimeout  string `mapstructure:"dial_timeout"`  // e.g. "5s"
	ReadTimeout  string `mapstructure:"read_timeout"`  // e.g. "3s"
	WriteTimeout string `mapstructure:"write_timeout"` // e.g. "3s"
}

// RateLimit configuration for both limiter layers.
type RateLimit struct {
	Bucket BucketLimit `mapstructure:"bucket,omitempty"`
	Window WindowLimit `mapstructure:"window,omitempty"`
	// KeyBy selects the caller key scheme. Only "ip" is implemented;
	// keying by verified identity remains a future configuration choice.
	KeyBy string `mapstructure:"key_by"`
}

// BucketLimit configuration for the token-bucket limiter.
type BucketLimit struct {
	// Capacity is the maximum token count.
	Capacity float64 `mapstructure:"capacity"`
	// RefillPerSecond is the continuous refill rate.
	RefillPerSecond float64 `mapstructure:"refill_per_second"`
}

// WindowLimit configuration for the fixed-window limiter.
type WindowLimit struct {
	// Limit is the maximum number of requests per window.
	Limit int `mapstructure:"limit"`
	// Duration is the window length, e.g. "1m".
	Duration string `mapstructure:"duration"`
}

// Cache configuration for the response cache.
type Cache struct {
	// TTL is the fixed entry lifetime, e.g. "60s".
	TTL string `mapstructure:"ttl"`
}

// NATS configuration settings.
type NATS struct {
	Connection NATSConnection `mapstructure:"connection,omitempty"`
	Stream     NATSStream     `mapstructure:"stream,omitempty"`
	Consumer   NATSConsumer   `mapstructure:"consumer,omitempty"`
	AuditKV    NATSAuditKV    `mapstructure:"audit_kv,omitempty"`
}

// NATSConnection is a reusable NATS connection configuration block.
type NATSConnection struct {
	// Host the NATS server hostname.
	Host string `mapstructure:"host"`
	// Port the NATS server port.
	Port int `mapstructure:"port"`
	// ClientName the NATS client name for identification.
	ClientName string `mapstructure:"client_name"`
}

// NATSStream configuration for the audit JetStream stream.
type NATSStream struct {
	// Name is the JetStream stream name.
	Name string `mapstructure:"name"`
	// Subject is the audit event subject on the stream.
	Subject string `mapstructure:"subject"`
	MaxAge  string `mapstructure:"max_age"` // e.g. "24h"
	MaxMsgs int64  `mapstructure:"max_msgs"`
	Storage string `mapstructure:"storage"` // "file" or "memory"
}

// NATSConsumer configuration for the audit worker's durable consumer.
type NATSConsumer struct {
	// Name is the durable consumer name.
	Name string `mapstructure:"name"`
	// AckWait is the time to wait for an ACK before redelivering.
	AckWait string `mapstructure:"ack_wait"` // e.g. "30s"
	// MaxDeliver is the maximum number of redelivery attempts.
	MaxDeliver int `mapstructure:"max_deliver"`
	// ReconnectWait is the fixed backoff between connect attempts.
	ReconnectWait string `mapstructure:"reconnect_wait"` // e.g. "5s"
}

// NATSAuditKV configuration for the audit record KV bucket.
type NATSAuditKV struct {
	// Bucket is the KV bucket name for recorded audit events.
	Bucket   string `mapstructure:"bucket"`
	TTL      string `mapstructure:"ttl"` // e.g. "720h" (30 days)
	MaxBytes int64  `mapstructure:"max_bytes"`
	Storage  string `mapstructure:"storage"` // "file" or "memory"
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}
