// Package config loads the service configuration from defaults, an optional
// YAML file and DEVCRAFT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/devcraft/pkg/persistence/middleware"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. DEVCRAFT_HTTP_ADDR.
const EnvPrefix = "DEVCRAFT"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Delivery backends.
const (
	DeliverySimulated = "simulated"
	DeliverySQLite    = "sqlite"
)

// Config is the full service configuration.
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Contact  ContactConfig  `mapstructure:"contact"`
	Store    StoreConfig    `mapstructure:"store"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Trace    TraceConfig    `mapstructure:"trace"`
	Pretty   bool           `mapstructure:"pretty"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	SecureCookies   bool          `mapstructure:"secure_cookies"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
}

type LogConfig struct {
	Level  slog.Level `mapstructure:"level"`
	Format string     `mapstructure:"format"`
}

type ContactConfig struct {
	SubmitLatency time.Duration `mapstructure:"submit_latency"`
	ResetDelay    time.Duration `mapstructure:"reset_delay"`
	StaleAfter    time.Duration `mapstructure:"stale_after"`
}

type StoreConfig struct {
	Backend         string      `mapstructure:"backend"`
	Redis           RedisConfig `mapstructure:"redis"`
	File            FileConfig  `mapstructure:"file"`
	EncryptionKey   string      `mapstructure:"encryption_key"`
	FallbackKeys    []string    `mapstructure:"fallback_keys"`
	RedactDelivered bool        `mapstructure:"redact_delivered"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type DeliveryConfig struct {
	Backend string       `mapstructure:"backend"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	// Fail makes the simulated deliverer reject every message.
	Fail bool `mapstructure:"fail"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type TraceConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

var defaults = map[string]any{
	"http.addr":             ":8080",
	"http.secure_cookies":   false,
	"http.shutdown_timeout": "10s",
	"http.ping_interval":    "30s",

	"log.level":  "info",
	"log.format": "text",

	"contact.submit_latency": "1500ms",
	"contact.reset_delay":    "3000ms",
	"contact.stale_after":    "1m",

	"store.backend":          StoreMemory,
	"store.redis.addr":       "localhost:6379",
	"store.redis.password":   "",
	"store.redis.db":         0,
	"store.redis.ttl":        "1h",
	"store.redis.prefix":     "devcraft:",
	"store.file.dir":         ".devcraft/sessions",
	"store.encryption_key":   "",
	"store.fallback_keys":    []string{},
	"store.redact_delivered": false,

	"delivery.backend":     DeliverySimulated,
	"delivery.sqlite.path": "devcraft.db",
	"delivery.fail":        false,

	"metrics.enabled": true,

	"trace.endpoint":     "",
	"trace.insecure":     false,
	"trace.sample_ratio": 1.0,

	"pretty": false,
}

// New returns a viper instance primed with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (when non-empty) on top of the defaults and decodes the result.
func Load(path string) (*Config, error) {
	return Read(New(), path)
}

// Read is Load on a caller-prepared viper, e.g. one with command-line flags bound.
func Read(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	cfg, err := Decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate reports every setting that cannot be honoured.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Contact.SubmitLatency < 0 {
		errs = append(errs, errors.New("contact.submit_latency must not be negative"))
	}
	if c.Contact.ResetDelay <= 0 {
		errs = append(errs, errors.New("contact.reset_delay must be positive"))
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreFile:
		if c.Store.File.Dir == "" {
			errs = append(errs, errors.New("store.file.dir is required for the file backend"))
		}
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q: want %s, %s or %s", c.Store.Backend, StoreMemory, StoreFile, StoreRedis))
	}
	if c.Store.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Store.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("store.encryption_key: %w", err))
		}
	} else if len(c.Store.FallbackKeys) > 0 {
		errs = append(errs, errors.New("store.fallback_keys needs store.encryption_key"))
	}
	for i, k := range c.Store.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("store.fallback_keys[%d]: %w", i, err))
		}
	}
	switch c.Delivery.Backend {
	case DeliverySimulated:
	case DeliverySQLite:
		if c.Delivery.SQLite.Path == "" {
			errs = append(errs, errors.New("delivery.sqlite.path is required for the sqlite backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("delivery.backend %q: want %s or %s", c.Delivery.Backend, DeliverySimulated, DeliverySQLite))
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("trace.sample_ratio %v: want 0..1", c.Trace.SampleRatio))
	}
	return errors.Join(errs...)
}

// EncryptionKeys decodes the active and fallback keys. It returns nil when encryption is off.
func (c StoreConfig) EncryptionKeys() (*middleware.EncryptionConfig, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	active, err := middleware.ParseKey(c.EncryptionKey)
	if err != nil {
		return nil, err
	}
	cfg := &middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range c.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, err
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, nil
}
