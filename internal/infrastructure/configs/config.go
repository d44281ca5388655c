package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/env"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Registry    RegistryConfig    `koanf:"registry"`
	Mongo       MongoConfig       `koanf:"mongo"`
	RabbitMQ    RabbitMQConfig    `koanf:"rabbitmq"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type RateLimiterConfig struct {
	MaxRatePerSecond int           `koanf:"maxRatePerSecond"`
	MaxBurst         int           `koanf:"maxBurst"`
	CacheTTL         time.Duration `koanf:"cacheTTL"`
	SourceHeaderKey  string        `koanf:"sourceHeaderKey"`
}

type RegistryConfig struct {
	MaxCodeAttempts int           `koanf:"max_code_attempts"`
	ReapInterval    time.Duration `koanf:"reap_interval"`
	EmptyRoomGrace  time.Duration `koanf:"empty_room_grace"`
}

type MongoConfig struct {
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

type RabbitMQConfig struct {
	URI      string `koanf:"uri"`
	Exchange string `koanf:"exchange"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	// Rate limiter defaults
	setDefault(k, "rateLimiter.maxRatePerSecond", 10)
	setDefault(k, "rateLimiter.maxBurst", 20)
	setDefault(k, "rateLimiter.cacheTTL", 5*time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")

	// Registry defaults
	setDefault(k, "registry.max_code_attempts", 10)
	setDefault(k, "registry.reap_interval", 5*time.Minute)
	setDefault(k, "registry.empty_room_grace", 30*time.Minute)

	// Mongo defaults
	setDefault(k, "mongo.database", "buzzer")
	setDefault(k, "mongo.timeout", 10*time.Second)

	// RabbitMQ defaults
	setDefault(k, "rabbitmq.exchange", "buzzer.events")
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	// Rate limiter config from env
	if maxRate := env.GetInt("RATE_LIMIT_MAX_RATE_PER_SECOND", 0); maxRate > 0 {
		k.Set("rateLimiter.maxRatePerSecond", maxRate)
	}
	if maxBurst := env.GetInt("RATE_LIMIT_MAX_BURST", 0); maxBurst > 0 {
		k.Set("rateLimiter.maxBurst", maxBurst)
	}
	if cacheTTL := env.GetInt("RATE_LIMIT_CACHE_TTL_MINUTES", 0); cacheTTL > 0 {
		k.Set("rateLimiter.cacheTTL", time.Duration(cacheTTL)*time.Minute)
	}
	if sourceKey := env.GetString("RATE_LIMIT_SOURCE_HEADER_KEY", ""); sourceKey != "" {
		k.Set("rateLimiter.sourceHeaderKey", sourceKey)
	}

	// Registry config from env
	if attempts := env.GetInt("REGISTRY_MAX_CODE_ATTEMPTS", 0); attempts > 0 {
		k.Set("registry.max_code_attempts", attempts)
	}
	if reap := env.GetInt("REGISTRY_REAP_INTERVAL_MINUTES", 0); reap > 0 {
		k.Set("registry.reap_interval", time.Duration(reap)*time.Minute)
	}
	if grace := env.GetInt("REGISTRY_EMPTY_ROOM_GRACE_MINUTES", 0); grace > 0 {
		k.Set("registry.empty_room_grace", time.Duration(grace)*time.Minute)
	}

	// Mongo config from env
	if uri := env.GetString("MONGO_URI", ""); uri != "" {
		k.Set("mongo.uri", uri)
	}
	if database := env.GetString("MONGO_DATABASE", ""); database != "" {
		k.Set("mongo.database", database)
	}
	if timeout := env.GetInt("MONGO_TIMEOUT_SECONDS", 0); timeout > 0 {
		k.Set("mongo.timeout", time.Duration(timeout)*time.Second)
	}

	// RabbitMQ config from env
	if uri := env.GetString("RABBITMQ_URI", ""); uri != "" {
		k.Set("rabbitmq.uri", uri)
	}
	if exchange := env.GetString("RABBITMQ_EXCHANGE", ""); exchange != "" {
		k.Set("rabbitmq.exchange", exchange)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
