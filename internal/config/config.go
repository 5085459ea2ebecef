package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the process configuration read from the environment.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Log         LogConfig
	Cache       CacheConfig
	Retry       RetryConfig
	HTTPClient  HTTPClientConfig
	Credentials CredentialsConfig
	Models      ModelsConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int `env:"SERVER_WRITE_TIMEOUT"    envDefault:"120"`
	ShutdownTimeout int `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL"       envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// CacheConfig selects and tunes the response cache store.
// An empty RedisURL selects the in-process store.
type CacheConfig struct {
	RedisURL        string        `env:"REDIS_URL"`
	KeyPrefix       string        `env:"REDIS_KEY_PREFIX"       envDefault:"llm:cache:"`
	TTL             time.Duration `env:"CACHE_TTL"              envDefault:"60s"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"5m"`
}

// RetryConfig bounds retries of a single backend call.
type RetryConfig struct {
	MaxAttempts    int           `env:"RETRY_MAX_ATTEMPTS"    envDefault:"3"`
	InitialBackoff time.Duration `env:"RETRY_INITIAL_BACKOFF" envDefault:"4s"`
	MaxBackoff     time.Duration `env:"RETRY_MAX_BACKOFF"     envDefault:"10s"`
	Multiplier     float64       `env:"RETRY_MULTIPLIER"      envDefault:"2"`
}

// HTTPClientConfig tunes the HTTP client shared by all backends.
type HTTPClientConfig struct {
	Timeout             time.Duration `env:"HTTP_TIMEOUT"                 envDefault:"30s"`
	MaxIdleConns        int           `env:"HTTP_MAX_IDLE_CONNS"          envDefault:"100"`
	MaxIdleConnsPerHost int           `env:"HTTP_MAX_IDLE_CONNS_PER_HOST" envDefault:"20"`
	IdleConnTimeout     time.Duration `env:"HTTP_IDLE_CONN_TIMEOUT"       envDefault:"90s"`
}

// CredentialsConfig holds backend secrets. They never live in the models file.
type CredentialsConfig struct {
	GoogleAPIKey     string `env:"GOOGLE_API_KEY"`
	OllamaAPIKey     string `env:"OLLAMA_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
}

// ModelsConfig locates the provider/model tree.
type ModelsConfig struct {
	Path string `env:"MODELS_CONFIG_PATH" envDefault:"configs/models_config.yaml"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*LogConfig
	*CacheConfig
	*RetryConfig
	*HTTPClientConfig
	*CredentialsConfig
	*ModelsConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Log,
		&cfg.Cache,
		&cfg.Retry,
		&cfg.HTTPClient,
		&cfg.Credentials,
		&cfg.Models,
	}
}
