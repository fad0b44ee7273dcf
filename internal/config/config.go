package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const ConfigFile = "msgboard.toml"

// EnvPrefix prefixes every environment variable that overrides a config value.
const EnvPrefix = "MSGBOARD_"

// Config holds the msgboard configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	GraphQL   GraphQLConfig   `toml:"graphql"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	CORS      CORSConfig      `toml:"cors"`
	Search    SearchConfig    `toml:"search"`
	IDs       IDConfig        `toml:"ids"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Port                int    `toml:"port"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `toml:"idle_timeout_seconds"`
	GinMode             string `toml:"gin_mode"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// GraphQLConfig defines settings for the GraphQL endpoint.
type GraphQLConfig struct {
	Playground      bool `toml:"playground"`
	Introspection   bool `toml:"introspection"`
	ComplexityLimit int  `toml:"complexity_limit"` // 0 disables the limit
}

// RateLimitConfig defines per-client request limits. An RPS of 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// CORSConfig defines allowed browser origins. Empty allows all origins.
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// SearchConfig toggles the full-text message index.
type SearchConfig struct {
	Enabled bool `toml:"enabled"`
}

// IDConfig defines generated identifier settings.
type IDConfig struct {
	Length int `toml:"length"`
}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// GinModes lists the accepted gin modes.
var GinModes = []string{"debug", "release", "test"}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                4000,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			IdleTimeoutSeconds:  60,
			GinMode:             "release",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
		GraphQL: GraphQLConfig{
			Playground:      true,
			Introspection:   true,
			ComplexityLimit: 0,
		},
		RateLimit: RateLimitConfig{
			RPS:   0,
			Burst: 20,
		},
		Search: SearchConfig{
			Enabled: true,
		},
		IDs: IDConfig{
			Length: 20,
		},
	}
}

// Load reads configuration from the given file, then applies environment overrides.
// Returns the default config (plus overrides) if the file doesn't exist.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Variables already set in the environment take precedence over .env.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = ConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	applyEnv(cfg, os.LookupEnv)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given file.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	return validation.Errors{
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			validation.Field(&c.Server.ReadTimeoutSeconds, validation.Min(0)),
			validation.Field(&c.Server.WriteTimeoutSeconds, validation.Min(0)),
			validation.Field(&c.Server.IdleTimeoutSeconds, validation.Min(0)),
			validation.Field(&c.Server.GinMode, validation.In(toAny(GinModes)...)),
		),
		"log": validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.Required, validation.In(toAny(LogLevels)...)),
		),
		"graphql": validation.ValidateStruct(&c.GraphQL,
			validation.Field(&c.GraphQL.ComplexityLimit, validation.Min(0)),
		),
		"rate_limit": validation.ValidateStruct(&c.RateLimit,
			validation.Field(&c.RateLimit.RPS, validation.Min(0.0)),
			validation.Field(&c.RateLimit.Burst, validation.Min(0)),
		),
		"ids": validation.ValidateStruct(&c.IDs,
			validation.Field(&c.IDs.Length, validation.Required, validation.Min(8), validation.Max(64)),
		),
	}.Filter()
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the server idle timeout.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutSeconds) * time.Second
}

// normalize lowercases enum-like values and maps aliases.
func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "warning" {
		c.Log.Level = "warn"
	}
	c.Server.GinMode = strings.ToLower(strings.TrimSpace(c.Server.GinMode))
	if c.Server.GinMode == "" {
		c.Server.GinMode = "release"
	}
}

// applyEnv overrides config values from MSGBOARD_* variables.
// Unparseable values are ignored and leave the file or default value in place.
func applyEnv(c *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				*dst = f
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}

	integer("PORT", &c.Server.Port)
	integer("READ_TIMEOUT_SECONDS", &c.Server.ReadTimeoutSeconds)
	integer("WRITE_TIMEOUT_SECONDS", &c.Server.WriteTimeoutSeconds)
	integer("IDLE_TIMEOUT_SECONDS", &c.Server.IdleTimeoutSeconds)
	str("GIN_MODE", &c.Server.GinMode)

	str("LOG_LEVEL", &c.Log.Level)
	boolean("LOG_PRETTY", &c.Log.Pretty)

	boolean("GRAPHQL_PLAYGROUND", &c.GraphQL.Playground)
	boolean("GRAPHQL_INTROSPECTION", &c.GraphQL.Introspection)
	integer("GRAPHQL_COMPLEXITY_LIMIT", &c.GraphQL.ComplexityLimit)

	float("RATE_LIMIT_RPS", &c.RateLimit.RPS)
	integer("RATE_LIMIT_BURST", &c.RateLimit.Burst)

	if v, ok := lookup(EnvPrefix + "CORS_ALLOWED_ORIGINS"); ok {
		c.CORS.AllowedOrigins = splitCSV(v)
	}

	boolean("SEARCH_ENABLED", &c.Search.Enabled)
	integer("ID_LENGTH", &c.IDs.Length)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
