package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if !cfg.GraphQL.Playground {
		t.Error("GraphQL.Playground = false, want true")
	}
	if !cfg.Search.Enabled {
		t.Error("Search.Enabled = false, want true")
	}
	if cfg.IDs.Length != 20 {
		t.Errorf("IDs.Length = %d, want 20", cfg.IDs.Length)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want default 4000", cfg.Server.Port)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	content := `
[server]
port = 8088
gin_mode = "DEBUG"

[log]
level = "warning"
pretty = true

[graphql]
playground = false
complexity_limit = 200

[cors]
allowed_origins = ["https://example.com"]

[ids]
length = 32
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8088 {
		t.Errorf("Port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Server.GinMode != "debug" {
		t.Errorf("GinMode = %q, want \"debug\"", cfg.Server.GinMode)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
	if !cfg.Log.Pretty {
		t.Error("Log.Pretty = false, want true")
	}
	if cfg.GraphQL.Playground {
		t.Error("GraphQL.Playground = true, want false")
	}
	if cfg.GraphQL.ComplexityLimit != 200 {
		t.Errorf("ComplexityLimit = %d, want 200", cfg.GraphQL.ComplexityLimit)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.IDs.Length != 32 {
		t.Errorf("IDs.Length = %d, want 32", cfg.IDs.Length)
	}
	// Values absent from the file keep their defaults
	if cfg.Server.IdleTimeoutSeconds != 60 {
		t.Errorf("IdleTimeoutSeconds = %d, want 60", cfg.Server.IdleTimeoutSeconds)
	}
	if !cfg.Search.Enabled {
		t.Error("Search.Enabled = false, want default true")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() expected parse error, got nil")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MSGBOARD_PORT", "9090")
	t.Setenv("MSGBOARD_LOG_LEVEL", "DEBUG")
	t.Setenv("MSGBOARD_RATE_LIMIT_RPS", "2.5")
	t.Setenv("MSGBOARD_SEARCH_ENABLED", "false")
	t.Setenv("MSGBOARD_CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test,")

	cfg, err := Load(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Errorf("RateLimit.RPS = %v, want 2.5", cfg.RateLimit.RPS)
	}
	if cfg.Search.Enabled {
		t.Error("Search.Enabled = true, want false")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.CORS.AllowedOrigins)
	}
}

func TestApplyEnvIgnoresGarbage(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"MSGBOARD_PORT":       "not-a-number",
		"MSGBOARD_LOG_PRETTY": "maybe",
	}
	applyEnv(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Log.Pretty {
		t.Error("Log.Pretty = true, want false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"unknown gin mode", func(c *Config) { c.Server.GinMode = "turbo" }, true},
		{"negative rps", func(c *Config) { c.RateLimit.RPS = -1 }, true},
		{"short ids", func(c *Config) { c.IDs.Length = 4 }, true},
		{"negative complexity", func(c *Config) { c.GraphQL.ComplexityLimit = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	cfg := Default()
	cfg.Server.Port = 5555

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != 5555 {
		t.Errorf("Port = %d, want 5555", loaded.Server.Port)
	}
}

func TestTimeouts(t *testing.T) {
	cfg := Default()
	if got := cfg.ReadTimeout(); got != 15*time.Second {
		t.Errorf("ReadTimeout() = %v, want 15s", got)
	}
	if got := cfg.IdleTimeout(); got != time.Minute {
		t.Errorf("IdleTimeout() = %v, want 1m", got)
	}
	if got := cfg.Addr(); got != ":4000" {
		t.Errorf("Addr() = %q, want \":4000\"", got)
	}
}
