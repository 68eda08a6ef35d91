// Configuration is built from layers, highest precedence last:
//
//  1. built-in defaults,
//  2. the YAML file named by LEADS_CONFIG (default conf/config.yaml), if present,
//  3. an optional .env file (read before the YAML, so it may set LEADS_CONFIG),
//  4. LEADS_-prefixed environment variables, where "__" maps to "."
//     (LEADS_HTTP__LISTEN_ADDR -> http.listen_addr),
//  5. the legacy deployment variables PORT, DATABASE_URL and CORS_ALLOWED_ORIGINS.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "LEADS_"
	defaultConfigPath = "conf/config.yaml"
)

var v = validator.New()

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.env":                    "development",
		"http.listen_addr":           ":5000",
		"http.read_timeout":          "10s",
		"http.write_timeout":         "15s",
		"http.idle_timeout":          "60s",
		"http.shutdown_timeout":      "10s",
		"http.slow_request":          "200ms",
		"http.allowed_origins":       []string{"http://localhost:3000", "http://localhost:3001", "http://127.0.0.1:3000", "http://127.0.0.1:3001"},
		"database.dsn":               "leads.db",
		"database.strict":            true,
		"database.max_open_conns":    10,
		"database.max_idle_conns":    5,
		"database.conn_max_lifetime": "5m",
		"log.level":                  "info",
		"log.dir":                    "",
		"log.console":                true,
	}
}

// Load reads every layer, validates, and returns the merged Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	// .env is optional; values already in the environment win. It is read
	// first so it can also name the config file.
	_ = godotenv.Load()

	path := getEnv("LEADS_CONFIG", defaultConfigPath)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		return nil, fmt.Errorf("config env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	applyLegacyEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyLegacyEnv(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.HTTP.ListenAddr = ":" + port
	}
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		cfg.Database.DSN = dsn
	}
	// CORS_ALLOWED_ORIGINS=https://app.com,https://admin.app.com
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.HTTP.AllowedOrigins = append(cfg.HTTP.AllowedOrigins, o)
			}
		}
	}
}

func validateConfig(cfg *Config) error {
	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if cfg.Database.MaxIdleConns > cfg.Database.MaxOpenConns && cfg.Database.MaxOpenConns > 0 {
		return fmt.Errorf("database.max_idle_conns must not exceed database.max_open_conns")
	}
	if isProdLike(cfg.App.Env) && isSQLite(cfg.Database.DSN) {
		return fmt.Errorf("in prod/release database.dsn must point at postgres")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isSQLite(dsn string) bool {
	return !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://")
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
