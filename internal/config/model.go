package config

import "time"

// App holds process-wide settings.
type App struct {
	Env string `koanf:"env" validate:"required"`
}

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	SlowRequest     time.Duration `koanf:"slow_request" validate:"gt=0"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
}

// Database holds the DSN and pool settings.
//
// A DSN starting with postgres:// or postgresql:// selects postgres; anything
// else is treated as a sqlite path or URI.
type Database struct {
	DSN             string        `koanf:"dsn" validate:"required"`
	Strict          bool          `koanf:"strict"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
}

// Log configures the zap logger. An empty Dir disables the file sink.
type Log struct {
	Level   string `koanf:"level" validate:"oneof=debug info warn error"`
	Dir     string `koanf:"dir"`
	Console bool   `koanf:"console"`
}

// Config is the aggregate returned by Load().
type Config struct {
	App      App      `koanf:"app"`
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`
}

// IsProduction reports whether the app runs in a prod-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.App.Env)
}
