package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// AppConfig holds server-specific configuration (config/app.json)
type AppConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Debug     bool   `mapstructure:"debug"`
	SecretKey string `mapstructure:"secret_key"`
	DataPath  string `mapstructure:"data_path"`
	LogLevel  string `mapstructure:"log_level"`
}

// Validate checks the app configuration
func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.SecretKey == "" {
		return errors.New("secret_key must not be empty")
	}
	return nil
}

// DatabaseConfig holds database configuration (config/database.json)
type DatabaseConfig struct {
	Type           string `mapstructure:"type"`
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
	// BusyTimeoutMS is how long a statement waits on the SQLite write
	// lock before failing with a busy error.
	BusyTimeoutMS int `mapstructure:"timeout"`
	MaxOpenConns  int `mapstructure:"max_open_conns"`
}

// Validate checks the database configuration
func (c *DatabaseConfig) Validate() error {
	if c.Type != "sqlite" {
		return fmt.Errorf("unsupported database type %q, only sqlite is supported", c.Type)
	}
	if c.Path == "" {
		return errors.New("database path must not be empty")
	}
	if c.MigrationsPath == "" {
		return errors.New("migrations_path must not be empty")
	}
	return nil
}

// DSN returns the SQLite connection string with foreign keys enabled and
// the busy timeout applied.
func (c *DatabaseConfig) DSN() string {
	timeout := c.BusyTimeoutMS
	if timeout <= 0 {
		timeout = 30000
	}
	return fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)",
		c.Path, timeout,
	)
}

// LoggingConfig holds logging configuration (config/logging.json)
type LoggingConfig struct {
	Global   GlobalLogConfig            `mapstructure:"global"`
	Handlers LogHandlersConfig          `mapstructure:"handlers"`
	Loggers  map[string]ModuleLogConfig `mapstructure:"loggers"`
}

// GlobalLogConfig is the default level applied to all modules
type GlobalLogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// LogHandlersConfig configures the console and file sinks
type LogHandlersConfig struct {
	Console ConsoleHandlerConfig `mapstructure:"console"`
	File    FileHandlerConfig    `mapstructure:"file"`
}

// ConsoleHandlerConfig configures the console sink
type ConsoleHandlerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// FileHandlerConfig configures the rotating file sink
type FileHandlerConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// ModuleLogConfig is a per-module level override
type ModuleLogConfig struct {
	Level string `mapstructure:"level"`
}

var knownLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

// Validate checks the logging configuration
func (c *LoggingConfig) Validate() error {
	if c.Global.Level != "" && !knownLevels[strings.ToLower(c.Global.Level)] {
		return fmt.Errorf("unknown global log level %q", c.Global.Level)
	}
	for module, lc := range c.Loggers {
		if lc.Level != "" && !knownLevels[strings.ToLower(lc.Level)] {
			return fmt.Errorf("unknown log level %q for module %q", lc.Level, module)
		}
	}
	if c.Handlers.File.Enabled && c.Handlers.File.Path == "" {
		return errors.New("file handler enabled but no path configured")
	}
	return nil
}

// ModuleLevels flattens the per-module overrides for the logger.
func (c *LoggingConfig) ModuleLevels() map[string]string {
	levels := make(map[string]string, len(c.Loggers))
	for module, lc := range c.Loggers {
		levels[module] = lc.Level
	}
	return levels
}

// Load reads app.json, database.json and logging.json from configDir,
// validates each and returns the immutable configuration. Environment
// variables with the CONDOVIA_ prefix override file values.
// Configuration is loaded exactly once at startup.
func Load(configDir string) (*Config, error) {
	var cfg Config

	if err := loadFile(filepath.Join(configDir, "app.json"), &cfg.App); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(configDir, "database.json"), &cfg.Database); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(configDir, "logging.json"), &cfg.Logging); err != nil {
		return nil, err
	}

	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("app.json: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("database.json: %w", err)
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, fmt.Errorf("logging.json: %w", err)
	}

	return &cfg, nil
}

func loadFile(path string, out interface{}) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix("CONDOVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}
	return nil
}
