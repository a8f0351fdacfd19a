// Package config provides Viper-based configuration loading for the MUD server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds the connection server's listener settings.
// Each port is optional; a zero value means the transport is disabled.
type ServerConfig struct {
	// Host is the bind address shared by both listeners.
	Host string `mapstructure:"host"`
	// TCPPort is the port for the raw TCP listener (0 disables TCP).
	TCPPort int `mapstructure:"tcp_port"`
	// WSPort is the port for the WebSocket listener (0 disables WebSocket).
	WSPort int `mapstructure:"ws_port"`
	// WriteTimeout is the per-write timeout for client connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TCPAddr returns the "host:port" listen address for the TCP listener.
//
// Precondition: TCPPort must be non-zero for a meaningful result.
func (s ServerConfig) TCPAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.TCPPort)
}

// WSAddr returns the "host:port" listen address for the WebSocket listener.
//
// Precondition: WSPort must be non-zero for a meaningful result.
func (s ServerConfig) WSAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.WSPort)
}

// WorldConfig holds game world content settings.
type WorldConfig struct {
	// Path is the world definition YAML file.
	Path string `mapstructure:"path"`
	// MOTD is the greeting sent to every new connection.
	MOTD string `mapstructure:"motd"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	World   WorldConfig   `mapstructure:"world"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
// Port presence and distinctness are the frontend server's concern; this only
// rejects values that could never be valid.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.TCPPort < 0 || s.TCPPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.tcp_port must be 0-65535, got %d", s.TCPPort))
	}
	if s.WSPort < 0 || s.WSPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.ws_port must be 0-65535, got %d", s.WSPort))
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	applyEnvAndDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// Default returns the configuration used when no config file is given:
// a WebSocket listener on port 9000 and console logging.
//
// Postcondition: Returns a Config that passes Validate.
func Default() Config {
	v := viper.New()
	applyEnvAndDefaults(v)

	cfg, err := LoadFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("building default config: %v", err))
	}
	return cfg
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvAndDefaults(v *viper.Viper) {
	// Environment variable overrides with MUDDLE_ prefix
	v.SetEnvPrefix("MUDDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.tcp_port", 0)
	v.SetDefault("server.ws_port", 9000)
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("world.path", "content/world.yaml")
	v.SetDefault("world.motd", "Welcome to the MUD")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
