// Package config provides configuration management for the solver CLI.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/michaelcadilhac/oink/pkg/errors"
)

// Config holds all configuration for the application.
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
}

// SolverConfig holds engine-related configuration.
type SolverConfig struct {
	// Weights selects the weight representation: auto, int64, big, vec, map.
	Weights string `mapstructure:"weights"`
	// Jobs bounds the number of games solved concurrently in batch mode.
	Jobs int `mapstructure:"jobs"`
	// Verify certifies every solution before reporting it.
	Verify bool `mapstructure:"verify"`
	// Save persists solve runs to the database.
	Save bool `mapstructure:"save"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres or mysql
	Path     string `mapstructure:"path"` // sqlite database file
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration for remote inputs.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	LocalPath string `mapstructure:"local_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
}

// Load reads configuration from the specified file path, falling back to
// the standard locations and then to the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/oink")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, defaults apply.
		} else if os.IsNotExist(err) {
			// File specified but missing, defaults apply.
		} else {
			return nil, errors.Wrap(errors.CodeConfigError, "failed to read config file", err)
		}
	}

	v.SetEnvPrefix("OINK")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.CodeConfigError, "failed to unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.weights", "auto")
	v.SetDefault("solver.jobs", 1)
	v.SetDefault("solver.verify", false)
	v.SetDefault("solver.save", false)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "oink.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 4)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.scheme", "https")
	v.SetDefault("storage.local_path", ".")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Solver.Weights {
	case "auto", "int64", "big", "vec", "map":
	default:
		return errors.Newf(errors.CodeConfigError, "invalid solver.weights %q", c.Solver.Weights)
	}
	if c.Solver.Jobs < 1 {
		return errors.Newf(errors.CodeConfigError, "solver.jobs must be positive, got %d", c.Solver.Jobs)
	}
	switch c.Database.Type {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return errors.Newf(errors.CodeConfigError, "invalid database.type %q", c.Database.Type)
	}
	switch c.Storage.Type {
	case "local", "cos":
	default:
		return errors.Newf(errors.CodeConfigError, "invalid storage.type %q", c.Storage.Type)
	}
	if c.Storage.Type == "cos" {
		if c.Storage.Bucket == "" || c.Storage.Region == "" {
			return errors.New(errors.CodeConfigError, "cos storage requires bucket and region")
		}
	}
	return nil
}

// String renders a redacted summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("solver{weights=%s jobs=%d verify=%t save=%t} db{type=%s} storage{type=%s} log{level=%s}",
		c.Solver.Weights, c.Solver.Jobs, c.Solver.Verify, c.Solver.Save,
		c.Database.Type, c.Storage.Type, c.Log.Level)
}
