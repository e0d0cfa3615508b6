package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/neatjs/neat/pkg/telemetry"
)

// Local store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverNone   = "none"
)

// Cookie jar kinds.
const (
	JarFile   = "file"
	JarMemory = "memory"
)

// Config is the neat configuration file.
type Config struct {
	Storage StorageConfig           `yaml:"storage" json:"storage"`
	Logging telemetry.LoggingConfig `yaml:"logging" json:"logging"`
	Metrics telemetry.MetricsConfig `yaml:"metrics" json:"metrics"`
	Tracing telemetry.TracingConfig `yaml:"tracing" json:"tracing"`
}

// StorageConfig configures the storage facade and its two backends.
type StorageConfig struct {
	// Prefix is prepended to every caller key. It must not be empty: the
	// unprefixed probe sentinel would otherwise share the caller key space.
	Prefix string `yaml:"prefix" json:"prefix" validate:"required"`

	// CookieExpireDays is the expiration window of fallback cookies.
	CookieExpireDays int `yaml:"cookie_expire_days" json:"cookie_expire_days" validate:"gt=0"`

	Local   LocalConfig  `yaml:"local" json:"local"`
	Cookies CookieConfig `yaml:"cookies" json:"cookies"`
}

// LocalConfig selects the primary backend.
type LocalConfig struct {
	Driver string `yaml:"driver" json:"driver" validate:"oneof=sqlite memory none"`
	Path   string `yaml:"path" json:"path" validate:"required_if=Driver sqlite"`

	// MaxEntries caps the local store. Zero means unlimited.
	MaxEntries int `yaml:"max_entries" json:"max_entries" validate:"gte=0"`
}

// CookieConfig selects the cookie jar behind the fallback backend.
type CookieConfig struct {
	Jar  string `yaml:"jar" json:"jar" validate:"oneof=file memory"`
	Path string `yaml:"path" json:"path" validate:"required_if=Jar file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	tel := telemetry.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			Prefix:           "custom_",
			CookieExpireDays: 3600,
			Local: LocalConfig{
				Driver: DriverSQLite,
				Path:   "neat.db",
			},
			Cookies: CookieConfig{
				Jar:  JarFile,
				Path: "neat-cookies.yaml",
			},
		},
		Logging: tel.Logging,
		Metrics: tel.Metrics,
		Tracing: tel.Tracing,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration with its struct tags.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Telemetry builds the telemetry configuration for the given build version.
func (c *Config) Telemetry(version string) *telemetry.Config {
	tel := telemetry.DefaultConfig()
	if version != "" {
		tel.ServiceVersion = version
	}
	tel.Logging = c.Logging
	tel.Metrics = c.Metrics
	tel.Tracing = c.Tracing
	return tel
}
