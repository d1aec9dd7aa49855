// Package config loads daemon and console settings with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"hegel_amplifier/internal/amplifier"
	"hegel_amplifier/internal/transport"
)

// EnvPrefix prefixes environment overrides, e.g. HEGEL_AMPLIFIER_HOST.
const EnvPrefix = "HEGEL"

type Config struct {
	Amplifier AmplifierConfig `mapstructure:"amplifier"`
	Poll      PollConfig      `mapstructure:"poll"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
}

type AmplifierConfig struct {
	Name         string        `mapstructure:"name"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	ReadAttempts int           `mapstructure:"read_attempts"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type DiscoveryConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxSources int           `mapstructure:"max_sources"`
	OnStart    bool          `mapstructure:"on_start"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Params returns the transport connection parameters.
func (a AmplifierConfig) Params() transport.Params {
	return transport.Params{Host: a.Host, Port: a.Port, Timeout: a.Timeout}
}

// TransportOptions returns the read tuning as transport options.
func (a AmplifierConfig) TransportOptions() []transport.Option {
	return []transport.Option{
		transport.WithReadTimeout(a.ReadTimeout),
		transport.WithReadAttempts(a.ReadAttempts),
	}
}

// New returns a viper instance with defaults, config search paths and env
// overrides registered. Extra search paths are tried before the defaults.
func New(paths ...string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("configs") // configs/config.yml
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("amplifier.name", amplifier.DefaultName)
	v.SetDefault("amplifier.host", "")
	v.SetDefault("amplifier.port", transport.DefaultPort)
	v.SetDefault("amplifier.timeout", time.Duration(0))
	v.SetDefault("amplifier.read_timeout", transport.DefaultReadTimeout)
	v.SetDefault("amplifier.read_attempts", transport.DefaultReadAttempts)
	v.SetDefault("poll.interval", 10*time.Second)
	v.SetDefault("discovery.timeout", amplifier.DefaultDiscoveryTimeout)
	v.SetDefault("discovery.max_sources", amplifier.DefaultMaxSources)
	v.SetDefault("discovery.on_start", false)
	v.SetDefault("http.port", "8080")
	v.SetDefault("log.level", "info")
}

// Load reads the config file (a missing file is fine), applies env
// overrides and validates the result.
func Load(paths ...string) (*Config, error) {
	return FromViper(New(paths...))
}

// FromViper reads, decodes and validates settings from v.
func FromViper(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings the driver cannot run without.
func (c *Config) Validate() error {
	a := c.Amplifier
	switch {
	case strings.TrimSpace(a.Host) == "":
		return errors.New("invalid config: amplifier.host is required")
	case a.Port < 1 || a.Port > 65535:
		return fmt.Errorf("invalid config: amplifier.port %d out of range", a.Port)
	case a.Timeout < 0:
		return fmt.Errorf("invalid config: amplifier.timeout %v is negative", a.Timeout)
	case a.ReadTimeout <= 0:
		return fmt.Errorf("invalid config: amplifier.read_timeout %v must be positive", a.ReadTimeout)
	case a.ReadAttempts < 1:
		return fmt.Errorf("invalid config: amplifier.read_attempts %d must be at least 1", a.ReadAttempts)
	case c.Poll.Interval < 0:
		return fmt.Errorf("invalid config: poll.interval %v is negative", c.Poll.Interval)
	case c.Discovery.MaxSources < 1:
		return fmt.Errorf("invalid config: discovery.max_sources %d must be at least 1", c.Discovery.MaxSources)
	}
	return nil
}
