// Package config loads the mapper configuration from ogm.yaml and OGM_
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// FileName is the configuration file looked up from the working directory
// upwards. Relative paths inside it are taken relative to the working
// directory.
const FileName = "ogm.yaml"

// EnvPrefix prefixes every environment override, e.g. OGM_LOGGING_LEVEL.
const EnvPrefix = "OGM"

// ErrNoDomain is returned by RequireDomain when neither manifests nor
// packages are configured.
var ErrNoDomain = errors.New("no domain configured: set domain.manifests or domain.packages")

// ErrNoConfigFile is returned by FindFile when no ogm.yaml is found.
var ErrNoConfigFile = errors.New("no " + FileName + " found")

// Config represents the mapper configuration
type Config struct {
	Domain  DomainConfig  `mapstructure:"domain"`
	Mapping MappingConfig `mapstructure:"mapping"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DomainConfig lists where class descriptors come from
type DomainConfig struct {
	Manifests []string `mapstructure:"manifests"`
	Packages  []string `mapstructure:"packages"`
}

// MappingConfig controls registry behaviour
type MappingConfig struct {
	StrictValidation bool `mapstructure:"strict_validation"`
}

// LoggingConfig represents logger configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("domain.manifests", []string{})
	v.SetDefault("domain.packages", []string{})
	v.SetDefault("mapping.strict_validation", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path. When path is empty the nearest
// ogm.yaml in the working directory or one of its parents is used, and
// defaults apply if there is none. A missing explicit path is an error.
func Load(path string) (*Config, error) {
	v := newViper()

	if path == "" {
		found, err := FindFile()
		if errors.Is(err, ErrNoConfigFile) {
			return finish(v)
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to locate config file")
		}
		path = found
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireDomain returns ErrNoDomain when no descriptor source is configured.
func (c *Config) RequireDomain() error {
	if len(c.Domain.Manifests) == 0 && len(c.Domain.Packages) == 0 {
		return ErrNoDomain
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// FindFile walks up from the working directory looking for ogm.yaml and
// returns ErrNoConfigFile when no directory up to the root holds one.
func FindFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfigFile
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := zapcore.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Newf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	for _, m := range cfg.Domain.Manifests {
		if strings.TrimSpace(m) == "" {
			return errors.New("domain.manifests: empty path")
		}
	}
	return nil
}
