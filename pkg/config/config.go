// Package config loads mangagrab settings from defaults, an optional
// mangagrab.yml, MANGAGRAB_* environment variables and command-line flags.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for one invocation.
// It maps directly to the structure of mangagrab.yml.
type Config struct {
	SaveDir string `mapstructure:"save_dir"`
	Workers int    `mapstructure:"workers"`
	Log     struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// flagKeys maps persistent CLI flags to config keys
var flagKeys = map[string]string{
	"save-dir":   "save_dir",
	"workers":    "workers",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load resolves the configuration. Flags take precedence over the
// environment, which takes precedence over the config file. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("mangagrab")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	// MANGAGRAB_LOG_LEVEL overrides log.level
	v.SetEnvPrefix("MANGAGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("save_dir", "manga_images")
	v.SetDefault("workers", 1)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.SaveDir == "" {
		config.SaveDir = "manga_images"
	}

	return &config, nil
}
