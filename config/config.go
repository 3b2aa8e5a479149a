// Package config loads runtime configuration from an optional YAML file
// with SPEECHSCORE_-prefixed environment overrides.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Service points at one HTTP collaborator.
type Service struct {
	URL string `mapstructure:"url"`
}

// Root is the full runtime configuration.
type Root struct {
	LogLevel       string        `mapstructure:"log_level"`
	Outputs        string        `mapstructure:"outputs"`
	WeightsProfile string        `mapstructure:"weights_profile"`
	GrammarTimeout time.Duration `mapstructure:"grammar_timeout"`

	Audio struct {
		SampleRate int `mapstructure:"sample_rate"`
	} `mapstructure:"audio"`

	Services struct {
		Transcriber Service `mapstructure:"transcriber"`
		Grammar     Service `mapstructure:"grammar"`
	} `mapstructure:"services"`
}

// Load reads config.yaml from the working directory or ./config, applies
// environment overrides, and falls back to defaults when no file exists.
func Load() (*Root, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix("SPEECHSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("outputs", "outputs")
	v.SetDefault("weights_profile", "")
	v.SetDefault("grammar_timeout", 10*time.Second)
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("services.transcriber.url", "")
	v.SetDefault("services.grammar.url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
