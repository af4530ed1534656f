// Package config loads sortlab settings: built-in defaults, then an
// optional YAML file, then SORTLAB_* environment variables, then validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "SORTLAB_CONFIG"

type Config struct {
	// Strategy preselected in the menu: "timsort" or "library".
	Strategy string `yaml:"strategy" validate:"required,oneof=timsort library"`
	// Mode preselected in the menu: "all", "even" or "odd".
	Mode    string        `yaml:"mode" validate:"required,oneof=all even odd"`
	Random  RandomConfig  `yaml:"random"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type RandomConfig struct {
	// Length suggested for generated data.
	Length int `yaml:"length" validate:"gt=0"`
	// Max is the exclusive upper bound of generated values.
	Max int `yaml:"max" validate:"gt=0"`
	// Seed for the generator; 0 picks a time-based seed.
	Seed int64 `yaml:"seed"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace" validate:"required,alphanum"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Strategy: "timsort",
		Mode:     "all",
		Random: RandomConfig{
			Length: 20,
			Max:    100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: "sortlab",
		},
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("SORTLAB_STRATEGY"); ok {
		cfg.Strategy = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("SORTLAB_MODE"); ok {
		cfg.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("SORTLAB_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("SORTLAB_LOG_FORMAT"); ok {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("SORTLAB_RANDOM_MAX"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SORTLAB_RANDOM_MAX: %w", err)
		}
		cfg.Random.Max = n
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and reports every failing field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
