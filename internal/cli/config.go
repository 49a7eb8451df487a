package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/errors"
)

// Config holds user defaults loaded from ~/.config/sortstage/config.toml.
// Flags override config values; config values override built-in defaults.
type Config struct {
	// Speed is the default animation speed: slow, medium, or fast.
	Speed string `toml:"speed"`

	// Size is the default dataset size for generated datasets.
	Size int `toml:"size"`

	// MaxValue is the upper bound for generated values.
	MaxValue int `toml:"max_value"`

	// Seed makes generated datasets reproducible. Zero picks a random
	// dataset on every run.
	Seed uint64 `toml:"seed"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Speed:    string(engine.SpeedMedium),
		Size:     32,
		MaxValue: 100,
	}
}

// LoadConfig reads the config file at path, applying defaults for unset
// fields. A missing file is not an error: defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Validate checks config values against engine bounds.
func (c Config) Validate() error {
	if _, err := engine.ParseSpeed(c.Speed); err != nil {
		return err
	}
	if err := errors.ValidateSize(c.Size); err != nil {
		return err
	}
	if c.MaxValue < errors.MinValue || c.MaxValue > errors.MaxValue {
		return errors.New(errors.ErrCodeInvalidInput,
			"max_value must be in [%d, %d], got %d", errors.MinValue, errors.MaxValue, c.MaxValue)
	}
	return nil
}
