package sim

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/garoball/internal/services/game/domain/pitching"
	"github.com/louisbranch/garoball/internal/services/game/domain/probability"
)

// MaxSteps bounds every batch loop.
const MaxSteps = 500

// Config gathers everything that tunes a simulation.
type Config struct {
	Tuning   probability.Tuning `yaml:"tuning" json:"tuning"`
	Pitching pitching.Config    `yaml:"pitching" json:"pitching"`
	// MaxSteps caps a batch run. Zero means MaxSteps.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		Tuning:   probability.DefaultTuning(),
		Pitching: pitching.DefaultConfig(),
		MaxSteps: MaxSteps,
	}
}

// Validate reports values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if err := c.Tuning.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tuning: %w", err))
	}
	if c.MaxSteps < 0 || c.MaxSteps > MaxSteps {
		errs = append(errs, fmt.Errorf("max steps %d outside [0,%d]", c.MaxSteps, MaxSteps))
	}
	if c.Pitching.MaxRunsBeforePull <= 0 {
		errs = append(errs, errors.New("pitching: max runs before pull must be positive"))
	}
	if c.Pitching.MaxOutsPerStarter <= 0 {
		errs = append(errs, errors.New("pitching: max outs per starter must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) stepLimit() int {
	if c.MaxSteps <= 0 {
		return MaxSteps
	}
	return c.MaxSteps
}

// LoadConfig decodes YAML over the defaults, so a file only needs the
// values it changes.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode sim config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate sim config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config from path. An empty path yields the defaults.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open sim config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}
