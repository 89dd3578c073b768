// Package sweep runs batches of pricing scenarios described in a YAML file.
// Scenarios are independent pricing calls with no shared state, so the
// engine fans them out over a bounded worker pool.
package sweep

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BarrierSpec mirrors pde.Barrier for config files.
type BarrierSpec struct {
	Level  float64 `yaml:"level" json:"level"`
	Type   string  `yaml:"type" json:"type"`                         // "down-and-out" or "up-and-out"
	Rebate float64 `yaml:"rebate,omitempty" json:"rebate,omitempty"` // paid on knockout, default 0
}

// GridSpec mirrors pde.GridSpec for config files. Zero values fall back to
// the engine defaults (smax = 4*strike, 400x800).
type GridSpec struct {
	SMax       float64 `yaml:"smax,omitempty" json:"smax,omitempty"`
	SpaceSteps int     `yaml:"space_steps,omitempty" json:"space_steps,omitempty"`
	TimeSteps  int     `yaml:"time_steps,omitempty" json:"time_steps,omitempty"`
}

// Scenario is one pricing job.
type Scenario struct {
	Name   string `yaml:"name" json:"name"`
	Method string `yaml:"method,omitempty" json:"method,omitempty"` // grid (default), closed-form, binomial, monte-carlo, analytic
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty"`     // call (default) or put

	Spot     float64 `yaml:"spot" json:"spot"`
	Strike   float64 `yaml:"strike" json:"strike"`
	Rate     float64 `yaml:"rate" json:"rate"`
	Vol      float64 `yaml:"vol" json:"vol"`
	Maturity float64 `yaml:"maturity" json:"maturity"`

	Barrier *BarrierSpec `yaml:"barrier,omitempty" json:"barrier,omitempty"`
	Grid    GridSpec     `yaml:"grid,omitempty" json:"grid,omitempty"`

	// binomial resolution
	TreeSteps int `yaml:"tree_steps,omitempty" json:"tree_steps,omitempty"`

	// monte-carlo resolution
	Paths     int   `yaml:"paths,omitempty" json:"paths,omitempty"`
	PathSteps int   `yaml:"path_steps,omitempty" json:"path_steps,omitempty"`
	Seed      int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Config is the top-level sweep file.
type Config struct {
	Workers   int        `yaml:"workers,omitempty" json:"workers,omitempty"`
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// LoadConfig reads and validates a YAML sweep file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid sweep config %s: %w", path, err)
	}
	if len(cfg.Scenarios) == 0 {
		return nil, fmt.Errorf("sweep config %s has no scenarios", path)
	}
	for i, sc := range cfg.Scenarios {
		if sc.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", i)
		}
	}
	return &cfg, nil
}
