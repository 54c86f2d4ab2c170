// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/latentree/core"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a document that does not parse or does not validate.
var ErrInvalidConfig = core.NewKindError(core.ErrInvalidArgument, "config: invalid configuration")

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// SearchConfig configures hill climbing.
type SearchConfig struct {
	MaxIterations  int     `yaml:"max_iterations" validate:"gte=0"`
	Threshold      float64 `yaml:"threshold" validate:"gte=0"`
	MaxCardinality int     `yaml:"max_cardinality" validate:"gte=2"`
}

// EMConfig configures the parameter learner.
type EMConfig struct {
	MaxSteps  int     `yaml:"max_steps" validate:"gte=0"`
	Threshold float64 `yaml:"threshold" validate:"gte=0"`
	Restarts  int     `yaml:"restarts" validate:"gte=1"`
	Seed      int64   `yaml:"seed"`
	Parallel  bool    `yaml:"parallel"`
	ChunkSize int     `yaml:"chunk_size" validate:"eq=0|gte=2"`
	Score     string  `yaml:"score" validate:"oneof=loglikelihood ll bic aic"`
}

// ClusteringConfig configures the clustering pipeline.
type ClusteringConfig struct {
	Test              string  `yaml:"test" validate:"oneof=mi nmi chisquare chi2"`
	Normalization     string  `yaml:"normalization" validate:"oneof=joint min max sqrt"`
	Delta             float64 `yaml:"delta" validate:"gte=0"`
	MaxIslandSize     int     `yaml:"max_island_size" validate:"gte=2"`
	LatentCardinality int     `yaml:"latent_cardinality" validate:"gte=1"`
	Cardinality       string  `yaml:"cardinality" validate:"oneof=fixed adaptive"`
	Refinement        string  `yaml:"refinement" validate:"oneof=none local global"`
	Spanning          string  `yaml:"spanning" validate:"oneof=prim kruskal"`
	Seed              int64   `yaml:"seed"`
}

// StatsConfig configures the sufficient-statistics engine.
type StatsConfig struct {
	Engine    string `yaml:"engine" validate:"oneof=sequential parallel"`
	Threshold int    `yaml:"threshold" validate:"eq=0|gte=2"`
}

// Config is the complete experiment configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	EM         EMConfig         `yaml:"em"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Stats      StatsConfig      `yaml:"stats"`
}

// Default returns the library defaults.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MaxIterations:  50,
			Threshold:      math.Inf(1),
			MaxCardinality: 10,
		},
		EM: EMConfig{
			MaxSteps:  100,
			Threshold: 1e-4,
			Restarts:  1,
			ChunkSize: 500,
			Score:     "bic",
		},
		Clustering: ClusteringConfig{
			Test:              "mi",
			Normalization:     "joint",
			Delta:             3,
			MaxIslandSize:     10,
			LatentCardinality: 2,
			Cardinality:       "fixed",
			Refinement:        "none",
			Spanning:          "prim",
		},
		Stats: StatsConfig{
			Engine:    "sequential",
			Threshold: 500,
		},
	}
}

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil configuration: %w", ErrInvalidConfig)
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if math.IsNaN(c.Search.Threshold) || math.IsNaN(c.EM.Threshold) || math.IsNaN(c.Clustering.Delta) {
		return fmt.Errorf("config: NaN threshold: %w", ErrInvalidConfig)
	}
	return nil
}

// Parse decodes data over Default and validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parsing: %v: %w", err, ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
//
// Errors: core.ErrIO when the file cannot be read, ErrInvalidConfig otherwise.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %v: %w", path, err, core.ErrIO)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// formatValidationError turns validator errors into one "section.field: reason" message.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %v: %w", err, ErrInvalidConfig)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, e.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s], got %q", field, e.Param(), e.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return fmt.Errorf("config: %s: %w", strings.Join(msgs, "; "), ErrInvalidConfig)
}
