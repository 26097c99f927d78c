package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ============================================================================
// CONFIGURATION — Viper-backed run settings
// ============================================================================
// Precedence: explicit YAML file > WDILENS_* environment variables >
// built-in defaults. The CLI layers its flags on top after Load.
// ============================================================================

// ErrNoInput is returned when no input CSV path is configured.
var ErrNoInput = errors.New("config: input path is required")

// Config holds every knob of an analysis run.
type Config struct {
	// Input selection.
	Input  string `mapstructure:"input"`
	Layout string `mapstructure:"layout"` // "", "long" or "wide"

	// Filtering.
	Countries  []string `mapstructure:"countries"`
	Indicators []string `mapstructure:"indicators"`
	YearMin    int      `mapstructure:"year_min"`
	YearMax    int      `mapstructure:"year_max"`

	// Clustering.
	K    int `mapstructure:"k"`
	KMin int `mapstructure:"k_min"`
	KMax int `mapstructure:"k_max"`

	// Curve fitting and projection.
	FitKind        string  `mapstructure:"fit_kind"`
	ProjectToYear  int     `mapstructure:"project_to_year"`
	Confidence     float64 `mapstructure:"confidence"`

	// Output.
	OutDir  string `mapstructure:"out_dir"`
	Verbose bool   `mapstructure:"verbose"`
}

// Every key needs a registered default so AutomaticEnv values survive
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("layout", "")
	v.SetDefault("countries", []string{})
	v.SetDefault("indicators", []string{})
	v.SetDefault("year_min", 0)
	v.SetDefault("year_max", 0)
	v.SetDefault("k", 0) // 0 means scan [k_min, k_max]
	v.SetDefault("k_min", 2)
	v.SetDefault("k_max", 8)
	v.SetDefault("fit_kind", "linear")
	v.SetDefault("project_to_year", 0)
	v.SetDefault("confidence", 0.95)
	v.SetDefault("out_dir", "out")
	v.SetDefault("verbose", false)
}

// Load reads configuration from the given YAML file (optional; empty
// path skips the file), WDILENS_* environment variables, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WDILENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field consistency. Input presence is checked
// separately by the commands that need it.
func (c *Config) Validate() error {
	if c.Layout != "" && c.Layout != "long" && c.Layout != "wide" {
		return fmt.Errorf("config: layout must be long or wide, got %q", c.Layout)
	}
	if c.YearMin != 0 && c.YearMax != 0 && c.YearMax < c.YearMin {
		return fmt.Errorf("config: year range %d-%d is reversed", c.YearMin, c.YearMax)
	}
	if c.K != 0 && c.K < 2 {
		return fmt.Errorf("config: k must be at least 2, got %d", c.K)
	}
	if c.KMin < 2 || c.KMax < c.KMin {
		return fmt.Errorf("config: k range %d-%d is invalid", c.KMin, c.KMax)
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("config: confidence must be in (0, 1), got %g", c.Confidence)
	}
	return nil
}

// RequireInput reports ErrNoInput if no CSV path was configured.
func (c *Config) RequireInput() error {
	if strings.TrimSpace(c.Input) == "" {
		return ErrNoInput
	}
	return nil
}
