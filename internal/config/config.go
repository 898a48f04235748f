// Package config loads aihistory configuration.
//
// Values come from three layers, lowest to highest precedence: built-in
// defaults, a YAML file, and AIHISTORY_* environment variables. See
// LoadWithFile for the key mapping.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fyrsmithlabs/aihistory/internal/export"
	"github.com/fyrsmithlabs/aihistory/internal/extraction"
	"github.com/fyrsmithlabs/aihistory/internal/logging"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete aihistory configuration.
type Config struct {
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Obsidian  ObsidianConfig  `koanf:"obsidian"`
	Exporters ExportersConfig `koanf:"exporters"`
	Redaction RedactionConfig `koanf:"redaction"`
	Logging   LoggingConfig   `koanf:"logging"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// AnalysisConfig holds per-analyzer settings keyed by canonical analyzer name.
type AnalysisConfig struct {
	UnfinishedProjects UnfinishedProjectsConfig `koanf:"unfinished_projects"`
}

// UnfinishedProjectsConfig configures the unfinished-projects analyzer.
type UnfinishedProjectsConfig struct {
	Keywords      []string `koanf:"keywords"`
	MinConfidence float64  `koanf:"min_confidence"`
	ContextRadius int      `koanf:"context_radius"`
	MaxGap        int      `koanf:"max_gap"`

	// PatternFile is a TOML rule pack that replaces Keywords when set.
	PatternFile string `koanf:"pattern_file"`
}

// ObsidianConfig holds vault settings.
type ObsidianConfig struct {
	VaultPath string `koanf:"vault_path"`
	Folder    string `koanf:"folder"`
}

// ExportersConfig holds per-exporter settings.
type ExportersConfig struct {
	Obsidian ExporterConfig `koanf:"obsidian"`
}

// ExporterConfig holds settings shared by file exporters.
type ExporterConfig struct {
	Folder string `koanf:"folder"`
}

// RedactionConfig controls secret redaction before export.
type RedactionConfig struct {
	Enabled       bool   `koanf:"enabled"`
	AllowlistFile string `koanf:"allowlist_file"`
}

// LoggingConfig holds logger settings. Level accepts "trace" in addition
// to the zap level names.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			UnfinishedProjects: UnfinishedProjectsConfig{
				Keywords:      extraction.DefaultPatterns(),
				MinConfidence: extraction.DefaultMinConfidence,
				ContextRadius: extraction.DefaultContextRadius,
				MaxGap:        extraction.DefaultMaxGap,
			},
		},
		Obsidian: ObsidianConfig{
			Folder: export.DefaultFolder,
		},
		Exporters: ExportersConfig{
			Obsidian: ExporterConfig{Folder: export.DefaultFolder},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: logging.OutputStderr,
		},
	}
}

// Validate checks value ranges and that every keyword compiles.
func (c *Config) Validate() error {
	up := c.Analysis.UnfinishedProjects
	if up.MinConfidence < 0 || up.MinConfidence > 1 {
		return fmt.Errorf("%w: analysis.unfinished_projects.min_confidence must be in [0, 1], got %v",
			ErrInvalidConfig, up.MinConfidence)
	}
	if up.ContextRadius < 0 {
		return fmt.Errorf("%w: analysis.unfinished_projects.context_radius must be >= 0, got %d",
			ErrInvalidConfig, up.ContextRadius)
	}
	if up.MaxGap < 0 {
		return fmt.Errorf("%w: analysis.unfinished_projects.max_gap must be >= 0, got %d",
			ErrInvalidConfig, up.MaxGap)
	}
	if _, err := extraction.CompilePatterns(up.Keywords); err != nil {
		return fmt.Errorf("%w: analysis.unfinished_projects.keywords: %w", ErrInvalidConfig, err)
	}

	if _, err := c.LoggerConfig(); err != nil {
		return err
	}
	return nil
}

// ObsidianFolder returns the vault subfolder for notes. The top-level
// obsidian.folder overrides exporters.obsidian.folder.
func (c *Config) ObsidianFolder() string {
	if c.Obsidian.Folder != "" {
		return c.Obsidian.Folder
	}
	if c.Exporters.Obsidian.Folder != "" {
		return c.Exporters.Obsidian.Folder
	}
	return export.DefaultFolder
}

// ExtractionConfig builds the analyzer configuration from the active rules.
func (c *Config) ExtractionConfig() (extraction.Config, error) {
	rules, err := c.Rules()
	if err != nil {
		return extraction.Config{}, err
	}

	up := c.Analysis.UnfinishedProjects
	cfg := extraction.DefaultConfig()
	cfg.Patterns = extraction.Regexes(rules)
	cfg.MinConfidence = extraction.Threshold(up.MinConfidence)
	cfg.ContextRadius = up.ContextRadius
	cfg.MaxGap = up.MaxGap
	return cfg, nil
}

// Rules returns the active detection rules. A pattern file replaces the
// keyword list; an unchanged keyword list keeps the built-in rule names.
func (c *Config) Rules() ([]extraction.Pattern, error) {
	up := c.Analysis.UnfinishedProjects
	if up.PatternFile != "" {
		return extraction.LoadPatternFile(up.PatternFile)
	}
	if len(up.Keywords) == 0 || slices.Equal(up.Keywords, extraction.DefaultPatterns()) {
		return extraction.DefaultRules(), nil
	}

	rules := make([]extraction.Pattern, len(up.Keywords))
	for i, kw := range up.Keywords {
		rules[i] = extraction.Pattern{Name: fmt.Sprintf("keyword_%d", i+1), Regex: kw}
	}
	return rules, nil
}

// LoggerConfig converts the logging section to a logger configuration.
func (c *Config) LoggerConfig() (*logging.Config, error) {
	lc := logging.NewDefaultConfig()

	if c.Logging.Level != "" {
		level, err := logging.LevelFromString(c.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
		}
		lc.Level = level
	}
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	if c.Logging.Output != "" {
		lc.Output = c.Logging.Output
	}

	if err := lc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: logging: %v", ErrInvalidConfig, err)
	}
	return lc, nil
}
