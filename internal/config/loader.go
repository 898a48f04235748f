package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment variables read as configuration.
	EnvPrefix = "AIHISTORY_"

	// DefaultFile is read from the working directory when no path is given.
	DefaultFile = "config.yaml"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// ErrConfigExists is returned by WriteDefault when the target exists.
var ErrConfigExists = errors.New("config file already exists")

// LoadWithFile loads configuration from defaults, then the YAML file, then
// environment variables.
//
// An empty configPath reads DefaultFile from the working directory if it
// exists. An explicit configPath must exist.
//
// # Environment Variable Mapping
//
// Variables carry the AIHISTORY_ prefix and name a key with its dots
// replaced by underscores. List values are comma separated:
//
//	AIHISTORY_ANALYSIS_UNFINISHED_PROJECTS_MIN_CONFIDENCE -> analysis.unfinished_projects.min_confidence
//	AIHISTORY_REDACTION_ENABLED -> redaction.enabled
//	AIHISTORY_LOGGING_LEVEL -> logging.level
//
// Variables that do not name a known key are ignored.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := flatten(Default())
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultFile
	}

	content, err := readConfigFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file in the working directory; defaults apply.
	default:
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransformer(defaults)), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// readConfigFile opens path once and checks its size before reading.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envTransformer maps AIHISTORY_* names onto known keys. Matching against
// the key set keeps underscores inside key names intact.
func envTransformer(known map[string]any) func(string, string) (string, any) {
	byEnv := make(map[string]string, len(known))
	for key := range known {
		byEnv[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(name, value string) (string, any) {
		key, ok := byEnv[strings.ToLower(strings.TrimPrefix(name, EnvPrefix))]
		if !ok {
			return "", nil
		}
		if _, isList := known[key].([]string); isList {
			return key, splitList(value)
		}
		return key, value
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// flatten lists every configuration key with its value.
func flatten(c *Config) map[string]any {
	up := c.Analysis.UnfinishedProjects
	keywords := make([]string, len(up.Keywords))
	copy(keywords, up.Keywords)

	return map[string]any{
		"analysis.unfinished_projects.keywords":       keywords,
		"analysis.unfinished_projects.min_confidence": up.MinConfidence,
		"analysis.unfinished_projects.context_radius": up.ContextRadius,
		"analysis.unfinished_projects.max_gap":        up.MaxGap,
		"analysis.unfinished_projects.pattern_file":   up.PatternFile,
		"obsidian.vault_path":                         c.Obsidian.VaultPath,
		"obsidian.folder":                             c.Obsidian.Folder,
		"exporters.obsidian.folder":                   c.Exporters.Obsidian.Folder,
		"redaction.enabled":                           c.Redaction.Enabled,
		"redaction.allowlist_file":                    c.Redaction.AllowlistFile,
		"logging.level":                               c.Logging.Level,
		"logging.format":                              c.Logging.Format,
		"logging.output":                              c.Logging.Output,
		"metrics.textfile":                            c.Metrics.Textfile,
	}
}

// MarshalYAML renders c as a YAML document.
func MarshalYAML(c *Config) ([]byte, error) {
	k := koanf.New(".")
	for key, val := range flatten(c) {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := MarshalYAML(Default())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
