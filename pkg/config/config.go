/*
Package config manages the TOML config of the wordtree CLI.

A missing file is created with defaults; a file that fails to decode is
recovered section by section, keeping every value that still parses.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/bastiangx/wordtree/internal/logger"
	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the user's config directory.
const FileName = "wordtree.toml"

// Config holds the entire config structure
type Config struct {
	Dict    DictConfig    `toml:"dict"`
	Suggest SuggestConfig `toml:"suggest"`
	CLI     CliConfig     `toml:"cli"`
	Log     LogConfig     `toml:"log"`
}

// DictConfig holds dictionary loading options.
type DictConfig struct {
	Path        string `toml:"path"`
	Format      string `toml:"format"`
	Order       string `toml:"order"`
	Seed        int    `toml:"seed"`
	MaxWords    int    `toml:"max_words"`
	MaxNodes    int    `toml:"max_nodes"`
	FoldAccents bool   `toml:"fold_accents"`
}

// SuggestConfig holds suggestion options.
type SuggestConfig struct {
	Limit       int    `toml:"limit"`
	MaxDistance int    `toml:"max_distance"`
	Separator   string `toml:"separator"`
	CacheSize   int    `toml:"cache_size"`
	RestoreCase bool   `toml:"restore_case"`
}

// CliConfig holds prompt options.
type CliConfig struct {
	Prompt   string `toml:"prompt"`
	MinLen   int    `toml:"min_len"`
	MaxLen   int    `toml:"max_len"`
	NoFilter bool   `toml:"no_filter"`
}

// LogConfig holds the diagnostic verbosity: none, info or debug.
type LogConfig struct {
	Verbosity string `toml:"verbosity"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			Path:        "dict.txt",
			Format:      "auto",
			Order:       string(dictionary.OrderInput),
			Seed:        1,
			FoldAccents: true,
		},
		Suggest: SuggestConfig{
			Limit:     24,
			Separator: "|",
			CacheSize: 512,
		},
		CLI: CliConfig{
			Prompt: ">",
			MinLen: 1,
			MaxLen: 128,
		},
		Log: LogConfig{
			Verbosity: "info",
		},
	}
}

// GetDefaultConfigPath returns the default path for wordtree.toml
func GetDefaultConfigPath() (string, error) {
	resolver, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return resolver.GetConfigPath(FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordtree/wordtree.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Values that make no sense are replaced
// with their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config = tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse recovers what it can from a TOML file that did not decode
// into Config, section by section.
func tryPartialParse(configPath string) *Config {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config
	}

	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if suggestSection, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(suggestSection, &config.Suggest)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	if logSection, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(logSection, "verbosity"); ok {
			config.Log.Verbosity = val
		}
	}
	return config
}

// extractDictConfig extracts dictionary configuration from a map
func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		dict.Format = val
	}
	if val, ok := utils.ExtractString(data, "order"); ok {
		dict.Order = val
	}
	if val, ok := utils.ExtractInt64(data, "seed"); ok {
		dict.Seed = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt64(data, "max_nodes"); ok {
		dict.MaxNodes = val
	}
	if val, ok := utils.ExtractBool(data, "fold_accents"); ok {
		dict.FoldAccents = val
	}
}

// extractSuggestConfig extracts suggestion configuration from a map
func extractSuggestConfig(data map[string]any, suggest *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		suggest.Limit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_distance"); ok {
		suggest.MaxDistance = val
	}
	if val, ok := utils.ExtractString(data, "separator"); ok {
		suggest.Separator = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		suggest.CacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "restore_case"); ok {
		suggest.RestoreCase = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "prompt"); ok {
		cli.Prompt = val
	}
	if val, ok := utils.ExtractInt64(data, "min_len"); ok {
		cli.MinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_len"); ok {
		cli.MaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "no_filter"); ok {
		cli.NoFilter = val
	}
}

// Validate resets out of range values to their defaults and returns a
// message per value it changed.
func (c *Config) Validate() []string {
	defaults := DefaultConfig()
	var fixes []string
	fix := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Warnf("Config: %s", msg)
		fixes = append(fixes, msg)
	}

	if _, err := dictionary.ParseFormat(c.Dict.Format); err != nil {
		fix("%v, using %q", err, defaults.Dict.Format)
		c.Dict.Format = defaults.Dict.Format
	}
	if _, err := dictionary.ParseOrder(c.Dict.Order); err != nil {
		fix("%v, using %q", err, defaults.Dict.Order)
		c.Dict.Order = defaults.Dict.Order
	}
	if c.Dict.MaxWords < 0 {
		fix("dict.max_words %d is negative, loading all words", c.Dict.MaxWords)
		c.Dict.MaxWords = 0
	}
	if c.Dict.MaxNodes < 0 {
		fix("dict.max_nodes %d is negative, using an unbounded pool", c.Dict.MaxNodes)
		c.Dict.MaxNodes = 0
	}

	if c.Suggest.Limit < 1 {
		fix("suggest.limit %d is below 1, using %d", c.Suggest.Limit, defaults.Suggest.Limit)
		c.Suggest.Limit = defaults.Suggest.Limit
	}
	if c.Suggest.MaxDistance < 0 {
		fix("suggest.max_distance %d is negative, disabling it", c.Suggest.MaxDistance)
		c.Suggest.MaxDistance = 0
	}
	if c.Suggest.Separator == "" {
		fix("suggest.separator is empty, using %q", defaults.Suggest.Separator)
		c.Suggest.Separator = defaults.Suggest.Separator
	}
	if c.Suggest.CacheSize < 0 {
		fix("suggest.cache_size %d is negative, disabling the cache", c.Suggest.CacheSize)
		c.Suggest.CacheSize = 0
	}

	if c.CLI.MinLen < 1 {
		fix("cli.min_len %d is below 1, using %d", c.CLI.MinLen, defaults.CLI.MinLen)
		c.CLI.MinLen = defaults.CLI.MinLen
	}
	if c.CLI.MaxLen < c.CLI.MinLen {
		fix("cli.max_len %d is below cli.min_len %d, using %d", c.CLI.MaxLen, c.CLI.MinLen, max(defaults.CLI.MaxLen, c.CLI.MinLen))
		c.CLI.MaxLen = max(defaults.CLI.MaxLen, c.CLI.MinLen)
	}

	if _, err := logger.ParseVerbosity(c.Log.Verbosity); err != nil {
		fix("%v, using %q", err, defaults.Log.Verbosity)
		c.Log.Verbosity = defaults.Log.Verbosity
	}
	return fixes
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "built-in defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file, creating its directory
func SaveConfig(config *Config, configPath string) error {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return utils.SaveTOMLFile(config, configPath)
}
