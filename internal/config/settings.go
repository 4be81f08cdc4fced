package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds the resolved application configuration.
type Settings struct {
	CorpusRoot    string `mapstructure:"corpus_root"`    // root of the encoded project directories
	HistoryFile   string `mapstructure:"history_file"`   // auxiliary prompt-history file, may be absent
	CacheCapacity int    `mapstructure:"cache_capacity"` // record-cache entry limit
	DefaultLimit  int    `mapstructure:"default_limit"`
	MaxLimit      int    `mapstructure:"max_limit"`
	ProjectLimit  int    `mapstructure:"project_limit"` // most-recent partitions scanned per query
	FileLimit     int    `mapstructure:"file_limit"`    // most-recent files scanned per partition
	LogLevel      string `mapstructure:"log_level"`
}

// flagKeys maps CLI flag names to their settings keys.
var flagKeys = map[string]string{
	"corpus-root":  "corpus_root",
	"history-file": "history_file",
	"cache-size":   "cache_capacity",
	"log-level":    "log_level",
}

// RegisterFlags registers all CLI flags on the given FlagSet.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("corpus-root", "", "Root directory of the conversation corpus")
	flags.String("history-file", "", "Path to the auxiliary prompt history file")
	flags.Int("cache-size", 0, "Parsed-record cache capacity")
	flags.String("log-level", "", "Log level: debug, info, warn, or error")
}

// LoadSettings resolves settings from environment variables and an optional
// config file. Priority: CLI flags > env > config file > defaults.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags resolves settings with optional CLI flag overrides.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	v.SetDefault("corpus_root", filepath.Join(home, ".claude", "projects"))
	v.SetDefault("history_file", filepath.Join(home, ".claude", "history.jsonl"))
	v.SetDefault("cache_capacity", 500)
	v.SetDefault("default_limit", 10)
	v.SetDefault("max_limit", 50)
	v.SetDefault("project_limit", 8)
	v.SetDefault("file_limit", 4)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("GOHISTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".gohistory"))
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is a real problem.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Settings) validate() error {
	if s.CacheCapacity < 1 {
		return fmt.Errorf("cache_capacity must be positive, got %d", s.CacheCapacity)
	}
	if s.DefaultLimit < 1 || s.MaxLimit < s.DefaultLimit {
		return fmt.Errorf("invalid limits: default=%d max=%d", s.DefaultLimit, s.MaxLimit)
	}
	if s.ProjectLimit < 1 || s.FileLimit < 1 {
		return fmt.Errorf("scan caps must be positive: projects=%d files=%d", s.ProjectLimit, s.FileLimit)
	}
	return nil
}
