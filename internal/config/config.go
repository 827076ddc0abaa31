// Package config handles configuration loading for triage.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for triage.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Research  ResearchConfig  `mapstructure:"research"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// CatalogConfig locates the catalog data directory (catalog.yaml,
// features.yaml, coverage.yaml, personas.yaml).
type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

// AnthropicConfig holds model access settings.
type AnthropicConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// GitHubConfig holds issue source settings.
type GitHubConfig struct {
	Org         string        `mapstructure:"org"`
	Repo        string        `mapstructure:"repo"`
	Token       string        `mapstructure:"token"`
	TitlePrefix string        `mapstructure:"title_prefix"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// AnalysisConfig holds agent pipeline settings.
type AnalysisConfig struct {
	Workers           int  `mapstructure:"workers"`
	PersonaWorkers    int  `mapstructure:"persona_workers"`
	MaxToolIterations int  `mapstructure:"max_tool_iterations"`
	Guardrails        bool `mapstructure:"guardrails"`
	Personas          bool `mapstructure:"personas"`
	Platform          bool `mapstructure:"platform"`
	Portfolio         bool `mapstructure:"portfolio"`
}

// ResearchConfig holds content index settings.
type ResearchConfig struct {
	QuickstartsDir string `mapstructure:"quickstarts_dir"`
	IndexPath      string `mapstructure:"index_path"`
}

// CacheConfig holds analysis cache settings. A zero TTL means cached
// analyses never expire; use --force to reanalyze.
type CacheConfig struct {
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, GITHUB_TOKEN)
// 2. Project config (.triage.yaml in current directory or parent)
// 3. User config (~/.config/triage/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("anthropic.use_aws_bedrock", "TRIAGE_USE_BEDROCK")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)

	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// CacheDir returns the configured cache directory, resolving the default
// against the XDG cache path.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "triage")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".cache", "triage")
	}
	return filepath.Join(home, ".cache", "triage")
}

// IndexPath returns the research index location, defaulting under the cache dir.
func (c *Config) IndexPath() string {
	if c.Research.IndexPath != "" {
		return c.Research.IndexPath
	}
	return filepath.Join(c.CacheDir(), "research.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("github.org", "rh-ai-quickstart")
	v.SetDefault("github.repo", "ai-quickstart")
	v.SetDefault("github.title_prefix", "[Quickstart suggestion]:")
	v.SetDefault("github.cache_ttl", "15m")

	v.SetDefault("analysis.workers", 6)
	v.SetDefault("analysis.persona_workers", 5)
	v.SetDefault("analysis.max_tool_iterations", 15)
	v.SetDefault("analysis.guardrails", true)
	v.SetDefault("analysis.personas", true)
	v.SetDefault("analysis.platform", true)
	v.SetDefault("analysis.portfolio", true)

	v.SetDefault("catalog.dir", "data")

	v.SetDefault("research.quickstarts_dir", "")
	v.SetDefault("research.index_path", "")

	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", "0")
}

// getUserConfigDir returns the XDG config directory for triage.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "triage")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "triage")
	}
	return filepath.Join(home, ".config", "triage")
}

// findProjectConfig searches for .triage.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".triage.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Org:         "rh-ai-quickstart",
			Repo:        "ai-quickstart",
			TitlePrefix: "[Quickstart suggestion]:",
			CacheTTL:    15 * time.Minute,
		},
		Analysis: AnalysisConfig{
			Workers:           6,
			PersonaWorkers:    5,
			MaxToolIterations: 15,
			Guardrails:        true,
			Personas:          true,
			Platform:          true,
			Portfolio:         true,
		},
		Catalog: CatalogConfig{
			Dir: "data",
		},
	}
}
