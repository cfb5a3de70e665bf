// Package config loads the docsite.yaml configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/content"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "docsite.yaml"

// EnvBaseURL overrides site.base_url when set.
const EnvBaseURL = "DOCSITE_BASE_URL"

// Config is the root of docsite.yaml.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Feed    FeedConfig    `yaml:"feed"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// SiteConfig describes the site the feed belongs to.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"` // Absolute origin, e.g. https://example.com
	Language    string `yaml:"language"` // BCP 47 tag, e.g. en-us
}

// ContentConfig locates the collection directories.
type ContentConfig struct {
	Directory string `yaml:"directory"` // Holds one sub-directory per collection
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory    string `yaml:"directory"`
	FeedFile     string `yaml:"feed_file"`
	ManifestFile string `yaml:"manifest_file"`
}

// FeedConfig selects what goes into the feed.
type FeedConfig struct {
	Collection     content.CollectionType `yaml:"collection"`
	Tag            string                 `yaml:"tag,omitempty"`
	IncludeContent bool                   `yaml:"include_content"`
	Limit          int                    `yaml:"limit"` // 0 means no limit
}

// MetricsConfig controls the Prometheus textfile dump.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads, expands, defaults and validates the configuration at path.
//
// A .env file next to the working directory is loaded first; ${VAR}
// references in the YAML are expanded from the environment afterwards.
func Load(path string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration after environment expansion and applies
// defaults and overrides. It does not validate.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		slog.Debug("Base URL overridden from environment", slog.String("env", EnvBaseURL))
		cfg.Site.BaseURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Site.Language == "" {
		cfg.Site.Language = "en-us"
	}
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = "src/content"
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "dist"
	}
	if cfg.Output.FeedFile == "" {
		cfg.Output.FeedFile = "rss.xml"
	}
	if cfg.Output.ManifestFile == "" {
		cfg.Output.ManifestFile = "content-manifest.json"
	}
	if cfg.Feed.Collection == "" {
		cfg.Feed.Collection = content.CollectionBlog
	}
	cfg.Feed.Collection = content.CollectionType(strings.ToLower(string(cfg.Feed.Collection)))
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Config{
		Site: SiteConfig{
			Title:       "My Site",
			Description: "Notes and release announcements",
			BaseURL:     "https://example.com",
			Language:    "en-us",
		},
		Content: ContentConfig{Directory: "src/content"},
		Output: OutputConfig{
			Directory:    "dist",
			FeedFile:     "rss.xml",
			ManifestFile: "content-manifest.json",
		},
		Feed: FeedConfig{Collection: content.CollectionBlog, Limit: 20},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
