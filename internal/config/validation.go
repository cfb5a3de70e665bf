package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"golang.org/x/text/language"
)

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if err := validateBaseURL(c.Site.BaseURL); err != nil {
		return err
	}
	if _, err := language.Parse(c.Site.Language); err != nil {
		return fmt.Errorf("site.language %q is not a valid language tag: %w", c.Site.Language, err)
	}
	if !c.Feed.Collection.Valid() {
		return fmt.Errorf("feed.collection %q is not a known collection", c.Feed.Collection)
	}
	if c.Feed.Limit < 0 {
		return fmt.Errorf("feed.limit must not be negative, got %d", c.Feed.Limit)
	}
	for key, name := range map[string]string{
		"output.feed_file":     c.Output.FeedFile,
		"output.manifest_file": c.Output.ManifestFile,
	} {
		if !filepath.IsLocal(name) {
			return fmt.Errorf("%s must be a relative path inside the output directory, got %q", key, name)
		}
	}
	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("site.base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("site.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("site.base_url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("site.base_url must be absolute, got %q", raw)
	}
	return nil
}
