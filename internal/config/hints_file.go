package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// HintSettings is the content of a hints file. Titles and groups are added to
// the built-in lists; languages and countries replace them when set.
type HintSettings struct {
	ExpectedTitles   []string `yaml:"expected_titles,omitempty"`
	ExpectedGroups   []string `yaml:"expected_groups,omitempty"`
	AllowedLanguages []string `yaml:"allowed_languages,omitempty"`
	AllowedCountries []string `yaml:"allowed_countries,omitempty"`
	AllowMultiSeason *bool    `yaml:"allow_multi_season,omitempty"`
}

func (s HintSettings) Validate() error {
	return validateHints(s.ExpectedTitles, s.ExpectedGroups, s.AllowedLanguages, s.AllowedCountries)
}

func (c *Config) HintSettings() HintSettings {
	allow := c.Hints.AllowMultiSeason
	return HintSettings{
		ExpectedTitles:   c.Hints.ExtraExpectedTitles,
		ExpectedGroups:   c.Hints.ExtraExpectedGroups,
		AllowedLanguages: c.Hints.AllowedLanguages,
		AllowedCountries: c.Hints.AllowedCountries,
		AllowMultiSeason: &allow,
	}
}

func WithHintSettings(settings HintSettings) Option {
	return func(c *Config) {
		c.Hints.ExtraExpectedTitles = appendMissing(c.Hints.ExtraExpectedTitles, settings.ExpectedTitles)
		c.Hints.ExtraExpectedGroups = appendMissing(c.Hints.ExtraExpectedGroups, settings.ExpectedGroups)
		if len(settings.AllowedLanguages) > 0 {
			c.Hints.AllowedLanguages = settings.AllowedLanguages
		}
		if len(settings.AllowedCountries) > 0 {
			c.Hints.AllowedCountries = settings.AllowedCountries
		}
		if settings.AllowMultiSeason != nil {
			c.Hints.AllowMultiSeason = *settings.AllowMultiSeason
		}
	}
}

func LoadHintsFile(path string) (HintSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HintSettings{}, err
	}
	var settings HintSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return HintSettings{}, fmt.Errorf("invalid hints file: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return HintSettings{}, err
	}
	return settings, nil
}

func WriteHintsFile(path string, settings HintSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func appendMissing(dst, extra []string) []string {
	for _, v := range extra {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
