package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MimeLyc/release-name-parser/internal/guesser"
	"github.com/MimeLyc/release-name-parser/pkg/guess"
	"github.com/MimeLyc/release-name-parser/pkg/log"
)

// Config holds the parser configuration.
// Values come from environment variables (optionally from a .env file) and an
// optional YAML hints file.
//
// Environment Variables:
// Guesser:
// - GUESSER_BACKEND: release name engine, rls or ptt (default: rls)
//
// Hints:
// - HINTS_FILE: YAML file with hint overrides (optional)
// - EXTRA_EXPECTED_TITLES: comma-separated titles or re: patterns added to the defaults
// - EXTRA_EXPECTED_GROUPS: comma-separated groups or re: patterns added to the defaults
// - ALLOWED_LANGUAGES: comma-separated language codes replacing the defaults
// - ALLOWED_COUNTRIES: comma-separated country codes replacing the defaults
// - ALLOW_MULTI_SEASON: keep multi-season guesses (default: false)
//
// A comma inside a list item is written as \, (EXTRA_EXPECTED_TITLES='re:\d{1\,3} Show').
//
// Parser:
// - PARSE_CACHE_SIZE: cached parse results, 0 disables the cache (default: 0)
// - PARSE_CONCURRENCY: workers used by batch parsing (default: 4)
//
// System:
// - LOG_LEVEL: debug, info, warn or error (default: info)
// - ENV_FILE: dotenv file loaded before reading the environment (default: .env)
type Config struct {
	Guesser GuesserConfig `json:"guesser"`
	Hints   HintsConfig   `json:"hints"`
	Parser  ParserConfig  `json:"parser"`
	Log     LogConfig     `json:"log"`
}

type GuesserConfig struct {
	Backend string `json:"backend"`
}

// HintsConfig holds changes to the built-in hint lists. Extra titles and
// groups are appended to the defaults; non-empty language and country lists
// replace them.
type HintsConfig struct {
	File                string   `json:"file"`
	ExtraExpectedTitles []string `json:"extra_expected_titles"`
	ExtraExpectedGroups []string `json:"extra_expected_groups"`
	AllowedLanguages    []string `json:"allowed_languages"`
	AllowedCountries    []string `json:"allowed_countries"`
	AllowMultiSeason    bool     `json:"allow_multi_season"`
}

type ParserConfig struct {
	CacheSize   int `json:"cache_size"`
	Concurrency int `json:"concurrency"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	loadDotEnv(getEnvString("ENV_FILE", ".env"))

	config := &Config{
		Guesser: GuesserConfig{
			Backend: getEnvString("GUESSER_BACKEND", guesser.DefaultBackend),
		},
		Hints: HintsConfig{
			File:                getEnvString("HINTS_FILE", ""),
			ExtraExpectedTitles: getEnvList("EXTRA_EXPECTED_TITLES"),
			ExtraExpectedGroups: getEnvList("EXTRA_EXPECTED_GROUPS"),
			AllowedLanguages:    getEnvList("ALLOWED_LANGUAGES"),
			AllowedCountries:    getEnvList("ALLOWED_COUNTRIES"),
			AllowMultiSeason:    getEnvBool("ALLOW_MULTI_SEASON", false),
		},
		Parser: ParserConfig{
			CacheSize:   getEnvInt("PARSE_CACHE_SIZE", 0),
			Concurrency: getEnvInt("PARSE_CONCURRENCY", 4),
		},
		Log: LogConfig{
			Level: getEnvString("LOG_LEVEL", "info"),
		},
	}

	if config.Hints.File != "" {
		settings, err := LoadHintsFile(config.Hints.File)
		if err != nil {
			return nil, fmt.Errorf("load hints file %s: %w", config.Hints.File, err)
		}
		WithHintSettings(settings)(config)
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info("Config: %+v", *config)
	return config, nil
}

func (c *Config) validate() error {
	backend, err := guesser.Normalize(c.Guesser.Backend)
	if err != nil {
		return err
	}
	c.Guesser.Backend = backend

	if c.Parser.CacheSize < 0 {
		return fmt.Errorf("PARSE_CACHE_SIZE must not be negative, got %d", c.Parser.CacheSize)
	}
	if c.Parser.Concurrency < 1 {
		return fmt.Errorf("PARSE_CONCURRENCY must be at least 1, got %d", c.Parser.Concurrency)
	}

	return validateHints(c.Hints.ExtraExpectedTitles, c.Hints.ExtraExpectedGroups, c.Hints.AllowedLanguages, c.Hints.AllowedCountries)
}

func validateHints(titles, groups, languages, countries []string) error {
	for _, p := range append(append([]string{}, titles...), groups...) {
		if _, err := guess.CompilePattern(p); err != nil {
			return fmt.Errorf("invalid hint %q: %w", p, err)
		}
	}
	for _, code := range languages {
		if _, err := guess.CanonicalLanguage(code); err != nil {
			return fmt.Errorf("invalid allowed language: %w", err)
		}
	}
	for _, code := range countries {
		if _, err := guess.CanonicalCountry(code); err != nil {
			return fmt.Errorf("invalid allowed country: %w", err)
		}
	}
	return nil
}

// loadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Warn("Failed to load env file %s: %v", path, err)
	}
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty items. "\,"
// is a literal comma; every other backslash is kept as is.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	var item strings.Builder
	flush := func() {
		if v := strings.TrimSpace(item.String()); v != "" {
			out = append(out, v)
		}
		item.Reset()
	}
	for i := 0; i < len(value); i++ {
		switch {
		case value[i] == '\\' && i+1 < len(value) && value[i+1] == ',':
			item.WriteByte(',')
			i++
		case value[i] == ',':
			flush()
		default:
			item.WriteByte(value[i])
		}
	}
	flush()
	return out
}
