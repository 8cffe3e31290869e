package nameparser

import (
	"github.com/MimeLyc/release-name-parser/internal/config"
	"github.com/MimeLyc/release-name-parser/pkg/log"
)

// newFromConfig builds a Parser from cfg. Extra titles and groups are added to
// the defaults; configured languages and countries replace them.
func newFromConfig(cfg *config.Config, opts ...Option) (*Parser, error) {
	if cfg == nil {
		return nil, NewError(ErrConfig, "config is nil")
	}

	hintOpts := []HintOption{
		WithExtraExpectedTitles(cfg.Hints.ExtraExpectedTitles...),
		WithExtraExpectedGroups(cfg.Hints.ExtraExpectedGroups...),
		WithAllowMultiSeason(cfg.Hints.AllowMultiSeason),
	}
	if len(cfg.Hints.AllowedLanguages) > 0 {
		hintOpts = append(hintOpts, WithAllowedLanguages(cfg.Hints.AllowedLanguages...))
	}
	if len(cfg.Hints.AllowedCountries) > 0 {
		hintOpts = append(hintOpts, WithAllowedCountries(cfg.Hints.AllowedCountries...))
	}
	hints, err := NewHints(hintOpts...)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithBackend(cfg.Guesser.Backend),
		WithHints(hints),
		WithCache(cfg.Parser.CacheSize),
		WithConcurrency(cfg.Parser.Concurrency),
	}
	if cfg.Log.Level != "" {
		base = append(base, WithLogger(log.NewLogger(log.ParseLevel(cfg.Log.Level))))
	}
	return New(append(base, opts...)...)
}

// NewFromEnv reads the environment (and .env / hints file) and builds a Parser.
func NewFromEnv(opts ...Option) (*Parser, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, WrapError(err, ErrConfig, "failed to load config")
	}
	return newFromConfig(cfg, opts...)
}
