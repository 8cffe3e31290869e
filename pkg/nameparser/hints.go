package nameparser

import (
	"slices"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

var defaultExpectedTitles = []string{
	// the engines do not keep the dots in this title
	"11.22.63",

	// numbers in the title confuse season/episode detection;
	// (?<![^/\\]) only allows a path separator or the start of the name before the title
	`re:(?<![^/\\])12 Monkeys\b`,
	`re:(?<![^/\\])500 Bus Stops\b`,
	`re:(?<![^/\\])60 Minutes\b`,
	`re:(?<![^/\\])Star Trek DS9\b`,
	`re:(?<![^/\\])The 100\b`,

	// "it" would be read as Italian
	`re:(?<![^/\\])\w+ it\b`,
}

var defaultExpectedGroups = []string{
	// parts of these names are blacklisted as release tags
	`re:\bbyEMP\b`,
	`re:\bELITETORRENT\b`,
	`re:\bNovaRip\b`,
	`re:\bPARTiCLE\b`,
	`re:\bPOURMOi\b`,
	`re:\bRipPourBox\b`,
	`re:\bRiPRG\b`,
	`re:\bCDP\b`,
	`re:\bCDD\b`,
	`re:\bHDD\b`,

	// groups with digits in the name
	`re:\b4EVERHD\b`,
	`re:\bF4ST3R\b`,
	`re:\bF4ST\b`,
	`re:\bPtM\b`,
	`re:\bTGNF4ST\b`,
	`re:\bTV2LAX9\b`,
}

var defaultAllowedLanguages = []string{
	"de", "en", "es", "fr", "he", "hu", "it", "jp", "nl", "pl", "pt", "ro", "ru", "sv", "uk",
}

var defaultAllowedCountries = []string{"us", "gb"}

// Hints is the corrective configuration handed to the guessing engine. It is
// immutable once built; accessors return copies.
type Hints struct {
	expectedTitles   []string
	expectedGroups   []string
	allowedLanguages []string
	allowedCountries []string
	allowMultiSeason bool
}

type HintOption func(*Hints)

// WithExpectedTitles replaces the expected titles.
func WithExpectedTitles(titles ...string) HintOption {
	return func(h *Hints) { h.expectedTitles = slices.Clone(titles) }
}

// WithExtraExpectedTitles appends to the expected titles.
func WithExtraExpectedTitles(titles ...string) HintOption {
	return func(h *Hints) { h.expectedTitles = appendUnique(h.expectedTitles, titles) }
}

// WithExpectedGroups replaces the expected release groups.
func WithExpectedGroups(groups ...string) HintOption {
	return func(h *Hints) { h.expectedGroups = slices.Clone(groups) }
}

// WithExtraExpectedGroups appends to the expected release groups.
func WithExtraExpectedGroups(groups ...string) HintOption {
	return func(h *Hints) { h.expectedGroups = appendUnique(h.expectedGroups, groups) }
}

// WithAllowedLanguages replaces the allowed language codes.
func WithAllowedLanguages(codes ...string) HintOption {
	return func(h *Hints) { h.allowedLanguages = slices.Clone(codes) }
}

// WithAllowedCountries replaces the allowed country codes.
func WithAllowedCountries(codes ...string) HintOption {
	return func(h *Hints) { h.allowedCountries = slices.Clone(codes) }
}

func WithAllowMultiSeason(allow bool) HintOption {
	return func(h *Hints) { h.allowMultiSeason = allow }
}

// DefaultHints returns the built-in hint lists.
func DefaultHints() Hints {
	return Hints{
		expectedTitles:   slices.Clone(defaultExpectedTitles),
		expectedGroups:   slices.Clone(defaultExpectedGroups),
		allowedLanguages: slices.Clone(defaultAllowedLanguages),
		allowedCountries: slices.Clone(defaultAllowedCountries),
	}
}

// NewHints starts from DefaultHints, applies opts and validates the result:
// every pattern must compile and every language/country code must be known.
func NewHints(opts ...HintOption) (Hints, error) {
	h := DefaultHints()
	for _, opt := range opts {
		opt(&h)
	}
	if err := h.Validate(); err != nil {
		return Hints{}, err
	}
	return h, nil
}

func (h Hints) Validate() error {
	for _, list := range [][]string{h.expectedTitles, h.expectedGroups} {
		for _, p := range list {
			if _, err := guess.CompilePattern(p); err != nil {
				return WrapError(err, ErrConfig, "invalid hint pattern").WithContext("pattern", p)
			}
		}
	}
	for _, code := range h.allowedLanguages {
		if _, err := guess.CanonicalLanguage(code); err != nil {
			return WrapError(err, ErrConfig, "invalid allowed language").WithContext("code", code)
		}
	}
	for _, code := range h.allowedCountries {
		if _, err := guess.CanonicalCountry(code); err != nil {
			return WrapError(err, ErrConfig, "invalid allowed country").WithContext("code", code)
		}
	}
	return nil
}

func (h Hints) ExpectedTitles() []string   { return slices.Clone(h.expectedTitles) }
func (h Hints) ExpectedGroups() []string   { return slices.Clone(h.expectedGroups) }
func (h Hints) AllowedLanguages() []string { return slices.Clone(h.allowedLanguages) }
func (h Hints) AllowedCountries() []string { return slices.Clone(h.allowedCountries) }
func (h Hints) AllowMultiSeason() bool     { return h.allowMultiSeason }

func appendUnique(dst, extra []string) []string {
	out := slices.Clone(dst)
	for _, v := range extra {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
