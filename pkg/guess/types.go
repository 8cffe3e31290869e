package guess

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ShowType tells the engine which episode numbering to prefer.
type ShowType string

const (
	ShowTypeNone    ShowType = ""
	ShowTypeRegular ShowType = "regular"
	ShowTypeAnime   ShowType = "anime"
)

func (t ShowType) Valid() bool {
	switch t {
	case ShowTypeNone, ShowTypeRegular, ShowTypeAnime:
		return true
	}
	return false
}

// ParseShowType accepts "", "regular" and "anime" in any case.
func ParseShowType(s string) (ShowType, error) {
	t := ShowType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return ShowTypeNone, fmt.Errorf("unknown show type %q", s)
	}
	return t, nil
}

// Mode selects what kind of release the engine should expect.
type Mode string

const ModeEpisode Mode = "episode"

// Options carries the hints handed to a Guesser. Slices are shared between
// calls and must be treated as read-only.
type Options struct {
	Mode                Mode
	Implicit            bool
	ShowType            ShowType
	EpisodePreferNumber bool

	// ExpectedTitles and ExpectedGroups hold literal strings or "re:"
	// prefixed patterns.
	ExpectedTitles []string
	ExpectedGroups []string

	// AllowedLanguages and AllowedCountries hold two-letter codes.
	AllowedLanguages []string
	AllowedCountries []string
}

// Result is the raw guess for a release name. Absent values are left at their
// zero value. Season, Episode and AbsoluteEpisode hold one element for a single
// value and several for a multi-value release.
type Result struct {
	Title           string     `json:"title,omitempty"`
	Alias           string     `json:"alias,omitempty"`
	Season          []int      `json:"season,omitempty"`
	Episode         []int      `json:"episode,omitempty"`
	AbsoluteEpisode []int      `json:"absolute_episode,omitempty"`
	ReleaseGroup    string     `json:"release_group,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Version         *int       `json:"version,omitempty"`
	Other           []string   `json:"other,omitempty"`

	AlternativeTitle string   `json:"alternative_title,omitempty"`
	Year             int      `json:"year,omitempty"`
	ScreenSize       string   `json:"screen_size,omitempty"`
	Source           string   `json:"source,omitempty"`
	VideoCodec       string   `json:"video_codec,omitempty"`
	Container        string   `json:"container,omitempty"`
	Languages        []string `json:"language,omitempty"`
	Country          string   `json:"country,omitempty"`
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.Season = slices.Clone(r.Season)
	out.Episode = slices.Clone(r.Episode)
	out.AbsoluteEpisode = slices.Clone(r.AbsoluteEpisode)
	out.Other = slices.Clone(r.Other)
	out.Languages = slices.Clone(r.Languages)
	if r.Date != nil {
		d := *r.Date
		out.Date = &d
	}
	if r.Version != nil {
		v := *r.Version
		out.Version = &v
	}
	return &out
}

// Guesser turns a release name into a raw guess.
type Guesser interface {
	Guess(name string, opts Options) (*Result, error)
}

// GuesserFunc adapts a plain function to the Guesser interface.
type GuesserFunc func(name string, opts Options) (*Result, error)

func (f GuesserFunc) Guess(name string, opts Options) (*Result, error) {
	return f(name, opts)
}

// Engine is a hint-unaware release parser. Wrap it with NewHinted to obtain a
// Guesser.
type Engine interface {
	Name() string
	Parse(name string) (*Result, error)
}
