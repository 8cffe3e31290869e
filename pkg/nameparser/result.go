package nameparser

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

const (
	// NoVersion is reported when the release carries no version tag.
	NoVersion = -1

	airDateLayout = "2006-01-02"
)

// SeasonNumber is a single season, a sorted list of seasons, or nothing.
// nil is null, one element is a single season, more is a multi-season release.
type SeasonNumber []int

func (s SeasonNumber) IsNull() bool  { return len(s) == 0 }
func (s SeasonNumber) IsMulti() bool { return len(s) > 1 }

// Single returns the season when exactly one is known.
func (s SeasonNumber) Single() (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	return s[0], true
}

func (s SeasonNumber) MarshalJSON() ([]byte, error) {
	switch len(s) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(s[0])
	default:
		return json.Marshal([]int(s))
	}
}

func (s *SeasonNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*s = SeasonNumber{single}
		return nil
	}
	var list []int
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("season_number: %w", err)
	}
	if len(list) == 0 {
		*s = nil
		return nil
	}
	*s = SeasonNumber(list)
	return nil
}

// ParseResult is the application-facing view of a release name. Empty strings
// and a nil AirDate stand for absent values and are encoded as JSON null.
type ParseResult struct {
	OriginalName     string
	SeriesName       string
	SeasonNumber     SeasonNumber
	ReleaseGroup     string
	AirDate          *time.Time
	Version          int
	ExtraInfo        string
	EpisodeNumbers   []int
	AbEpisodeNumbers []int
}

type parseResultJSON struct {
	OriginalName     string       `json:"original_name"`
	SeriesName       *string      `json:"series_name"`
	SeasonNumber     SeasonNumber `json:"season_number"`
	ReleaseGroup     *string      `json:"release_group"`
	AirDate          *string      `json:"air_date"`
	Version          int          `json:"version"`
	ExtraInfo        *string      `json:"extra_info"`
	EpisodeNumbers   []int        `json:"episode_numbers"`
	AbEpisodeNumbers []int        `json:"ab_episode_numbers"`
}

func (r ParseResult) MarshalJSON() ([]byte, error) {
	out := parseResultJSON{
		OriginalName:     r.OriginalName,
		SeriesName:       nullable(r.SeriesName),
		SeasonNumber:     r.SeasonNumber,
		ReleaseGroup:     nullable(r.ReleaseGroup),
		Version:          r.Version,
		ExtraInfo:        nullable(r.ExtraInfo),
		EpisodeNumbers:   ensureList(r.EpisodeNumbers),
		AbEpisodeNumbers: ensureList(r.AbEpisodeNumbers),
	}
	if r.AirDate != nil {
		d := r.AirDate.Format(airDateLayout)
		out.AirDate = &d
	}
	return json.Marshal(out)
}

func (r *ParseResult) UnmarshalJSON(data []byte) error {
	var in parseResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	res := ParseResult{
		OriginalName:     in.OriginalName,
		SeriesName:       deref(in.SeriesName),
		SeasonNumber:     in.SeasonNumber,
		ReleaseGroup:     deref(in.ReleaseGroup),
		Version:          in.Version,
		ExtraInfo:        deref(in.ExtraInfo),
		EpisodeNumbers:   ensureList(in.EpisodeNumbers),
		AbEpisodeNumbers: ensureList(in.AbEpisodeNumbers),
	}
	if in.AirDate != nil {
		d, err := time.Parse(airDateLayout, *in.AirDate)
		if err != nil {
			return fmt.Errorf("air_date: %w", err)
		}
		res.AirDate = &d
	}
	*r = res
	return nil
}

func (r *ParseResult) Clone() *ParseResult {
	if r == nil {
		return nil
	}
	c := *r
	c.SeasonNumber = slices.Clone(r.SeasonNumber)
	c.EpisodeNumbers = ensureList(r.EpisodeNumbers)
	c.AbEpisodeNumbers = ensureList(r.AbEpisodeNumbers)
	if r.AirDate != nil {
		d := *r.AirDate
		c.AirDate = &d
	}
	return &c
}

func newParseResult(name string, g *guess.Result, allowMultiSeason bool) *ParseResult {
	res := &ParseResult{
		OriginalName:     name,
		Version:          NoVersion,
		EpisodeNumbers:   []int{},
		AbEpisodeNumbers: []int{},
	}
	if g == nil {
		return res
	}

	res.SeriesName = g.Alias
	if res.SeriesName == "" {
		res.SeriesName = g.Title
	}
	res.SeasonNumber = SeasonNumber(singleOrList(g.Season, allowMultiSeason))
	res.ReleaseGroup = g.ReleaseGroup
	if g.Date != nil {
		d := *g.Date
		res.AirDate = &d
	}
	if g.Version != nil {
		res.Version = *g.Version
	}
	res.ExtraInfo = extraInfo(g.Other)
	res.EpisodeNumbers = ensureList(g.Episode)
	res.AbEpisodeNumbers = ensureList(g.AbsoluteEpisode)
	return res
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
