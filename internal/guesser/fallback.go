package guesser

import (
	"slices"
	"strings"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
	"github.com/MimeLyc/release-name-parser/pkg/log"
)

// Fallback runs primary and fills the numbering, version and group it missed
// from secondary. It reports primary's name.
type Fallback struct {
	primary   guess.Engine
	secondary guess.Engine
}

func NewFallback(primary, secondary guess.Engine) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Name() string { return f.primary.Name() }

func (f *Fallback) Parse(name string) (*guess.Result, error) {
	res, err := f.primary.Parse(name)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &guess.Result{}
	}

	alt, err := f.secondary.Parse(name)
	if err != nil {
		log.Debug("Fallback %s failed on %q: %v", f.secondary.Name(), name, err)
		return res, nil
	}
	if alt == nil {
		return res, nil
	}
	merge(res, alt)
	return res, nil
}

// merge copies into res what alt found and res did not.
func merge(res, alt *guess.Result) {
	numbered := len(res.Episode) > 0 || len(res.AbsoluteEpisode) > 0

	switch {
	case !numbered && (len(alt.Episode) > 0 || len(alt.AbsoluteEpisode) > 0):
		// The primary engine did not see the episode marker and kept it in
		// the title ("Show Name S01E02E03", "One Piece - 1071").
		res.Season = alt.Season
		res.Episode = alt.Episode
		res.AbsoluteEpisode = alt.AbsoluteEpisode
		if alt.Title != "" && strings.HasPrefix(strings.ToLower(res.Title), strings.ToLower(alt.Title)) {
			res.Title = alt.Title
		}
	case len(alt.Episode) > len(res.Episode) && sameSeason(res.Season, alt.Season) &&
		len(res.Episode) > 0 && alt.Episode[0] == res.Episode[0]:
		res.Episode = alt.Episode
	}
	if len(res.Season) == 0 && len(res.Episode) > 0 && slices.Equal(res.Episode, alt.Episode) {
		res.Season = alt.Season
	}

	if res.Version == nil && alt.Version != nil {
		v := *alt.Version
		res.Version = &v
	}
	if res.ReleaseGroup == "" {
		res.ReleaseGroup = alt.ReleaseGroup
	}
}

func sameSeason(a, b []int) bool {
	return len(a) == 0 || len(b) == 0 || (len(a) == 1 && len(b) == 1 && a[0] == b[0])
}
