package pttguess

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MunifTanjim/go-ptt"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

const Name = "ptt"

// Engine parses release names with go-ptt. Unlike rls it reports every season
// and episode of a pack.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return Name }

var (
	reVersion = regexp.MustCompile(`(?i)(?:^|[^[:alnum:]])(?:s[0-9]{1,2})?e?[0-9]{1,4}v([0-9])(?:[^[:alnum:]]|$)`)
	reAirDate = regexp.MustCompile(`(?:^|[^0-9])((?:19|20)[0-9]{2})[.\-_ ]([01][0-9])[.\-_ ]([0-3][0-9])(?:[^0-9]|$)`)
)

func (e *Engine) Parse(name string) (*guess.Result, error) {
	info := ptt.Parse(name)

	res := &guess.Result{
		Title:        strings.TrimSpace(info.Title),
		ReleaseGroup: strings.TrimSpace(info.Group),
		ScreenSize:   info.Resolution,
		Source:       info.Quality,
		VideoCodec:   info.Codec,
		Container:    info.Container,
		Languages:    slices.Clone(info.Languages),
		Season:       nonEmpty(info.Seasons),
		Episode:      nonEmpty(info.Episodes),
		Other:        otherTags(info.Proper, info.Repack, info.Extended, info.Unrated, info.Dubbed, info.Hardcoded),
	}
	if y, err := strconv.Atoi(info.Year); err == nil {
		res.Year = y
	}
	if info.ThreeD != "" {
		res.Other = append(res.Other, info.ThreeD)
	}
	if info.BitDepth != "" {
		res.Other = append(res.Other, info.BitDepth)
	}
	res.Other = append(res.Other, info.HDR...)

	if m := reVersion.FindStringSubmatch(name); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			res.Version = &v
		}
	}
	if m := reAirDate.FindStringSubmatch(name); m != nil {
		if d, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			res.Date = &d
		}
	}
	return res, nil
}

func nonEmpty(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}

func otherTags(proper, repack, extended, unrated, dubbed, hardcoded bool) []string {
	var tags []string
	for _, t := range []struct {
		set  bool
		name string
	}{
		{proper, "Proper"},
		{repack, "Repack"},
		{extended, "Extended"},
		{unrated, "Unrated"},
		{dubbed, "Dubbed"},
		{hardcoded, "Hardcoded Subtitles"},
	} {
		if t.set {
			tags = append(tags, t.name)
		}
	}
	return tags
}
