package guess

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptyName       = errors.New("empty release name")
	ErrUnsupportedMode = errors.New("unsupported guessing mode")
)

// titlePlaceholder stands in for a hinted title while the engine runs.
const titlePlaceholder = "Series"

// Hinted applies Options around a hint-unaware Engine.
type Hinted struct {
	engine Engine
}

func NewHinted(engine Engine) *Hinted {
	return &Hinted{engine: engine}
}

func (h *Hinted) Name() string { return h.engine.Name() }

// Guess runs the engine on name and applies the expected title, expected
// group, language, country and numbering hints to its result.
func (h *Hinted) Guess(name string, opts Options) (*Result, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrEmptyName
	}
	if opts.Mode != "" && opts.Mode != ModeEpisode {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, opts.Mode)
	}

	title, err := findFirst(opts.ExpectedTitles, name)
	if err != nil {
		return nil, err
	}
	input := name
	if title != nil && !title.spaced {
		input = title.mask(name, titlePlaceholder)
	}

	res, err := h.parse(input)
	if err != nil {
		return nil, err
	}
	if title != nil && title.spaced {
		// A hint found only after reading dots as spaces replaces the title
		// only when the engine lost part of it.
		if title.extends(res.Title) {
			if res, err = h.parse(title.mask(name, titlePlaceholder)); err != nil {
				return nil, err
			}
		} else {
			title = nil
		}
	}
	if title != nil {
		res.Title = strings.TrimSpace(title.text)
	}

	group, err := findLast(opts.ExpectedGroups, name)
	if err != nil {
		return nil, err
	}
	if group != nil && groupOverrides(group, res.ReleaseGroup, name) {
		res.ReleaseGroup = group.text
	}

	res.Languages = filterLanguages(res.Languages, opts.AllowedLanguages)
	splitCountry(res, name, opts.AllowedCountries)

	if opts.EpisodePreferNumber {
		preferNumber(res, name)
	}
	return res, nil
}

func (h *Hinted) parse(input string) (*Result, error) {
	res, err := h.engine.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.engine.Name(), err)
	}
	if res == nil {
		res = &Result{}
	}
	return res, nil
}

// reReleaseTail finds the first episode or quality token. Release groups are
// written after it; anything before it belongs to the title.
var reReleaseTail = regexp.MustCompile(
	`(?i)(?:^|[^[:alnum:]])(s[0-9]{1,2}e[0-9]{1,4}|s[0-9]{1,2}|[0-9]{1,2}x[0-9]{2,3}|(?:480|576|720|1080|2160)[pi]|4k|hdtv|web-?dl|web-?rip|bluray|bdrip|dvdrip|x26[45]|h\.?26[45]|hevc|- [0-9]{1,4})(?:[^[:alnum:]]|$)`)

// groupOverrides reports whether a hinted group replaces the engine's group:
// when the engine found none, found a fragment of it, or the hint matched a
// leading [Group] tag or after the episode and quality tokens.
func groupOverrides(g *hit, engineGroup, name string) bool {
	engineGroup = strings.ToLower(strings.TrimSpace(engineGroup))
	if engineGroup == "" || strings.Contains(strings.ToLower(g.text), engineGroup) {
		return true
	}
	if g.start == 1 && strings.HasPrefix(name, "[") {
		return true
	}
	loc := reReleaseTail.FindStringSubmatchIndex(name)
	if loc == nil {
		return false
	}
	return g.start >= utf8.RuneCountInString(name[:loc[3]])
}

var reSeasonMarker = regexp.MustCompile(
	`(?i)(^|[^[:alnum:]])(s[0-9]{1,2}([^0-9]|$)|s[0-9]{1,2}e[0-9]|season|[0-9]{1,2}x[0-9]{1,3})`)

// preferNumber reads anime numbering as absolute episodes: episodes without a
// season, or a bare three/four digit number the engine split into season and
// episode ("Show - 102").
func preferNumber(res *Result, name string) {
	if len(res.AbsoluteEpisode) > 0 || len(res.Episode) == 0 {
		return
	}
	if len(res.Season) == 0 {
		res.AbsoluteEpisode, res.Episode = res.Episode, nil
		return
	}
	if reSeasonMarker.MatchString(name) {
		return
	}
	if len(res.Season) == 1 && len(res.Episode) == 1 {
		n := res.Season[0]*100 + res.Episode[0]
		if containsNumber(name, n) {
			res.AbsoluteEpisode = []int{n}
			res.Season = nil
			res.Episode = nil
		}
	}
}

var reNumberToken = regexp.MustCompile(`[0-9]+`)

func containsNumber(name string, n int) bool {
	for _, tok := range reNumberToken.FindAllString(name, -1) {
		if v, err := strconv.Atoi(tok); err == nil && v == n {
			return true
		}
	}
	return false
}
