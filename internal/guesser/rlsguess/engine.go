package rlsguess

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/moistari/rls"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

const Name = "rls"

// Engine parses release names with moistari/rls.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return Name }

func (e *Engine) Parse(name string) (*guess.Result, error) {
	r := rls.ParseString(name)

	res := &guess.Result{
		Title:            strings.TrimSpace(r.Title),
		AlternativeTitle: strings.TrimSpace(r.Alt),
		ReleaseGroup:     strings.TrimSpace(r.Group),
		Year:             r.Year,
		ScreenSize:       r.Resolution,
		Source:           r.Source,
		Container:        r.Container,
		Languages:        slices.Clone(r.Language),
		Other:            slices.Clone(r.Other),
	}
	if len(r.Codec) > 0 {
		res.VideoCodec = r.Codec[0]
	}
	if r.Series > 0 {
		res.Season = []int{r.Series}
	}
	if r.Episode > 0 {
		res.Episode = []int{r.Episode}
	}
	if r.Year > 0 && r.Month > 0 && r.Day > 0 {
		d := time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC)
		res.Date = &d
	}
	if v, ok := parseVersion(r.Version); ok {
		res.Version = &v
	}
	return res, nil
}

// parseVersion accepts "2" and "v2".
func parseVersion(s string) (int, bool) {
	s = strings.TrimLeft(strings.TrimSpace(s), "vV")
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
