package nameparser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/release-name-parser/internal/metrics"
	"github.com/MimeLyc/release-name-parser/pkg/guess"
	"github.com/MimeLyc/release-name-parser/pkg/log"
)

type recordingGuesser struct {
	mu     sync.Mutex
	result *guess.Result
	err    error
	calls  atomic.Int32
	opts   []guess.Options
}

func (g *recordingGuesser) Guess(name string, opts guess.Options) (*guess.Result, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.opts = append(g.opts, opts)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.result.Clone(), nil
}

func newTestParser(t *testing.T, g guess.Guesser, opts ...Option) *Parser {
	t.Helper()
	base := []Option{WithGuesser(g, "fake"), WithLogger(log.Discard())}
	p, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func TestParser_GuessBuildsOptions(t *testing.T) {
	tests := []struct {
		showType   guess.ShowType
		preferNums bool
	}{
		{showType: guess.ShowTypeNone, preferNums: false},
		{showType: guess.ShowTypeRegular, preferNums: false},
		{showType: guess.ShowTypeAnime, preferNums: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.showType), func(t *testing.T) {
			g := &recordingGuesser{result: &guess.Result{Title: "Show"}}
			p := newTestParser(t, g)

			_, err := p.Guess("Show.S01E01", tt.showType)
			require.NoError(t, err)
			require.Len(t, g.opts, 1)

			opts := g.opts[0]
			assert.Equal(t, guess.ModeEpisode, opts.Mode)
			assert.True(t, opts.Implicit)
			assert.Equal(t, tt.showType, opts.ShowType)
			assert.Equal(t, tt.preferNums, opts.EpisodePreferNumber)
			assert.Equal(t, defaultExpectedTitles, opts.ExpectedTitles)
			assert.Equal(t, defaultExpectedGroups, opts.ExpectedGroups)
			assert.Equal(t, defaultAllowedLanguages, opts.AllowedLanguages)
			assert.Equal(t, defaultAllowedCountries, opts.AllowedCountries)
		})
	}
}

func TestParser_GuessReturnsRawResult(t *testing.T) {
	raw := &guess.Result{Title: "Show", Season: []int{2, 1}, Other: []string{"x265"}}
	g := &recordingGuesser{result: raw}
	p := newTestParser(t, g)

	got, err := p.Guess("Show.S01-S02", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestParser_GuessErrors(t *testing.T) {
	engineErr := errors.New("boom")
	p := newTestParser(t, &recordingGuesser{err: engineErr})

	_, err := p.Guess("Show.S01E01", guess.ShowTypeRegular)
	require.Error(t, err)
	assert.True(t, IsErrorKind(err, ErrGuessingFailed))
	assert.ErrorIs(t, err, engineErr)
	assert.Contains(t, err.Error(), "backend=fake")

	_, err = p.Guess("  ", guess.ShowTypeRegular)
	assert.True(t, IsErrorKind(err, ErrValidation))

	_, err = p.Guess("Show.S01E01", guess.ShowType("movie"))
	assert.True(t, IsErrorKind(err, ErrValidation))

	_, err = p.Parse("Show.S01E01", guess.ShowTypeAnime)
	assert.True(t, IsErrorKind(err, ErrGuessingFailed))
}

func TestParser_GuessNilResult(t *testing.T) {
	p := newTestParser(t, guess.GuesserFunc(func(string, guess.Options) (*guess.Result, error) {
		return nil, nil
	}))

	res, err := p.Parse("Show", guess.ShowTypeNone)
	require.NoError(t, err)
	assert.Equal(t, "Show", res.OriginalName)
	assert.Equal(t, NoVersion, res.Version)
}

func TestParser_ParseMapsFields(t *testing.T) {
	g := &recordingGuesser{result: &guess.Result{
		Title:        "Show",
		Season:       []int{1},
		Episode:      []int{2},
		ReleaseGroup: "GROUP",
		Version:      intPtr(2),
		Other:        []string{"x265", "PROPER"},
	}}
	p := newTestParser(t, g)

	res, err := p.Parse("Show.S01E02v2.PROPER.x265-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)

	assert.Equal(t, "Show.S01E02v2.PROPER.x265-GROUP", res.OriginalName)
	assert.Equal(t, "Show", res.SeriesName)
	assert.Equal(t, SeasonNumber{1}, res.SeasonNumber)
	assert.Equal(t, "GROUP", res.ReleaseGroup)
	assert.Equal(t, 2, res.Version)
	assert.Equal(t, "PROPER x265", res.ExtraInfo)
	assert.Equal(t, []int{2}, res.EpisodeNumbers)
	assert.Equal(t, []int{}, res.AbEpisodeNumbers)
}

func TestParser_MultiSeason(t *testing.T) {
	raw := &guess.Result{Title: "Show", Season: []int{3, 1, 2}}

	p := newTestParser(t, &recordingGuesser{result: raw})
	before := testutil.ToFloat64(metrics.MultiSeasonSuppressedTotal)
	res, err := p.Parse("Show.S01-S03", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Nil(t, res.SeasonNumber)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MultiSeasonSuppressedTotal))

	hints, err := NewHints(WithAllowMultiSeason(true))
	require.NoError(t, err)
	p = newTestParser(t, &recordingGuesser{result: raw}, WithHints(hints))
	res, err = p.Parse("Show.S01-S03", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, SeasonNumber{1, 2, 3}, res.SeasonNumber)
}

func TestParser_Metrics(t *testing.T) {
	p, err := New(WithGuesser(&recordingGuesser{err: errors.New("boom")}, "metrics-test"), WithLogger(log.Discard()))
	require.NoError(t, err)

	calls := metrics.GuessesTotal.WithLabelValues("metrics-test", "anime")
	failures := metrics.GuessFailuresTotal.WithLabelValues("metrics-test")
	callsBefore, failuresBefore := testutil.ToFloat64(calls), testutil.ToFloat64(failures)

	_, err = p.Guess("Show - 01", guess.ShowTypeAnime)
	require.Error(t, err)

	assert.Equal(t, callsBefore+1, testutil.ToFloat64(calls))
	assert.Equal(t, failuresBefore+1, testutil.ToFloat64(failures))
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	p := newTestParser(t, &recordingGuesser{result: &guess.Result{}})
	_, err := p.Guess("Show", guess.ShowTypeNone)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(WithBackend("nosuchengine"))
	require.Error(t, err)
	assert.True(t, IsErrorKind(err, ErrConfig))

	p, err := New(WithBackend("PTT"), WithLogger(log.Discard()))
	require.NoError(t, err)
	assert.Equal(t, "ptt", p.Backend())

	p, err = New(WithGuesser(&recordingGuesser{}, ""), WithConcurrency(-1))
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Backend())
	assert.Equal(t, DefaultConcurrency, p.concurrency)
	assert.Nil(t, p.cache)
}

func TestParser_OptionsAreNormalized(t *testing.T) {
	hints, err := NewHints(WithExpectedTitles(" Pokémon "))
	require.NoError(t, err)
	p := newTestParser(t, &recordingGuesser{}, WithHints(hints))

	assert.Equal(t, []string{"Pokémon"}, p.Options(guess.ShowTypeNone).ExpectedTitles)
	assert.Equal(t, []string{" Pokémon "}, p.Hints().ExpectedTitles())
}

func TestParser_ParseAll(t *testing.T) {
	g := guess.GuesserFunc(func(name string, _ guess.Options) (*guess.Result, error) {
		return &guess.Result{Title: name}, nil
	})
	p := newTestParser(t, g, WithConcurrency(3))

	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("Show %02d", i)
	}

	results, err := p.ParseAll(context.Background(), names, guess.ShowTypeRegular)
	require.NoError(t, err)
	require.Len(t, results, len(names))
	for i, res := range results {
		assert.Equal(t, names[i], res.OriginalName)
		assert.Equal(t, names[i], res.SeriesName)
	}
}

func TestParser_ParseAllLimitsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	g := guess.GuesserFunc(func(name string, _ guess.Options) (*guess.Result, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		return &guess.Result{Title: name}, nil
	})
	p := newTestParser(t, g, WithConcurrency(2))

	names := make([]string, 50)
	for i := range names {
		names[i] = fmt.Sprintf("Show %d", i)
	}
	_, err := p.ParseAll(context.Background(), names, guess.ShowTypeNone)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestParser_ParseAllStopsOnError(t *testing.T) {
	engineErr := errors.New("bad name")
	g := guess.GuesserFunc(func(name string, _ guess.Options) (*guess.Result, error) {
		if name == "bad" {
			return nil, engineErr
		}
		return &guess.Result{Title: name}, nil
	})
	p := newTestParser(t, g)

	results, err := p.ParseAll(context.Background(), []string{"a", "bad", "c"}, guess.ShowTypeNone)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, engineErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ParseAll(ctx, []string{"a", "b"}, guess.ShowTypeNone)
	assert.ErrorIs(t, err, context.Canceled)

	results, err = p.ParseAll(context.Background(), nil, guess.ShowTypeNone)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParser_EndToEnd(t *testing.T) {
	p, err := New(WithLogger(log.Discard()))
	require.NoError(t, err)
	assert.Equal(t, "rls", p.Backend())

	res, err := p.Parse("Show.Name.S01E02.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, res.EpisodeNumbers)
	season, ok := res.SeasonNumber.Single()
	require.True(t, ok)
	assert.Equal(t, 1, season)
	assert.Equal(t, "GROUP", res.ReleaseGroup)
	assert.Equal(t, "Show Name", res.SeriesName)
	assert.Equal(t, NoVersion, res.Version)

	hints, err := NewHints(WithAllowMultiSeason(true))
	require.NoError(t, err)
	p, err = New(WithHints(hints), WithLogger(log.Discard()))
	require.NoError(t, err)

	res, err = p.Parse("Show.Name.S01E02.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, SeasonNumber{1}, res.SeasonNumber)
}

func TestParser_EndToEndExpectedTitle(t *testing.T) {
	p, err := New(WithLogger(log.Discard()))
	require.NoError(t, err)

	res, err := p.Parse("12.Monkeys.S02E05.720p.HDTV.x264-KILLERS", guess.ShowTypeRegular)
	require.NoError(t, err)

	assert.Equal(t, "12 Monkeys", res.SeriesName)
	assert.Equal(t, SeasonNumber{2}, res.SeasonNumber)
	assert.Equal(t, []int{5}, res.EpisodeNumbers)
}

func TestParser_EndToEndHintsKeepEngineResult(t *testing.T) {
	p, err := New(WithLogger(log.Discard()))
	require.NoError(t, err)

	res, err := p.Parse("The.IT.Crowd.S01E01.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, "The IT Crowd", res.SeriesName)
	assert.Equal(t, []int{1}, res.EpisodeNumbers)

	res, err = p.Parse("Particle.Fever.S01E01.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, "GROUP", res.ReleaseGroup)

	raw, err := p.Guess("Shameless.US.S01E01.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, "Shameless", raw.Title)
	assert.Equal(t, "US", raw.Country)
}

func TestDefault(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)

	res, err := Parse("Show.Name.S01E02.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.EpisodeNumbers)

	raw, err := Guess("Show.Name.S01E02.720p.HDTV-GROUP", guess.ShowTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, "GROUP", raw.ReleaseGroup)
}
