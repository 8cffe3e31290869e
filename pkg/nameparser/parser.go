package nameparser

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/MimeLyc/release-name-parser/internal/guesser"
	"github.com/MimeLyc/release-name-parser/internal/metrics"
	"github.com/MimeLyc/release-name-parser/pkg/guess"
	"github.com/MimeLyc/release-name-parser/pkg/log"
)

// DefaultConcurrency bounds ParseAll when no other limit is configured.
const DefaultConcurrency = 4

// Parser turns release names into ParseResults using an immutable set of
// hints. It is safe for concurrent use.
type Parser struct {
	guesser     guess.Guesser
	backend     string
	hints       Hints
	template    guess.Options
	logger      *log.Logger
	cache       *resultCache
	cacheSize   int
	concurrency int
}

type Option func(*Parser)

// WithGuesser replaces the engine. name labels metrics and errors.
func WithGuesser(g guess.Guesser, name string) Option {
	return func(p *Parser) {
		p.guesser = g
		p.backend = name
	}
}

// WithBackend selects a registered engine by name ("rls" or "ptt").
func WithBackend(name string) Option {
	return func(p *Parser) {
		p.guesser = nil
		p.backend = name
	}
}

func WithHints(h Hints) Option {
	return func(p *Parser) { p.hints = h }
}

func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithCache keeps up to size results in memory. size <= 0 disables caching.
func WithCache(size int) Option {
	return func(p *Parser) { p.cacheSize = size }
}

// WithConcurrency bounds the number of names ParseAll guesses at once.
func WithConcurrency(n int) Option {
	return func(p *Parser) { p.concurrency = n }
}

// New builds a Parser. Without options it uses DefaultHints and the default
// engine.
func New(opts ...Option) (*Parser, error) {
	p := &Parser{
		hints:       DefaultHints(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.hints.Validate(); err != nil {
		return nil, err
	}
	if p.guesser == nil {
		g, err := guesser.New(p.backend)
		if err != nil {
			return nil, WrapError(err, ErrConfig, "failed to create guesser").WithContext("backend", p.backend)
		}
		p.guesser = g
		p.backend = g.Name()
	}
	if p.backend == "" {
		p.backend = "custom"
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultConcurrency
	}
	if p.cacheSize > 0 {
		p.cache = newResultCache(p.cacheSize)
	}

	p.template = guess.Options{
		Mode:             guess.ModeEpisode,
		Implicit:         true,
		ExpectedTitles:   normalize(p.hints.expectedTitles),
		ExpectedGroups:   normalize(p.hints.expectedGroups),
		AllowedLanguages: normalize(p.hints.allowedLanguages),
		AllowedCountries: normalize(p.hints.allowedCountries),
	}
	return p, nil
}

func (p *Parser) Backend() string { return p.backend }

func (p *Parser) Hints() Hints { return p.hints }

// Options returns the options Guess hands to the engine for showType.
func (p *Parser) Options(showType guess.ShowType) guess.Options {
	opts := p.template
	opts.ShowType = showType
	opts.EpisodePreferNumber = showType == guess.ShowTypeAnime
	return opts
}

func (p *Parser) getLogger() *log.Logger {
	if p.logger != nil {
		return p.logger
	}
	return log.GetLogger()
}

// Guess returns the engine's raw guess for name. Engine failures are wrapped
// in an *Error of kind ErrGuessingFailed with the engine error as its cause.
func (p *Parser) Guess(name string, showType guess.ShowType) (*guess.Result, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewError(ErrValidation, "release name is empty")
	}
	if !showType.Valid() {
		return nil, NewError(ErrValidation, "unknown show type").WithContext("show_type", string(showType))
	}

	label := string(showType)
	if label == "" {
		label = "none"
	}
	metrics.GuessesTotal.WithLabelValues(p.backend, label).Inc()

	start := time.Now()
	res, err := p.guesser.Guess(name, p.Options(showType))
	metrics.GuessDuration.WithLabelValues(p.backend).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GuessFailuresTotal.WithLabelValues(p.backend).Inc()
		p.getLogger().Warn("Failed to guess %q with %s: %v", name, p.backend, err)
		return nil, WrapError(err, ErrGuessingFailed, "failed to guess release name").
			WithContext("name", name).
			WithContext("backend", p.backend)
	}
	if res == nil {
		res = &guess.Result{}
	}
	p.getLogger().Debug("Guessed %q: title=%q season=%v episode=%v group=%q", name, res.Title, res.Season, res.Episode, res.ReleaseGroup)
	return res, nil
}

// Parse guesses name and maps the result onto a ParseResult.
func (p *Parser) Parse(name string, showType guess.ShowType) (*ParseResult, error) {
	if p.cache == nil {
		return p.parse(name, showType)
	}
	return p.cache.load(cacheKey(name, showType), func() (*ParseResult, error) {
		return p.parse(name, showType)
	})
}

func (p *Parser) parse(name string, showType guess.ShowType) (*ParseResult, error) {
	g, err := p.Guess(name, showType)
	if err != nil {
		return nil, err
	}
	res := newParseResult(name, g, p.hints.allowMultiSeason)
	if len(g.Season) > 1 && res.SeasonNumber.IsNull() {
		metrics.MultiSeasonSuppressedTotal.Inc()
		p.getLogger().Debug("Dropped multi-season guess %v for %q", g.Season, name)
	}
	return res, nil
}

// ParseAll parses names with at most the configured number of concurrent
// guesses. Results keep the order of names. The first error cancels the
// remaining work and is returned.
func (p *Parser) ParseAll(ctx context.Context, names []string, showType guess.ShowType) ([]*ParseResult, error) {
	results := make([]*ParseResult, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(name, showType)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RegisterMetrics registers the parser's Prometheus collectors on reg.
func RegisterMetrics(reg prometheus.Registerer) {
	metrics.Register(reg)
}
