package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GuessesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nameparser",
		Name:      "guesses_total",
		Help:      "Total guess calls by backend and show type.",
	}, []string{"backend", "show_type"})

	GuessFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nameparser",
		Name:      "guess_failures_total",
		Help:      "Total guess calls that returned an error, by backend.",
	}, []string{"backend"})

	GuessDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nameparser",
		Name:      "guess_duration_seconds",
		Help:      "Time spent in the guessing engine.",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"backend"})

	MultiSeasonSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nameparser",
		Name:      "multi_season_suppressed_total",
		Help:      "Total parse results whose multi-season guess was dropped.",
	})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nameparser",
		Name:      "cache_hits_total",
		Help:      "Total parse calls served from the result cache.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		GuessesTotal,
		GuessFailuresTotal,
		GuessDuration,
		MultiSeasonSuppressedTotal,
		CacheHitsTotal,
	)
}
