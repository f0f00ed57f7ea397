package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomasstrnad1997/minesai/agent"
	"github.com/tomasstrnad1997/minesai/mines"
	"github.com/tomasstrnad1997/minesai/protocol"
)

var (
	gamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minesai",
		Name:      "games_total",
		Help:      "Games played by outcome",
	}, []string{"outcome"})

	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "minesai",
		Name:      "moves_total",
		Help:      "Moves made by type and strategy",
	}, []string{"type", "strategy"})

	inferencePasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "minesai",
		Name:      "inference_passes",
		Help:      "Resolution passes needed to reach a fixed point after one clue",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})

	sentencesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "minesai",
		Name:      "sentences_dropped_total",
		Help:      "Derived sentences discarded as contradictory",
	})

	gameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "minesai",
		Name:      "game_duration_seconds",
		Help:      "Wall time of one game",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

func observeGame(result *GameResult) {
	gamesTotal.WithLabelValues(result.Outcome.String()).Inc()
	gameDuration.Observe(result.Duration.Seconds())
}

func observeMove(move mines.Move, strategy protocol.Strategy) {
	moveType := "reveal"
	if move.Type == mines.Flag {
		moveType = "flag"
	}
	movesTotal.WithLabelValues(moveType, strategy.String()).Inc()
}

func observeInference(stats agent.InferenceStats) {
	inferencePasses.Observe(float64(stats.Passes))
	sentencesDropped.Add(float64(stats.SentencesDropped))
}
