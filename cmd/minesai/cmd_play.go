package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tomasstrnad1997/minesai/runner"
	"github.com/tomasstrnad1997/minesai/server"
)

var (
	playGames   int
	playWidth   int
	playHeight  int
	playMines   int
	playSeed    int64
	playWorkers int
	metricsAddr string
	feedAddr    string
)

func addPlayFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&playGames, "games", 0, "number of games to play")
	flags.IntVar(&playWidth, "width", 0, "board width")
	flags.IntVar(&playHeight, "height", 0, "board height")
	flags.IntVar(&playMines, "mines", 0, "number of mines")
	flags.Int64Var(&playSeed, "seed", 0, "seed of the first game, 0 seeds from the clock")
	flags.IntVar(&playWorkers, "workers", 0, "games played concurrently")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	flags.StringVar(&feedAddr, "feed-addr", "", "stream finished games to viewers on this address")
}

func applyPlayFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("games") {
		cfg.Games = playGames
	}
	if flags.Changed("width") {
		cfg.Board.Width = playWidth
	}
	if flags.Changed("height") {
		cfg.Board.Height = playHeight
	}
	if flags.Changed("mines") {
		cfg.Board.Mines = playMines
	}
	if flags.Changed("seed") {
		cfg.Seed = playSeed
	}
	if flags.Changed("workers") {
		cfg.Workers = playWorkers
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
	if flags.Changed("feed-addr") {
		cfg.FeedAddr = feedAddr
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	applyPlayFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr)
		defer srv.Shutdown(context.Background())
	}

	var sinks runner.Sinks
	if cfg.DBPath != "" {
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open the database: %w", err)
		}
		defer store.Close()
		if err := store.InitializeTables(); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
		sinks = append(sinks, store)
	}
	if cfg.FeedAddr != "" {
		if !cfg.RecordReplays {
			log.Warn("Replays are not recorded, the game feed will stay silent")
		}
		feed, err := server.SpawnFeed(cfg.FeedAddr)
		if err != nil {
			return fmt.Errorf("failed to start the game feed: %w", err)
		}
		defer feed.Close()
		sinks = append(sinks, feed)
	}

	batch := runner.BatchConfig{
		Params:        cfg.Board.Params(),
		Games:         cfg.Games,
		Workers:       cfg.Workers,
		Seed:          cfg.ResolveSeed(),
		RecordReplays: cfg.RecordReplays,
	}
	log.WithFields(logrus.Fields{
		"games":   batch.Games,
		"workers": batch.Workers,
		"seed":    batch.Seed,
		"board":   fmt.Sprintf("%dx%d/%d", batch.Params.Width, batch.Params.Height, batch.Params.Mines),
	}).Info("Starting batch")

	start := time.Now()
	summary, err := runner.RunBatch(ctx, batch, sinks)
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary, time.Since(start))
	}
	return err
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()
	log.WithField("addr", addr).Info("Serving metrics")
	return srv
}

func printSummary(w io.Writer, s *runner.Summary, elapsed time.Duration) {
	fmt.Fprintf(w, "games:    %d\n", s.Games)
	fmt.Fprintf(w, "wins:     %d (%.1f%%)\n", s.Wins, 100*s.WinRate())
	fmt.Fprintf(w, "losses:   %d\n", s.Losses)
	fmt.Fprintf(w, "stuck:    %d\n", s.Stuck)
	fmt.Fprintf(w, "moves:    %d (%d inferred, %d guessed)\n", s.Moves, s.SafeMoves, s.RandomMoves)
	fmt.Fprintf(w, "elapsed:  %s\n", elapsed.Round(time.Millisecond))
}
