package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tomasstrnad1997/minesai/mines"
	"github.com/tomasstrnad1997/minesai/protocol"
)

// ResultSink stores finished games. It must be safe for concurrent use.
type ResultSink interface {
	SaveGame(ctx context.Context, result *GameResult) error
}

type BatchConfig struct {
	Params        mines.GameParams
	Games         int
	Workers       int
	Seed          int64
	RecordReplays bool
}

type Summary struct {
	Games       int
	Wins        int
	Losses      int
	Stuck       int
	Moves       int
	SafeMoves   int
	RandomMoves int
}

func (s *Summary) add(result *GameResult) {
	s.Games++
	switch result.Outcome {
	case protocol.Win:
		s.Wins++
	case protocol.Loss:
		s.Losses++
	default:
		s.Stuck++
	}
	s.Moves += result.Moves
	s.SafeMoves += result.SafeMoves
	s.RandomMoves += result.RandomMoves
}

func (s *Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// RunBatch plays cfg.Games independent games, game i seeded with cfg.Seed+i,
// with at most cfg.Workers games in flight. Cancelling parent stops new games
// from starting.
func RunBatch(parent context.Context, cfg BatchConfig, sink ResultSink) (*Summary, error) {
	if err := mines.ValidateParams(cfg.Params); err != nil {
		return nil, err
	}
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("Number of games must be positive, got %d", cfg.Games)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(workers)
	var mu sync.Mutex
	summary := &Summary{}

	for i := 0; i < cfg.Games; i++ {
		if ctx.Err() != nil {
			break
		}
		seed := cfg.Seed + int64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := PlayGame(cfg.Params, seed, cfg.RecordReplays)
			if err != nil {
				return err
			}
			if sink != nil {
				if err := sink.SaveGame(ctx, result); err != nil {
					return fmt.Errorf("saving game %s: %w", result.ID, err)
				}
			}
			mu.Lock()
			summary.add(result)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = parent.Err()
	}
	log.WithFields(logrus.Fields{
		"games":  summary.Games,
		"wins":   summary.Wins,
		"losses": summary.Losses,
	}).Info("Batch finished")
	return summary, err
}

// Sinks hands every result to each sink in order, stopping at the first error.
type Sinks []ResultSink

func (s Sinks) SaveGame(ctx context.Context, result *GameResult) error {
	for _, sink := range s {
		if err := sink.SaveGame(ctx, result); err != nil {
			return err
		}
	}
	return nil
}
