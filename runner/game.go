package runner

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/minesai/agent"
	"github.com/tomasstrnad1997/minesai/mines"
	"github.com/tomasstrnad1997/minesai/protocol"
)

var log = logrus.New()

// ErrOutOfSync means the agent chose a cell the board had already opened or flagged.
var ErrOutOfSync = errors.New("agent and board out of sync")

// SetLogger replaces the package logger. Call it before starting games.
func SetLogger(l *logrus.Logger) {
	log = l
}

type GameResult struct {
	ID           uuid.UUID
	Params       mines.GameParams
	Seed         int64
	Outcome      protocol.GameEndType
	Moves        int
	SafeMoves    int
	RandomMoves  int
	MinesFlagged int
	Inference    agent.InferenceStats
	Replay       []byte
	Duration     time.Duration
}

type game struct {
	board  *mines.Board
	agent  *agent.Agent
	rec    *protocol.Recorder
	result *GameResult
	log    logrus.FieldLogger
}

// PlayGame lets a fresh agent play one board generated from seed until it
// wins, hits a mine or runs out of moves.
func PlayGame(params mines.GameParams, seed int64, recordReplay bool) (*GameResult, error) {
	rng := rand.New(rand.NewSource(seed))
	board, err := mines.CreateBoardFromParams(params, rng)
	if err != nil {
		return nil, err
	}
	result := &GameResult{ID: uuid.New(), Params: params, Seed: seed}
	g := &game{
		board:  board,
		agent:  agent.New(params.Height, params.Width, rng),
		result: result,
		log: log.WithFields(logrus.Fields{
			"game":   result.ID,
			"width":  params.Width,
			"height": params.Height,
			"mines":  params.Mines,
		}),
	}
	if recordReplay {
		g.rec = &protocol.Recorder{}
		g.rec.Start(protocol.GameStartInfo{Params: params, Seed: seed})
	}

	start := time.Now()
	g.log.Debug("Game started")
	outcome, err := g.play()
	if err != nil {
		return nil, fmt.Errorf("game %s (seed %d): %w", result.ID, seed, err)
	}
	result.Outcome = outcome
	result.Duration = time.Since(start)
	result.Inference = g.agent.TotalStats()
	if g.rec != nil {
		g.rec.End(outcome)
		if result.Replay, err = g.rec.Bytes(); err != nil {
			return nil, err
		}
	}
	observeGame(result)
	g.log.WithFields(logrus.Fields{
		"outcome": outcome,
		"moves":   result.Moves,
		"guesses": result.RandomMoves,
	}).Info("Game finished")
	return result, nil
}

func (g *game) play() (protocol.GameEndType, error) {
	for {
		cell, ok := g.agent.ChooseSafeMove()
		strategy := protocol.Inferred
		if !ok {
			cell, ok = g.agent.ChooseRandomMove()
			strategy = protocol.Guessed
		}
		if !ok {
			g.log.Warn("No legal move left")
			return protocol.Stuck, nil
		}

		move := mines.Move{Row: cell.Row, Col: cell.Col, Type: mines.Reveal}
		g.record(move, strategy)
		result, err := g.board.MakeMove(move)
		if err != nil {
			return 0, err
		}
		g.log.WithFields(logrus.Fields{"move": move, "strategy": strategy}).Debug("Move made")

		switch result.Result {
		case mines.MineBlown:
			g.recordCells(result.UpdatedCells)
			return protocol.Loss, nil
		case mines.NoChange:
			return 0, fmt.Errorf("%w: %v is already open or flagged", ErrOutOfSync, cell)
		default:
			g.recordCells(result.UpdatedCells)
			for _, revealed := range result.UpdatedCells {
				c := agent.Cell{Row: revealed.Row, Col: revealed.Col}
				if err := g.agent.RecordClueAndInfer(c, mines.GetNumberOfMines(g.board, revealed)); err != nil {
					return 0, err
				}
				observeInference(g.agent.LastStats())
			}
		}
		if err := g.flagKnownMines(); err != nil {
			return 0, err
		}
		if result.Result == mines.GameWon || g.board.IsSolved() {
			return protocol.Win, nil
		}
	}
}

func (g *game) flagKnownMines() error {
	for _, c := range g.agent.KnownMines().Sorted() {
		if g.board.Cells[c.Row][c.Col].Flagged {
			continue
		}
		move := mines.Move{Row: c.Row, Col: c.Col, Type: mines.Flag}
		g.record(move, protocol.Inferred)
		result, err := g.board.MakeMove(move)
		if err != nil {
			return err
		}
		g.recordCells(result.UpdatedCells)
	}
	return nil
}

func (g *game) record(move mines.Move, strategy protocol.Strategy) {
	switch {
	case move.Type == mines.Flag:
		g.result.MinesFlagged++
	case strategy == protocol.Inferred:
		g.result.Moves++
		g.result.SafeMoves++
	default:
		g.result.Moves++
		g.result.RandomMoves++
	}
	observeMove(move, strategy)
	if g.rec != nil {
		g.rec.Move(protocol.MoveRecord{Move: move, Strategy: strategy})
	}
}

func (g *game) recordCells(cells []*mines.Cell) {
	if g.rec != nil {
		g.rec.Cells(mines.CreateUpdatedCells(g.board, cells))
	}
}
