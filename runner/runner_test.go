package runner

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasstrnad1997/minesai/agent"
	"github.com/tomasstrnad1997/minesai/mines"
	"github.com/tomasstrnad1997/minesai/protocol"
)

func init() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	SetLogger(quiet)
}

var beginner = mines.GameParams{Width: 8, Height: 8, Mines: 8}

func TestPlayGameIsDeterministic(t *testing.T) {
	first, err := PlayGame(beginner, 42, true)
	require.NoError(t, err)
	second, err := PlayGame(beginner, 42, true)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Outcome, second.Outcome)
	assert.Equal(t, first.Moves, second.Moves)
	assert.Equal(t, first.Replay, second.Replay)
}

func TestPlayGameWithoutMinesWinsOnFirstMove(t *testing.T) {
	before := testutil.ToFloat64(gamesTotal.WithLabelValues("win"))

	result, err := PlayGame(mines.GameParams{Width: 4, Height: 4, Mines: 0}, 1, false)
	require.NoError(t, err)
	assert.Equal(t, protocol.Win, result.Outcome)
	assert.Equal(t, 1, result.Moves)
	assert.Equal(t, 1, result.RandomMoves)
	assert.Nil(t, result.Replay)

	assert.Equal(t, before+1, testutil.ToFloat64(gamesTotal.WithLabelValues("win")))
}

func TestPlayGameOnlyMinesLoses(t *testing.T) {
	result, err := PlayGame(mines.GameParams{Width: 3, Height: 3, Mines: 9}, 1, true)
	require.NoError(t, err)
	assert.Equal(t, protocol.Loss, result.Outcome)
	assert.Equal(t, 1, result.RandomMoves)
	assert.Equal(t, 0, result.SafeMoves)
}

func TestPlayGameRejectsInvalidParams(t *testing.T) {
	_, err := PlayGame(mines.GameParams{Width: 0, Height: 3, Mines: 1}, 1, false)
	var paramsErr *mines.InvalidBoardParamsError
	assert.True(t, errors.As(err, &paramsErr))
}

// TestLossesOnlyFollowGuesses replays many games and checks that the move
// which hit a mine was always a guess, never an inferred move.
func TestLossesOnlyFollowGuesses(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		result, err := PlayGame(mines.GameParams{Width: 9, Height: 9, Mines: 10}, seed, true)
		require.NoError(t, err)
		require.NotEqual(t, protocol.Stuck, result.Outcome, "seed %d", seed)

		events, err := protocol.DecodeReplay(result.Replay)
		require.NoError(t, err)
		require.NotNil(t, events[0].Start)
		require.NotNil(t, events[len(events)-1].End)
		assert.Equal(t, result.Outcome, *events[len(events)-1].End)

		var last *protocol.MoveRecord
		flags := 0
		for _, e := range events {
			if e.Move == nil {
				continue
			}
			if e.Move.Move.Type == mines.Flag {
				flags++
				continue
			}
			last = e.Move
		}
		require.NotNil(t, last)
		assert.Equal(t, result.MinesFlagged, flags)
		if result.Outcome == protocol.Loss {
			assert.Equal(t, protocol.Guessed, last.Strategy, "seed %d lost on an inferred move", seed)
		}
	}
}

type memorySink struct {
	mu      sync.Mutex
	results []*GameResult
	err     error
}

func (s *memorySink) SaveGame(ctx context.Context, result *GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, result)
	return nil
}

func TestRunBatch(t *testing.T) {
	sink := &memorySink{}
	cfg := BatchConfig{Params: beginner, Games: 24, Workers: 4, Seed: 100}
	summary, err := RunBatch(context.Background(), cfg, sink)
	require.NoError(t, err)

	assert.Equal(t, 24, summary.Games)
	assert.Equal(t, 24, summary.Wins+summary.Losses+summary.Stuck)
	assert.Equal(t, summary.Moves, summary.SafeMoves+summary.RandomMoves)
	assert.InDelta(t, float64(summary.Wins)/24, summary.WinRate(), 1e-9)

	require.Len(t, sink.results, 24)
	seeds := map[int64]bool{}
	for _, r := range sink.results {
		seeds[r.Seed] = true
	}
	assert.Len(t, seeds, 24)
	assert.True(t, seeds[100])
	assert.True(t, seeds[123])
}

func TestRunBatchStopsOnSinkError(t *testing.T) {
	boom := errors.New("disk full")
	_, err := RunBatch(context.Background(), BatchConfig{Params: beginner, Games: 5, Workers: 2}, &memorySink{err: boom})
	assert.True(t, errors.Is(err, boom))
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := RunBatch(ctx, BatchConfig{Params: beginner, Games: 5, Workers: 2}, nil)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, summary.Games)
}

func TestRunBatchValidatesConfig(t *testing.T) {
	_, err := RunBatch(context.Background(), BatchConfig{Params: beginner, Games: 0}, nil)
	assert.Error(t, err)
	_, err = RunBatch(context.Background(), BatchConfig{Params: mines.GameParams{Width: 2, Height: 2, Mines: 5}, Games: 1}, nil)
	assert.Error(t, err)
}

func TestSinksStopAtFirstError(t *testing.T) {
	boom := errors.New("closed")
	first, last := &memorySink{}, &memorySink{}
	result := &GameResult{}

	require.NoError(t, Sinks{first, last}.SaveGame(context.Background(), result))
	assert.Len(t, first.results, 1)
	assert.Len(t, last.results, 1)

	err := Sinks{first, &memorySink{err: boom}, last}.SaveGame(context.Background(), result)
	assert.True(t, errors.Is(err, boom))
	assert.Len(t, first.results, 2)
	assert.Len(t, last.results, 1)
}

func TestPlayFailsWhenBoardIsAheadOfAgent(t *testing.T) {
	board, err := mines.CreateBoardWithMines(1, 1)
	require.NoError(t, err)
	_, err = board.Reveal(0, 0)
	require.NoError(t, err)

	g := &game{
		board:  board,
		agent:  agent.New(1, 1, rand.New(rand.NewSource(1))),
		result: &GameResult{},
		log:    log,
	}
	_, err = g.play()
	assert.True(t, errors.Is(err, ErrOutOfSync))
}
