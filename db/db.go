package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tomasstrnad1997/minesai/db/store"
	"github.com/tomasstrnad1997/minesai/mines"
	"github.com/tomasstrnad1997/minesai/protocol"
	"github.com/tomasstrnad1997/minesai/runner"
)

//go:embed sqlc/schema.sql
var ddl string

var ErrGameNotFound = errors.New("game not found")

var outcomeNames = map[protocol.GameEndType]string{
	protocol.Win:   protocol.Win.String(),
	protocol.Loss:  protocol.Loss.String(),
	protocol.Stuck: protocol.Stuck.String(),
}

type SQLStore struct {
	Q  store.Queries
	DB *sql.DB
}

// GameRecord is a stored game as read back from the database.
type GameRecord struct {
	ID               uuid.UUID
	Params           mines.GameParams
	Seed             int64
	Outcome          protocol.GameEndType
	Moves            int
	SafeMoves        int
	RandomMoves      int
	MinesFlagged     int
	InferencePasses  int
	SentencesDropped int
	Duration         time.Duration
	Replay           []byte
	CreatedAt        time.Time
}

type Stats struct {
	Games    int
	Wins     int
	Losses   int
	Stuck    int
	WinRate  float64
	AvgMoves float64
}

func InitializeTables(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}

func (s *SQLStore) InitializeTables() error {
	err := InitializeTables(s.DB)
	if err != nil {
		return err
	}
	return s.InsertOutcomes(context.Background())
}

// InitStore opens the database named by the DB_PATH environment variable.
func InitStore() (*SQLStore, error) {
	path := os.Getenv("DB_PATH")
	if path == "" {
		return nil, fmt.Errorf("DB_PATH not set in environment")
	}
	return OpenStore(path)
}

func OpenStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// Need to ping the database to check if the file could be opened
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// sqlite allows a single writer; batch workers share one connection
	db.SetMaxOpenConns(1)
	return &SQLStore{Q: *store.New(db), DB: db}, nil
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

func (s *SQLStore) InsertOutcomes(ctx context.Context) error {
	for id, name := range outcomeNames {
		params := store.InsertOutcomeParams{ID: int64(id), Name: name}
		if err := s.Q.InsertOutcome(ctx, params); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) SaveGame(ctx context.Context, result *runner.GameResult) error {
	params := store.CreateGameParams{
		ID:               result.ID.String(),
		Width:            int64(result.Params.Width),
		Height:           int64(result.Params.Height),
		Mines:            int64(result.Params.Mines),
		Seed:             result.Seed,
		Outcome:          int64(result.Outcome),
		Moves:            int64(result.Moves),
		SafeMoves:        int64(result.SafeMoves),
		RandomMoves:      int64(result.RandomMoves),
		MinesFlagged:     int64(result.MinesFlagged),
		InferencePasses:  int64(result.Inference.Passes),
		SentencesDropped: int64(result.Inference.SentencesDropped),
		DurationMs:       result.Duration.Milliseconds(),
		Replay:           result.Replay,
	}
	return s.Q.CreateGame(ctx, params)
}

func (s *SQLStore) FindGame(ctx context.Context, id uuid.UUID) (*GameRecord, error) {
	g, err := s.Q.GetGame(ctx, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toRecord(g)
}

// ListGames returns up to limit games, newest first.
func (s *SQLStore) ListGames(ctx context.Context, limit int) ([]*GameRecord, error) {
	games, err := s.Q.ListGames(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	records := make([]*GameRecord, 0, len(games))
	for _, g := range games {
		record, err := toRecord(g)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *SQLStore) Stats(ctx context.Context) (*Stats, error) {
	row, err := s.Q.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Games:    int(row.Games),
		Wins:     int(row.Wins),
		Losses:   int(row.Losses),
		Stuck:    int(row.Stuck),
		AvgMoves: row.AvgMoves,
	}
	if stats.Games > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.Games)
	}
	return stats, nil
}

func toRecord(g store.Game) (*GameRecord, error) {
	id, err := uuid.Parse(g.ID)
	if err != nil {
		return nil, fmt.Errorf("stored game has invalid id %q: %w", g.ID, err)
	}
	return &GameRecord{
		ID:               id,
		Params:           mines.GameParams{Width: int(g.Width), Height: int(g.Height), Mines: int(g.Mines)},
		Seed:             g.Seed,
		Outcome:          protocol.GameEndType(g.Outcome),
		Moves:            int(g.Moves),
		SafeMoves:        int(g.SafeMoves),
		RandomMoves:      int(g.RandomMoves),
		MinesFlagged:     int(g.MinesFlagged),
		InferencePasses:  int(g.InferencePasses),
		SentencesDropped: int(g.SentencesDropped),
		Duration:         time.Duration(g.DurationMs) * time.Millisecond,
		Replay:           g.Replay,
		CreatedAt:        g.CreatedAt,
	}, nil
}
