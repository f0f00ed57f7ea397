package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomasstrnad1997/minesai/agent"
	"github.com/tomasstrnad1997/minesai/db"
	"github.com/tomasstrnad1997/minesai/mines"
	"github.com/tomasstrnad1997/minesai/protocol"
	"github.com/tomasstrnad1997/minesai/runner"
)

func createTempDB(t *testing.T) (string, error) {
	t.Helper()
	// Create a temporary file for the SQLite database
	tempFile, err := os.CreateTemp("", "*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	t.Cleanup(func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			fmt.Printf("failed to delete temp DB file %v\n", err)
		}
	})

	database, err := sql.Open("sqlite3", tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to open db file: %v", err)
	}
	defer database.Close()

	if err = db.InitializeTables(database); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
	return tempFile.Name(), nil
}

func openTempStore(t *testing.T) *db.SQLStore {
	t.Helper()
	filename, err := createTempDB(t)
	if err != nil {
		t.Fatalf("Failed to create temp db: %v", err)
	}
	store, err := db.OpenStore(filename)
	if err != nil {
		t.Fatalf("Failed to create Store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err = store.InitializeTables(); err != nil {
		t.Fatalf("Failed to initialize tables: %v", err)
	}
	return store
}

func sampleResult(outcome protocol.GameEndType, moves int) *runner.GameResult {
	return &runner.GameResult{
		ID:           uuid.New(),
		Params:       mines.GameParams{Width: 9, Height: 9, Mines: 10},
		Seed:         7,
		Outcome:      outcome,
		Moves:        moves,
		SafeMoves:    moves - 1,
		RandomMoves:  1,
		MinesFlagged: 3,
		Inference:    agent.InferenceStats{Passes: 12, SentencesDropped: 2},
		Replay:       []byte{0x04, 0x00, 0x00, 0x00, 0x00, 0x00},
		Duration:     1500 * time.Millisecond,
	}
}

func TestInitStoreFromEnv(t *testing.T) {
	filename, err := createTempDB(t)
	if err != nil {
		t.Fatalf("Failed to create temp db: %v", err)
	}
	t.Setenv("DB_PATH", filename)
	store, err := db.InitStore()
	if err != nil {
		t.Fatalf("Failed to create Store: %v", err)
	}
	defer store.DB.Close()
	if err = store.InitializeTables(); err != nil {
		t.Fatalf("Initializing tables twice must succeed: %v", err)
	}
}

func TestInitStoreWithoutPath(t *testing.T) {
	t.Setenv("DB_PATH", "")
	if _, err := db.InitStore(); err == nil {
		t.Fatalf("Expected error when DB_PATH is not set")
	}
}

func TestSaveAndFindGame(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	result := sampleResult(protocol.Loss, 20)
	if err := store.SaveGame(ctx, result); err != nil {
		t.Fatalf("Failed to save game: %v", err)
	}

	record, err := store.FindGame(ctx, result.ID)
	if err != nil {
		t.Fatalf("Failed to find game: %v", err)
	}
	if record.ID != result.ID || record.Params != result.Params || record.Seed != result.Seed {
		t.Fatalf("Stored game %+v does not match saved result", record)
	}
	if record.Outcome != protocol.Loss || record.Moves != 20 || record.SafeMoves != 19 {
		t.Fatalf("Stored counters do not match: %+v", record)
	}
	if record.InferencePasses != 12 || record.SentencesDropped != 2 || record.Duration != result.Duration {
		t.Fatalf("Stored inference stats do not match: %+v", record)
	}
	if string(record.Replay) != string(result.Replay) {
		t.Fatalf("Stored replay does not match")
	}
	if record.CreatedAt.IsZero() {
		t.Fatalf("Expected creation time to be set")
	}
}

func TestSaveGameTwiceFails(t *testing.T) {
	store := openTempStore(t)
	result := sampleResult(protocol.Win, 5)
	if err := store.SaveGame(context.Background(), result); err != nil {
		t.Fatalf("Failed to save game: %v", err)
	}
	if err := store.SaveGame(context.Background(), result); err == nil {
		t.Fatalf("Saving the same game id twice must fail")
	}
}

func TestFindMissingGame(t *testing.T) {
	store := openTempStore(t)
	_, err := store.FindGame(context.Background(), uuid.New())
	if !errors.Is(err, db.ErrGameNotFound) {
		t.Fatalf("Expected ErrGameNotFound, got %v", err)
	}
}

func TestListGamesAndStats(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to read stats of empty db: %v", err)
	}
	if stats.Games != 0 || stats.WinRate != 0 {
		t.Fatalf("Expected empty stats, got %+v", stats)
	}

	results := []*runner.GameResult{
		sampleResult(protocol.Win, 10),
		sampleResult(protocol.Win, 20),
		sampleResult(protocol.Loss, 30),
		sampleResult(protocol.Stuck, 40),
	}
	for _, r := range results {
		if err := store.SaveGame(ctx, r); err != nil {
			t.Fatalf("Failed to save game: %v", err)
		}
	}

	games, err := store.ListGames(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to list games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(games))
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Failed to read stats: %v", err)
	}
	if stats.Games != 4 || stats.Wins != 2 || stats.Losses != 1 || stats.Stuck != 1 {
		t.Fatalf("Unexpected stats %+v", stats)
	}
	if stats.WinRate != 0.5 || stats.AvgMoves != 25 {
		t.Fatalf("Unexpected rates %+v", stats)
	}
}

func TestStoreAsBatchSink(t *testing.T) {
	store := openTempStore(t)
	cfg := runner.BatchConfig{
		Params:        mines.GameParams{Width: 6, Height: 6, Mines: 4},
		Games:         8,
		Workers:       4,
		Seed:          1,
		RecordReplays: true,
	}
	summary, err := runner.RunBatch(context.Background(), cfg, store)
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Failed to read stats: %v", err)
	}
	if stats.Games != summary.Games || stats.Wins != summary.Wins {
		t.Fatalf("Stored stats %+v do not match batch summary %+v", stats, summary)
	}

	games, err := store.ListGames(context.Background(), 1)
	if err != nil || len(games) != 1 {
		t.Fatalf("Failed to list stored games: %v", err)
	}
	events, err := protocol.DecodeReplay(games[0].Replay)
	if err != nil {
		t.Fatalf("Stored replay does not decode: %v", err)
	}
	if events[0].Start == nil || events[0].Start.Params != cfg.Params {
		t.Fatalf("Stored replay does not start with the game parameters")
	}
}

func TestListGamesNewestFirst(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	var last *runner.GameResult
	for moves := 10; moves < 16; moves++ {
		last = sampleResult(protocol.Win, moves)
		if err := store.SaveGame(ctx, last); err != nil {
			t.Fatalf("Failed to save game: %v", err)
		}
	}

	games, err := store.ListGames(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list games: %v", err)
	}
	if len(games) != 1 || games[0].ID != last.ID {
		t.Fatalf("Expected the last saved game %s first, got %+v", last.ID, games)
	}

	games, err = store.ListGames(ctx, 6)
	if err != nil {
		t.Fatalf("Failed to list games: %v", err)
	}
	for i, g := range games {
		if g.Moves != 15-i {
			t.Fatalf("Game %d has %d moves, expected %d", i, g.Moves, 15-i)
		}
	}
}
