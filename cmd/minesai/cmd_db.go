package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tomasstrnad1997/minesai/db"
	"github.com/tomasstrnad1997/minesai/protocol"
)

var recentGames int

func runInitDB(cmd *cobra.Command, args []string) {
	store, err := openStore()
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()
	if err = store.InitializeTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	log.Info("Tables created")
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	ctx := cmd.Context()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "games:     %d\n", stats.Games)
	fmt.Fprintf(out, "wins:      %d (%.1f%%)\n", stats.Wins, 100*stats.WinRate)
	fmt.Fprintf(out, "losses:    %d\n", stats.Losses)
	fmt.Fprintf(out, "stuck:     %d\n", stats.Stuck)
	fmt.Fprintf(out, "avg moves: %.1f\n", stats.AvgMoves)

	if recentGames <= 0 {
		return nil
	}
	games, err := store.ListGames(ctx, recentGames)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printGames(out, games)
	return nil
}

func printGames(w io.Writer, games []*db.GameRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBOARD\tSEED\tOUTCOME\tMOVES\tGUESSES\tPLAYED")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%dx%d/%d\t%d\t%s\t%d\t%d\t%s\n",
			g.ID, g.Params.Width, g.Params.Height, g.Params.Mines,
			g.Seed, g.Outcome, g.Moves, g.RandomMoves, g.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

func runReplay(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid game id %q: %w", args[0], err)
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	game, err := store.FindGame(cmd.Context(), id)
	if err != nil {
		return err
	}
	if len(game.Replay) == 0 {
		return fmt.Errorf("game %s was stored without a replay", id)
	}
	events, err := protocol.DecodeReplay(game.Replay)
	if err != nil {
		return err
	}
	printEvents(cmd.OutOrStdout(), events)
	return nil
}

func printEvents(w io.Writer, events []protocol.Event) {
	for _, e := range events {
		printEvent(w, e)
	}
}

func printEvent(w io.Writer, e protocol.Event) {
	switch {
	case e.Start != nil:
		p := e.Start.Params
		fmt.Fprintf(w, "start  %dx%d with %d mines, seed %d\n", p.Width, p.Height, p.Mines, e.Start.Seed)
	case e.Move != nil:
		fmt.Fprintf(w, "move   %s (%s)\n", e.Move.Move, e.Move.Strategy)
	case e.Cells != nil:
		fmt.Fprintf(w, "cells  %d updated\n", len(e.Cells))
	case e.End != nil:
		fmt.Fprintf(w, "end    %s\n", *e.End)
	}
}
