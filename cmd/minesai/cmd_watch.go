package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tomasstrnad1997/minesai/protocol"
	"github.com/tomasstrnad1997/minesai/server"
)

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	err := server.Watch(ctx, args[0], func(e protocol.Event) error {
		printEvent(out, e)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
