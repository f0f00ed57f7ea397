package server

import (
	"bufio"
	"context"
	"net"

	"github.com/tomasstrnad1997/minesai/protocol"
)

// Watch connects to the feed at addr and passes every received event to
// onEvent. It returns when the feed closes the connection, onEvent fails or
// ctx is done.
func Watch(ctx context.Context, addr string, onEvent func(protocol.Event) error) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	err = protocol.NewEventDispatcher(onEvent).Replay(bufio.NewReader(conn))
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
