package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/minesai/runner"
)

const writeTimeout = 5 * time.Second

var log = logrus.New()

func SetLogger(l *logrus.Logger) {
	log = l
}

type Viewer struct {
	client     net.Conn
	id         int
	writeMutex sync.Mutex
}

// Feed streams the replay of every finished game to the connected viewers.
// A game's messages are written to a viewer in one piece, so games played
// concurrently never interleave on the wire.
type Feed struct {
	listener   net.Listener
	Port       uint16
	viewers    map[int]*Viewer
	viewersMux sync.Mutex
	nextID     int
}

func SpawnFeed(addr string) (*Feed, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	feed := &Feed{
		listener: listener,
		Port:     uint16(listener.Addr().(*net.TCPAddr).Port),
		viewers:  make(map[int]*Viewer),
	}
	go feed.serverLoop()
	log.WithField("addr", listener.Addr()).Info("Game feed listening")
	return feed, nil
}

func (f *Feed) Addr() net.Addr {
	return f.listener.Addr()
}

func (f *Feed) NumViewers() int {
	f.viewersMux.Lock()
	defer f.viewersMux.Unlock()
	return len(f.viewers)
}

func (f *Feed) serverLoop() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.WithError(err).Error("Failed to accept viewer")
			}
			return
		}
		f.viewersMux.Lock()
		f.nextID++
		viewer := &Viewer{client: conn, id: f.nextID}
		f.viewers[viewer.id] = viewer
		f.viewersMux.Unlock()
		log.WithFields(logrus.Fields{"viewer": viewer.id, "remote": conn.RemoteAddr()}).Info("Viewer connected")
		go f.handleViewer(viewer)
	}
}

// handleViewer discards whatever the viewer sends until it disconnects.
func (f *Feed) handleViewer(viewer *Viewer) {
	io.Copy(io.Discard, viewer.client)
	f.drop(viewer)
}

func (f *Feed) drop(viewer *Viewer) {
	f.viewersMux.Lock()
	_, exists := f.viewers[viewer.id]
	delete(f.viewers, viewer.id)
	f.viewersMux.Unlock()
	viewer.client.Close()
	if exists {
		log.WithField("viewer", viewer.id).Info("Viewer disconnected")
	}
}

func (f *Feed) broadcast(data []byte) {
	f.viewersMux.Lock()
	viewers := make([]*Viewer, 0, len(f.viewers))
	for _, viewer := range f.viewers {
		viewers = append(viewers, viewer)
	}
	f.viewersMux.Unlock()

	for _, viewer := range viewers {
		viewer.writeMutex.Lock()
		viewer.client.SetWriteDeadline(time.Now().Add(writeTimeout))
		_, err := viewer.client.Write(data)
		viewer.writeMutex.Unlock()
		if err != nil {
			log.WithError(err).WithField("viewer", viewer.id).Warn("Failed to send game")
			f.drop(viewer)
		}
	}
}

// SaveGame publishes the replay of a finished game. Games played without
// recording are skipped.
func (f *Feed) SaveGame(ctx context.Context, result *runner.GameResult) error {
	if len(result.Replay) == 0 {
		return nil
	}
	f.broadcast(result.Replay)
	return nil
}

func (f *Feed) Close() error {
	err := f.listener.Close()
	f.viewersMux.Lock()
	for id, viewer := range f.viewers {
		viewer.client.Close()
		delete(f.viewers, id)
	}
	f.viewersMux.Unlock()
	return err
}
