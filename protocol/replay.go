package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tomasstrnad1997/minesai/mines"
)

type MessageHandler func([]byte) error

// Dispatcher routes framed messages to the handler registered for their type.
type Dispatcher struct {
	messageHandlers map[MessageType]MessageHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{messageHandlers: make(map[MessageType]MessageHandler)}
}

func (d *Dispatcher) RegisterHandler(msgType MessageType, handlerFunc MessageHandler) {
	d.messageHandlers[msgType] = handlerFunc
}

func (d *Dispatcher) HandleMessage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("Empty message")
	}
	msgType := MessageType(data[0])
	handlerFunc, exists := d.messageHandlers[msgType]
	if !exists {
		return fmt.Errorf("No handler registered for message type: %d", msgType)
	}
	return handlerFunc(data)
}

// ReadMessage reads one framed message. It returns io.EOF only when r is
// exhausted exactly at a message boundary.
func ReadMessage(r io.Reader) ([]byte, error) {
	header := make([]byte, HeaderLength)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("Failed to read message header: %w", err)
		}
		return nil, err
	}
	messageLength := int(binary.BigEndian.Uint32(header[2:HeaderLength]))
	if messageLength > MaxMessageLength {
		return nil, fmt.Errorf("%w: header announces %d bytes, limit is %d", ErrInvalidPayloadSize, messageLength, MaxMessageLength)
	}
	message := make([]byte, messageLength+HeaderLength)
	copy(message[0:HeaderLength], header)
	if _, err := io.ReadFull(r, message[HeaderLength:]); err != nil {
		return nil, fmt.Errorf("Failed to read message payload: %w", err)
	}
	return message, nil
}

// Replay feeds every message in r to the dispatcher, stopping at the first error.
func (d *Dispatcher) Replay(r io.Reader) error {
	for {
		message, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := d.HandleMessage(message); err != nil {
			return err
		}
	}
}

// Recorder accumulates the messages of one game. The first encoding error
// sticks and is returned by Bytes.
type Recorder struct {
	buf bytes.Buffer
	err error
}

func (rec *Recorder) write(data []byte, err error) {
	if rec.err != nil {
		return
	}
	if err != nil {
		rec.err = err
		return
	}
	rec.buf.Write(data)
}

func (rec *Recorder) Start(info GameStartInfo) {
	rec.write(EncodeGameStart(info))
}

func (rec *Recorder) Move(record MoveRecord) {
	rec.write(EncodeMove(record))
}

func (rec *Recorder) Cells(cells []mines.UpdatedCell) {
	if len(cells) == 0 {
		return
	}
	rec.write(EncodeCellUpdates(cells))
}

func (rec *Recorder) End(endType GameEndType) {
	rec.write(EncodeGameEnd(endType))
}

func (rec *Recorder) Bytes() ([]byte, error) {
	if rec.err != nil {
		return nil, rec.err
	}
	return bytes.Clone(rec.buf.Bytes()), nil
}

// Event is one decoded replay message. Exactly one field is set.
type Event struct {
	Start *GameStartInfo
	Move  *MoveRecord
	Cells []mines.UpdatedCell
	End   *GameEndType
}

// NewEventDispatcher returns a dispatcher that decodes every replay
// message into an Event and passes it to onEvent.
func NewEventDispatcher(onEvent func(Event) error) *Dispatcher {
	d := NewDispatcher()
	d.RegisterHandler(StartGame, func(msg []byte) error {
		info, err := DecodeGameStart(msg)
		if err != nil {
			return err
		}
		return onEvent(Event{Start: info})
	})
	d.RegisterHandler(MoveCommand, func(msg []byte) error {
		move, err := DecodeMove(msg)
		if err != nil {
			return err
		}
		return onEvent(Event{Move: move})
	})
	d.RegisterHandler(CellUpdate, func(msg []byte) error {
		cells, err := DecodeCellUpdates(msg)
		if err != nil {
			return err
		}
		return onEvent(Event{Cells: cells})
	})
	d.RegisterHandler(GameEnd, func(msg []byte) error {
		end, err := DecodeGameEnd(msg)
		if err != nil {
			return err
		}
		return onEvent(Event{End: &end})
	})
	return d
}

// DecodeReplay decodes a recorded game into its events in order.
func DecodeReplay(data []byte) ([]Event, error) {
	var events []Event
	d := NewEventDispatcher(func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err := d.Replay(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return events, nil
}
