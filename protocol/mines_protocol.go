package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tomasstrnad1997/minesai/mines"
)

type MessageType byte

const (
	MoveCommand MessageType = 0x01
	StartGame   MessageType = 0x04
	CellUpdate  MessageType = 0x05
	GameEnd     MessageType = 0x07
)

type GameEndType byte

const (
	Win   GameEndType = 0x01
	Loss  GameEndType = 0x02
	Stuck GameEndType = 0x03
)

func (e GameEndType) String() string {
	switch e {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Stuck:
		return "stuck"
	default:
		return fmt.Sprintf("unknown(%d)", byte(e))
	}
}

// Strategy tells how the agent arrived at a move.
type Strategy byte

const (
	Inferred Strategy = 0x01
	Guessed  Strategy = 0x02
)

func (s Strategy) String() string {
	switch s {
	case Inferred:
		return "inferred"
	case Guessed:
		return "guessed"
	default:
		return fmt.Sprintf("unknown(%d)", byte(s))
	}
}

const (
	HeaderLength         = 6
	UpdateCellByteLength = 9
	MoveByteLength       = 10
	GameStartByteLength  = 3*4 + 8
	// MaxMessageLength is the payload of a cell update covering a whole
	// board of the largest allowed size.
	MaxMessageLength = mines.MaxBoardSide * mines.MaxBoardSide * UpdateCellByteLength
)

var (
	ErrInvalidPayloadSize = errors.New("invalid payload size")
)

type MoveRecord struct {
	Move     mines.Move
	Strategy Strategy
}

type GameStartInfo struct {
	Params mines.GameParams
	Seed   int64
}

func checkAndDecodeLength(data []byte, message MessageType) (int, error) {
	if len(data) < HeaderLength {
		return 0, fmt.Errorf("Data too short to decode")
	}
	if MessageType(data[0]) != message {
		return 0, fmt.Errorf("Invalid message type for command E:%d R:%d", message, data[0])
	}
	payloadLength := int(binary.BigEndian.Uint32(data[2:6]))
	if payloadLength != len(data)-HeaderLength {
		return payloadLength, fmt.Errorf("%w: header says %d, got %d", ErrInvalidPayloadSize, payloadLength, len(data)-HeaderLength)
	}
	return payloadLength, nil
}

func intToBytes(i int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(i))
	return buf
}

func bytesToInt(bytes []byte) int {
	return int(binary.BigEndian.Uint32(bytes))
}

func writeHeader(buf *bytes.Buffer, tp MessageType, length int) error {
	buf.WriteByte(byte(tp))
	// Reserved byte for future use
	buf.WriteByte(byte(0x00))
	err := binary.Write(buf, binary.BigEndian, uint32(length))
	if err != nil {
		return fmt.Errorf("Failed to write length (%d)", length)
	}
	return nil
}

func EncodeGameEnd(endType GameEndType) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeHeader(&buf, GameEnd, 1); err != nil {
		return nil, err
	}
	buf.WriteByte(byte(endType))
	return buf.Bytes(), nil
}

func DecodeGameEnd(data []byte) (GameEndType, error) {
	length, err := checkAndDecodeLength(data, GameEnd)
	if err != nil {
		return 0, err
	}
	if length != 1 {
		return 0, fmt.Errorf("%w: game end payload is %d bytes", ErrInvalidPayloadSize, length)
	}
	return GameEndType(data[HeaderLength]), nil
}

func EncodeMove(record MoveRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeHeader(&buf, MoveCommand, MoveByteLength); err != nil {
		return nil, err
	}
	payload := make([]byte, MoveByteLength)
	payload[0] = byte(record.Move.Type)
	copy(payload[1:5], intToBytes(record.Move.Row))
	copy(payload[5:9], intToBytes(record.Move.Col))
	payload[9] = byte(record.Strategy)
	buf.Write(payload)
	return buf.Bytes(), nil
}

func DecodeMove(data []byte) (*MoveRecord, error) {
	length, err := checkAndDecodeLength(data, MoveCommand)
	if err != nil {
		return nil, err
	}
	if length != MoveByteLength {
		return nil, fmt.Errorf("%w: move payload is %d bytes", ErrInvalidPayloadSize, length)
	}
	payload := data[HeaderLength:]
	record := &MoveRecord{}
	record.Move.Type = mines.MoveType(payload[0])
	record.Move.Row = bytesToInt(payload[1:5])
	record.Move.Col = bytesToInt(payload[5:9])
	record.Strategy = Strategy(payload[9])
	return record, nil
}

func encodeCellUpdate(cell mines.UpdatedCell) []byte {
	data := make([]byte, UpdateCellByteLength)
	copy(data[0:4], intToBytes(cell.Row))
	copy(data[4:8], intToBytes(cell.Col))
	data[8] = cell.Value
	return data
}

func EncodeCellUpdates(cells []mines.UpdatedCell) ([]byte, error) {
	var buf bytes.Buffer
	payloadLength := len(cells) * UpdateCellByteLength
	if err := writeHeader(&buf, CellUpdate, payloadLength); err != nil {
		return nil, err
	}
	for _, cell := range cells {
		buf.Write(encodeCellUpdate(cell))
	}
	if payloadLength+HeaderLength != buf.Len() {
		return nil, fmt.Errorf("Incorrect payload length while encoding cell updates")
	}
	return buf.Bytes(), nil
}

func decodeCellUpdate(data []byte) (*mines.UpdatedCell, error) {
	if len(data) != UpdateCellByteLength {
		return nil, fmt.Errorf("incorrect byte length to decode cell update (%d)", len(data))
	}
	cell := &mines.UpdatedCell{
		Row:   bytesToInt(data[0:4]),
		Col:   bytesToInt(data[4:8]),
		Value: data[8]}
	return cell, nil
}

func DecodeCellUpdates(data []byte) ([]mines.UpdatedCell, error) {
	payloadLength, err := checkAndDecodeLength(data, CellUpdate)
	if err != nil {
		return nil, err
	}
	payload := data[HeaderLength:]
	if payloadLength%UpdateCellByteLength != 0 {
		return nil, fmt.Errorf("%w: update cells payload length mismatch %d", ErrInvalidPayloadSize, payloadLength)
	}
	cells := make([]mines.UpdatedCell, payloadLength/UpdateCellByteLength)
	for i := range payloadLength / UpdateCellByteLength {
		cell, err := decodeCellUpdate(payload[i*UpdateCellByteLength : (i+1)*UpdateCellByteLength])
		if err != nil {
			return nil, err
		}
		cells[i] = *cell
	}
	return cells, nil
}

func EncodeGameStart(info GameStartInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeHeader(&buf, StartGame, GameStartByteLength); err != nil {
		return nil, err
	}
	payload := make([]byte, GameStartByteLength)
	copy(payload[0:4], intToBytes(info.Params.Width))
	copy(payload[4:8], intToBytes(info.Params.Height))
	copy(payload[8:12], intToBytes(info.Params.Mines))
	binary.BigEndian.PutUint64(payload[12:20], uint64(info.Seed))
	buf.Write(payload)
	return buf.Bytes(), nil
}

func DecodeGameStart(data []byte) (*GameStartInfo, error) {
	payloadLength, err := checkAndDecodeLength(data, StartGame)
	if err != nil {
		return nil, err
	}
	if payloadLength != GameStartByteLength {
		return nil, fmt.Errorf("%w: game start payload is %d bytes", ErrInvalidPayloadSize, payloadLength)
	}
	payload := data[HeaderLength:]
	info := &GameStartInfo{
		Params: mines.GameParams{
			Width:  bytesToInt(payload[0:4]),
			Height: bytesToInt(payload[4:8]),
			Mines:  bytesToInt(payload[8:12]),
		},
		Seed: int64(binary.BigEndian.Uint64(payload[12:20])),
	}
	return info, nil
}
