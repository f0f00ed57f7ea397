package mines

import (
	"fmt"
	"math/rand"
)

type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool
	Row      int
	Col      int
}

type Position struct {
	Row int
	Col int
}

type Board struct {
	Height        int
	Width         int
	Mines         int
	Cells         [][]*Cell
	RevealedCells int
}

type MoveType byte

const (
	Reveal MoveType = 0x01
	Flag   MoveType = 0x02
)

type Move struct {
	Row  int
	Col  int
	Type MoveType
}

type GameParams struct {
	Width  int
	Height int
	Mines  int
}

func (move Move) String() string {
	msg := fmt.Sprintf("(%d, %d) ", move.Row, move.Col)
	switch move.Type {
	case Reveal:
		return msg + "Reveal"
	case Flag:
		return msg + "Flag"
	default:
		return msg + "UNKNOWN"
	}
}

type InvalidBoardParamsError struct {
	height int
	width  int
	mines  int
}

type InvalidMoveError struct {
	board *Board
	row   int
	col   int
}

type MoveResultType int

const (
	NoChange MoveResultType = iota
	MineBlown
	CellRevealed
	Flagged
	GameWon
)

type MoveResult struct {
	Result       MoveResultType
	UpdatedCells []*Cell
}

const (
	ShowCount byte = 0x00
	ShowMine  byte = 0x10
	ShowFlag  byte = 0x20
	Unflag    byte = 0x30
)

type UpdatedCell struct {
	Row   int
	Col   int
	Value byte
}

func (e InvalidMoveError) Error() string {
	return fmt.Sprintf("Move out of range - (%d, %d) - Board (%d, %d)", e.row, e.col, e.board.Height, e.board.Width)
}

func (e InvalidBoardParamsError) Error() string {
	switch {
	case e.width <= 0:
		return fmt.Sprintf("Cannot create a board with width: %d", e.width)
	case e.height <= 0:
		return fmt.Sprintf("Cannot create a board with height: %d", e.height)
	case e.width > MaxBoardSide || e.height > MaxBoardSide:
		return fmt.Sprintf("Board %dx%d exceeds the maximum side of %d", e.width, e.height, MaxBoardSide)
	case e.mines < 0:
		return fmt.Sprintf("Cannot create a board with negative amount of mines: %d", e.mines)
	case e.mines > e.width*e.height:
		return fmt.Sprintf("Not enough space for %d mines. (%d > %d * %d)", e.mines, e.mines, e.width, e.height)
	default:
		return "Cannot construct board: unknown error"
	}
}

// MaxBoardSide bounds both board dimensions.
const MaxBoardSide = 256

func ValidateParams(params GameParams) error {
	if params.Width <= 0 || params.Height <= 0 || params.Width > MaxBoardSide || params.Height > MaxBoardSide ||
		params.Mines < 0 || params.Mines > params.Width*params.Height {
		return &InvalidBoardParamsError{params.Height, params.Width, params.Mines}
	}
	return nil
}

func CreateBoardFromParams(params GameParams, rng *rand.Rand) (*Board, error) {
	return CreateBoard(params.Width, params.Height, params.Mines, rng)
}

func emptyBoard(width, height, mines int) *Board {
	cells := make([][]*Cell, height)
	for r := range cells {
		cells[r] = make([]*Cell, width)
		for c := 0; c < width; c++ {
			cells[r][c] = &Cell{Row: r, Col: c}
		}
	}
	return &Board{Height: height, Width: width, Mines: mines, Cells: cells}
}

// CreateBoard places mines uniformly at random. A nil rng uses the global source.
func CreateBoard(width, height, mines int, rng *rand.Rand) (*Board, error) {
	if err := ValidateParams(GameParams{width, height, mines}); err != nil {
		return nil, err
	}
	board := emptyBoard(width, height, mines)
	positions := make([]int, width*height)
	for i := range positions {
		positions[i] = i
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})
	for _, position := range positions[:mines] {
		board.Cells[position/width][position%width].Mine = true
	}
	return board, nil
}

// CreateBoardWithMines builds a board with a fixed mine layout.
func CreateBoardWithMines(width, height int, mines ...Position) (*Board, error) {
	if err := ValidateParams(GameParams{width, height, len(mines)}); err != nil {
		return nil, err
	}
	board := emptyBoard(width, height, 0)
	for _, p := range mines {
		if !ValidCellIndex(board, p.Row, p.Col) {
			return nil, &InvalidMoveError{board, p.Row, p.Col}
		}
		if !board.Cells[p.Row][p.Col].Mine {
			board.Cells[p.Row][p.Col].Mine = true
			board.Mines++
		}
	}
	return board, nil
}

func Cascade(board *Board, cell *Cell, updatedCells []*Cell) []*Cell {
	cell.Revealed = true
	updatedCells = append(updatedCells, cell)

	if GetNumberOfMines(board, cell) != 0 {
		return updatedCells
	}
	for _, ncell := range GetNeighbouringCells(board, cell) {
		if !ncell.Revealed && !ncell.Flagged {
			updatedCells = Cascade(board, ncell, updatedCells)
		}
	}
	return updatedCells
}

func ValidCellIndex(board *Board, row, col int) bool {
	return !(row < 0 || row >= board.Height || col < 0 || col >= board.Width)
}

func (board *Board) Reveal(row, col int) (*MoveResult, error) {
	if !ValidCellIndex(board, row, col) {
		return nil, &InvalidMoveError{board, row, col}
	}
	var cell = board.Cells[row][col]
	if cell.Revealed || cell.Flagged {
		return &MoveResult{NoChange, nil}, nil
	}
	if cell.Mine {
		cell.Revealed = true
		return &MoveResult{MineBlown, []*Cell{cell}}, nil
	}
	var updatedCells = []*Cell{}
	updatedCells = Cascade(board, cell, updatedCells)
	board.RevealedCells += len(updatedCells)
	var result MoveResultType
	if board.RevealedCells+board.Mines == board.Width*board.Height {
		result = GameWon
	} else {
		result = CellRevealed
	}

	return &MoveResult{result, updatedCells}, nil
}

// GetNeighbouringCells returns the in-bounds cells around cell, excluding cell itself.
func GetNeighbouringCells(board *Board, cell *Cell) []*Cell {
	var cells []*Cell
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			row := cell.Row + dr
			col := cell.Col + dc
			if ValidCellIndex(board, row, col) {
				cells = append(cells, board.Cells[row][col])
			}
		}
	}
	return cells
}

func GetNumberOfMines(board *Board, cell *Cell) int {
	mines := 0
	for _, cell := range GetNeighbouringCells(board, cell) {
		if cell.Mine {
			mines++
		}
	}
	return mines
}

func (board *Board) IsMine(row, col int) bool {
	return ValidCellIndex(board, row, col) && board.Cells[row][col].Mine
}

func (board *Board) CountAdjacentMines(row, col int) int {
	if !ValidCellIndex(board, row, col) {
		return 0
	}
	return GetNumberOfMines(board, board.Cells[row][col])
}

func (board *Board) CellsInBounds() []Position {
	out := make([]Position, 0, board.Width*board.Height)
	for r := 0; r < board.Height; r++ {
		for c := 0; c < board.Width; c++ {
			out = append(out, Position{r, c})
		}
	}
	return out
}

func (board *Board) RemainingCells() int {
	remaining := 0
	for _, row := range board.Cells {
		for _, cell := range row {
			if !cell.Revealed {
				remaining++
			}
		}
	}
	return remaining
}

func (board *Board) Flag(row, col int) (*MoveResult, error) {
	if !ValidCellIndex(board, row, col) {
		return nil, &InvalidMoveError{board, row, col}
	}
	if board.Cells[row][col].Revealed {
		return &MoveResult{NoChange, nil}, nil
	}
	board.Cells[row][col].Flagged = !board.Cells[row][col].Flagged
	return &MoveResult{Flagged, []*Cell{board.Cells[row][col]}}, nil
}

func (board *Board) MakeMove(move Move) (*MoveResult, error) {
	switch move.Type {
	case Reveal:
		return board.Reveal(move.Row, move.Col)
	case Flag:
		return board.Flag(move.Row, move.Col)
	default:
		return nil, fmt.Errorf("Invalid move type %x", move.Type)
	}
}

// IsSolved reports whether the flagged cells are exactly the mines.
func (board *Board) IsSolved() bool {
	for _, row := range board.Cells {
		for _, cell := range row {
			if cell.Mine != cell.Flagged {
				return false
			}
		}
	}
	return true
}

func CreateUpdatedCells(board *Board, cells []*Cell) []UpdatedCell {
	updates := make([]UpdatedCell, len(cells))
	var value byte
	for i, cell := range cells {
		if cell.Revealed {
			if cell.Mine {
				value = ShowMine
			} else {
				value = byte(GetNumberOfMines(board, cell))
			}
		} else if cell.Flagged {
			value = ShowFlag
		} else {
			// Is not flagged nor revealed so it must be unflag
			value = Unflag
		}
		updates[i] = UpdatedCell{Row: cell.Row, Col: cell.Col, Value: value}
	}
	return updates
}

func (board *Board) CreateCellUpdates() []UpdatedCell {
	updatedCells := []*Cell{}
	for _, row := range board.Cells {
		for _, cell := range row {
			if cell.Revealed || cell.Flagged {
				updatedCells = append(updatedCells, cell)
			}
		}
	}
	return CreateUpdatedCells(board, updatedCells)
}
