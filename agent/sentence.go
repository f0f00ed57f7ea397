package agent

import "fmt"

// Sentence states that exactly Count of the cells are mines.
type Sentence struct {
	cells CellSet
	count int
}

func NewSentence(cells CellSet, count int) *Sentence {
	return &Sentence{cells: cells.Copy(), count: count}
}

func (s *Sentence) Cells() CellSet {
	return s.cells.Copy()
}

func (s *Sentence) Count() int {
	return s.count
}

func (s *Sentence) IsEmpty() bool {
	return s.cells.Len() == 0
}

// IsConsistent reports whether 0 <= count <= |cells|.
func (s *Sentence) IsConsistent() bool {
	return s.count >= 0 && s.count <= s.cells.Len()
}

func (s *Sentence) Equals(other *Sentence) bool {
	return s.count == other.count && s.cells.Equals(other.cells)
}

// KnownMines returns the cells if all of them must be mines, nil otherwise.
func (s *Sentence) KnownMines() CellSet {
	if s.IsEmpty() || s.count != s.cells.Len() {
		return nil
	}
	return s.cells.Copy()
}

// KnownSafe returns the cells if none of them can be a mine, nil otherwise.
func (s *Sentence) KnownSafe() CellSet {
	if s.IsEmpty() || s.count != 0 {
		return nil
	}
	return s.cells.Copy()
}

func (s *Sentence) MarkMine(c Cell) {
	if !s.cells.Contains(c) {
		return
	}
	s.cells.Del(c)
	s.count--
}

func (s *Sentence) MarkSafe(c Cell) {
	s.cells.Del(c)
}

func (s *Sentence) String() string {
	return fmt.Sprintf("%v = %d", s.cells, s.count)
}
