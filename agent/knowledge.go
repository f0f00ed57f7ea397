package agent

import (
	"errors"
	"fmt"
)

var ErrInvalidClue = errors.New("invalid clue")

type ContradictionError struct {
	Cell Cell
	Mine bool
}

func (e *ContradictionError) Error() string {
	if e.Mine {
		return fmt.Sprintf("Cannot mark %v as mine: it is known to be safe", e.Cell)
	}
	return fmt.Sprintf("Cannot mark %v as safe: it is known to be a mine", e.Cell)
}

// KnowledgeBase holds everything the agent knows about one board.
// Cell status only changes through MarkMine and MarkSafe.
type KnowledgeBase struct {
	height int
	width  int

	movesMade CellSet
	mines     CellSet
	safes     CellSet
	sentences []*Sentence
}

func NewKnowledgeBase(height, width int) *KnowledgeBase {
	return &KnowledgeBase{
		height:    height,
		width:     width,
		movesMade: NewCellSet(),
		mines:     NewCellSet(),
		safes:     NewCellSet(),
	}
}

func (kb *KnowledgeBase) Height() int {
	return kb.height
}

func (kb *KnowledgeBase) Width() int {
	return kb.width
}

func (kb *KnowledgeBase) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < kb.height && c.Col >= 0 && c.Col < kb.width
}

// Neighbours returns the in-bounds cells around c, excluding c.
func (kb *KnowledgeBase) Neighbours(c Cell) []Cell {
	var out []Cell
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{c.Row + dr, c.Col + dc}
			if kb.InBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

func (kb *KnowledgeBase) IsKnown(c Cell) bool {
	return kb.mines.Contains(c) || kb.safes.Contains(c)
}

func (kb *KnowledgeBase) IsMine(c Cell) bool {
	return kb.mines.Contains(c)
}

func (kb *KnowledgeBase) IsSafe(c Cell) bool {
	return kb.safes.Contains(c)
}

func (kb *KnowledgeBase) WasMoved(c Cell) bool {
	return kb.movesMade.Contains(c)
}

func (kb *KnowledgeBase) AddMove(c Cell) {
	kb.movesMade.Add(c)
}

// MarkMine records c as a mine and removes it from every sentence.
func (kb *KnowledgeBase) MarkMine(c Cell) error {
	if kb.mines.Contains(c) {
		return nil
	}
	if kb.safes.Contains(c) {
		return &ContradictionError{Cell: c, Mine: true}
	}
	for _, s := range kb.sentences {
		if s.cells.Contains(c) && s.count == 0 {
			return &ContradictionError{Cell: c, Mine: true}
		}
	}
	kb.mines.Add(c)
	for _, s := range kb.sentences {
		s.MarkMine(c)
	}
	return nil
}

// MarkSafe records c as safe and removes it from every sentence.
func (kb *KnowledgeBase) MarkSafe(c Cell) error {
	if kb.safes.Contains(c) {
		return nil
	}
	if kb.mines.Contains(c) {
		return &ContradictionError{Cell: c, Mine: false}
	}
	for _, s := range kb.sentences {
		if s.cells.Contains(c) && s.count == s.cells.Len() {
			return &ContradictionError{Cell: c, Mine: false}
		}
	}
	kb.safes.Add(c)
	for _, s := range kb.sentences {
		s.MarkSafe(c)
	}
	return nil
}

func (kb *KnowledgeBase) Contains(s *Sentence) bool {
	return containsSentence(kb.sentences, s)
}

// Add appends s unless it is empty or already held. It reports whether s was added.
func (kb *KnowledgeBase) Add(s *Sentence) bool {
	if s.IsEmpty() || kb.Contains(s) {
		return false
	}
	kb.sentences = append(kb.sentences, s)
	return true
}

// prune drops empty sentences and duplicates left behind by mark propagation.
func (kb *KnowledgeBase) prune() bool {
	kept := kb.sentences[:0]
	removed := false
	for _, s := range kb.sentences {
		if s.IsEmpty() || containsSentence(kept, s) {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(kb.sentences); i++ {
		kb.sentences[i] = nil
	}
	kb.sentences = kept
	return removed
}

func containsSentence(list []*Sentence, s *Sentence) bool {
	for _, held := range list {
		if held.Equals(s) {
			return true
		}
	}
	return false
}

func (kb *KnowledgeBase) Mines() CellSet {
	return kb.mines.Copy()
}

func (kb *KnowledgeBase) Safes() CellSet {
	return kb.safes.Copy()
}

func (kb *KnowledgeBase) MovesMade() CellSet {
	return kb.movesMade.Copy()
}

// Sentences returns copies of the held sentences in insertion order.
func (kb *KnowledgeBase) Sentences() []*Sentence {
	out := make([]*Sentence, len(kb.sentences))
	for i, s := range kb.sentences {
		out[i] = NewSentence(s.cells, s.count)
	}
	return out
}
