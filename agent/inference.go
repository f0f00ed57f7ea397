package agent

import (
	"fmt"
	"slices"

	"github.com/gammazero/deque"
)

const maxClue = 8

type mark struct {
	cell Cell
	mine bool
}

type InferenceStats struct {
	Passes           int
	CellsResolved    int
	SentencesDerived int
	SentencesDropped int
}

func (s *InferenceStats) add(other InferenceStats) {
	s.Passes += other.Passes
	s.CellsResolved += other.CellsResolved
	s.SentencesDerived += other.SentencesDerived
	s.SentencesDropped += other.SentencesDropped
}

// Engine derives new facts from the sentences of a knowledge base it does not own.
type Engine struct {
	kb      *KnowledgeBase
	pending deque.Deque[mark]
}

func NewEngine(kb *KnowledgeBase) *Engine {
	return &Engine{kb: kb}
}

// AddClue turns the clue revealed at c into a sentence over c's unknown neighbours.
// Neighbours already known to be mines are taken out of the count.
func (e *Engine) AddClue(c Cell, count int) error {
	if count < 0 || count > maxClue {
		return fmt.Errorf("%w: count %d at %v", ErrInvalidClue, count, c)
	}
	unknown := NewCellSet()
	remaining := count
	for _, n := range e.kb.Neighbours(c) {
		switch {
		case e.kb.IsSafe(n):
		case e.kb.IsMine(n):
			remaining--
		default:
			unknown.Add(n)
		}
	}
	if remaining < 0 || remaining > unknown.Len() {
		return fmt.Errorf("%w: %v reports %d mines but %d are known and %d unknown",
			ErrInvalidClue, c, count, count-remaining, unknown.Len())
	}
	e.kb.Add(NewSentence(unknown, remaining))
	return nil
}

// Run resolves sentences until no pass marks a cell or derives a sentence.
func (e *Engine) Run() (InferenceStats, error) {
	var stats InferenceStats
	for {
		stats.Passes++
		resolved, err := e.resolveKnown()
		stats.CellsResolved += resolved
		if err != nil {
			return stats, err
		}
		derived, dropped := e.resolveSubsets()
		stats.SentencesDerived += derived
		stats.SentencesDropped += dropped
		if resolved == 0 && derived == 0 {
			return stats, nil
		}
	}
}

func (e *Engine) resolveKnown() (int, error) {
	for _, s := range e.kb.sentences {
		for _, c := range s.KnownSafe().Sorted() {
			e.pending.PushBack(mark{cell: c})
		}
		for _, c := range s.KnownMines().Sorted() {
			e.pending.PushBack(mark{cell: c, mine: true})
		}
	}
	resolved := 0
	for e.pending.Len() > 0 {
		m := e.pending.PopFront()
		if e.kb.IsKnown(m.cell) && e.kb.IsMine(m.cell) == m.mine {
			continue
		}
		var err error
		if m.mine {
			err = e.kb.MarkMine(m.cell)
		} else {
			err = e.kb.MarkSafe(m.cell)
		}
		if err != nil {
			e.pending.Clear()
			e.kb.prune()
			return resolved, err
		}
		resolved++
	}
	e.kb.prune()
	return resolved, nil
}

// resolveSubsets derives B-A for every pair where A is a strict subset of B.
func (e *Engine) resolveSubsets() (derived, dropped int) {
	snapshot := slices.Clone(e.kb.sentences)
	for _, a := range snapshot {
		if a.IsEmpty() {
			continue
		}
		for _, b := range snapshot {
			if a == b || !a.cells.IsStrictSubsetOf(b.cells) {
				continue
			}
			d := &Sentence{cells: b.cells.Minus(a.cells), count: b.count - a.count}
			if !d.IsConsistent() {
				dropped++
				continue
			}
			if e.kb.Add(d) {
				derived++
			}
		}
	}
	return derived, dropped
}
