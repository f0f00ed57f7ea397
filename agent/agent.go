package agent

import (
	"math/rand"
	"time"
)

// Agent picks moves on a height x width board from the clues it is given.
// An Agent is not safe for concurrent use; run one per game.
type Agent struct {
	kb     *KnowledgeBase
	engine *Engine
	rng    *rand.Rand

	last  InferenceStats
	total InferenceStats
}

func New(height, width int, rng *rand.Rand) *Agent {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	kb := NewKnowledgeBase(height, width)
	return &Agent{kb: kb, engine: NewEngine(kb), rng: rng}
}

// RecordClueAndInfer records that c was opened safely and shows count,
// then runs inference to a fixed point. A contradictory clue is rejected
// after c is recorded; facts already known are never lost.
func (a *Agent) RecordClueAndInfer(c Cell, count int) error {
	a.kb.AddMove(c)
	if err := a.kb.MarkSafe(c); err != nil {
		return err
	}
	if err := a.engine.AddClue(c, count); err != nil {
		return err
	}
	stats, err := a.engine.Run()
	a.last = stats
	a.total.add(stats)
	return err
}

// ChooseSafeMove returns the lowest known-safe cell that has not been opened.
func (a *Agent) ChooseSafeMove() (Cell, bool) {
	for _, c := range a.kb.safes.Sorted() {
		if !a.kb.WasMoved(c) && !a.kb.IsMine(c) {
			return c, true
		}
	}
	return Cell{}, false
}

// ChooseRandomMove returns a uniformly chosen cell that is neither opened nor a known mine.
func (a *Agent) ChooseRandomMove() (Cell, bool) {
	var candidates []Cell
	for r := 0; r < a.kb.height; r++ {
		for c := 0; c < a.kb.width; c++ {
			cell := Cell{r, c}
			if !a.kb.WasMoved(cell) && !a.kb.IsMine(cell) {
				candidates = append(candidates, cell)
			}
		}
	}
	if len(candidates) == 0 {
		return Cell{}, false
	}
	return candidates[a.rng.Intn(len(candidates))], true
}

func (a *Agent) KnownMines() CellSet {
	return a.kb.Mines()
}

func (a *Agent) KnownSafe() CellSet {
	return a.kb.Safes()
}

func (a *Agent) MovesMade() CellSet {
	return a.kb.MovesMade()
}

func (a *Agent) Knowledge() []*Sentence {
	return a.kb.Sentences()
}

// LastStats describes the inference run of the most recent clue.
func (a *Agent) LastStats() InferenceStats {
	return a.last
}

func (a *Agent) TotalStats() InferenceStats {
	return a.total
}
