package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cellA = Cell{0, 0}
	cellB = Cell{0, 1}
	cellC = Cell{0, 2}
)

func TestSentenceKnownMines(t *testing.T) {
	s := NewSentence(NewCellSet(cellA, cellB), 2)
	assert.True(t, s.KnownMines().Equals(NewCellSet(cellA, cellB)))
	assert.Nil(t, s.KnownSafe())

	s = NewSentence(NewCellSet(cellA, cellB), 1)
	assert.Nil(t, s.KnownMines())
	assert.Nil(t, s.KnownSafe())
}

func TestSentenceKnownSafe(t *testing.T) {
	s := NewSentence(NewCellSet(cellA, cellB, cellC), 0)
	assert.True(t, s.KnownSafe().Equals(NewCellSet(cellA, cellB, cellC)))
	assert.Nil(t, s.KnownMines())
}

func TestEmptySentenceCarriesNoInformation(t *testing.T) {
	s := NewSentence(NewCellSet(), 0)
	assert.True(t, s.IsEmpty())
	assert.Nil(t, s.KnownSafe())
	assert.Nil(t, s.KnownMines())
}

func TestSentenceMarkMine(t *testing.T) {
	s := NewSentence(NewCellSet(cellA, cellB, cellC), 2)
	s.MarkMine(cellB)
	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Cells().Equals(NewCellSet(cellA, cellC)))

	s.MarkMine(Cell{5, 5})
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 2, s.Cells().Len())
}

func TestSentenceMarkSafe(t *testing.T) {
	s := NewSentence(NewCellSet(cellA, cellB, cellC), 2)
	s.MarkSafe(cellA)
	assert.Equal(t, 2, s.Count())
	require.NotNil(t, s.KnownMines())
	assert.True(t, s.KnownMines().Equals(NewCellSet(cellB, cellC)))
}

func TestSentenceCopiesCells(t *testing.T) {
	cells := NewCellSet(cellA, cellB)
	s := NewSentence(cells, 1)
	cells.Add(cellC)
	assert.Equal(t, 2, s.Cells().Len())

	s.Cells().Del(cellA)
	assert.Equal(t, 2, s.Cells().Len())
}

func TestSentenceEquals(t *testing.T) {
	s := NewSentence(NewCellSet(cellA, cellB), 1)
	assert.True(t, s.Equals(NewSentence(NewCellSet(cellB, cellA), 1)))
	assert.False(t, s.Equals(NewSentence(NewCellSet(cellA, cellB), 2)))
	assert.False(t, s.Equals(NewSentence(NewCellSet(cellA, cellC), 1)))
}

func TestCellSetSubsets(t *testing.T) {
	ab := NewCellSet(cellA, cellB)
	abc := NewCellSet(cellA, cellB, cellC)
	assert.True(t, ab.IsStrictSubsetOf(abc))
	assert.False(t, abc.IsStrictSubsetOf(ab))
	assert.False(t, ab.IsStrictSubsetOf(ab.Copy()))
	assert.True(t, abc.Minus(ab).Equals(NewCellSet(cellC)))
	assert.Equal(t, []Cell{cellA, cellB, cellC}, NewCellSet(cellC, cellA, cellB).Sorted())
}
