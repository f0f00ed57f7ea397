package agent

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

func compareCells(a, b Cell) int {
	if n := cmp.Compare(a.Row, b.Row); n != 0 {
		return n
	}
	return cmp.Compare(a.Col, b.Col)
}

// CellSet is an unordered set of cells. The zero value is not usable, use NewCellSet.
type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

func (s CellSet) Del(c Cell) {
	delete(s, c)
}

func (s CellSet) Contains(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Len() int {
	return len(s)
}

func (s CellSet) Copy() CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		out.Add(c)
	}
	return out
}

func (s CellSet) Minus(other CellSet) CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		if !other.Contains(c) {
			out.Add(c)
		}
	}
	return out
}

func (s CellSet) Equals(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.IsSubsetOf(other)
}

func (s CellSet) IsSubsetOf(other CellSet) bool {
	for c := range s {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// IsStrictSubsetOf reports whether every member of s is in other and other has more members.
func (s CellSet) IsStrictSubsetOf(other CellSet) bool {
	return len(s) < len(other) && s.IsSubsetOf(other)
}

// Sorted returns the members ordered by row, then column.
func (s CellSet) Sorted() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCells)
	return out
}

func (s CellSet) String() string {
	parts := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		parts = append(parts, c.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
