package board

import "errors"

// Size is the board edge length.
const Size = 8

// Cell is the content of one square.
type Cell uint8

const (
	Empty Cell = iota
	Light
	Dark
)

func (c Cell) String() string {
	switch c {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return "empty"
	}
}

// Opponent returns the other piece colour. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case Light:
		return Dark
	case Dark:
		return Light
	default:
		return Empty
	}
}

// Board is row-major: Board[row][col], row 0 is the top row ("1"), col 0 is "a".
type Board [Size][Size]Cell

// State is a board plus the colour that moves next.
type State struct {
	Board Board
	Next  Cell
}

var ErrBoardIntegrity = errors.New("invalid board")

// Initial returns the fixed starting position. Dark moves first.
func Initial() State {
	var s State
	s.Board[3][3] = Light
	s.Board[3][4] = Dark
	s.Board[4][3] = Dark
	s.Board[4][4] = Light
	s.Next = Dark
	return s
}

// Place puts the colour to move on m and hands the turn over.
// Occupied cells are overwritten and nothing is captured.
func (s *State) Place(m Move) {
	s.Board[m.Row][m.Col] = s.Next
	s.Next = s.Next.Opponent()
}
