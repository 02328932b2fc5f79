package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Glyphs maps each cell state to the rune that renders it.
type Glyphs struct {
	Empty rune
	Light rune
	Dark  rune
}

var DefaultGlyphs = Glyphs{
	Empty: '🟩',
	Light: '⚪',
	Dark:  '⚫',
}

// columnHeader labels the columns with fullwidth letters so they never collide with a glyph.
const columnHeader = " ａ ｂ ｃ ｄ ｅ ｆ ｇ ｈ"

// Codec converts between State and the text body of a board message.
type Codec struct {
	glyphs Glyphs
	cells  map[rune]Cell
}

var DefaultCodec = MustCodec(DefaultGlyphs)

func NewCodec(g Glyphs) (*Codec, error) {
	if g.Empty == g.Light || g.Empty == g.Dark || g.Light == g.Dark {
		return nil, fmt.Errorf("board glyphs must be distinct: %q %q %q", g.Empty, g.Light, g.Dark)
	}
	return &Codec{
		glyphs: g,
		cells: map[rune]Cell{
			g.Empty: Empty,
			g.Light: Light,
			g.Dark:  Dark,
		},
	}, nil
}

func MustCodec(g Glyphs) *Codec {
	c, err := NewCodec(g)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec) glyph(cell Cell) rune {
	switch cell {
	case Light:
		return c.glyphs.Light
	case Dark:
		return c.glyphs.Dark
	default:
		return c.glyphs.Empty
	}
}

// Decode reads every glyph in document order, ignoring any other text.
// A board is 64 cells followed by the glyph of the colour to move.
func (c *Codec) Decode(text string) (State, error) {
	cells := make([]Cell, 0, Size*Size+1)
	for _, r := range text {
		if cell, ok := c.cells[r]; ok {
			cells = append(cells, cell)
		}
	}
	if len(cells) != Size*Size+1 {
		return State{}, fmt.Errorf("%w: found %d cells, want %d", ErrBoardIntegrity, len(cells), Size*Size+1)
	}

	var s State
	for i, cell := range cells[:Size*Size] {
		s.Board[i/Size][i%Size] = cell
	}
	s.Next = cells[Size*Size]
	if s.Next == Empty {
		return State{}, fmt.Errorf("%w: turn marker is an empty cell", ErrBoardIntegrity)
	}
	return s, nil
}

func (c *Codec) Encode(s State) string {
	var b strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			b.WriteRune(c.glyph(s.Board[row][col]))
		}
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(row + 1))
		b.WriteByte('\n')
	}
	b.WriteString(columnHeader)
	b.WriteString("\n\nNext: ")
	b.WriteRune(c.glyph(s.Next))
	return b.String()
}
