package board

import "regexp"

var moveRe = regexp.MustCompile(`([a-h])([1-8])`)

// Move addresses a cell by 0-based column and row.
type Move struct {
	Col int
	Row int
}

// String renders the move the way players type it, e.g. "d3".
func (m Move) String() string {
	return string(rune('a'+m.Col)) + string(rune('1'+m.Row))
}

// ParseMove returns the first "<letter a-h><digit 1-8>" pair found anywhere in text.
func ParseMove(text string) (Move, bool) {
	sub := moveRe.FindStringSubmatch(text)
	if sub == nil {
		return Move{}, false
	}
	return Move{
		Col: int(sub[1][0] - 'a'),
		Row: int(sub[2][0] - '1'),
	}, true
}
