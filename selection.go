package main

import (
	"fmt"
	"net/url"
)

const (
	DEFAULT_X   = "Now cost"
	DEFAULT_Y   = "Total points"
	COLOR_FIELD = "Position"
)

// Selection is the dashboard state: axes, the fixed color dimension, the
// unused size dimension and the chosen positions.
type Selection struct {
	X         string
	Y         string
	Color     string
	Size      string
	Positions []Position
}

func NewSelection(x, y string) Selection {
	if x == "" {
		x = DEFAULT_X
	}
	if y == "" {
		y = DEFAULT_Y
	}
	return Selection{
		X:         x,
		Y:         y,
		Color:     COLOR_FIELD,
		Positions: append([]Position(nil), AllPositions...),
	}
}

// ParseSelection reads x, y and pos from a query. Without filtered=1 a
// missing pos list means every position; with it the list is taken as given,
// so an empty list selects nothing.
func ParseSelection(q url.Values, defaults Selection) (Selection, error) {
	sel := defaults
	if x := q.Get("x"); x != "" {
		sel.X = x
	}
	if y := q.Get("y"); y != "" {
		sel.Y = y
	}

	raw := q["pos"]
	if len(raw) == 0 && q.Get("filtered") == "" {
		return sel, nil
	}

	positions := make([]Position, 0, len(raw))
	for _, s := range raw {
		p, err := ParsePosition(s)
		if err != nil {
			return Selection{}, err
		}
		positions = append(positions, p)
	}
	sel.Positions = sortPositions(positions)
	return sel, nil
}

// Query encodes the selection so ParseSelection reads it back.
func (s Selection) Query() url.Values {
	q := url.Values{}
	q.Set("x", s.X)
	q.Set("y", s.Y)
	q.Set("filtered", "1")
	for _, p := range s.Positions {
		q.Add("pos", string(p))
	}
	return q
}

// Validate checks both axes name numeric columns of t.
func (s Selection) Validate(t *Table) error {
	for _, name := range []string{s.X, s.Y} {
		col, ok := t.Column(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		if col.Kind != KindNumber {
			return fmt.Errorf("%w: %q", ErrNotNumeric, name)
		}
	}
	return nil
}

func (s Selection) Includes(p Position) bool {
	for _, sp := range s.Positions {
		if sp == p {
			return true
		}
	}
	return false
}

// Visible returns the records of t whose position is selected, in table
// order.
func (s Selection) Visible(t *Table) []Record {
	var out []Record
	for _, r := range t.Records {
		if s.Includes(r.Position) {
			out = append(out, r)
		}
	}
	return out
}
