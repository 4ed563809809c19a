package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	DEFAULT_MIN_MINUTES = 300

	srcTeam        = "team"
	srcElementType = "element_type"
	srcTeamName    = "team_name"
	srcPosition    = "position"
	srcWebName     = "web_name"
	srcMinutes     = "minutes"
)

type Column struct {
	Name   string
	Source string
	Kind   Kind
}

// Cell is one typed value. Invalid cells hold no value (null in the payload
// or a value that did not fit the column kind).
type Cell struct {
	Kind  Kind
	Num   float64
	Text  string
	Bool  bool
	Valid bool
}

func (c Cell) String() string {
	switch {
	case !c.Valid:
		return ""
	case c.Kind == KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return c.Text
	}
}

// Record is one player row. cells line up with Table.Columns.
type Record struct {
	WebName  string
	TeamName string
	Position Position
	cells    []Cell
}

// Issue reports a row that was dropped or a value that was blanked while
// building the table.
type Issue struct {
	Player string
	Column string
	Value  string
	Reason string
}

func (i Issue) String() string {
	if i.Column == "" {
		return fmt.Sprintf("%s: %s", i.Player, i.Reason)
	}
	return fmt.Sprintf("%s: %s=%q: %s", i.Player, i.Column, i.Value, i.Reason)
}

// Table is the read-only player table. Selections derive subsets from it and
// never modify it.
type Table struct {
	Columns []Column
	Records []Record
	Issues  []Issue

	index map[string]int
}

type BuildOptions struct {
	MinMinutes float64
}

// BuildTable joins players to teams and position types, applies the schema's
// drop list, labels and kinds, then keeps players with at least
// opts.MinMinutes minutes played.
func BuildTable(b *Bootstrap, schema *Schema, opts BuildOptions) *Table {
	t := &Table{index: make(map[string]int)}

	teams := lookup(b.Teams, "name")
	positions := lookup(b.ElementTypes, "singular_name_short")

	rows := make([]RawRow, 0, len(b.Elements))
	for _, el := range b.Elements {
		player := textOf(el[srcWebName])

		team, ok := teams[keyOf(el[srcTeam])]
		if !ok {
			t.Issues = append(t.Issues, Issue{Player: player, Column: srcTeam, Value: textOf(el[srcTeam]), Reason: "no team with this id"})
			continue
		}
		code, ok := positions[keyOf(el[srcElementType])]
		if !ok {
			t.Issues = append(t.Issues, Issue{Player: player, Column: srcElementType, Value: textOf(el[srcElementType]), Reason: "no position type with this id"})
			continue
		}
		if _, err := ParsePosition(code); err != nil {
			t.Issues = append(t.Issues, Issue{Player: player, Column: srcPosition, Value: code, Reason: "not a player position"})
			continue
		}

		row := make(RawRow, len(el)+2)
		for k, v := range el {
			row[k] = v
		}
		row[srcTeamName] = team
		row[srcPosition] = code
		rows = append(rows, row)
	}

	t.Columns = columnsFor(rows, schema)
	for i, c := range t.Columns {
		t.index[c.Name] = i
	}

	minutesCol, hasMinutes := t.columnBySource(srcMinutes)
	if !hasMinutes {
		return t
	}
	for _, row := range rows {
		// Filter first so players left out never report issues.
		if m, err := coerce(row[srcMinutes], t.Columns[minutesCol].Kind); err != nil || !m.Valid || m.Num < opts.MinMinutes {
			continue
		}

		player := textOf(row[srcWebName])
		cells := make([]Cell, len(t.Columns))
		for i, c := range t.Columns {
			cell, err := coerce(row[c.Source], c.Kind)
			if err != nil {
				t.Issues = append(t.Issues, Issue{Player: player, Column: c.Name, Value: textOf(row[c.Source]), Reason: err.Error()})
			}
			cells[i] = cell
		}

		pos, _ := ParsePosition(textOf(row[srcPosition]))
		t.Records = append(t.Records, Record{
			WebName:  player,
			TeamName: textOf(row[srcTeamName]),
			Position: pos,
			cells:    cells,
		})
	}
	return t
}

// columnsFor lists the surviving columns: declared ones in schema order, then
// the rest sorted by source key.
func columnsFor(rows []RawRow, schema *Schema) []Column {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			if !schema.Dropped(k) {
				present[k] = true
			}
		}
	}

	var cols []Column
	seen := make(map[string]bool)
	add := func(c Column) {
		if seen[c.Name] {
			return
		}
		seen[c.Name] = true
		cols = append(cols, c)
	}

	for _, spec := range schema.Columns {
		if present[spec.Source] {
			add(Column{Name: schema.Label(spec.Source), Source: spec.Source, Kind: spec.Kind})
			delete(present, spec.Source)
		}
	}

	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		add(Column{Name: schema.Label(k), Source: k, Kind: inferKind(rows, k)})
	}
	return cols
}

func (t *Table) columnBySource(source string) (int, bool) {
	for i, c := range t.Columns {
		if c.Source == source {
			return i, true
		}
	}
	return 0, false
}

func (t *Table) Len() int {
	return len(t.Records)
}

func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Columns[i], true
}

func (t *Table) Cell(r Record, name string) (Cell, bool) {
	i, ok := t.index[name]
	if !ok || i >= len(r.cells) {
		return Cell{}, false
	}
	return r.cells[i], true
}

// Number returns the numeric value of name for r, false if the column is not
// numeric or the cell is empty.
func (t *Table) Number(r Record, name string) (float64, bool) {
	col, ok := t.Column(name)
	if !ok || col.Kind != KindNumber {
		return 0, false
	}
	c, _ := t.Cell(r, name)
	return c.Num, c.Valid
}

// NumericColumns returns the names of the numeric columns, sorted.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.Columns {
		if c.Kind == KindNumber {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Positions returns the positions present in the table in pitch order.
func (t *Table) Positions() []Position {
	ps := make([]Position, 0, len(t.Records))
	for _, r := range t.Records {
		ps = append(ps, r.Position)
	}
	return sortPositions(ps)
}

func lookup(rows []RawRow, field string) map[string]string {
	m := make(map[string]string, len(rows))
	for _, row := range rows {
		m[keyOf(row["id"])] = textOf(row[field])
	}
	return m
}

// keyOf normalizes a join id so 3, "3" and 3.0 meet.
func keyOf(v any) string {
	s := textOf(v)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func coerce(v any, kind Kind) (Cell, error) {
	if v == nil {
		return Cell{}, nil
	}

	switch kind {
	case KindNumber:
		f, ok, err := numberOf(v)
		if err != nil {
			return Cell{}, err
		}
		if !ok {
			return Cell{}, nil
		}
		return Cell{Kind: KindNumber, Num: f, Valid: true}, nil
	case KindBool:
		switch x := v.(type) {
		case bool:
			return Cell{Kind: KindBool, Bool: x, Text: strconv.FormatBool(x), Valid: true}, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return Cell{}, fmt.Errorf("not a boolean")
			}
			return Cell{Kind: KindBool, Bool: b, Text: strconv.FormatBool(b), Valid: true}, nil
		}
		return Cell{}, fmt.Errorf("not a boolean")
	default:
		return Cell{Kind: KindText, Text: textOf(v), Valid: true}, nil
	}
}

// numberOf reads a JSON number or numeric text. Empty text is a null, not an
// error.
func numberOf(v any) (float64, bool, error) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("not a number")
		}
		return f, true, nil
	case float64:
		return x, true, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("not a number")
		}
		return f, true, nil
	}
	return 0, false, fmt.Errorf("not a number")
}

// inferKind types an undeclared column: number when every non-null value is
// numeric, bool when every one is boolean, text otherwise.
func inferKind(rows []RawRow, key string) Kind {
	var numbers, bools, other int
	for _, row := range rows {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case bool:
			bools++
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				numbers++
			} else {
				other++
			}
		case json.Number, float64:
			numbers++
		default:
			other++
		}
	}

	switch {
	case other == 0 && bools == 0 && numbers > 0:
		return KindNumber
	case other == 0 && numbers == 0 && bools > 0:
		return KindBool
	default:
		return KindText
	}
}
