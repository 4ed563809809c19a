package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

//go:embed schema.toml
var schemaTOML []byte

// Kind is the value type of a table column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "text", "string":
		*k = KindText
	case "number", "numeric":
		*k = KindNumber
	case "bool", "boolean":
		*k = KindBool
	default:
		return fmt.Errorf("unknown column kind %q", b)
	}
	return nil
}

type ColumnSpec struct {
	Source string `toml:"source"`
	Kind   Kind   `toml:"kind"`
	Label  string `toml:"label"`
}

// Schema is the declarative column policy applied by BuildTable.
type Schema struct {
	Drop    []string     `toml:"drop"`
	Columns []ColumnSpec `toml:"column"`

	dropped  map[string]bool
	declared map[string]int
}

// DefaultSchema returns the schema embedded from schema.toml.
func DefaultSchema() *Schema {
	s, err := LoadSchema(schemaTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded schema.toml: %v", err))
	}
	return s
}

func LoadSchema(data []byte) (*Schema, error) {
	var s Schema
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	s.dropped = make(map[string]bool, len(s.Drop))
	for _, src := range s.Drop {
		s.dropped[src] = true
	}

	s.declared = make(map[string]int, len(s.Columns))
	for i, c := range s.Columns {
		if c.Source == "" {
			return nil, fmt.Errorf("schema column %d has no source", i)
		}
		if _, dup := s.declared[c.Source]; dup {
			return nil, fmt.Errorf("schema column %q declared twice", c.Source)
		}
		if s.dropped[c.Source] {
			return nil, fmt.Errorf("schema column %q is both declared and dropped", c.Source)
		}
		if c.Label != "" && Humanize(c.Label) != c.Label {
			return nil, fmt.Errorf("schema label %q is not a display name", c.Label)
		}
		s.declared[c.Source] = i
	}
	return &s, nil
}

func (s *Schema) Dropped(source string) bool {
	return s.dropped[source]
}

func (s *Schema) Spec(source string) (ColumnSpec, bool) {
	i, ok := s.declared[source]
	if !ok {
		return ColumnSpec{}, false
	}
	return s.Columns[i], true
}

func (s *Schema) Label(source string) string {
	if spec, ok := s.Spec(source); ok && spec.Label != "" {
		return spec.Label
	}
	return Humanize(source)
}

// Humanize turns a source key into a display name: underscores become
// spaces, the first letter is upper case and the rest lower case.
// Humanize(Humanize(s)) == Humanize(s).
func Humanize(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
