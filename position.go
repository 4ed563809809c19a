package main

import (
	"fmt"
	"strings"
)

// Position is a player's position code.
type Position string

const (
	GKP Position = "GKP"
	DEF Position = "DEF"
	MID Position = "MID"
	FWD Position = "FWD"
)

// AllPositions in pitch order, back to front.
var AllPositions = []Position{GKP, DEF, MID, FWD}

func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllPositions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// sortPositions returns the distinct positions in ps in pitch order.
func sortPositions(ps []Position) []Position {
	seen := make(map[Position]bool, len(ps))
	for _, p := range ps {
		seen[p] = true
	}
	out := make([]Position, 0, len(seen))
	for _, p := range AllPositions {
		if seen[p] {
			out = append(out, p)
		}
	}
	return out
}
