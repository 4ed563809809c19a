package main

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelection(t *testing.T) {
	sel := NewSelection("", "")

	assert.Equal(t, "Now cost", sel.X)
	assert.Equal(t, "Total points", sel.Y)
	assert.Equal(t, COLOR_FIELD, sel.Color)
	assert.Empty(t, sel.Size)
	assert.Equal(t, AllPositions, sel.Positions)

	// The default list is a copy.
	sel.Positions[0] = FWD
	assert.Equal(t, GKP, AllPositions[0])
}

func TestParseSelection(t *testing.T) {
	defaults := NewSelection("", "")

	tests := []struct {
		name    string
		query   string
		want    Selection
		wantErr error
	}{
		{
			name:  "empty query keeps defaults",
			query: "",
			want:  defaults,
		},
		{
			name:  "axes and positions",
			query: "x=Minutes&y=Form&pos=mid&pos=GKP&pos=MID",
			want:  Selection{X: "Minutes", Y: "Form", Color: COLOR_FIELD, Positions: []Position{GKP, MID}},
		},
		{
			name:  "filtered with no positions selects none",
			query: "filtered=1",
			want:  Selection{X: "Now cost", Y: "Total points", Color: COLOR_FIELD, Positions: []Position{}},
		},
		{
			name:    "unknown position",
			query:   "pos=GK",
			wantErr: ErrUnknownPosition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseSelection(q, defaults)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelection_QueryRoundTrip(t *testing.T) {
	sel := Selection{X: "Minutes", Y: "Form", Color: COLOR_FIELD, Positions: []Position{DEF, FWD}}

	got, err := ParseSelection(sel.Query(), NewSelection("", ""))
	require.NoError(t, err)
	assert.Equal(t, sel, got)

	none := Selection{X: "Minutes", Y: "Form", Color: COLOR_FIELD, Positions: []Position{}}
	got, err = ParseSelection(none.Query(), NewSelection("", ""))
	require.NoError(t, err)
	assert.Empty(t, got.Positions)
}

func TestSelection_Validate(t *testing.T) {
	tbl := mustTable(t, season)

	assert.NoError(t, NewSelection("", "").Validate(tbl))

	err := NewSelection("Price", "").Validate(tbl)
	assert.True(t, errors.Is(err, ErrUnknownField), err)

	err = NewSelection("", "Web name").Validate(tbl)
	assert.True(t, errors.Is(err, ErrNotNumeric), err)
}

// Every subset of positions returns exactly the rows in that subset.
func TestSelection_VisibleSoundAndComplete(t *testing.T) {
	tbl := mustTable(t, season)

	for mask := 0; mask < 1<<len(AllPositions); mask++ {
		var subset []Position
		for i, p := range AllPositions {
			if mask&(1<<i) != 0 {
				subset = append(subset, p)
			}
		}
		sel := NewSelection("", "")
		sel.Positions = subset

		visible := sel.Visible(tbl)
		seen := make(map[string]bool)
		for _, r := range visible {
			assert.Contains(t, subset, r.Position)
			seen[r.WebName] = true
		}
		for _, r := range tbl.Records {
			if sel.Includes(r.Position) {
				assert.True(t, seen[r.WebName], "%s missing for %v", r.WebName, subset)
			}
		}
	}
}

func TestSelection_VisibleLeavesTableAlone(t *testing.T) {
	tbl := mustTable(t, season)
	before := tbl.Len()

	sel := NewSelection("", "")
	sel.Positions = []Position{MID}
	require.Len(t, sel.Visible(tbl), 1)

	assert.Equal(t, before, tbl.Len())
}
