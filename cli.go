package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

type selectionFlags struct {
	x         string
	y         string
	positions []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.x, "x", "x", "", "X-axis field (default from config)")
	cmd.Flags().StringVarP(&f.y, "y", "y", "", "Y-axis field (default from config)")
	cmd.Flags().StringSliceVarP(&f.positions, "pos", "p", nil, "positions to include, e.g. DEF,MID (default all)")
}

// selection resolves the flags against t. Field names are matched exactly
// (ignoring case) first, then fuzzily.
func (f *selectionFlags) selection(t *Table, cfg *Config) (Selection, error) {
	sel := NewSelection(cfg.Plot.X, cfg.Plot.Y)

	var err error
	if f.x != "" {
		if sel.X, err = resolveField(t, f.x); err != nil {
			return Selection{}, err
		}
	}
	if f.y != "" {
		if sel.Y, err = resolveField(t, f.y); err != nil {
			return Selection{}, err
		}
	}

	if len(f.positions) > 0 {
		positions := make([]Position, 0, len(f.positions))
		for _, s := range f.positions {
			p, err := ParsePosition(s)
			if err != nil {
				return Selection{}, err
			}
			positions = append(positions, p)
		}
		sel.Positions = sortPositions(positions)
	}

	return sel, sel.Validate(t)
}

func resolveField(t *Table, name string) (string, error) {
	fields := t.NumericColumns()
	for _, f := range fields {
		if strings.EqualFold(f, name) {
			return f, nil
		}
	}

	matches := fuzzy.Find(name, fields)
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return matches[0].Str, nil
}

func (a *app) plotCmd() *cobra.Command {
	var flags selectionFlags
	var out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render one scatter plot to a PNG file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.dataset().Table(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := flags.selection(t, a.cfg)
			if err != nil {
				return err
			}
			fig, err := BuildFigure(t, sel, a.cfg.Plot.Width, a.cfg.Plot.Height)
			if err != nil {
				return err
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := fig.Render(file); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %q (%d players) to %s\n", fig.Title, fig.PointCount(), out)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "fpl_plot.png", "output PNG path")
	return cmd
}

func (a *app) tableCmd() *cobra.Command {
	var flags selectionFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the selected players, highest Y first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.dataset().Table(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := flags.selection(t, a.cfg)
			if err != nil {
				return err
			}

			rows := sel.Visible(t)
			sort.SliceStable(rows, func(i, j int) bool {
				yi, _ := t.Number(rows[i], sel.Y)
				yj, _ := t.Number(rows[j], sel.Y)
				return yi > yj
			})
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"Web name", "Team name", COLOR_FIELD, sel.X, sel.Y})
			for _, r := range rows {
				x, _ := t.Cell(r, sel.X)
				y, _ := t.Cell(r, sel.Y)
				tw.AppendRow(table.Row{r.WebName, r.TeamName, r.Position, x.String(), y.String()})
			}
			tw.AppendFooter(table.Row{"", "", "", "Players", len(rows)})
			tw.SetStyle(table.StyleRounded)
			tw.Render()
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows to print, 0 for all")
	return cmd
}
