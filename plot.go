package main

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DEFAULT_PLOT_WIDTH  = 1200
	DEFAULT_PLOT_HEIGHT = 800

	pointAlpha = 179 // 0.7

	// legendWidth is the right margin reserved for the position legend.
	legendWidth = 80
	// labelHeadroom widens the X range on the right so names of the
	// rightmost players stay inside the axes.
	labelHeadroom = 0.08
)

var positionColors = map[Position]drawing.Color{
	GKP: drawing.ColorFromHex("0000ff"), // blue
	DEF: drawing.ColorFromHex("008000"), // green
	MID: drawing.ColorFromHex("ffa500"), // orange
	FWD: drawing.ColorFromHex("ff0000"), // red
}

// labelBox is white with zero alpha. go-chart treats the all-zero color as
// unset and would substitute its default fill.
var labelBox = drawing.Color{R: 255, G: 255, B: 255, A: 0}

type Point struct {
	X     float64
	Y     float64
	Label string
}

type PlotSeries struct {
	Position Position
	Color    drawing.Color
	Points   []Point
}

// Figure is a scatter plot ready to draw: one series per position present in
// the selection.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
	Series []PlotSeries
}

// BuildFigure lays out the visible records of t for sel. Records with an
// empty X or Y cell are left out.
func BuildFigure(t *Table, sel Selection, width, height int) (Figure, error) {
	if err := sel.Validate(t); err != nil {
		return Figure{}, err
	}

	byPosition := make(map[Position][]Point)
	for _, r := range sel.Visible(t) {
		x, okX := t.Number(r, sel.X)
		y, okY := t.Number(r, sel.Y)
		if !okX || !okY {
			continue
		}
		byPosition[r.Position] = append(byPosition[r.Position], Point{X: x, Y: y, Label: r.WebName})
	}

	fig := Figure{
		Title:  fmt.Sprintf("%s vs %s", sel.Y, sel.X),
		XLabel: sel.X,
		YLabel: sel.Y,
		Width:  width,
		Height: height,
	}
	for _, p := range AllPositions {
		points, ok := byPosition[p]
		if !ok {
			continue
		}
		fig.Series = append(fig.Series, PlotSeries{Position: p, Color: positionColors[p], Points: points})
	}

	if fig.PointCount() == 0 {
		return fig, ErrNoPoints
	}
	return fig, nil
}

func (f Figure) PointCount() int {
	n := 0
	for _, s := range f.Series {
		n += len(s.Points)
	}
	return n
}

// Legend lists the positions drawn, in pitch order.
func (f Figure) Legend() []Position {
	out := make([]Position, 0, len(f.Series))
	for _, s := range f.Series {
		out = append(out, s.Position)
	}
	return out
}

func (f Figure) Chart() chart.Chart {
	var series []chart.Series
	var labels []chart.Value2
	var xs, ys []float64

	for _, s := range f.Series {
		sx := make([]float64, len(s.Points))
		sy := make([]float64, len(s.Points))
		for i, p := range s.Points {
			sx[i], sy[i] = p.X, p.Y
			labels = append(labels, chart.Value2{XValue: p.X, YValue: p.Y, Label: p.Label})
		}
		xs = append(xs, sx...)
		ys = append(ys, sy...)

		series = append(series, chart.ContinuousSeries{
			Name:    string(s.Position),
			XValues: sx,
			YValues: sy,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				StrokeColor: s.Color,
				DotWidth:    4,
				DotColor:    s.Color.WithAlpha(pointAlpha),
			},
		})
	}

	series = append(series, chart.AnnotationSeries{
		Annotations: labels,
		Style: chart.Style{
			FontSize:    8,
			FontColor:   drawing.ColorBlack.WithAlpha(pointAlpha),
			FillColor:   labelBox,
			StrokeColor: labelBox,
		},
	})

	grid := chart.Style{StrokeColor: drawing.ColorFromHex("e0e0e0"), StrokeWidth: 1}
	xRange := paddedRange(xs)
	xRange.Max += (xRange.Max - xRange.Min) * labelHeadroom

	ch := chart.Chart{
		Title:  f.Title,
		Width:  f.Width,
		Height: f.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: legendWidth, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           f.XLabel,
			Range:          xRange,
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           f.YLabel,
			Range:          paddedRange(ys),
			GridMajorStyle: grid,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{f.drawLegend}
	return ch
}

// drawLegend draws a dot and code per position in the right margin, outside the
// axes.
func (f Figure) drawLegend(r chart.Renderer, cb chart.Box, defaults chart.Style) {
	style := chart.Style{FontSize: 10, FontColor: chart.DefaultTextColor}.InheritFrom(defaults)
	style.GetTextOptions().WriteToRenderer(r)

	x := f.Width - legendWidth + 16
	y := cb.Top + 8
	for _, s := range f.Series {
		r.SetFillColor(s.Color)
		r.SetStrokeColor(s.Color)
		r.SetStrokeWidth(1)
		r.Circle(4, x, y)
		r.FillStroke()

		r.Text(string(s.Position), x+10, y+4)
		y += 18
	}
}

// Render draws the figure as a PNG.
func (f Figure) Render(w io.Writer) error {
	if f.PointCount() == 0 {
		return ErrNoPoints
	}
	ch := f.Chart()
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", f.Title, err)
	}
	return nil
}

// paddedRange spans vals with 5% headroom each side. go-chart rejects a zero
// width range, so a single distinct value gets ±1.
func paddedRange(vals []float64) *chart.ContinuousRange {
	if len(vals) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
