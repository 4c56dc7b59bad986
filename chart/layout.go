package chart

import (
	"math"
	"strings"

	"github.com/imdario/mergo"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
	minDimension  = 100
)

var DefaultMargins = Margins{Top: 28, Right: 20, Bottom: 38, Left: 52}

var defaultLegend = LegendOptions{Position: "top", FontSize: 12, FontFamily: "sans-serif"}

// Layout is the frozen geometry of one chart.
type Layout struct {
	Width, Height int
	Background    string
	Margin        Margins
	PlotWidth     float64
	PlotHeight    float64
	Legend        LegendLayout
}

type LegendLayout struct {
	Show       bool
	Position   string
	FontSize   float64
	FontFamily string
	// Reserved is the vertical band taken out of the plot for the legend.
	Reserved float64
}

// NewLayout normalizes the dimensions, applies margin defaults and folds the
// legend reservation into the top margin before the plot area is derived
// from the margins.
func NewLayout(dim Dimensions, legend *LegendOptions, seriesCount int) Layout {
	lay := Layout{
		Width:      dimension(dim.Width, defaultWidth),
		Height:     dimension(dim.Height, defaultHeight),
		Background: dim.Background,
		Margin:     DefaultMargins,
	}
	if dim.Margin != nil {
		lay.Margin = *dim.Margin
		mergeDefaults(&lay.Margin, DefaultMargins)
		lay.Margin.Top = math.Max(0, lay.Margin.Top)
		lay.Margin.Right = math.Max(0, lay.Margin.Right)
		lay.Margin.Bottom = math.Max(0, lay.Margin.Bottom)
		lay.Margin.Left = math.Max(0, lay.Margin.Left)
	}
	lay.Legend = legendLayout(legend, seriesCount)
	lay.Margin.Top += lay.Legend.Reserved

	lay.PlotWidth = math.Max(1, float64(lay.Width)-lay.Margin.Left-lay.Margin.Right)
	lay.PlotHeight = math.Max(1, float64(lay.Height)-lay.Margin.Top-lay.Margin.Bottom)
	return lay
}

// mergeDefaults fills the zero fields of dst, a pointer to a struct, from
// src of the same struct type. Anything else is a programming error.
func mergeDefaults(dst, src any) {
	if err := mergo.Merge(dst, src); err != nil {
		panic(err)
	}
}

func dimension(v float64, def int) int {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return max(int(math.Round(v)), minDimension)
}

func legendLayout(opts *LegendOptions, seriesCount int) LegendLayout {
	o := LegendOptions{}
	if opts != nil {
		o = *opts
	}
	mergeDefaults(&o, defaultLegend)
	l := LegendLayout{
		Show:       seriesCount > 1,
		Position:   "top",
		FontSize:   o.FontSize,
		FontFamily: o.FontFamily,
	}
	if o.Show != nil {
		l.Show = *o.Show
	}
	if strings.EqualFold(strings.TrimSpace(o.Position), "bottom") {
		l.Position = "bottom"
	}
	if l.Show {
		l.Reserved = l.FontSize + 10
		if l.Position == "bottom" {
			l.Reserved += 6
		}
	}
	return l
}

var (
	defaultAxisStyle = AxisStyle{Stroke: "#9ca3af", TickColor: "#374151", FontFamily: "sans-serif", FontSize: 11}
	gridOn, gridOff  = true, false
	defaultGrid      = GridOptions{X: &gridOff, Y: &gridOn, Color: "#e5e7eb", Opacity: 1}
)

const defaultValueTicks = 5

func timeAxisDefaults(in *TimeAxisOptions) TimeAxisOptions {
	o := TimeAxisOptions{}
	if in != nil {
		o = *in
	}
	mergeDefaults(&o.AxisStyle, defaultAxisStyle)
	return o
}

func valueAxisDefaults(in *ValueAxisOptions) ValueAxisOptions {
	o := ValueAxisOptions{}
	if in != nil {
		o = *in
	}
	mergeDefaults(&o.AxisStyle, defaultAxisStyle)
	if o.Ticks <= 0 {
		o.Ticks = defaultValueTicks
	}
	return o
}

func (o ValueAxisOptions) nice() bool {
	return o.Nice == nil || *o.Nice
}

// domain returns the caller's finite [low, high] override, if any.
func (o ValueAxisOptions) domain() (float64, float64, bool) {
	if len(o.Domain) != 2 {
		return 0, 0, false
	}
	lo, hi := o.Domain[0], o.Domain[1]
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 0, false
	}
	return lo, hi, true
}

func gridDefaults(in *GridOptions) GridOptions {
	g := GridOptions{}
	if in != nil {
		g = *in
	}
	mergeDefaults(&g, defaultGrid)
	return g
}
