package chart

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// frame carries everything shared by the line and area renderers once the
// scales and ticks are settled.
type frame struct {
	lay     Layout
	x       Time
	y       Linear
	xTicks  []TimeTick
	yTicks  []float64
	xFormat string
	xAxis   TimeAxisOptions
	yAxis   ValueAxisOptions
	grid    GridOptions
	// xLabelY is the x axis label baseline, relative to the plot.
	xLabelY float64
}

func newFrame(req Request, lay Layout, t0, t1 int64, lo, hi float64, yAxis ValueAxisOptions) frame {
	xAxis := timeAxisDefaults(req.XAxis)
	// A bottom legend takes a band under the x axis label.
	var band float64
	if lay.Legend.Show && lay.Legend.Position == "bottom" && xAxis.Label != "" {
		band = lay.Legend.FontSize + 8
		lay.Margin.Bottom += band
		lay.PlotHeight = math.Max(1, lay.PlotHeight-band)
	}
	plan := PlanNumeric(lo, hi, yAxis.Ticks, yAxis.nice())
	f := frame{
		lay:     lay,
		x:       NewTime(t0, t1, 0, lay.PlotWidth),
		y:       NewLinear(plan.Lo, plan.Hi, lay.PlotHeight, 0),
		xTicks:  PlanTimeTicks(t0, t1, lay.PlotWidth, xAxis),
		yTicks:  plan.Ticks,
		xFormat: xAxis.Format,
		xAxis:   xAxis,
		yAxis:   yAxis,
		grid:    gridDefaults(req.Grid),
		xLabelY: lay.PlotHeight + lay.Margin.Bottom - 4 - band,
	}
	if f.xFormat == "" {
		if sameUTCDay(t0, t1) {
			f.xFormat = "%H:%M:%S"
		} else {
			f.xFormat = "%b %d"
		}
	}
	return f
}

type document struct {
	b strings.Builder
}

func (d *document) printf(format string, a ...any) {
	fmt.Fprintf(&d.b, format, a...)
}

func (d *document) line(x1, y1, x2, y2 float64, extra string) {
	d.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`, num(x1), num(y1), num(x2), num(y2), extra)
}

// open writes the root element, accessibility nodes and background, then
// enters the plot coordinate system.
func (f frame) open(title, desc string) *document {
	d := &document{}
	w, h := f.lay.Width, f.lay.Height
	t := escapeXML(title)
	d.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" role="img" aria-label="%s">`, w, h, w, h, t)
	d.printf("\n<title>%s</title>\n<desc>%s</desc>\n", t, escapeXML(desc))
	if f.lay.Background != "" {
		d.printf("<rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", w, h, escapeXML(f.lay.Background))
	}
	d.printf("<g transform=\"translate(%s,%s)\">\n", num(f.lay.Margin.Left), num(f.lay.Margin.Top))
	f.writeGrid(d)
	f.writeAxes(d)
	return d
}

func (f frame) writeGrid(d *document) {
	showX, showY := f.grid.X != nil && *f.grid.X, f.grid.Y != nil && *f.grid.Y
	if !showX && !showY {
		return
	}
	d.printf(`<g data-grid="" stroke="%s" stroke-opacity="%s" stroke-width="1">`, escapeXML(f.grid.Color), num(f.grid.Opacity))
	if showX {
		for _, t := range f.xTicks {
			x := f.x.MapTime(t.T)
			d.line(x, 0, x, f.lay.PlotHeight, "")
		}
	}
	if showY {
		for _, v := range f.yTicks {
			y := f.y.Map(v)
			d.line(0, y, f.lay.PlotWidth, y, "")
		}
	}
	d.printf("</g>\n")
}

func (f frame) writeAxes(d *document) {
	pw, ph := f.lay.PlotWidth, f.lay.PlotHeight
	d.printf("<g data-axes=\"\">\n")

	xs := f.xAxis.AxisStyle
	stroke := fmt.Sprintf(` stroke="%s"`, escapeXML(xs.Stroke))
	d.printf(`<g data-axis="x" fill="%s" font-family="%s" font-size="%s" text-anchor="middle">`,
		escapeXML(xs.TickColor), escapeXML(xs.FontFamily), num(xs.FontSize))
	d.line(0, ph, pw, ph, stroke)
	for _, t := range f.xTicks {
		x := f.x.MapTime(t.T)
		d.line(x, ph, x, ph+6, stroke)
		d.printf(`<text x="%s" y="%s">%s</text>`, num(x), num(ph+9+xs.FontSize), escapeXML(FormatDateUTC(t.T, f.xFormat)))
	}
	if xs.Label != "" {
		d.printf(`<text data-label="" x="%s" y="%s">%s</text>`, num(pw/2), num(f.xLabelY), escapeXML(xs.Label))
	}
	d.printf("</g>\n")

	ys := f.yAxis.AxisStyle
	stroke = fmt.Sprintf(` stroke="%s"`, escapeXML(ys.Stroke))
	d.printf(`<g data-axis="y" fill="%s" font-family="%s" font-size="%s" text-anchor="end">`,
		escapeXML(ys.TickColor), escapeXML(ys.FontFamily), num(ys.FontSize))
	d.line(0, 0, 0, ph, stroke)
	for _, v := range f.yTicks {
		y := f.y.Map(v)
		d.line(-6, y, 0, y, stroke)
		d.printf(`<text x="-9" y="%s" dy="0.32em">%s</text>`, num(y), escapeXML(FormatNumber(v, ys.Format)))
	}
	if ys.Label != "" {
		d.printf(`<text data-label="" transform="rotate(-90)" x="%s" y="%s" text-anchor="middle">%s</text>`,
			num(-ph/2), num(-f.lay.Margin.Left+ys.FontSize+2), escapeXML(ys.Label))
	}
	d.printf("</g>\n</g>\n")
}

// close leaves the plot coordinate system, draws the legend and ends the
// document.
func (f frame) close(d *document, series []Series) Result {
	d.printf("</g>\n")
	f.writeLegend(d, series)
	d.printf("</svg>\n")
	return Result{SVG: d.b.String(), Width: f.lay.Width, Height: f.lay.Height}
}

func (f frame) writeLegend(d *document, series []Series) {
	lg := f.lay.Legend
	if !lg.Show {
		return
	}
	fs := lg.FontSize
	baseline := 4 + fs
	if lg.Position == "bottom" {
		baseline = float64(f.lay.Height) - 6
	}
	d.printf(`<g data-legend="" font-family="%s" font-size="%s">`, escapeXML(lg.FontFamily), num(fs))
	x := f.lay.Margin.Left
	for _, s := range series {
		swatch := fs * 0.8
		d.printf(`<g data-legend-item="%s"><rect x="%s" y="%s" width="%s" height="%s" fill="%s"/><text x="%s" y="%s">%s</text></g>`,
			escapeXML(s.ID), num(x), num(baseline-swatch), num(swatch), num(swatch), escapeXML(s.Color),
			num(x+swatch+6), num(baseline), escapeXML(s.Name))
		x += swatch + 6 + textWidth(s.Name, fs) + 16
	}
	d.printf("</g>\n")
}

// textWidth estimates rendered text width without font metrics.
func textWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * 0.6
}
