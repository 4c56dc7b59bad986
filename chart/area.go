package chart

import "fmt"

const defaultFillOpacity = 0.6

// RenderArea stacks the series in request order, the first one at the
// bottom, over a value axis from zero to the largest stacked total.
func RenderArea(req Request) (Result, error) {
	if len(req.Series) == 0 {
		return Result{}, ErrEmptyInput
	}
	series, err := NormalizeSeries(req.Series)
	if err != nil {
		return Result{}, err
	}
	st := StackSeries(series)
	lay := NewLayout(req.Dimensions, req.Legend, len(series))
	yAxis := valueAxisDefaults(req.YAxis)
	lo, hi := 0.0, st.MaxTotal()
	if dlo, dhi, ok := yAxis.domain(); ok {
		lo, hi = dlo, dhi
	}
	f := newFrame(req, lay, st.Times[0], st.Times[len(st.Times)-1], lo, hi, yAxis)

	title, desc := req.Title, req.Description
	if title == "" {
		title = "Stacked area chart"
	}
	if desc == "" {
		desc = fmt.Sprintf("Stacked area chart of %d series over time", len(series))
	}
	d := f.open(title, desc)
	d.printf("<g data-areas=\"\">\n")
	for _, l := range st.Layers {
		top := make([]XY, len(l.Points))
		bottom := make([]XY, len(l.Points))
		for i, p := range l.Points {
			x := f.x.MapTime(p.T)
			top[i] = XY{X: x, Y: f.y.Map(p.Y1)}
			bottom[i] = XY{X: x, Y: f.y.Map(p.Y0)}
		}
		opacity := l.Series.FillOpacity
		if opacity <= 0 || opacity > 1 {
			opacity = defaultFillOpacity
		}
		width := l.Series.StrokeWidth
		if width <= 0 {
			width = 1.5
		}
		color := escapeXML(l.Series.Color)
		d.printf("<g data-layer=\"%s\">", escapeXML(l.Series.ID))
		d.printf("<path d=\"%s\" fill=\"%s\" fill-opacity=\"%s\" stroke=\"none\"/>", AreaPath(top, bottom), color, num(opacity))
		d.printf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%s\"/>", LinePath(top), color, num(width))
		d.printf("</g>\n")
	}
	d.printf("</g>\n")
	return f.close(d, series), nil
}
