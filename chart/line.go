package chart

import "fmt"

// RenderLine draws one stroked path per series over a time axis and a
// value axis covering every sample, unless the caller overrides the domain.
func RenderLine(req Request) (Result, error) {
	if len(req.Series) == 0 {
		return Result{}, ErrEmptyInput
	}
	if req.YAxis == nil {
		return Result{}, ErrMissingAxisConfig
	}
	series, err := NormalizeSeries(req.Series)
	if err != nil {
		return Result{}, err
	}
	lay := NewLayout(req.Dimensions, req.Legend, len(series))
	yAxis := valueAxisDefaults(req.YAxis)
	lo, hi := valueExtent(series)
	if dlo, dhi, ok := yAxis.domain(); ok {
		lo, hi = dlo, dhi
	}
	t0, t1 := timeExtent(series)
	f := newFrame(req, lay, t0, t1, lo, hi, yAxis)

	title, desc := req.Title, req.Description
	if title == "" {
		title = "Line chart"
	}
	if desc == "" {
		desc = fmt.Sprintf("Line chart of %d series over time", len(series))
	}
	d := f.open(title, desc)
	d.printf("<g data-series=\"\" fill=\"none\" stroke-linejoin=\"round\" stroke-linecap=\"round\">\n")
	for _, s := range series {
		pts := make([]XY, len(s.Points))
		for i, p := range s.Points {
			pts[i] = XY{X: f.x.MapTime(p.T), Y: f.y.Map(p.V)}
		}
		width := s.StrokeWidth
		if width <= 0 {
			width = 2
		}
		d.printf("<path data-id=\"%s\" d=\"%s\" stroke=\"%s\" stroke-width=\"%s\"/>\n",
			escapeXML(s.ID), LinePath(pts), escapeXML(s.Color), num(width))
	}
	d.printf("</g>\n")
	return f.close(d, series), nil
}
