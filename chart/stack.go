package chart

import "sort"

// LayerPoint is one stacked sample: the band spans Y0..Y1 and Value is the
// series' own contribution.
type LayerPoint struct {
	T      int64
	Y0, Y1 float64
	Value  float64
}

type Layer struct {
	Series *Series
	Points []LayerPoint
}

// Stack is the cumulative arrangement of a series set over the union of all
// their timestamps. Layers keep input order, the first one at the bottom.
type Stack struct {
	Times  []int64
	Layers []Layer
	Totals []float64
}

// StackSeries accumulates the series on top of each other. A series without
// a sample at some union timestamp contributes zero there; when a series has
// several samples at one timestamp the last one counts.
func StackSeries(series []Series) Stack {
	seen := make(map[int64]bool)
	var times []int64
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.T] {
				seen[p.T] = true
				times = append(times, p.T)
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	totals := make([]float64, len(times))
	layers := make([]Layer, 0, len(series))
	for i := range series {
		values := make(map[int64]float64, len(series[i].Points))
		for _, p := range series[i].Points {
			values[p.T] = p.V
		}
		pts := make([]LayerPoint, len(times))
		for j, t := range times {
			v := values[t]
			pts[j] = LayerPoint{T: t, Y0: totals[j], Y1: totals[j] + v, Value: v}
			totals[j] += v
		}
		layers = append(layers, Layer{Series: &series[i], Points: pts})
	}
	return Stack{Times: times, Layers: layers, Totals: totals}
}

// MaxTotal is the largest per-timestamp sum, never below zero.
func (s Stack) MaxTotal() float64 {
	m := 0.0
	for _, t := range s.Totals {
		m = max(m, t)
	}
	return m
}
