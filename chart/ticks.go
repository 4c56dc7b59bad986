package chart

import "math"

// Thresholds splitting the normalized step error between the 1, 2, 5 and 10
// multipliers. Output compatibility depends on these exact values.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

const maxTicks = 10000

// TickStep returns the "nice" distance between roughly count ticks spanning
// start..stop. The result is negative when stop < start and zero when the
// span is empty or not finite.
func TickStep(start, stop float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	raw := math.Abs(stop-start) / float64(count)
	if raw == 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	power := math.Floor(math.Log10(raw))
	step := math.Pow(10, power)
	switch e := raw / step; {
	case e >= e10:
		step *= 10
	case e >= e5:
		step *= 5
	case e >= e2:
		step *= 2
	}
	if stop < start {
		return -step
	}
	return step
}

// Ticks lists every multiple of the nice step inside [start, stop] in
// ascending order. Equal bounds produce a single tick.
func Ticks(start, stop float64, count int) []float64 {
	if start == stop {
		return []float64{start}
	}
	return ticksWithStep(start, stop, TickStep(start, stop, count))
}

func ticksWithStep(start, stop, step float64) []float64 {
	lo, hi := math.Min(start, stop), math.Max(start, stop)
	step = math.Abs(step)
	if lo == hi || step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return []float64{lo}
	}
	var k0, k1 float64
	var at func(k float64) float64
	if step < 1 {
		// Dividing by the integral inverse keeps decimal steps exact, e.g.
		// 3/10 instead of 3*0.1.
		inc := math.Round(1 / step)
		at = func(k float64) float64 { return k / inc }
		k0, k1 = math.Round(lo*inc), math.Round(hi*inc)
	} else {
		at = func(k float64) float64 { return k * step }
		k0, k1 = math.Round(lo/step), math.Round(hi/step)
	}
	if at(k0) < lo {
		k0++
	}
	if at(k1) > hi {
		k1--
	}
	if k1 < k0 {
		return []float64{}
	}
	if k1-k0 >= maxTicks {
		k1 = k0 + maxTicks - 1
	}
	out := make([]float64, 0, int(k1-k0)+1)
	for k := k0; k <= k1; k++ {
		out = append(out, at(k))
	}
	return out
}

// NumericPlan is the outcome of planning a value axis.
type NumericPlan struct {
	Lo, Hi float64
	Step   float64
	Ticks  []float64
}

// PlanNumeric widens a degenerate domain, picks the tick step, optionally
// rounds the bounds outwards to that step and enumerates the ticks.
func PlanNumeric(lo, hi float64, count int, nice bool) NumericPlan {
	if lo == hi {
		w := math.Abs(lo)
		if w == 0 {
			w = 1
		}
		lo, hi = lo-w, hi+w
	}
	step := TickStep(lo, hi, count)
	if nice && step != 0 {
		lo, hi = niceBounds(lo, hi, math.Abs(step))
	}
	return NumericPlan{
		Lo:    lo,
		Hi:    hi,
		Step:  step,
		Ticks: ticksWithStep(lo, hi, step),
	}
}

func niceBounds(lo, hi, step float64) (float64, float64) {
	reversed := hi < lo
	a, b := math.Min(lo, hi), math.Max(lo, hi)
	if step < 1 {
		inc := math.Round(1 / step)
		a = math.Floor(snap(a*inc)) / inc
		b = math.Ceil(snap(b*inc)) / inc
	} else {
		a = math.Floor(snap(a/step)) * step
		b = math.Ceil(snap(b/step)) * step
	}
	if reversed {
		return b, a
	}
	return a, b
}

// snap removes floating point noise around integers so that 0.29*100 is
// floored to 29 rather than 28.
func snap(x float64) float64 {
	if r := math.Round(x); math.Abs(x-r) < 1e-9 {
		return r
	}
	return x
}
