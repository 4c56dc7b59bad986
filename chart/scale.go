package chart

import "github.com/aclements/go-moremath/scale"

// Linear is an affine map from a value domain onto a pixel range.
type Linear struct {
	dom    scale.Linear
	r0, r1 float64
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{dom: scale.Linear{Min: d0, Max: d1}, r0: r0, r1: r1}
}

// Map projects v into the range. A zero-width domain maps every value to a
// constant offset instead of dividing by zero.
func (s Linear) Map(v float64) float64 {
	var u float64
	if s.dom.Min == s.dom.Max {
		u = v - s.dom.Min
	} else {
		u = s.dom.Map(v)
	}
	return s.r0 + u*(s.r1-s.r0)
}

func (s Linear) Domain() (float64, float64) {
	return s.dom.Min, s.dom.Max
}

func (s Linear) Range() (float64, float64) {
	return s.r0, s.r1
}

// Time is the linear map over an epoch millisecond domain.
type Time struct {
	Linear
}

func NewTime(lo, hi int64, r0, r1 float64) Time {
	return Time{NewLinear(float64(lo), float64(hi), r0, r1)}
}

func (s Time) MapTime(ms int64) float64 {
	return s.Map(float64(ms))
}
