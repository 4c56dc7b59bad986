package chart

import (
	"math"
	"strconv"
	"strings"
)

// XY is a point in pixel space.
type XY struct {
	X, Y float64
}

// LinePath joins pts with straight segments. No points yield an empty path.
func LinePath(pts []XY) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteString(" L")
		}
		writeXY(&b, p)
	}
	return b.String()
}

// AreaPath outlines the band between top and bottom: top is walked forward,
// bottom backward, and the outline is closed. Both slices share timestamps
// index by index.
func AreaPath(top, bottom []XY) string {
	if len(top) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(LinePath(top))
	for i := len(bottom) - 1; i >= 0; i-- {
		b.WriteString(" L")
		writeXY(&b, bottom[i])
	}
	b.WriteString(" Z")
	return b.String()
}

func writeXY(b *strings.Builder, p XY) {
	b.WriteString(num(p.X))
	b.WriteByte(',')
	b.WriteString(num(p.Y))
}

// num prints a pixel coordinate rounded to hundredths.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
