package chart

import (
	"math"
	"strings"
	"time"
)

type TimeUnit int

const (
	UnitYear TimeUnit = iota
	UnitMonth
	UnitWeek
	UnitDay
	UnitHour
	UnitMinute
	UnitSecond
	UnitMillisecond
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerWeek   = 7 * msPerDay
	msPerMonth  = 30 * msPerDay
	msPerYear   = 365 * msPerDay
)

// timeUnits is searched in order; the order decides ties between equally
// scored candidates and must not change.
var timeUnits = [...]struct {
	name   string
	length int64
	steps  []int
}{
	UnitYear:        {"year", msPerYear, []int{1, 2, 5, 10}},
	UnitMonth:       {"month", msPerMonth, []int{1, 3, 6}},
	UnitWeek:        {"week", msPerWeek, []int{1, 2}},
	UnitDay:         {"day", msPerDay, []int{1, 2}},
	UnitHour:        {"hour", msPerHour, []int{1, 3, 6, 12}},
	UnitMinute:      {"minute", msPerMinute, []int{1, 5, 15, 30}},
	UnitSecond:      {"second", msPerSecond, []int{1, 5, 15, 30}},
	UnitMillisecond: {"millisecond", 1, []int{1, 5, 10, 50, 100, 250, 500}},
}

func (u TimeUnit) String() string {
	if u < UnitYear || u > UnitMillisecond {
		return "unknown"
	}
	return timeUnits[u].name
}

// ParseTimeUnit resolves a unit hint. It reports false for "auto", an empty
// hint and anything unrecognized, all of which leave the choice to the planner.
func ParseTimeUnit(s string) (TimeUnit, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for u, d := range timeUnits {
		if d.name == s {
			return TimeUnit(u), true
		}
	}
	return 0, false
}

// Interval is a calendar step: Step whole Units.
type Interval struct {
	Unit TimeUnit
	Step int
}

func (iv Interval) calendar() bool {
	return iv.Unit == UnitYear || iv.Unit == UnitMonth
}

// Floor aligns ms down to the interval boundary. Years and months snap to
// UTC calendar starts whose year or month index is a multiple of Step; the
// fixed units snap to buckets of Step unit lengths since the epoch.
func (iv Interval) Floor(ms int64) int64 {
	step := int64(max(iv.Step, 1))
	if !iv.calendar() {
		bucket := step * timeUnits[iv.Unit].length
		return floorDiv(ms, bucket) * bucket
	}
	t := time.UnixMilli(ms).UTC()
	if iv.Unit == UnitYear {
		y := floorDiv(int64(t.Year()), step) * step
		return time.Date(int(y), time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	}
	m := floorDiv(int64(t.Month()-1), step) * step
	return time.Date(t.Year(), time.Month(m+1), 1, 0, 0, 0, 0, time.UTC).UnixMilli()
}

// Offset advances ms by one interval. Years and months change calendar
// fields rather than adding a fixed duration.
func (iv Interval) Offset(ms int64) int64 {
	step := max(iv.Step, 1)
	switch iv.Unit {
	case UnitYear:
		return time.UnixMilli(ms).UTC().AddDate(step, 0, 0).UnixMilli()
	case UnitMonth:
		return time.UnixMilli(ms).UTC().AddDate(0, step, 0).UnixMilli()
	}
	return ms + int64(step)*timeUnits[iv.Unit].length
}

// TimeTick is one time axis tick together with the interval that produced
// the whole tick set.
type TimeTick struct {
	T        int64
	Interval Interval
}

// DesiredTimeTicks derives the target tick count from the plot width unless
// the caller supplied a hint.
func DesiredTimeTicks(plotWidth float64, hint int) int {
	if hint > 0 {
		return hint
	}
	n := int(math.Round(plotWidth / 90))
	return min(max(n, 3), 60)
}

// ChooseInterval scores every unit/step candidate by how close its tick
// count over start..end comes to desired. The first best candidate wins.
func ChooseInterval(start, end int64, desired int) Interval {
	span := math.Abs(float64(end - start))
	best := Interval{Unit: UnitYear, Step: 1}
	bestScore := math.Inf(1)
	for u, d := range timeUnits {
		for _, step := range d.steps {
			approx := span / (float64(d.length) * float64(step))
			if score := math.Abs(approx - float64(desired)); score < bestScore {
				best = Interval{Unit: TimeUnit(u), Step: step}
				bestScore = score
			}
		}
	}
	return best
}

// TimeTicks enumerates interval boundaries from 1ms before start to 1ms
// after end. The result is never empty: start is returned on its own when no
// boundary falls in the window.
func TimeTicks(start, end int64, iv Interval) []TimeTick {
	if end < start {
		start, end = end, start
	}
	var ticks []TimeTick
	for t := iv.Floor(start); t <= end+1 && len(ticks) < maxTicks; {
		if t >= start-1 {
			ticks = append(ticks, TimeTick{T: t, Interval: iv})
		}
		next := iv.Offset(t)
		if next <= t {
			break
		}
		t = next
	}
	if len(ticks) == 0 {
		ticks = append(ticks, TimeTick{T: start, Interval: iv})
	}
	return ticks
}

// PlanTimeTicks picks the interval, honouring a pinned unit with step 1, and
// generates the ticks for start..end.
func PlanTimeTicks(start, end int64, plotWidth float64, opts TimeAxisOptions) []TimeTick {
	var iv Interval
	if u, ok := ParseTimeUnit(opts.Unit); ok {
		iv = Interval{Unit: u, Step: 1}
	} else {
		iv = ChooseInterval(start, end, DesiredTimeTicks(plotWidth, opts.Ticks))
	}
	return TimeTicks(start, end, iv)
}
