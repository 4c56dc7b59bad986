package chart

import (
	"testing"
	"time"
)

func ms(s string) int64 {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t.UnixMilli()
}

func TestDesiredTimeTicks(t *testing.T) {
	cases := []struct {
		width float64
		hint  int
		want  int
	}{
		{728, 0, 8},
		{100, 0, 3},
		{1e5, 0, 60},
		{728, 4, 4},
	}
	for _, c := range cases {
		if got := DesiredTimeTicks(c.width, c.hint); got != c.want {
			t.Errorf("DesiredTimeTicks(%v, %d) = %d, want %d", c.width, c.hint, got, c.want)
		}
	}
}

func TestChooseInterval(t *testing.T) {
	cases := []struct {
		start, end string
		desired    int
		want       Interval
	}{
		{"2024-01-01T00:00:00Z", "2024-01-11T00:00:00Z", 10, Interval{UnitDay, 1}},
		{"2024-01-01T00:00:00Z", "2024-01-01T12:00:00Z", 4, Interval{UnitHour, 3}},
		{"2000-01-01T00:00:00Z", "2050-01-01T00:00:00Z", 5, Interval{UnitYear, 10}},
		{"2024-01-01T00:00:00Z", "2024-01-01T00:00:01Z", 4, Interval{UnitMillisecond, 250}},
		// day/1 and hour/12 both miss by one tick; day is searched first.
		{"2024-01-01T00:00:00Z", "2024-01-03T00:00:00Z", 3, Interval{UnitDay, 1}},
		// every candidate scores the same on an empty span.
		{"2024-01-01T00:00:00Z", "2024-01-01T00:00:00Z", 5, Interval{UnitYear, 1}},
	}
	for _, c := range cases {
		got := ChooseInterval(ms(c.start), ms(c.end), c.desired)
		if got != c.want {
			t.Errorf("ChooseInterval(%s, %s, %d) = %v/%d, want %v/%d",
				c.start, c.end, c.desired, got.Unit, got.Step, c.want.Unit, c.want.Step)
		}
	}
}

func TestIntervalFloor(t *testing.T) {
	cases := []struct {
		iv   Interval
		in   string
		want string
	}{
		{Interval{UnitYear, 5}, "2023-07-04T10:00:00Z", "2020-01-01T00:00:00Z"},
		{Interval{UnitMonth, 3}, "2024-05-15T00:00:00Z", "2024-04-01T00:00:00Z"},
		{Interval{UnitMonth, 1}, "2024-02-29T23:59:59Z", "2024-02-01T00:00:00Z"},
		{Interval{UnitDay, 1}, "2024-01-05T03:04:05Z", "2024-01-05T00:00:00Z"},
		{Interval{UnitHour, 6}, "2024-01-05T13:04:05Z", "2024-01-05T12:00:00Z"},
		{Interval{UnitSecond, 15}, "2024-01-05T13:04:29.999Z", "2024-01-05T13:04:15Z"},
		{Interval{UnitDay, 1}, "1969-12-31T12:00:00Z", "1969-12-31T00:00:00Z"},
	}
	for _, c := range cases {
		if got := c.iv.Floor(ms(c.in)); got != ms(c.want) {
			t.Errorf("%v/%d Floor(%s) = %s, want %s", c.iv.Unit, c.iv.Step, c.in,
				time.UnixMilli(got).UTC().Format(time.RFC3339Nano), c.want)
		}
	}
}

func TestIntervalOffsetCalendar(t *testing.T) {
	iv := Interval{UnitMonth, 1}
	got := iv.Offset(ms("2024-01-01T00:00:00Z"))
	if got != ms("2024-02-01T00:00:00Z") {
		t.Errorf("month offset = %s", time.UnixMilli(got).UTC())
	}
	iv = Interval{UnitYear, 2}
	got = iv.Offset(ms("2024-01-01T00:00:00Z"))
	if got != ms("2026-01-01T00:00:00Z") {
		t.Errorf("year offset = %s", time.UnixMilli(got).UTC())
	}
}

func TestTimeTicks(t *testing.T) {
	start, end := ms("2024-01-01T00:00:00Z"), ms("2024-01-03T00:00:00Z")
	ticks := TimeTicks(start, end, Interval{UnitDay, 1})
	want := []int64{start, ms("2024-01-02T00:00:00Z"), end}
	if len(ticks) != len(want) {
		t.Fatalf("got %d ticks, want %d", len(ticks), len(want))
	}
	for i := range want {
		if ticks[i].T != want[i] {
			t.Errorf("tick %d = %d, want %d", i, ticks[i].T, want[i])
		}
	}
}

func TestTimeTicksFallback(t *testing.T) {
	at := ms("2024-01-01T10:30:00Z")
	ticks := TimeTicks(at, at, Interval{UnitDay, 1})
	if len(ticks) != 1 || ticks[0].T != at {
		t.Errorf("TimeTicks on a single instant = %v, want [%d]", ticks, at)
	}
}

func TestPlanTimeTicksPinnedUnit(t *testing.T) {
	start, end := ms("2024-01-01T00:00:00Z"), ms("2024-03-15T00:00:00Z")
	ticks := PlanTimeTicks(start, end, 700, TimeAxisOptions{Unit: "month"})
	if len(ticks) != 3 {
		t.Fatalf("got %d month ticks, want 3", len(ticks))
	}
	for _, tk := range ticks {
		if tk.Interval != (Interval{UnitMonth, 1}) {
			t.Errorf("tick interval = %+v", tk.Interval)
		}
		if d := time.UnixMilli(tk.T).UTC().Day(); d != 1 {
			t.Errorf("month tick on day %d", d)
		}
	}
}
