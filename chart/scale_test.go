package chart

import "testing"

func TestLinearMap(t *testing.T) {
	s := NewLinear(0, 200, 300, 0)
	cases := []struct{ in, want float64 }{
		{0, 300},
		{200, 0},
		{50, 225},
		{-100, 450},
	}
	for _, c := range cases {
		if got := s.Map(c.in); got != c.want {
			t.Errorf("Map(%v) = %v, want %v", c.in, got, c.want)
		}
	}

	flat := NewLinear(5, 5, 10, 90)
	if got := flat.Map(5); got != 10 {
		t.Errorf("zero-width domain maps its value to %v, want range start 10", got)
	}
	if lo, hi := flat.Domain(); lo != 5 || hi != 5 {
		t.Errorf("Domain() = %v, %v", lo, hi)
	}

	tm := NewTime(1000, 1000, 0, 640)
	if got := tm.MapTime(1000); got != 0 {
		t.Errorf("single instant maps to %v", got)
	}
}

func TestMergeDefaults(t *testing.T) {
	m := Margins{Left: 80}
	mergeDefaults(&m, DefaultMargins)
	want := DefaultMargins
	want.Left = 80
	if m != want {
		t.Errorf("merged margins = %+v, want %+v", m, want)
	}

	defer func() {
		if recover() == nil {
			t.Error("merging different option types did not panic")
		}
	}()
	mergeDefaults(&m, defaultLegend)
}
