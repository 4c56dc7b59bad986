package chart

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestStackSeries(t *testing.T) {
	series := []Series{
		{ID: "a", Points: []Sample{{T: 1, V: 1}, {T: 2, V: 2}}},
		{ID: "b", Points: []Sample{{T: 2, V: 3}, {T: 3, V: 4}}},
	}
	st := StackSeries(series)
	if len(st.Times) != 3 {
		t.Fatalf("union times = %v, want 3 entries", st.Times)
	}
	wantTotals := []float64{1, 5, 4}
	for i, w := range wantTotals {
		if st.Totals[i] != w {
			t.Errorf("total[%d] = %v, want %v", i, st.Totals[i], w)
		}
	}
	if st.MaxTotal() != 5 {
		t.Errorf("MaxTotal = %v, want 5", st.MaxTotal())
	}
	if st.Layers[1].Points[0].Value != 0 {
		t.Errorf("missing sample should contribute zero:\n%s", spew.Sdump(st.Layers[1]))
	}
}

func TestStackInvariants(t *testing.T) {
	series := []Series{
		{ID: "a", Points: []Sample{{T: 0, V: 2}, {T: 10, V: 1}, {T: 20, V: 4}}},
		{ID: "b", Points: []Sample{{T: 5, V: 3}, {T: 10, V: 2}}},
		{ID: "c", Points: []Sample{{T: 0, V: 1}, {T: 20, V: 1}, {T: 30, V: 6}}},
	}
	st := StackSeries(series)
	for j := range st.Times {
		if st.Layers[0].Points[j].Y0 != 0 {
			t.Errorf("bottom layer does not start at zero at %d", st.Times[j])
		}
		for i := 1; i < len(st.Layers); i++ {
			if st.Layers[i].Points[j].Y0 != st.Layers[i-1].Points[j].Y1 {
				t.Errorf("layer %d not stacked on layer %d at %d", i, i-1, st.Times[j])
			}
		}
		for _, l := range st.Layers {
			p := l.Points[j]
			if p.Y1-p.Y0 != p.Value {
				t.Errorf("band height %v != value %v", p.Y1-p.Y0, p.Value)
			}
		}
		if top := st.Layers[len(st.Layers)-1].Points[j].Y1; top != st.Totals[j] {
			t.Errorf("top %v != total %v at %d", top, st.Totals[j], st.Times[j])
		}
	}
}

func TestStackDuplicateTimestamp(t *testing.T) {
	st := StackSeries([]Series{{ID: "a", Points: []Sample{{T: 1, V: 1}, {T: 1, V: 7}}}})
	if len(st.Times) != 1 || st.Totals[0] != 7 {
		t.Errorf("duplicate timestamps: %s", spew.Sdump(st))
	}
}

func TestStackNegativeTotals(t *testing.T) {
	st := StackSeries([]Series{{ID: "a", Points: []Sample{{T: 1, V: -3}}}})
	if st.MaxTotal() != 0 {
		t.Errorf("MaxTotal = %v, want 0", st.MaxTotal())
	}
}

func TestAreaPath(t *testing.T) {
	top := []XY{{0, 10}, {50, 5}, {100.123, 7.456}}
	bottom := []XY{{0, 20}, {50, 20}, {100.123, 20}}
	d := AreaPath(top, bottom)
	if !strings.HasPrefix(d, "M0,10 L50,5 L100.12,7.46") {
		t.Errorf("unexpected top edge: %q", d)
	}
	if !strings.HasSuffix(d, " Z") {
		t.Errorf("area path is not closed: %q", d)
	}
	cmds := strings.Count(d, "M") + strings.Count(d, "L")
	if cmds != 2*len(top) {
		t.Errorf("%d commands, want %d: %q", cmds, 2*len(top), d)
	}
	if AreaPath(nil, nil) != "" || LinePath(nil) != "" {
		t.Error("empty input must yield an empty path")
	}
}

func TestLinePath(t *testing.T) {
	if got := LinePath([]XY{{1, 2}, {3.006, -0.001}}); got != "M1,2 L3.01,0" {
		t.Errorf("LinePath = %q", got)
	}
}
