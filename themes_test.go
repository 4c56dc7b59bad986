package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/warzone2100/chartsvg/chart"
)

const themesYAML = `
dark:
  background: "#111827"
  margin:
    left: 70
  xAxis:
    stroke: "#6b7280"
    tickColor: "#d1d5db"
  yAxis:
    tickColor: "#d1d5db"
    format: ".1f"
  grid:
    color: "#374151"
    x: true
  legend:
    position: bottom
  palette: ["#f87171", "#34d399"]
`

func TestThemeApply(t *testing.T) {
	ts := newThemeSet()
	if err := ts.Parse([]byte(themesYAML)); err != nil {
		t.Fatal(err)
	}
	req := chart.Request{
		Theme:      "dark",
		Dimensions: chart.Dimensions{Margin: &chart.Margins{Top: 5}},
		YAxis:      &chart.ValueAxisOptions{AxisStyle: chart.AxisStyle{Format: "2f"}},
		Series: []chart.SeriesInput{
			{ID: "a"},
			{ID: "b", Color: "#000000"},
			{ID: "c"},
		},
	}
	if err := ts.Apply(&req); err != nil {
		t.Fatal(err)
	}
	if req.Dimensions.Background != "#111827" {
		t.Errorf("background = %q", req.Dimensions.Background)
	}
	if m := req.Dimensions.Margin; m.Top != 5 || m.Left != 70 {
		t.Errorf("margin = %+v", *m)
	}
	if req.XAxis == nil || req.XAxis.Stroke != "#6b7280" {
		t.Errorf("x axis = %s", spew.Sdump(req.XAxis))
	}
	if req.YAxis.Format != "2f" || req.YAxis.TickColor != "#d1d5db" {
		t.Errorf("y axis overridden or not themed: %s", spew.Sdump(req.YAxis))
	}
	if req.Grid == nil || req.Grid.X == nil || !*req.Grid.X || req.Grid.Color != "#374151" {
		t.Errorf("grid = %s", spew.Sdump(req.Grid))
	}
	if req.Legend == nil || req.Legend.Position != "bottom" {
		t.Errorf("legend = %s", spew.Sdump(req.Legend))
	}
	colors := []string{req.Series[0].Color, req.Series[1].Color, req.Series[2].Color}
	if colors[0] != "#f87171" || colors[1] != "#000000" || colors[2] != "#f87171" {
		t.Errorf("series colors = %v", colors)
	}
}

func TestThemeKeepsMissingValueAxis(t *testing.T) {
	ts := newThemeSet()
	if err := ts.Parse([]byte(themesYAML)); err != nil {
		t.Fatal(err)
	}
	req := chart.Request{Theme: "dark", Series: []chart.SeriesInput{{ID: "a"}}}
	if err := ts.Apply(&req); err != nil {
		t.Fatal(err)
	}
	if req.YAxis != nil {
		t.Error("theme created a value axis")
	}
}

func TestThemeReload(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "themes.yaml")
	if err := os.WriteFile(p, []byte("light:\n  background: \"#fff\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	ts := newThemeSet()
	if err := ts.Load(p); err != nil {
		t.Fatal(err)
	}
	w, err := ts.Watch(p)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := os.WriteFile(p, []byte(themesYAML), 0644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, ok := ts.Get("dark"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("themes not reloaded, have %v", ts.Names())
		}
		time.Sleep(20 * time.Millisecond)
	}
}
