package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/xuri/excelize/v2"

	"github.com/warzone2100/chartsvg/chart"
)

func TestRequestFromRows(t *testing.T) {
	rows := [][]string{
		{"time", "cpu", ""},
		{"2024-01-01T00:00:00Z", "1", "5"},
		{"2024-01-01T01:00:00Z", "", "6"},
		{},
		{"2024-01-01T02:00:00Z", "3"},
	}
	req, err := requestFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Series) != 2 {
		t.Fatalf("got %d series: %s", len(req.Series), spew.Sdump(req.Series))
	}
	if req.Series[0].ID != "cpu" || req.Series[1].ID != "series2" {
		t.Errorf("unexpected ids %q %q", req.Series[0].ID, req.Series[1].ID)
	}
	if len(req.Series[0].Points) != 2 || len(req.Series[1].Points) != 2 {
		t.Errorf("unexpected points: %s", spew.Sdump(req.Series))
	}
	if req.XAxis == nil || req.XAxis.Label != "time" {
		t.Errorf("time column header not used as axis label")
	}
	if req.YAxis == nil {
		t.Errorf("value axis missing")
	}
}

func TestRequestFromRowsErrors(t *testing.T) {
	if _, err := requestFromRows(nil); err == nil {
		t.Error("empty sheet accepted")
	}
	if _, err := requestFromRows([][]string{{"time"}}); err == nil {
		t.Error("sheet without series accepted")
	}
}

func TestCellTime(t *testing.T) {
	v, err := cellTime("45292")
	if err != nil {
		t.Fatal(err)
	}
	if tm, ok := v.(time.Time); !ok || !tm.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("serial 45292 resolved to %v", v)
	}
	v, _ = cellTime("1704067200000")
	if v != float64(1704067200000) {
		t.Errorf("epoch cell resolved to %v", v)
	}
	v, _ = cellTime(" 2024-01-01 ")
	if v != "2024-01-01" {
		t.Errorf("text cell resolved to %v", v)
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "time")
	f.SetCellValue(sheet, "B1", "alpha")
	f.SetCellValue(sheet, "C1", "beta")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, start.Add(time.Duration(i)*time.Hour).Format(time.RFC3339))
		cell, _ = excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, cell, 10*(i+1))
		cell, _ = excelize.CoordinatesToCellName(3, row)
		f.SetCellValue(sheet, cell, 2.5*float64(i))
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRequestFromWorkbook(t *testing.T) {
	path := writeWorkbook(t)
	req, err := requestFromWorkbook(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Series) != 2 || len(req.Series[0].Points) != 4 {
		t.Fatalf("unexpected request: %s", spew.Sdump(req))
	}
	res, err := chart.Render(chart.KindArea, req)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(res.SVG, "data-layer=") != 2 {
		t.Errorf("expected two area layers")
	}
	if _, err := requestFromWorkbook(path, "Missing"); err == nil {
		t.Error("missing sheet accepted")
	}
}

func TestXLSXCommand(t *testing.T) {
	path := writeWorkbook(t)
	out := filepath.Join(t.TempDir(), "out.svg")
	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"xlsx", "line", "-f", path, "-o", out, "--title", "Load", "--ylabel", "units"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(b)
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "<title>Load</title>") || !strings.Contains(svg, ">units</text>") {
		t.Errorf("unexpected output:\n%s", svg)
	}
}

func TestRenderCommand(t *testing.T) {
	in := filepath.Join(t.TempDir(), "req.json")
	body := `{"yAxis":{},"series":[{"id":"a","points":[{"t":0,"v":1},{"t":60000,"v":2}]}]}`
	if err := os.WriteFile(in, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"render", "line", "-i", in, "-o", "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), `data-id="a"`) {
		t.Errorf("series path missing:\n%s", stdout.String())
	}

	cmd = newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "pie", "-i", in})
	if err := cmd.Execute(); err == nil {
		t.Error("unknown chart type accepted")
	}
}
