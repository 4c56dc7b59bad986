package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warzone2100/chartsvg/chart"
)

// Numeric time cells below this are spreadsheet date serials, anything
// larger is taken as epoch milliseconds.
const maxDateSerial = 1e6

func requestFromWorkbook(path, sheet string) (chart.Request, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return chart.Request{}, err
	}
	defer f.Close()
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return chart.Request{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return requestFromRows(rows)
}

// requestFromRows turns a header row plus sample rows into a chart request.
// Blank value cells are left out of their series.
func requestFromRows(rows [][]string) (chart.Request, error) {
	req := chart.Request{YAxis: &chart.ValueAxisOptions{}}
	if len(rows) == 0 || len(rows[0]) < 2 {
		return req, fmt.Errorf("sheet needs a header row with a time column and at least one series column")
	}
	header := rows[0]
	req.XAxis = &chart.TimeAxisOptions{AxisStyle: chart.AxisStyle{Label: strings.TrimSpace(header[0])}}
	req.Series = make([]chart.SeriesInput, len(header)-1)
	for i, h := range header[1:] {
		id := strings.TrimSpace(h)
		if id == "" {
			id = "series" + strconv.Itoa(i+1)
		}
		req.Series[i].ID = id
	}
	for r, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		t, err := cellTime(row[0])
		if err != nil {
			return req, fmt.Errorf("row %d: %w", r+2, err)
		}
		for i := range req.Series {
			if i+1 >= len(row) {
				break
			}
			v := strings.TrimSpace(row[i+1])
			if v == "" {
				continue
			}
			req.Series[i].Points = append(req.Series[i].Points, chart.Point{T: t, V: v})
		}
	}
	return req, nil
}

func cellTime(cell string) (any, error) {
	cell = strings.TrimSpace(cell)
	n, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell, nil
	}
	if n >= maxDateSerial {
		return n, nil
	}
	t, err := excelize.ExcelDateToTime(n, false)
	if err != nil {
		return nil, err
	}
	return t.UTC(), nil
}
