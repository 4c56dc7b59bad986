package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Request is a single chart render request. The same shape serves both the
// line and the stacked-area renderer; YAxis is mandatory only for line charts.
type Request struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Theme       string            `json:"theme,omitempty"`
	Dimensions  Dimensions        `json:"dimensions"`
	XAxis       *TimeAxisOptions  `json:"xAxis,omitempty"`
	YAxis       *ValueAxisOptions `json:"yAxis,omitempty"`
	Series      []SeriesInput     `json:"series"`
	Grid        *GridOptions      `json:"grid,omitempty"`
	Legend      *LegendOptions    `json:"legend,omitempty"`
}

// UnmarshalJSON decodes numbers as json.Number so epochs and values keep
// their precision. A "series" member that is not an array is reported as
// ErrEmptyInput.
func (r *Request) UnmarshalJSON(b []byte) error {
	type plain Request
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode((*plain)(r)); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "series" {
			return fmt.Errorf("%w: series is a JSON %s, not an array", ErrEmptyInput, typeErr.Value)
		}
		return err
	}
	return nil
}

type Dimensions struct {
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Background string   `json:"background,omitempty"`
	Margin     *Margins `json:"margin,omitempty"`
}

type Margins struct {
	Top    float64 `json:"top,omitempty" yaml:"top"`
	Right  float64 `json:"right,omitempty" yaml:"right"`
	Bottom float64 `json:"bottom,omitempty" yaml:"bottom"`
	Left   float64 `json:"left,omitempty" yaml:"left"`
}

// AxisStyle holds the presentation options shared by both axes.
type AxisStyle struct {
	Label      string  `json:"label,omitempty" yaml:"label"`
	Stroke     string  `json:"stroke,omitempty" yaml:"stroke"`
	TickColor  string  `json:"tickColor,omitempty" yaml:"tickColor"`
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily"`
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize"`
	Ticks      int     `json:"ticks,omitempty" yaml:"ticks"`
	Format     string  `json:"format,omitempty" yaml:"format"`
}

type TimeAxisOptions struct {
	AxisStyle
	// Unit pins the tick unit: auto, year, month, week, day, hour, minute,
	// second or millisecond.
	Unit string `json:"unit,omitempty"`
}

type ValueAxisOptions struct {
	AxisStyle
	Domain []float64 `json:"domain,omitempty"`
	Nice   *bool     `json:"nice,omitempty"`
}

type GridOptions struct {
	X       *bool   `json:"x,omitempty" yaml:"x"`
	Y       *bool   `json:"y,omitempty" yaml:"y"`
	Color   string  `json:"color,omitempty" yaml:"color"`
	Opacity float64 `json:"opacity,omitempty" yaml:"opacity"`
}

type LegendOptions struct {
	Show       *bool   `json:"show,omitempty" yaml:"show"`
	Position   string  `json:"position,omitempty" yaml:"position"`
	FontSize   float64 `json:"fontSize,omitempty" yaml:"fontSize"`
	FontFamily string  `json:"fontFamily,omitempty" yaml:"fontFamily"`
}

type SeriesInput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
	Points      []Point `json:"points"`
}

// Point is a raw input sample. T may be an epoch in milliseconds, a date
// string or a time.Time; V may be any value that coerces to a number.
type Point struct {
	T any `json:"t"`
	V any `json:"v"`
}

type Result struct {
	SVG    string `json:"svg"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
