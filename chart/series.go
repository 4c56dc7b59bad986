package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Palette assigns default series colors by input position.
var Palette = [8]string{
	"#2563eb", "#dc2626", "#16a34a", "#d97706",
	"#7c3aed", "#0891b2", "#db2777", "#4b5563",
}

// Series is a validated input series with points sorted by time.
type Series struct {
	ID          string
	Name        string
	Color       string
	StrokeWidth float64
	FillOpacity float64
	// Index is the position of the series in the request.
	Index  int
	Points []Sample
}

type Sample struct {
	T int64
	V float64
}

// NormalizeSeries parses, filters and sorts raw series. Samples whose value
// is not a finite number are dropped, then series left empty are dropped.
// An unparsable time fails the whole set.
func NormalizeSeries(in []SeriesInput) ([]Series, error) {
	if len(in) == 0 {
		return nil, ErrEmptyInput
	}
	seen := make(map[string]bool, len(in))
	out := make([]Series, 0, len(in))
	for i, raw := range in {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: series %d has no id", ErrInvalidSeries, i)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSeries, id)
		}
		seen[id] = true
		s := Series{
			ID:          id,
			Name:        raw.Name,
			Color:       raw.Color,
			StrokeWidth: raw.StrokeWidth,
			FillOpacity: raw.FillOpacity,
			Index:       i,
			Points:      make([]Sample, 0, len(raw.Points)),
		}
		if s.Name == "" {
			s.Name = id
		}
		if s.Color == "" {
			s.Color = Palette[i%len(Palette)]
		}
		for j, p := range raw.Points {
			t, err := ParseTime(p.T)
			if err != nil {
				return nil, fmt.Errorf("series %q point %d: %w", id, j, err)
			}
			v, ok := toNumber(p.V)
			if !ok {
				continue
			}
			s.Points = append(s.Points, Sample{T: t, V: v})
		}
		if len(s.Points) == 0 {
			continue
		}
		sort.SliceStable(s.Points, func(a, b int) bool { return s.Points[a].T < s.Points[b].T })
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrNoValidPoints
	}
	return out, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTime resolves a raw time value to epoch milliseconds. Numbers are
// taken as epoch milliseconds, strings as ISO 8601 style dates (UTC unless
// they carry an offset) and time.Time values as they are.
func ParseTime(v any) (int64, error) {
	switch x := v.(type) {
	case time.Time:
		return epochMillis(x.UnixMilli())
	case *time.Time:
		if x != nil {
			return epochMillis(x.UnixMilli())
		}
	case int:
		return epochMillis(int64(x))
	case int32:
		return int64(x), nil
	case int64:
		return epochMillis(x)
	case uint32:
		return int64(x), nil
	case uint64:
		if x <= maxEpochMs {
			return int64(x), nil
		}
	case float32:
		return epochFloat(float64(x))
	case float64:
		return epochFloat(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return epochFloat(f)
		}
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return epochMillis(t.UnixMilli())
			}
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, x)
	}
	return 0, fmt.Errorf("%w: %v", ErrInvalidDate, v)
}

// maxEpochMs bounds instants to 100,000,000 days either side of the epoch.
const maxEpochMs = 8.64e15

func epochMillis(ms int64) (int64, error) {
	if ms > maxEpochMs || ms < -maxEpochMs {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidDate, ms)
	}
	return ms, nil
}

func epochFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxEpochMs {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDate, f)
	}
	return int64(f), nil
}

// toNumber coerces a raw value. Missing values and empty strings are not
// numbers.
func toNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func timeExtent(series []Series) (int64, int64) {
	lo, hi := int64(math.MaxInt64), int64(math.MinInt64)
	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		lo = min(lo, s.Points[0].T)
		hi = max(hi, s.Points[len(s.Points)-1].T)
	}
	return lo, hi
}

func valueExtent(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			lo = math.Min(lo, p.V)
			hi = math.Max(hi, p.V)
		}
	}
	return lo, hi
}
