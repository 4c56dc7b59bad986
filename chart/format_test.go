package chart

import (
	"math"
	"testing"
)

func TestFormatDateUTC(t *testing.T) {
	at := ms("2024-01-05T03:04:05.006Z")
	cases := []struct {
		layout, want string
	}{
		{"%Y-%m-%d %H:%M:%S.%L", "2024-01-05 03:04:05.006"},
		{"%b %d", "Jan 05"},
		{"%B %e, %Y", "January  5, 2024"},
		{"%a %A", "Fri Friday"},
		{"%I%%%q", "03%%%q"},
		{"%j %y %Z", "005 24 UTC"},
		{"trailing %", "trailing %"},
	}
	for _, c := range cases {
		if got := FormatDateUTC(at, c.layout); got != c.want {
			t.Errorf("FormatDateUTC(%q) = %q, want %q", c.layout, got, c.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		v      float64
		format string
		want   string
	}{
		{12345.678, "", "12,346"},
		{123.456, "", "123.5"},
		{12.3456, "", "12.35"},
		{0.5, "", "0.5"},
		{0.12345, "", "0.123"},
		{-1500, "", "-1,500"},
		{math.Copysign(0, -1), "", "0"},
		{-0.0001, "", "0"},
		{-0.001, "2f", "0.00"},
		{-0.004, ".2f", "0.00"},
		{-0.006, ".2f", "-0.01"},
		{1234.5, ".2f", "1,234.50"},
		{3, "1f", "3.0"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.v, c.format); got != c.want {
			t.Errorf("FormatNumber(%v, %q) = %q, want %q", c.v, c.format, got, c.want)
		}
	}
}

func TestSameUTCDay(t *testing.T) {
	if !sameUTCDay(ms("2024-01-05T00:00:00Z"), ms("2024-01-05T23:59:59.999Z")) {
		t.Error("same day reported as different")
	}
	if sameUTCDay(ms("2024-01-05T23:59:59.999Z"), ms("2024-01-06T00:00:00Z")) {
		t.Error("adjacent days reported as same")
	}
}
