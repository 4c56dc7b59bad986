package chart

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// FormatDateUTC substitutes strftime-like tokens with the UTC calendar
// fields of the instant ms (epoch milliseconds). Unknown tokens are copied
// through untouched.
func FormatDateUTC(ms int64, layout string) string {
	t := time.UnixMilli(ms).UTC()
	var b strings.Builder
	b.Grow(len(layout) + 8)
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' || i+1 >= len(layout) {
			b.WriteByte(c)
			continue
		}
		i++
		if s, ok := dateToken(t, layout[i]); ok {
			b.WriteString(s)
		} else {
			b.WriteByte('%')
			b.WriteByte(layout[i])
		}
	}
	return b.String()
}

func dateToken(t time.Time, tok byte) (string, bool) {
	switch tok {
	case 'Y':
		return pad(t.Year(), 4, '0'), true
	case 'y':
		return pad(((t.Year()%100)+100)%100, 2, '0'), true
	case 'm':
		return pad(int(t.Month()), 2, '0'), true
	case 'B':
		return monthNames[t.Month()-1], true
	case 'b':
		return monthNames[t.Month()-1][:3], true
	case 'd':
		return pad(t.Day(), 2, '0'), true
	case 'e':
		return pad(t.Day(), 2, ' '), true
	case 'H':
		return pad(t.Hour(), 2, '0'), true
	case 'I':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, 2, '0'), true
	case 'M':
		return pad(t.Minute(), 2, '0'), true
	case 'S':
		return pad(t.Second(), 2, '0'), true
	case 'L':
		return pad(t.Nanosecond()/int(time.Millisecond), 3, '0'), true
	case 'a':
		return weekdayNames[t.Weekday()][:3], true
	case 'A':
		return weekdayNames[t.Weekday()], true
	case 'j':
		return pad(t.YearDay(), 3, '0'), true
	case 'Z':
		return "UTC", true
	}
	return "", false
}

func pad(v, width int, fill byte) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(fill), width-len(s)) + s
}

var (
	fixedPointFormat = regexp.MustCompile(`(\d+)f`)
	numberPrinter    = message.NewPrinter(language.English)
)

const maxFractionDigits = 20

// FormatNumber renders v with en-US grouping. A format containing a
// fixed-point directive such as "2f" or ".2f" yields exactly that many
// fraction digits; otherwise the precision follows the magnitude of v.
// Values that round to zero print without a sign.
func FormatNumber(v float64, format string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	digits, fixed := magnitudeDigits(v), false
	if m := fixedPointFormat.FindStringSubmatch(format); m != nil {
		d, err := strconv.Atoi(m[1])
		if err != nil || d > maxFractionDigits {
			d = maxFractionDigits
		}
		digits, fixed = d, true
	}
	if math.Abs(v) < 0.5*math.Pow10(-digits) {
		v = 0
	}
	if fixed {
		return numberPrinter.Sprint(number.Decimal(v,
			number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
	}
	return numberPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(digits)))
}

func magnitudeDigits(v float64) int {
	a := math.Abs(v)
	switch {
	case a > 1000:
		return 0
	case a > 100:
		return 1
	case a > 10:
		return 2
	}
	return 3
}

// sameUTCDay reports whether both instants fall on one UTC calendar day.
func sameUTCDay(a, b int64) bool {
	return floorDiv(a, msPerDay) == floorDiv(b, msPerDay)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
