package chart

import "errors"

var (
	ErrEmptyInput        = errors.New("series must be a non-empty array")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNoValidPoints     = errors.New("no series contains a valid point")
	ErrMissingAxisConfig = errors.New("value axis options are required")
	ErrInvalidSeries     = errors.New("invalid series")
	ErrUnknownType       = errors.New("unknown chart type")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrEmptyInput, "EmptyInput"},
	{ErrInvalidDate, "InvalidDate"},
	{ErrNoValidPoints, "NoValidPoints"},
	{ErrMissingAxisConfig, "MissingAxisConfig"},
	{ErrInvalidSeries, "InvalidSeries"},
	{ErrUnknownType, "UnknownType"},
}

// ErrorCode returns the stable code of an input validation error, or an
// empty string if err is not one.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

func IsInputError(err error) bool {
	return ErrorCode(err) != ""
}
