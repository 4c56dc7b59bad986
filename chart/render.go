package chart

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindLine Kind = "line"
	KindArea Kind = "area"
)

// ParseKind accepts "line", "area" and the "stacked-area" alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line":
		return KindLine, nil
	case "area", "stacked-area", "stacked":
		return KindArea, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Render dispatches req to the renderer for kind.
func Render(kind Kind, req Request) (Result, error) {
	switch kind {
	case KindLine:
		return RenderLine(req)
	case KindArea:
		return RenderArea(req)
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownType, kind)
}

// PointCount is the number of raw samples in the request.
func (r Request) PointCount() int {
	n := 0
	for _, s := range r.Series {
		n += len(s.Points)
	}
	return n
}
