package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang/gddo/httputil/header"
	"github.com/gorilla/mux"

	"github.com/warzone2100/chartsvg/chart"
	"github.com/warzone2100/chartsvg/db"
	"github.com/warzone2100/chartsvg/store"
)

const maxBodyBytes = 4 << 20

type apiError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

// APIcall adapts a handler returning a status and a body. Errors become a
// JSON error object, byte slices and strings are written as they are and
// anything else is encoded as JSON. A status of -1 means the handler has
// already written the response.
func APIcall(c func(http.ResponseWriter, *http.Request) (int, any)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		code, content := c(w, r)
		if code <= 0 {
			return
		}
		var body []byte
		switch v := content.(type) {
		case nil:
			w.WriteHeader(code)
			return
		case error:
			code, body = errorBody(code, v)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		case []byte:
			body = v
		case string:
			body = []byte(v)
		default:
			var err error
			body, err = json.Marshal(v)
			if err != nil {
				log.Printf("Failed to marshal response of %s: %v", r.URL.Path, err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}
		w.WriteHeader(code)
		w.Write(body)
	}
}

func errorBody(code int, err error) (int, []byte) {
	e := apiError{Message: err.Error()}
	var mr *malformedRequest
	switch {
	case chart.IsInputError(err):
		code, e.Code = http.StatusBadRequest, chart.ErrorCode(err)
	case errors.Is(err, store.ErrNotFound):
		code, e.Code = http.StatusNotFound, "NotFound"
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, store.ErrInvalidKind):
		code, e.Code = http.StatusBadRequest, "InvalidID"
	case errors.As(err, &mr):
		code, e.Code = mr.status, "MalformedRequest"
	default:
		if code != http.StatusInternalServerError {
			e.Code = http.StatusText(code)
			break
		}
		log.Printf("Internal error: %v", err)
		code, e.Code, e.Message = http.StatusInternalServerError, "Internal", "internal error"
	}
	b, _ := json.Marshal(e)
	return code, b
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Header.Get("Content-Type") != "" {
		value, _ := header.ParseValueAndParams(r.Header, "Content-Type")
		if value != "application/json" {
			msg := "Content-Type header is not application/json"
			return &malformedRequest{status: http.StatusUnsupportedMediaType, msg: msg}
		}
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.ErrUnexpectedEOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body contains badly-formed JSON"}

		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &malformedRequest{status: http.StatusBadRequest, msg: msg}

		case errors.Is(err, io.EOF):
			return &malformedRequest{status: http.StatusBadRequest, msg: "Request body must not be empty"}

		case errors.As(err, &maxBytesError):
			msg := fmt.Sprintf("Request body must not be larger than %s", ByteCountIEC(maxBodyBytes))
			return &malformedRequest{status: http.StatusRequestEntityTooLarge, msg: msg}

		default:
			return err
		}
	}
	if dec.More() {
		msg := "Request body must only contain a single JSON object"
		return &malformedRequest{status: http.StatusBadRequest, msg: msg}
	}
	return nil
}

type renderOutcome struct {
	kind chart.Kind
	req  chart.Request
	res  chart.Result
	took time.Duration
}

// renderFromRequest decodes, themes and renders the chart described by the
// request body.
func renderFromRequest(w http.ResponseWriter, r *http.Request) (renderOutcome, error) {
	var o renderOutcome
	kind, err := chart.ParseKind(mux.Vars(r)["type"])
	if err != nil {
		return o, err
	}
	o.kind = kind
	if err := decodeJSONBody(w, r, &o.req); err != nil {
		return o, err
	}
	if err := themes.Apply(&o.req); err != nil {
		return o, err
	}
	started := time.Now()
	o.res, err = chart.Render(kind, o.req)
	o.took = time.Since(started)
	observeRender(kind, o.took, err)
	return o, err
}

func logRender(r *http.Request, o renderOutcome, chartID string) {
	if dbpool == nil {
		return
	}
	err := db.LogRender(r.Context(), dbpool, db.RenderRecord{
		Kind:       string(o.kind),
		ChartID:    chartID,
		Width:      o.res.Width,
		Height:     o.res.Height,
		Series:     len(o.req.Series),
		Points:     o.req.PointCount(),
		DurationMs: float64(o.took.Microseconds()) / 1000,
	})
	if err != nil {
		log.Printf("Failed to log render: %v", err)
	}
}

func APIrenderChart(w http.ResponseWriter, r *http.Request) (int, any) {
	o, err := renderFromRequest(w, r)
	if err != nil {
		return 500, err
	}
	logRender(r, o, "")
	feedRender(o, "")
	writeSVG(w, o.res)
	return -1, nil
}

func writeSVG(w http.ResponseWriter, res chart.Result) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Chart-Width", strconv.Itoa(res.Width))
	w.Header().Set("X-Chart-Height", strconv.Itoa(res.Height))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, res.SVG)
}

type storedChart struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

func chartURL(kind, id string) string {
	return "/api/charts/" + kind + "/" + id
}

func APIstoreChart(w http.ResponseWriter, r *http.Request) (int, any) {
	if !storeCharts {
		return http.StatusForbidden, errors.New("chart storage is disabled")
	}
	o, err := renderFromRequest(w, r)
	if err != nil {
		return 500, err
	}
	e, err := chartStore.Put(string(o.kind), []byte(o.res.SVG))
	if err != nil {
		return 500, err
	}
	logRender(r, o, e.ID)
	feedRender(o, e.ID)
	w.Header().Set("Location", chartURL(e.Kind, e.ID))
	return http.StatusCreated, storedChart{
		ID:     e.ID,
		Type:   e.Kind,
		Width:  o.res.Width,
		Height: o.res.Height,
		URL:    chartURL(e.Kind, e.ID),
	}
}

type chartListing struct {
	store.Entry
	URL string `json:"url"`
}

func APIlistCharts(_ http.ResponseWriter, r *http.Request) (int, any) {
	kind := ""
	if t, ok := mux.Vars(r)["type"]; ok {
		k, err := chart.ParseKind(t)
		if err != nil {
			return 400, err
		}
		kind = string(k)
	}
	entries, err := chartStore.List(kind)
	if err != nil {
		return 500, err
	}
	total := len(entries)
	start := min(max(0, parseQueryInt(r, "offset", 0)), total)
	end := total
	if limit := max(1, parseQueryInt(r, "limit", 100)); limit < total-start {
		end = start + limit
	}
	entries = entries[start:end]
	ret := make([]chartListing, len(entries))
	for i, e := range entries {
		ret[i] = chartListing{Entry: e, URL: chartURL(e.Kind, e.ID)}
	}
	return 200, map[string]any{
		"total":  total,
		"charts": ret,
	}
}

// prefersJSON reports whether the client ranks JSON above SVG.
func prefersJSON(r *http.Request) bool {
	var qJSON, qSVG float64
	for _, spec := range header.ParseAccept(r.Header, "Accept") {
		switch strings.ToLower(spec.Value) {
		case "application/json":
			qJSON = max(qJSON, spec.Q)
		case "image/svg+xml", "image/*", "*/*":
			qSVG = max(qSVG, spec.Q)
		}
	}
	return qJSON > qSVG
}

func APIgetChart(w http.ResponseWriter, r *http.Request) (int, any) {
	params := mux.Vars(r)
	kind, err := chart.ParseKind(params["type"])
	if err != nil {
		return 400, err
	}
	id := params["id"]
	svg, err := chartStore.Get(string(kind), id)
	if err != nil {
		return 500, err
	}
	w.Header().Add("Vary", "Accept")
	if prefersJSON(r) {
		return 200, map[string]any{
			"id":   id,
			"type": string(kind),
			"svg":  string(svg),
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return 200, svg
}

func APIdeleteChart(_ http.ResponseWriter, r *http.Request) (int, any) {
	params := mux.Vars(r)
	kind, err := chart.ParseKind(params["type"])
	if err != nil {
		return 400, err
	}
	if err := chartStore.Delete(string(kind), params["id"]); err != nil {
		return 500, err
	}
	log.Printf("Deleted chart %s/%s", kind, params["id"])
	return http.StatusNoContent, nil
}

func APIpurgeCharts(_ http.ResponseWriter, r *http.Request) (int, any) {
	age, err := time.ParseDuration(parseQueryString(r, "age", "24h"))
	if err != nil || age <= 0 {
		return 400, &malformedRequest{status: http.StatusBadRequest, msg: "age must be a positive duration such as 36h"}
	}
	removed, err := chartStore.PurgeOlderThan(time.Now().Add(-age))
	if err != nil {
		return 500, err
	}
	log.Printf("Purged %d charts older than %s", removed, age)
	return 200, map[string]any{"removed": removed}
}

func APIgetRenders(_ http.ResponseWriter, r *http.Request) (int, any) {
	if dbpool == nil {
		return http.StatusServiceUnavailable, errors.New("render log is disabled")
	}
	kind := parseQueryStringFiltered(r, "type", "", string(chart.KindLine), string(chart.KindArea))
	rows, err := db.RecentRenders(r.Context(), dbpool, kind, parseQueryInt(r, "limit", 50))
	if err != nil {
		return 500, err
	}
	return 200, rows
}
