package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024 * 16,
		CheckOrigin:     checkWSOrigin,
	}
	wsClientCounter atomic.Int64
	errNoFeed       = errors.New("render feed is not running")
)

func checkWSOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range corsOrigins() {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// APIrenderFeed upgrades to a websocket streaming render events. ?type=line,area
// sets the initial chart type filter.
func APIrenderFeed(w http.ResponseWriter, r *http.Request) {
	if renderFeed == nil {
		APIcall(func(http.ResponseWriter, *http.Request) (int, any) {
			return http.StatusServiceUnavailable, errNoFeed
		})(w, r)
		return
	}
	client := &feedClient{hub: renderFeed, send: make(chan renderEvent, feedClientBuffer)}
	if t := parseQueryString(r, "type", ""); t != "" {
		if _, err := client.subscribe(strings.Split(t, ",")); err != nil {
			APIcall(func(http.ResponseWriter, *http.Request) (int, any) {
				return http.StatusBadRequest, err
			})(w, r)
			return
		}
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to accept render feed websocket: %s", err.Error())
		return
	}
	client.conn = conn
	client.id = wsClientCounter.Add(1)
	renderFeed.join <- client
}

type renderEvent struct {
	Type    string    `json:"type"`
	Kind    string    `json:"chartType,omitempty"`
	ChartID string    `json:"id,omitempty"`
	URL     string    `json:"url,omitempty"`
	Title   string    `json:"title,omitempty"`
	Width   int       `json:"width,omitempty"`
	Height  int       `json:"height,omitempty"`
	Series  int       `json:"series,omitempty"`
	Points  int       `json:"points,omitempty"`
	TookMs  float64   `json:"tookMs,omitempty"`
	Types   []string  `json:"types,omitempty"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// feedRender announces a finished render to every render feed listener.
func feedRender(o renderOutcome, chartID string) {
	if renderFeed == nil {
		return
	}
	ev := renderEvent{
		Type:    "Render",
		Kind:    string(o.kind),
		ChartID: chartID,
		Title:   o.req.Title,
		Width:   o.res.Width,
		Height:  o.res.Height,
		Series:  len(o.req.Series),
		Points:  o.req.PointCount(),
		TookMs:  float64(o.took.Microseconds()) / 1000,
		At:      time.Now().UTC(),
	}
	if chartID != "" {
		ev.Type = "ChartStored"
		ev.URL = chartURL(ev.Kind, chartID)
	}
	renderFeed.Publish(ev)
}
