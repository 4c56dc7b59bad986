package main

import (
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/warzone2100/chartsvg/chart"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 5 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 10 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Events buffered per listener before it is cut off.
	feedClientBuffer = 16
)

// feedHub fans render events out to the websocket listeners whose chart
// type filter accepts them.
type feedHub struct {
	clients     map[*feedClient]struct{}
	clientsLock sync.RWMutex
	events      chan renderEvent
	join        chan *feedClient
	leave       chan *feedClient
}

type feedClient struct {
	hub  *feedHub
	conn *websocket.Conn
	send chan renderEvent
	id   int64

	kindsLock sync.RWMutex
	kinds     map[string]bool
}

// feedCommand is what listeners may send: {"action": "subscribe", "types":
// ["line"]} narrows the feed, an empty list restores every type, and
// {"action": "disconnect"} ends the session.
type feedCommand struct {
	Action string   `json:"action"`
	Types  []string `json:"types"`
}

func newFeedHub() *feedHub {
	return &feedHub{
		clients: make(map[*feedClient]struct{}),
		events:  make(chan renderEvent, 64),
		join:    make(chan *feedClient),
		leave:   make(chan *feedClient),
	}
}

func (hub *feedHub) ClientCount() int {
	hub.clientsLock.RLock()
	defer hub.clientsLock.RUnlock()
	return len(hub.clients)
}

// Publish queues ev without ever blocking the render that produced it.
func (hub *feedHub) Publish(ev renderEvent) {
	select {
	case hub.events <- ev:
	default:
		log.Printf("Render feed is congested, dropping %s event", ev.Type)
	}
}

func (hub *feedHub) Run() {
	for {
		select {
		case client := <-hub.join:
			hub.clientsLock.Lock()
			hub.clients[client] = struct{}{}
			hub.clientsLock.Unlock()
			go client.readCommands()
			go client.writeEvents()
		case client := <-hub.leave:
			hub.clientsLock.Lock()
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				close(client.send)
			}
			hub.clientsLock.Unlock()
		case ev := <-hub.events:
			hub.clientsLock.Lock()
			for client := range hub.clients {
				if !client.wants(ev.Kind) {
					continue
				}
				select {
				case client.send <- ev:
				default:
					log.Printf("Render feed client %d is too slow, disconnecting", client.id)
					close(client.send)
					delete(hub.clients, client)
				}
			}
			hub.clientsLock.Unlock()
		}
	}
}

func (client *feedClient) wants(kind string) bool {
	client.kindsLock.RLock()
	defer client.kindsLock.RUnlock()
	return len(client.kinds) == 0 || client.kinds[kind]
}

// subscribe replaces the chart type filter and returns the accepted types.
func (client *feedClient) subscribe(types []string) ([]string, error) {
	kinds := map[string]bool{}
	for _, t := range types {
		k, err := chart.ParseKind(t)
		if err != nil {
			return nil, err
		}
		kinds[string(k)] = true
	}
	client.kindsLock.Lock()
	client.kinds = kinds
	client.kindsLock.Unlock()
	ret := make([]string, 0, len(kinds))
	for k := range kinds {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret, nil
}

func (client *feedClient) readCommands() {
	defer func() {
		client.hub.leave <- client
		client.conn.Close()
	}()
	client.conn.SetReadLimit(4096)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var cmd feedCommand
		if err := client.conn.ReadJSON(&cmd); err != nil {
			var syntaxError *json.SyntaxError
			if errors.As(err, &syntaxError) {
				continue
			}
			log.Printf("Render feed client %d disconnected", client.id)
			return
		}
		switch cmd.Action {
		case "disconnect":
			log.Printf("Render feed client %d left", client.id)
			return
		case "subscribe":
			types, err := client.subscribe(cmd.Types)
			ack := renderEvent{Type: "Subscribed", Types: types, At: time.Now().UTC()}
			if err != nil {
				ack = renderEvent{Type: "Error", Error: err.Error(), At: time.Now().UTC()}
			}
			client.hub.reply(client, ack)
		}
	}
}

// reply sends ev to one client through the hub so that it cannot race a
// disconnect closing the send channel.
func (hub *feedHub) reply(client *feedClient, ev renderEvent) {
	hub.clientsLock.RLock()
	defer hub.clientsLock.RUnlock()
	if _, ok := hub.clients[client]; !ok {
		return
	}
	select {
	case client.send <- ev:
	default:
	}
}

func (client *feedClient) writeEvents() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(ev); err != nil {
				log.Printf("Render feed client %d write failed: %v", client.id, err)
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
