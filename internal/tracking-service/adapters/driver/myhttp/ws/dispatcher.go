package ws

import (
	"net/http"
	"sync"

	"tourguard/internal/mylogger"

	websocketdto "tourguard/internal/tracking-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Dispatcher fans tracking events out to everyone watching a trip. A slow
// watcher gets dropped rather than backpressuring the ingestion path.
type Dispatcher struct {
	watchers map[string]map[*Client]bool // trip id -> clients
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		watchers: make(map[string]map[*Client]bool),
		log:      log,
	}
}

// WatchHandler upgrades the request and subscribes the connection to one
// trip's event stream.
func (d *Dispatcher) WatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := d.log.Action("watchHandler")
		tripID := r.PathValue("trip_id")

		if tripID == "" {
			w.WriteHeader(http.StatusBadRequest)
			log.Warn("watch request without trip id")
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(r.Context(), conn, d, tripID)
		d.addClient(client)
		log.Info("watcher connected", "trip_id", tripID)

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

// NotifyTrip queues an event for every watcher of the trip. Never blocks.
func (d *Dispatcher) NotifyTrip(tripID string, event websocketdto.Event) {
	d.RLock()
	clients := make([]*Client, 0, len(d.watchers[tripID]))
	for c := range d.watchers[tripID] {
		clients = append(clients, c)
	}
	d.RUnlock()

	for _, c := range clients {
		select {
		case c.egress <- event:
		default:
			d.log.Action("notifyTrip").Warn("dropping slow watcher", "trip_id", tripID)
			d.removeClient(c)
		}
	}
}

func (d *Dispatcher) addClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if d.watchers[client.tripID] == nil {
		d.watchers[client.tripID] = make(map[*Client]bool)
	}
	d.watchers[client.tripID][client] = true
}

func (d *Dispatcher) removeClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if clients, ok := d.watchers[client.tripID]; ok {
		if clients[client] {
			delete(clients, client)
			client.conn.Close()
		}
		if len(clients) == 0 {
			delete(d.watchers, client.tripID)
		}
	}
}
