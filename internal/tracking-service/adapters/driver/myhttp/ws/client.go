package ws

import (
	"context"
	"encoding/json"

	websocketdto "tourguard/internal/tracking-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

const egressBuffer = 32

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan websocketdto.Event
	tripID string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, tripID string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		dis:    dis,
		egress: make(chan websocketdto.Event, egressBuffer),
		tripID: tripID,
	}
}

// ReadMessage drains the connection. Watchers are read-only; inbound
// payloads are discarded, the loop only notices disconnects.
func (c *Client) ReadMessage() {
	defer c.dis.removeClient(c)
	c.conn.SetReadLimit(1024)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.dis.log.Action("readMessage").Warn("watcher closed abnormally", "trip_id", c.tripID)
			}
			break
		}
	}
}

func (c *Client) WriteMessage() {
	defer c.dis.removeClient(c)

	for {
		select {
		case <-c.ctx.Done():
			return
		case event, ok := <-c.egress:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
