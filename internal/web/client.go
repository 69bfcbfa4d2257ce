package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/table"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // single local table, any page may drive it
	},
}

// Client is one websocket connection.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

// wireEvent is the JSON form of table.Event.
type wireEvent struct {
	Kind     string `json:"kind"`
	Card     string `json:"card,omitempty"`
	GameType string `json:"game_type,omitempty"`
	Index    int    `json:"index,omitempty"`
}

var errUnknownEvent = errors.New("unknown event")

// decodeEvent turns an event payload into a table event.
func decodeEvent(data []byte) (table.Event, error) {
	var w wireEvent
	if err := jsoniter.Unmarshal(data, &w); err != nil {
		return table.Event{}, fmt.Errorf("invalid event: %w", err)
	}
	ev := table.Event{Kind: table.EventKind(w.Kind), Index: w.Index}
	switch ev.Kind {
	case table.EventSelectCard:
		c, err := card.Parse(w.Card)
		if err != nil {
			return table.Event{}, err
		}
		ev.Card = c
	case table.EventSelectGameType:
		gt, err := card.ParseGameType(w.GameType)
		if err != nil {
			return table.Event{}, err
		}
		ev.GameType = gt
	case table.EventCycleGameType, table.EventBestSelection, table.EventApplySuggestion,
		table.EventFinalize, table.EventHint, table.EventUndo, table.EventNewGame, table.EventToggleReveal:
	default:
		return table.Event{}, fmt.Errorf("%w %q", errUnknownEvent, w.Kind)
	}
	return ev, nil
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				hub.logger.Warn("websocket read failed", zap.String("remote", c.remote), zap.Error(err))
			}
			return
		}

		var msg Message
		if err := jsoniter.Unmarshal(message, &msg); err != nil {
			hub.logger.Debug("error unmarshaling message", zap.String("remote", c.remote), zap.Error(err))
			c.reply(hub, err)
			continue
		}
		if msg.Type != MsgEvent {
			c.reply(hub, fmt.Errorf("unexpected message type %q", msg.Type))
			continue
		}
		ev, err := decodeEvent(msg.Data)
		if err != nil {
			c.reply(hub, err)
			continue
		}
		hub.dispatch.Dispatch(ev)
	}
}

// reply sends an error to this client only. The hub owns the send channel,
// so the message goes through it.
func (c *Client) reply(hub *Hub, err error) {
	msg, encErr := encode(MsgError, err.Error())
	if encErr != nil {
		return
	}
	select {
	case hub.direct <- direct{client: c, msg: msg}:
	case <-hub.done:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		remote: r.RemoteAddr,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
