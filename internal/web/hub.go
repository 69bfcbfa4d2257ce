// Package web is the browser front end: a websocket hub that streams render
// calls to every connected page and feeds their input back to the table.
// The page served at / replays that stream; any other client can speak the
// same protocol on /ws.
package web

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/table"
	"go.uber.org/zap"
)

// Dispatcher accepts table events from any goroutine.
type Dispatcher interface {
	Dispatch(ev table.Event)
}

// Message types on the wire.
const (
	MsgSync  = "sync"
	MsgOp    = "op"
	MsgEvent = "event"
	MsgError = "error"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data,omitempty"`
}

// direct is a message for a single client.
type direct struct {
	client *Client
	msg    []byte
}

// Hub tracks connected clients. New clients are brought up to date from the
// board, after which they receive every render call as it happens.
type Hub struct {
	board    *render.Board
	dispatch Dispatcher
	logger   *zap.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan direct
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a hub replaying b to new clients and sending their input to d.
func NewHub(b *render.Board, d Dispatcher, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		board:      b,
		dispatch:   d,
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		direct:     make(chan direct, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetDispatcher sets where client input goes. Call it before serving.
func (h *Hub) SetDispatcher(d Dispatcher) {
	h.dispatch = d
}

// Sink returns the render sink that broadcasts to all clients. Combine it
// with the board using render.Multi, board first.
func (h *Hub) Sink() render.Sink {
	return render.OpFunc(h.Publish)
}

// Publish broadcasts one render call. It never blocks the caller for long:
// once the hub has stopped, calls are dropped.
func (h *Hub) Publish(op render.Op) {
	msg, err := encode(MsgOp, op)
	if err != nil {
		h.logger.Error("failed to encode render op", zap.String("op", string(op.Kind)), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Run serves registrations and broadcasts until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			metrics.Metrics.SetWebClients(0)
			return

		case client := <-h.register:
			h.clients[client] = true
			metrics.Metrics.SetWebClients(len(h.clients))
			h.logger.Info("client registered", zap.String("remote", client.remote), zap.Int("clients", len(h.clients)))
			h.sync(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Metrics.SetWebClients(len(h.clients))
				h.logger.Info("client unregistered", zap.String("remote", client.remote), zap.Int("clients", len(h.clients)))
			}

		case r := <-h.direct:
			if _, ok := h.clients[r.client]; !ok {
				continue
			}
			select {
			case r.client.send <- r.msg:
			default:
				h.logger.Debug("client send buffer full", zap.String("remote", r.client.remote))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn("dropping slow client", zap.String("remote", client.remote))
					close(client.send)
					delete(h.clients, client)
					metrics.Metrics.SetWebClients(len(h.clients))
				}
			}
		}
	}
}

func (h *Hub) sync(client *Client) {
	msg, err := encode(MsgSync, h.board.Ops())
	if err != nil {
		h.logger.Error("failed to encode board", zap.Error(err))
		return
	}
	client.send <- msg
}

func encode(typ string, data any) ([]byte, error) {
	raw, err := jsoniter.Marshal(data)
	if err != nil {
		return nil, err
	}
	return jsoniter.Marshal(Message{Type: typ, Data: raw})
}
