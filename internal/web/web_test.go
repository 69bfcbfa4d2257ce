package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chanDispatcher chan table.Event

func (c chanDispatcher) Dispatch(ev table.Event) { c <- ev }

func startHub(t *testing.T, b *render.Board) (*Hub, chanDispatcher, *httptest.Server) {
	t.Helper()
	d := make(chanDispatcher, 8)
	hub := NewHub(b, d, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, d, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, jsoniter.Unmarshal(data, &msg))
	return msg
}

func TestNewClientReceivesBoard(t *testing.T) {
	b := render.NewBoard()
	b.FaceDown(render.AreaLeft, 10)
	b.Text(render.RegionStatus, "Your Turn (Declarer)")
	_, _, srv := startHub(t, b)

	msg := read(t, dial(t, srv))
	require.Equal(t, MsgSync, msg.Type)

	var ops []render.Op
	require.NoError(t, jsoniter.Unmarshal(msg.Data, &ops))
	replay := render.NewBoard()
	for _, op := range ops {
		render.Apply(replay, op)
	}
	assert.Equal(t, 10, replay.FaceDownCount(render.AreaLeft))
	assert.Equal(t, "Your Turn (Declarer)", replay.TextOf(render.RegionStatus))
}

func TestRenderCallsAreBroadcast(t *testing.T) {
	b := render.NewBoard()
	hub, _, srv := startHub(t, b)
	conn := dial(t, srv)
	require.Equal(t, MsgSync, read(t, conn).Type)

	sink := render.Multi(b, hub.Sink())
	sink.PlaceTrick(1, render.Token{Card: card.MustParse("HT"), Owner: card.AIRight}, render.SideStart(card.AIRight))

	msg := read(t, conn)
	require.Equal(t, MsgOp, msg.Type)
	var op render.Op
	require.NoError(t, jsoniter.Unmarshal(msg.Data, &op))
	assert.Equal(t, render.OpPlaceTrick, op.Kind)
	assert.Equal(t, 1, op.Slot)
	require.NotNil(t, op.Token)
	assert.Equal(t, card.MustParse("HT"), op.Token.Card)
	assert.Equal(t, card.AIRight, op.Token.Owner)
}

func TestClientEventsAreDispatched(t *testing.T) {
	_, d, srv := startHub(t, render.NewBoard())
	conn := dial(t, srv)
	require.Equal(t, MsgSync, read(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"event","data":{"kind":"select_card","card":"CJ"}}`)))

	select {
	case ev := <-d:
		assert.Equal(t, table.Event{Kind: table.EventSelectCard, Card: card.MustParse("CJ")}, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("event not dispatched")
	}
}

func TestBadEventGetsError(t *testing.T) {
	_, d, srv := startHub(t, render.NewBoard())
	conn := dial(t, srv)
	require.Equal(t, MsgSync, read(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"event","data":{"kind":"select_card","card":"ZZ"}}`)))

	assert.Equal(t, MsgError, read(t, conn).Type)
	assert.Empty(t, d)
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    table.Event
		wantErr bool
	}{
		{"game type", `{"kind":"select_game_type","game_type":"Grand"}`, table.Event{Kind: table.EventSelectGameType, GameType: card.GameGrand}, false},
		{"suggestion", `{"kind":"apply_suggestion","index":2}`, table.Event{Kind: table.EventApplySuggestion, Index: 2}, false},
		{"undo", `{"kind":"undo"}`, table.Event{Kind: table.EventUndo}, false},
		{"unknown kind", `{"kind":"shuffle"}`, table.Event{}, true},
		{"bad game type", `{"kind":"select_game_type","game_type":"Bridge"}`, table.Event{}, true},
		{"not json", `{`, table.Event{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := decodeEvent([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestStateEndpoint(t *testing.T) {
	b := render.NewBoard()
	b.Text(render.RegionGameType, "Game: Clubs")
	_, _, srv := startHub(t, b)

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Game: Clubs")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	_, _, srv := startHub(t, render.NewBoard())

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"/ws"`)
	assert.Contains(t, string(body), "select_card")

	resp, err = http.Get(srv.URL + "/favicon.ico")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
