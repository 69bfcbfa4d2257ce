package natsengine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"go.uber.org/zap"
)

// Requester is the part of *nats.Conn the client needs.
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*natsgo.Msg, error)
}

// Client is an engine.Engine backed by a remote engine process.
type Client struct {
	conn    Requester
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
	session uuid.UUID
}

// NewClient creates a client publishing under prefix. Calls whose context has
// no deadline are bounded by timeout.
func NewClient(conn Requester, prefix string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		conn:    conn,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger,
	}
}

// Dial connects to a NATS server and returns a client and a close function.
func Dial(url, prefix string, timeout time.Duration, logger *zap.Logger) (*Client, func(), error) {
	nc, err := natsgo.Connect(url, natsgo.Name("skatdesk"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return NewClient(nc, prefix, timeout, logger), nc.Close, nil
}

func (c *Client) call(ctx context.Context, command string, req Request) (Reply, error) {
	req.Session = c.session.String()
	data, err := jsoniter.Marshal(req)
	if err != nil {
		return Reply{}, fmt.Errorf("encode %s request: %w", command, err)
	}

	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.conn.RequestWithContext(ctx, subject(c.prefix, command), data)
	if err != nil {
		return Reply{}, fmt.Errorf("request %s: %w", command, err)
	}

	var reply Reply
	if err := jsoniter.Unmarshal(msg.Data, &reply); err != nil {
		c.logger.Error("invalid engine reply",
			zap.String("command", command),
			zap.ByteString("data", msg.Data),
		)
		return Reply{}, fmt.Errorf("decode %s reply: %w", command, err)
	}
	if reply.Error != "" {
		return reply, fmt.Errorf("%w: %s", ErrRemote, reply.Error)
	}
	return reply, nil
}

func (c *Client) NewGame(ctx context.Context, sessionID uuid.UUID) error {
	c.session = sessionID
	_, err := c.call(ctx, CmdNewGame, Request{})
	return err
}

func (c *Client) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	reply, err := c.call(ctx, CmdSnapshot, Request{})
	if err != nil {
		return engine.Snapshot{}, err
	}
	if reply.Snapshot == nil {
		return engine.Snapshot{}, fmt.Errorf("%w: snapshot reply without state", ErrRemote)
	}
	return *reply.Snapshot, nil
}

func (c *Client) PlayCard(ctx context.Context, cd card.Card) (bool, error) {
	reply, err := c.call(ctx, CmdPlayCard, Request{Card: &cd})
	return reply.OK, err
}

func (c *Client) AIMove(ctx context.Context) (bool, error) {
	reply, err := c.call(ctx, CmdAIMove, Request{})
	return reply.OK, err
}

func (c *Client) Undo(ctx context.Context) error {
	_, err := c.call(ctx, CmdUndo, Request{})
	return err
}

func (c *Client) FinalizeSelection(ctx context.Context, gameType card.GameType, sidePile [2]card.Card) (bool, error) {
	reply, err := c.call(ctx, CmdFinalizeSelection, Request{GameType: gameType, SidePile: sidePile[:]})
	return reply.OK, err
}

func (c *Client) UpdateGameType(ctx context.Context, gameType card.GameType) error {
	_, err := c.call(ctx, CmdUpdateGameType, Request{GameType: gameType})
	return err
}

func (c *Client) RefreshAnalysis(ctx context.Context) error {
	_, err := c.call(ctx, CmdRefreshAnalysis, Request{})
	return err
}

func (c *Client) RefreshMaxPoints(ctx context.Context) error {
	_, err := c.call(ctx, CmdRefreshMaxPoints, Request{})
	return err
}

func (c *Client) BestSelections(ctx context.Context) ([]engine.Suggestion, error) {
	reply, err := c.call(ctx, CmdBestSelections, Request{})
	return reply.Suggestions, err
}

func (c *Client) AnalyzeMoves(ctx context.Context) ([]engine.MoveAnalysis, error) {
	reply, err := c.call(ctx, CmdAnalyzeMoves, Request{})
	return reply.Analysis, err
}
