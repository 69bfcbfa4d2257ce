package natsengine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"go.uber.org/zap"
)

// Responder answers engine commands from a local engine.
type Responder struct {
	engine  engine.Engine
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewResponder creates a responder for subjects under prefix.
func NewResponder(e engine.Engine, prefix string, timeout time.Duration, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{
		engine:  e,
		prefix:  prefix,
		timeout: timeout,
		logger:  logger,
	}
}

// Serve subscribes to all command subjects on nc. Unsubscribe the returned
// subscription to stop serving.
func (r *Responder) Serve(nc *natsgo.Conn) (*natsgo.Subscription, error) {
	sub, err := nc.Subscribe(r.prefix+".>", func(msg *natsgo.Msg) {
		if err := msg.Respond(r.Handle(msg.Subject, msg.Data)); err != nil {
			r.logger.Error("failed to respond", zap.String("subject", msg.Subject), zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s.>: %w", r.prefix, err)
	}
	r.logger.Info("serving engine commands", zap.String("subjects", r.prefix+".>"))
	return sub, nil
}

// Handle decodes one request, runs it and returns the encoded reply.
func (r *Responder) Handle(subj string, data []byte) []byte {
	command := strings.TrimPrefix(subj, r.prefix+".")
	reply := r.dispatch(command, data)
	out, err := jsoniter.Marshal(reply)
	if err != nil {
		r.logger.Error("failed to encode reply", zap.String("command", command), zap.Error(err))
		out, _ = jsoniter.Marshal(Reply{Error: err.Error()})
	}
	return out
}

func (r *Responder) dispatch(command string, data []byte) Reply {
	var req Request
	if err := jsoniter.Unmarshal(data, &req); err != nil {
		r.logger.Warn("invalid engine request", zap.String("command", command), zap.Error(err))
		return Reply{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var (
		reply Reply
		err   error
	)
	switch command {
	case CmdNewGame:
		var id uuid.UUID
		id, err = uuid.Parse(req.Session)
		if err == nil {
			err = r.engine.NewGame(ctx, id)
		}
	case CmdSnapshot:
		var snap engine.Snapshot
		snap, err = r.engine.Snapshot(ctx)
		reply.Snapshot = &snap
	case CmdPlayCard:
		if req.Card == nil {
			return Reply{Error: "play_card requires a card"}
		}
		reply.OK, err = r.engine.PlayCard(ctx, *req.Card)
	case CmdAIMove:
		reply.OK, err = r.engine.AIMove(ctx)
	case CmdUndo:
		err = r.engine.Undo(ctx)
	case CmdFinalizeSelection:
		if len(req.SidePile) != 2 {
			return Reply{Error: "finalize_selection requires two side pile cards"}
		}
		reply.OK, err = r.engine.FinalizeSelection(ctx, req.GameType, [2]card.Card{req.SidePile[0], req.SidePile[1]})
	case CmdUpdateGameType:
		err = r.engine.UpdateGameType(ctx, req.GameType)
	case CmdRefreshAnalysis:
		err = r.engine.RefreshAnalysis(ctx)
	case CmdRefreshMaxPoints:
		err = r.engine.RefreshMaxPoints(ctx)
	case CmdBestSelections:
		reply.Suggestions, err = r.engine.BestSelections(ctx)
	case CmdAnalyzeMoves:
		reply.Analysis, err = r.engine.AnalyzeMoves(ctx)
	default:
		r.logger.Warn("unhandled engine command", zap.String("command", command))
		return Reply{Error: fmt.Sprintf("unknown command %q", command)}
	}

	if err != nil {
		r.logger.Debug("engine command failed",
			zap.String("command", command),
			zap.String("session", req.Session),
			zap.Error(err),
		)
		return Reply{Error: err.Error()}
	}
	return reply
}
