package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/Othello-Nostr-bot/internal/board"
	"github.com/park285/Othello-Nostr-bot/internal/event"
)

// Classification is what the bot does with an inbound message.
type Classification string

const (
	StartGame    Classification = "start"
	ContinueGame Classification = "continue"
	Help         Classification = "help"
)

// Lookup fetches a previously published event; nil means not found.
type Lookup interface {
	FetchByID(ctx context.Context, id string) (*event.Event, error)
}

// Outcome is the engine's decision for one inbound message.
// State is set for StartGame and ContinueGame, Move only for ContinueGame.
type Outcome struct {
	Kind  Classification
	Prior *event.Event
	Move  *board.Move
	State *board.State
}

type Engine struct {
	lookup Lookup
	codec  *board.Codec
	logger *zap.Logger
}

func NewEngine(lookup Lookup, codec *board.Codec, logger *zap.Logger) *Engine {
	if codec == nil {
		codec = board.DefaultCodec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{lookup: lookup, codec: codec, logger: logger}
}

func (e *Engine) Codec() *board.Codec { return e.codec }

// Classify decides how to answer in, given the bot's own public key self.
//
// A reply into someone else's thread, or into an event no relay has, starts a
// fresh game. Only a reply to one of the bot's own boards can continue one.
func (e *Engine) Classify(ctx context.Context, in *event.Event, self string) (*Outcome, error) {
	prior, err := e.prior(ctx, in)
	if err != nil {
		return nil, err
	}
	if prior == nil || prior.PubKey != self {
		initial := board.Initial()
		return &Outcome{Kind: StartGame, Prior: prior, State: &initial}, nil
	}

	mv, ok := board.ParseMove(in.Content)
	if !ok {
		return &Outcome{Kind: Help, Prior: prior}, nil
	}

	state, err := e.codec.Decode(prior.Content)
	if err != nil {
		return nil, fmt.Errorf("decode board %s: %w", prior.ID, err)
	}
	state.Place(mv)
	e.logger.Debug("move_applied",
		zap.String("prior_id", prior.ID),
		zap.String("move", mv.String()),
		zap.String("next", state.Next.String()),
	)
	return &Outcome{Kind: ContinueGame, Prior: prior, Move: &mv, State: &state}, nil
}

func (e *Engine) prior(ctx context.Context, in *event.Event) (*event.Event, error) {
	id, ok := event.ReplyTarget(in)
	if !ok {
		return nil, nil
	}
	e.logger.Debug("reply_to_resolved", zap.String("reply_to", id))
	if id == "" || e.lookup == nil {
		return nil, nil
	}
	prior, err := e.lookup.FetchByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	return prior, nil
}
