package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/game"
	"github.com/park285/Othello-Nostr-bot/internal/identity"
	"github.com/park285/Othello-Nostr-bot/internal/metrics"
	"github.com/park285/Othello-Nostr-bot/internal/reply"
	"github.com/park285/Othello-Nostr-bot/internal/replylog"
	"github.com/park285/Othello-Nostr-bot/internal/secrets"
)

// Recorder persists signed replies. *replylog.Repository satisfies it.
type Recorder interface {
	Save(ctx context.Context, e replylog.Entry) error
}

type Responder struct {
	secrets    secrets.Store
	secretName string
	engine     *game.Engine
	composer   *reply.Composer
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Responder)

func WithRecorder(r Recorder) Option { return func(rs *Responder) { rs.recorder = r } }

func WithLogger(l *zap.Logger) Option {
	return func(rs *Responder) {
		if l != nil {
			rs.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(rs *Responder) {
		if now != nil {
			rs.now = now
		}
	}
}

func New(store secrets.Store, secretName string, engine *game.Engine, composer *reply.Composer, opts ...Option) *Responder {
	r := &Responder{
		secrets:    store,
		secretName: secretName,
		engine:     engine,
		composer:   composer,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Respond produces the signed reply for in. Any error means nothing was signed.
func (r *Responder) Respond(ctx context.Context, in *event.Event) (*event.Event, error) {
	start := time.Now()
	defer func() { metrics.RequestDuration.Observe(time.Since(start).Seconds()) }()

	log := r.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("event_id", in.ID),
		zap.String("author", in.PubKey),
	)
	log.Info("request_received")

	out, signed, err := r.respond(ctx, in, log)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("error").Inc()
		log.Error("request_failed", zap.Error(err))
		return nil, err
	}
	metrics.RequestsTotal.WithLabelValues(string(out.Kind)).Inc()
	log.Info("reply_signed", zap.String("reply_id", signed.ID), zap.String("classification", string(out.Kind)))

	r.record(ctx, in, out, signed, log)
	return signed, nil
}

func (r *Responder) respond(ctx context.Context, in *event.Event, log *zap.Logger) (*game.Outcome, *event.Event, error) {
	nsec, err := r.secrets.Get(ctx, r.secretName)
	if err != nil {
		return nil, nil, fmt.Errorf("load secret: %w", err)
	}
	signer, err := identity.SignerFromNsec(nsec)
	if err != nil {
		return nil, nil, fmt.Errorf("identity: %w", err)
	}

	out, err := r.engine.Classify(ctx, in, signer.PublicKey())
	if err != nil {
		return nil, nil, fmt.Errorf("classify: %w", err)
	}
	log.Info("classified", zap.String("classification", string(out.Kind)))

	draft := r.composer.Compose(out, in, signer.PublicKey(), r.now())
	if err := signer.Sign(draft); err != nil {
		return nil, nil, fmt.Errorf("sign: %w", err)
	}
	return out, draft, nil
}

func (r *Responder) record(ctx context.Context, in *event.Event, out *game.Outcome, signed *event.Event, log *zap.Logger) {
	if r.recorder == nil {
		return
	}
	entry, err := replylog.NewEntry(in, out, signed)
	if err == nil {
		err = r.recorder.Save(ctx, entry)
	}
	if err != nil {
		log.Warn("reply_log_failed", zap.Error(err))
	}
}
