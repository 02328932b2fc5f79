package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/identity"
	"github.com/park285/Othello-Nostr-bot/internal/metrics"
)

const (
	defaultTimeout = 5 * time.Second
	readLimit      = 1 << 20
)

var (
	ErrNoRelays        = errors.New("no relays configured")
	ErrAllRelaysFailed = errors.New("all relays failed")
)

type filter struct {
	IDs []string `json:"ids"`
}

// Pool looks events up across a fixed set of relays.
type Pool struct {
	relays  []string
	timeout time.Duration
	logger  *zap.Logger
}

type Option func(*Pool)

func WithTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewPool(relays []string, opts ...Option) *Pool {
	p := &Pool{
		relays:  append([]string(nil), relays...),
		timeout: defaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Relays() []string { return append([]string(nil), p.relays...) }

type fetchResult struct {
	relay string
	ev    *event.Event
	err   error
}

// FetchByID asks every relay for id and returns the first verified match.
// It returns nil, nil when at least one relay finished without the event, and
// ErrAllRelaysFailed when none could answer. Every connection is closed
// before it returns.
func (p *Pool) FetchByID(ctx context.Context, id string) (*event.Event, error) {
	if len(p.relays) == 0 {
		return nil, ErrNoRelays
	}
	qctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan fetchResult, len(p.relays))
	var wg sync.WaitGroup
	for _, url := range p.relays {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			ev, err := p.query(qctx, url, id)
			results <- fetchResult{relay: url, ev: ev, err: err}
		}(url)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		found    *event.Event
		answered int
		errs     []error
	)
	for r := range results {
		switch {
		case r.ev != nil:
			if found == nil {
				found = r.ev
				p.logger.Debug("relay_fetch_hit", zap.String("relay", r.relay), zap.String("id", id))
				cancel()
			}
		case r.err != nil:
			if found == nil {
				p.logger.Warn("relay_fetch_error", zap.String("relay", r.relay), zap.String("id", id), zap.Error(r.err))
				errs = append(errs, r.err)
			}
		default:
			answered++
		}
	}

	switch {
	case found != nil:
		metrics.RelayFetchTotal.WithLabelValues("found").Inc()
		return found, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case answered > 0:
		metrics.RelayFetchTotal.WithLabelValues("missing").Inc()
		return nil, nil
	default:
		metrics.RelayFetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrAllRelaysFailed, errors.Join(errs...))
	}
}

func (p *Pool) query(ctx context.Context, url, id string) (*event.Event, error) {
	qctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, _, err := websocket.Dial(qctx, url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")
	conn.SetReadLimit(readLimit)

	sub := uuid.NewString()
	if err := wsjson.Write(qctx, conn, []any{"REQ", sub, filter{IDs: []string{id}}}); err != nil {
		return nil, fmt.Errorf("send REQ to %s: %w", url, err)
	}
	defer func() {
		cctx, ccancel := context.WithTimeout(context.Background(), time.Second)
		defer ccancel()
		_ = wsjson.Write(cctx, conn, []any{"CLOSE", sub})
	}()

	for {
		var frame []json.RawMessage
		if err := wsjson.Read(qctx, conn, &frame); err != nil {
			return nil, fmt.Errorf("read from %s: %w", url, err)
		}
		if len(frame) < 2 {
			continue
		}
		var kind, frameSub string
		if err := json.Unmarshal(frame[0], &kind); err != nil {
			continue
		}
		_ = json.Unmarshal(frame[1], &frameSub)

		switch kind {
		case "EVENT":
			if frameSub != sub || len(frame) < 3 {
				continue
			}
			var ev event.Event
			if err := json.Unmarshal(frame[2], &ev); err != nil {
				p.logger.Debug("relay_bad_event", zap.String("relay", url), zap.Error(err))
				continue
			}
			if ev.ID != id {
				continue
			}
			if err := identity.Verify(&ev); err != nil {
				p.logger.Warn("relay_unverified_event", zap.String("relay", url), zap.String("id", id), zap.Error(err))
				continue
			}
			return &ev, nil
		case "EOSE":
			if frameSub == sub {
				return nil, nil
			}
		case "CLOSED":
			if frameSub == sub {
				reason := ""
				if len(frame) > 2 {
					_ = json.Unmarshal(frame[2], &reason)
				}
				return nil, fmt.Errorf("%s closed subscription: %s", url, strings.TrimSpace(reason))
			}
		case "NOTICE":
			p.logger.Debug("relay_notice", zap.String("relay", url), zap.ByteString("notice", frame[1]))
		}
	}
}
