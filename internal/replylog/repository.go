package replylog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/game"
)

const schema = `CREATE TABLE IF NOT EXISTS bot_replies (
    reply_id       TEXT PRIMARY KEY,
    request_id     TEXT NOT NULL,
    request_author TEXT NOT NULL,
    prior_id       TEXT NOT NULL DEFAULT '',
    classification TEXT NOT NULL,
    move           TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL,
    raw            JSONB NOT NULL
)`

// Entry is one signed reply as stored.
type Entry struct {
	ReplyID        string
	RequestID      string
	RequestAuthor  string
	PriorID        string
	Classification game.Classification
	Move           string
	CreatedAt      time.Time
	Raw            []byte
}

// NewEntry flattens a handled request into a row.
func NewEntry(in *event.Event, out *game.Outcome, signed *event.Event) (Entry, error) {
	if in == nil || out == nil || signed == nil {
		return Entry{}, fmt.Errorf("replylog: incomplete entry")
	}
	raw, err := signed.Marshal()
	if err != nil {
		return Entry{}, fmt.Errorf("marshal reply: %w", err)
	}
	e := Entry{
		ReplyID:        signed.ID,
		RequestID:      in.ID,
		RequestAuthor:  in.PubKey,
		Classification: out.Kind,
		CreatedAt:      time.Unix(signed.CreatedAt, 0).UTC(),
		Raw:            raw,
	}
	if out.Prior != nil {
		e.PriorID = out.Prior.ID
	}
	if out.Move != nil {
		e.Move = out.Move.String()
	}
	return e, nil
}

// Repository records every reply the bot signs in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create bot_replies: %w", err)
	}
	return nil
}

// Save upserts by reply id, so replaying a request overwrites its row.
func (r *Repository) Save(ctx context.Context, e Entry) error {
	if r == nil || r.db == nil {
		return nil
	}
	q := `INSERT INTO bot_replies (
        reply_id, request_id, request_author, prior_id,
        classification, move, created_at, raw
      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      ON CONFLICT (reply_id) DO UPDATE SET
        request_id=EXCLUDED.request_id,
        request_author=EXCLUDED.request_author,
        prior_id=EXCLUDED.prior_id,
        classification=EXCLUDED.classification,
        move=EXCLUDED.move,
        created_at=EXCLUDED.created_at,
        raw=EXCLUDED.raw`

	_, err := r.db.ExecContext(ctx, q,
		e.ReplyID, e.RequestID, e.RequestAuthor, e.PriorID,
		string(e.Classification), e.Move, e.CreatedAt, string(e.Raw),
	)
	return err
}
