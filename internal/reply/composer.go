package reply

import (
	"time"

	"github.com/park285/Othello-Nostr-bot/internal/board"
	"github.com/park285/Othello-Nostr-bot/internal/event"
	"github.com/park285/Othello-Nostr-bot/internal/game"
	"github.com/park285/Othello-Nostr-bot/internal/msgcat"
)

const fallbackHelp = "Something wrong."

// Composer turns an engine outcome into an unsigned reply event.
type Composer struct {
	codec   *board.Codec
	catalog *msgcat.Catalog
}

func NewComposer(codec *board.Codec, catalog *msgcat.Catalog) *Composer {
	if codec == nil {
		codec = board.DefaultCodec
	}
	return &Composer{codec: codec, catalog: catalog}
}

// Compose builds the draft. A new game roots a thread at the inbound message;
// every other reply is marked "reply". ID and Sig are left for the signer.
func (c *Composer) Compose(out *game.Outcome, in *event.Event, author string, now time.Time) *event.Event {
	marker := event.MarkerReply
	if out.Kind == game.StartGame {
		marker = event.MarkerRoot
	}

	content := c.catalog.Text(msgcat.KeyHelp, nil, fallbackHelp)
	if out.State != nil && out.Kind != game.Help {
		content = c.codec.Encode(*out.State)
	}

	return &event.Event{
		PubKey:    author,
		CreatedAt: now.Unix(),
		Kind:      event.KindTextNote,
		Tags: event.Tags{
			{event.TagEvent, in.ID, "", marker},
			{event.TagPubKey, in.PubKey},
		},
		Content: content,
	}
}
