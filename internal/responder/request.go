package responder

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/park285/Othello-Nostr-bot/internal/event"
)

var ErrBadRequest = errors.New("bad request")

// envelope is the function-URL request shape: the event JSON travels in Body,
// base64-encoded when IsBase64Encoded is set.
type envelope struct {
	Body            *string `json:"body"`
	IsBase64Encoded bool    `json:"isBase64Encoded"`
}

// DecodeRequest accepts either an envelope or a bare event object.
func DecodeRequest(raw []byte) (*event.Event, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrBadRequest)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	payload := raw
	if env.Body != nil {
		payload = []byte(*env.Body)
		if env.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(*env.Body)
			if err != nil {
				return nil, fmt.Errorf("%w: body base64: %v", ErrBadRequest, err)
			}
			payload = decoded
		}
	}

	var ev event.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: event: %v", ErrBadRequest, err)
	}
	if ev.ID == "" || ev.PubKey == "" {
		return nil, fmt.Errorf("%w: event needs id and pubkey", ErrBadRequest)
	}
	return &ev, nil
}
