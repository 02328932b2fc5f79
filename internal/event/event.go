package event

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

const (
	KindTextNote = 1
)

const (
	TagEvent    = "e"
	TagPubKey   = "p"
	MarkerRoot  = "root"
	MarkerReply = "reply"
)

// Tag is a reference tuple: name, value, then optional relay hint and marker.
type Tag []string

func (t Tag) at(i int) string {
	if i < len(t) {
		return t[i]
	}
	return ""
}

func (t Tag) Name() string   { return t.at(0) }
func (t Tag) Value() string  { return t.at(1) }
func (t Tag) Relay() string  { return t.at(2) }
func (t Tag) Marker() string { return t.at(3) }

type Tags []Tag

// Event is a NIP-01 event.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      int    `json:"kind"`
	Tags      Tags   `json:"tags"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// Serialize returns the canonical array that the event id is hashed from.
func (e *Event) Serialize() ([]byte, error) {
	tags := e.Tags
	if tags == nil {
		tags = Tags{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{0, e.PubKey, e.CreatedAt, e.Kind, tags, e.Content}); err != nil {
		return nil, fmt.Errorf("serialize event: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Hash returns the hex sha256 of the canonical serialization.
func (e *Event) Hash() (string, error) {
	raw, err := e.Serialize()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Marshal renders the event as wire JSON without HTML escaping.
func (e *Event) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	cp := *e
	if cp.Tags == nil {
		cp.Tags = Tags{}
	}
	if err := enc.Encode(&cp); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
