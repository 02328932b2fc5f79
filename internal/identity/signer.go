package identity

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/park285/Othello-Nostr-bot/internal/event"
)

// Signer holds the bot's key and signs outgoing events with BIP-340 Schnorr.
type Signer struct {
	priv   *btcec.PrivateKey
	pubHex string
}

func NewSigner(priv *btcec.PrivateKey) *Signer {
	return &Signer{
		priv:   priv,
		pubHex: hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey())),
	}
}

// SignerFromNsec decodes the secret and derives the signing identity.
func SignerFromNsec(nsec string) (*Signer, error) {
	priv, err := DecodeSecretKey(nsec)
	if err != nil {
		return nil, err
	}
	return NewSigner(priv), nil
}

// PublicKey returns the x-only public key as lowercase hex.
func (s *Signer) PublicKey() string { return s.pubHex }

// Sign fills PubKey, ID and Sig of ev.
func (s *Signer) Sign(ev *event.Event) error {
	ev.PubKey = s.pubHex
	id, err := ev.Hash()
	if err != nil {
		return err
	}
	digest, _ := hex.DecodeString(id)
	sig, err := schnorr.Sign(s.priv, digest)
	if err != nil {
		return fmt.Errorf("schnorr sign: %w", err)
	}
	ev.ID = id
	ev.Sig = hex.EncodeToString(sig.Serialize())
	return nil
}

// Verify checks that ev.ID matches its content and that ev.Sig is valid for ev.PubKey.
func Verify(ev *event.Event) error {
	id, err := ev.Hash()
	if err != nil {
		return err
	}
	if id != ev.ID {
		return fmt.Errorf("%w: id mismatch", ErrInvalidSignature)
	}
	pubRaw, err := hex.DecodeString(ev.PubKey)
	if err != nil {
		return fmt.Errorf("%w: pubkey: %v", ErrInvalidSignature, err)
	}
	pub, err := schnorr.ParsePubKey(pubRaw)
	if err != nil {
		return fmt.Errorf("%w: pubkey: %v", ErrInvalidSignature, err)
	}
	sigRaw, err := hex.DecodeString(ev.Sig)
	if err != nil {
		return fmt.Errorf("%w: sig: %v", ErrInvalidSignature, err)
	}
	sig, err := schnorr.ParseSignature(sigRaw)
	if err != nil {
		return fmt.Errorf("%w: sig: %v", ErrInvalidSignature, err)
	}
	digest, _ := hex.DecodeString(id)
	if !sig.Verify(digest, pub) {
		return ErrInvalidSignature
	}
	return nil
}

// Generate creates a fresh random signing key.
func Generate() (*Signer, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return NewSigner(priv), nil
}

// Secret returns the nsec form of the signer's key.
func (s *Signer) Secret() (string, error) { return EncodeSecretKey(s.priv) }

// Npub returns the bech32 form of the public key.
func (s *Signer) Npub() (string, error) {
	raw, _ := hex.DecodeString(s.pubHex)
	return EncodePublicKey(raw)
}
