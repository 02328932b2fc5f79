package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	secretKeyPrefix = "nsec"
	publicKeyPrefix = "npub"
	keySize         = 32
)

var (
	ErrInvalidSecret    = errors.New("invalid nsec")
	ErrInvalidSignature = errors.New("invalid event signature")
)

// DecodeSecretKey turns an "nsec1..." string into a secp256k1 private key.
func DecodeSecretKey(nsec string) (*btcec.PrivateKey, error) {
	hrp, data, err := bech32.Decode(strings.TrimSpace(nsec))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if hrp != secretKeyPrefix {
		return nil, fmt.Errorf("%w: type %q", ErrInvalidSecret, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrInvalidSecret, len(raw), keySize)
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: payload is not a valid scalar", ErrInvalidSecret)
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return priv, nil
}

// EncodeSecretKey is the inverse of DecodeSecretKey.
func EncodeSecretKey(priv *btcec.PrivateKey) (string, error) {
	return encode(secretKeyPrefix, priv.Serialize())
}

// EncodePublicKey renders a 32-byte x-only public key as "npub1...".
func EncodePublicKey(xonly []byte) (string, error) {
	if len(xonly) != keySize {
		return "", fmt.Errorf("public key is %d bytes, want %d", len(xonly), keySize)
	}
	return encode(publicKeyPrefix, xonly)
}

func encode(hrp string, raw []byte) (string, error) {
	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, data)
}
