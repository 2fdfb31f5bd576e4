package signature

import (
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	ec "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/example/ballotblock/internal/core/outcome"
)

// KeyPair is a voter or creator identity. Only the public half is ever
// sent to the server.
type KeyPair struct {
	PrivateKey *btcec.PrivateKey
	PublicKey  *btcec.PublicKey
}

// GenerateKey creates a fresh key pair on the pinned curve.
func GenerateKey() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &KeyPair{PrivateKey: priv, PublicKey: priv.PubKey()}, nil
}

// ParsePrivateKey decodes a base64 32-byte private scalar.
func ParsePrivateKey(privateKeyB64 string) (*KeyPair, error) {
	raw, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, outcome.Wrap(outcome.ErrMalformedKeyOrSignature, fmt.Errorf("private key is not base64: %w", err))
	}
	if len(raw) != scalarLen {
		return nil, outcome.Wrap(outcome.ErrMalformedKeyOrSignature, fmt.Errorf("private key must be %d bytes, got %d", scalarLen, len(raw)))
	}
	priv, pub := btcec.PrivKeyFromBytes(raw)
	return &KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// PrivateKeyBase64 returns the base64 private scalar.
func (k *KeyPair) PrivateKeyBase64() string {
	return base64.StdEncoding.EncodeToString(k.PrivateKey.Serialize())
}

// PublicKeyBase64 returns the base64 compressed public key.
func (k *KeyPair) PublicKeyBase64() string {
	return EncodePublicKey(k.PublicKey)
}

// Sign returns the base64 DER signature of message.
func (k *KeyPair) Sign(message []byte) string {
	sig := ec.Sign(k.PrivateKey, Digest(message))
	return base64.StdEncoding.EncodeToString(sig.Serialize())
}
