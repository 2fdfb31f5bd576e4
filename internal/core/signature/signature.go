// Package signature authenticates ballots. Keys and signatures cross the
// boundary as base64 text and are interpreted on secp256k1, the single
// curve the system is pinned to.
//
// Verify distinguishes two failure modes. Key material that cannot be
// decoded, and signatures that are not valid base64, are errors wrapping
// outcome.ErrMalformedKeyOrSignature. A signature that decodes but does not
// parse as r,s or does not verify is reported as false.
package signature

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	ec "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/example/ballotblock/internal/core/outcome"
)

// CurveName is the pinned curve.
const CurveName = "secp256k1"

const (
	rawPublicKeyLen = 64
	rawSignatureLen = 64
	scalarLen       = 32
)

// Verifier verifies secp256k1 signatures. It holds no state.
type Verifier struct{}

// NewVerifier returns a Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify reports whether signatureB64 is a valid signature over message
// under publicKeyB64.
func (Verifier) Verify(message []byte, signatureB64, publicKeyB64 string) (bool, error) {
	return Verify(message, signatureB64, publicKeyB64)
}

// Verify reports whether signatureB64 is a valid signature over message
// under publicKeyB64.
func Verify(message []byte, signatureB64, publicKeyB64 string) (bool, error) {
	pub, err := ParsePublicKey(publicKeyB64)
	if err != nil {
		return false, err
	}

	sigBytes, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false, outcome.Wrap(outcome.ErrMalformedKeyOrSignature, fmt.Errorf("signature is not base64: %w", err))
	}
	if len(sigBytes) == 0 {
		return false, outcome.Wrap(outcome.ErrMalformedKeyOrSignature, errors.New("signature is empty"))
	}

	sig := parseSignature(sigBytes)
	if sig == nil {
		return false, nil
	}

	return sig.Verify(Digest(message), pub), nil
}

// Digest returns the hash that is signed for message.
func Digest(message []byte) []byte {
	return chainhash.HashB(message)
}

// ParsePublicKey decodes a base64 public key. Compressed (33 bytes),
// uncompressed (65 bytes) and raw X||Y (64 bytes) encodings are accepted.
func ParsePublicKey(publicKeyB64 string) (*btcec.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, outcome.Wrap(outcome.ErrMalformedKeyOrSignature, fmt.Errorf("public key is not base64: %w", err))
	}

	if len(raw) == rawPublicKeyLen {
		raw = append([]byte{0x04}, raw...)
	}

	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, outcome.Wrap(outcome.ErrMalformedKeyOrSignature, fmt.Errorf("public key is not on %s: %w", CurveName, err))
	}
	return pub, nil
}

// NormalizePublicKey returns the canonical encoding of a base64 public key:
// base64 of the compressed point. Equal keys always normalize equally.
func NormalizePublicKey(publicKeyB64 string) (string, error) {
	pub, err := ParsePublicKey(publicKeyB64)
	if err != nil {
		return "", err
	}
	return EncodePublicKey(pub), nil
}

// EncodePublicKey returns base64 of the compressed point.
func EncodePublicKey(pub *btcec.PublicKey) string {
	return base64.StdEncoding.EncodeToString(pub.SerializeCompressed())
}

// parseSignature accepts raw r||s or DER. It returns nil for anything that
// is not a usable r,s pair.
func parseSignature(b []byte) *ec.Signature {
	if sig, err := ec.ParseDERSignature(b); err == nil {
		return sig
	}
	if len(b) != rawSignatureLen {
		return nil
	}

	var r, s btcec.ModNScalar
	if r.SetByteSlice(b[:scalarLen]) || s.SetByteSlice(b[scalarLen:]) {
		return nil
	}
	if r.IsZero() || s.IsZero() {
		return nil
	}
	return ec.NewSignature(&r, &s)
}
