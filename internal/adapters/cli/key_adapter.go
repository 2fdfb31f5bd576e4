package cli

import (
	"fmt"
	"io"

	"github.com/example/ballotblock/internal/core/signature"
)

// KeyAdapter renders voter key material.
type KeyAdapter struct {
	out io.Writer
}

// NewKeyAdapter creates a new KeyAdapter.
func NewKeyAdapter(out io.Writer) *KeyAdapter {
	return &KeyAdapter{out: out}
}

// Generate creates a fresh key pair and prints it.
func (a *KeyAdapter) Generate() (*signature.KeyPair, error) {
	key, err := signature.GenerateKey()
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "Curve:       %s\n", signature.CurveName)
	fmt.Fprintf(a.out, "Private key: %s\n", key.PrivateKeyBase64())
	fmt.Fprintf(a.out, "Public key:  %s\n", key.PublicKeyBase64())
	return key, nil
}
