package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/hkdf"
)

const hkdfInfoSigning = "claimd/identity/signing/v1"

var ErrBadKeyLength = errors.New("secret key must decode to 32 or 64 bytes")

// Derive builds an Identity from raw secret material. A 64-byte block is
// used as the Ed25519 private key directly; a 32-byte block is expanded as
// a seed. Deterministic, no side effects.
func Derive(secret []byte) (Identity, error) {
	var priv ed25519.PrivateKey
	switch len(secret) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(secret)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(append([]byte(nil), secret...))
	default:
		return Identity{}, fmt.Errorf("%w: got %d", ErrBadKeyLength, len(secret))
	}
	pub := priv.Public().(ed25519.PublicKey)
	return Identity{
		privateKey: priv,
		PublicKey:  pub,
		WalletID:   base58.Encode(pub),
	}, nil
}

// seedFromMnemonicBytes compresses a BIP-39 seed (64 bytes) into the
// 32-byte signing seed via HKDF so mnemonic entries derive deterministically.
func seedFromMnemonicBytes(seedBytes []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, seedBytes, nil, []byte(hkdfInfoSigning))
	out := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
