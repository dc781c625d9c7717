package identity

import "crypto/ed25519"

// Identity is one wallet-holding actor. It is immutable once constructed;
// WalletID is the base58 encoding of the Ed25519 public key and is the
// external identifier used everywhere.
type Identity struct {
	privateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	WalletID   string
}

// Sign produces a detached Ed25519 signature over message.
func (id Identity) Sign(message []byte) []byte {
	return ed25519.Sign(id.privateKey, message)
}
