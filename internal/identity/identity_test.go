package identity

import (
	"bytes"
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
)

func testSeed() []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func TestDeriveDeterministic(t *testing.T) {
	a, err := Derive(testSeed())
	if err != nil {
		t.Fatalf("derive 1 failed: %v", err)
	}
	b, err := Derive(testSeed())
	if err != nil {
		t.Fatalf("derive 2 failed: %v", err)
	}
	if !bytes.Equal(a.PublicKey, b.PublicKey) {
		t.Fatal("public keys should be deterministic")
	}
	if a.WalletID != b.WalletID {
		t.Fatal("wallet IDs should be deterministic")
	}
}

func TestWalletIDRoundTrip(t *testing.T) {
	id, err := Derive(testSeed())
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	decoded, err := base58.Decode(id.WalletID)
	if err != nil {
		t.Fatalf("wallet ID is not valid base58: %v", err)
	}
	if !bytes.Equal(decoded, id.PublicKey) {
		t.Fatal("wallet ID should round-trip to the public key")
	}
}

func TestDeriveFromFullPrivateKey(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(testSeed())

	fromSeed, err := Derive(testSeed())
	if err != nil {
		t.Fatalf("derive from seed failed: %v", err)
	}
	fromPriv, err := Derive(priv)
	if err != nil {
		t.Fatalf("derive from private key failed: %v", err)
	}
	if fromSeed.WalletID != fromPriv.WalletID {
		t.Fatal("32- and 64-byte forms of the same key should agree")
	}
}

func TestDeriveRejectsBadLength(t *testing.T) {
	if _, err := Derive(make([]byte, 40)); err == nil {
		t.Fatal("40-byte secret should be rejected")
	}
}

func TestSignVerifies(t *testing.T) {
	id, err := Derive(testSeed())
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	msg := []byte("Sign in to Meridian\n\nWallet: w\nNonce: n\nIssuedAt: t")
	sig := id.Sign(msg)
	if !ed25519.Verify(id.PublicKey, msg, sig) {
		t.Fatal("signature should verify against the public key")
	}
	if !bytes.Equal(sig, id.Sign(msg)) {
		t.Fatal("signing should be deterministic")
	}
}

func TestLoadMixedEntries(t *testing.T) {
	seed32 := base58.Encode(testSeed())
	key64 := base58.Encode(ed25519.NewKeyFromSeed(testSeed()))
	raw := strings.Join([]string{
		"# operator keys",
		seed32,
		"",
		key64,
	}, "\n")

	ids, err := Load(raw)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(ids))
	}
	if ids[0].WalletID != ids[1].WalletID {
		t.Fatal("both entries encode the same key pair")
	}
}

func TestLoadRejectsBadLengthEntry(t *testing.T) {
	raw := base58.Encode(testSeed()) + "\n" + base58.Encode(make([]byte, 40))
	if _, err := Load(raw); err == nil {
		t.Fatal("40-byte entry should fail the load")
	}
}

func TestLoadEmptyIsError(t *testing.T) {
	if _, err := Load("\n# only comments\n\n"); err == nil {
		t.Fatal("empty key source should be an error")
	}
}

func TestLoadMnemonicEntry(t *testing.T) {
	mnemonic := "legal winner thank year wave sausage worth useful legal winner thank yellow"
	ids, err := Load(mnemonic)
	if err != nil {
		t.Fatalf("load mnemonic failed: %v", err)
	}
	again, err := Load(mnemonic)
	if err != nil {
		t.Fatalf("reload mnemonic failed: %v", err)
	}
	if ids[0].WalletID != again[0].WalletID {
		t.Fatal("mnemonic derivation should be deterministic")
	}
}

func TestLoadOrderPreserved(t *testing.T) {
	seedA := testSeed()
	seedB := testSeed()
	seedB[0] = 0xFF
	raw := base58.Encode(seedA) + "," + base58.Encode(seedB)

	ids, err := Load(raw)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	wantA, _ := Derive(seedA)
	if ids[0].WalletID != wantA.WalletID {
		t.Fatal("entry order should be preserved")
	}
}
