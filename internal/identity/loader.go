package identity

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"
)

var ErrNoIdentities = errors.New("no valid identities loaded")

// Load parses raw secret material into an ordered identity list. Entries are
// separated by newlines or commas; blank lines and # comments are skipped.
// An entry is either a base58-encoded 32/64-byte key or a BIP-39 mnemonic.
// A malformed entry is an error, not a skip: it indicates a systematically
// broken key source. An empty result is an error as well.
func Load(raw string) ([]Identity, error) {
	var ids []Identity
	for i, entry := range splitEntries(raw) {
		id, err := fromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("key entry %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoIdentities
	}
	return ids, nil
}

// LoadFile reads a newline-separated key file and parses it with Load.
func LoadFile(path string) ([]Identity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return Load(string(raw))
}

func splitEntries(raw string) []string {
	var entries []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries
}

func fromEntry(entry string) (Identity, error) {
	if bip39.IsMnemonicValid(entry) {
		seed, err := seedFromMnemonicBytes(bip39.NewSeed(entry, ""))
		if err != nil {
			return Identity{}, err
		}
		return Derive(seed)
	}
	secret, err := base58.Decode(entry)
	if err != nil {
		return Identity{}, fmt.Errorf("decode secret key: %w", err)
	}
	return Derive(secret)
}
