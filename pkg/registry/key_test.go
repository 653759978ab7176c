package registry

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// TestKeyFromMnemonic_InvalidMnemonic verifies checksum and wordlist failures
// surface as ConfigError.
func TestKeyFromMnemonic_InvalidMnemonic(t *testing.T) {
	for _, mnemonic := range []string{
		"",
		"not a mnemonic at all",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
	} {
		_, err := KeyFromMnemonic(mnemonic)
		var cfgErr *sdkerr.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("KeyFromMnemonic(%q): expected ConfigError, got %v", mnemonic, err)
		}
	}
}

// TestKeyFromMnemonic_Deterministic verifies the derivation is stable and
// yields a usable secp256k1 scalar.
func TestKeyFromMnemonic_Deterministic(t *testing.T) {
	first, err := KeyFromMnemonic(testMnemonic)
	if err != nil {
		t.Fatalf("KeyFromMnemonic: %v", err)
	}
	second, err := KeyFromMnemonic(testMnemonic)
	if err != nil {
		t.Fatalf("KeyFromMnemonic: %v", err)
	}
	if first != second {
		t.Fatalf("derivation is not deterministic: %s vs %s", first, second)
	}

	raw, err := hex.DecodeString(first)
	if err != nil || len(raw) != 32 {
		t.Fatalf("key is not 32 hex-encoded bytes: %q", first)
	}
	if _, err := crypto.ToECDSA(raw); err != nil {
		t.Fatalf("derived key rejected by the curve: %v", err)
	}
}

// TestKeyFromMnemonic_DistinctWallets verifies different mnemonics derive
// different keys.
func TestKeyFromMnemonic_DistinctWallets(t *testing.T) {
	other := "legal winner thank year wave sausage worth useful legal winner thank yellow"

	a, err := KeyFromMnemonic(testMnemonic)
	if err != nil {
		t.Fatalf("KeyFromMnemonic: %v", err)
	}
	b, err := KeyFromMnemonic(other)
	if err != nil {
		t.Fatalf("KeyFromMnemonic: %v", err)
	}
	if a == b {
		t.Fatal("distinct mnemonics derived the same key")
	}
}
