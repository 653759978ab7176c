package registry

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/scrtlabs/secret-ai-sdk-go/pkg/sdkerr"
)

const (
	// secretCoinType is Secret Network's SLIP-44 coin type; keys derive at
	// m/44'/529'/0'/0/0.
	secretCoinType = 529

	hardenedOffset = 0x80000000
)

// KeyFromMnemonic derives the hex-encoded secp256k1 private key for the
// wallet behind a BIP39 mnemonic, using Secret Network's derivation path.
func KeyFromMnemonic(mnemonic string) (string, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", sdkerr.NewConfigError("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")

	path := []uint32{
		hardenedOffset + 44,
		hardenedOffset + secretCoinType,
		hardenedOffset + 0,
		0,
		0,
	}

	key, err := deriveKey(seed, path)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// deriveKey walks a BIP32 path starting from the master key of the seed.
// Non-hardened steps need the parent's compressed public key, computed on the
// secp256k1 curve.
func deriveKey(seed []byte, path []uint32) ([]byte, error) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key := sum[:32]
	chain := sum[32:]
	order := crypto.S256().Params().N

	for _, index := range path {
		var data []byte
		if index >= hardenedOffset {
			data = append([]byte{0x00}, key...)
		} else {
			priv, err := crypto.ToECDSA(key)
			if err != nil {
				return nil, &sdkerr.ConfigError{Msg: "deriving key", Cause: err}
			}
			data = crypto.CompressPubkey(&priv.PublicKey)
		}
		data = append(data, byte(index>>24), byte(index>>16), byte(index>>8), byte(index))

		mac = hmac.New(sha512.New, chain)
		mac.Write(data)
		sum = mac.Sum(nil)

		il := new(big.Int).SetBytes(sum[:32])
		if il.Cmp(order) >= 0 {
			return nil, sdkerr.NewConfigError("mnemonic yields an invalid child key at index %d", index)
		}
		il.Add(il, new(big.Int).SetBytes(key))
		il.Mod(il, order)
		if il.Sign() == 0 {
			return nil, sdkerr.NewConfigError("mnemonic yields a zero child key at index %d", index)
		}

		key = il.FillBytes(make([]byte, 32))
		chain = sum[32:]
	}

	return key, nil
}
