// Package crypto provides the cryptographic primitives used by the
// ledger: hashing, keyed MACs, and Schnorr signatures.
package crypto

import (
	"fmt"

	"github.com/duskchain/duskchain/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// DoubleHash computes Hash(Hash(data)).
func DoubleHash(data []byte) types.Hash {
	first := Hash(data)
	return Hash(first[:])
}

// AddressFromPubKey derives an address from a compressed public key.
// Address = BLAKE3(compressed_pubkey).
func AddressFromPubKey(pubKey []byte) types.Address {
	h := Hash(pubKey)
	var addr types.Address
	copy(addr[:], h[:types.AddressSize])
	return addr
}

// HashConcat hashes the concatenation of two hashes. Used for building
// Merkle trees.
func HashConcat(a, b types.Hash) types.Hash {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return Hash(buf[:])
}

// MAC computes a keyed BLAKE3 hash of data, using key as the 32-byte MAC
// key. This is the "fast, keyed variant" the data model calls for.
func MAC(key [32]byte, data []byte) types.Hash {
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		// key is always exactly 32 bytes; NewKeyed only rejects other sizes.
		panic(fmt.Sprintf("crypto: MAC key: %v", err))
	}
	h.Write(data)
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Commitment computes the name-registry Commitment = MAC(Key, Salt): Salt
// is the MAC key, Key is the message. Binds a future Reveal of (key, salt)
// without disclosing key to observers of the Commitment alone.
func Commitment(key types.Key, salt types.Salt) types.Commitment {
	return types.Commitment(MAC(salt, key.Bytes()))
}
