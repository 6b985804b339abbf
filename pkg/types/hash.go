// Package types defines the core primitive types of the ledger: hashes and
// hash-derived identifiers, registry keys and values, addresses,
// outpoints, and parent-chain addresses and bundle statuses. Outputs and
// transactions live in pkg/tx, headers in pkg/block.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// Txid identifies a sidechain transaction.
type Txid Hash

// BlockHash identifies a sidechain block header.
type BlockHash Hash

// MerkleRoot commits to the ordered transactions and coinbase outputs of a Body.
type MerkleRoot Hash

// ParentTxid identifies a parent-chain transaction.
type ParentTxid Hash

// ParentBlockHash identifies a parent-chain block.
type ParentBlockHash Hash

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// HexToHash converts a hex string to a Hash.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// The remaining Hash-derived identifiers share Hash's zero/string/JSON
// behaviour; written out by hand (not via a generic) to keep MarshalJSON's
// method set concrete on each named type.

func (t Txid) IsZero() bool                    { return Hash(t).IsZero() }
func (t Txid) String() string                  { return Hash(t).String() }
func (t Txid) Bytes() []byte                   { return Hash(t).Bytes() }
func (t Txid) MarshalJSON() ([]byte, error)    { return Hash(t).MarshalJSON() }
func (t *Txid) UnmarshalJSON(data []byte) error { return (*Hash)(t).UnmarshalJSON(data) }

func (b BlockHash) IsZero() bool                    { return Hash(b).IsZero() }
func (b BlockHash) String() string                  { return Hash(b).String() }
func (b BlockHash) Bytes() []byte                   { return Hash(b).Bytes() }
func (b BlockHash) MarshalJSON() ([]byte, error)    { return Hash(b).MarshalJSON() }
func (b *BlockHash) UnmarshalJSON(data []byte) error { return (*Hash)(b).UnmarshalJSON(data) }

func (m MerkleRoot) IsZero() bool                    { return Hash(m).IsZero() }
func (m MerkleRoot) String() string                  { return Hash(m).String() }
func (m MerkleRoot) Bytes() []byte                   { return Hash(m).Bytes() }
func (m MerkleRoot) MarshalJSON() ([]byte, error)    { return Hash(m).MarshalJSON() }
func (m *MerkleRoot) UnmarshalJSON(data []byte) error { return (*Hash)(m).UnmarshalJSON(data) }

func (p ParentTxid) IsZero() bool                    { return Hash(p).IsZero() }
func (p ParentTxid) String() string                  { return Hash(p).String() }
func (p ParentTxid) Bytes() []byte                   { return Hash(p).Bytes() }
func (p ParentTxid) MarshalJSON() ([]byte, error)    { return Hash(p).MarshalJSON() }
func (p *ParentTxid) UnmarshalJSON(data []byte) error { return (*Hash)(p).UnmarshalJSON(data) }

func (p ParentBlockHash) IsZero() bool                    { return Hash(p).IsZero() }
func (p ParentBlockHash) String() string                  { return Hash(p).String() }
func (p ParentBlockHash) Bytes() []byte                   { return Hash(p).Bytes() }
func (p ParentBlockHash) MarshalJSON() ([]byte, error)    { return Hash(p).MarshalJSON() }
func (p *ParentBlockHash) UnmarshalJSON(data []byte) error { return (*Hash)(p).UnmarshalJSON(data) }
