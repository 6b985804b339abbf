package block

import (
	"fmt"

	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/types"
)

// Header links a block to its sidechain and parent-chain ancestry and
// commits to the body via MerkleRoot. There is no nonce, difficulty, or
// timestamp: sidechain blocks are finalized by the parent chain's BMM
// commitment, not by local proof-of-work.
type Header struct {
	PrevSideBlockHash types.BlockHash       `json:"prev_side_block_hash"`
	PrevMainBlockHash types.ParentBlockHash `json:"prev_main_block_hash"`
	MerkleRoot        types.MerkleRoot      `json:"merkle_root"`
}

// Genesis returns the header of the first sidechain block: no sidechain
// ancestor, and prevMain pins the parent-chain block the sidechain was
// activated on.
func Genesis(prevMain types.ParentBlockHash) Header {
	return Header{
		PrevSideBlockHash: types.BlockHash{},
		PrevMainBlockHash: prevMain,
		MerkleRoot:        types.MerkleRoot{},
	}
}

// Hash computes the block hash as BLAKE3 of the header's canonical bytes.
func (h *Header) Hash() types.BlockHash {
	return types.BlockHash(crypto.Hash(h.SigningBytes()))
}

// SigningBytes returns the canonical serialisation of the header: the three
// 32-byte fields concatenated in declaration order.
func (h *Header) SigningBytes() []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, h.PrevSideBlockHash.Bytes()...)
	buf = append(buf, h.PrevMainBlockHash.Bytes()...)
	buf = append(buf, h.MerkleRoot.Bytes()...)
	return buf
}

// headerEncodingSize is the fixed length of Header.SigningBytes(), also
// used as the on-disk encoding persisted by the headers index.
const headerEncodingSize = 3 * types.HashSize

// DecodeHeader parses the fixed 96-byte encoding produced by SigningBytes.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != headerEncodingSize {
		return Header{}, fmt.Errorf("header: want %d bytes, got %d", headerEncodingSize, len(b))
	}
	var h Header
	copy(h.PrevSideBlockHash[:], b[:types.HashSize])
	copy(h.PrevMainBlockHash[:], b[types.HashSize:2*types.HashSize])
	copy(h.MerkleRoot[:], b[2*types.HashSize:3*types.HashSize])
	return h, nil
}
