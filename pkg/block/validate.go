package block

import (
	"errors"
	"fmt"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/pkg/types"
)

// Structural validation errors. These are checked independently of any
// ledger snapshot; the connector's pre-checks (§4.3) cover everything that
// needs one (previous-header linkage, signatures, per-transaction
// consensus rules).
var (
	ErrBadMerkleRoot       = errors.New("merkle root mismatch")
	ErrTooManyTxs          = errors.New("too many transactions in block")
	ErrBlockTooLarge       = errors.New("block too large")
	ErrDuplicateBlockInput = errors.New("duplicate input across transactions in block")
)

// Validate checks body structure: transaction and block-size caps, no
// input spent twice within the block, and that the header's merkle root
// matches the body's computed root. It does not verify signatures or
// consensus rules; that is the connector's job once it has a ledger
// snapshot to check against.
func (b *Block) Validate() error {
	if len(b.Body.Transactions) > config.MaxBlockTxs {
		return fmt.Errorf("%w: %d txs, max %d", ErrTooManyTxs, len(b.Body.Transactions), config.MaxBlockTxs)
	}

	blockSize := len(b.Header.SigningBytes())
	for i := range b.Body.Transactions {
		blockSize += len(b.Body.Transactions[i].SigningBytes())
	}
	if blockSize > config.MaxBlockSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrBlockTooLarge, blockSize, config.MaxBlockSize)
	}

	expectedRoot := ComputeMerkleRoot(b.Body)
	if b.Header.MerkleRoot != expectedRoot {
		return fmt.Errorf("%w: header=%s computed=%s", ErrBadMerkleRoot, b.Header.MerkleRoot, expectedRoot)
	}

	for i := range b.Body.Transactions {
		if err := b.Body.Transactions[i].Validate(); err != nil {
			return fmt.Errorf("tx %d: %w", i, err)
		}
	}

	allInputs := make(map[types.OutPoint]int, len(b.Body.Transactions))
	for i := range b.Body.Transactions {
		for _, in := range b.Body.Transactions[i].Inputs {
			if prevTx, exists := allInputs[in]; exists {
				return fmt.Errorf("tx %d: %w: outpoint %s also spent in tx %d", i, ErrDuplicateBlockInput, in, prevTx)
			}
			allInputs[in] = i
		}
	}

	return nil
}

// Hash returns the block's header hash.
func (b *Block) Hash() types.BlockHash {
	return b.Header.Hash()
}
