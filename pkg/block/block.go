// Package block defines the Body/Header types and the deterministic
// merkle-root computation used to bind a block to its contents.
package block

import (
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

// Body is the ordered content of a block: the transactions applied in
// order, followed by the coinbase outputs minted this block (withdrawal
// bundle fees, name-registry fees, ...). There is no coinbase transaction;
// coinbase_outputs stand alone and are never spent by a Body's own
// transactions.
type Body struct {
	Transactions    []tx.AuthorizedTransaction
	CoinbaseOutputs []tx.Output
}

// Block pairs a Header with the Body it commits to.
type Block struct {
	Header Header
	Body   Body
}

// ComputeMerkleRoot hashes every transaction in the body (by txid) followed
// by a hash of each coinbase output, then reduces the resulting leaf set
// with the standard binary merkle construction.
func ComputeMerkleRoot(body Body) types.MerkleRoot {
	leaves := make([]types.Hash, 0, len(body.Transactions)+len(body.CoinbaseOutputs))
	for i := range body.Transactions {
		h := body.Transactions[i].Hash()
		leaves = append(leaves, types.Hash(h))
	}
	for _, out := range body.CoinbaseOutputs {
		leaves = append(leaves, crypto.Hash(encodeOutputForMerkle(out)))
	}
	return types.MerkleRoot(ComputeMerkleRootHashes(leaves))
}

func encodeOutputForMerkle(out tx.Output) []byte {
	var buf []byte
	buf = append(buf, out.Address.Bytes()...)
	data, _ := out.MarshalJSON()
	buf = append(buf, data...)
	return buf
}
