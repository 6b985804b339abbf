// Package bundler deterministically aggregates pending Withdrawal outputs
// into a single parent-chain transaction (§4.4). Two honest nodes scanning
// the same UTXO set must produce byte-identical bundles, so every step is
// sort-stable by construction rather than relying on map iteration order.
package bundler

import (
	"encoding/binary"
	"sort"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

// bundleReturnTag is the constant return-destination tag encoded in the
// first OP_RETURN-equivalent output of every assembled bundle, identifying
// the output as belonging to this sidechain's two-way peg.
var bundleReturnTag = [8]byte{'d', 'u', 's', 'k', 'p', 'e', 'g', 0}

type group struct {
	mainAddress types.ParentAddress
	value       uint64
	mainFee     uint64
	outpoints   []types.OutPoint
}

// Assemble groups every Withdrawal output in snapshot's UTXO set by
// main_address, sorts the groups deterministically, and greedily packs as
// many as fit under the configured weight cap. Returns (nil, nil) if there
// is nothing to bundle.
func Assemble(snapshot *ledger.ReadSnapshot) (*tx.WithdrawalBundle, error) {
	groups := make(map[types.ParentAddress]*group)

	err := snapshot.ForEachUTXO(func(op types.OutPoint, out tx.Output) error {
		if out.Content.Kind != tx.ContentWithdrawal {
			return nil
		}
		g, ok := groups[out.Content.MainAddress]
		if !ok {
			g = &group{mainAddress: out.Content.MainAddress}
			groups[out.Content.MainAddress] = g
		}
		g.value += out.Content.Amount
		if out.Content.MainFee > g.mainFee {
			g.mainFee = out.Content.MainFee
		}
		g.outpoints = append(g.outpoints, op)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, nil
	}

	sorted := make([]*group, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.mainFee != b.mainFee {
			return a.mainFee > b.mainFee
		}
		if a.value != b.value {
			return a.value > b.value
		}
		return a.mainAddress > b.mainAddress
	})

	weight := config.Bundle0Weight
	var packed []*group
	for _, g := range sorted {
		if weight+config.OutputWeight > config.MaxStandardTxWeight {
			break
		}
		if len(packed) >= config.MaxBundleOutputs {
			break
		}
		packed = append(packed, g)
		weight += config.OutputWeight
	}

	spent := make(map[types.OutPoint]tx.Output)
	var totalFee uint64
	allOutpoints := make([]types.OutPoint, 0)
	for _, g := range packed {
		totalFee += g.mainFee
		for _, op := range g.outpoints {
			out, found, err := snapshot.GetUTXO(op)
			if err != nil {
				return nil, err
			}
			if found {
				spent[op] = out
				allOutpoints = append(allOutpoints, op)
			}
		}
	}
	sort.Slice(allOutpoints, func(i, j int) bool { return allOutpoints[i].Less(allOutpoints[j]) })

	commitment := crypto.Hash(concatOutpoints(allOutpoints))
	rawTx := buildParentTx(totalFee, commitment, packed)

	if weight > config.MaxStandardTxWeight {
		return nil, &cerrors.BundleTooHeavy{Weight: weight, Cap: config.MaxStandardTxWeight}
	}

	return &tx.WithdrawalBundle{
		SpentUTXOs:  spent,
		Transaction: rawTx,
		Txid:        types.ParentTxid(crypto.Hash(rawTx)),
	}, nil
}

func concatOutpoints(ops []types.OutPoint) []byte {
	buf := make([]byte, 0, len(ops)*37)
	for _, op := range ops {
		buf = append(buf, op.Encode()...)
	}
	return buf
}

// buildParentTx serialises a minimal parent-chain-format transaction: a
// null input, three leading outputs carrying the return tag, the total fee,
// and the spent-outpoint commitment, followed by the aggregated withdrawal
// outputs in packed order.
func buildParentTx(totalFee uint64, commitment types.Hash, packed []*group) []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, 0) // null input count marker

	buf = binary.LittleEndian.AppendUint32(buf, uint32(3+len(packed)))
	buf = append(buf, bundleReturnTag[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, totalFee)
	buf = append(buf, commitment.Bytes()...)

	for _, g := range packed {
		addr := []byte(g.mainAddress)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(addr)))
		buf = append(buf, addr...)
		buf = binary.LittleEndian.AppendUint64(buf, g.value)
	}

	return buf
}
