// Package validator implements the pure, snapshot-based transaction check
// of §4.2. Validate never mutates the ledger; it is called both by mempool
// admission (against the tip) and by the block connector (against each
// transaction's effective height as it is applied within a block).
package validator

import (
	"fmt"

	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/internal/registry"
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

// Validate checks at against snapshot at effectiveHeight, returning the
// transaction's fee (sum of input values minus sum of output values) on
// success. effectiveHeight is the height the transaction would be mined
// at: callers checking the mempool against the current tip pass tip+1.
func Validate(snapshot *ledger.ReadSnapshot, effectiveHeight uint32, at *tx.AuthorizedTransaction) (fee uint64, err error) {
	if err := at.Transaction.Validate(); err != nil {
		return 0, err
	}

	// Step 1: resolve every input.
	resolved := make([]tx.Output, len(at.Inputs))
	var totalIn uint64
	for i, op := range at.Inputs {
		out, found, err := snapshot.GetUTXO(op)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, &cerrors.UtxoDoesNotExist{OutPoint: op}
		}
		resolved[i] = out
		v := out.Content.GetValue()
		if totalIn > ^uint64(0)-v {
			return 0, fmt.Errorf("validator: input value overflow")
		}
		totalIn += v
	}

	totalOut, err := at.Transaction.TotalOutputValue()
	if err != nil {
		return 0, err
	}
	if totalIn < totalOut {
		return 0, fmt.Errorf("validator: inputs %d < outputs %d", totalIn, totalOut)
	}

	// Steps 3-4: spent commitments and spent keys from inputs.
	spentCommitments := make(map[types.Commitment]bool)
	spentKeys := make(map[types.Key]bool)
	for _, out := range resolved {
		switch out.Content.Kind {
		case tx.ContentCommitment:
			spentCommitments[out.Content.Commitment] = true
		case tx.ContentReveal:
			spentKeys[out.Content.Key] = true
		case tx.ContentKeyValue:
			spentKeys[out.Content.Key] = true
		}
	}

	// Step 5: reveal-too-late check for every spent commitment.
	for c := range spentCommitments {
		height, found, err := snapshot.GetCommitmentHeight(c)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, &cerrors.CommitmentNotFound{Commitment: c}
		}
		if err := registry.CheckRevealAge(c, height, effectiveHeight); err != nil {
			return 0, err
		}
	}

	// Step 6: per-output content rules.
	for _, out := range at.Outputs {
		switch out.Content.Kind {
		case tx.ContentReveal:
			c := crypto.Commitment(out.Content.Key, out.Content.Salt)
			if !spentCommitments[c] {
				return 0, &cerrors.InvalidNameCommitment{Key: out.Content.Key, Want: c}
			}
			newHeight, found, err := snapshot.GetCommitmentHeight(c)
			if err != nil {
				return 0, err
			}
			if !found {
				return 0, &cerrors.CommitmentNotFound{Commitment: c}
			}
			if boundCommitment, bound, err := snapshot.GetKeyCommitment(out.Content.Key); err != nil {
				return 0, err
			} else if bound {
				boundHeight, found, err := snapshot.GetCommitmentHeight(boundCommitment)
				if err != nil {
					return 0, err
				}
				if found {
					if err := registry.CheckOlderCommitmentWins(out.Content.Key, boundHeight, newHeight); err != nil {
						return 0, err
					}
				}
			}

		case tx.ContentKeyValue:
			if !spentKeys[out.Content.Key] {
				return 0, &cerrors.InvalidKey{Key: out.Content.Key}
			}

		case tx.ContentCommitment:
			if _, found, err := snapshot.GetCommitmentOutpoint(out.Content.Commitment); err != nil {
				return 0, err
			} else if found {
				return 0, &cerrors.CommitmentAlreadyExists{Commitment: out.Content.Commitment}
			}
		}
	}

	return totalIn - totalOut, nil
}
