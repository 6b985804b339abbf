// Package connector implements atomic block application (§4.3). Connect
// makes every index update for a block through the single WriteTxn it is
// given; the caller commits that WriteTxn or aborts it as a whole.
package connector

import (
	"errors"
	"fmt"
	"time"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/internal/bundler"
	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/internal/log"
	"github.com/duskchain/duskchain/internal/metrics"
	"github.com/duskchain/duskchain/internal/registry"
	"github.com/duskchain/duskchain/internal/validator"
	"github.com/duskchain/duskchain/pkg/block"
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

// BmmVerifier checks a header's BMM commitment against the parent chain
// before it is accepted as the new tip. A nil BmmVerifier skips the check,
// which the genesis and test chains described in the end-to-end scenarios
// rely on since they carry no real parent chain.
type BmmVerifier interface {
	VerifyBMM(h block.Header) error
}

// Connect applies one block to the ledger inside w. On any consensus
// error, the caller should Abort w; Connect itself never aborts so the
// caller can decide whether to retry the pre-checks against a fresh
// WriteTxn or propagate the failure.
func Connect(w *ledger.WriteTxn, blk *block.Block, batch tx.TwoWayPegBatch, bmm BmmVerifier) (err error) {
	start := time.Now()
	defer func() {
		metrics.BlockConnectDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RejectedTransactions.WithLabelValues(errorKind(err)).Inc()
		}
	}()

	read := w.AsRead()

	tipHeight, tipHeader, found, err := read.Tip()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("connector: no genesis header written")
	}

	// Pre-checks.
	tipHash := tipHeader.Hash()
	if blk.Header.PrevSideBlockHash != tipHash {
		return &cerrors.InvalidPrevSideBlockHash{Want: tipHash, Got: blk.Header.PrevSideBlockHash}
	}
	expectedRoot := block.ComputeMerkleRoot(blk.Body)
	if blk.Header.MerkleRoot != expectedRoot {
		return &cerrors.InvalidMerkleRoot{Want: blk.Header.MerkleRoot, Got: expectedRoot}
	}
	if bmm != nil {
		if err := bmm.VerifyBMM(blk.Header); err != nil {
			return fmt.Errorf("connector: bmm verification: %w", err)
		}
	}
	// Signature verification is deferred to the per-transaction loop in step
	// 5 below: binding each Authorization to the spending address (§4.3)
	// requires resolving the spent Output first, and a transaction may spend
	// a deposit ingested in this same batch or an output minted earlier in
	// this same block, neither of which exists in the UTXO set yet at this
	// point.

	newHeight := tipHeight + 1

	// Step 1: append header.
	if err := w.PutHeader(newHeight, blk.Header); err != nil {
		return err
	}
	metrics.TipHeight.Set(float64(newHeight))

	// Step 2: deposits.
	if batch.DepositBlockHash != nil {
		if err := w.PutLastDepositBlock(*batch.DepositBlockHash); err != nil {
			return err
		}
	}
	for op, out := range batch.Deposits {
		if err := w.PutUTXO(op, out); err != nil {
			return err
		}
	}

	// Step 3: bundle assembly.
	lastFailure, found, err := read.GetLastFailureHeight()
	if err != nil {
		return err
	}
	if !found {
		lastFailure = 0
	}
	_, pendingExists, err := read.GetPendingBundle()
	if err != nil {
		return err
	}
	if newHeight-lastFailure > config.WithdrawalBundleFailureGap && !pendingExists {
		wb, err := bundler.Assemble(read)
		if err != nil {
			return err
		}
		if wb != nil {
			for op := range wb.SpentUTXOs {
				if err := w.DeleteUTXO(op); err != nil {
					return err
				}
			}
			if err := w.PutPendingBundle(*wb); err != nil {
				return err
			}
			log.Connector.Info().Str("txid", wb.Txid.String()).Int("outputs", len(wb.SpentUTXOs)).Msg("withdrawal bundle assembled")
			metrics.PendingBundle.Set(1)
		}
	}

	// Step 4: bundle settlement.
	if pending, exists, err := read.GetPendingBundle(); err != nil {
		return err
	} else if exists {
		if status, reported := batch.BundleStatuses[pending.Txid]; reported {
			switch status {
			case types.BundleFailed:
				for op, out := range pending.SpentUTXOs {
					if err := w.PutUTXO(op, out); err != nil {
						return err
					}
				}
				if err := w.PutLastFailureHeight(newHeight); err != nil {
					return err
				}
				if err := w.ClearPendingBundle(); err != nil {
					return err
				}
				log.Connector.Warn().Str("txid", pending.Txid.String()).Msg("withdrawal bundle failed, spent utxos restored")
				metrics.PendingBundle.Set(0)
			case types.BundleConfirmed:
				if err := w.ClearPendingBundle(); err != nil {
					return err
				}
				log.Connector.Info().Str("txid", pending.Txid.String()).Msg("withdrawal bundle confirmed")
				metrics.PendingBundle.Set(0)
			}
		}
	}

	// Step 5: body application, in order, with each transaction's outputs
	// visible to subsequent transactions (the same write transaction sees
	// its own pending writes).
	for i := range blk.Body.Transactions {
		txn := &blk.Body.Transactions[i]
		if err := verifyAuthorizations(w.AsRead(), txn); err != nil {
			return fmt.Errorf("tx %d (%s): %w", i, txn.Hash(), err)
		}
		if _, err := validator.Validate(w.AsRead(), newHeight, txn); err != nil {
			return fmt.Errorf("tx %d (%s): %w", i, txn.Hash(), err)
		}
		if err := applyTransaction(w, txn, newHeight); err != nil {
			return err
		}
	}
	// Coinbase outputs are a pure value sink (Open Question Decision 1): they
	// become spendable UTXOs identified against the block hash, the same way
	// a transaction's outputs are identified against its txid.
	coinbaseTxid := types.Txid(blk.Hash())
	for i, out := range blk.Body.CoinbaseOutputs {
		if err := writeOutput(w, types.Regular(coinbaseTxid, uint32(i)), out, newHeight); err != nil {
			return err
		}
	}

	// Step 6: expiry sweep.
	if err := sweepExpired(w, newHeight); err != nil {
		return err
	}

	return nil
}

// verifyAuthorizations resolves the Output spent by every input of txn and
// checks that its Authorization verifies against that Output's Address
// (§4.3: "each input's signature verifies against the spending address").
func verifyAuthorizations(read *ledger.ReadSnapshot, txn *tx.AuthorizedTransaction) error {
	owners := make([]types.Address, len(txn.Inputs))
	for i, op := range txn.Inputs {
		out, found, err := read.GetUTXO(op)
		if err != nil {
			return err
		}
		if !found {
			return &cerrors.UtxoDoesNotExist{OutPoint: op}
		}
		owners[i] = out.Address
	}
	if err := txn.VerifySignatures(owners); err != nil {
		return &cerrors.AuthorizationFailed{Txid: txn.Hash(), InputIndex: wrongInputIndex(txn, owners)}
	}
	return nil
}

// wrongInputIndex re-walks the authorizations to report which input failed,
// for the structured AuthorizationFailed error's InputIndex field.
func wrongInputIndex(txn *tx.AuthorizedTransaction, owners []types.Address) int {
	hash := txn.Hash()
	for i, auth := range txn.Authorizations {
		if !crypto.VerifySignature(hash[:], auth.Signature[:], auth.PubKey[:]) {
			return i
		}
		if crypto.AddressFromPubKey(auth.PubKey[:]) != owners[i] {
			return i
		}
	}
	return -1
}

func applyTransaction(w *ledger.WriteTxn, txn *tx.AuthorizedTransaction, height uint32) error {
	read := w.AsRead()

	for _, op := range txn.Inputs {
		out, found, err := read.GetUTXO(op)
		if err != nil {
			return err
		}
		if !found {
			return &cerrors.UtxoDoesNotExist{OutPoint: op}
		}
		if err := w.DeleteUTXO(op); err != nil {
			return err
		}
		switch out.Content.Kind {
		case tx.ContentKeyValue:
			if err := w.DeleteKeyValue(out.Content.Key); err != nil {
				return err
			}
		case tx.ContentCommitment:
			c := out.Content.Commitment
			if key, bound, err := read.GetCommitmentKey(c); err != nil {
				return err
			} else if bound {
				if err := w.DeleteKeyCommitment(key); err != nil {
					return err
				}
				if err := w.DeleteCommitmentKey(c); err != nil {
					return err
				}
			}
			if err := w.DeleteCommitmentOutpoint(c); err != nil {
				return err
			}
			if err := w.DeleteCommitmentHeight(c); err != nil {
				return err
			}
		}
	}

	txid := txn.Hash()
	for i, out := range txn.Outputs {
		if err := writeOutput(w, types.Regular(txid, uint32(i)), out, height); err != nil {
			return err
		}
	}

	return nil
}

// writeOutput inserts out into utxos at op and applies the per-content
// registry cache updates of §4.3's "Cache updates per output content
// during step 5".
func writeOutput(w *ledger.WriteTxn, op types.OutPoint, out tx.Output, height uint32) error {
	read := w.AsRead()

	if err := w.PutUTXO(op, out); err != nil {
		return err
	}
	switch out.Content.Kind {
	case tx.ContentCommitment:
		if err := w.PutCommitmentHeight(out.Content.Commitment, height); err != nil {
			return err
		}
		if err := w.PutCommitmentOutpoint(out.Content.Commitment, op); err != nil {
			return err
		}
	case tx.ContentReveal:
		c := crypto.Commitment(out.Content.Key, out.Content.Salt)
		if err := w.PutKeyCommitment(out.Content.Key, c); err != nil {
			return err
		}
		if err := w.PutCommitmentKey(c, out.Content.Key); err != nil {
			return err
		}
		if _, found, err := read.GetKeyValue(out.Content.Key); err != nil {
			return err
		} else if !found {
			if err := w.PutKeyValue(out.Content.Key, types.Value{}); err != nil {
				return err
			}
		}
	case tx.ContentKeyValue:
		if err := w.PutKeyValue(out.Content.Key, out.Content.BoundValue); err != nil {
			return err
		}
	}
	return nil
}

// errorKind maps a connect failure to a low-cardinality label for the
// rejected-transactions counter. Unrecognised errors (structural/storage)
// fall back to a generic bucket rather than using the raw error string,
// which would blow up label cardinality.
func errorKind(err error) string {
	switch {
	case errors.As(err, new(*cerrors.UtxoDoesNotExist)):
		return "utxo_does_not_exist"
	case errors.As(err, new(*cerrors.InvalidPrevSideBlockHash)):
		return "invalid_prev_side_block_hash"
	case errors.As(err, new(*cerrors.InvalidMerkleRoot)):
		return "invalid_merkle_root"
	case errors.As(err, new(*cerrors.AuthorizationFailed)):
		return "authorization_failed"
	case errors.As(err, new(*cerrors.RevealTooLate)):
		return "reveal_too_late"
	case errors.As(err, new(*cerrors.KeyAlreadyRegistered)):
		return "key_already_registered"
	case errors.As(err, new(*cerrors.CommitmentAlreadyExists)):
		return "commitment_already_exists"
	case errors.As(err, new(*cerrors.CommitmentNotFound)):
		return "commitment_not_found"
	case errors.As(err, new(*cerrors.KeyNotFound)):
		return "key_not_found"
	case errors.As(err, new(*cerrors.InvalidNameCommitment)):
		return "invalid_name_commitment"
	case errors.As(err, new(*cerrors.InvalidKey)):
		return "invalid_key"
	case errors.As(err, new(*cerrors.BundleTooHeavy)):
		return "bundle_too_heavy"
	case errors.As(err, new(*cerrors.StorageFatal)):
		return "storage_fatal"
	default:
		return "other"
	}
}

func sweepExpired(w *ledger.WriteTxn, height uint32) error {
	read := w.AsRead()

	type expired struct {
		commitment types.Commitment
	}
	var toSweep []expired
	err := read.ForEachCommitmentHeight(func(c types.Commitment, commitHeight uint32) error {
		if registry.IsExpired(commitHeight, height) {
			toSweep = append(toSweep, expired{commitment: c})
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, e := range toSweep {
		c := e.commitment
		if op, found, err := read.GetCommitmentOutpoint(c); err != nil {
			return err
		} else if found {
			if _, stillPresent, err := read.GetUTXO(op); err != nil {
				return err
			} else if stillPresent {
				if err := w.DeleteUTXO(op); err != nil {
					return err
				}
			}
			if err := w.DeleteCommitmentOutpoint(c); err != nil {
				return err
			}
		}
		if err := w.DeleteCommitmentHeight(c); err != nil {
			return err
		}
		if key, bound, err := read.GetCommitmentKey(c); err != nil {
			return err
		} else if bound {
			if err := w.DeleteKeyCommitment(key); err != nil {
				return err
			}
			if err := w.DeleteCommitmentKey(c); err != nil {
				return err
			}
		}
	}

	log.Connector.Debug().Int("swept", len(toSweep)).Uint32("height", height).Msg("expiry sweep")
	return nil
}
