// Package pegadapter defines the parent-chain adapter contract of §6 and a
// convenience wrapper that threads the ledger's last_deposit_block
// watermark through automatically, per SPEC_FULL.md's two-way-peg batch
// fetch windowing supplement.
package pegadapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/internal/log"
	"github.com/duskchain/duskchain/pkg/block"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

// Adapter is the external collaborator that delivers two-way-peg state
// from the parent chain. None of its methods are called from inside a
// ReadSnapshot or WriteTxn; the core only ever consumes the TwoWayPegBatch
// it returns (§5 "parent-chain data is pre-fetched... by the adapter").
type Adapter interface {
	// GetTwoWayPegBatch returns all deposits and bundle verdicts in parent
	// blocks strictly after start through end.
	GetTwoWayPegBatch(ctx context.Context, end types.ParentBlockHash, start *types.ParentBlockHash) (tx.TwoWayPegBatch, error)
	// BroadcastWithdrawalBundle submits a bundle's raw transaction to the
	// parent chain. Fire-and-forget: the caller does not wait for
	// confirmation, only for the submit call itself to return.
	BroadcastWithdrawalBundle(ctx context.Context, rawTx []byte) error
	// VerifyBMM checks whether the previous main block commits to header's
	// block hash.
	VerifyBMM(ctx context.Context, h block.Header) error
	// GetMainchainTip returns the current parent-chain tip.
	GetMainchainTip(ctx context.Context) (types.ParentBlockHash, error)
}

// Fetch reads last_deposit_block from snapshot and calls
// adapter.GetTwoWayPegBatch(ctx, tip, watermark), logging the call under a
// fresh correlation id so repeated ingestion attempts can be traced
// end-to-end in the adapter's own logs.
func Fetch(ctx context.Context, adapter Adapter, snapshot *ledger.ReadSnapshot) (tx.TwoWayPegBatch, error) {
	correlationID := uuid.New()
	logger := log.PegAdapter.With().Str("correlation_id", correlationID.String()).Logger()

	var start *types.ParentBlockHash
	if watermark, found, err := snapshot.GetLastDepositBlock(); err != nil {
		return tx.TwoWayPegBatch{}, err
	} else if found {
		start = &watermark
	}

	tip, err := adapter.GetMainchainTip(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("get mainchain tip failed")
		return tx.TwoWayPegBatch{}, err
	}

	logger.Debug().Str("tip", tip.String()).Msg("fetching two-way peg batch")
	batch, err := adapter.GetTwoWayPegBatch(ctx, tip, start)
	if err != nil {
		logger.Error().Err(err).Msg("get two-way peg batch failed")
		return tx.TwoWayPegBatch{}, err
	}
	logger.Info().Int("deposits", len(batch.Deposits)).Int("bundle_statuses", len(batch.BundleStatuses)).Msg("two-way peg batch fetched")
	return batch, nil
}

// BmmVerifier adapts an Adapter's context-taking VerifyBMM to the
// connector's synchronous BmmVerifier hook, binding a single context for
// the lifetime of the verifier (typically the block-processing loop's).
type BmmVerifier struct {
	Ctx     context.Context
	Adapter Adapter
}

// VerifyBMM satisfies connector.BmmVerifier.
func (v BmmVerifier) VerifyBMM(h block.Header) error {
	return v.Adapter.VerifyBMM(v.Ctx, h)
}
