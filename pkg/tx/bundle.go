package tx

import "github.com/duskchain/duskchain/pkg/types"

// WithdrawalBundle is the aggregated parent-chain transaction the bundler
// assembles from pending Withdrawal outputs, together with the set of
// sidechain outputs it spends (restored to the UTXO set if the parent
// chain rejects the bundle).
type WithdrawalBundle struct {
	SpentUTXOs  map[types.OutPoint]Output
	Transaction []byte // serialised parent-chain transaction
	Txid        types.ParentTxid
}

// TwoWayPegBatch is one delivery from the parent-chain adapter: deposits to
// ingest, the parent block they were observed in (nil if none advanced this
// round), and verdicts on any bundle the adapter previously broadcast.
type TwoWayPegBatch struct {
	Deposits        map[types.OutPoint]Output
	DepositBlockHash *types.ParentBlockHash
	BundleStatuses  map[types.ParentTxid]types.WithdrawalBundleStatus
}
