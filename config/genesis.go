package config

// =============================================================================
// Protocol constants (consensus-critical; MUST match across all nodes).
// =============================================================================

// CommitmentMaxAge is the number of blocks a Commitment stays revealable.
// A Reveal landing more than this many blocks after its Commitment was
// mined is rejected with RevealTooLate.
const CommitmentMaxAge uint32 = 10

// WithdrawalBundleFailureGap is the number of blocks the bundler waits
// after a bundle failure before it will assemble another one.
const WithdrawalBundleFailureGap uint32 = 100

// Parent-chain transaction weight units, mirroring Bitcoin's standardness
// rules: the bundle transaction must not exceed MaxStandardTxWeight.
const (
	MaxStandardTxWeight = 400_000 // weight units (Bitcoin's MAX_STANDARD_TX_WEIGHT)
	Bundle0Weight       = 504     // fixed weight of the 3 leading OP_RETURN outputs + null input
	OutputWeight        = 128     // marginal weight of one aggregated withdrawal output
)

// MaxBundleOutputs is the per-bundle output cap implied by MaxStandardTxWeight:
// (MaxStandardTxWeight - Bundle0Weight) / OutputWeight, rounded down.
const MaxBundleOutputs = (MaxStandardTxWeight - Bundle0Weight) / OutputWeight

// Block and transaction size limits (consensus-critical).
const (
	MaxBlockSize = 4_000_000 // 4 MB max block size (header + all tx signing bytes)
	MaxBlockTxs  = 10_000    // max transactions per block
	MaxTxInputs  = 2_500     // max inputs per transaction
	MaxTxOutputs = 2_500     // max outputs per transaction
)
