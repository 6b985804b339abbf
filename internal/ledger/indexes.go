package ledger

import (
	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/pkg/block"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

// --- utxos: OutPoint -> Output ---

// GetUTXO looks up an Output by OutPoint. found is false if it is not (or
// no longer) in the unspent set.
func (r *ReadSnapshot) GetUTXO(op types.OutPoint) (out tx.Output, found bool, err error) {
	val, ok, err := get(r.txn, utxoKey(op))
	if err != nil || !ok {
		return tx.Output{}, ok, err
	}
	out, err = tx.DecodeOutput(val)
	return out, true, err
}

// PutUTXO inserts or overwrites the Output at op.
func (w *WriteTxn) PutUTXO(op types.OutPoint, out tx.Output) error {
	return set(w.txn, utxoKey(op), out.Encode())
}

// DeleteUTXO removes op from the unspent set.
func (w *WriteTxn) DeleteUTXO(op types.OutPoint) error {
	return del(w.txn, utxoKey(op))
}

// ForEachUTXO visits every entry of the unspent set in deterministic key
// order, used by the bundler to group Withdrawal outputs.
func (r *ReadSnapshot) ForEachUTXO(fn func(op types.OutPoint, out tx.Output) error) error {
	return forEach(r.txn, prefixUTXO, func(key, val []byte) error {
		op, err := types.DecodeOutPoint(key[len(prefixUTXO):])
		if err != nil {
			return &cerrors.StorageFatal{Op: "decode utxo key", Err: err}
		}
		out, err := tx.DecodeOutput(val)
		if err != nil {
			return &cerrors.StorageFatal{Op: "decode utxo value", Err: err}
		}
		return fn(op, out)
	})
}

// --- headers: height (u32, dense from 0) -> Header ---

// GetHeader returns the header at height.
func (r *ReadSnapshot) GetHeader(height uint32) (h block.Header, found bool, err error) {
	val, ok, err := get(r.txn, headerKey(height))
	if err != nil || !ok {
		return block.Header{}, ok, err
	}
	h, err = block.DecodeHeader(val)
	return h, true, err
}

// PutHeader appends a header at height. The connector is responsible for
// only ever calling this at tip_height+1, preserving I4's density.
func (w *WriteTxn) PutHeader(height uint32, h block.Header) error {
	return set(w.txn, headerKey(height), h.SigningBytes())
}

// Tip returns the highest-height header and its height. found is false on
// an empty store (no genesis written yet).
func (r *ReadSnapshot) Tip() (height uint32, h block.Header, found bool, err error) {
	key, val, ok, err := lastWithPrefix(r.txn, prefixHeader)
	if err != nil || !ok {
		return 0, block.Header{}, ok, err
	}
	h, err = block.DecodeHeader(val)
	if err != nil {
		return 0, block.Header{}, false, &cerrors.StorageFatal{Op: "decode tip header", Err: err}
	}
	return heightFromHeaderKey(key), h, true, nil
}

// --- key_to_value: Key -> Value ---

func (r *ReadSnapshot) GetKeyValue(k types.Key) (v types.Value, found bool, err error) {
	val, ok, err := get(r.txn, keyToValueKey(k))
	if err != nil || !ok {
		return types.Value{}, ok, err
	}
	copy(v[:], val)
	return v, true, nil
}

func (w *WriteTxn) PutKeyValue(k types.Key, v types.Value) error {
	return set(w.txn, keyToValueKey(k), v.Bytes())
}

func (w *WriteTxn) DeleteKeyValue(k types.Key) error {
	return del(w.txn, keyToValueKey(k))
}

// --- commitment_to_height: Commitment -> u32 ---

func (r *ReadSnapshot) GetCommitmentHeight(c types.Commitment) (height uint32, found bool, err error) {
	val, ok, err := get(r.txn, commitToHeightKey(c))
	if err != nil || !ok {
		return 0, ok, err
	}
	return decodeU32(val), true, nil
}

func (w *WriteTxn) PutCommitmentHeight(c types.Commitment, height uint32) error {
	return set(w.txn, commitToHeightKey(c), encodeU32(height))
}

func (w *WriteTxn) DeleteCommitmentHeight(c types.Commitment) error {
	return del(w.txn, commitToHeightKey(c))
}

// ForEachCommitmentHeight visits every (commitment, height) pair, used by
// the expiry sweep (§4.3 step 6). Key order is deterministic but the sweep
// does not depend on visitation order across distinct commitments.
func (r *ReadSnapshot) ForEachCommitmentHeight(fn func(c types.Commitment, height uint32) error) error {
	return forEach(r.txn, prefixCommitToHeight, func(key, val []byte) error {
		var c types.Commitment
		copy(c[:], key[len(prefixCommitToHeight):])
		return fn(c, decodeU32(val))
	})
}

// --- commitment_to_outpoint: Commitment -> OutPoint ---

func (r *ReadSnapshot) GetCommitmentOutpoint(c types.Commitment) (op types.OutPoint, found bool, err error) {
	val, ok, err := get(r.txn, commitToOutKey(c))
	if err != nil || !ok {
		return types.OutPoint{}, ok, err
	}
	op, err = types.DecodeOutPoint(val)
	return op, true, err
}

func (w *WriteTxn) PutCommitmentOutpoint(c types.Commitment, op types.OutPoint) error {
	return set(w.txn, commitToOutKey(c), op.Encode())
}

func (w *WriteTxn) DeleteCommitmentOutpoint(c types.Commitment) error {
	return del(w.txn, commitToOutKey(c))
}

// --- key_to_commitment / commitment_to_key: bijective Key <-> Commitment ---

func (r *ReadSnapshot) GetKeyCommitment(k types.Key) (c types.Commitment, found bool, err error) {
	val, ok, err := get(r.txn, keyToCommitKey(k))
	if err != nil || !ok {
		return types.Commitment{}, ok, err
	}
	copy(c[:], val)
	return c, true, nil
}

func (w *WriteTxn) PutKeyCommitment(k types.Key, c types.Commitment) error {
	return set(w.txn, keyToCommitKey(k), c.Bytes())
}

func (w *WriteTxn) DeleteKeyCommitment(k types.Key) error {
	return del(w.txn, keyToCommitKey(k))
}

func (r *ReadSnapshot) GetCommitmentKey(c types.Commitment) (k types.Key, found bool, err error) {
	val, ok, err := get(r.txn, commitToKeyKey(c))
	if err != nil || !ok {
		return types.Key{}, ok, err
	}
	copy(k[:], val)
	return k, true, nil
}

func (w *WriteTxn) PutCommitmentKey(c types.Commitment, k types.Key) error {
	return set(w.txn, commitToKeyKey(c), k.Bytes())
}

func (w *WriteTxn) DeleteCommitmentKey(c types.Commitment) error {
	return del(w.txn, commitToKeyKey(c))
}

// --- pending_withdrawal_bundle: at most one WithdrawalBundle ---

func (r *ReadSnapshot) GetPendingBundle() (wb tx.WithdrawalBundle, found bool, err error) {
	val, ok, err := get(r.txn, keyPendingBundle)
	if err != nil || !ok {
		return tx.WithdrawalBundle{}, ok, err
	}
	wb, err = tx.DecodeBundle(val)
	return wb, true, err
}

func (w *WriteTxn) PutPendingBundle(wb tx.WithdrawalBundle) error {
	return set(w.txn, keyPendingBundle, tx.EncodeBundle(wb))
}

func (w *WriteTxn) ClearPendingBundle() error {
	return del(w.txn, keyPendingBundle)
}

// --- last_withdrawal_bundle_failure_height: u32 ---

func (r *ReadSnapshot) GetLastFailureHeight() (height uint32, found bool, err error) {
	val, ok, err := get(r.txn, keyLastFailHeight)
	if err != nil || !ok {
		return 0, ok, err
	}
	return decodeU32(val), true, nil
}

func (w *WriteTxn) PutLastFailureHeight(height uint32) error {
	return set(w.txn, keyLastFailHeight, encodeU32(height))
}

// --- last_deposit_block: ParentBlockHash ---

func (r *ReadSnapshot) GetLastDepositBlock() (h types.ParentBlockHash, found bool, err error) {
	val, ok, err := get(r.txn, keyLastDeposit)
	if err != nil || !ok {
		return types.ParentBlockHash{}, ok, err
	}
	copy(h[:], val)
	return h, true, nil
}

func (w *WriteTxn) PutLastDepositBlock(h types.ParentBlockHash) error {
	return set(w.txn, keyLastDeposit, h.Bytes())
}
