// Package cerrors defines the structured consensus error types of §7: one
// Go struct per named error, each wrapping a sentinel category so callers
// can either errors.Is the category or type-assert for the structured
// fields a log line or an RPC error response needs.
package cerrors

import (
	"errors"
	"fmt"

	"github.com/duskchain/duskchain/pkg/types"
)

// Sentinel categories. Every structured error below unwraps to exactly one
// of these, so `errors.Is(err, cerrors.ErrRevealTooLate)` works regardless
// of which concrete type produced it.
var (
	ErrUtxoDoesNotExist      = errors.New("utxo does not exist")
	ErrInvalidPrevSideBlock  = errors.New("invalid prev_side_block_hash")
	ErrInvalidMerkleRoot     = errors.New("invalid merkle root")
	ErrAuthorizationFailed   = errors.New("authorization failed")
	ErrRevealTooLate         = errors.New("reveal too late")
	ErrKeyAlreadyRegistered  = errors.New("key already registered")
	ErrCommitmentAlreadyExists = errors.New("commitment already exists")
	ErrCommitmentNotFound    = errors.New("commitment not found")
	ErrKeyNotFound           = errors.New("key not found")
	ErrInvalidNameCommitment = errors.New("invalid name commitment")
	ErrInvalidKey            = errors.New("invalid key")
	ErrBundleTooHeavy        = errors.New("withdrawal bundle too heavy")
	ErrStorageFatal          = errors.New("storage fatal")
)

// UtxoDoesNotExist reports a Transaction input referencing an OutPoint
// absent from the UTXO set.
type UtxoDoesNotExist struct {
	OutPoint types.OutPoint
}

func (e *UtxoDoesNotExist) Error() string {
	return fmt.Sprintf("utxo does not exist: %s", e.OutPoint)
}
func (e *UtxoDoesNotExist) Unwrap() error { return ErrUtxoDoesNotExist }

// InvalidPrevSideBlockHash reports a Header whose ancestry does not chain
// from the current tip.
type InvalidPrevSideBlockHash struct {
	Want, Got types.BlockHash
}

func (e *InvalidPrevSideBlockHash) Error() string {
	return fmt.Sprintf("invalid prev_side_block_hash: want %s, got %s", e.Want, e.Got)
}
func (e *InvalidPrevSideBlockHash) Unwrap() error { return ErrInvalidPrevSideBlock }

// InvalidMerkleRoot reports a Header whose merkle root does not match the
// body it is paired with.
type InvalidMerkleRoot struct {
	Want, Got types.MerkleRoot
}

func (e *InvalidMerkleRoot) Error() string {
	return fmt.Sprintf("invalid merkle root: header=%s computed=%s", e.Want, e.Got)
}
func (e *InvalidMerkleRoot) Unwrap() error { return ErrInvalidMerkleRoot }

// AuthorizationFailed reports a Transaction input whose Authorization does
// not verify.
type AuthorizationFailed struct {
	Txid       types.Txid
	InputIndex int
}

func (e *AuthorizationFailed) Error() string {
	return fmt.Sprintf("authorization failed: tx %s input %d", e.Txid, e.InputIndex)
}
func (e *AuthorizationFailed) Unwrap() error { return ErrAuthorizationFailed }

// RevealTooLate reports a Reveal output spending a Commitment more than
// COMMITMENT_MAX_AGE blocks after it was mined.
type RevealTooLate struct {
	Commitment types.Commitment
	LateBy     uint32
}

func (e *RevealTooLate) Error() string {
	return fmt.Sprintf("reveal too late: commitment %s, %d blocks late", e.Commitment, e.LateBy)
}
func (e *RevealTooLate) Unwrap() error { return ErrRevealTooLate }

// KeyAlreadyRegistered reports a Reveal losing the older-commitment-wins
// tie-break against a Key's currently bound commitment.
type KeyAlreadyRegistered struct {
	Key                  types.Key
	PrevCommitmentHeight uint32
	CommitmentHeight     uint32
}

func (e *KeyAlreadyRegistered) Error() string {
	return fmt.Sprintf("key already registered: key %s, prev_commitment_height=%d commitment_height=%d",
		e.Key, e.PrevCommitmentHeight, e.CommitmentHeight)
}
func (e *KeyAlreadyRegistered) Unwrap() error { return ErrKeyAlreadyRegistered }

// CommitmentAlreadyExists reports a Commitment output re-using a
// Commitment value already present in commitment_to_outpoint.
type CommitmentAlreadyExists struct {
	Commitment types.Commitment
}

func (e *CommitmentAlreadyExists) Error() string {
	return fmt.Sprintf("commitment already exists: %s", e.Commitment)
}
func (e *CommitmentAlreadyExists) Unwrap() error { return ErrCommitmentAlreadyExists }

// CommitmentNotFound reports a lookup against commitment_to_height or
// commitment_to_outpoint for a Commitment that was never mined, or was
// already swept.
type CommitmentNotFound struct {
	Commitment types.Commitment
}

func (e *CommitmentNotFound) Error() string {
	return fmt.Sprintf("commitment not found: %s", e.Commitment)
}
func (e *CommitmentNotFound) Unwrap() error { return ErrCommitmentNotFound }

// KeyNotFound reports a lookup for a Key that has never been bound.
type KeyNotFound struct {
	Key types.Key
}

func (e *KeyNotFound) Error() string { return fmt.Sprintf("key not found: %s", e.Key) }
func (e *KeyNotFound) Unwrap() error  { return ErrKeyNotFound }

// InvalidNameCommitment reports a Reveal whose recomputed
// mac(key, salt) does not match any spent Commitment in the transaction.
type InvalidNameCommitment struct {
	Key     types.Key
	Want    types.Commitment
}

func (e *InvalidNameCommitment) Error() string {
	return fmt.Sprintf("invalid name commitment: key %s does not match any spent commitment (want %s)", e.Key, e.Want)
}
func (e *InvalidNameCommitment) Unwrap() error { return ErrInvalidNameCommitment }

// InvalidKey reports a KeyValue output whose Key was not spent as a Reveal
// or KeyValue input of the same transaction.
type InvalidKey struct {
	Key types.Key
}

func (e *InvalidKey) Error() string { return fmt.Sprintf("invalid key: %s not among spent keys", e.Key) }
func (e *InvalidKey) Unwrap() error  { return ErrInvalidKey }

// BundleTooHeavy reports a withdrawal bundle whose assembled parent-chain
// transaction exceeds MAX_STANDARD_TX_WEIGHT.
type BundleTooHeavy struct {
	Weight, Cap int
}

func (e *BundleTooHeavy) Error() string {
	return fmt.Sprintf("withdrawal bundle too heavy: weight=%d cap=%d", e.Weight, e.Cap)
}
func (e *BundleTooHeavy) Unwrap() error { return ErrBundleTooHeavy }

// StorageFatal wraps an I/O error from the ledger store. The block-connect
// attempt (or mempool check) that surfaced it must treat the node as
// unable to make progress; there is no deterministic recovery.
type StorageFatal struct {
	Op  string
	Err error
}

func (e *StorageFatal) Error() string { return fmt.Sprintf("storage fatal: %s: %v", e.Op, e.Err) }
func (e *StorageFatal) Unwrap() error { return e.Err }
func (e *StorageFatal) Is(target error) bool { return target == ErrStorageFatal }
