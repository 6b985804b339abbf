package validator

import (
	"errors"
	"testing"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/internal/ledger"
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/tx"
	"github.com/duskchain/duskchain/pkg/types"
)

func openTestStore(t *testing.T) *ledger.Store {
	t.Helper()
	s, err := ledger.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return key
}

func addressFor(key *crypto.PrivateKey) types.Address {
	h := crypto.Hash(key.PublicKey())
	var a types.Address
	copy(a[:], h[:])
	return a
}

func TestValidateSimpleValueTransfer(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	op := types.Regular(types.Txid{0x01}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(op, tx.Output{Address: addr, Content: tx.ValueContent(1000)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	at, err := tx.NewBuilder().Spend(op).Value(addr, 900).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	fee, err := Validate(r, 1, at)
	if err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if fee != 100 {
		t.Errorf("fee = %d, want 100", fee)
	}
}

func TestValidateMissingUTXO(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	op := types.Regular(types.Txid{0x02}, 0)
	at, err := tx.NewBuilder().Spend(op).Value(addr, 10).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	_, err = Validate(r, 1, at)
	var notExist *cerrors.UtxoDoesNotExist
	if !errors.As(err, &notExist) {
		t.Fatalf("Validate() error = %v, want *cerrors.UtxoDoesNotExist", err)
	}
}

func TestValidateRejectsOutputsExceedingInputs(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	op := types.Regular(types.Txid{0x03}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(op, tx.Output{Address: addr, Content: tx.ValueContent(100)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	at, err := tx.NewBuilder().Spend(op).Value(addr, 200).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	if _, err := Validate(r, 1, at); err == nil {
		t.Error("Validate() should reject outputs exceeding inputs")
	}
}

func TestValidateRevealTooLate(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	registryKey := types.Key{0x42}
	var salt types.Salt
	salt[0] = 0x07
	commitment := crypto.Commitment(registryKey, salt)

	commitOp := types.Regular(types.Txid{0x04}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(commitOp, tx.Output{Address: addr, Content: tx.CommitmentContent(commitment)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.PutCommitmentHeight(commitment, 10); err != nil {
		t.Fatalf("PutCommitmentHeight: %v", err)
	}
	if err := w.PutCommitmentOutpoint(commitment, commitOp); err != nil {
		t.Fatalf("PutCommitmentOutpoint: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	at, err := tx.NewBuilder().Spend(commitOp).Reveal(addr, registryKey, salt).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	effectiveHeight := 10 + config.CommitmentMaxAge + 1
	_, err = Validate(r, effectiveHeight, at)
	var lateErr *cerrors.RevealTooLate
	if !errors.As(err, &lateErr) {
		t.Fatalf("Validate() error = %v, want *cerrors.RevealTooLate", err)
	}
}

func TestValidateRevealWithinAgeSucceeds(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	registryKey := types.Key{0x43}
	var salt types.Salt
	salt[0] = 0x08
	commitment := crypto.Commitment(registryKey, salt)

	commitOp := types.Regular(types.Txid{0x05}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(commitOp, tx.Output{Address: addr, Content: tx.CommitmentContent(commitment)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.PutCommitmentHeight(commitment, 10); err != nil {
		t.Fatalf("PutCommitmentHeight: %v", err)
	}
	if err := w.PutCommitmentOutpoint(commitment, commitOp); err != nil {
		t.Fatalf("PutCommitmentOutpoint: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	at, err := tx.NewBuilder().Spend(commitOp).Reveal(addr, registryKey, salt).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	effectiveHeight := 10 + config.CommitmentMaxAge
	if _, err := Validate(r, effectiveHeight, at); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateRevealWithWrongCommitmentRejected(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	registryKey := types.Key{0x44}
	var salt types.Salt
	salt[0] = 0x09
	commitment := crypto.Commitment(registryKey, salt)

	commitOp := types.Regular(types.Txid{0x06}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(commitOp, tx.Output{Address: addr, Content: tx.CommitmentContent(commitment)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.PutCommitmentHeight(commitment, 10); err != nil {
		t.Fatalf("PutCommitmentHeight: %v", err)
	}
	if err := w.PutCommitmentOutpoint(commitment, commitOp); err != nil {
		t.Fatalf("PutCommitmentOutpoint: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var wrongSalt types.Salt
	wrongSalt[0] = 0xff
	at, err := tx.NewBuilder().Spend(commitOp).Reveal(addr, registryKey, wrongSalt).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	_, err = Validate(r, 10, at)
	var invalid *cerrors.InvalidNameCommitment
	if !errors.As(err, &invalid) {
		t.Fatalf("Validate() error = %v, want *cerrors.InvalidNameCommitment", err)
	}
}

func TestValidateKeyValueRequiresSpentKey(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	// An unrelated input funds the transaction; the key in the KeyValue
	// output was never spent as a Reveal or KeyValue input.
	op := types.Regular(types.Txid{0x07}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(op, tx.Output{Address: addr, Content: tx.ValueContent(10)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	unspentKey := types.Key{0x55}
	at, err := tx.NewBuilder().Spend(op).Set(addr, unspentKey, types.Value{0x01}).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	_, err = Validate(r, 1, at)
	var invalidKey *cerrors.InvalidKey
	if !errors.As(err, &invalidKey) {
		t.Fatalf("Validate() error = %v, want *cerrors.InvalidKey", err)
	}
}

func TestValidateCommitmentOutputMustBeUnique(t *testing.T) {
	s := openTestStore(t)
	key := testKey(t)
	addr := addressFor(key)

	registryKey := types.Key{0x66}
	var salt types.Salt
	salt[0] = 0x0a
	commitment := crypto.Commitment(registryKey, salt)

	fundingOp := types.Regular(types.Txid{0x08}, 0)
	w := s.BeginWrite()
	if err := w.PutUTXO(fundingOp, tx.Output{Address: addr, Content: tx.ValueContent(10)}); err != nil {
		t.Fatalf("PutUTXO: %v", err)
	}
	// Simulate the commitment already being live on chain.
	existingCommitOp := types.Regular(types.Txid{0x09}, 0)
	if err := w.PutCommitmentOutpoint(commitment, existingCommitOp); err != nil {
		t.Fatalf("PutCommitmentOutpoint: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	at, err := tx.NewBuilder().Spend(fundingOp).Commit(addr, registryKey, salt).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}

	r := s.BeginRead()
	defer r.Discard()

	_, err = Validate(r, 1, at)
	var dup *cerrors.CommitmentAlreadyExists
	if !errors.As(err, &dup) {
		t.Fatalf("Validate() error = %v, want *cerrors.CommitmentAlreadyExists", err)
	}
}
