package tx

import (
	"errors"
	"math"
	"testing"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/types"
)

// signedSpend builds a minimal one-input, one-output transaction spending
// prevOut, signed by key, and returns both the AuthorizedTransaction and the
// Address key owns (the caller passes that back into VerifySignatures).
func signedSpend(t *testing.T, key *crypto.PrivateKey, prevOut types.OutPoint, amount uint64) (*AuthorizedTransaction, types.Address) {
	t.Helper()
	addr := crypto.AddressFromPubKey(key.PublicKey())
	at, err := NewBuilder().Spend(prevOut).Value(addr, amount).Sign(key)
	if err != nil {
		t.Fatalf("build/sign: %v", err)
	}
	return at, addr
}

func TestValidate_Valid(t *testing.T) {
	key, _ := crypto.GenerateKey()
	at, _ := signedSpend(t, key, types.Regular(types.Txid{0x01}, 0), 1000)
	if err := at.Transaction.Validate(); err != nil {
		t.Errorf("valid tx should pass: %v", err)
	}
}

func TestValidate_NoInputs(t *testing.T) {
	txn := &Transaction{
		Outputs: []Output{{Content: ValueContent(1000)}},
	}
	err := txn.Validate()
	if !errors.Is(err, ErrNoInputs) {
		t.Errorf("expected ErrNoInputs, got: %v", err)
	}
}

func TestValidate_NoOutputs(t *testing.T) {
	txn := &Transaction{
		Inputs: []types.OutPoint{types.Regular(types.Txid{0x01}, 0)},
	}
	err := txn.Validate()
	if !errors.Is(err, ErrNoOutputs) {
		t.Errorf("expected ErrNoOutputs, got: %v", err)
	}
}

func TestValidate_DuplicateInput(t *testing.T) {
	same := types.Regular(types.Txid{0x01}, 0)
	txn := &Transaction{
		Inputs:  []types.OutPoint{same, same},
		Outputs: []Output{{Content: ValueContent(1000)}},
	}
	err := txn.Validate()
	if !errors.Is(err, ErrDuplicateInput) {
		t.Errorf("expected ErrDuplicateInput, got: %v", err)
	}
}

func TestValidate_OutputOverflow(t *testing.T) {
	txn := &Transaction{
		Inputs: []types.OutPoint{types.Regular(types.Txid{0x01}, 0)},
		Outputs: []Output{
			{Content: ValueContent(math.MaxUint64)},
			{Content: ValueContent(1)},
		},
	}
	err := txn.Validate()
	if !errors.Is(err, ErrValueOverflow) {
		t.Errorf("expected ErrValueOverflow, got: %v", err)
	}
}

func TestValidate_TooManyInputs(t *testing.T) {
	inputs := make([]types.OutPoint, config.MaxTxInputs+1)
	for i := range inputs {
		inputs[i] = types.Regular(types.Txid{byte(i >> 8), byte(i)}, uint32(i))
	}
	txn := &Transaction{
		Inputs:  inputs,
		Outputs: []Output{{Content: ValueContent(1000)}},
	}
	err := txn.Validate()
	if !errors.Is(err, ErrTooManyInputs) {
		t.Errorf("expected ErrTooManyInputs, got: %v", err)
	}
}

func TestValidate_TooManyInputs_AtLimit(t *testing.T) {
	inputs := make([]types.OutPoint, config.MaxTxInputs)
	for i := range inputs {
		inputs[i] = types.Regular(types.Txid{byte(i >> 8), byte(i)}, uint32(i))
	}
	txn := &Transaction{
		Inputs:  inputs,
		Outputs: []Output{{Content: ValueContent(1000)}},
	}
	if err := txn.Validate(); errors.Is(err, ErrTooManyInputs) {
		t.Error("exactly MaxTxInputs should not trigger ErrTooManyInputs")
	}
}

func TestValidate_TooManyOutputs(t *testing.T) {
	outputs := make([]Output, config.MaxTxOutputs+1)
	for i := range outputs {
		outputs[i] = Output{Content: ValueContent(1)}
	}
	txn := &Transaction{
		Inputs:  []types.OutPoint{types.Regular(types.Txid{0x01}, 0)},
		Outputs: outputs,
	}
	err := txn.Validate()
	if !errors.Is(err, ErrTooManyOutputs) {
		t.Errorf("expected ErrTooManyOutputs, got: %v", err)
	}
}

func TestValidate_TooManyOutputs_AtLimit(t *testing.T) {
	outputs := make([]Output, config.MaxTxOutputs)
	for i := range outputs {
		outputs[i] = Output{Content: ValueContent(1)}
	}
	txn := &Transaction{
		Inputs:  []types.OutPoint{types.Regular(types.Txid{0x01}, 0)},
		Outputs: outputs,
	}
	if err := txn.Validate(); errors.Is(err, ErrTooManyOutputs) {
		t.Error("exactly MaxTxOutputs should not trigger ErrTooManyOutputs")
	}
}

func TestVerifySignatures_Valid(t *testing.T) {
	key, _ := crypto.GenerateKey()
	at, owner := signedSpend(t, key, types.Regular(types.Txid{0x01}, 0), 1000)
	if err := at.VerifySignatures([]types.Address{owner}); err != nil {
		t.Errorf("valid signature should verify: %v", err)
	}
}

func TestVerifySignatures_WrongOwner(t *testing.T) {
	key, _ := crypto.GenerateKey()
	other, _ := crypto.GenerateKey()
	at, _ := signedSpend(t, key, types.Regular(types.Txid{0x01}, 0), 1000)

	// The signature itself is valid, but the caller passes in the address
	// of a UTXO owned by a different key: this is the authorization/address
	// binding check, and it must reject this even though the signature
	// verifies fine against key's own pubkey.
	wrongOwner := crypto.AddressFromPubKey(other.PublicKey())
	err := at.VerifySignatures([]types.Address{wrongOwner})
	if !errors.Is(err, ErrWrongOwner) {
		t.Errorf("expected ErrWrongOwner, got: %v", err)
	}
}

func TestVerifySignatures_TamperedOutput(t *testing.T) {
	key, _ := crypto.GenerateKey()
	at, owner := signedSpend(t, key, types.Regular(types.Txid{0x01}, 0), 1000)

	at.Outputs[0].Content = ValueContent(9999)

	err := at.VerifySignatures([]types.Address{owner})
	if !errors.Is(err, ErrInvalidSig) {
		t.Errorf("tampered tx should fail verification, got: %v", err)
	}
}

func TestVerifySignatures_CorruptedSig(t *testing.T) {
	key, _ := crypto.GenerateKey()
	at, owner := signedSpend(t, key, types.Regular(types.Txid{0x01}, 0), 1000)

	at.Authorizations[0].Signature[0] ^= 0xFF

	err := at.VerifySignatures([]types.Address{owner})
	if !errors.Is(err, ErrInvalidSig) {
		t.Errorf("corrupted sig should fail, got: %v", err)
	}
}

func TestVerifySignatures_MissingAuthorization(t *testing.T) {
	txn, err := NewBuilder().
		Spend(types.Regular(types.Txid{0x01}, 0)).
		Value(types.Address{0x09}, 1000).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	at := &AuthorizedTransaction{Transaction: *txn}

	err = at.VerifySignatures([]types.Address{{}})
	if !errors.Is(err, ErrMissingAuth) {
		t.Errorf("expected ErrMissingAuth, got: %v", err)
	}
}

func TestVerifySignatures_OwnersLengthMismatch(t *testing.T) {
	key, _ := crypto.GenerateKey()
	at, _ := signedSpend(t, key, types.Regular(types.Txid{0x01}, 0), 1000)

	err := at.VerifySignatures(nil)
	if !errors.Is(err, ErrMissingAuth) {
		t.Errorf("expected ErrMissingAuth for owners/inputs length mismatch, got: %v", err)
	}
}
