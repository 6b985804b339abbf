package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/duskchain/duskchain/config"
	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/types"
)

// Structural validation errors. These are checked before a transaction ever
// reaches the validator; UTXO existence and registry rules are the
// validator's job, not this package's.
var (
	ErrNoInputs       = errors.New("transaction has no inputs")
	ErrNoOutputs      = errors.New("transaction has no outputs")
	ErrDuplicateInput = errors.New("duplicate input")
	ErrTooManyInputs  = errors.New("too many inputs")
	ErrTooManyOutputs = errors.New("too many outputs")
	ErrMissingAuth    = errors.New("input missing authorization")
	ErrInvalidSig     = errors.New("invalid signature")
	ErrValueOverflow  = errors.New("output values overflow")
	ErrWrongOwner     = errors.New("authorization does not match spent output's address")
)

// Validate checks transaction shape: non-empty inputs and outputs, no
// duplicate inputs, and the configured per-transaction size caps. It does
// not touch the UTXO set or the registry; those checks belong to the
// validator, which needs a ledger snapshot to perform them.
func (t *Transaction) Validate() error {
	if len(t.Inputs) == 0 {
		return ErrNoInputs
	}
	if len(t.Outputs) == 0 {
		return ErrNoOutputs
	}
	if len(t.Inputs) > config.MaxTxInputs {
		return fmt.Errorf("%w: %d inputs, max %d", ErrTooManyInputs, len(t.Inputs), config.MaxTxInputs)
	}
	if len(t.Outputs) > config.MaxTxOutputs {
		return fmt.Errorf("%w: %d outputs, max %d", ErrTooManyOutputs, len(t.Outputs), config.MaxTxOutputs)
	}

	seen := make(map[types.OutPoint]bool, len(t.Inputs))
	for i, in := range t.Inputs {
		if seen[in] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in] = true
	}

	if _, err := t.TotalOutputValue(); err != nil {
		return fmt.Errorf("%w: %v", ErrValueOverflow, err)
	}
	return nil
}

// VerifySignatures checks that every input of at has a valid Authorization
// over the transaction's signing bytes, signed by the key that owns the
// address of the output it spends. owners[i] must be the Address of the
// Output that Inputs[i] references; callers resolve it from the UTXO set
// before calling VerifySignatures (§4.3: "each input's signature verifies
// against the spending address"). Checking the signature alone, without
// binding it to owners[i], would let anyone spend any UTXO by supplying
// their own keypair.
func (at *AuthorizedTransaction) VerifySignatures(owners []types.Address) error {
	if len(at.Authorizations) != len(at.Inputs) {
		return fmt.Errorf("%w: %d inputs, %d authorizations", ErrMissingAuth, len(at.Inputs), len(at.Authorizations))
	}
	if len(owners) != len(at.Inputs) {
		return fmt.Errorf("%w: %d inputs, %d owners", ErrMissingAuth, len(at.Inputs), len(owners))
	}
	hash := at.Hash()
	for i, auth := range at.Authorizations {
		if !crypto.VerifySignature(hash[:], auth.Signature[:], auth.PubKey[:]) {
			return fmt.Errorf("input %d: %w", i, ErrInvalidSig)
		}
		if crypto.AddressFromPubKey(auth.PubKey[:]) != owners[i] {
			return fmt.Errorf("input %d: %w", i, ErrWrongOwner)
		}
	}
	return nil
}
