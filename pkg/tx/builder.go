package tx

import (
	"fmt"

	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/types"
)

// Builder assembles a Transaction (and, once signed, an
// AuthorizedTransaction) through a fluent call chain. It exists for tests
// and tools that need to construct well-formed transactions without
// hand-building the slices; the ledger and validator never use it.
type Builder struct {
	inputs  []types.OutPoint
	outputs []Output
}

// NewBuilder starts an empty transaction.
func NewBuilder() *Builder {
	return &Builder{}
}

// Spend adds an input referencing the given OutPoint.
func (b *Builder) Spend(o types.OutPoint) *Builder {
	b.inputs = append(b.inputs, o)
	return b
}

// Output appends an arbitrary output.
func (b *Builder) Output(o Output) *Builder {
	b.outputs = append(b.outputs, o)
	return b
}

// Value appends a plain transferable-value output to address.
func (b *Builder) Value(address types.Address, amount uint64) *Builder {
	return b.Output(Output{Address: address, Content: ValueContent(amount)})
}

// Withdraw appends a Withdrawal output queuing amount for mainAddress on the
// parent chain, with mainFee paid to whoever assembles the bundle.
func (b *Builder) Withdraw(address types.Address, amount uint64, mainAddress types.ParentAddress, mainFee uint64) *Builder {
	return b.Output(Output{Address: address, Content: WithdrawalContent(amount, mainAddress, mainFee)})
}

// Commit appends a Commitment output binding salt and key without revealing
// either.
func (b *Builder) Commit(address types.Address, key types.Key, salt types.Salt) *Builder {
	c := crypto.Commitment(key, salt)
	return b.Output(Output{Address: address, Content: CommitmentContent(c)})
}

// Reveal appends a Reveal output disclosing the (key, salt) pair behind a
// prior Commitment.
func (b *Builder) Reveal(address types.Address, key types.Key, salt types.Salt) *Builder {
	return b.Output(Output{Address: address, Content: RevealContent(key, salt)})
}

// Set appends a KeyValue output binding value to a previously registered key.
func (b *Builder) Set(address types.Address, key types.Key, value types.Value) *Builder {
	return b.Output(Output{Address: address, Content: KeyValueContent(key, value)})
}

// Build returns the assembled, unsigned Transaction.
func (b *Builder) Build() (*Transaction, error) {
	if len(b.inputs) == 0 {
		return nil, fmt.Errorf("tx builder: no inputs")
	}
	if len(b.outputs) == 0 {
		return nil, fmt.Errorf("tx builder: no outputs")
	}
	return &Transaction{Inputs: b.inputs, Outputs: b.outputs}, nil
}

// Sign builds the transaction and authorises every input with a single key,
// signing the transaction's signing-bytes hash. Tests spending outputs
// owned by different keys should sign each input individually instead and
// assemble an AuthorizedTransaction by hand.
func (b *Builder) Sign(key *crypto.PrivateKey) (*AuthorizedTransaction, error) {
	txn, err := b.Build()
	if err != nil {
		return nil, err
	}
	hash := txn.Hash()
	sig, err := key.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("tx builder: sign: %w", err)
	}
	var auth Authorization
	copy(auth.PubKey[:], key.PublicKey())
	copy(auth.Signature[:], sig)

	auths := make([]Authorization, len(txn.Inputs))
	for i := range auths {
		auths[i] = auth
	}
	return &AuthorizedTransaction{Transaction: *txn, Authorizations: auths}, nil
}
