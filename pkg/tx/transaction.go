// Package tx defines the transaction and output types and their canonical
// binary encoding.
package tx

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/duskchain/duskchain/pkg/crypto"
	"github.com/duskchain/duskchain/pkg/types"
)

// ContentKind discriminates the five OutputContent variants.
type ContentKind uint8

const (
	ContentValue      ContentKind = iota // plain transferable value
	ContentWithdrawal                    // funds queued to leave the sidechain
	ContentCommitment                    // Custom::Commitment(Commitment)
	ContentReveal                        // Custom::Reveal{salt,key}
	ContentKeyValue                      // Custom::KeyValue{key,value}
)

func (k ContentKind) String() string {
	switch k {
	case ContentValue:
		return "value"
	case ContentWithdrawal:
		return "withdrawal"
	case ContentCommitment:
		return "commitment"
	case ContentReveal:
		return "reveal"
	case ContentKeyValue:
		return "keyvalue"
	default:
		return "unknown"
	}
}

// OutputContent is the tagged sum described in the data model: only the
// fields relevant to Kind are meaningful. A struct (rather than an
// interface) keeps the type comparable and trivially encodable.
type OutputContent struct {
	Kind ContentKind

	Amount      uint64             // Value, Withdrawal
	MainAddress types.ParentAddress // Withdrawal
	MainFee     uint64             // Withdrawal

	Commitment types.Commitment // Commitment

	Salt types.Salt // Reveal
	Key  types.Key  // Reveal, KeyValue

	BoundValue types.Value // KeyValue
}

// GetValue returns the base-unit amount this content contributes to the
// UTXO conservation check. Plain Value and Withdrawal outputs carry an
// amount; the registry variants carry none.
func (c OutputContent) GetValue() uint64 {
	switch c.Kind {
	case ContentValue, ContentWithdrawal:
		return c.Amount
	default:
		return 0
	}
}

// ValueContent builds a plain transferable-value output content.
func ValueContent(amount uint64) OutputContent {
	return OutputContent{Kind: ContentValue, Amount: amount}
}

// WithdrawalContent builds a Withdrawal output content.
func WithdrawalContent(amount uint64, mainAddress types.ParentAddress, mainFee uint64) OutputContent {
	return OutputContent{Kind: ContentWithdrawal, Amount: amount, MainAddress: mainAddress, MainFee: mainFee}
}

// CommitmentContent builds a Commitment output content.
func CommitmentContent(c types.Commitment) OutputContent {
	return OutputContent{Kind: ContentCommitment, Commitment: c}
}

// RevealContent builds a Reveal output content.
func RevealContent(key types.Key, salt types.Salt) OutputContent {
	return OutputContent{Kind: ContentReveal, Key: key, Salt: salt}
}

// KeyValueContent builds a KeyValue output content.
func KeyValueContent(key types.Key, value types.Value) OutputContent {
	return OutputContent{Kind: ContentKeyValue, Key: key, BoundValue: value}
}

// Output pairs a destination Address with its OutputContent.
type Output struct {
	Address types.Address
	Content OutputContent
}

// outputJSON mirrors Output with hex-friendly nested types (OutputContent's
// fields already marshal as hex via their own MarshalJSON methods).
type outputJSON struct {
	Address     types.Address       `json:"address"`
	Kind        ContentKind         `json:"kind"`
	Amount      uint64              `json:"amount,omitempty"`
	MainAddress types.ParentAddress `json:"main_address,omitempty"`
	MainFee     uint64              `json:"main_fee,omitempty"`
	Commitment  *types.Commitment   `json:"commitment,omitempty"`
	Salt        *types.Salt         `json:"salt,omitempty"`
	Key         *types.Key          `json:"key,omitempty"`
	BoundValue  *types.Value        `json:"value,omitempty"`
}

func (o Output) MarshalJSON() ([]byte, error) {
	j := outputJSON{Address: o.Address, Kind: o.Content.Kind}
	switch o.Content.Kind {
	case ContentValue:
		j.Amount = o.Content.Amount
	case ContentWithdrawal:
		j.Amount = o.Content.Amount
		j.MainAddress = o.Content.MainAddress
		j.MainFee = o.Content.MainFee
	case ContentCommitment:
		j.Commitment = &o.Content.Commitment
	case ContentReveal:
		j.Salt = &o.Content.Salt
		j.Key = &o.Content.Key
	case ContentKeyValue:
		j.Key = &o.Content.Key
		j.BoundValue = &o.Content.BoundValue
	}
	return json.Marshal(j)
}

func (o *Output) UnmarshalJSON(data []byte) error {
	var j outputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	o.Address = j.Address
	o.Content = OutputContent{Kind: j.Kind, Amount: j.Amount, MainAddress: j.MainAddress, MainFee: j.MainFee}
	if j.Commitment != nil {
		o.Content.Commitment = *j.Commitment
	}
	if j.Salt != nil {
		o.Content.Salt = *j.Salt
	}
	if j.Key != nil {
		o.Content.Key = *j.Key
	}
	if j.BoundValue != nil {
		o.Content.BoundValue = *j.BoundValue
	}
	return nil
}

// Authorization authorises one Transaction input: a public key and a
// Schnorr signature over the transaction's signing bytes.
type Authorization struct {
	PubKey    [33]byte
	Signature [64]byte
}

// Transaction is the unsigned body: an ordered list of inputs and outputs.
type Transaction struct {
	Inputs  []types.OutPoint
	Outputs []Output
}

// AuthorizedTransaction pairs a Transaction with one Authorization per
// input; Authorizations[i] authorises Inputs[i].
type AuthorizedTransaction struct {
	Transaction
	Authorizations []Authorization
}

// Hash computes the transaction id: the hash of the canonical encoding of
// inputs and outputs, in order. Authorizations are never part of the txid
// (a transaction's identity does not depend on who signed it).
func (t *Transaction) Hash() types.Txid {
	return types.Txid(crypto.Hash(t.SigningBytes()))
}

// SigningBytes returns the canonical serialisation covering inputs and
// outputs, used both to compute the txid and as the message each
// Authorization signs.
//
// Format: input_count(4) | [outpoint(37)]... | output_count(4) | [address(32) + content]...
func (t *Transaction) SigningBytes() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf = append(buf, in.Encode()...)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Outputs)))
	for _, out := range t.Outputs {
		buf = append(buf, out.Address.Bytes()...)
		buf = appendContent(buf, out.Content)
	}

	return buf
}

func appendContent(buf []byte, c OutputContent) []byte {
	buf = append(buf, byte(c.Kind))
	switch c.Kind {
	case ContentValue:
		buf = binary.LittleEndian.AppendUint64(buf, c.Amount)
	case ContentWithdrawal:
		buf = binary.LittleEndian.AppendUint64(buf, c.Amount)
		addr := []byte(c.MainAddress)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(addr)))
		buf = append(buf, addr...)
		buf = binary.LittleEndian.AppendUint64(buf, c.MainFee)
	case ContentCommitment:
		buf = append(buf, c.Commitment.Bytes()...)
	case ContentReveal:
		buf = append(buf, c.Salt.Bytes()...)
		buf = append(buf, c.Key.Bytes()...)
	case ContentKeyValue:
		buf = append(buf, c.Key.Bytes()...)
		buf = append(buf, c.BoundValue.Bytes()...)
	}
	return buf
}

// TotalOutputValue returns the sum of GetValue() across all outputs.
// Returns an error if the sum overflows uint64.
func (t *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range t.Outputs {
		v := out.Content.GetValue()
		if total > math.MaxUint64-v {
			return 0, fmt.Errorf("output value overflow")
		}
		total += v
	}
	return total, nil
}
