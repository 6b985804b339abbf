package types

import (
	"encoding/binary"
	"fmt"
)

// OutPointKind discriminates the two ways an OutPoint can be born.
type OutPointKind uint8

const (
	// OutPointRegular references an output of a sidechain transaction.
	OutPointRegular OutPointKind = iota
	// OutPointDeposit references a deposit ingested from the parent chain.
	OutPointDeposit
)

// OutPoint identifies exactly one Output that has ever existed: either a
// sidechain transaction output (Regular) or a parent-chain deposit
// (Deposit). It is a tagged sum, not a struct with optional fields, so a
// Deposit OutPoint can never be confused with a Regular one even if the
// numeric fields happen to collide.
type OutPoint struct {
	Kind       OutPointKind
	TxID       Txid       // set when Kind == OutPointRegular
	ParentTxID ParentTxid // set when Kind == OutPointDeposit
	Vout       uint32
}

// Regular builds a Regular OutPoint referencing a sidechain transaction output.
func Regular(txid Txid, vout uint32) OutPoint {
	return OutPoint{Kind: OutPointRegular, TxID: txid, Vout: vout}
}

// Deposit builds a Deposit OutPoint referencing a parent-chain deposit.
func Deposit(parentTxid ParentTxid, vout uint32) OutPoint {
	return OutPoint{Kind: OutPointDeposit, ParentTxID: parentTxid, Vout: vout}
}

// IsDeposit reports whether this OutPoint originates from the parent chain.
func (o OutPoint) IsDeposit() bool {
	return o.Kind == OutPointDeposit
}

// String renders the OutPoint for logs and error messages.
func (o OutPoint) String() string {
	if o.IsDeposit() {
		return fmt.Sprintf("deposit:%s:%d", o.ParentTxID, o.Vout)
	}
	return fmt.Sprintf("regular:%s:%d", o.TxID, o.Vout)
}

// Encode returns the canonical byte encoding of the OutPoint, used both as
// a ledger index key and as part of a Transaction's signing bytes. The
// encoding is a fixed 37 bytes: 1 kind byte, 32 hash bytes (TxID or
// ParentTxID, whichever applies), 4 index bytes (big-endian, so that
// outpoints sort deterministically by (kind, id, vout)).
func (o OutPoint) Encode() []byte {
	buf := make([]byte, 1+HashSize+4)
	buf[0] = byte(o.Kind)
	if o.IsDeposit() {
		copy(buf[1:1+HashSize], o.ParentTxID.Bytes())
	} else {
		copy(buf[1:1+HashSize], o.TxID.Bytes())
	}
	binary.BigEndian.PutUint32(buf[1+HashSize:], o.Vout)
	return buf
}

// DecodeOutPoint parses the encoding produced by OutPoint.Encode.
func DecodeOutPoint(b []byte) (OutPoint, error) {
	if len(b) != 1+HashSize+4 {
		return OutPoint{}, fmt.Errorf("outpoint: want %d bytes, got %d", 1+HashSize+4, len(b))
	}
	kind := OutPointKind(b[0])
	if kind != OutPointRegular && kind != OutPointDeposit {
		return OutPoint{}, fmt.Errorf("outpoint: invalid kind %d", b[0])
	}
	var h Hash
	copy(h[:], b[1:1+HashSize])
	vout := binary.BigEndian.Uint32(b[1+HashSize:])
	if kind == OutPointDeposit {
		return OutPoint{Kind: kind, ParentTxID: ParentTxid(h), Vout: vout}, nil
	}
	return OutPoint{Kind: kind, TxID: Txid(h), Vout: vout}, nil
}

// Less gives OutPoint a total, deterministic order (kind, id bytes, vout),
// used wherever the ledger must traverse or sort outpoints reproducibly
// (e.g. hashing the spent set of a withdrawal bundle).
func (o OutPoint) Less(other OutPoint) bool {
	a, b := o.Encode(), other.Encode()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
