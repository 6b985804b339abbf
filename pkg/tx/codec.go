package tx

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/duskchain/duskchain/pkg/types"
)

// Encode returns the canonical, length-preserving binary encoding of an
// Output, used by the ledger store to persist UTXOs and by EncodeBundle to
// serialise a WithdrawalBundle's spent_utxos. Unlike SigningBytes (which
// only ever needs to be produced, never parsed back), this format must
// round-trip exactly, so every variable-length field carries an explicit
// length prefix.
func (o Output) Encode() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, o.Address.Bytes()...)
	buf = appendContent(buf, o.Content)
	return buf
}

// DecodeOutput parses the encoding produced by Output.Encode.
func DecodeOutput(b []byte) (Output, error) {
	if len(b) < types.AddressSize+1 {
		return Output{}, fmt.Errorf("output: too short: %d bytes", len(b))
	}
	var out Output
	copy(out.Address[:], b[:types.AddressSize])
	content, err := decodeContent(b[types.AddressSize:])
	if err != nil {
		return Output{}, fmt.Errorf("output: %w", err)
	}
	out.Content = content
	return out, nil
}

// EncodeBundle returns the canonical binary encoding of a WithdrawalBundle,
// used by the ledger to persist the pending bundle. Format: a 4-byte count
// of spent UTXOs, then for each one its 37-byte OutPoint encoding followed
// by a 4-byte length-prefixed Output encoding; then a 4-byte length-prefixed
// raw parent-chain transaction; then the 32-byte parent txid.
func EncodeBundle(wb WithdrawalBundle) []byte {
	outpoints := make([]types.OutPoint, 0, len(wb.SpentUTXOs))
	for op := range wb.SpentUTXOs {
		outpoints = append(outpoints, op)
	}
	sort.Slice(outpoints, func(i, j int) bool { return outpoints[i].Less(outpoints[j]) })

	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(outpoints)))
	for _, op := range outpoints {
		buf = append(buf, op.Encode()...)
		enc := wb.SpentUTXOs[op].Encode()
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(enc)))
		buf = append(buf, lenBuf...)
		buf = append(buf, enc...)
	}
	txLenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(txLenBuf, uint32(len(wb.Transaction)))
	buf = append(buf, txLenBuf...)
	buf = append(buf, wb.Transaction...)
	buf = append(buf, wb.Txid.Bytes()...)
	return buf
}

// DecodeBundle parses the encoding produced by EncodeBundle.
func DecodeBundle(b []byte) (WithdrawalBundle, error) {
	if len(b) < 4 {
		return WithdrawalBundle{}, fmt.Errorf("bundle: too short")
	}
	count := binary.LittleEndian.Uint32(b)
	b = b[4:]

	spent := make(map[types.OutPoint]Output, count)
	const outpointSize = 1 + types.HashSize + 4
	for i := uint32(0); i < count; i++ {
		if len(b) < outpointSize+4 {
			return WithdrawalBundle{}, fmt.Errorf("bundle: truncated entry %d", i)
		}
		op, err := types.DecodeOutPoint(b[:outpointSize])
		if err != nil {
			return WithdrawalBundle{}, fmt.Errorf("bundle: %w", err)
		}
		b = b[outpointSize:]
		outLen := binary.LittleEndian.Uint32(b)
		b = b[4:]
		if uint32(len(b)) < outLen {
			return WithdrawalBundle{}, fmt.Errorf("bundle: truncated output %d", i)
		}
		out, err := DecodeOutput(b[:outLen])
		if err != nil {
			return WithdrawalBundle{}, fmt.Errorf("bundle: %w", err)
		}
		spent[op] = out
		b = b[outLen:]
	}

	if len(b) < 4 {
		return WithdrawalBundle{}, fmt.Errorf("bundle: truncated tx length")
	}
	txLen := binary.LittleEndian.Uint32(b)
	b = b[4:]
	if uint32(len(b)) < txLen+types.HashSize {
		return WithdrawalBundle{}, fmt.Errorf("bundle: truncated tx/txid")
	}
	rawTx := append([]byte{}, b[:txLen]...)
	b = b[txLen:]
	var txid types.ParentTxid
	copy(txid[:], b[:types.HashSize])

	return WithdrawalBundle{SpentUTXOs: spent, Transaction: rawTx, Txid: txid}, nil
}

func decodeContent(b []byte) (OutputContent, error) {
	if len(b) < 1 {
		return OutputContent{}, fmt.Errorf("content: missing kind byte")
	}
	kind := ContentKind(b[0])
	b = b[1:]

	switch kind {
	case ContentValue:
		if len(b) < 8 {
			return OutputContent{}, fmt.Errorf("content: value: too short")
		}
		return ValueContent(binary.LittleEndian.Uint64(b)), nil

	case ContentWithdrawal:
		if len(b) < 8 {
			return OutputContent{}, fmt.Errorf("content: withdrawal: truncated amount")
		}
		amount := binary.LittleEndian.Uint64(b)
		b = b[8:]
		if len(b) < 4 {
			return OutputContent{}, fmt.Errorf("content: withdrawal: truncated address length")
		}
		addrLen := binary.LittleEndian.Uint32(b)
		b = b[4:]
		if uint32(len(b)) < addrLen+8 {
			return OutputContent{}, fmt.Errorf("content: withdrawal: truncated address/fee")
		}
		mainAddr := types.ParentAddress(b[:addrLen])
		b = b[addrLen:]
		mainFee := binary.LittleEndian.Uint64(b)
		return WithdrawalContent(amount, mainAddr, mainFee), nil

	case ContentCommitment:
		if len(b) < types.HashSize {
			return OutputContent{}, fmt.Errorf("content: commitment: too short")
		}
		var c types.Commitment
		copy(c[:], b[:types.HashSize])
		return CommitmentContent(c), nil

	case ContentReveal:
		if len(b) < 2*types.HashSize {
			return OutputContent{}, fmt.Errorf("content: reveal: too short")
		}
		var salt types.Salt
		var key types.Key
		copy(salt[:], b[:types.HashSize])
		copy(key[:], b[types.HashSize:2*types.HashSize])
		return RevealContent(key, salt), nil

	case ContentKeyValue:
		if len(b) < 2*types.HashSize {
			return OutputContent{}, fmt.Errorf("content: keyvalue: too short")
		}
		var key types.Key
		var value types.Value
		copy(key[:], b[:types.HashSize])
		copy(value[:], b[types.HashSize:2*types.HashSize])
		return KeyValueContent(key, value), nil

	default:
		return OutputContent{}, fmt.Errorf("content: unknown kind %d", kind)
	}
}
