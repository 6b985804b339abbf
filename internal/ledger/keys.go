package ledger

import (
	"encoding/binary"

	"github.com/duskchain/duskchain/pkg/types"
)

// Key prefixes for the ledger's persistent indexes, mirroring the teacher's
// short-prefix-plus-fixed-suffix keyspace convention (internal/chain/store.go
// uses "b/", "h/", "x/", "d/"; internal/utxo/store.go uses "u/", "a/", "k/").
var (
	prefixUTXO           = []byte("ut/") // ut/<outpoint(37)> -> Output
	prefixHeader         = []byte("hd/") // hd/<height(4 BE)> -> Header
	prefixKeyToValue     = []byte("kv/") // kv/<key(32)> -> Value
	prefixCommitToHeight = []byte("ch/") // ch/<commitment(32)> -> height(4 BE)
	prefixCommitToOut    = []byte("co/") // co/<commitment(32)> -> outpoint(37)
	prefixKeyToCommit    = []byte("kc/") // kc/<key(32)> -> commitment(32)
	prefixCommitToKey    = []byte("ck/") // ck/<commitment(32)> -> key(32)

	keyPendingBundle  = []byte("s/pending_bundle")
	keyLastFailHeight = []byte("s/last_failure_height")
	keyLastDeposit    = []byte("s/last_deposit_block")
)

func utxoKey(op types.OutPoint) []byte {
	return append(append([]byte{}, prefixUTXO...), op.Encode()...)
}

func headerKey(height uint32) []byte {
	buf := make([]byte, len(prefixHeader)+4)
	copy(buf, prefixHeader)
	binary.BigEndian.PutUint32(buf[len(prefixHeader):], height)
	return buf
}

func heightFromHeaderKey(key []byte) uint32 {
	return binary.BigEndian.Uint32(key[len(prefixHeader):])
}

func keyToValueKey(k types.Key) []byte {
	return append(append([]byte{}, prefixKeyToValue...), k.Bytes()...)
}

func commitToHeightKey(c types.Commitment) []byte {
	return append(append([]byte{}, prefixCommitToHeight...), c.Bytes()...)
}

func commitToOutKey(c types.Commitment) []byte {
	return append(append([]byte{}, prefixCommitToOut...), c.Bytes()...)
}

func keyToCommitKey(k types.Key) []byte {
	return append(append([]byte{}, prefixKeyToCommit...), k.Bytes()...)
}

func commitToKeyKey(c types.Commitment) []byte {
	return append(append([]byte{}, prefixCommitToKey...), c.Bytes()...)
}

func encodeU32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func decodeU32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}
