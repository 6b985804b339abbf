// Package ledger is the transactional key-value store of §4.1: durable
// indexes for the UTXO set, headers, and the name-registry/withdrawal
// caches, opened through badger so that a read is always a stable snapshot
// and a write transaction commits all of its updates atomically or none.
package ledger

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/duskchain/duskchain/internal/cerrors"
	"github.com/duskchain/duskchain/internal/log"
)

// Store opens and owns the badger handle backing one ledger instance.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) the ledger store at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "Cannot acquire directory lock") ||
			strings.Contains(errMsg, "resource temporarily unavailable") {
			return nil, fmt.Errorf("ledger store at %s is locked by another process (is another duskchaind instance running?): %w", path, err)
		}
		return nil, fmt.Errorf("open ledger store at %s: %w", path, err)
	}
	log.Ledger.Info().Str("path", path).Msg("ledger store opened")
	return &Store{db: db}, nil
}

// Close releases the underlying badger handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadSnapshot is a stable, read-only view of the ledger, backed by a
// badger read-only transaction. Concurrent ReadSnapshots never block each
// other or the single in-flight WriteTxn.
type ReadSnapshot struct {
	txn *badger.Txn
}

// BeginRead opens a new read snapshot. The caller must call Discard when
// done with it.
func (s *Store) BeginRead() *ReadSnapshot {
	return &ReadSnapshot{txn: s.db.NewTransaction(false)}
}

// Discard releases the snapshot. Safe to call on an abandoned snapshot.
func (r *ReadSnapshot) Discard() {
	r.txn.Discard()
}

// WriteTxn is a mutable view of the ledger.
// It wraps a badger update transaction: every index mutation made through
// it is invisible to other readers until Commit succeeds, and entirely
// discarded on Abort.
type WriteTxn struct {
	txn *badger.Txn
}

// BeginWrite opens a write transaction spanning a whole block's
// connection. It does not wait for, or refuse, another WriteTxn that is
// already open: badger checks update transactions for conflicts only at
// Commit, which then fails with a conflict error.
func (s *Store) BeginWrite() *WriteTxn {
	return &WriteTxn{txn: s.db.NewTransaction(true)}
}

// Commit makes every mutation performed through w durable and visible to
// subsequent ReadSnapshots atomically. A failure here is a StorageFatal:
// the caller's block-connect attempt must be treated as having made no
// progress.
func (w *WriteTxn) Commit() error {
	if err := w.txn.Commit(); err != nil {
		return &cerrors.StorageFatal{Op: "commit", Err: err}
	}
	return nil
}

// Abort discards every mutation performed through w. Safe to call after a
// consensus error is detected mid-application; the ledger is left exactly
// as it was before BeginWrite.
func (w *WriteTxn) Abort() {
	w.txn.Discard()
}

// AsRead exposes the write transaction's own read methods, letting the
// connector use the single §4.2 validator implementation (which only
// needs a read interface) against in-progress writes within the same
// block.
func (w *WriteTxn) AsRead() *ReadSnapshot {
	return &ReadSnapshot{txn: w.txn}
}

func get(txn *badger.Txn, key []byte) ([]byte, bool, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &cerrors.StorageFatal{Op: "get", Err: err}
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, &cerrors.StorageFatal{Op: "get", Err: err}
	}
	return val, true, nil
}

func set(txn *badger.Txn, key, value []byte) error {
	if err := txn.Set(key, value); err != nil {
		return &cerrors.StorageFatal{Op: "set", Err: err}
	}
	return nil
}

func del(txn *badger.Txn, key []byte) error {
	if err := txn.Delete(key); err != nil {
		return &cerrors.StorageFatal{Op: "delete", Err: err}
	}
	return nil
}

// forEach iterates every key with the given prefix in deterministic
// (byte-lexicographic) key order, matching §4.1's "iteration order of a
// given index is deterministic" guarantee.
func forEach(txn *badger.Txn, prefix []byte, fn func(key, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		err := item.Value(func(val []byte) error {
			return fn(key, val)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// lastWithPrefix returns the key/value pair with the lexicographically
// largest key under prefix, used by Tip() to find the highest height
// without scanning the whole headers index.
func lastWithPrefix(txn *badger.Txn, prefix []byte) (key, value []byte, found bool, err error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = true
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
	it.Seek(seek)
	if !it.ValidForPrefix(prefix) {
		return nil, nil, false, nil
	}
	item := it.Item()
	key = item.KeyCopy(nil)
	value, err = item.ValueCopy(nil)
	if err != nil {
		return nil, nil, false, &cerrors.StorageFatal{Op: "last", Err: err}
	}
	return key, value, true, nil
}
