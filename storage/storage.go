// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage defines the narrow abstract record-set interface the
// TxDB is built on: a bucket-keyed key/value store with atomically
// committing transactions, independent of the concrete on-disk engine
// (§4.4, §9 "global mutable state" — TxDB is the one logical owner of
// persisted chain state, accessed only through this interface).
package storage

// DataAccessor is the set of record operations available both outside
// and inside a transaction.
type DataAccessor interface {
	// Put sets the value for the given key, creating it if necessary.
	Put(key []byte, value []byte) error

	// Get returns the value for the given key. found is false if the key
	// does not exist.
	Get(key []byte) (value []byte, found bool, err error)

	// Has returns whether the given key exists.
	Has(key []byte) (bool, error)

	// Delete removes the value for the given key. It is not an error if
	// the key does not exist.
	Delete(key []byte) error

	// Cursor opens an iterator over the given bucket.
	Cursor(bucket []byte) (Cursor, error)
}

// Transaction is an abstract handle over a set of mutations that commits
// atomically or not at all (§4.4: "a transaction that aborts leaves no
// partial records visible").
type Transaction interface {
	DataAccessor

	// Commit makes every Put/Delete issued on this transaction visible
	// atomically.
	Commit() error

	// Rollback discards every Put/Delete issued on this transaction.
	Rollback() error

	// RollbackUnlessClosed rolls back the transaction unless it has
	// already been committed or rolled back. Safe to call unconditionally
	// in a deferred cleanup.
	RollbackUnlessClosed() error
}

// Cursor iterates over the key/value pairs of a bucket in key order.
type Cursor interface {
	Next() bool
	First() (bool, error)
	Seek(key []byte) (bool, error)
	Key() ([]byte, error)
	Value() ([]byte, error)
	Error() error
	Close() error
}

// Database is a handle able to do anything DataAccessor can, plus begin
// transactions and close itself.
type Database interface {
	DataAccessor

	// Begin starts a new transaction.
	Begin() (Transaction, error)

	// Close closes the database and releases its resources.
	Close() error
}

// Bucket is a key prefix namespacing a logical record set within the flat
// key/value space the underlying engine provides (§6: `"tx" + txid`,
// `"blockindex" + hash`, the singleton scalar keys).
type Bucket []byte

// Key returns the full storage key for k within this bucket.
func (b Bucket) Key(k []byte) []byte {
	full := make([]byte, 0, len(b)+len(k))
	full = append(full, b...)
	full = append(full, k...)
	return full
}
