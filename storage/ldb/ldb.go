// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ldb implements storage.Database atop a goleveldb handle: the
// concrete on-disk engine the abstract record set of §4.4 is persisted
// through.
package ldb

import (
	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/btcsuite/goleveldb/leveldb/iterator"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/util"
	"github.com/pkg/errors"

	"github.com/novacore/novad/storage"
)

// DB wraps a goleveldb handle, implementing storage.Database.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if necessary) the leveldb database at path.
func Open(path string) (*DB, error) {
	opts := &opt.Options{
		ErrorIfMissing: false,
	}
	ldb, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", path)
	}
	return &DB{ldb: ldb}, nil
}

// Put implements storage.DataAccessor.
func (db *DB) Put(key, value []byte) error {
	return db.ldb.Put(key, value, nil)
}

// Get implements storage.DataAccessor.
func (db *DB) Get(key []byte) ([]byte, bool, error) {
	value, err := db.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Has implements storage.DataAccessor.
func (db *DB) Has(key []byte) (bool, error) {
	return db.ldb.Has(key, nil)
}

// Delete implements storage.DataAccessor.
func (db *DB) Delete(key []byte) error {
	return db.ldb.Delete(key, nil)
}

// Cursor implements storage.DataAccessor.
func (db *DB) Cursor(bucket []byte) (storage.Cursor, error) {
	it := db.ldb.NewIterator(util.BytesPrefix(bucket), nil)
	return &cursor{it: it}, nil
}

// Begin implements storage.Database.
func (db *DB) Begin() (storage.Transaction, error) {
	ldbTx, err := db.ldb.OpenTransaction()
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	return &tx{ldbTx: ldbTx}, nil
}

// Close implements storage.Database.
func (db *DB) Close() error {
	return db.ldb.Close()
}

type cursor struct {
	it     iterator.Iterator
	closed bool
}

func (c *cursor) Next() bool {
	if c.closed {
		return false
	}
	return c.it.Next()
}

func (c *cursor) First() (bool, error) {
	if c.closed {
		return false, errors.New("cursor is closed")
	}
	return c.it.First(), c.it.Error()
}

func (c *cursor) Seek(key []byte) (bool, error) {
	if c.closed {
		return false, errors.New("cursor is closed")
	}
	return c.it.Seek(key), c.it.Error()
}

func (c *cursor) Key() ([]byte, error) {
	if c.closed {
		return nil, errors.New("cursor is closed")
	}
	k := c.it.Key()
	if k == nil {
		return nil, nil
	}
	out := make([]byte, len(k))
	copy(out, k)
	return out, nil
}

func (c *cursor) Value() ([]byte, error) {
	if c.closed {
		return nil, errors.New("cursor is closed")
	}
	v := c.it.Value()
	if v == nil {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (c *cursor) Error() error {
	return c.it.Error()
}

func (c *cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.it.Release()
	return nil
}

// tx implements storage.Transaction atop a goleveldb *leveldb.Transaction.
type tx struct {
	ldbTx  *leveldb.Transaction
	closed bool
}

func (t *tx) Put(key, value []byte) error {
	return t.ldbTx.Put(key, value, nil)
}

func (t *tx) Get(key []byte) ([]byte, bool, error) {
	value, err := t.ldbTx.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (t *tx) Has(key []byte) (bool, error) {
	return t.ldbTx.Has(key, nil)
}

func (t *tx) Delete(key []byte) error {
	return t.ldbTx.Delete(key, nil)
}

func (t *tx) Cursor(bucket []byte) (storage.Cursor, error) {
	it := t.ldbTx.NewIterator(util.BytesPrefix(bucket), nil)
	return &cursor{it: it}, nil
}

func (t *tx) Commit() error {
	if t.closed {
		return errors.New("transaction is closed")
	}
	t.closed = true
	return t.ldbTx.Commit()
}

func (t *tx) Rollback() error {
	if t.closed {
		return errors.New("transaction is closed")
	}
	t.closed = true
	t.ldbTx.Discard()
	return nil
}

func (t *tx) RollbackUnlessClosed() error {
	if t.closed {
		return nil
	}
	return t.Rollback()
}
