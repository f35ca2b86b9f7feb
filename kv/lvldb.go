// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	writeOpt = &opt.WriteOptions{}
	readOpt  = &opt.ReadOptions{}
)

// lvldbBatch implements Batch interface.
type lvldbBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *lvldbBatch) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *lvldbBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *lvldbBatch) Len() int {
	return b.batch.Len()
}

func (b *lvldbBatch) Write() error {
	return b.db.Write(b.batch, writeOpt)
}

// lvldb implements Store interface.
type lvldb struct {
	db *leveldb.DB
}

func openLevelDB(stg storage.Storage, cacheSize int) (*lvldb, error) {
	if cacheSize < 128 {
		cacheSize = 128
	}
	db, err := leveldb.Open(stg, &opt.Options{
		BlockCacheCapacity: cacheSize / 2 * opt.MiB,
		WriteBuffer:        cacheSize / 4 * opt.MiB, // Two of these are used internally
		Filter:             filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &lvldb{db: db}, nil
}

// OpenLevelDB opens or creates a persistent leveldb store at the given path.
func OpenLevelDB(path string, cacheSize int) (Store, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open level db storage")
	}
	return openLevelDB(stg, cacheSize)
}

// OpenMemDB creates an in-memory store, for tests and the solo runner.
func OpenMemDB() (Store, error) {
	return openLevelDB(storage.NewMemStorage(), 128)
}

func (ldb *lvldb) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, readOpt)
}

func (ldb *lvldb) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, readOpt)
}

func (ldb *lvldb) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

func (ldb *lvldb) Put(key, val []byte) error {
	return ldb.db.Put(key, val, writeOpt)
}

func (ldb *lvldb) Delete(key []byte) error {
	return ldb.db.Delete(key, writeOpt)
}

func (ldb *lvldb) Close() error {
	return ldb.db.Close()
}

func (ldb *lvldb) NewBatch() Batch {
	return &lvldbBatch{
		ldb.db,
		&leveldb.Batch{},
	}
}

func (ldb *lvldb) Iterate(r Range) Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, readOpt)
}
