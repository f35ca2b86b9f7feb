// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	lru "github.com/hashicorp/golang-lru"
)

// cachedStore is a read-through LRU layer over a Store. Writes update the
// backing store first and then the cache, so reads never see a value the
// store has not accepted.
type cachedStore struct {
	Store
	cache *lru.ARCCache
}

// NewCached wraps a store with a read-through LRU cache of the given size.
func NewCached(store Store, size int) Store {
	cache, err := lru.NewARC(size)
	if err != nil {
		// only fails on non-positive size
		panic(err)
	}
	return &cachedStore{store, cache}
}

func (c *cachedStore) Get(key []byte) ([]byte, error) {
	if value, ok := c.cache.Get(string(key)); ok {
		return value.([]byte), nil
	}
	value, err := c.Store.Get(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(string(key), value)
	return value, nil
}

func (c *cachedStore) Has(key []byte) (bool, error) {
	if _, ok := c.cache.Get(string(key)); ok {
		return true, nil
	}
	return c.Store.Has(key)
}

func (c *cachedStore) Put(key, val []byte) error {
	if err := c.Store.Put(key, val); err != nil {
		return err
	}
	c.cache.Add(string(key), val)
	return nil
}

func (c *cachedStore) Delete(key []byte) error {
	if err := c.Store.Delete(key); err != nil {
		return err
	}
	c.cache.Remove(string(key))
	return nil
}

// NewBatch returns a batch whose Write invalidates the written keys, since
// batched changes bypass the per-key Put path.
func (c *cachedStore) NewBatch() Batch {
	return &cachedBatch{c.Store.NewBatch(), c.cache, nil}
}

type cachedBatch struct {
	Batch
	cache *lru.ARCCache
	keys  []string
}

func (b *cachedBatch) Put(key, val []byte) error {
	b.keys = append(b.keys, string(key))
	return b.Batch.Put(key, val)
}

func (b *cachedBatch) Delete(key []byte) error {
	b.keys = append(b.keys, string(key))
	return b.Batch.Delete(key)
}

func (b *cachedBatch) Write() error {
	if err := b.Batch.Write(); err != nil {
		return err
	}
	for _, key := range b.keys {
		b.cache.Remove(key)
	}
	b.keys = b.keys[:0]
	return nil
}
