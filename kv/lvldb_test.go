// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMem(t *testing.T) Store {
	store, err := OpenMemDB()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreBasic(t *testing.T) {
	store := newMem(t)

	_, err := store.Get([]byte("missing"))
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))

	require.NoError(t, store.Put([]byte("key"), []byte("value")))
	v, err := store.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	has, err := store.Has([]byte("key"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete([]byte("key")))
	has, err = store.Has([]byte("key"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestIterate(t *testing.T) {
	store := newMem(t)
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Put([]byte(key), []byte("v-"+key)))
	}

	collect := func(r Range) []string {
		it := store.Iterate(r)
		defer it.Release()
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(t, "v-"+string(it.Key()), string(it.Value()))
		}
		require.NoError(t, it.Error())
		return keys
	}

	// the zero range scans everything in key order
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, collect(Range{}))

	// start included, limit excluded
	assert.Equal(t, []string{"b", "c"}, collect(Range{Start: []byte("b"), Limit: []byte("d")}))
}

func TestBatchWrite(t *testing.T) {
	store := newMem(t)

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, batch.Len())

	// nothing lands before Write
	has, err := store.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, batch.Write())
	v, err := store.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}
