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

func newCachedMem(t *testing.T) Store {
	store, err := OpenMemDB()
	require.NoError(t, err)
	return NewCached(store, 16)
}

func TestCachedGetPut(t *testing.T) {
	store := newCachedMem(t)

	_, err := store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))

	require.NoError(t, store.Put([]byte("k"), []byte("v")))
	value, err := store.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)

	has, err := store.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCachedDelete(t *testing.T) {
	store := newCachedMem(t)

	require.NoError(t, store.Put([]byte("k"), []byte("v")))
	require.NoError(t, store.Delete([]byte("k")))

	_, err := store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))
}

func TestCachedBatchInvalidates(t *testing.T) {
	store := newCachedMem(t)

	require.NoError(t, store.Put([]byte("k"), []byte("v1")))
	// warm the cache
	_, err := store.Get([]byte("k"))
	require.NoError(t, err)

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("k"), []byte("v2")))
	require.NoError(t, batch.Write())

	value, err := store.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	batch = store.NewBatch()
	require.NoError(t, batch.Delete([]byte("k")))
	require.NoError(t, batch.Write())

	_, err = store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))
}
