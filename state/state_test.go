// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/kv"
	"github.com/hoard-network/hoard/state"
)

var (
	addr = hoard.BytesToAddress([]byte("addr"))
	slot = hoard.BytesToBytes32([]byte("slot"))
)

func TestRawStorage(t *testing.T) {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)
	st := state.New(store)

	raw, err := st.GetRawStorage(addr, slot)
	require.NoError(t, err)
	assert.Empty(t, raw)

	encoded, _ := rlp.EncodeToBytes([]byte("value"))
	st.SetRawStorage(addr, slot, encoded)

	raw, err = st.GetRawStorage(addr, slot)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue(encoded), raw)
}

func TestCheckpointRevert(t *testing.T) {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)
	st := state.New(store)

	st.SetRawStorage(addr, slot, []byte{0x01})
	checkpoint := st.NewCheckpoint()
	st.SetRawStorage(addr, slot, []byte{0x02})
	st.RevertTo(checkpoint)

	raw, err := st.GetRawStorage(addr, slot)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue{0x01}, raw)
}

func TestCommitPersists(t *testing.T) {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)

	st := state.New(store)
	st.SetRawStorage(addr, slot, []byte{0x01})
	require.NoError(t, st.Commit())

	// a fresh state over the same store sees the committed value
	st = state.New(store)
	raw, err := st.GetRawStorage(addr, slot)
	require.NoError(t, err)
	assert.Equal(t, rlp.RawValue{0x01}, raw)
}

func TestCommitDeletesEmptied(t *testing.T) {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)

	st := state.New(store)
	st.SetRawStorage(addr, slot, []byte{0x01})
	require.NoError(t, st.Commit())

	st.SetRawStorage(addr, slot, nil)
	require.NoError(t, st.Commit())

	st = state.New(store)
	raw, err := st.GetRawStorage(addr, slot)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)
	st := state.New(store)

	require.NoError(t, st.EncodeStorage(addr, slot, func() ([]byte, error) {
		return rlp.EncodeToBytes(uint64(42))
	}))

	var decoded uint64
	require.NoError(t, st.DecodeStorage(addr, slot, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, uint64(42), decoded)
}
