// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/kv"
	"github.com/hoard-network/hoard/stackedmap"
)

// keyPrefix prefixes all storage keys in the backing kv store.
var keyPrefix = []byte("st")

// storageKey identifies one storage slot of an address space.
type storageKey struct {
	addr hoard.Address
	key  hoard.Bytes32
}

// State provides slot storage for the builtin address spaces, with
// checkpoint/revert in save-restore manner and batch commit to the
// backing kv store.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap
}

// New creates a state instance over the given kv store.
func New(store kv.Store) *State {
	state := State{store: store}
	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.storeGetter(key)
	})
	// the base layer, never reverted
	state.sm.Push()
	return &state
}

// storeGetter implements stackedmap.MapGetter.
func (s *State) storeGetter(key any) (value any, exist bool, err error) {
	k, ok := key.(storageKey)
	if !ok {
		return nil, false, errors.Errorf("unexpected state key type %+v", key)
	}
	raw, err := s.store.Get(composeKey(k))
	if err != nil {
		if s.store.IsNotFound(err) {
			return rlp.RawValue(nil), true, nil
		}
		return nil, false, errors.Wrap(err, "get storage")
	}
	return rlp.RawValue(raw), true, nil
}

func composeKey(k storageKey) []byte {
	buf := make([]byte, 0, len(keyPrefix)+hoard.AddressLength+32)
	buf = append(buf, keyPrefix...)
	buf = append(buf, k.addr.Bytes()...)
	buf = append(buf, k.key.Bytes()...)
	return buf
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr hoard.Address, key hoard.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, err
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr hoard.Address, key hoard.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// An empty encoded value deletes the slot.
func (s *State) EncodeStorage(addr hoard.Address, key hoard.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return err
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// The dec method sees nil raw value for never-written slots.
func (s *State) DecodeStorage(addr hoard.Address, key hoard.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	return dec(raw)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts state to the given revision, dropping all changes
// made after the checkpoint.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit writes all accumulated changes into the backing kv store in one
// atomic batch, then resets the change journal.
func (s *State) Commit() error {
	batch := s.store.NewBatch()
	var jerr error
	s.sm.Journal(func(key, value any) bool {
		k := key.(storageKey)
		raw := value.(rlp.RawValue)
		if len(raw) == 0 {
			jerr = batch.Delete(composeKey(k))
		} else {
			jerr = batch.Put(composeKey(k), raw)
		}
		return jerr == nil
	})
	if jerr != nil {
		return errors.Wrap(jerr, "stage commit")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		return s.storeGetter(key)
	})
	s.sm.Push()
	return nil
}
