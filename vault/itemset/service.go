// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package itemset maintains the per (owner, collection) enumerable set of
// staked item IDs. Removal is O(1) swap-with-last-and-truncate, so
// enumeration order is not stable across removals. The set is a derived
// index and is only ever mutated in lock-step with the ledger.
package itemset

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/vault/reverts"
)

var (
	slotLengths   = sslot.NameToSlot("itemset-len")
	slotEntries   = sslot.NameToSlot("itemset-entries")
	slotPositions = sslot.NameToSlot("itemset-pos")
)

// Service provides the enumerable item sets over the state.
type Service struct {
	lengths   *sslot.Mapping[hoard.Bytes32, uint64]
	entries   *sslot.Mapping[hoard.Bytes32, hoard.Bytes32]
	positions *sslot.Mapping[hoard.Bytes32, uint64] // 1-based; 0 means absent
}

// New creates an itemset service bound to the given slot context.
func New(sctx *sslot.Context) *Service {
	return &Service{
		lengths:   sslot.NewMapping[hoard.Bytes32, uint64](sctx, slotLengths),
		entries:   sslot.NewMapping[hoard.Bytes32, hoard.Bytes32](sctx, slotEntries),
		positions: sslot.NewMapping[hoard.Bytes32, uint64](sctx, slotPositions),
	}
}

func setKey(owner, collection hoard.Address) hoard.Bytes32 {
	return hoard.Blake2b(owner.Bytes(), collection.Bytes())
}

func entryKey(owner, collection hoard.Address, index uint64) hoard.Bytes32 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], index)
	return hoard.Blake2b(owner.Bytes(), collection.Bytes(), buf[:])
}

func posKey(owner, collection hoard.Address, itemID hoard.Bytes32) hoard.Bytes32 {
	return hoard.Blake2b(owner.Bytes(), collection.Bytes(), itemID.Bytes())
}

// Insert appends itemID to the owner's set and records its position.
func (s *Service) Insert(owner, collection hoard.Address, itemID hoard.Bytes32) error {
	pk := posKey(owner, collection, itemID)
	pos, err := s.positions.Get(pk)
	if err != nil {
		return errors.Wrap(err, "get position")
	}
	if pos != 0 {
		// unreachable behind the ledger's already-staked guard
		return reverts.ErrDuplicateIndexEntry
	}

	sk := setKey(owner, collection)
	length, err := s.lengths.Get(sk)
	if err != nil {
		return errors.Wrap(err, "get length")
	}
	if err := s.entries.Set(entryKey(owner, collection, length), itemID); err != nil {
		return errors.Wrap(err, "set entry")
	}
	if err := s.positions.Set(pk, length+1); err != nil {
		return errors.Wrap(err, "set position")
	}
	return s.lengths.Set(sk, length+1)
}

// Remove takes itemID out of the owner's set by swapping the last element
// into its slot and truncating. The moved element's recorded position is
// updated; the single-element case needs no swap.
func (s *Service) Remove(owner, collection hoard.Address, itemID hoard.Bytes32) error {
	pk := posKey(owner, collection, itemID)
	pos, err := s.positions.Get(pk)
	if err != nil {
		return errors.Wrap(err, "get position")
	}
	if pos == 0 {
		return reverts.ErrIndexEntryNotFound
	}

	sk := setKey(owner, collection)
	length, err := s.lengths.Get(sk)
	if err != nil {
		return errors.Wrap(err, "get length")
	}

	lastKey := entryKey(owner, collection, length-1)
	if pos != length {
		last, err := s.entries.Get(lastKey)
		if err != nil {
			return errors.Wrap(err, "get last entry")
		}
		if err := s.entries.Set(entryKey(owner, collection, pos-1), last); err != nil {
			return errors.Wrap(err, "move last entry")
		}
		if err := s.positions.Set(posKey(owner, collection, last), pos); err != nil {
			return errors.Wrap(err, "update moved position")
		}
	}

	if err := s.entries.Delete(lastKey); err != nil {
		return errors.Wrap(err, "truncate entries")
	}
	if err := s.positions.Delete(pk); err != nil {
		return errors.Wrap(err, "delete position")
	}
	if length == 1 {
		return s.lengths.Delete(sk)
	}
	return s.lengths.Set(sk, length-1)
}

// Contains reports membership of itemID in the owner's set.
func (s *Service) Contains(owner, collection hoard.Address, itemID hoard.Bytes32) (bool, error) {
	pos, err := s.positions.Get(posKey(owner, collection, itemID))
	if err != nil {
		return false, err
	}
	return pos != 0, nil
}

// Count returns the size of the owner's set.
func (s *Service) Count(owner, collection hoard.Address) (uint64, error) {
	return s.lengths.Get(setKey(owner, collection))
}

// List enumerates the owner's set. Order is not meaningful; callers may
// rely only on completeness and uniqueness.
func (s *Service) List(owner, collection hoard.Address) ([]hoard.Bytes32, error) {
	length, err := s.lengths.Get(setKey(owner, collection))
	if err != nil {
		return nil, errors.Wrap(err, "get length")
	}
	items := make([]hoard.Bytes32, 0, length)
	for i := uint64(0); i < length; i++ {
		item, err := s.entries.Get(entryKey(owner, collection, i))
		if err != nil {
			return nil, errors.Wrap(err, "get entry")
		}
		items = append(items, item)
	}
	return items, nil
}
