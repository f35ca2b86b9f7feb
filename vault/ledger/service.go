// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger is the authoritative store of live stake records. It is
// the only component that creates or destroys a record.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/vault/curve"
	"github.com/hoard-network/hoard/vault/reverts"
)

var (
	slotStakes     = sslot.NameToSlot("stakes")
	slotStakeCount = sslot.NameToSlot("stake-count")
)

// Service provides stake record lifecycle over the state.
type Service struct {
	stakes *sslot.Mapping[hoard.Bytes32, *Record]
	count  *sslot.Uint64
}

// New creates a ledger service bound to the given slot context.
func New(sctx *sslot.Context) *Service {
	return &Service{
		stakes: sslot.NewMapping[hoard.Bytes32, *Record](sctx, slotStakes),
		count:  sslot.NewUint64(sctx, slotStakeCount),
	}
}

// Open creates a live record for the key. Both clocks start at now.
func (s *Service) Open(collection hoard.Address, itemID hoard.Bytes32, owner hoard.Address, now uint64) error {
	key := Key(collection, itemID)
	existing, err := s.stakes.Get(key)
	if err != nil {
		return errors.Wrap(err, "get stake")
	}
	if !existing.IsEmpty() {
		return reverts.ErrAlreadyStaked
	}
	if err := s.stakes.Set(key, &Record{
		Owner:         owner,
		DepositedAt:   now,
		LastAccrualAt: now,
	}); err != nil {
		return errors.Wrap(err, "set stake")
	}
	cnt, err := s.count.Get()
	if err != nil {
		return errors.Wrap(err, "get stake count")
	}
	return s.count.Set(cnt + 1)
}

// Settle computes the reward accrued since the last settlement point at
// the given rate and advances LastAccrualAt to now. The record stays live
// and DepositedAt is untouched.
func (s *Service) Settle(collection hoard.Address, itemID hoard.Bytes32, now uint64, ratePerSecond *big.Int) (*big.Int, error) {
	key := Key(collection, itemID)
	record, err := s.stakes.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "get stake")
	}
	if record.IsEmpty() {
		return nil, reverts.ErrNotStaked
	}
	accrued, err := curve.Accrue(record.LastAccrualAt, now, ratePerSecond)
	if err != nil {
		return nil, err
	}
	record.LastAccrualAt = now
	if err := s.stakes.Set(key, record); err != nil {
		return nil, errors.Wrap(err, "set stake")
	}
	return accrued, nil
}

// Close removes the record and returns it. The caller is responsible for
// the paired index removal and any external effects.
func (s *Service) Close(collection hoard.Address, itemID hoard.Bytes32) (*Record, error) {
	key := Key(collection, itemID)
	record, err := s.stakes.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "get stake")
	}
	if record.IsEmpty() {
		return nil, reverts.ErrNotStaked
	}
	if err := s.stakes.Delete(key); err != nil {
		return nil, errors.Wrap(err, "delete stake")
	}
	cnt, err := s.count.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get stake count")
	}
	if err := s.count.Set(cnt - 1); err != nil {
		return nil, errors.Wrap(err, "set stake count")
	}
	return record, nil
}

// Get returns the record for the key; an empty record if absent.
func (s *Service) Get(collection hoard.Address, itemID hoard.Bytes32) (*Record, error) {
	return s.stakes.Get(Key(collection, itemID))
}

// IsLive reports whether a live record exists for the key.
func (s *Service) IsLive(collection hoard.Address, itemID hoard.Bytes32) (bool, error) {
	record, err := s.Get(collection, itemID)
	if err != nil {
		return false, err
	}
	return !record.IsEmpty(), nil
}

// Count returns the number of live records.
func (s *Service) Count() (uint64, error) {
	return s.count.Get()
}
