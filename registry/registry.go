// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry is the custody layer for items: it tracks which account
// holds each (collection, item) pair and moves items in and out of the
// vault's custody. The vault consumes it behind an interface, so another
// custody mechanism can be swapped in.
package registry

import (
	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/sslot"
)

var slotHolders = sslot.NameToSlot("item-holders")

// Registry implements item custody over the state.
type Registry struct {
	custody hoard.Address // the vault account holding deposited items
	holders *sslot.Mapping[hoard.Bytes32, hoard.Address]
}

// New creates a registry bound to the given slot context. Deposited items
// are held by the custody address.
func New(sctx *sslot.Context, custody hoard.Address) *Registry {
	return &Registry{
		custody: custody,
		holders: sslot.NewMapping[hoard.Bytes32, hoard.Address](sctx, slotHolders),
	}
}

func itemKey(collection hoard.Address, itemID hoard.Bytes32) hoard.Bytes32 {
	return hoard.Keccak256(collection.Bytes(), itemID.Bytes())
}

// Mint creates an item owned by to. Existing items cannot be re-minted.
func (r *Registry) Mint(collection hoard.Address, itemID hoard.Bytes32, to hoard.Address) error {
	key := itemKey(collection, itemID)
	holder, err := r.holders.Get(key)
	if err != nil {
		return errors.Wrap(err, "get holder")
	}
	if !holder.IsZero() {
		return errors.New("item already exists")
	}
	if to.IsZero() {
		return errors.New("mint to zero address")
	}
	return r.holders.Set(key, to)
}

// HolderOf returns the current holder of an item; zero if it does not exist.
func (r *Registry) HolderOf(collection hoard.Address, itemID hoard.Bytes32) (hoard.Address, error) {
	return r.holders.Get(itemKey(collection, itemID))
}

// Transfer moves an item between accounts. Transfers into the custody
// address without a deposit are accepted; they create no stake.
func (r *Registry) Transfer(collection hoard.Address, itemID hoard.Bytes32, from, to hoard.Address) error {
	key := itemKey(collection, itemID)
	holder, err := r.holders.Get(key)
	if err != nil {
		return errors.Wrap(err, "get holder")
	}
	if holder.IsZero() {
		return errors.New("item does not exist")
	}
	if holder != from {
		return errors.Errorf("item held by %s, not %s", holder, from)
	}
	if to.IsZero() {
		return errors.New("transfer to zero address")
	}
	return r.holders.Set(key, to)
}

// TransferInto moves an item from its owner into the vault's custody.
func (r *Registry) TransferInto(collection hoard.Address, itemID hoard.Bytes32, from hoard.Address) error {
	return r.Transfer(collection, itemID, from, r.custody)
}

// TransferOut returns an item from the vault's custody to an account.
func (r *Registry) TransferOut(collection hoard.Address, itemID hoard.Bytes32, to hoard.Address) error {
	return r.Transfer(collection, itemID, r.custody, to)
}
