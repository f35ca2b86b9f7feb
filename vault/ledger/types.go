// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/state"
)

// Record is one deposited item currently held by the vault.
//
// DepositedAt and LastAccrualAt are two independent clocks: DepositedAt
// drives penalty decay and is fixed for the life of the stake, while
// LastAccrualAt drives reward accrual and advances on every settlement.
type Record struct {
	Owner         hoard.Address // the depositor; non-zero iff the record is live
	DepositedAt   uint64        // start of the lock window, immutable once set
	LastAccrualAt uint64        // last reward settlement point, monotonic
}

var (
	_ state.StorageEncoder = (*Record)(nil)
	_ state.StorageDecoder = (*Record)(nil)
)

// IsEmpty returns whether the entry can be treated as empty.
func (r *Record) IsEmpty() bool {
	return r.Owner.IsZero()
}

// Encode implements state.StorageEncoder. An empty record encodes to nil,
// which deletes the slot.
func (r *Record) Encode() ([]byte, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(r)
}

// Decode implements state.StorageDecoder. Nil raw yields the empty record.
func (r *Record) Decode(raw []byte) error {
	if len(raw) == 0 {
		*r = Record{}
		return nil
	}
	return rlp.DecodeBytes(raw, r)
}

// Key derives the storage key of a stake from its (collection, item) pair.
func Key(collection hoard.Address, itemID hoard.Bytes32) hoard.Bytes32 {
	return hoard.Blake2b(collection.Bytes(), itemID.Bytes())
}
