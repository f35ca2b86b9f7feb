// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package curve holds the pure timing arithmetic of the vault: the linear
// penalty decay and the reward accrual. Both are integer-exact, computed
// with one widened multiply-then-divide.
package curve

import (
	"math/big"

	"github.com/hoard-network/hoard/vault/reverts"
)

// PenaltyBps computes the exit penalty in basis points at the given time.
// The penalty starts at maxPenaltyBps when the stake is opened and decays
// linearly, reaching zero exactly at the lock boundary:
//
//	elapsed >= lockPeriod            -> 0
//	otherwise                        -> floor(maxPenaltyBps * remaining / lockPeriod)
func PenaltyBps(depositedAt, now, lockPeriod, maxPenaltyBps uint64) (uint64, error) {
	if now < depositedAt {
		return 0, &reverts.ErrClock{Observed: now, Floor: depositedAt}
	}
	if lockPeriod == 0 {
		// rejected at configuration time, defensive here
		return 0, reverts.NewConfig("lock period is zero")
	}
	elapsed := now - depositedAt
	if elapsed >= lockPeriod {
		return 0, nil
	}
	remaining := lockPeriod - elapsed

	// maxPenaltyBps <= 10000 but remaining may span the full uint64 range,
	// so the product is widened.
	bps := new(big.Int).SetUint64(maxPenaltyBps)
	bps.Mul(bps, new(big.Int).SetUint64(remaining))
	bps.Div(bps, new(big.Int).SetUint64(lockPeriod))
	return bps.Uint64(), nil
}

// ApplyPenalty splits an accrued amount into the net and penalty parts for
// the given basis points: penalty = floor(amount * bps / 10000).
func ApplyPenalty(amount *big.Int, bps uint64) (net, penalty *big.Int) {
	penalty = new(big.Int).SetUint64(bps)
	penalty.Mul(penalty, amount)
	penalty.Div(penalty, big.NewInt(10000))
	net = new(big.Int).Sub(amount, penalty)
	return
}
