// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package curve

import (
	"math/big"

	"github.com/hoard-network/hoard/vault/reverts"
)

// Accrue computes the reward owed for the interval since the last
// settlement point: (now - lastAccrualAt) * ratePerSecond.
//
// The current rate applies to the whole interval; rate changes are not
// retroactive. A zero interval yields zero.
func Accrue(lastAccrualAt, now uint64, ratePerSecond *big.Int) (*big.Int, error) {
	if now < lastAccrualAt {
		return nil, &reverts.ErrClock{Observed: now, Floor: lastAccrualAt}
	}
	elapsed := now - lastAccrualAt
	if elapsed == 0 || ratePerSecond == nil || ratePerSecond.Sign() == 0 {
		return new(big.Int), nil
	}
	amount := new(big.Int).SetUint64(elapsed)
	return amount.Mul(amount, ratePerSecond), nil
}
