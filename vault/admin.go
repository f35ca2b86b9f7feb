// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/hoard-network/hoard/hoard"
)

// Parameter changes take effect immediately for all live stakes: the next
// settlement or exit of any stake reads the new values. There is no
// per-stake snapshot.

// SetRewardRate updates the reward rate in units per second.
func (v *Vault) SetRewardRate(rate *big.Int) error {
	return v.run("set_reward_rate", func() error {
		if err := v.params.SetRewardRate(rate); err != nil {
			return err
		}
		logger.Info("reward rate updated", "rate", rate)
		return nil
	})
}

// SetLockPeriod updates the lock period in seconds.
func (v *Vault) SetLockPeriod(seconds uint64) error {
	return v.run("set_lock_period", func() error {
		if err := v.params.SetLockPeriod(seconds); err != nil {
			return err
		}
		logger.Info("lock period updated", "seconds", seconds)
		return nil
	})
}

// SetMaxPenaltyBps updates the penalty at the start of the lock window.
func (v *Vault) SetMaxPenaltyBps(bps uint64) error {
	return v.run("set_max_penalty", func() error {
		if err := v.params.SetMaxPenaltyBps(bps); err != nil {
			return err
		}
		logger.Info("max penalty updated", "bps", bps)
		return nil
	})
}

// SetTreasury updates the address receiving penalties.
func (v *Vault) SetTreasury(addr hoard.Address) error {
	return v.run("set_treasury", func() error {
		if err := v.params.SetTreasury(addr); err != nil {
			return err
		}
		logger.Info("treasury updated", "addr", addr)
		return nil
	})
}

// SetWhitelisted adds or removes a collection from the deposit whitelist.
// Delisting does not touch live stakes; they can still claim and exit.
func (v *Vault) SetWhitelisted(collection hoard.Address, eligible bool) error {
	return v.run("set_whitelisted", func() error {
		if err := v.params.SetWhitelisted(collection, eligible); err != nil {
			return err
		}
		logger.Info("whitelist updated", "collection", collection, "eligible", eligible)
		return nil
	})
}
