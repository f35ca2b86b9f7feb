// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params holds the governable configuration of the vault. Values
// are read at operation time, not snapshotted per stake, so a change takes
// effect immediately for all live stakes.
package params

import (
	"math/big"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/vault/reverts"
)

var slotWhitelist = sslot.NameToSlot("collection-whitelist")

// Params provides validated access to the configuration slots.
type Params struct {
	rewardRate    *sslot.BigInt
	lockPeriod    *sslot.Uint64
	maxPenaltyBps *sslot.Uint64
	treasury      *sslot.Address
	whitelist     *sslot.Mapping[hoard.Address, bool]
}

// New creates a params instance bound to the given slot context.
func New(sctx *sslot.Context) *Params {
	return &Params{
		rewardRate:    sslot.NewBigInt(sctx, hoard.KeyRewardRate),
		lockPeriod:    sslot.NewUint64(sctx, hoard.KeyLockPeriod),
		maxPenaltyBps: sslot.NewUint64(sctx, hoard.KeyMaxPenaltyBps),
		treasury:      sslot.NewAddress(sctx, hoard.KeyTreasury),
		whitelist:     sslot.NewMapping[hoard.Address, bool](sctx, slotWhitelist),
	}
}

// RewardRate returns the reward rate in units per second.
func (p *Params) RewardRate() (*big.Int, error) {
	return p.rewardRate.Get()
}

// SetRewardRate sets the reward rate in units per second.
func (p *Params) SetRewardRate(rate *big.Int) error {
	if rate == nil || rate.Sign() < 0 {
		return reverts.NewConfig("reward rate must be non-negative")
	}
	return p.rewardRate.Set(rate)
}

// LockPeriod returns the lock period in seconds.
func (p *Params) LockPeriod() (uint64, error) {
	return p.lockPeriod.Get()
}

// SetLockPeriod sets the lock period in seconds. Zero is rejected here so
// the penalty curve never sees a zero divisor.
func (p *Params) SetLockPeriod(seconds uint64) error {
	if seconds == 0 {
		return reverts.NewConfig("lock period must be positive")
	}
	return p.lockPeriod.Set(seconds)
}

// MaxPenaltyBps returns the penalty at the start of the lock window.
func (p *Params) MaxPenaltyBps() (uint64, error) {
	return p.maxPenaltyBps.Get()
}

// SetMaxPenaltyBps sets the penalty at the start of the lock window.
func (p *Params) SetMaxPenaltyBps(bps uint64) error {
	if bps > hoard.MaxPenaltyBpsCap {
		return reverts.NewConfig("max penalty %d bps exceeds cap %d", bps, hoard.MaxPenaltyBpsCap)
	}
	return p.maxPenaltyBps.Set(bps)
}

// Treasury returns the address receiving penalties.
func (p *Params) Treasury() (hoard.Address, error) {
	return p.treasury.Get()
}

// SetTreasury sets the address receiving penalties.
func (p *Params) SetTreasury(addr hoard.Address) error {
	if addr.IsZero() {
		return reverts.NewConfig("treasury address must be non-zero")
	}
	return p.treasury.Set(addr)
}

// IsWhitelisted reports whether a collection is eligible for deposits.
func (p *Params) IsWhitelisted(collection hoard.Address) (bool, error) {
	return p.whitelist.Get(collection)
}

// SetWhitelisted adds or removes a collection from the whitelist.
func (p *Params) SetWhitelisted(collection hoard.Address, eligible bool) error {
	if !eligible {
		return p.whitelist.Delete(collection)
	}
	return p.whitelist.Set(collection, true)
}
