// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package issuer mints the reward currency. Minting is capability-gated:
// only the configured minter identity may issue, and the vault is the
// sole authorized minter in normal operation.
package issuer

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/sslot"
)

var (
	slotBalances    = sslot.NameToSlot("reward-balances")
	slotTotalSupply = sslot.NameToSlot("reward-total-supply")
	slotMinter      = sslot.NameToSlot("reward-minter")
)

// Issuer implements the reward currency over the state, acting on behalf
// of the caller identity it was constructed with.
type Issuer struct {
	caller      hoard.Address
	balances    *sslot.Mapping[hoard.Address, *big.Int]
	totalSupply *sslot.BigInt
	minter      *sslot.Address
}

// New creates an issuer bound to the given slot context, acting as caller.
func New(sctx *sslot.Context, caller hoard.Address) *Issuer {
	return &Issuer{
		caller:      caller,
		balances:    sslot.NewMapping[hoard.Address, *big.Int](sctx, slotBalances),
		totalSupply: sslot.NewBigInt(sctx, slotTotalSupply),
		minter:      sslot.NewAddress(sctx, slotMinter),
	}
}

// InitializeMinter grants the minting capability. It can be set once.
func (i *Issuer) InitializeMinter(minter hoard.Address) error {
	current, err := i.minter.Get()
	if err != nil {
		return errors.Wrap(err, "get minter")
	}
	if !current.IsZero() {
		return errors.New("minter already initialized")
	}
	return i.minter.Set(minter)
}

// Minter returns the current minter identity; zero if never initialized.
func (i *Issuer) Minter() (hoard.Address, error) {
	return i.minter.Get()
}

// Issue mints amount to the given account. It fails if the acting caller
// lacks the minting capability.
func (i *Issuer) Issue(to hoard.Address, amount *big.Int) error {
	minter, err := i.minter.Get()
	if err != nil {
		return errors.Wrap(err, "get minter")
	}
	if minter.IsZero() || minter != i.caller {
		return errors.Errorf("caller %s lacks minting capability", i.caller)
	}
	if amount == nil || amount.Sign() < 0 {
		return errors.New("invalid issue amount")
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := i.balances.Get(to)
	if err != nil {
		return errors.Wrap(err, "get balance")
	}
	if err := i.balances.Set(to, new(big.Int).Add(balance, amount)); err != nil {
		return errors.Wrap(err, "set balance")
	}
	return i.totalSupply.Add(amount)
}

// BalanceOf returns the reward balance of an account.
func (i *Issuer) BalanceOf(addr hoard.Address) (*big.Int, error) {
	return i.balances.Get(addr)
}

// TotalSupply returns the total minted reward.
func (i *Issuer) TotalSupply() (*big.Int, error) {
	return i.totalSupply.Get()
}
