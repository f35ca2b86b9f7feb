// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaultapi

import (
	"math/big"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/vault/ledger"
)

// Stake is the wire form of a live stake record.
type Stake struct {
	Owner         hoard.Address `json:"owner"`
	DepositedAt   uint64        `json:"depositedAt"`
	LastAccrualAt uint64        `json:"lastAccrualAt"`
}

func convertStake(record *ledger.Record) *Stake {
	return &Stake{
		Owner:         record.Owner,
		DepositedAt:   record.DepositedAt,
		LastAccrualAt: record.LastAccrualAt,
	}
}

// OpRequest is the body of all mutating stake operations. Items are
// processed in order; any item failing aborts the whole batch.
type OpRequest struct {
	Caller hoard.Address   `json:"caller"`
	Items  []hoard.Bytes32 `json:"items"`
	// Now is the operation time in unix seconds; zero means server time.
	Now uint64 `json:"now,omitempty"`
}

// OpResponse reports the amounts a mutating operation paid out.
type OpResponse struct {
	Reward  string `json:"reward,omitempty"`
	Penalty string `json:"penalty,omitempty"`
}

func amount(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// ItemsResponse enumerates an owner's staked items in a collection.
type ItemsResponse struct {
	Count uint64          `json:"count"`
	Items []hoard.Bytes32 `json:"items"`
}

// RewardResponse reports a non-mutating reward computation.
type RewardResponse struct {
	Reward string `json:"reward"`
}

// PenaltyResponse reports a penalty preview in basis points.
type PenaltyResponse struct {
	PenaltyBps uint64 `json:"penaltyBps"`
}
