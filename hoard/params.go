// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hoard

// Constants of the hoard ledger.
const (
	// BpsDenominator basis-point denominator for exact fractional arithmetic.
	BpsDenominator = 10000

	// MaxPenaltyBpsCap upper bound for the configurable max penalty.
	MaxPenaltyBpsCap = 10000
)

// Addresses of the builtin storage spaces. Derived from names, left-padded
// into the address width.
var (
	VaultAddress    = BytesToAddress([]byte("hoard-vault"))
	RegistryAddress = BytesToAddress([]byte("hoard-registry"))
	IssuerAddress   = BytesToAddress([]byte("hoard-issuer"))
	ParamsAddress   = BytesToAddress([]byte("hoard-params"))
)

// Keys of the governable parameters.
var (
	KeyRewardRate    = BytesToBytes32([]byte("reward-rate"))
	KeyLockPeriod    = BytesToBytes32([]byte("lock-period"))
	KeyMaxPenaltyBps = BytesToBytes32([]byte("max-penalty-bps"))
	KeyTreasury      = BytesToBytes32([]byte("treasury"))
)
