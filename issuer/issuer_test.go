// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package issuer_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/issuer"
	"github.com/hoard-network/hoard/kv"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/state"
)

var (
	minter   = hoard.BytesToAddress([]byte("minter"))
	stranger = hoard.BytesToAddress([]byte("stranger"))
	account  = hoard.BytesToAddress([]byte("account"))
)

func newTestState(t *testing.T) *sslot.Context {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)
	return sslot.NewContext(hoard.IssuerAddress, state.New(store))
}

func TestIssue(t *testing.T) {
	sctx := newTestState(t)
	iss := issuer.New(sctx, minter)
	require.NoError(t, iss.InitializeMinter(minter))

	require.NoError(t, iss.Issue(account, big.NewInt(100)))
	require.NoError(t, iss.Issue(account, big.NewInt(50)))

	balance, err := iss.BalanceOf(account)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance.Int64())

	supply, err := iss.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(150), supply.Int64())
}

func TestIssueZeroIsNoop(t *testing.T) {
	sctx := newTestState(t)
	iss := issuer.New(sctx, minter)
	require.NoError(t, iss.InitializeMinter(minter))

	require.NoError(t, iss.Issue(account, new(big.Int)))
	supply, err := iss.TotalSupply()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())
}

func TestCapabilityGate(t *testing.T) {
	sctx := newTestState(t)

	// before initialization nobody can mint
	err := issuer.New(sctx, minter).Issue(account, big.NewInt(1))
	assert.Error(t, err)

	require.NoError(t, issuer.New(sctx, minter).InitializeMinter(minter))

	err = issuer.New(sctx, stranger).Issue(account, big.NewInt(1))
	assert.ErrorContains(t, err, "lacks minting capability")

	assert.NoError(t, issuer.New(sctx, minter).Issue(account, big.NewInt(1)))
}

func TestMinterSetOnce(t *testing.T) {
	sctx := newTestState(t)
	iss := issuer.New(sctx, minter)

	require.NoError(t, iss.InitializeMinter(minter))
	assert.ErrorContains(t, iss.InitializeMinter(stranger), "already initialized")

	got, err := iss.Minter()
	require.NoError(t, err)
	assert.Equal(t, minter, got)
}

func TestNegativeAmountRejected(t *testing.T) {
	sctx := newTestState(t)
	iss := issuer.New(sctx, minter)
	require.NoError(t, iss.InitializeMinter(minter))

	assert.Error(t, iss.Issue(account, big.NewInt(-1)))
}
