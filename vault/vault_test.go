// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/issuer"
	"github.com/hoard-network/hoard/kv"
	"github.com/hoard-network/hoard/registry"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/state"
	"github.com/hoard-network/hoard/vault"
	"github.com/hoard-network/hoard/vault/reverts"
)

const (
	lockPeriod    = uint64(604800)
	maxPenaltyBps = uint64(5000)
)

var (
	collection = hoard.BytesToAddress([]byte("collection"))
	owner      = hoard.BytesToAddress([]byte("owner"))
	stranger   = hoard.BytesToAddress([]byte("stranger"))
	treasury   = hoard.BytesToAddress([]byte("treasury"))
)

func itemID(i int) hoard.Bytes32 {
	return hoard.BytesToBytes32([]byte(fmt.Sprintf("item-%d", i)))
}

type testEnv struct {
	vault    *vault.Vault
	registry *registry.Registry
	issuer   *issuer.Issuer
	sink     *vault.MemSink
}

func newTestEnv(t *testing.T) *testEnv {
	store, err := kv.OpenMemDB()
	require.NoError(t, err)
	st := state.New(store)

	reg := registry.New(sslot.NewContext(hoard.RegistryAddress, st), hoard.VaultAddress)
	iss := issuer.New(sslot.NewContext(hoard.IssuerAddress, st), hoard.VaultAddress)
	require.NoError(t, iss.InitializeMinter(hoard.VaultAddress))

	sink := &vault.MemSink{}
	v := vault.New(st, reg, iss, sink)

	require.NoError(t, v.SetLockPeriod(lockPeriod))
	require.NoError(t, v.SetMaxPenaltyBps(maxPenaltyBps))
	require.NoError(t, v.SetRewardRate(big.NewInt(1)))
	require.NoError(t, v.SetTreasury(treasury))
	require.NoError(t, v.SetWhitelisted(collection, true))

	for i := 0; i < 8; i++ {
		require.NoError(t, reg.Mint(collection, itemID(i), owner))
	}
	require.NoError(t, st.Commit())

	return &testEnv{vault: v, registry: reg, issuer: iss, sink: sink}
}

func (env *testEnv) balance(t *testing.T, addr hoard.Address) int64 {
	balance, err := env.issuer.BalanceOf(addr)
	require.NoError(t, err)
	return balance.Int64()
}

func (env *testEnv) holder(t *testing.T, item hoard.Bytes32) hoard.Address {
	holder, err := env.registry.HolderOf(collection, item)
	require.NoError(t, err)
	return holder
}

func TestDeposit(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 1000))

	record, err := env.vault.GetStake(collection, itemID(0))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, owner, record.Owner)
	assert.Equal(t, uint64(1000), record.DepositedAt)
	assert.Equal(t, uint64(1000), record.LastAccrualAt)

	// the item moved into custody
	assert.Equal(t, hoard.VaultAddress, env.holder(t, itemID(0)))

	items, err := env.vault.StakedItems(owner, collection)
	require.NoError(t, err)
	assert.Equal(t, []hoard.Bytes32{itemID(0)}, items)

	total, err := env.vault.TotalStakes()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
}

func TestDepositGuards(t *testing.T) {
	env := newTestEnv(t)

	err := env.vault.Deposit(owner, hoard.BytesToAddress([]byte("unlisted")), itemID(0), 1000)
	assert.Equal(t, reverts.ErrCollectionNotWhitelisted, err)

	// item held by someone else
	err = env.vault.Deposit(stranger, collection, itemID(0), 1000)
	assert.True(t, reverts.IsCollaboratorErr(err))

	// nonexistent item
	err = env.vault.Deposit(owner, collection, hoard.BytesToBytes32([]byte("ghost")), 1000)
	assert.True(t, reverts.IsCollaboratorErr(err))

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 1000))
	err = env.vault.Deposit(owner, collection, itemID(0), 2000)
	assert.Equal(t, reverts.ErrAlreadyStaked, err)
}

func TestClaim(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))

	reward, err := env.vault.Claim(owner, collection, itemID(0), 86400)
	require.NoError(t, err)
	assert.Equal(t, int64(86400), reward.Int64())
	assert.Equal(t, int64(86400), env.balance(t, owner))

	// claiming again for the same instant yields nothing
	reward, err = env.vault.Claim(owner, collection, itemID(0), 86400)
	require.NoError(t, err)
	assert.Zero(t, reward.Sign())

	// the deposit clock is untouched by claims
	record, err := env.vault.GetStake(collection, itemID(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), record.DepositedAt)
	assert.Equal(t, uint64(86400), record.LastAccrualAt)
}

func TestClaimCumulative(t *testing.T) {
	stepped := newTestEnv(t)
	single := newTestEnv(t)

	require.NoError(t, stepped.vault.Deposit(owner, collection, itemID(0), 0))
	require.NoError(t, single.vault.Deposit(owner, collection, itemID(0), 0))

	for _, now := range []uint64{100, 5000, 604800} {
		_, err := stepped.vault.Claim(owner, collection, itemID(0), now)
		require.NoError(t, err)
	}
	_, err := single.vault.Claim(owner, collection, itemID(0), 604800)
	require.NoError(t, err)

	assert.Equal(t, single.balance(t, owner), stepped.balance(t, owner))
}

func TestClaimGuards(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.vault.Claim(owner, collection, itemID(0), 1000)
	assert.Equal(t, reverts.ErrNotStaked, err)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 1000))
	_, err = env.vault.Claim(stranger, collection, itemID(0), 2000)
	assert.Equal(t, reverts.ErrNotOwner, err)

	// clock running backwards is surfaced, not clamped
	_, err = env.vault.Claim(owner, collection, itemID(0), 999)
	assert.True(t, reverts.IsClockErr(err))
}

func TestExitAfterLock(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))
	_, err := env.vault.Claim(owner, collection, itemID(0), 86400)
	require.NoError(t, err)

	reward, err := env.vault.ExitAfterLock(owner, collection, itemID(0), 604801)
	require.NoError(t, err)
	assert.Equal(t, int64(518401), reward.Int64())
	assert.Equal(t, int64(86400+518401), env.balance(t, owner))
	assert.Zero(t, env.balance(t, treasury))

	// fully unwound
	record, err := env.vault.GetStake(collection, itemID(0))
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Equal(t, owner, env.holder(t, itemID(0)))

	count, err := env.vault.StakedCount(owner, collection)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExitAfterLockTooEarly(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))
	_, err := env.vault.ExitAfterLock(owner, collection, itemID(0), lockPeriod-1)
	assert.Equal(t, reverts.ErrLockNotElapsed, err)

	// the boundary itself is enough
	_, err = env.vault.ExitAfterLock(owner, collection, itemID(0), lockPeriod)
	assert.NoError(t, err)
}

func TestExitNow(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))

	// halfway through the lock: accrued 302400, penalty 2500 bps
	reward, penalty, err := env.vault.ExitNow(owner, collection, itemID(0), 302400)
	require.NoError(t, err)
	assert.Equal(t, int64(226800), reward.Int64())
	assert.Equal(t, int64(75600), penalty.Int64())
	assert.Equal(t, int64(226800), env.balance(t, owner))
	assert.Equal(t, int64(75600), env.balance(t, treasury))
	assert.Equal(t, owner, env.holder(t, itemID(0)))
}

func TestExitNowImmediately(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 1000))

	// nothing accrued yet, so nothing to forfeit either
	reward, penalty, err := env.vault.ExitNow(owner, collection, itemID(0), 1000)
	require.NoError(t, err)
	assert.Zero(t, reward.Sign())
	assert.Zero(t, penalty.Sign())
	assert.Equal(t, owner, env.holder(t, itemID(0)))
}

func TestExitNowAfterBoundary(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))

	// past the boundary the penalty is zero, same as a regular exit
	reward, penalty, err := env.vault.ExitNow(owner, collection, itemID(0), lockPeriod+5)
	require.NoError(t, err)
	assert.Equal(t, int64(lockPeriod+5), reward.Int64())
	assert.Zero(t, penalty.Sign())
}

func TestRedepositResetsClocks(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))
	_, _, err := env.vault.ExitNow(owner, collection, itemID(0), 1000)
	require.NoError(t, err)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 5000))
	record, err := env.vault.GetStake(collection, itemID(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), record.DepositedAt)
	assert.Equal(t, uint64(5000), record.LastAccrualAt)
}

func TestParamChangeAppliesImmediately(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))
	_, err := env.vault.ExitAfterLock(owner, collection, itemID(0), 1000)
	assert.Equal(t, reverts.ErrLockNotElapsed, err)

	// shortening the lock frees the existing stake
	require.NoError(t, env.vault.SetLockPeriod(500))
	_, err = env.vault.ExitAfterLock(owner, collection, itemID(0), 1000)
	assert.NoError(t, err)
}

func TestDelistedCollectionCanStillExit(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))
	require.NoError(t, env.vault.SetWhitelisted(collection, false))

	err := env.vault.Deposit(owner, collection, itemID(1), 100)
	assert.Equal(t, reverts.ErrCollectionNotWhitelisted, err)

	_, err = env.vault.Claim(owner, collection, itemID(0), 100)
	assert.NoError(t, err)
	_, _, err = env.vault.ExitNow(owner, collection, itemID(0), 200)
	assert.NoError(t, err)
}

func TestBatchDeposit(t *testing.T) {
	env := newTestEnv(t)
	items := []hoard.Bytes32{itemID(0), itemID(1), itemID(2)}

	require.NoError(t, env.vault.DepositMany(owner, collection, items, 1000))

	count, err := env.vault.StakedCount(owner, collection)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestBatchRollback(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(3), 500))

	// itemID(3) is already staked, so the whole batch must unwind
	err := env.vault.DepositMany(owner, collection, []hoard.Bytes32{itemID(0), itemID(1), itemID(3)}, 1000)
	assert.Equal(t, reverts.ErrAlreadyStaked, err)

	for _, item := range []hoard.Bytes32{itemID(0), itemID(1)} {
		record, err := env.vault.GetStake(collection, item)
		require.NoError(t, err)
		assert.Nil(t, record)
		assert.Equal(t, owner, env.holder(t, item))
	}
	count, err := env.vault.StakedCount(owner, collection)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// the pre-existing stake is untouched
	record, err := env.vault.GetStake(collection, itemID(3))
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, uint64(500), record.DepositedAt)
}

func TestBatchClaimAggregates(t *testing.T) {
	env := newTestEnv(t)
	items := []hoard.Bytes32{itemID(0), itemID(1), itemID(2)}

	require.NoError(t, env.vault.DepositMany(owner, collection, items, 0))

	total, err := env.vault.ClaimMany(owner, collection, items, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), total.Int64())
	assert.Equal(t, int64(3000), env.balance(t, owner))
}

func TestBatchExitRollback(t *testing.T) {
	env := newTestEnv(t)
	items := []hoard.Bytes32{itemID(0), itemID(1)}

	require.NoError(t, env.vault.DepositMany(owner, collection, items, 0))

	// the caller owns none of the items
	_, _, err := env.vault.ExitManyNow(stranger, collection, items, 1000)
	assert.Equal(t, reverts.ErrNotOwner, err)

	for _, item := range items {
		record, err := env.vault.GetStake(collection, item)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, uint64(0), record.LastAccrualAt)
		assert.Equal(t, hoard.VaultAddress, env.holder(t, item))
	}
	assert.Zero(t, env.balance(t, stranger))
}

func TestBatchExitNow(t *testing.T) {
	env := newTestEnv(t)
	items := []hoard.Bytes32{itemID(0), itemID(1)}

	require.NoError(t, env.vault.DepositMany(owner, collection, items, 0))

	reward, penalty, err := env.vault.ExitManyNow(owner, collection, items, 302400)
	require.NoError(t, err)
	assert.Equal(t, int64(2*226800), reward.Int64())
	assert.Equal(t, int64(2*75600), penalty.Int64())
	assert.Equal(t, int64(2*75600), env.balance(t, treasury))

	total, err := env.vault.TotalStakes()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))
	_, err := env.vault.Claim(owner, collection, itemID(0), 1000)
	require.NoError(t, err)
	_, _, err = env.vault.ExitNow(owner, collection, itemID(0), 302400)
	require.NoError(t, err)

	events := env.sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, vault.KindDeposited, events[0].Kind)
	assert.Equal(t, vault.KindClaimed, events[1].Kind)
	assert.Equal(t, int64(1000), events[1].Reward.Int64())
	assert.Equal(t, vault.KindExited, events[2].Kind)
	assert.Equal(t, itemID(0), events[2].ItemID)
	assert.Positive(t, events[2].Penalty.Sign())
}

func TestFailedOpEmitsNothing(t *testing.T) {
	env := newTestEnv(t)

	err := env.vault.Deposit(stranger, collection, itemID(0), 0)
	require.Error(t, err)
	assert.Empty(t, env.sink.Events())
}

func TestPendingReward(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))

	pending, err := env.vault.PendingReward(collection, itemID(0), 1234)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), pending.Int64())

	// previewing mints nothing and settles nothing
	assert.Zero(t, env.balance(t, owner))
	record, err := env.vault.GetStake(collection, itemID(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), record.LastAccrualAt)
}

func TestPenaltyPreview(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.vault.Deposit(owner, collection, itemID(0), 0))

	bps, err := env.vault.PenaltyPreview(collection, itemID(0), 302400)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), bps)

	bps, err = env.vault.PenaltyPreview(collection, itemID(0), lockPeriod)
	require.NoError(t, err)
	assert.Zero(t, bps)
}
