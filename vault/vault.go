// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault orchestrates the stake lifecycle. It composes the ledger,
// the item index, the penalty and accrual curves and the governable
// parameters, and talks to the external collaborators behind interfaces.
//
// Every operation follows the same shape: validate, mutate ledger and
// index, external effects last. The one exception is deposit, where the
// transfer into custody gates record creation. Operations are atomic: any
// failure reverts the state to the pre-call checkpoint, including all-or-
// nothing batches.
package vault

import (
	"math/big"
	"sync"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/log"
	"github.com/hoard-network/hoard/metrics"
	"github.com/hoard-network/hoard/params"
	"github.com/hoard-network/hoard/sslot"
	"github.com/hoard-network/hoard/state"
	"github.com/hoard-network/hoard/vault/curve"
	"github.com/hoard-network/hoard/vault/itemset"
	"github.com/hoard-network/hoard/vault/ledger"
	"github.com/hoard-network/hoard/vault/reverts"
)

var (
	logger = log.WithContext("pkg", "vault")

	metricOpCount    = metrics.LazyLoadCounterVec("vault_op_count", []string{"op", "status"})
	metricLiveStakes = metrics.LazyLoadGauge("vault_live_stakes_gauge")
)

// ItemRegistry is the custody collaborator moving items in and out of the
// vault.
type ItemRegistry interface {
	TransferInto(collection hoard.Address, itemID hoard.Bytes32, from hoard.Address) error
	TransferOut(collection hoard.Address, itemID hoard.Bytes32, to hoard.Address) error
}

// RewardIssuer is the collaborator minting the reward currency.
type RewardIssuer interface {
	Issue(to hoard.Address, amount *big.Int) error
}

// Vault is the stake orchestrator. Mutating operations are serialized; no
// operation can observe a partially updated ledger/index pair.
type Vault struct {
	mu       sync.Mutex
	state    *state.State
	params   *params.Params
	ledger   *ledger.Service
	items    *itemset.Service
	registry ItemRegistry
	issuer   RewardIssuer
	sink     Sink
}

// New creates a vault over the given state. The sink may be nil to drop
// events.
func New(st *state.State, registry ItemRegistry, issuer RewardIssuer, sink Sink) *Vault {
	sctx := sslot.NewContext(hoard.VaultAddress, st)
	return &Vault{
		state:    st,
		params:   params.New(sslot.NewContext(hoard.ParamsAddress, st)),
		ledger:   ledger.New(sctx),
		items:    itemset.New(sctx),
		registry: registry,
		issuer:   issuer,
		sink:     sink,
	}
}

// Params exposes the governable parameters, for the admin surface.
func (v *Vault) Params() *params.Params {
	return v.params
}

// run executes a mutating operation against a fresh checkpoint and reverts
// the whole state delta on any error.
func (v *Vault) run(op string, fn func() error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	checkpoint := v.state.NewCheckpoint()
	if err := fn(); err != nil {
		v.state.RevertTo(checkpoint)
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "reverted"})
		return err
	}
	if err := v.state.Commit(); err != nil {
		return err
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	return nil
}

// emit hands events to the sink. Sink failures are logged, never surfaced:
// the operation that produced the events has already succeeded.
func (v *Vault) emit(events []*Event) {
	if v.sink == nil {
		return
	}
	for _, ev := range events {
		if err := v.sink.Append(ev); err != nil {
			logger.Warn("event sink failed", "kind", ev.Kind, "err", err)
		}
	}
}

// requireOwned loads the live record for the key and checks the caller is
// its owner.
func (v *Vault) requireOwned(caller, collection hoard.Address, itemID hoard.Bytes32) (*ledger.Record, error) {
	record, err := v.ledger.Get(collection, itemID)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return nil, reverts.ErrNotStaked
	}
	if record.Owner != caller {
		return nil, reverts.ErrNotOwner
	}
	return record, nil
}

// Deposit stakes a single item. See DepositMany.
func (v *Vault) Deposit(owner, collection hoard.Address, itemID hoard.Bytes32, now uint64) error {
	return v.DepositMany(owner, collection, []hoard.Bytes32{itemID}, now)
}

// DepositMany stakes an ordered sequence of items for owner. The transfer
// into custody gates each record creation; any item failing reverts the
// whole batch.
func (v *Vault) DepositMany(owner, collection hoard.Address, itemIDs []hoard.Bytes32, now uint64) error {
	err := v.run("deposit", func() error {
		eligible, err := v.params.IsWhitelisted(collection)
		if err != nil {
			return err
		}
		if !eligible {
			return reverts.ErrCollectionNotWhitelisted
		}
		for _, itemID := range itemIDs {
			if err := v.depositOne(owner, collection, itemID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metricLiveStakes().Add(int64(len(itemIDs)))
	events := make([]*Event, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		logger.Debug("item deposited",
			"owner", owner, "collection", collection, "item", itemID.AbbrevString())
		events = append(events, &Event{
			Kind:       KindDeposited,
			Time:       now,
			Owner:      owner,
			Collection: collection,
			ItemID:     itemID,
		})
	}
	v.emit(events)
	return nil
}

func (v *Vault) depositOne(owner, collection hoard.Address, itemID hoard.Bytes32, now uint64) error {
	live, err := v.ledger.IsLive(collection, itemID)
	if err != nil {
		return err
	}
	if live {
		return reverts.ErrAlreadyStaked
	}
	if err := v.registry.TransferInto(collection, itemID, owner); err != nil {
		return reverts.NewCollaborator("item registry", err)
	}
	if err := v.ledger.Open(collection, itemID, owner, now); err != nil {
		return err
	}
	return v.items.Insert(owner, collection, itemID)
}

// Claim settles and pays the reward accrued on a single item. See
// ClaimMany.
func (v *Vault) Claim(caller, collection hoard.Address, itemID hoard.Bytes32, now uint64) (*big.Int, error) {
	return v.ClaimMany(caller, collection, []hoard.Bytes32{itemID}, now)
}

// ClaimMany settles every item in the batch and pays the summed reward in
// a single issuance. The stakes stay live; deposit times are untouched.
func (v *Vault) ClaimMany(caller, collection hoard.Address, itemIDs []hoard.Bytes32, now uint64) (*big.Int, error) {
	total := new(big.Int)
	amounts := make([]*big.Int, 0, len(itemIDs))
	err := v.run("claim", func() error {
		rate, err := v.params.RewardRate()
		if err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if _, err := v.requireOwned(caller, collection, itemID); err != nil {
				return err
			}
			accrued, err := v.ledger.Settle(collection, itemID, now, rate)
			if err != nil {
				return err
			}
			amounts = append(amounts, accrued)
			total.Add(total, accrued)
		}
		if total.Sign() > 0 {
			if err := v.issuer.Issue(caller, total); err != nil {
				return reverts.NewCollaborator("reward issuer", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := make([]*Event, 0, len(itemIDs))
	for i, itemID := range itemIDs {
		logger.Debug("reward claimed",
			"owner", caller, "collection", collection, "item", itemID.AbbrevString(), "reward", amounts[i])
		events = append(events, &Event{
			Kind:       KindClaimed,
			Time:       now,
			Owner:      caller,
			Collection: collection,
			ItemID:     itemID,
			Reward:     amounts[i],
		})
	}
	v.emit(events)
	return total, nil
}

// ExitAfterLock unstakes a single item once its lock period has elapsed.
// See ExitManyAfterLock.
func (v *Vault) ExitAfterLock(caller, collection hoard.Address, itemID hoard.Bytes32, now uint64) (*big.Int, error) {
	reward, _, err := v.exitMany("exit", caller, collection, itemIDs1(itemID), now, false)
	return reward, err
}

// ExitNow unstakes a single item before the lock elapses, forfeiting a
// linearly decaying share of the accrued reward. See ExitManyNow.
func (v *Vault) ExitNow(caller, collection hoard.Address, itemID hoard.Bytes32, now uint64) (reward, penalty *big.Int, err error) {
	return v.exitMany("exit_now", caller, collection, itemIDs1(itemID), now, true)
}

// ExitManyAfterLock unstakes a batch of items whose lock periods have all
// elapsed and pays the summed reward in a single issuance.
func (v *Vault) ExitManyAfterLock(caller, collection hoard.Address, itemIDs []hoard.Bytes32, now uint64) (*big.Int, error) {
	reward, _, err := v.exitMany("exit", caller, collection, itemIDs, now, false)
	return reward, err
}

// ExitManyNow unstakes a batch of items immediately. The penalty is
// computed per item and the summed net reward and summed penalty are paid
// in one issuance each.
func (v *Vault) ExitManyNow(caller, collection hoard.Address, itemIDs []hoard.Bytes32, now uint64) (reward, penalty *big.Int, err error) {
	return v.exitMany("exit_now", caller, collection, itemIDs, now, true)
}

func itemIDs1(itemID hoard.Bytes32) []hoard.Bytes32 {
	return []hoard.Bytes32{itemID}
}

func (v *Vault) exitMany(op string, caller, collection hoard.Address, itemIDs []hoard.Bytes32, now uint64, immediate bool) (*big.Int, *big.Int, error) {
	totalReward := new(big.Int)
	totalPenalty := new(big.Int)
	rewards := make([]*big.Int, 0, len(itemIDs))
	penalties := make([]*big.Int, 0, len(itemIDs))
	err := v.run(op, func() error {
		lockPeriod, err := v.params.LockPeriod()
		if err != nil {
			return err
		}
		if lockPeriod == 0 {
			return reverts.NewConfig("lock period not configured")
		}
		rate, err := v.params.RewardRate()
		if err != nil {
			return err
		}
		maxPenaltyBps, err := v.params.MaxPenaltyBps()
		if err != nil {
			return err
		}

		// mutate every item first, effects after the loop
		for _, itemID := range itemIDs {
			reward, penalty, err := v.exitOne(caller, collection, itemID, now, lockPeriod, rate, maxPenaltyBps, immediate)
			if err != nil {
				return err
			}
			rewards = append(rewards, reward)
			penalties = append(penalties, penalty)
			totalReward.Add(totalReward, reward)
			totalPenalty.Add(totalPenalty, penalty)
		}

		if totalReward.Sign() > 0 {
			if err := v.issuer.Issue(caller, totalReward); err != nil {
				return reverts.NewCollaborator("reward issuer", err)
			}
		}
		if totalPenalty.Sign() > 0 {
			treasury, err := v.params.Treasury()
			if err != nil {
				return err
			}
			if treasury.IsZero() {
				return reverts.NewConfig("treasury not configured")
			}
			if err := v.issuer.Issue(treasury, totalPenalty); err != nil {
				return reverts.NewCollaborator("reward issuer", err)
			}
		}
		for _, itemID := range itemIDs {
			if err := v.registry.TransferOut(collection, itemID, caller); err != nil {
				return reverts.NewCollaborator("item registry", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metricLiveStakes().Add(-int64(len(itemIDs)))
	events := make([]*Event, 0, len(itemIDs))
	for i, itemID := range itemIDs {
		logger.Debug("item exited",
			"owner", caller, "collection", collection, "item", itemID.AbbrevString(),
			"reward", rewards[i], "penalty", penalties[i])
		events = append(events, &Event{
			Kind:       KindExited,
			Time:       now,
			Owner:      caller,
			Collection: collection,
			ItemID:     itemID,
			Reward:     rewards[i],
			Penalty:    penalties[i],
		})
	}
	v.emit(events)
	return totalReward, totalPenalty, nil
}

// exitOne validates and mutates a single exit: settle, close, unindex. The
// returned amounts are paid by the caller after all mutations.
func (v *Vault) exitOne(caller, collection hoard.Address, itemID hoard.Bytes32, now, lockPeriod uint64, rate *big.Int, maxPenaltyBps uint64, immediate bool) (*big.Int, *big.Int, error) {
	record, err := v.requireOwned(caller, collection, itemID)
	if err != nil {
		return nil, nil, err
	}

	var penaltyBps uint64
	if immediate {
		penaltyBps, err = curve.PenaltyBps(record.DepositedAt, now, lockPeriod, maxPenaltyBps)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if now < record.DepositedAt {
			return nil, nil, &reverts.ErrClock{Observed: now, Floor: record.DepositedAt}
		}
		if now-record.DepositedAt < lockPeriod {
			return nil, nil, reverts.ErrLockNotElapsed
		}
	}

	accrued, err := v.ledger.Settle(collection, itemID, now, rate)
	if err != nil {
		return nil, nil, err
	}
	if _, err := v.ledger.Close(collection, itemID); err != nil {
		return nil, nil, err
	}
	if err := v.items.Remove(caller, collection, itemID); err != nil {
		return nil, nil, err
	}

	reward, penalty := curve.ApplyPenalty(accrued, penaltyBps)
	return reward, penalty, nil
}

// GetStake returns the live record for the key, or nil if not staked.
func (v *Vault) GetStake(collection hoard.Address, itemID hoard.Bytes32) (*ledger.Record, error) {
	record, err := v.ledger.Get(collection, itemID)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return nil, nil
	}
	return record, nil
}

// StakedItems enumerates the items an owner has staked in a collection.
// Order is not meaningful.
func (v *Vault) StakedItems(owner, collection hoard.Address) ([]hoard.Bytes32, error) {
	return v.items.List(owner, collection)
}

// StakedCount returns the size of an owner's staked set in a collection.
func (v *Vault) StakedCount(owner, collection hoard.Address) (uint64, error) {
	return v.items.Count(owner, collection)
}

// TotalStakes returns the number of live stakes across all owners.
func (v *Vault) TotalStakes() (uint64, error) {
	return v.ledger.Count()
}

// PendingReward computes the reward a claim at now would pay, without
// mutating anything.
func (v *Vault) PendingReward(collection hoard.Address, itemID hoard.Bytes32, now uint64) (*big.Int, error) {
	record, err := v.ledger.Get(collection, itemID)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return nil, reverts.ErrNotStaked
	}
	rate, err := v.params.RewardRate()
	if err != nil {
		return nil, err
	}
	return curve.Accrue(record.LastAccrualAt, now, rate)
}

// PenaltyPreview computes the penalty in basis points an immediate exit at
// now would incur.
func (v *Vault) PenaltyPreview(collection hoard.Address, itemID hoard.Bytes32, now uint64) (uint64, error) {
	record, err := v.ledger.Get(collection, itemID)
	if err != nil {
		return 0, err
	}
	if record.IsEmpty() {
		return 0, reverts.ErrNotStaked
	}
	lockPeriod, err := v.params.LockPeriod()
	if err != nil {
		return 0, err
	}
	if lockPeriod == 0 {
		return 0, reverts.NewConfig("lock period not configured")
	}
	maxPenaltyBps, err := v.params.MaxPenaltyBps()
	if err != nil {
		return 0, err
	}
	return curve.PenaltyBps(record.DepositedAt, now, lockPeriod, maxPenaltyBps)
}
