// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/hoard-network/hoard/hoard"
)

// Event kinds.
const (
	KindDeposited = "deposited"
	KindClaimed   = "claimed"
	KindExited    = "exited"
)

// Event describes a completed vault operation. Events are emitted only
// after the operation has fully succeeded.
type Event struct {
	Kind       string
	Time       uint64
	Owner      hoard.Address
	Collection hoard.Address
	ItemID     hoard.Bytes32
	Reward     *big.Int // net reward paid to the owner; nil for deposits
	Penalty    *big.Int // penalty paid to the treasury; nil unless an early exit
}

// Sink receives events. A sink failure does not fail the operation that
// produced the event.
type Sink interface {
	Append(*Event) error
}

// MemSink buffers events in memory, mainly for tests.
type MemSink struct {
	events []*Event
}

func (s *MemSink) Append(ev *Event) error {
	s.events = append(s.events, ev)
	return nil
}

// Events returns the buffered events in emission order.
func (s *MemSink) Events() []*Event {
	return s.events
}
