// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sslot provides typed storage-slot accessors over one builtin
// address space, similar to variables and mappings of a contract.
package sslot

import (
	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/state"
)

// Context binds slot accessors to an address space of the state.
type Context struct {
	address hoard.Address
	state   *state.State
}

// NewContext creates a slot context for the given address space.
func NewContext(address hoard.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

// State returns the underlying state.
func (c *Context) State() *state.State {
	return c.state
}

// Address returns the bound address space.
func (c *Context) Address() hoard.Address {
	return c.address
}

// NameToSlot derives the base slot for a named variable.
func NameToSlot(name string) hoard.Bytes32 {
	return hoard.BytesToBytes32([]byte(name))
}
