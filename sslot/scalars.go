// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sslot

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/hoard-network/hoard/hoard"
)

// BigInt is a single big integer slot.
type BigInt struct {
	context *Context
	pos     hoard.Bytes32
}

// NewBigInt creates a big integer slot accessor.
func NewBigInt(context *Context, pos hoard.Bytes32) *BigInt {
	return &BigInt{context: context, pos: pos}
}

// Get returns the stored value, zero if never written.
func (b *BigInt) Get() (*big.Int, error) {
	value := new(big.Int)
	err := b.context.state.DecodeStorage(b.context.address, b.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value)
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores the value; zero clears the slot.
func (b *BigInt) Set(value *big.Int) error {
	return b.context.state.EncodeStorage(b.context.address, b.pos, func() ([]byte, error) {
		if value == nil || value.Sign() == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

// Add increments the stored value by delta.
func (b *BigInt) Add(delta *big.Int) error {
	cur, err := b.Get()
	if err != nil {
		return err
	}
	return b.Set(new(big.Int).Add(cur, delta))
}

// Uint64 is a single unsigned integer slot.
type Uint64 struct {
	context *Context
	pos     hoard.Bytes32
}

// NewUint64 creates an unsigned integer slot accessor.
func NewUint64(context *Context, pos hoard.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

// Get returns the stored value, zero if never written.
func (u *Uint64) Get() (uint64, error) {
	var value uint64
	err := u.context.state.DecodeStorage(u.context.address, u.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return value, err
}

// Set stores the value; zero clears the slot.
func (u *Uint64) Set(value uint64) error {
	return u.context.state.EncodeStorage(u.context.address, u.pos, func() ([]byte, error) {
		if value == 0 {
			return nil, nil
		}
		return rlp.EncodeToBytes(value)
	})
}

// Address is a single address slot.
type Address struct {
	context *Context
	pos     hoard.Bytes32
}

// NewAddress creates an address slot accessor.
func NewAddress(context *Context, pos hoard.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

// Get returns the stored address, zero if never written.
func (a *Address) Get() (hoard.Address, error) {
	var value hoard.Address
	err := a.context.state.DecodeStorage(a.context.address, a.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		_, content, _, err := rlp.Split(raw)
		if err != nil {
			return err
		}
		value = hoard.BytesToAddress(content)
		return nil
	})
	return value, err
}

// Set stores the address; the zero address clears the slot.
func (a *Address) Set(value hoard.Address) error {
	return a.context.state.EncodeStorage(a.context.address, a.pos, func() ([]byte, error) {
		if value.IsZero() {
			return nil, nil
		}
		trimmed, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
		return trimmed, nil
	})
}
