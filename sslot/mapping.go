// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sslot

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/hoard-network/hoard/hoard"
	"github.com/hoard-network/hoard/state"
)

// Key is anything that can key a mapping slot.
type Key interface {
	Bytes() []byte
}

// Mapping is a keyed storage abstraction, similar to a mapping in a
// contract. Slot positions are derived per key from the base slot.
type Mapping[K Key, V any] struct {
	context *Context
	basePos hoard.Bytes32
}

// NewMapping creates a mapping rooted at the given base slot.
func NewMapping[K Key, V any](context *Context, pos hoard.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) hoard.Bytes32 {
	return hoard.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get decodes the value stored for key. Never-written keys yield the
// zero value. Value types implementing state.StorageDecoder control their
// own decoding; everything else goes through rlp.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	if reflect.ValueOf(value).Kind() == reflect.Ptr {
		value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
	}
	if dec, ok := any(value).(state.StorageDecoder); ok {
		err = m.context.state.GetStructuredStorage(m.context.address, m.position(key), dec)
		return
	}
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set encodes and stores the value for key. Value types implementing
// state.StorageEncoder control their own encoding, including encoding the
// zero value to nil to clear the slot.
func (m *Mapping[K, V]) Set(key K, value V) error {
	if enc, ok := any(value).(state.StorageEncoder); ok {
		return m.context.state.SetStructuredStorage(m.context.address, m.position(key), enc)
	}
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot for key, so a later Get yields the zero value.
func (m *Mapping[K, V]) Delete(key K) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return nil, nil
	})
}
