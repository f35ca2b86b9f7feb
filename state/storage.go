// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/hoard-network/hoard/hoard"
)

// StorageEncoder defines the interface of custom storage encoding.
// Encoding to an empty slice deletes the slot, so the zero value of a
// storage type must encode to nil.
type StorageEncoder interface {
	Encode() ([]byte, error)
}

// StorageDecoder defines the interface of custom storage decoding.
// Decode receives nil for never-written slots and must produce the
// zero value in that case.
type StorageDecoder interface {
	Decode([]byte) error
}

// GetStructuredStorage decodes the slot value into the given decoder.
func (s *State) GetStructuredStorage(addr hoard.Address, key hoard.Bytes32, val StorageDecoder) error {
	return s.DecodeStorage(addr, key, val.Decode)
}

// SetStructuredStorage encodes the given encoder into the slot.
func (s *State) SetStructuredStorage(addr hoard.Address, key hoard.Bytes32, val StorageEncoder) error {
	return s.EncodeStorage(addr, key, val.Encode)
}
