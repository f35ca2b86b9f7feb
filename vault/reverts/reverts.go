// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the error taxonomy of vault operations.
// A revert leaves state exactly as it was before the call.
package reverts

import (
	"errors"
	"fmt"
)

// ErrRevert is a state rule violation, reported to the caller verbatim.
type ErrRevert struct {
	message string
}

// New creates a revert error.
func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// State rule violations.
var (
	ErrNotStaked                = New("not staked")
	ErrAlreadyStaked            = New("already staked")
	ErrNotOwner                 = New("not owner")
	ErrLockNotElapsed           = New("lock period not elapsed")
	ErrDuplicateIndexEntry      = New("duplicate index entry")
	ErrIndexEntryNotFound       = New("index entry not found")
	ErrCollectionNotWhitelisted = New("collection not whitelisted")
)

// IsRevertErr reports whether err is (or wraps) a state rule violation.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// ErrConfig is an invalid configuration, rejected at the admin boundary
// before it can reach core logic.
type ErrConfig struct {
	message string
}

// NewConfig creates a configuration error.
func NewConfig(format string, args ...any) *ErrConfig {
	return &ErrConfig{message: fmt.Sprintf(format, args...)}
}

func (e *ErrConfig) Error() string {
	return "invalid configuration: " + e.message
}

// IsConfigErr reports whether err is (or wraps) a configuration error.
func IsConfigErr(err error) bool {
	var ce *ErrConfig
	return errors.As(err, &ce)
}

// ErrCollaborator is a failure reported by an external collaborator (the
// item registry or the reward issuer). It aborts the operation; the cause
// is preserved for unwrapping.
type ErrCollaborator struct {
	Collaborator string
	Cause        error
}

// NewCollaborator wraps a collaborator failure.
func NewCollaborator(collaborator string, cause error) *ErrCollaborator {
	return &ErrCollaborator{Collaborator: collaborator, Cause: cause}
}

func (e *ErrCollaborator) Error() string {
	return fmt.Sprintf("%s: %s", e.Collaborator, e.Cause.Error())
}

func (e *ErrCollaborator) Unwrap() error {
	return e.Cause
}

// IsCollaboratorErr reports whether err is (or wraps) a collaborator failure.
func IsCollaboratorErr(err error) bool {
	var ce *ErrCollaborator
	return errors.As(err, &ce)
}

// ErrClock reports a non-monotonic clock observation. Unreachable under a
// correct host clock; surfaced rather than clamped.
type ErrClock struct {
	Observed uint64
	Floor    uint64
}

func (e *ErrClock) Error() string {
	return fmt.Sprintf("clock invariant violated: now %d < %d", e.Observed, e.Floor)
}

// IsClockErr reports whether err is (or wraps) a clock invariant violation.
func IsClockErr(err error) bool {
	var ce *ErrClock
	return errors.As(err, &ce)
}
