// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the failures an instruction can end with. A revert
// means the instruction is rejected and none of its writes are committed.
package reverts

import (
	"errors"
	"fmt"
)

// Code identifies the kind of a revert. The numeric value is stable and is
// what callers outside the process see.
type Code uint32

const (
	Unknown Code = iota
	AuthorizationMismatch
	CapacityExceeded
	StaleRate
	AlreadyUpdated
	ArithmeticOverflow
	ArithmeticUnderflow
	InvalidUnitConversion
	ValidatorHasStakeAccounts
	MergeIneligible
	InvalidInstruction
	AlreadyInitialized
	NotInitialized
	InvalidAccountData
	InvalidOwner
	InvalidAmount
	InsufficientFunds
	DuplicateEntry
	EntryNotFound
	InvalidRewardDistribution
	ValidatorHasUnclaimedFees
	InvalidVoteAccount
	InvalidMint
	InvalidFeeRecipient
	NotMaintainer
	NotManager
)

var codeNames = map[Code]string{
	Unknown:                   "Unknown",
	AuthorizationMismatch:     "AuthorizationMismatch",
	CapacityExceeded:          "CapacityExceeded",
	StaleRate:                 "StaleRate",
	AlreadyUpdated:            "AlreadyUpdated",
	ArithmeticOverflow:        "ArithmeticOverflow",
	ArithmeticUnderflow:       "ArithmeticUnderflow",
	InvalidUnitConversion:     "InvalidUnitConversion",
	ValidatorHasStakeAccounts: "ValidatorHasStakeAccounts",
	MergeIneligible:           "MergeIneligible",
	InvalidInstruction:        "InvalidInstruction",
	AlreadyInitialized:        "AlreadyInitialized",
	NotInitialized:            "NotInitialized",
	InvalidAccountData:        "InvalidAccountData",
	InvalidOwner:              "InvalidOwner",
	InvalidAmount:             "InvalidAmount",
	InsufficientFunds:         "InsufficientFunds",
	DuplicateEntry:            "DuplicateEntry",
	EntryNotFound:             "EntryNotFound",
	InvalidRewardDistribution: "InvalidRewardDistribution",
	ValidatorHasUnclaimedFees: "ValidatorHasUnclaimedFees",
	InvalidVoteAccount:        "InvalidVoteAccount",
	InvalidMint:               "InvalidMint",
	InvalidFeeRecipient:       "InvalidFeeRecipient",
	NotMaintainer:             "NotMaintainer",
	NotManager:                "NotManager",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// Sentinels for errors.Is. Two reverts match when their codes match, so a
// detailed revert created with Newf is still Is(ErrStaleRate).
var (
	ErrAuthorizationMismatch     = New(AuthorizationMismatch, "account list does not match the instruction")
	ErrCapacityExceeded          = New(CapacityExceeded, "registry is full")
	ErrStaleRate                 = New(StaleRate, "exchange rate is outdated")
	ErrAlreadyUpdated            = New(AlreadyUpdated, "already updated in this epoch")
	ErrArithmeticOverflow        = New(ArithmeticOverflow, "arithmetic overflow")
	ErrArithmeticUnderflow       = New(ArithmeticUnderflow, "arithmetic underflow")
	ErrInvalidUnitConversion     = New(InvalidUnitConversion, "conversion with undefined exchange rate")
	ErrValidatorHasStakeAccounts = New(ValidatorHasStakeAccounts, "validator still has stake accounts")
	ErrMergeIneligible           = New(MergeIneligible, "stake accounts cannot be merged")
	ErrInvalidInstruction        = New(InvalidInstruction, "invalid instruction data")
	ErrAlreadyInitialized        = New(AlreadyInitialized, "account is already initialized")
	ErrNotInitialized            = New(NotInitialized, "account is not initialized")
	ErrInvalidAccountData        = New(InvalidAccountData, "invalid account data")
	ErrInvalidOwner              = New(InvalidOwner, "account has the wrong owner")
	ErrInvalidAmount             = New(InvalidAmount, "invalid amount")
	ErrInsufficientFunds         = New(InsufficientFunds, "insufficient funds")
	ErrDuplicateEntry            = New(DuplicateEntry, "entry already exists")
	ErrEntryNotFound             = New(EntryNotFound, "entry not found")
	ErrInvalidRewardDistribution = New(InvalidRewardDistribution, "invalid reward distribution")
	ErrValidatorHasUnclaimedFees = New(ValidatorHasUnclaimedFees, "validator has unclaimed fees")
	ErrInvalidVoteAccount        = New(InvalidVoteAccount, "invalid vote account")
	ErrInvalidMint               = New(InvalidMint, "invalid mint")
	ErrInvalidFeeRecipient       = New(InvalidFeeRecipient, "invalid fee recipient")
	ErrNotMaintainer             = New(NotMaintainer, "signer is not a maintainer")
	ErrNotManager                = New(NotManager, "signer is not the manager")
)

type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

// Newf creates a revert with a formatted message.
func Newf(code Code, format string, args ...any) *ErrRevert {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.code.String() + ": " + e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

func (e *ErrRevert) Message() string {
	return e.message
}

// Is reports whether target is a revert with the same code.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

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

// CodeOf returns the code of the first revert in err's chain, or Unknown.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code
	}
	return Unknown
}
