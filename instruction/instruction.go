// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package instruction defines the operations of the Solido program: their
// binary encoding, the accounts each one binds, and builders for clients.
package instruction

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

// Kind is the first byte of the instruction data.
type Kind uint8

const (
	KindInitialize Kind = iota
	KindDeposit
	KindStakeDeposit
	KindUpdateExchangeRate
	KindUpdateValidatorBalance
	KindWithdraw
	KindClaimValidatorFees
	KindChangeRewardDistribution
	KindAddValidator
	KindRemoveValidator
	KindAddMaintainer
	KindRemoveMaintainer
	KindMergeStake
)

var kindNames = [...]string{
	"Initialize",
	"Deposit",
	"StakeDeposit",
	"UpdateExchangeRate",
	"UpdateValidatorBalance",
	"Withdraw",
	"ClaimValidatorFees",
	"ChangeRewardDistribution",
	"AddValidator",
	"RemoveValidator",
	"AddMaintainer",
	"RemoveMaintainer",
	"MergeStake",
}

// Kinds lists every operation in discriminant order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Payload is the decoded argument set of an operation.
type Payload interface {
	Kind() Kind
}

type Initialize struct {
	RewardDistribution state.RewardDistribution
	MaxValidators      uint32
	MaxMaintainers     uint32
}

type Deposit struct {
	Amount token.Lamports
}

type StakeDeposit struct {
	Amount token.Lamports
}

type UpdateExchangeRate struct{}

type UpdateValidatorBalance struct{}

type Withdraw struct {
	Amount token.StLamports
}

type ClaimValidatorFees struct{}

type ChangeRewardDistribution struct {
	RewardDistribution state.RewardDistribution
}

type AddValidator struct {
	Weight uint32
}

type RemoveValidator struct{}

type AddMaintainer struct{}

type RemoveMaintainer struct{}

type MergeStake struct{}

func (Initialize) Kind() Kind               { return KindInitialize }
func (Deposit) Kind() Kind                  { return KindDeposit }
func (StakeDeposit) Kind() Kind             { return KindStakeDeposit }
func (UpdateExchangeRate) Kind() Kind       { return KindUpdateExchangeRate }
func (UpdateValidatorBalance) Kind() Kind   { return KindUpdateValidatorBalance }
func (Withdraw) Kind() Kind                 { return KindWithdraw }
func (ClaimValidatorFees) Kind() Kind       { return KindClaimValidatorFees }
func (ChangeRewardDistribution) Kind() Kind { return KindChangeRewardDistribution }
func (AddValidator) Kind() Kind             { return KindAddValidator }
func (RemoveValidator) Kind() Kind          { return KindRemoveValidator }
func (AddMaintainer) Kind() Kind            { return KindAddMaintainer }
func (RemoveMaintainer) Kind() Kind         { return KindRemoveMaintainer }
func (MergeStake) Kind() Kind               { return KindMergeStake }

func newPayload(k Kind) (Payload, bool) {
	switch k {
	case KindInitialize:
		return &Initialize{}, true
	case KindDeposit:
		return &Deposit{}, true
	case KindStakeDeposit:
		return &StakeDeposit{}, true
	case KindUpdateExchangeRate:
		return &UpdateExchangeRate{}, true
	case KindUpdateValidatorBalance:
		return &UpdateValidatorBalance{}, true
	case KindWithdraw:
		return &Withdraw{}, true
	case KindClaimValidatorFees:
		return &ClaimValidatorFees{}, true
	case KindChangeRewardDistribution:
		return &ChangeRewardDistribution{}, true
	case KindAddValidator:
		return &AddValidator{}, true
	case KindRemoveValidator:
		return &RemoveValidator{}, true
	case KindAddMaintainer:
		return &AddMaintainer{}, true
	case KindRemoveMaintainer:
		return &RemoveMaintainer{}, true
	case KindMergeStake:
		return &MergeStake{}, true
	}
	return nil, false
}

// Encode returns the discriminant followed by the borsh encoding of p.
func Encode(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(p.Kind()))
	if err := bin.NewBorshEncoder(&buf).Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses instruction data. The payload must be consumed exactly.
func Decode(data []byte) (Payload, error) {
	if len(data) == 0 {
		return nil, reverts.Newf(reverts.InvalidInstruction, "empty instruction data")
	}
	p, ok := newPayload(Kind(data[0]))
	if !ok {
		return nil, reverts.Newf(reverts.InvalidInstruction, "unknown operation %d", data[0])
	}
	dec := bin.NewBorshDecoder(data[1:])
	if err := dec.Decode(p); err != nil {
		return nil, reverts.Newf(reverts.InvalidInstruction, "%s: %v", p.Kind(), err)
	}
	if dec.Remaining() != 0 {
		return nil, reverts.Newf(reverts.InvalidInstruction, "%s: %d trailing bytes", p.Kind(), dec.Remaining())
	}
	return p, nil
}
