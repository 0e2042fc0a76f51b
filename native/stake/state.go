// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stake is the delegation program. A stake account holds lamports
// delegated to one vote account; rewards accrue to it each epoch.
package stake

import (
	"bytes"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/token"
)

var (
	ProgramID = solana.MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")
	ConfigID  = solana.MustPublicKeyFromBase58("StakeConfig11111111111111111111111111111111")
	// VoteProgramID owns the vote accounts stake can be delegated to.
	VoteProgramID = solana.MustPublicKeyFromBase58("Vote111111111111111111111111111111111111111")
)

// StateSize is the data length of a stake account.
const StateSize = 200

// NotDeactivated is the deactivation epoch of stake that was never deactivated.
const NotDeactivated = math.MaxUint64

type Kind uint8

const (
	Uninitialized Kind = iota
	Initialized
	Delegated
)

// State is the content of a stake account.
type State struct {
	Kind              Kind
	RentExemptReserve token.Lamports
	Staker            solana.PublicKey
	Withdrawer        solana.PublicKey
	Voter             solana.PublicKey
	Stake             token.Lamports
	ActivationEpoch   uint64
	DeactivationEpoch uint64
}

// Encode returns the state padded to StateSize.
func (s *State) Encode() []byte {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(s); err != nil {
		panic(err)
	}
	data := make([]byte, StateSize)
	copy(data, buf.Bytes())
	return data
}

// IsActiveAt reports whether the delegation is in force in epoch.
func (s *State) IsActiveAt(epoch uint64) bool {
	return s.Kind == Delegated && s.ActivationEpoch < epoch && epoch <= s.DeactivationEpoch
}

// IsDeactivatedAt reports whether the delegation has fully ended by epoch.
func (s *State) IsDeactivatedAt(epoch uint64) bool {
	return s.Kind == Delegated && s.DeactivationEpoch < epoch
}

// Read decodes the state of a stake account.
func Read(info *accounts.Info) (*State, error) {
	if !info.Owner.Equals(ProgramID) {
		return nil, reverts.Newf(reverts.InvalidOwner, "stake account %s is owned by %s", info.Key, info.Owner)
	}
	if len(info.Data) < StateSize {
		return nil, reverts.Newf(reverts.InvalidAccountData, "stake account %s has %d bytes", info.Key, len(info.Data))
	}
	var s State
	if err := bin.NewBorshDecoder(info.Data).Decode(&s); err != nil {
		return nil, reverts.Newf(reverts.InvalidAccountData, "stake account %s: %v", info.Key, err)
	}
	return &s, nil
}

func write(info *accounts.Info, s *State) {
	info.Data = s.Encode()
}

// Accrue adds an epoch reward to a delegated stake account. Rewards are
// delegated as they arrive.
func Accrue(info *accounts.Info, reward token.Lamports) error {
	s, err := Read(info)
	if err != nil {
		return err
	}
	if s.Kind != Delegated {
		return reverts.Newf(reverts.InvalidAccountData, "stake account %s is not delegated", info.Key)
	}
	if s.Stake, err = s.Stake.Add(reward); err != nil {
		return err
	}
	if info.Lamports, err = info.Lamports.Add(reward); err != nil {
		return err
	}
	write(info, s)
	return nil
}

// Slash burns part of the delegated stake of an account.
func Slash(info *accounts.Info, penalty token.Lamports) error {
	s, err := Read(info)
	if err != nil {
		return err
	}
	if s.Kind != Delegated {
		return reverts.Newf(reverts.InvalidAccountData, "stake account %s is not delegated", info.Key)
	}
	if s.Stake, err = s.Stake.Sub(penalty); err != nil {
		return err
	}
	if info.Lamports, err = info.Lamports.Sub(penalty); err != nil {
		return err
	}
	write(info, s)
	return nil
}
