// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state is the record of a Solido instance: its parameters, exchange
// rate, and the validator and maintainer registries. The record is stored
// borsh-encoded at the start of the instance account and zero-padded to a size
// fixed by the registry capacities.
package state

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/token"
)

// AccountType tags the record kind in the first byte of an account.
type AccountType uint8

const (
	Uninitialized AccountType = iota
	LidoAccount
)

// Version is the layout version written by this package.
const Version uint8 = 1

// Lido is the state of one instance.
type Lido struct {
	AccountType AccountType
	Version     uint8

	Manager   solana.PublicKey
	StSolMint solana.PublicKey

	ExchangeRate token.ExchangeRate

	// Bump seeds of the derived addresses, so the program can recreate them
	// without searching.
	ReserveBump        uint8
	MintAuthorityBump  uint8
	StakeAuthorityBump uint8

	RewardDistribution RewardDistribution
	FeeRecipients      FeeRecipients

	Validators  Validators
	Maintainers Maintainers
}

// New returns a fresh record with empty registries of the given capacities.
func New(maxValidators, maxMaintainers uint32) *Lido {
	return &Lido{
		AccountType: LidoAccount,
		Version:     Version,
		Validators:  NewAccountList[Validator](maxValidators),
		Maintainers: NewAccountList[Maintainer](maxMaintainers),
	}
}

func encode(l *Lido) ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Size returns the account size needed for a record with full registries.
func Size(maxValidators, maxMaintainers uint32) int {
	full := New(maxValidators, maxMaintainers)
	full.Validators.Entries = make([]Validator, maxValidators)
	full.Maintainers.Entries = make([]Maintainer, maxMaintainers)
	data, err := encode(full)
	if err != nil {
		panic(err)
	}
	return len(data)
}

// IsInitialized reports whether data holds a record.
func IsInitialized(data []byte) bool {
	return len(data) > 0 && AccountType(data[0]) != Uninitialized
}

// Deserialize decodes the record from account data.
func Deserialize(data []byte) (*Lido, error) {
	if !IsInitialized(data) {
		return nil, reverts.Newf(reverts.NotInitialized, "no record in account")
	}
	var l Lido
	if err := bin.NewBorshDecoder(data).Decode(&l); err != nil {
		return nil, reverts.Newf(reverts.InvalidAccountData, "decode record: %v", err)
	}
	if l.AccountType != LidoAccount {
		return nil, reverts.Newf(reverts.InvalidAccountData, "account type %d", l.AccountType)
	}
	if l.Version != Version {
		return nil, reverts.Newf(reverts.InvalidAccountData, "record version %d, want %d", l.Version, Version)
	}
	if uint32(l.Validators.Len()) > l.Validators.MaxEntries || uint32(l.Maintainers.Len()) > l.Maintainers.MaxEntries {
		return nil, reverts.Newf(reverts.InvalidAccountData, "registry beyond its capacity")
	}
	return &l, nil
}

// Serialize writes the record into data, zeroing the rest.
func (l *Lido) Serialize(data []byte) error {
	encoded, err := encode(l)
	if err != nil {
		return reverts.Newf(reverts.InvalidAccountData, "encode record: %v", err)
	}
	if len(encoded) > len(data) {
		return reverts.Newf(reverts.InvalidAccountData, "record needs %d bytes, account has %d", len(encoded), len(data))
	}
	n := copy(data, encoded)
	clear(data[n:])
	return nil
}

// Load reads the record from an instance account owned by programID.
func Load(programID solana.PublicKey, info *accounts.Info) (*Lido, error) {
	if !info.Owner.Equals(programID) {
		return nil, reverts.Newf(reverts.InvalidOwner, "instance %s is owned by %s", info.Key, info.Owner)
	}
	return Deserialize(info.Data)
}

func (l *Lido) address(programID, instance solana.PublicKey, seed []byte, bump uint8, info *accounts.Info) error {
	want, err := pda.Create(programID, instance, seed, bump)
	if err != nil {
		return reverts.Newf(reverts.InvalidAccountData, "%s: %v", seed, err)
	}
	if !info.Key.Equals(want) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is %s, want %s", seed, info.Key, want)
	}
	return nil
}

// CheckReserve verifies that info is the reserve of the instance.
func (l *Lido) CheckReserve(programID, instance solana.PublicKey, info *accounts.Info) error {
	return l.address(programID, instance, pda.ReserveAccount, l.ReserveBump, info)
}

// CheckMintAuthority verifies that info is the stSOL mint authority of the instance.
func (l *Lido) CheckMintAuthority(programID, instance solana.PublicKey, info *accounts.Info) error {
	return l.address(programID, instance, pda.MintAuthority, l.MintAuthorityBump, info)
}

// CheckStakeAuthority verifies that info is the stake authority of the instance.
func (l *Lido) CheckStakeAuthority(programID, instance solana.PublicKey, info *accounts.Info) error {
	return l.address(programID, instance, pda.StakeAuthority, l.StakeAuthorityBump, info)
}

// CheckManager verifies that info is the manager and signed.
func (l *Lido) CheckManager(info *accounts.Info) error {
	if !info.Key.Equals(l.Manager) || !info.IsSigner {
		return reverts.Newf(reverts.NotManager, "%s", info.Key)
	}
	return nil
}

// CheckMaintainer verifies that info is a registered maintainer and signed.
func (l *Lido) CheckMaintainer(info *accounts.Info) error {
	if !info.IsSigner || !l.Maintainers.Contains(info.Key) {
		return reverts.Newf(reverts.NotMaintainer, "%s", info.Key)
	}
	return nil
}

// CheckMint verifies that info is the stSOL mint of the instance.
func (l *Lido) CheckMint(info *accounts.Info) error {
	if !info.Key.Equals(l.StSolMint) {
		return reverts.Newf(reverts.InvalidMint, "%s is not %s", info.Key, l.StSolMint)
	}
	return nil
}

// CheckFeeRecipients verifies the fee accounts against the record.
func (l *Lido) CheckFeeRecipients(insurance, treasury, manager *accounts.Info) error {
	for _, c := range []struct {
		info *accounts.Info
		want solana.PublicKey
	}{
		{insurance, l.FeeRecipients.Insurance},
		{treasury, l.FeeRecipients.Treasury},
		{manager, l.FeeRecipients.Manager},
	} {
		if !c.info.Key.Equals(c.want) {
			return reverts.Newf(reverts.InvalidFeeRecipient, "%s is not %s", c.info.Key, c.want)
		}
	}
	return nil
}

// StakeBalance sums the last observed stake balances of all validators.
func (l *Lido) StakeBalance() (token.Lamports, error) {
	var total token.Lamports
	for _, v := range l.Validators.Entries {
		var err error
		if total, err = total.Add(v.StakeAccountsBalance); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// FeeCredit sums the unclaimed validation fees of all validators.
func (l *Lido) FeeCredit() (token.StLamports, error) {
	var total token.StLamports
	for _, v := range l.Validators.Entries {
		var err error
		if total, err = total.Add(v.FeeCredit); err != nil {
			return 0, err
		}
	}
	return total, nil
}
