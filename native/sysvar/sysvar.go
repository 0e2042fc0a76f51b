// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sysvar holds the layouts of the cluster state accounts programs read:
// the clock and the rent schedule.
package sysvar

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/token"
)

var (
	ClockID        = solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111")
	RentID         = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
	StakeHistoryID = solana.MustPublicKeyFromBase58("SysvarStakeHistory1111111111111111111111111")
	// ProgramID owns the sysvar accounts.
	ProgramID = solana.MustPublicKeyFromBase58("Sysvar1111111111111111111111111111111111111")
)

// Clock is the cluster time at the slot being processed.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

// Rent is the rent schedule. An account is exempt from rent when it holds
// at least MinimumBalance for its data length.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

// AccountStorageOverhead is the per-account size rent charges on top of data.
const AccountStorageOverhead = 128

// DefaultRent is the schedule of mainnet.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2.0,
	BurnPercent:         50,
}

// MinimumBalance returns the smallest rent-exempt balance of an account with
// dataLen bytes of data.
func (r Rent) MinimumBalance(dataLen int) token.Lamports {
	bytesYears := float64(AccountStorageOverhead+dataLen) * float64(r.LamportsPerByteYear)
	return token.Lamports(bytesYears * r.ExemptionThreshold)
}

// IsExempt reports whether balance covers the rent of dataLen bytes.
func (r Rent) IsExempt(balance token.Lamports, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}

func encode(v any) []byte {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(v); err != nil {
		panic(err) // fixed-size structs of plain integers always encode
	}
	return buf.Bytes()
}

func (c *Clock) Encode() []byte { return encode(c) }
func (r *Rent) Encode() []byte  { return encode(r) }

// ReadClock decodes the clock from its sysvar account.
func ReadClock(info *accounts.Info) (*Clock, error) {
	if !info.Key.Equals(ClockID) {
		return nil, reverts.Newf(reverts.AuthorizationMismatch, "%s is not the clock sysvar", info.Key)
	}
	var c Clock
	if err := bin.NewBorshDecoder(info.Data).Decode(&c); err != nil {
		return nil, reverts.Newf(reverts.InvalidAccountData, "clock: %v", err)
	}
	return &c, nil
}

// ReadRent decodes the rent schedule from its sysvar account.
func ReadRent(info *accounts.Info) (*Rent, error) {
	if !info.Key.Equals(RentID) {
		return nil, reverts.Newf(reverts.AuthorizationMismatch, "%s is not the rent sysvar", info.Key)
	}
	var r Rent
	if err := bin.NewBorshDecoder(info.Data).Decode(&r); err != nil {
		return nil, reverts.Newf(reverts.InvalidAccountData, "rent: %v", err)
	}
	return &r, nil
}
