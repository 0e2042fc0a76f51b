// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pda derives the program-owned addresses of a Solido instance. An
// address is a pure function of the program id, the instance address and a
// named seed; it is recomputed wherever it is needed instead of being stored.
package pda

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/cache"
)

// Named seeds.
var (
	// ReserveAccount holds deposited SOL until it is staked.
	ReserveAccount = []byte("reserve_account")
	// MintAuthority is the mint authority of the stSOL mint.
	MintAuthority = []byte("mint_authority")
	// StakeAuthority is staker and withdrawer of every stake account.
	StakeAuthority = []byte("stake_authority")
	// ValidatorStakeAccount prefixes the per-validator stake account seeds.
	ValidatorStakeAccount = []byte("validator_stake_account")
)

// Address is a program-derived address with the bump seed that pushed it off
// the curve.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

var derived, _ = cache.NewLRU[string, Address](4096)

func find(programID solana.PublicKey, seeds ...[]byte) (Address, error) {
	key := string(programID[:])
	for _, s := range seeds {
		key += string(s)
	}
	return derived.GetOrLoad(key, func(string) (Address, error) {
		addr, bump, err := solana.FindProgramAddress(seeds, programID)
		if err != nil {
			return Address{}, errors.Wrap(err, "find program address")
		}
		return Address{Key: addr, Bump: bump}, nil
	})
}

// Find derives the address for one of the named seeds of an instance.
func Find(programID, instance solana.PublicKey, seed []byte) (Address, error) {
	return find(programID, instance[:], seed)
}

// FindStakeAccount derives the stake account with the given seed of a validator.
func FindStakeAccount(programID, instance, voteAccount solana.PublicKey, seed uint64) (Address, error) {
	return find(programID, StakeAccountSeeds(instance, voteAccount, seed)...)
}

// StakeAccountSeeds returns the seeds of a validator stake account, without bump.
func StakeAccountSeeds(instance, voteAccount solana.PublicKey, seed uint64) [][]byte {
	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], seed)
	return [][]byte{instance[:], voteAccount[:], ValidatorStakeAccount, le[:]}
}

// SignerSeeds returns the full seeds, bump included, that let the program sign
// for a named address.
func SignerSeeds(instance solana.PublicKey, seed []byte, bump uint8) [][]byte {
	return [][]byte{instance[:], seed, {bump}}
}

// Create re-derives a named address from a stored bump seed. It is cheaper than
// Find and fails if the bump does not produce a valid address.
func Create(programID, instance solana.PublicKey, seed []byte, bump uint8) (solana.PublicKey, error) {
	addr, err := solana.CreateProgramAddress(SignerSeeds(instance, seed, bump), programID)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "create program address")
	}
	return addr, nil
}
