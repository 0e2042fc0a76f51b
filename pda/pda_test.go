// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pda

import (
	"crypto/sha256"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(name string) solana.PublicKey {
	return solana.PublicKeyFromBytes(func() []byte { h := sha256.Sum256([]byte(name)); return h[:] }())
}

func TestFind_Deterministic(t *testing.T) {
	program, instance := key("program"), key("instance")

	a, err := Find(program, instance, ReserveAccount)
	require.NoError(t, err)
	b, err := Find(program, instance, ReserveAccount)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	m, err := Find(program, instance, MintAuthority)
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, m.Key)

	other, err := Find(program, key("other"), ReserveAccount)
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, other.Key)
}

func TestCreate_MatchesFind(t *testing.T) {
	program, instance := key("program"), key("instance")

	found, err := Find(program, instance, StakeAuthority)
	require.NoError(t, err)

	created, err := Create(program, instance, StakeAuthority, found.Bump)
	require.NoError(t, err)
	assert.Equal(t, found.Key, created)
}

func TestFindStakeAccount_SeedsDiffer(t *testing.T) {
	program, instance, vote := key("program"), key("instance"), key("vote")

	s0, err := FindStakeAccount(program, instance, vote, 0)
	require.NoError(t, err)
	s1, err := FindStakeAccount(program, instance, vote, 1)
	require.NoError(t, err)
	assert.NotEqual(t, s0.Key, s1.Key)

	seeds := append(StakeAccountSeeds(instance, vote, 1), []byte{s1.Bump})
	addr, err := solana.CreateProgramAddress(seeds, program)
	require.NoError(t, err)
	assert.Equal(t, s1.Key, addr)
}
