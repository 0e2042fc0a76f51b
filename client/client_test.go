// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/test/datagen"
	"github.com/lido-solana/solido/test/testsolido"
	"github.com/lido-solana/solido/token"
)

const sol = testsolido.Sol

func TestDeriveAddresses(t *testing.T) {
	program, instance := datagen.NamedKey("program"), datagen.NamedKey("instance")
	addrs, err := client.DeriveAddresses(program, instance)
	require.NoError(t, err)

	reserve, err := pda.Find(program, instance, pda.ReserveAccount)
	require.NoError(t, err)
	assert.Equal(t, instance, addrs.Instance)
	assert.Equal(t, reserve.Key, addrs.Reserve)
	assert.NotEqual(t, addrs.Reserve, addrs.MintAuthority)
	assert.NotEqual(t, addrs.MintAuthority, addrs.StakeAuthority)

	other, err := client.DeriveAddresses(program, datagen.NamedKey("other instance"))
	require.NoError(t, err)
	assert.NotEqual(t, addrs.Reserve, other.Reserve)
}

func TestClient_Reads(t *testing.T) {
	s, err := testsolido.New(testsolido.DefaultOptions())
	require.NoError(t, err)
	c := s.Client

	user, account, err := s.NewUser(5 * sol)
	require.NoError(t, err)
	require.NoError(t, s.Deposit(user, account, 2*sol))

	held, err := c.TokenBalance(account)
	require.NoError(t, err)
	assert.Equal(t, token.StLamports(2*sol), held)
	supply, err := c.Supply()
	require.NoError(t, err)
	assert.Equal(t, held, supply)
	available, err := c.AvailableReserve()
	require.NoError(t, err)
	assert.Equal(t, 2*sol, available)

	_, err = c.TokenBalance(user)
	assert.Error(t, err)

	v, err := c.Validator(s.Validators[0].Vote)
	require.NoError(t, err)
	keys, err := c.StakeAccounts(v)
	require.NoError(t, err)
	assert.Empty(t, keys)

	other, err := client.New(s.Ledger, datagen.NamedKey("another program"), s.Instance)
	require.NoError(t, err)
	_, err = other.Lido()
	assert.Error(t, err, "the instance belongs to a different program")
}

func TestClient_NextTask(t *testing.T) {
	s, err := testsolido.New(testsolido.DefaultOptions())
	require.NoError(t, err)
	minStake := s.Program.Config().MinimumStakeDeposit
	vote := s.Validators[0].Vote

	validator := func() *state.Validator {
		v, err := s.Client.Validator(vote)
		require.NoError(t, err)
		return v
	}
	next := func() *client.Task {
		task, err := s.Client.NextTask(s.Maintainer, minStake)
		require.NoError(t, err)
		return task
	}
	perform := func(want string) {
		task := next()
		require.NotNil(t, task, want)
		assert.Contains(t, task.Description, want)
		require.NoError(t, s.Run(task.Instruction, nil, s.Maintainer))
	}

	assert.Nil(t, next())

	user, account, err := s.NewUser(20 * sol)
	require.NoError(t, err)
	require.NoError(t, s.Deposit(user, account, 10*sol))
	perform("stake")
	assert.Nil(t, next())
	assert.Equal(t, 10*sol, validator().StakeAccountsBalance)

	require.NoError(t, s.Deposit(user, account, 3*sol))
	perform("stake")
	assert.Equal(t, uint64(2), validator().StakeSeeds.Len())
	assert.Nil(t, next(), "stake activated this epoch is merged in the next one")

	require.NoError(t, s.Ledger.AdvanceEpoch())
	perform("update exchange rate")
	perform("update balance")
	perform("merge stake")
	assert.Nil(t, next())
	assert.Equal(t, uint64(1), validator().StakeSeeds.Len())

	keys, err := s.Client.StakeAccounts(validator())
	require.NoError(t, err)
	require.NoError(t, s.Ledger.Reward(keys[0], sol))
	require.NoError(t, s.Ledger.AdvanceEpoch())
	perform("update exchange rate")
	perform("update balance")
	assert.Nil(t, next())

	_, err = s.Client.MergeStake(vote)
	assert.Error(t, err)
}
