// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/test/testsolido"
	"github.com/lido-solana/solido/token"
)

const sol = testsolido.Sol

func newSolido(t *testing.T, mods ...func(*testsolido.Options)) *testsolido.Solido {
	t.Helper()
	opts := testsolido.DefaultOptions()
	for _, mod := range mods {
		mod(&opts)
	}
	s, err := testsolido.New(opts)
	require.NoError(t, err)
	return s
}

func assertCode(t *testing.T, want reverts.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, reverts.CodeOf(err), err.Error())
}

func lido(t *testing.T, s *testsolido.Solido) *state.Lido {
	t.Helper()
	l, err := s.Lido()
	require.NoError(t, err)
	return l
}

func validator(t *testing.T, s *testsolido.Solido, vote solana.PublicKey) *state.Validator {
	t.Helper()
	v, err := s.Client.Validator(vote)
	require.NoError(t, err)
	return v
}

func balance(t *testing.T, s *testsolido.Solido, key solana.PublicKey) token.Lamports {
	t.Helper()
	b, err := s.Client.Balance(key)
	require.NoError(t, err)
	return b
}

func stSol(t *testing.T, s *testsolido.Solido, key solana.PublicKey) token.StLamports {
	t.Helper()
	b, err := s.Client.TokenBalance(key)
	require.NoError(t, err)
	return b
}

func supply(t *testing.T, s *testsolido.Solido) token.StLamports {
	t.Helper()
	b, err := s.Client.Supply()
	require.NoError(t, err)
	return b
}

func stakeAccounts(t *testing.T, s *testsolido.Solido, vote solana.PublicKey) []solana.PublicKey {
	t.Helper()
	keys, err := s.Client.StakeAccounts(validator(t, s, vote))
	require.NoError(t, err)
	return keys
}

// depositor creates a user holding lamports and deposits amount of it.
func depositor(t *testing.T, s *testsolido.Solido, lamports, amount token.Lamports) (wallet, account solana.PublicKey) {
	t.Helper()
	wallet, account, err := s.NewUser(lamports)
	require.NoError(t, err)
	require.NoError(t, s.Deposit(wallet, account, amount))
	return wallet, account
}
