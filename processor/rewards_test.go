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

	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/test/datagen"
	"github.com/lido-solana/solido/token"
)

func TestUpdateValidatorBalance_Reward(t *testing.T) {
	s := newSolido(t)
	vote, fee := s.Validators[0].Vote, s.Validators[0].Fee
	depositor(t, s, 20*sol, 10*sol)
	require.NoError(t, s.StakeDeposit(vote, 5*sol))
	require.NoError(t, s.AdvanceEpoch())

	keys := stakeAccounts(t, s, vote)
	require.NoError(t, s.Ledger.Reward(keys[0], sol))
	require.NoError(t, s.UpdateValidatorBalance(vote))

	// the whole reward, at one to one, is split 1:2:3:4
	assert.Equal(t, token.StLamports(sol/10), stSol(t, s, s.FeeRecipients.Insurance))
	assert.Equal(t, token.StLamports(2*sol/10), stSol(t, s, s.FeeRecipients.Treasury))
	assert.Equal(t, token.StLamports(4*sol/10), stSol(t, s, s.FeeRecipients.Manager))
	assert.Equal(t, token.StLamports(0), stSol(t, s, fee))

	v := validator(t, s, vote)
	assert.Equal(t, token.StLamports(3*sol/10), v.FeeCredit)
	assert.Equal(t, 6*sol, v.StakeAccountsBalance)
	assert.Equal(t, uint64(1), v.LastUpdateEpoch)
	assert.Equal(t, token.StLamports(10*sol+7*sol/10), supply(t, s))

	// no double minting within an epoch
	require.NoError(t, s.Ledger.Reward(keys[0], sol))
	assertCode(t, reverts.AlreadyUpdated, s.UpdateValidatorBalance(vote))

	// the unclaimed validation fee counts in the supply of the next rate
	require.NoError(t, s.AdvanceEpoch())
	rate := lido(t, s).ExchangeRate
	assert.Equal(t, 11*sol, rate.SolBalance)
	assert.Equal(t, token.StLamports(11*sol), rate.StSolSupply)

	ix, err := s.Client.ClaimValidatorFees(vote)
	require.NoError(t, s.Run(ix, err))
	assert.Equal(t, token.StLamports(3*sol/10), stSol(t, s, fee))
	assert.Equal(t, token.StLamports(0), validator(t, s, vote).FeeCredit)
	// claiming nothing is allowed
	ix, err = s.Client.ClaimValidatorFees(vote)
	require.NoError(t, s.Run(ix, err))
	assert.Equal(t, token.StLamports(3*sol/10), stSol(t, s, fee))
}

func TestUpdateValidatorBalance_SlashInFirstEpoch(t *testing.T) {
	s := newSolido(t)
	vote := s.Validators[0].Vote
	assert.Equal(t, uint64(state.NeverUpdated), validator(t, s, vote).LastUpdateEpoch)

	depositor(t, s, 20*sol, 10*sol)
	require.NoError(t, s.StakeDeposit(vote, 5*sol))
	require.Equal(t, uint64(0), s.Ledger.Clock().Epoch)

	keys := stakeAccounts(t, s, vote)
	require.NoError(t, s.Ledger.Slash(keys[0], sol))
	require.NoError(t, s.UpdateValidatorBalance(vote))

	v := validator(t, s, vote)
	assert.Equal(t, 4*sol, v.StakeAccountsBalance)
	assert.Equal(t, uint64(0), v.LastUpdateEpoch)
	assertCode(t, reverts.AlreadyUpdated, s.UpdateValidatorBalance(vote))
}

func TestUpdateValidatorBalance_Slash(t *testing.T) {
	s := newSolido(t)
	vote := s.Validators[0].Vote
	depositor(t, s, 20*sol, 10*sol)
	require.NoError(t, s.StakeDeposit(vote, 5*sol))
	require.NoError(t, s.AdvanceEpoch())

	keys := stakeAccounts(t, s, vote)
	require.NoError(t, s.Ledger.Slash(keys[0], sol))
	require.NoError(t, s.UpdateValidatorBalance(vote))

	assert.Equal(t, token.StLamports(10*sol), supply(t, s))
	v := validator(t, s, vote)
	assert.Equal(t, 4*sol, v.StakeAccountsBalance)
	assert.Equal(t, token.StLamports(0), v.FeeCredit)

	require.NoError(t, s.AdvanceEpoch())
	rate := lido(t, s).ExchangeRate
	assert.Equal(t, 9*sol, rate.SolBalance)
	assert.Equal(t, token.StLamports(10*sol), rate.StSolSupply)
}

func TestUpdateValidatorBalance_Rejects(t *testing.T) {
	s := newSolido(t)
	vote := s.Validators[0].Vote
	addrs := s.Client.Addresses()
	depositor(t, s, 20*sol, 10*sol)
	require.NoError(t, s.StakeDeposit(vote, 2*sol))
	require.NoError(t, s.StakeDeposit(vote, 2*sol))

	require.NoError(t, s.UpdateValidatorBalance(vote))
	assertCode(t, reverts.AlreadyUpdated, s.UpdateValidatorBalance(vote))

	require.NoError(t, s.Ledger.AdvanceEpoch())
	assertCode(t, reverts.StaleRate, s.UpdateValidatorBalance(vote))
	require.NoError(t, s.UpdateExchangeRate())

	meta := instruction.UpdateValidatorBalanceMeta{
		Lido:                 s.Instance,
		ValidatorVoteAccount: vote,
		StSolMint:            s.Mint,
		MintAuthority:        addrs.MintAuthority,
		InsuranceAccount:     s.FeeRecipients.Insurance,
		TreasuryAccount:      s.FeeRecipients.Treasury,
		ManagerFeeAccount:    s.FeeRecipients.Manager,
		StakeAccounts:        stakeAccounts(t, s, vote),
	}
	run := func(m instruction.UpdateValidatorBalanceMeta) error {
		ix, err := instruction.NewUpdateValidatorBalance(s.ProgramID, m)
		return s.Run(ix, err)
	}

	// hiding a stake account would hide a slash
	short := meta
	short.StakeAccounts = meta.StakeAccounts[:1]
	assertCode(t, reverts.AuthorizationMismatch, run(short))

	swapped := meta
	swapped.StakeAccounts = []solana.PublicKey{meta.StakeAccounts[1], meta.StakeAccounts[0]}
	assertCode(t, reverts.AuthorizationMismatch, run(swapped))

	wrongFee := meta
	wrongFee.TreasuryAccount = datagen.NamedKey("treasury of someone else")
	assertCode(t, reverts.InvalidFeeRecipient, run(wrongFee))

	require.NoError(t, run(meta))
}
