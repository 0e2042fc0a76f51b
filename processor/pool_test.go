// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package processor_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/test/datagen"
	"github.com/lido-solana/solido/token"
)

func TestInitialize(t *testing.T) {
	s := newSolido(t)
	l := lido(t, s)

	assert.Equal(t, s.Manager, l.Manager)
	assert.Equal(t, s.Mint, l.StSolMint)
	assert.Equal(t, s.FeeRecipients, l.FeeRecipients)
	assert.False(t, l.ExchangeRate.IsDefined())
	assert.Equal(t, uint64(0), l.ExchangeRate.ComputedInEpoch)
	assert.Equal(t, 1, l.Maintainers.Len())
	assert.Equal(t, 1, l.Validators.Len())
	assert.Equal(t, s.Ledger.Rent().MinimumBalance(0), balance(t, s, s.Client.Addresses().Reserve))

	addrs := s.Client.Addresses()
	ix, err := instruction.NewInitialize(s.ProgramID, instruction.InitializeMeta{
		Lido:              s.Instance,
		Manager:           s.Manager,
		StSolMint:         s.Mint,
		InsuranceAccount:  s.FeeRecipients.Insurance,
		TreasuryAccount:   s.FeeRecipients.Treasury,
		ManagerFeeAccount: s.FeeRecipients.Manager,
		Reserve:           addrs.Reserve,
	}, instruction.Initialize{RewardDistribution: l.RewardDistribution, MaxValidators: 9, MaxMaintainers: 3})
	require.NoError(t, err)
	assertCode(t, reverts.AlreadyInitialized, s.Run(ix, nil))
}

func TestDepositWithdraw(t *testing.T) {
	s := newSolido(t)
	reserve := s.Client.Addresses().Reserve
	rentMin := s.Ledger.Rent().MinimumBalance(0)

	user, account := depositor(t, s, 100*sol, 10*sol)
	assert.Equal(t, 90*sol, balance(t, s, user))
	assert.Equal(t, token.StLamports(10*sol), stSol(t, s, account))
	assert.Equal(t, rentMin+10*sol, balance(t, s, reserve))

	l := lido(t, s)
	assert.Equal(t, 10*sol, l.ExchangeRate.SolBalance)
	assert.Equal(t, token.StLamports(10*sol), l.ExchangeRate.StSolSupply)

	recipient := datagen.NamedKey("withdraw recipient")
	require.NoError(t, s.Withdraw(user, account, recipient, token.StLamports(4*sol)))
	assert.Equal(t, 4*sol, balance(t, s, recipient))
	assert.Equal(t, token.StLamports(6*sol), stSol(t, s, account))
	assert.Equal(t, token.StLamports(6*sol), supply(t, s))
	assert.Equal(t, rentMin+6*sol, balance(t, s, reserve))
}

func TestDeposit_Rejects(t *testing.T) {
	s := newSolido(t)
	user, account, err := s.NewUser(10 * sol)
	require.NoError(t, err)

	assertCode(t, reverts.InvalidAmount, s.Deposit(user, account, 0))

	// the user cannot pay
	require.Error(t, s.Deposit(user, account, 11*sol))
	assert.Equal(t, 10*sol, balance(t, s, user))

	// the recipient must be a token account of the stSOL mint
	assert.Error(t, s.Deposit(user, datagen.NamedKey("not a token account"), sol))

	// a substituted reserve
	ix, err := instruction.NewDeposit(s.ProgramID, instruction.DepositMeta{
		Lido:          s.Instance,
		User:          user,
		Recipient:     account,
		StSolMint:     s.Mint,
		Reserve:       datagen.NamedKey("fake reserve"),
		MintAuthority: s.Client.Addresses().MintAuthority,
	}, instruction.Deposit{Amount: sol})
	require.NoError(t, err)
	assertCode(t, reverts.AuthorizationMismatch, s.Run(ix, nil, user))

	require.NoError(t, s.Ledger.AdvanceEpoch())
	assertCode(t, reverts.StaleRate, s.Deposit(user, account, sol))
	require.NoError(t, s.UpdateExchangeRate())
	require.NoError(t, s.Deposit(user, account, sol))
}

func TestWithdraw_Rejects(t *testing.T) {
	s := newSolido(t)
	user, account := depositor(t, s, 10*sol, 5*sol)
	recipient := datagen.NamedKey("recipient")

	assertCode(t, reverts.InvalidAmount, s.Withdraw(user, account, recipient, 0))
	// more than the account holds
	assert.Error(t, s.Withdraw(user, account, recipient, token.StLamports(6*sol)))
	// the recipient may not be the signing wallet, as it is already listed
	assertCode(t, reverts.AuthorizationMismatch, s.Withdraw(user, account, user, token.StLamports(sol)))

	// only the owner of the stSOL may burn it
	thief := datagen.NamedKey("thief")
	assert.Error(t, s.Withdraw(thief, account, recipient, token.StLamports(sol)))
	assert.Equal(t, token.StLamports(5*sol), stSol(t, s, account))

	// stake deposits drain the reserve
	require.NoError(t, s.StakeDeposit(s.Validators[0].Vote, 4*sol))
	assertCode(t, reverts.InsufficientFunds, s.Withdraw(user, account, recipient, token.StLamports(2*sol)))

	require.NoError(t, s.Ledger.AdvanceEpoch())
	assertCode(t, reverts.StaleRate, s.Withdraw(user, account, recipient, token.StLamports(sol)))
}

func TestUpdateExchangeRate(t *testing.T) {
	s := newSolido(t)
	assertCode(t, reverts.AlreadyUpdated, s.UpdateExchangeRate())

	_, _ = depositor(t, s, 10*sol, 4*sol)
	// a donation to the reserve raises the value of stSOL in the next epoch
	require.NoError(t, s.Ledger.Airdrop(s.Client.Addresses().Reserve, 2*sol))

	require.NoError(t, s.Ledger.AdvanceEpoch())
	require.NoError(t, s.UpdateExchangeRate())
	assertCode(t, reverts.AlreadyUpdated, s.UpdateExchangeRate())

	rate := lido(t, s).ExchangeRate
	assert.Equal(t, uint64(1), rate.ComputedInEpoch)
	assert.Equal(t, 6*sol, rate.SolBalance)
	assert.Equal(t, token.StLamports(4*sol), rate.StSolSupply)

	user, account := depositor(t, s, 10*sol, 3*sol)
	assert.Equal(t, token.StLamports(2*sol), stSol(t, s, account))

	recipient := datagen.NamedKey("recipient")
	require.NoError(t, s.Withdraw(user, account, recipient, token.StLamports(sol)))
	assert.Equal(t, 3*sol/2, balance(t, s, recipient))
}

type poolOp struct {
	Withdraw bool
	User     uint8
	Amount   uint32
}

// TestPool_Conservation checks, over random deposits and withdrawals, that
// no lamport is created or lost and that the outstanding stSOL is always
// covered by the reserve at the current rate.
func TestPool_Conservation(t *testing.T) {
	s := newSolido(t)
	reserve := s.Client.Addresses().Reserve
	rentMin := s.Ledger.Rent().MinimumBalance(0)

	const users = 3
	var (
		wallets  [users]solana.PublicKey
		accounts [users]solana.PublicKey
		err      error
	)
	for i := range wallets {
		wallets[i], accounts[i], err = s.NewUser(1000 * sol)
		require.NoError(t, err)
	}
	recipient := datagen.NamedKey("recipient")
	total := func() token.Lamports {
		sum := balance(t, s, reserve) + balance(t, s, recipient)
		for _, w := range wallets {
			sum += balance(t, s, w)
		}
		return sum
	}

	require.NoError(t, s.Deposit(wallets[0], accounts[0], 7*sol))
	require.NoError(t, s.Ledger.Airdrop(reserve, 3*sol+12345))
	require.NoError(t, s.AdvanceEpoch())
	before := total()

	var ops []poolOp
	fuzz.New().NilChance(0).NumElements(20, 40).Fuzz(&ops)
	for _, op := range ops {
		i := int(op.User) % users
		if op.Withdraw {
			held := stSol(t, s, accounts[i])
			err = s.Withdraw(wallets[i], accounts[i], recipient, min(held, token.StLamports(op.Amount)))
		} else {
			err = s.Deposit(wallets[i], accounts[i], token.Lamports(op.Amount))
		}
		if err != nil {
			// dust that is worth nothing on the other side is rejected
			require.Equal(t, reverts.InvalidAmount, reverts.CodeOf(err), err.Error())
		}

		assert.Equal(t, before, total())
		var held token.StLamports
		for _, a := range accounts {
			held += stSol(t, s, a)
		}
		assert.Equal(t, supply(t, s), held)

		rate := lido(t, s).ExchangeRate
		available := balance(t, s, reserve) - rentMin
		owed := new(uint256.Int).Mul(uint256.NewInt(uint64(supply(t, s))), uint256.NewInt(uint64(rate.SolBalance)))
		covered := new(uint256.Int).Mul(uint256.NewInt(uint64(available)), uint256.NewInt(uint64(rate.StSolSupply)))
		assert.True(t, owed.Cmp(covered) <= 0, "supply %s not covered by %s at %s", supply(t, s), available, rate)
	}
}
