// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token_test

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/lvldb"
	"github.com/lido-solana/solido/native/system"
	"github.com/lido-solana/solido/native/token"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/test/datagen"
)

type fixture struct {
	t      *testing.T
	l      *ledger.Ledger
	payer  solana.PublicKey
	mint   solana.PublicKey
	minter solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	l, err := ledger.New(db, ledger.DefaultOptions())
	require.NoError(t, err)

	f := &fixture{t: t, l: l, payer: datagen.NamedKey("payer"), mint: datagen.NamedKey("mint"), minter: datagen.NamedKey("minter")}
	require.NoError(t, l.Airdrop(f.payer, 10_000_000_000))
	require.NoError(t, f.run([]solana.PublicKey{f.payer, f.mint},
		f.create(f.mint, token.MintSize),
		token.InitializeMint(f.mint, f.minter, 9)))
	return f
}

func (f *fixture) run(signers []solana.PublicKey, ixs ...solana.Instruction) error {
	return f.l.Execute(ledger.NewTransaction(signers, ixs...))
}

func (f *fixture) create(key solana.PublicKey, size int) solana.Instruction {
	return system.CreateAccount(f.payer, key, system.CreateAccountArgs{
		Lamports: f.l.Rent().MinimumBalance(size),
		Space:    uint64(size),
		Owner:    token.ProgramID,
	})
}

func (f *fixture) newAccount(name string, mint, owner solana.PublicKey) solana.PublicKey {
	key := datagen.NamedKey(name)
	require.NoError(f.t, f.run([]solana.PublicKey{f.payer, key},
		f.create(key, token.AccountSize),
		token.InitializeAccount(key, mint, owner)))
	return key
}

func (f *fixture) balance(key solana.PublicKey) uint64 {
	a, err := f.l.Account(key)
	require.NoError(f.t, err)
	var acc token.Account
	require.NoError(f.t, bin.NewBorshDecoder(a.Data).Decode(&acc))
	return acc.Amount
}

func (f *fixture) supply() uint64 {
	a, err := f.l.Account(f.mint)
	require.NoError(f.t, err)
	var m token.Mint
	require.NoError(f.t, bin.NewBorshDecoder(a.Data).Decode(&m))
	return m.Supply
}

func TestToken_MintTransferBurn(t *testing.T) {
	f := newFixture(t)
	alice, bob := datagen.NamedKey("alice"), datagen.NamedKey("bob")
	aliceTokens := f.newAccount("alice tokens", f.mint, alice)
	bobTokens := f.newAccount("bob tokens", f.mint, bob)

	require.NoError(t, f.run([]solana.PublicKey{f.minter}, token.MintTo(f.mint, aliceTokens, f.minter, 100)))
	assert.Equal(t, uint64(100), f.balance(aliceTokens))
	assert.Equal(t, uint64(100), f.supply())

	require.NoError(t, f.run([]solana.PublicKey{alice}, token.Transfer(aliceTokens, bobTokens, alice, 40)))
	assert.Equal(t, uint64(60), f.balance(aliceTokens))
	assert.Equal(t, uint64(40), f.balance(bobTokens))

	require.NoError(t, f.run([]solana.PublicKey{bob}, token.Burn(bobTokens, f.mint, bob, 15)))
	assert.Equal(t, uint64(25), f.balance(bobTokens))
	assert.Equal(t, uint64(85), f.supply())
}

func TestToken_Refusals(t *testing.T) {
	f := newFixture(t)
	alice, bob := datagen.NamedKey("alice"), datagen.NamedKey("bob")
	aliceTokens := f.newAccount("alice tokens", f.mint, alice)
	bobTokens := f.newAccount("bob tokens", f.mint, bob)
	require.NoError(t, f.run([]solana.PublicKey{f.minter}, token.MintTo(f.mint, aliceTokens, f.minter, 10)))

	other := datagen.NamedKey("other mint")
	require.NoError(t, f.run([]solana.PublicKey{f.payer, other},
		f.create(other, token.MintSize),
		token.InitializeMint(other, f.minter, 9)))
	otherTokens := f.newAccount("other tokens", other, bob)

	tests := []struct {
		name    string
		signers []solana.PublicKey
		ix      solana.Instruction
		want    reverts.Code
	}{
		{"mint by stranger", []solana.PublicKey{alice}, token.MintTo(f.mint, aliceTokens, alice, 1), reverts.AuthorizationMismatch},
		{"transfer by non-owner", []solana.PublicKey{bob}, token.Transfer(aliceTokens, bobTokens, bob, 1), reverts.AuthorizationMismatch},
		{"overdraw", []solana.PublicKey{alice}, token.Transfer(aliceTokens, bobTokens, alice, 11), reverts.InsufficientFunds},
		{"cross-mint transfer", []solana.PublicKey{alice}, token.Transfer(aliceTokens, otherTokens, alice, 1), reverts.InvalidMint},
		{"burn wrong mint", []solana.PublicKey{alice}, token.Burn(aliceTokens, other, alice, 1), reverts.InvalidMint},
		{"burn too much", []solana.PublicKey{alice}, token.Burn(aliceTokens, f.mint, alice, 11), reverts.InsufficientFunds},
		{"reinitialize mint", nil, token.InitializeMint(f.mint, alice, 9), reverts.AlreadyInitialized},
		{"reinitialize account", nil, token.InitializeAccount(aliceTokens, f.mint, bob), reverts.AlreadyInitialized},
		{"unknown instruction", nil, solana.NewInstruction(token.ProgramID, nil, []byte{42}), reverts.InvalidInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.run(tt.signers, tt.ix)
			require.Error(t, err)
			assert.Equal(t, tt.want, reverts.CodeOf(err))
		})
	}

	assert.Equal(t, uint64(10), f.balance(aliceTokens), "failed instructions leave balances alone")
	assert.Equal(t, uint64(0), f.balance(bobTokens))
	assert.Equal(t, uint64(10), f.supply())
}
