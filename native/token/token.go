// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the fungible token program: mints, token accounts, and the
// instructions that move supply between them.
package token

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/reverts"
)

var ProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// Mint describes a token.
type Mint struct {
	IsInitialized bool
	Decimals      uint8
	MintAuthority solana.PublicKey
	Supply        uint64
}

// Account holds a balance of one mint on behalf of an owner.
type Account struct {
	IsInitialized bool
	Mint          solana.PublicKey
	Owner         solana.PublicKey
	Amount        uint64
}

var (
	MintSize    = len(encode(&Mint{}))
	AccountSize = len(encode(&Account{}))
)

func encode(v any) []byte {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(v); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (m *Mint) Encode() []byte    { return encode(m) }
func (a *Account) Encode() []byte { return encode(a) }

// ReadMint decodes an initialized mint owned by the token program.
func ReadMint(info *accounts.Info) (*Mint, error) {
	if !info.Owner.Equals(ProgramID) {
		return nil, reverts.Newf(reverts.InvalidOwner, "mint %s is owned by %s", info.Key, info.Owner)
	}
	var m Mint
	if err := bin.NewBorshDecoder(info.Data).Decode(&m); err != nil {
		return nil, reverts.Newf(reverts.InvalidAccountData, "mint %s: %v", info.Key, err)
	}
	if !m.IsInitialized {
		return nil, reverts.Newf(reverts.NotInitialized, "mint %s", info.Key)
	}
	return &m, nil
}

// ReadAccount decodes an initialized token account owned by the token program.
func ReadAccount(info *accounts.Info) (*Account, error) {
	if !info.Owner.Equals(ProgramID) {
		return nil, reverts.Newf(reverts.InvalidOwner, "token account %s is owned by %s", info.Key, info.Owner)
	}
	var a Account
	if err := bin.NewBorshDecoder(info.Data).Decode(&a); err != nil {
		return nil, reverts.Newf(reverts.InvalidAccountData, "token account %s: %v", info.Key, err)
	}
	if !a.IsInitialized {
		return nil, reverts.Newf(reverts.NotInitialized, "token account %s", info.Key)
	}
	return &a, nil
}

func store(info *accounts.Info, v any) error {
	data := encode(v)
	if len(info.Data) < len(data) {
		return reverts.Newf(reverts.InvalidAccountData, "%s has %d bytes, needs %d", info.Key, len(info.Data), len(data))
	}
	copy(info.Data, data)
	return nil
}
