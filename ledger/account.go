// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/native/system"
	"github.com/lido-solana/solido/token"
)

// NativeLoaderID owns the accounts of the programs the ledger hosts.
var NativeLoaderID = solana.MustPublicKeyFromBase58("NativeLoader1111111111111111111111111111111")

// Account is the committed state of an address. An address that was never
// funded, or whose balance dropped to zero, reads as an empty system account.
type Account struct {
	Lamports   token.Lamports
	Data       []byte
	Owner      solana.PublicKey
	Executable bool
}

func emptyAccount() *Account {
	return &Account{Owner: system.ProgramID}
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	cpy.Data = bytes.Clone(a.Data)
	return &cpy
}

// info exposes the account to a program under the given privileges.
func (a *Account) info(key solana.PublicKey, signer, writable bool) *accounts.Info {
	return &accounts.Info{
		Key:        key,
		IsSigner:   signer,
		IsWritable: writable,
		Lamports:   a.Lamports,
		Data:       bytes.Clone(a.Data),
		Owner:      a.Owner,
		Executable: a.Executable,
	}
}

func fromInfo(info *accounts.Info) *Account {
	return &Account{
		Lamports:   info.Lamports,
		Data:       bytes.Clone(info.Data),
		Owner:      info.Owner,
		Executable: info.Executable,
	}
}

func encodeAccount(a *Account) ([]byte, error) {
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return nil, errors.Wrap(err, "encode account")
	}
	return snappy.Encode(nil, data), nil
}

func decodeAccount(enc []byte) (*Account, error) {
	data, err := snappy.Decode(nil, enc)
	if err != nil {
		return nil, errors.Wrap(err, "decompress account")
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return &a, nil
}
