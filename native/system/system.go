// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package system is the owner of plain wallets: it creates accounts and moves
// lamports between them.
package system

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
	"github.com/lido-solana/solido/token"
)

var ProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

var logger = log.WithContext("pkg", "system")

const (
	createAccountIx uint32 = 0
	transferIx      uint32 = 2
)

type CreateAccountArgs struct {
	Lamports token.Lamports
	Space    uint64
	Owner    solana.PublicKey
}

type TransferArgs struct {
	Lamports token.Lamports
}

var (
	createAccountContract = accounts.MustContract("system.CreateAccount",
		accounts.Role{Name: "from", Signer: true, Writable: true},
		accounts.Role{Name: "new", Signer: true, Writable: true},
	)
	transferContract = accounts.MustContract("system.Transfer",
		accounts.Role{Name: "from", Signer: true, Writable: true},
		accounts.Role{Name: "to", Writable: true},
	)
)

func encode(kind uint32, args any) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, kind)
	if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// CreateAccount funds a new account from a wallet and hands it to owner.
func CreateAccount(from, newAccount solana.PublicKey, args CreateAccountArgs) *solana.GenericInstruction {
	metas, err := createAccountContract.Metas(accounts.Keys{"from": from, "new": newAccount})
	if err != nil {
		panic(err)
	}
	return solana.NewInstruction(ProgramID, metas, encode(createAccountIx, args))
}

// Transfer moves lamports between wallets.
func Transfer(from, to solana.PublicKey, amount token.Lamports) *solana.GenericInstruction {
	metas, err := transferContract.Metas(accounts.Keys{"from": from, "to": to})
	if err != nil {
		panic(err)
	}
	return solana.NewInstruction(ProgramID, metas, encode(transferIx, TransferArgs{Lamports: amount}))
}

// Program is the system program.
type Program struct{}

func (Program) ID() solana.PublicKey { return ProgramID }

func (Program) Process(_ runtime.Context, infos []*accounts.Info, data []byte) error {
	if len(data) < 4 {
		return reverts.ErrInvalidInstruction
	}
	kind, payload := binary.LittleEndian.Uint32(data), data[4:]
	switch kind {
	case createAccountIx:
		var args CreateAccountArgs
		if err := bin.NewBorshDecoder(payload).Decode(&args); err != nil {
			return reverts.Newf(reverts.InvalidInstruction, "create account: %v", err)
		}
		b, err := createAccountContract.Parse(infos)
		if err != nil {
			return err
		}
		return createAccount(b.Get("from"), b.Get("new"), args)
	case transferIx:
		var args TransferArgs
		if err := bin.NewBorshDecoder(payload).Decode(&args); err != nil {
			return reverts.Newf(reverts.InvalidInstruction, "transfer: %v", err)
		}
		b, err := transferContract.Parse(infos)
		if err != nil {
			return err
		}
		return transfer(b.Get("from"), b.Get("to"), args.Lamports)
	default:
		return reverts.Newf(reverts.InvalidInstruction, "system instruction %d", kind)
	}
}

func createAccount(from, newAccount *accounts.Info, args CreateAccountArgs) error {
	if newAccount.Lamports != 0 || len(newAccount.Data) != 0 || !newAccount.Owner.Equals(ProgramID) {
		return reverts.Newf(reverts.AlreadyInitialized, "account %s already in use", newAccount.Key)
	}
	if err := transfer(from, newAccount, args.Lamports); err != nil {
		return err
	}
	newAccount.Data = make([]byte, args.Space)
	newAccount.Owner = args.Owner
	logger.Debug("created account", "address", newAccount.Key, "owner", args.Owner, "space", args.Space)
	return nil
}

func transfer(from, to *accounts.Info, amount token.Lamports) error {
	if len(from.Data) != 0 || !from.Owner.Equals(ProgramID) {
		return reverts.Newf(reverts.InvalidOwner, "transfer from %s, which carries data", from.Key)
	}
	rest, err := from.Lamports.Sub(amount)
	if err != nil {
		return reverts.Newf(reverts.InsufficientFunds, "%s has %s, needs %s", from.Key, from.Lamports, amount)
	}
	credited, err := to.Lamports.Add(amount)
	if err != nil {
		return err
	}
	from.Lamports, to.Lamports = rest, credited
	return nil
}
