// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"bytes"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/native/sysvar"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
)

var logger = log.WithContext("pkg", "token")

const (
	initializeMintIx    uint8 = 0
	initializeAccountIx uint8 = 1
	transferIx          uint8 = 3
	mintToIx            uint8 = 7
	burnIx              uint8 = 8
)

type InitializeMintArgs struct {
	Decimals      uint8
	MintAuthority solana.PublicKey
}

type AmountArgs struct {
	Amount uint64
}

var (
	rentID = sysvar.RentID

	initializeMintContract = accounts.MustContract("token.InitializeMint",
		accounts.Role{Name: "mint", Writable: true},
		accounts.Role{Name: "rent", Const: &rentID},
	)
	initializeAccountContract = accounts.MustContract("token.InitializeAccount",
		accounts.Role{Name: "account", Writable: true},
		accounts.Role{Name: "mint"},
		accounts.Role{Name: "owner"},
		accounts.Role{Name: "rent", Const: &rentID},
	)
	transferContract = accounts.MustContract("token.Transfer",
		accounts.Role{Name: "source", Writable: true},
		accounts.Role{Name: "destination", Writable: true},
		accounts.Role{Name: "owner", Signer: true},
	)
	mintToContract = accounts.MustContract("token.MintTo",
		accounts.Role{Name: "mint", Writable: true},
		accounts.Role{Name: "destination", Writable: true},
		accounts.Role{Name: "authority", Signer: true},
	)
	burnContract = accounts.MustContract("token.Burn",
		accounts.Role{Name: "account", Writable: true},
		accounts.Role{Name: "mint", Writable: true},
		accounts.Role{Name: "owner", Signer: true},
	)
)

func instruction(c *accounts.Contract, keys accounts.Keys, kind uint8, args any) *solana.GenericInstruction {
	metas, err := c.Metas(keys)
	if err != nil {
		panic(err)
	}
	var buf bytes.Buffer
	buf.WriteByte(kind)
	if args != nil {
		if err := bin.NewBorshEncoder(&buf).Encode(args); err != nil {
			panic(err)
		}
	}
	return solana.NewInstruction(ProgramID, metas, buf.Bytes())
}

func InitializeMint(mint, authority solana.PublicKey, decimals uint8) *solana.GenericInstruction {
	return instruction(initializeMintContract, accounts.Keys{"mint": mint},
		initializeMintIx, InitializeMintArgs{Decimals: decimals, MintAuthority: authority})
}

func InitializeAccount(account, mint, owner solana.PublicKey) *solana.GenericInstruction {
	return instruction(initializeAccountContract, accounts.Keys{"account": account, "mint": mint, "owner": owner},
		initializeAccountIx, nil)
}

func Transfer(source, destination, owner solana.PublicKey, amount uint64) *solana.GenericInstruction {
	return instruction(transferContract, accounts.Keys{"source": source, "destination": destination, "owner": owner},
		transferIx, AmountArgs{Amount: amount})
}

func MintTo(mint, destination, authority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	return instruction(mintToContract, accounts.Keys{"mint": mint, "destination": destination, "authority": authority},
		mintToIx, AmountArgs{Amount: amount})
}

func Burn(account, mint, owner solana.PublicKey, amount uint64) *solana.GenericInstruction {
	return instruction(burnContract, accounts.Keys{"account": account, "mint": mint, "owner": owner},
		burnIx, AmountArgs{Amount: amount})
}

// Program is the token program.
type Program struct{}

func (Program) ID() solana.PublicKey { return ProgramID }

func (Program) Process(_ runtime.Context, infos []*accounts.Info, data []byte) error {
	if len(data) == 0 {
		return reverts.ErrInvalidInstruction
	}
	kind, payload := data[0], data[1:]
	var amount AmountArgs
	switch kind {
	case transferIx, mintToIx, burnIx:
		if err := bin.NewBorshDecoder(payload).Decode(&amount); err != nil {
			return reverts.Newf(reverts.InvalidInstruction, "token instruction %d: %v", kind, err)
		}
	}

	switch kind {
	case initializeMintIx:
		var args InitializeMintArgs
		if err := bin.NewBorshDecoder(payload).Decode(&args); err != nil {
			return reverts.Newf(reverts.InvalidInstruction, "initialize mint: %v", err)
		}
		b, err := initializeMintContract.Parse(infos)
		if err != nil {
			return err
		}
		return initializeMint(b.Get("mint"), b.Get("rent"), args)
	case initializeAccountIx:
		b, err := initializeAccountContract.Parse(infos)
		if err != nil {
			return err
		}
		return initializeAccount(b.Get("account"), b.Get("mint"), b.Get("owner"), b.Get("rent"))
	case transferIx:
		b, err := transferContract.Parse(infos)
		if err != nil {
			return err
		}
		return transfer(b.Get("source"), b.Get("destination"), b.Get("owner"), amount.Amount)
	case mintToIx:
		b, err := mintToContract.Parse(infos)
		if err != nil {
			return err
		}
		return mintTo(b.Get("mint"), b.Get("destination"), b.Get("authority"), amount.Amount)
	case burnIx:
		b, err := burnContract.Parse(infos)
		if err != nil {
			return err
		}
		return burn(b.Get("account"), b.Get("mint"), b.Get("owner"), amount.Amount)
	default:
		return reverts.Newf(reverts.InvalidInstruction, "token instruction %d", kind)
	}
}

func checkFresh(info *accounts.Info, size int, rentInfo *accounts.Info) error {
	if !info.Owner.Equals(ProgramID) {
		return reverts.Newf(reverts.InvalidOwner, "%s is owned by %s", info.Key, info.Owner)
	}
	if len(info.Data) < size {
		return reverts.Newf(reverts.InvalidAccountData, "%s has %d bytes, needs %d", info.Key, len(info.Data), size)
	}
	if len(info.Data) > 0 && info.Data[0] != 0 {
		return reverts.Newf(reverts.AlreadyInitialized, "%s", info.Key)
	}
	rent, err := sysvar.ReadRent(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, len(info.Data)) {
		return reverts.Newf(reverts.InsufficientFunds, "%s is not rent exempt", info.Key)
	}
	return nil
}

func initializeMint(mintInfo, rentInfo *accounts.Info, args InitializeMintArgs) error {
	if err := checkFresh(mintInfo, MintSize, rentInfo); err != nil {
		return err
	}
	return store(mintInfo, &Mint{IsInitialized: true, Decimals: args.Decimals, MintAuthority: args.MintAuthority})
}

func initializeAccount(accountInfo, mintInfo, ownerInfo, rentInfo *accounts.Info) error {
	if err := checkFresh(accountInfo, AccountSize, rentInfo); err != nil {
		return err
	}
	if _, err := ReadMint(mintInfo); err != nil {
		return err
	}
	return store(accountInfo, &Account{IsInitialized: true, Mint: mintInfo.Key, Owner: ownerInfo.Key})
}

func transfer(sourceInfo, destInfo, ownerInfo *accounts.Info, amount uint64) error {
	source, err := ReadAccount(sourceInfo)
	if err != nil {
		return err
	}
	dest, err := ReadAccount(destInfo)
	if err != nil {
		return err
	}
	if !source.Mint.Equals(dest.Mint) {
		return reverts.Newf(reverts.InvalidMint, "transfer between %s and %s", source.Mint, dest.Mint)
	}
	if !source.Owner.Equals(ownerInfo.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the owner of %s", ownerInfo.Key, sourceInfo.Key)
	}
	if source.Amount < amount {
		return reverts.Newf(reverts.InsufficientFunds, "%s holds %d, needs %d", sourceInfo.Key, source.Amount, amount)
	}
	if sourceInfo.Key.Equals(destInfo.Key) {
		return nil
	}
	if dest.Amount > math.MaxUint64-amount {
		return reverts.ErrArithmeticOverflow
	}
	source.Amount -= amount
	dest.Amount += amount
	if err := store(sourceInfo, source); err != nil {
		return err
	}
	return store(destInfo, dest)
}

func mintTo(mintInfo, destInfo, authorityInfo *accounts.Info, amount uint64) error {
	mint, err := ReadMint(mintInfo)
	if err != nil {
		return err
	}
	dest, err := ReadAccount(destInfo)
	if err != nil {
		return err
	}
	if !dest.Mint.Equals(mintInfo.Key) {
		return reverts.Newf(reverts.InvalidMint, "%s holds %s, not %s", destInfo.Key, dest.Mint, mintInfo.Key)
	}
	if !mint.MintAuthority.Equals(authorityInfo.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the mint authority of %s", authorityInfo.Key, mintInfo.Key)
	}
	if mint.Supply > math.MaxUint64-amount {
		return reverts.ErrArithmeticOverflow
	}
	mint.Supply += amount
	dest.Amount += amount // bounded by supply
	logger.Debug("minted", "mint", mintInfo.Key, "to", destInfo.Key, "amount", amount)
	if err := store(mintInfo, mint); err != nil {
		return err
	}
	return store(destInfo, dest)
}

func burn(accountInfo, mintInfo, ownerInfo *accounts.Info, amount uint64) error {
	account, err := ReadAccount(accountInfo)
	if err != nil {
		return err
	}
	mint, err := ReadMint(mintInfo)
	if err != nil {
		return err
	}
	if !account.Mint.Equals(mintInfo.Key) {
		return reverts.Newf(reverts.InvalidMint, "%s holds %s, not %s", accountInfo.Key, account.Mint, mintInfo.Key)
	}
	if !account.Owner.Equals(ownerInfo.Key) {
		return reverts.Newf(reverts.AuthorizationMismatch, "%s is not the owner of %s", ownerInfo.Key, accountInfo.Key)
	}
	if account.Amount < amount {
		return reverts.Newf(reverts.InsufficientFunds, "%s holds %d, needs %d", accountInfo.Key, account.Amount, amount)
	}
	account.Amount -= amount
	mint.Supply -= amount // supply covers every balance
	if err := store(accountInfo, account); err != nil {
		return err
	}
	return store(mintInfo, mint)
}
