// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package client reads the state of a Solido instance and builds the
// instructions that drive it, resolving every derived address on the way.
package client

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/native/sysvar"
	nativetoken "github.com/lido-solana/solido/native/token"
	"github.com/lido-solana/solido/pda"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

// Reader gives access to committed accounts. A missing account reads as an
// empty one.
type Reader interface {
	Account(key solana.PublicKey) (*ledger.Account, error)
}

// Addresses are the derived addresses of an instance.
type Addresses struct {
	Instance       solana.PublicKey `json:"instance"`
	Reserve        solana.PublicKey `json:"reserve"`
	MintAuthority  solana.PublicKey `json:"mintAuthority"`
	StakeAuthority solana.PublicKey `json:"stakeAuthority"`
}

// DeriveAddresses computes the derived addresses of instance under programID.
func DeriveAddresses(programID, instance solana.PublicKey) (*Addresses, error) {
	addrs := &Addresses{Instance: instance}
	for _, d := range []struct {
		seed []byte
		to   *solana.PublicKey
	}{
		{pda.ReserveAccount, &addrs.Reserve},
		{pda.MintAuthority, &addrs.MintAuthority},
		{pda.StakeAuthority, &addrs.StakeAuthority},
	} {
		addr, err := pda.Find(programID, instance, d.seed)
		if err != nil {
			return nil, errors.WithMessagef(err, "derive %s", d.seed)
		}
		*d.to = addr.Key
	}
	return addrs, nil
}

// Client works with one instance of the program.
type Client struct {
	reader    Reader
	programID solana.PublicKey
	addrs     *Addresses
}

// New creates a client for instance.
func New(reader Reader, programID, instance solana.PublicKey) (*Client, error) {
	addrs, err := DeriveAddresses(programID, instance)
	if err != nil {
		return nil, err
	}
	return &Client{reader: reader, programID: programID, addrs: addrs}, nil
}

func (c *Client) ProgramID() solana.PublicKey { return c.programID }
func (c *Client) Addresses() Addresses        { return *c.addrs }

func (c *Client) info(key solana.PublicKey) (*accounts.Info, error) {
	a, err := c.reader.Account(key)
	if err != nil {
		return nil, err
	}
	return &accounts.Info{
		Key:        key,
		Lamports:   a.Lamports,
		Data:       a.Data,
		Owner:      a.Owner,
		Executable: a.Executable,
	}, nil
}

// Lido reads the instance record.
func (c *Client) Lido() (*state.Lido, error) {
	info, err := c.info(c.addrs.Instance)
	if err != nil {
		return nil, err
	}
	l, err := state.Load(c.programID, info)
	if err != nil {
		return nil, errors.WithMessagef(err, "instance %s", c.addrs.Instance)
	}
	return l, nil
}

// Validator reads one validator entry of the instance.
func (c *Client) Validator(vote solana.PublicKey) (*state.Validator, error) {
	l, err := c.Lido()
	if err != nil {
		return nil, err
	}
	return l.Validators.Get(vote)
}

// StakeAccounts returns the open stake accounts of v, in seed order.
func (c *Client) StakeAccounts(v *state.Validator) ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, 0, v.StakeSeeds.Len())
	for seed := v.StakeSeeds.Begin; seed < v.StakeSeeds.End; seed++ {
		addr, err := pda.FindStakeAccount(c.programID, c.addrs.Instance, v.VoteAccount, seed)
		if err != nil {
			return nil, err
		}
		keys = append(keys, addr.Key)
	}
	return keys, nil
}

// StakeState reads a stake account.
func (c *Client) StakeState(key solana.PublicKey) (*stake.State, error) {
	info, err := c.info(key)
	if err != nil {
		return nil, err
	}
	return stake.Read(info)
}

// Clock reads the clock sysvar.
func (c *Client) Clock() (*sysvar.Clock, error) {
	info, err := c.info(sysvar.ClockID)
	if err != nil {
		return nil, err
	}
	return sysvar.ReadClock(info)
}

// Rent reads the rent sysvar.
func (c *Client) Rent() (*sysvar.Rent, error) {
	info, err := c.info(sysvar.RentID)
	if err != nil {
		return nil, err
	}
	return sysvar.ReadRent(info)
}

// Balance returns the lamports held by key.
func (c *Client) Balance(key solana.PublicKey) (token.Lamports, error) {
	a, err := c.reader.Account(key)
	if err != nil {
		return 0, err
	}
	return a.Lamports, nil
}

// TokenBalance returns the stSOL held by a token account.
func (c *Client) TokenBalance(key solana.PublicKey) (token.StLamports, error) {
	info, err := c.info(key)
	if err != nil {
		return 0, err
	}
	account, err := nativetoken.ReadAccount(info)
	if err != nil {
		return 0, err
	}
	return token.StLamports(account.Amount), nil
}

// Supply returns the stSOL supply of the instance's mint.
func (c *Client) Supply() (token.StLamports, error) {
	l, err := c.Lido()
	if err != nil {
		return 0, err
	}
	info, err := c.info(l.StSolMint)
	if err != nil {
		return 0, err
	}
	mint, err := nativetoken.ReadMint(info)
	if err != nil {
		return 0, err
	}
	return token.StLamports(mint.Supply), nil
}

// AvailableReserve returns what the reserve can pay out while staying rent exempt.
func (c *Client) AvailableReserve() (token.Lamports, error) {
	rent, err := c.Rent()
	if err != nil {
		return 0, err
	}
	balance, err := c.Balance(c.addrs.Reserve)
	if err != nil {
		return 0, err
	}
	if minimum := rent.MinimumBalance(0); balance > minimum {
		return balance - minimum, nil
	}
	return 0, nil
}
