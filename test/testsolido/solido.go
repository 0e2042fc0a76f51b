// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testsolido sets up an in-memory ledger hosting an initialized
// Solido instance, with a manager, a maintainer and registered validators.
package testsolido

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/lvldb"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/processor"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/test/datagen"
	"github.com/lido-solana/solido/token"
)

// Sol is one SOL in lamports.
const Sol token.Lamports = 1_000_000_000

// Options configures the fixture.
type Options struct {
	Config             processor.Config
	Ledger             ledger.Options
	RewardDistribution state.RewardDistribution
	MaxValidators      uint32
	MaxMaintainers     uint32
	// Validators is the number of validators registered, each with weight 1.
	Validators int
}

func DefaultOptions() Options {
	return Options{
		Config:             processor.DefaultConfig(),
		Ledger:             ledger.DefaultOptions(),
		RewardDistribution: state.RewardDistribution{Insurance: 1, Treasury: 2, Validation: 3, Manager: 4},
		MaxValidators:      9,
		MaxMaintainers:     3,
		Validators:         1,
	}
}

// Validator is a registered validator.
type Validator struct {
	Vote solana.PublicKey
	// Fee is the stSOL account receiving the validation fee.
	Fee solana.PublicKey
}

// Solido is a ledger with an initialized instance.
type Solido struct {
	Ledger  *ledger.Ledger
	Client  *client.Client
	Program *processor.Program

	ProgramID     solana.PublicKey
	Instance      solana.PublicKey
	Payer         solana.PublicKey
	Manager       solana.PublicKey
	Maintainer    solana.PublicKey
	Mint          solana.PublicKey
	FeeRecipients state.FeeRecipients
	Validators    []Validator

	keys int
}

// New builds the fixture on an in-memory store.
func New(opts Options) (*Solido, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	s := &Solido{
		ProgramID:  datagen.NamedKey("program"),
		Instance:   datagen.NamedKey("instance"),
		Payer:      datagen.NamedKey("payer"),
		Manager:    datagen.NamedKey("manager"),
		Maintainer: datagen.NamedKey("maintainer"),
		Mint:       datagen.NamedKey("mint"),
	}
	s.Program = processor.New(s.ProgramID, opts.Config)
	if s.Ledger, err = ledger.New(db, opts.Ledger, s.Program); err != nil {
		return nil, err
	}
	if s.Client, err = client.New(s.Ledger, s.ProgramID, s.Instance); err != nil {
		return nil, err
	}
	if err := s.Ledger.Airdrop(s.Payer, 1_000_000*Sol); err != nil {
		return nil, err
	}

	rent := s.Ledger.Rent()
	addrs := s.Client.Addresses()
	if err := s.Execute(client.CreateMint(s.Payer, s.Mint, addrs.MintAuthority, rent), s.Payer, s.Mint); err != nil {
		return nil, errors.WithMessage(err, "create mint")
	}
	s.FeeRecipients = state.FeeRecipients{
		Insurance: datagen.NamedKey("insurance"),
		Treasury:  datagen.NamedKey("treasury"),
		Manager:   datagen.NamedKey("manager fee"),
	}
	for _, key := range []solana.PublicKey{s.FeeRecipients.Insurance, s.FeeRecipients.Treasury, s.FeeRecipients.Manager} {
		if err := s.Execute(client.CreateTokenAccount(s.Payer, key, s.Mint, s.Manager, rent), s.Payer, key); err != nil {
			return nil, errors.WithMessage(err, "create fee account")
		}
	}
	ixs, err := client.CreateInstance(s.ProgramID, s.Payer, s.Instance, client.InstanceConfig{
		Manager:            s.Manager,
		StSolMint:          s.Mint,
		FeeRecipients:      s.FeeRecipients,
		RewardDistribution: opts.RewardDistribution,
		MaxValidators:      opts.MaxValidators,
		MaxMaintainers:     opts.MaxMaintainers,
	}, rent)
	if err != nil {
		return nil, err
	}
	if err := s.Execute(ixs, s.Payer, s.Instance); err != nil {
		return nil, errors.WithMessage(err, "create instance")
	}

	ix, err := s.Client.AddMaintainer(s.Manager, s.Maintainer)
	if err != nil {
		return nil, err
	}
	if err := s.Execute([]solana.Instruction{ix}, s.Manager); err != nil {
		return nil, errors.WithMessage(err, "add maintainer")
	}
	for i := 0; i < opts.Validators; i++ {
		v, err := s.AddValidator(1)
		if err != nil {
			return nil, errors.WithMessagef(err, "add validator %d", i)
		}
		s.Validators = append(s.Validators, v)
	}
	return s, nil
}

// Execute runs ixs as one transaction signed by signers.
func (s *Solido) Execute(ixs []solana.Instruction, signers ...solana.PublicKey) error {
	return s.Ledger.Execute(ledger.NewTransaction(signers, ixs...))
}

// Run builds one instruction and executes it.
func (s *Solido) Run(ix solana.Instruction, err error, signers ...solana.PublicKey) error {
	if err != nil {
		return err
	}
	return s.Execute([]solana.Instruction{ix}, signers...)
}

func (s *Solido) nextKey(kind string) solana.PublicKey {
	s.keys++
	return datagen.NamedKey(fmt.Sprintf("%s %d", kind, s.keys))
}

// NewVoteAccount creates a vote account, as the vote program would.
func (s *Solido) NewVoteAccount() (solana.PublicKey, error) {
	key := s.nextKey("vote")
	data := make([]byte, 64)
	return key, s.Ledger.SetAccount(key, &ledger.Account{
		Lamports: s.Ledger.Rent().MinimumBalance(len(data)),
		Data:     data,
		Owner:    stake.VoteProgramID,
	})
}

// NewTokenAccount creates an stSOL account owned by owner.
func (s *Solido) NewTokenAccount(owner solana.PublicKey) (solana.PublicKey, error) {
	key := s.nextKey("token account")
	return key, s.Execute(client.CreateTokenAccount(s.Payer, key, s.Mint, owner, s.Ledger.Rent()), s.Payer, key)
}

// NewUser funds a fresh wallet and gives it an stSOL account.
func (s *Solido) NewUser(lamports token.Lamports) (wallet, stSol solana.PublicKey, err error) {
	wallet = s.nextKey("user")
	if err := s.Ledger.Airdrop(wallet, lamports); err != nil {
		return wallet, stSol, err
	}
	stSol, err = s.NewTokenAccount(wallet)
	return wallet, stSol, err
}

// AddValidator creates a vote account and a fee account, and registers them.
func (s *Solido) AddValidator(weight uint32) (Validator, error) {
	vote, err := s.NewVoteAccount()
	if err != nil {
		return Validator{}, err
	}
	fee, err := s.NewTokenAccount(s.nextKey("validator"))
	if err != nil {
		return Validator{}, err
	}
	v := Validator{Vote: vote, Fee: fee}
	ix, err := s.Client.AddValidator(s.Manager, vote, fee, weight)
	return v, s.Run(ix, err, s.Manager)
}

// Deposit deposits amount from user and mints to recipient.
func (s *Solido) Deposit(user, recipient solana.PublicKey, amount token.Lamports) error {
	ix, err := s.Client.Deposit(user, recipient, amount)
	return s.Run(ix, err, user)
}

// Withdraw burns amount from source, owned by user, and pays recipient.
func (s *Solido) Withdraw(user, source, recipient solana.PublicKey, amount token.StLamports) error {
	ix, err := s.Client.Withdraw(user, source, recipient, amount)
	return s.Run(ix, err, user)
}

// StakeDeposit stakes amount with vote, signed by the maintainer.
func (s *Solido) StakeDeposit(vote solana.PublicKey, amount token.Lamports) error {
	ix, err := s.Client.StakeDeposit(s.Maintainer, vote, amount)
	return s.Run(ix, err, s.Maintainer)
}

func (s *Solido) UpdateExchangeRate() error {
	ix, err := s.Client.UpdateExchangeRate()
	return s.Run(ix, err)
}

func (s *Solido) UpdateValidatorBalance(vote solana.PublicKey) error {
	ix, err := s.Client.UpdateValidatorBalance(vote)
	return s.Run(ix, err)
}

// AdvanceEpoch moves to the next epoch and refreshes the exchange rate.
func (s *Solido) AdvanceEpoch() error {
	if err := s.Ledger.AdvanceEpoch(); err != nil {
		return err
	}
	return s.UpdateExchangeRate()
}

// Lido reads the instance record.
func (s *Solido) Lido() (*state.Lido, error) {
	return s.Client.Lido()
}
