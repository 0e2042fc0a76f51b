// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lido-solana/solido/client"
	"github.com/lido-solana/solido/ledger"
	"github.com/lido-solana/solido/native/stake"
	"github.com/lido-solana/solido/state"
	"github.com/lido-solana/solido/token"
)

// voteAccountSize is the space given to the vote accounts bootstrap creates.
const voteAccountSize = 3762

// Config describes an instance to create on an empty local ledger. Keys are
// base58 addresses. Since the local ledger takes the declared signers at
// their word, no private keys are involved.
type Config struct {
	Payer          solana.PublicKey `yaml:"payer"`
	PayerLamports  token.Lamports   `yaml:"payerLamports"`
	Instance       solana.PublicKey `yaml:"instance"`
	Manager        solana.PublicKey `yaml:"manager"`
	StSolMint      solana.PublicKey `yaml:"stSolMint"`
	MaxValidators  uint32           `yaml:"maxValidators"`
	MaxMaintainers uint32           `yaml:"maxMaintainers"`

	RewardDistribution struct {
		Insurance  uint32 `yaml:"insurance"`
		Treasury   uint32 `yaml:"treasury"`
		Validation uint32 `yaml:"validation"`
		Manager    uint32 `yaml:"manager"`
	} `yaml:"rewardDistribution"`
	FeeRecipients struct {
		Insurance solana.PublicKey `yaml:"insurance"`
		Treasury  solana.PublicKey `yaml:"treasury"`
		Manager   solana.PublicKey `yaml:"manager"`
	} `yaml:"feeRecipients"`

	Maintainers []solana.PublicKey `yaml:"maintainers"`
	Validators  []struct {
		Vote       solana.PublicKey `yaml:"vote"`
		FeeAccount solana.PublicKey `yaml:"feeAccount"`
		// FeeOwner owns the fee account; the manager if unset.
		FeeOwner solana.PublicKey `yaml:"feeOwner"`
		Weight   uint32           `yaml:"weight"`
	} `yaml:"validators"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()
	return parseConfig(f)
}

func parseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.PayerLamports == 0 {
		cfg.PayerLamports = 1_000 * 1_000_000_000
	}
	for name, key := range map[string]solana.PublicKey{
		"payer":     cfg.Payer,
		"instance":  cfg.Instance,
		"manager":   cfg.Manager,
		"stSolMint": cfg.StSolMint,
	} {
		if key.IsZero() {
			return nil, errors.Errorf("config: %s is required", name)
		}
	}
	return &cfg, nil
}

// bootstrap funds the payer and creates the mint, the fee accounts, the
// instance, its maintainers and its validators, one transaction each.
func bootstrap(l *ledger.Ledger, programID solana.PublicKey, cfg *Config) (*client.Client, error) {
	c, err := client.New(l, programID, cfg.Instance)
	if err != nil {
		return nil, err
	}
	rent := l.Rent()
	execute := func(what string, ixs []solana.Instruction, signers ...solana.PublicKey) error {
		if err := l.Execute(ledger.NewTransaction(signers, ixs...)); err != nil {
			return errors.WithMessage(err, what)
		}
		logger.Debug("bootstrap", "step", what)
		return nil
	}

	if err := l.Airdrop(cfg.Payer, cfg.PayerLamports); err != nil {
		return nil, err
	}
	if err := execute("create mint",
		client.CreateMint(cfg.Payer, cfg.StSolMint, c.Addresses().MintAuthority, rent),
		cfg.Payer, cfg.StSolMint); err != nil {
		return nil, err
	}
	recipients := state.FeeRecipients{
		Insurance: cfg.FeeRecipients.Insurance,
		Treasury:  cfg.FeeRecipients.Treasury,
		Manager:   cfg.FeeRecipients.Manager,
	}
	for _, key := range []solana.PublicKey{recipients.Insurance, recipients.Treasury, recipients.Manager} {
		if err := execute("create fee account "+key.String(),
			client.CreateTokenAccount(cfg.Payer, key, cfg.StSolMint, cfg.Manager, rent),
			cfg.Payer, key); err != nil {
			return nil, err
		}
	}

	d := cfg.RewardDistribution
	ixs, err := client.CreateInstance(programID, cfg.Payer, cfg.Instance, client.InstanceConfig{
		Manager:            cfg.Manager,
		StSolMint:          cfg.StSolMint,
		FeeRecipients:      recipients,
		RewardDistribution: state.RewardDistribution{Insurance: d.Insurance, Treasury: d.Treasury, Validation: d.Validation, Manager: d.Manager},
		MaxValidators:      cfg.MaxValidators,
		MaxMaintainers:     cfg.MaxMaintainers,
	}, rent)
	if err != nil {
		return nil, err
	}
	if err := execute("create instance", ixs, cfg.Payer, cfg.Instance); err != nil {
		return nil, err
	}

	for _, m := range cfg.Maintainers {
		ix, err := c.AddMaintainer(cfg.Manager, m)
		if err != nil {
			return nil, err
		}
		if err := execute("add maintainer "+m.String(), []solana.Instruction{ix}, cfg.Manager); err != nil {
			return nil, err
		}
	}

	for _, v := range cfg.Validators {
		// the vote program is not hosted, so vote accounts are planted
		if err := l.SetAccount(v.Vote, &ledger.Account{
			Lamports: rent.MinimumBalance(voteAccountSize),
			Data:     make([]byte, voteAccountSize),
			Owner:    stake.VoteProgramID,
		}); err != nil {
			return nil, err
		}
		owner := v.FeeOwner
		if owner.IsZero() {
			owner = cfg.Manager
		}
		if err := execute("create validator fee account "+v.FeeAccount.String(),
			client.CreateTokenAccount(cfg.Payer, v.FeeAccount, cfg.StSolMint, owner, rent),
			cfg.Payer, v.FeeAccount); err != nil {
			return nil, err
		}
		ix, err := c.AddValidator(cfg.Manager, v.Vote, v.FeeAccount, v.Weight)
		if err != nil {
			return nil, err
		}
		if err := execute("add validator "+v.Vote.String(), []solana.Instruction{ix}, cfg.Manager); err != nil {
			return nil, err
		}
	}
	return c, nil
}
