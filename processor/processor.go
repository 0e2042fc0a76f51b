// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package processor executes Solido instructions. Every handler checks all of
// its preconditions before it writes anything, and writes the record back as
// its last step; a failed collaborator call aborts the whole instruction.
package processor

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/lido-solana/solido/accounts"
	"github.com/lido-solana/solido/instruction"
	"github.com/lido-solana/solido/log"
	"github.com/lido-solana/solido/reverts"
	"github.com/lido-solana/solido/runtime"
	"github.com/lido-solana/solido/token"
)

var logger = log.WithContext("pkg", "processor")

// Config holds the tunables of the program.
type Config struct {
	// MinimumStakeDeposit is the smallest amount StakeDeposit moves into a
	// new stake account.
	MinimumStakeDeposit token.Lamports
	// MaxValidatorStakeAccounts caps the open stake accounts per validator.
	MaxValidatorStakeAccounts uint64
}

// DefaultConfig returns the mainnet settings.
func DefaultConfig() Config {
	return Config{
		MinimumStakeDeposit:       1_000_000_000,
		MaxValidatorStakeAccounts: instruction.MaxValidatorStakeAccounts,
	}
}

// Program is the Solido program.
type Program struct {
	id     solana.PublicKey
	config Config
}

// New creates the program deployed at id.
func New(id solana.PublicKey, config Config) *Program {
	if config.MaxValidatorStakeAccounts == 0 || config.MaxValidatorStakeAccounts > instruction.MaxValidatorStakeAccounts {
		config.MaxValidatorStakeAccounts = instruction.MaxValidatorStakeAccounts
	}
	return &Program{id: id, config: config}
}

func (p *Program) ID() solana.PublicKey { return p.id }

func (p *Program) Config() Config { return p.config }

// Process decodes and runs one instruction.
func (p *Program) Process(ctx runtime.Context, infos []*accounts.Info, data []byte) (err error) {
	payload, err := instruction.Decode(data)
	if err != nil {
		metricInstructionCount().AddWithLabel(1, map[string]string{"kind": "invalid", "result": "revert"})
		return err
	}
	kind := payload.Kind()

	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "revert"
			metricRevertCount().AddWithLabel(1, map[string]string{"code": reverts.CodeOf(err).String()})
			logger.Debug("instruction reverted", "kind", kind, "error", err)
		}
		metricInstructionCount().AddWithLabel(1, map[string]string{"kind": kind.String(), "result": result})
		metricInstructionDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"kind": kind.String()})
	}()

	b, err := instruction.Contract(kind).Parse(infos)
	if err != nil {
		return err
	}
	h := &handler{program: p, ctx: ctx, accounts: b, infos: infos}

	switch args := payload.(type) {
	case *instruction.Initialize:
		return h.initialize(args)
	case *instruction.Deposit:
		return h.deposit(args)
	case *instruction.StakeDeposit:
		return h.stakeDeposit(args)
	case *instruction.UpdateExchangeRate:
		return h.updateExchangeRate()
	case *instruction.UpdateValidatorBalance:
		return h.updateValidatorBalance()
	case *instruction.Withdraw:
		return h.withdraw(args)
	case *instruction.ClaimValidatorFees:
		return h.claimValidatorFees()
	case *instruction.ChangeRewardDistribution:
		return h.changeRewardDistribution(args)
	case *instruction.AddValidator:
		return h.addValidator(args)
	case *instruction.RemoveValidator:
		return h.removeValidator()
	case *instruction.AddMaintainer:
		return h.addMaintainer()
	case *instruction.RemoveMaintainer:
		return h.removeMaintainer()
	case *instruction.MergeStake:
		return h.mergeStake()
	default:
		return reverts.Newf(reverts.InvalidInstruction, "unhandled operation %s", kind)
	}
}
